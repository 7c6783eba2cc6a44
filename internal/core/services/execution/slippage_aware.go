package execution

import (
	"context"
	"fmt"

	"github.com/quantive/execengine/internal/core/domain"
	"github.com/quantive/execengine/internal/core/ports"
)

// SlippageAwareConfig contains the conversion thresholds
type SlippageAwareConfig struct {
	ConversionThreshold float64 `json:"conversion_threshold"`
	LimitPremium        float64 `json:"limit_premium"`
}

// DefaultSlippageAwareConfig returns reasonable default configuration
func DefaultSlippageAwareConfig() SlippageAwareConfig {
	return SlippageAwareConfig{
		ConversionThreshold: 0.005, // 50 bps
		LimitPremium:        0.001, // limit placed 10 bps above market
	}
}

// SlippageAwareExecution recommends converting costly market orders to
// limit orders. It never places orders; the caller decides whether to act
// on the adjustment.
type SlippageAwareExecution struct {
	config    SlippageAwareConfig
	estimator ports.SlippageEstimator
}

// NewSlippageAwareExecution creates the planner around a slippage estimator.
func NewSlippageAwareExecution(estimator ports.SlippageEstimator) *SlippageAwareExecution {
	return NewSlippageAwareExecutionWithConfig(DefaultSlippageAwareConfig(), estimator)
}

// NewSlippageAwareExecutionWithConfig creates the planner with custom configuration.
func NewSlippageAwareExecutionWithConfig(config SlippageAwareConfig, estimator ports.SlippageEstimator) *SlippageAwareExecution {
	return &SlippageAwareExecution{
		config:    config,
		estimator: estimator,
	}
}

// PlanOrder estimates slippage and, above the conversion threshold,
// recommends a limit order slightly above market instead of eating the
// impact.
func (s *SlippageAwareExecution) PlanOrder(ctx context.Context, req *domain.OrderRequest, snapshot *domain.MarketSnapshot) (*domain.OrderAdjustment, error) {
	if req == nil || snapshot == nil {
		return nil, fmt.Errorf("order request and market snapshot cannot be nil")
	}

	estimate, err := s.estimator.EstimateSlippage(ctx, req, snapshot)
	if err != nil {
		return nil, fmt.Errorf("slippage estimation failed: %w", err)
	}

	adjustment := &domain.OrderAdjustment{
		Symbol:     req.Symbol,
		Shares:     req.TotalShares,
		OrderType:  req.Type,
		LimitPrice: req.LimitPrice,
		Estimate:   *estimate,
		TotalCost:  req.TotalShares*snapshot.CurrentPrice + estimate.ExecutionCost,
	}

	if estimate.TotalSlippage > s.config.ConversionThreshold {
		adjustment.OrderType = domain.OrderTypeLimit
		adjustment.LimitPrice = snapshot.CurrentPrice * (1 + s.config.LimitPremium)
		adjustment.Converted = true
		adjustment.Reasoning = fmt.Sprintf(
			"expected slippage %.1f bps exceeds %.1f bps threshold; converting to limit at %.4f",
			estimate.SlippageBps, s.config.ConversionThreshold*10000, adjustment.LimitPrice)
	} else {
		adjustment.Reasoning = fmt.Sprintf(
			"expected slippage %.1f bps within %.1f bps threshold; keeping %s order",
			estimate.SlippageBps, s.config.ConversionThreshold*10000, req.Type.String())
	}

	return adjustment, nil
}

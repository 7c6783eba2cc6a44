package execution

import (
	"math"

	"github.com/quantive/execengine/internal/core/domain"
)

// PartialFillConfig contains configuration for fill probability estimation
type PartialFillConfig struct {
	TightBandBps float64 `json:"tight_band_bps"`
	WideBandBps  float64 `json:"wide_band_bps"`
}

// DefaultPartialFillConfig returns reasonable default configuration
func DefaultPartialFillConfig() PartialFillConfig {
	return PartialFillConfig{
		TightBandBps: 10.0,
		WideBandBps:  50.0,
	}
}

// SubOrder is one equal split of a parent order with its own fill outcome.
type SubOrder struct {
	Sequence       int                `json:"sequence"`
	Shares         float64            `json:"shares"`
	Outcome        domain.FillOutcome `json:"outcome"`
	ExpectedShares float64            `json:"expected_shares"`
	Price          float64            `json:"price"`
}

// ExpectedExecution aggregates sub-order outcomes into a single expected
// execution result.
type ExpectedExecution struct {
	ExpectedShares    float64 `json:"expected_shares"`
	RequestedShares   float64 `json:"requested_shares"`
	FillRate          float64 `json:"fill_rate"`
	AvgExecutionPrice float64 `json:"avg_execution_price"`
}

// PartialFillModel estimates full/partial/no-fill probabilities and
// simulates order splitting. Stateless.
type PartialFillModel struct {
	config PartialFillConfig
}

// NewPartialFillModel creates a partial fill model with default configuration.
func NewPartialFillModel() *PartialFillModel {
	return NewPartialFillModelWithConfig(DefaultPartialFillConfig())
}

// NewPartialFillModelWithConfig creates a partial fill model with custom configuration.
func NewPartialFillModelWithConfig(config PartialFillConfig) *PartialFillModel {
	return &PartialFillModel{config: config}
}

// EstimateFillProbability tiers fill probabilities by order type and the
// limit price's distance from the current price. NoFill absorbs the
// remainder so the three probabilities always sum to 1.
func (p *PartialFillModel) EstimateFillProbability(req *domain.OrderRequest, snapshot *domain.MarketSnapshot) domain.FillOutcome {
	var full, partial float64

	switch req.Type {
	case domain.OrderTypeMarket:
		full, partial = 0.95, 0.05

	case domain.OrderTypeLimit:
		distance := p.priceDistanceBps(req.LimitPrice, snapshot.CurrentPrice)
		switch {
		case distance <= p.config.TightBandBps:
			full, partial = 0.80, 0.15
		case distance <= p.config.WideBandBps:
			full, partial = 0.50, 0.30
		default:
			full, partial = 0.20, 0.30
		}

	default:
		full, partial = 0.50, 0.30
	}

	return domain.FillOutcome{
		FullFill:    full,
		PartialFill: partial,
		NoFill:      1 - full - partial,
	}
}

// priceDistanceBps returns the absolute distance between limit and current
// price in basis points, or 0 when the current price is unusable.
func (p *PartialFillModel) priceDistanceBps(limit, current float64) float64 {
	if current <= 0 {
		return 0
	}
	return math.Abs(limit-current) / current * 10000.0
}

// SimulatePartialFills divides the order into numSplits equal sub-orders,
// each carrying an independently computed fill outcome. Sub-order size does
// not re-enter the probability formula, so the outcomes are structurally
// identical across splits.
func (p *PartialFillModel) SimulatePartialFills(req *domain.OrderRequest, snapshot *domain.MarketSnapshot, numSplits int) []SubOrder {
	if numSplits <= 0 || req.TotalShares <= 0 {
		return nil
	}

	shares := req.TotalShares / float64(numSplits)

	price := snapshot.CurrentPrice
	if req.Type == domain.OrderTypeLimit && req.LimitPrice > 0 {
		price = req.LimitPrice
	}

	subOrders := make([]SubOrder, 0, numSplits)
	for i := 0; i < numSplits; i++ {
		sub := &domain.OrderRequest{
			Symbol:      req.Symbol,
			TotalShares: shares,
			Side:        req.Side,
			Type:        req.Type,
			LimitPrice:  req.LimitPrice,
		}
		outcome := p.EstimateFillProbability(sub, snapshot)

		subOrders = append(subOrders, SubOrder{
			Sequence:       i,
			Shares:         shares,
			Outcome:        outcome,
			ExpectedShares: shares * outcome.ExpectedFillPct(),
			Price:          price,
		})
	}

	return subOrders
}

// CalculateExpectedExecution aggregates sub-orders into a weighted average
// execution price and overall fill rate. Zero denominators yield zero
// results, never an error.
func (p *PartialFillModel) CalculateExpectedExecution(subOrders []SubOrder) ExpectedExecution {
	var expected, requested, weightedValue float64

	for _, sub := range subOrders {
		expected += sub.ExpectedShares
		requested += sub.Shares
		weightedValue += sub.ExpectedShares * sub.Price
	}

	result := ExpectedExecution{
		ExpectedShares:  expected,
		RequestedShares: requested,
	}

	if requested > 0 {
		result.FillRate = expected / requested
	}

	if expected > 0 {
		result.AvgExecutionPrice = weightedValue / expected
	}

	return result
}

package execution

import (
	"context"
	"fmt"
	"strings"

	"github.com/quantive/execengine/internal/core/domain"
	"github.com/quantive/execengine/internal/core/ports"
)

// RouterConfig contains the strategy-selection thresholds
type RouterConfig struct {
	VolatilityThreshold float64 `json:"volatility_threshold"`
	LiquidityThreshold  float64 `json:"liquidity_threshold"`
	LargeOrderValue     float64 `json:"large_order_value"`
	TWAPWindowMinutes   float64 `json:"twap_window_minutes"`
	VWAPWindowMinutes   float64 `json:"vwap_window_minutes"`
	MarketWindowMinutes float64 `json:"market_window_minutes"`
}

// DefaultRouterConfig returns reasonable default configuration
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		VolatilityThreshold: 0.30,
		LiquidityThreshold:  0.5,
		LargeOrderValue:     100_000,
		TWAPWindowMinutes:   120,
		VWAPWindowMinutes:   60,
		MarketWindowMinutes: 1,
	}
}

// StrategyDecision is the router's strategy choice before schedule
// generation.
type StrategyDecision struct {
	Strategy      domain.ExecutionStrategy `json:"strategy"`
	WindowMinutes float64                  `json:"window_minutes"`
	Reasoning     string                   `json:"reasoning"`
}

// SmartOrderRouter chooses between MARKET, VWAP, and TWAP execution based
// on market conditions and dispatches to the matching schedule generator.
type SmartOrderRouter struct {
	config RouterConfig
	vwap   ports.ScheduleGenerator
	twap   ports.ScheduleGenerator
}

// NewSmartOrderRouter creates a router with default configuration.
func NewSmartOrderRouter() *SmartOrderRouter {
	return NewSmartOrderRouterWithConfig(DefaultRouterConfig())
}

// NewSmartOrderRouterWithConfig creates a router with custom configuration.
func NewSmartOrderRouterWithConfig(config RouterConfig) *SmartOrderRouter {
	return &SmartOrderRouter{
		config: config,
		vwap:   NewVWAPOptimizer(),
		twap:   NewTWAPOptimizer(),
	}
}

// OptimizeExecution applies the strategy-selection rule in priority order:
// adverse conditions (volatility or thin liquidity) force TWAP for
// stability, large orders take VWAP to match natural volume, everything
// else goes straight to market.
func (r *SmartOrderRouter) OptimizeExecution(req *domain.OrderRequest, snapshot *domain.MarketSnapshot) StrategyDecision {
	var reasons []string

	highVol := snapshot.Volatility > r.config.VolatilityThreshold
	lowLiq := snapshot.LiquidityScore < r.config.LiquidityThreshold

	if highVol {
		reasons = append(reasons, fmt.Sprintf("volatility %.2f above %.2f", snapshot.Volatility, r.config.VolatilityThreshold))
	}
	if lowLiq {
		reasons = append(reasons, fmt.Sprintf("liquidity %.2f below %.2f", snapshot.LiquidityScore, r.config.LiquidityThreshold))
	}

	if highVol || lowLiq {
		return StrategyDecision{
			Strategy:      domain.StrategyTWAP,
			WindowMinutes: r.window(req, r.config.TWAPWindowMinutes),
			Reasoning:     "TWAP selected: " + strings.Join(reasons, "; "),
		}
	}

	orderValue := req.NotionalValue(snapshot.CurrentPrice)
	if orderValue > r.config.LargeOrderValue {
		return StrategyDecision{
			Strategy:      domain.StrategyVWAP,
			WindowMinutes: r.window(req, r.config.VWAPWindowMinutes),
			Reasoning:     fmt.Sprintf("VWAP selected: order value %.0f above %.0f", orderValue, r.config.LargeOrderValue),
		}
	}

	// No rule fired; a worked-schedule hint from the caller is honored.
	switch req.Strategy {
	case domain.StrategyVWAP:
		return StrategyDecision{
			Strategy:      domain.StrategyVWAP,
			WindowMinutes: r.window(req, r.config.VWAPWindowMinutes),
			Reasoning:     "VWAP selected: requested strategy, no overriding conditions",
		}
	case domain.StrategyTWAP:
		return StrategyDecision{
			Strategy:      domain.StrategyTWAP,
			WindowMinutes: r.window(req, r.config.TWAPWindowMinutes),
			Reasoning:     "TWAP selected: requested strategy, no overriding conditions",
		}
	}

	return StrategyDecision{
		Strategy:      domain.StrategyMarket,
		WindowMinutes: r.config.MarketWindowMinutes,
		Reasoning:     "MARKET selected: benign conditions, order within size limit",
	}
}

// window prefers the caller's requested execution window over the
// strategy default. Market execution ignores it; a single immediate
// order has no window to work.
func (r *SmartOrderRouter) window(req *domain.OrderRequest, fallback float64) float64 {
	if req.TimeWindowMinutes > 0 {
		return req.TimeWindowMinutes
	}
	return fallback
}

// RouteOrder builds the execution plan for the chosen strategy.
func (r *SmartOrderRouter) RouteOrder(ctx context.Context, req *domain.OrderRequest, snapshot *domain.MarketSnapshot) (*domain.ExecutionPlan, error) {
	if req == nil || snapshot == nil {
		return nil, fmt.Errorf("order request and market snapshot cannot be nil")
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid order request: %w", err)
	}

	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("invalid market snapshot: %w", err)
	}

	decision := r.OptimizeExecution(req, snapshot)

	plan := &domain.ExecutionPlan{
		Symbol:                     req.Symbol,
		Strategy:                   decision.Strategy,
		EstimatedCompletionMinutes: decision.WindowMinutes,
		Reasoning:                  decision.Reasoning,
	}

	switch decision.Strategy {
	case domain.StrategyVWAP:
		plan.Schedule = r.vwap.GenerateSchedule(req, snapshot, decision.WindowMinutes)
		plan.RecommendedOrderType = scheduledOrderType(req)

	case domain.StrategyTWAP:
		plan.Schedule = r.twap.GenerateSchedule(req, snapshot, decision.WindowMinutes)
		plan.RecommendedOrderType = scheduledOrderType(req)

	default:
		plan.Schedule = domain.ExecutionSchedule{
			Slices: []domain.ScheduleSlice{{Sequence: 0, Shares: req.TotalShares, OffsetMinutes: 0}},
		}
		plan.RecommendedOrderType = domain.OrderTypeMarket
	}

	return plan, nil
}

// scheduledOrderType keeps the requested type on a worked schedule,
// defaulting to limit when none was given.
func scheduledOrderType(req *domain.OrderRequest) domain.OrderType {
	if req.Type == domain.OrderTypeMarket || req.Type == domain.OrderTypeLimit {
		return req.Type
	}
	return domain.OrderTypeLimit
}

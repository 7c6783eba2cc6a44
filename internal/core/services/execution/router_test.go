package execution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantive/execengine/internal/core/domain"
)

func calmSnapshot(price float64) *domain.MarketSnapshot {
	return &domain.MarketSnapshot{
		Symbol:         "AAPL",
		CurrentPrice:   price,
		Bid:            price - 0.05,
		Ask:            price + 0.05,
		Volatility:     0.15,
		LiquidityScore: 0.9,
	}
}

func TestOptimizeExecutionHighVolatilityPicksTWAP(t *testing.T) {
	router := NewSmartOrderRouter()

	snapshot := calmSnapshot(100)
	snapshot.Volatility = 0.45

	decision := router.OptimizeExecution(marketOrder("AAPL", 100), snapshot)

	assert.Equal(t, domain.StrategyTWAP, decision.Strategy)
	assert.Equal(t, 120.0, decision.WindowMinutes)
	assert.Contains(t, decision.Reasoning, "volatility")
}

func TestOptimizeExecutionLowLiquidityPicksTWAP(t *testing.T) {
	router := NewSmartOrderRouter()

	snapshot := calmSnapshot(100)
	snapshot.LiquidityScore = 0.3

	decision := router.OptimizeExecution(marketOrder("AAPL", 100), snapshot)

	assert.Equal(t, domain.StrategyTWAP, decision.Strategy)
	assert.Contains(t, decision.Reasoning, "liquidity")
}

func TestOptimizeExecutionBothAdverseConditionsListed(t *testing.T) {
	router := NewSmartOrderRouter()

	snapshot := calmSnapshot(100)
	snapshot.Volatility = 0.5
	snapshot.LiquidityScore = 0.2

	decision := router.OptimizeExecution(marketOrder("AAPL", 100), snapshot)

	assert.Equal(t, domain.StrategyTWAP, decision.Strategy)
	assert.Contains(t, decision.Reasoning, "volatility")
	assert.Contains(t, decision.Reasoning, "liquidity")
}

func TestOptimizeExecutionLargeOrderPicksVWAP(t *testing.T) {
	router := NewSmartOrderRouter()

	// 2000 shares at 100 = 200k notional, above the 100k threshold
	decision := router.OptimizeExecution(marketOrder("AAPL", 2_000), calmSnapshot(100))

	assert.Equal(t, domain.StrategyVWAP, decision.Strategy)
	assert.Equal(t, 60.0, decision.WindowMinutes)
	assert.Contains(t, decision.Reasoning, "order value")
}

func TestOptimizeExecutionAdverseConditionsBeatSize(t *testing.T) {
	router := NewSmartOrderRouter()

	snapshot := calmSnapshot(100)
	snapshot.Volatility = 0.5

	// volatility gate has priority over the large-order VWAP rule
	decision := router.OptimizeExecution(marketOrder("AAPL", 2_000), snapshot)
	assert.Equal(t, domain.StrategyTWAP, decision.Strategy)
}

func TestOptimizeExecutionSmallCalmOrderGoesToMarket(t *testing.T) {
	router := NewSmartOrderRouter()

	decision := router.OptimizeExecution(marketOrder("AAPL", 100), calmSnapshot(100))

	assert.Equal(t, domain.StrategyMarket, decision.Strategy)
	assert.Equal(t, 1.0, decision.WindowMinutes)
}

func TestOptimizeExecutionHonorsRequestedWindow(t *testing.T) {
	router := NewSmartOrderRouter()

	snapshot := calmSnapshot(100)
	snapshot.Volatility = 0.45

	req := marketOrder("AAPL", 100)
	req.TimeWindowMinutes = 30

	decision := router.OptimizeExecution(req, snapshot)

	assert.Equal(t, domain.StrategyTWAP, decision.Strategy)
	assert.Equal(t, 30.0, decision.WindowMinutes)
}

func TestOptimizeExecutionHonorsStrategyHintInCalmMarket(t *testing.T) {
	router := NewSmartOrderRouter()

	req := marketOrder("AAPL", 100)
	req.Strategy = domain.StrategyVWAP

	decision := router.OptimizeExecution(req, calmSnapshot(100))

	assert.Equal(t, domain.StrategyVWAP, decision.Strategy)
	assert.Equal(t, 60.0, decision.WindowMinutes)
	assert.Contains(t, decision.Reasoning, "requested strategy")

	req.Strategy = domain.StrategyTWAP
	decision = router.OptimizeExecution(req, calmSnapshot(100))

	assert.Equal(t, domain.StrategyTWAP, decision.Strategy)
	assert.Equal(t, 120.0, decision.WindowMinutes)
}

func TestOptimizeExecutionAdverseConditionsOverrideHint(t *testing.T) {
	router := NewSmartOrderRouter()

	snapshot := calmSnapshot(100)
	snapshot.Volatility = 0.5

	req := marketOrder("AAPL", 100)
	req.Strategy = domain.StrategyVWAP

	decision := router.OptimizeExecution(req, snapshot)
	assert.Equal(t, domain.StrategyTWAP, decision.Strategy)
}

func TestRouteOrderRequestedWindowShapesSchedule(t *testing.T) {
	router := NewSmartOrderRouter()

	snapshot := calmSnapshot(100)
	snapshot.Volatility = 0.6

	req := limitOrder(domain.OrderSideBuy, 99.9, 1_000)
	req.TimeWindowMinutes = 30

	plan, err := router.RouteOrder(context.Background(), req, snapshot)
	require.NoError(t, err)

	assert.Equal(t, domain.StrategyTWAP, plan.Strategy)
	assert.Equal(t, 30.0, plan.EstimatedCompletionMinutes)
	assert.Len(t, plan.Schedule.Slices, 6)
	assert.InDelta(t, 1_000, plan.Schedule.TotalShares(), 1e-6)
}

func TestRouteOrderBuildsMarketPlan(t *testing.T) {
	router := NewSmartOrderRouter()

	plan, err := router.RouteOrder(context.Background(), marketOrder("AAPL", 100), calmSnapshot(100))
	require.NoError(t, err)

	assert.Equal(t, domain.StrategyMarket, plan.Strategy)
	assert.Equal(t, domain.OrderTypeMarket, plan.RecommendedOrderType)
	require.Len(t, plan.Schedule.Slices, 1)
	assert.Equal(t, 100.0, plan.Schedule.Slices[0].Shares)
	assert.NotEmpty(t, plan.Reasoning)
}

func TestRouteOrderBuildsVWAPPlan(t *testing.T) {
	router := NewSmartOrderRouter()

	snapshot := calmSnapshot(100)
	snapshot.VolumeProfile = []float64{300, 200, 100}

	plan, err := router.RouteOrder(context.Background(), marketOrder("AAPL", 3_000), snapshot)
	require.NoError(t, err)

	assert.Equal(t, domain.StrategyVWAP, plan.Strategy)
	assert.Equal(t, 60.0, plan.EstimatedCompletionMinutes)
	require.Len(t, plan.Schedule.Slices, 3)
	assert.InDelta(t, 1_500, plan.Schedule.Slices[0].Shares, 1e-9)
	assert.InDelta(t, 3_000, plan.Schedule.TotalShares(), 1e-9)
}

func TestRouteOrderBuildsTWAPPlan(t *testing.T) {
	router := NewSmartOrderRouter()

	snapshot := calmSnapshot(100)
	snapshot.Volatility = 0.6

	req := limitOrder(domain.OrderSideBuy, 99.9, 1_000)
	plan, err := router.RouteOrder(context.Background(), req, snapshot)
	require.NoError(t, err)

	assert.Equal(t, domain.StrategyTWAP, plan.Strategy)
	assert.Equal(t, domain.OrderTypeLimit, plan.RecommendedOrderType, "requested type carries through")
	assert.Len(t, plan.Schedule.Slices, 24)
	assert.InDelta(t, 1_000, plan.Schedule.TotalShares(), 1e-6)
}

func TestRouteOrderRejectsInvalidInput(t *testing.T) {
	router := NewSmartOrderRouter()

	_, err := router.RouteOrder(context.Background(), nil, calmSnapshot(100))
	assert.Error(t, err)

	_, err = router.RouteOrder(context.Background(), marketOrder("AAPL", -5), calmSnapshot(100))
	assert.Error(t, err)

	_, err = router.RouteOrder(context.Background(), marketOrder("AAPL", 100), &domain.MarketSnapshot{})
	assert.Error(t, err)
}

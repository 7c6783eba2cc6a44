package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantive/execengine/internal/core/domain"
)

func TestEstimateFillProbabilityTiers(t *testing.T) {
	model := NewPartialFillModel()
	snapshot := &domain.MarketSnapshot{Symbol: "AAPL", CurrentPrice: 100}

	cases := []struct {
		name    string
		req     *domain.OrderRequest
		full    float64
		partial float64
	}{
		{"market", marketOrder("AAPL", 100), 0.95, 0.05},
		{"limit within 10 bps", limitOrder(domain.OrderSideBuy, 100.05, 100), 0.80, 0.15},
		{"limit within 50 bps", limitOrder(domain.OrderSideBuy, 100.40, 100), 0.50, 0.30},
		{"limit far from market", limitOrder(domain.OrderSideBuy, 98, 100), 0.20, 0.30},
		{"unknown order type", &domain.OrderRequest{Symbol: "AAPL", TotalShares: 100, Side: domain.OrderSideBuy}, 0.50, 0.30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome := model.EstimateFillProbability(tc.req, snapshot)

			assert.InDelta(t, tc.full, outcome.FullFill, 1e-9)
			assert.InDelta(t, tc.partial, outcome.PartialFill, 1e-9)
			assert.InDelta(t, 1.0, outcome.FullFill+outcome.PartialFill+outcome.NoFill, 1e-9,
				"probabilities must sum to 1")
			assert.GreaterOrEqual(t, outcome.NoFill, 0.0)
		})
	}
}

func TestExpectedFillPct(t *testing.T) {
	outcome := domain.FillOutcome{FullFill: 0.8, PartialFill: 0.15, NoFill: 0.05}
	assert.InDelta(t, 0.875, outcome.ExpectedFillPct(), 1e-9)
}

func TestSimulatePartialFills(t *testing.T) {
	model := NewPartialFillModel()
	snapshot := &domain.MarketSnapshot{Symbol: "AAPL", CurrentPrice: 100}

	subOrders := model.SimulatePartialFills(marketOrder("AAPL", 1000), snapshot, 4)
	require.Len(t, subOrders, 4)

	total := 0.0
	for i, sub := range subOrders {
		assert.Equal(t, i, sub.Sequence)
		assert.InDelta(t, 250, sub.Shares, 1e-9)
		// per-slice probability does not depend on slice size
		assert.Equal(t, subOrders[0].Outcome, sub.Outcome)
		total += sub.Shares
	}
	assert.InDelta(t, 1000, total, 1e-9)
}

func TestSimulatePartialFillsGuards(t *testing.T) {
	model := NewPartialFillModel()
	snapshot := &domain.MarketSnapshot{Symbol: "AAPL", CurrentPrice: 100}

	assert.Nil(t, model.SimulatePartialFills(marketOrder("AAPL", 1000), snapshot, 0))
	assert.Nil(t, model.SimulatePartialFills(marketOrder("AAPL", 1000), snapshot, -3))
	assert.Nil(t, model.SimulatePartialFills(marketOrder("AAPL", 0), snapshot, 4))
}

func TestCalculateExpectedExecution(t *testing.T) {
	model := NewPartialFillModel()
	snapshot := &domain.MarketSnapshot{Symbol: "AAPL", CurrentPrice: 100}

	subOrders := model.SimulatePartialFills(marketOrder("AAPL", 1000), snapshot, 4)
	result := model.CalculateExpectedExecution(subOrders)

	assert.InDelta(t, 1000, result.RequestedShares, 1e-9)
	assert.InDelta(t, 0.975, result.FillRate, 1e-9, "market orders expect 0.95 + 0.5*0.05")
	assert.InDelta(t, 975, result.ExpectedShares, 1e-9)
	assert.InDelta(t, 100, result.AvgExecutionPrice, 1e-9)
}

func TestCalculateExpectedExecutionLimitUsesLimitPrice(t *testing.T) {
	model := NewPartialFillModel()
	snapshot := &domain.MarketSnapshot{Symbol: "AAPL", CurrentPrice: 100}

	subOrders := model.SimulatePartialFills(limitOrder(domain.OrderSideBuy, 99.95, 1000), snapshot, 2)
	result := model.CalculateExpectedExecution(subOrders)

	assert.InDelta(t, 99.95, result.AvgExecutionPrice, 1e-9)
	assert.InDelta(t, 0.875, result.FillRate, 1e-9)
}

func TestCalculateExpectedExecutionZeroDenominators(t *testing.T) {
	model := NewPartialFillModel()

	result := model.CalculateExpectedExecution(nil)
	assert.Zero(t, result.FillRate)
	assert.Zero(t, result.AvgExecutionPrice)
	assert.Zero(t, result.ExpectedShares)
}

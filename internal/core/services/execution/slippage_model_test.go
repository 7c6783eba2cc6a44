package execution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantive/execengine/internal/core/domain"
)

func marketOrder(symbol string, shares float64) *domain.OrderRequest {
	return &domain.OrderRequest{
		Symbol:      symbol,
		TotalShares: shares,
		Side:        domain.OrderSideBuy,
		Type:        domain.OrderTypeMarket,
	}
}

func TestEstimateSlippageComponentsNonNegativeAndClamped(t *testing.T) {
	ctx := context.Background()
	model := NewSlippageModel(nil)

	cases := []struct {
		name     string
		shares   float64
		price    float64
		vol      float64
		liqScore float64
	}{
		{"small order", 100, 25, 0.15, 0.8},
		{"large order", 50000, 200, 0.25, 0.6},
		{"extreme volatility", 1000, 50, 5.0, 0.1},
		{"zero optional fields", 1000, 50, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snapshot := &domain.MarketSnapshot{
				Symbol:         "XYZ",
				CurrentPrice:   tc.price,
				Volatility:     tc.vol,
				LiquidityScore: tc.liqScore,
			}

			est, err := model.EstimateSlippage(ctx, marketOrder("XYZ", tc.shares), snapshot)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, est.BaseComponent, 0.0)
			assert.GreaterOrEqual(t, est.SpreadComponent, 0.0)
			assert.GreaterOrEqual(t, est.VolatilityComponent, 0.0)
			assert.GreaterOrEqual(t, est.LiquidityComponent, 0.0)
			assert.GreaterOrEqual(t, est.SizeComponent, 0.0)

			assert.GreaterOrEqual(t, est.TotalSlippage, 0.0)
			assert.LessOrEqual(t, est.TotalSlippage, 0.02)
		})
	}
}

func TestEstimateSlippageExecutionPrice(t *testing.T) {
	ctx := context.Background()
	model := NewSlippageModel(nil)

	snapshot := &domain.MarketSnapshot{
		Symbol:         "AAPL",
		CurrentPrice:   150,
		Volatility:     0.2,
		LiquidityScore: 0.9,
	}

	market, err := model.EstimateSlippage(ctx, marketOrder("AAPL", 100), snapshot)
	require.NoError(t, err)
	assert.InDelta(t, 150*(1+market.TotalSlippage), market.ExecutionPrice, 1e-9,
		"market orders pay the slippage-adjusted price")

	limit := &domain.OrderRequest{
		Symbol:      "AAPL",
		TotalShares: 100,
		Side:        domain.OrderSideBuy,
		Type:        domain.OrderTypeLimit,
		LimitPrice:  149.5,
	}
	limitEst, err := model.EstimateSlippage(ctx, limit, snapshot)
	require.NoError(t, err)
	assert.Equal(t, 150.0, limitEst.ExecutionPrice, "limit orders execute at the quoted price")
	assert.Zero(t, limitEst.SpreadComponent, "limit orders do not cross the spread")
}

func TestEstimateSlippageDefaultScenario(t *testing.T) {
	// price=50, size=1000 shares, market order, no snapshot overrides:
	// base 5bps + half of the 10bps tier spread + daily vol from the 20%
	// default + liquidity 0.7 default lands the total in the 70-90bps band.
	ctx := context.Background()
	model := NewSlippageModel(nil)

	snapshot := &domain.MarketSnapshot{Symbol: "ZZZZ", CurrentPrice: 50}

	est, err := model.EstimateSlippage(ctx, marketOrder("ZZZZ", 1000), snapshot)
	require.NoError(t, err)

	assert.InDelta(t, 0.0005, est.BaseComponent, 1e-9)
	assert.InDelta(t, 0.0005, est.SpreadComponent, 1e-9)
	assert.InDelta(t, 0.0063, est.VolatilityComponent, 0.0001)
	assert.InDelta(t, 0.0006, est.LiquidityComponent, 1e-9)

	assert.GreaterOrEqual(t, est.TotalSlippage, 0.007)
	assert.LessOrEqual(t, est.TotalSlippage, 0.009)
	assert.InDelta(t, 50*(1+est.TotalSlippage), est.ExecutionPrice, 1e-9)
	assert.InDelta(t, 1000*50*est.TotalSlippage, est.ExecutionCost, 1e-9)
}

func TestEstimateSpreadTiers(t *testing.T) {
	model := NewSlippageModel(nil)

	assert.Equal(t, 0.0005, model.estimateSpread(150))
	assert.Equal(t, 0.0010, model.estimateSpread(50))
	assert.Equal(t, 0.0020, model.estimateSpread(5))
}

func TestEstimateLiquidityDefaults(t *testing.T) {
	model := NewSlippageModel(nil)

	assert.InDelta(t, 0.9, model.estimateLiquidity("AAPL", 10_000), 1e-9)
	assert.InDelta(t, 0.7, model.estimateLiquidity("ZZZZ", 10_000), 1e-9)
	assert.InDelta(t, 0.65, model.estimateLiquidity("ZZZZ", 60_000), 1e-9, "over 50k takes the 0.05 penalty")
	assert.InDelta(t, 0.6, model.estimateLiquidity("ZZZZ", 150_000), 1e-9, "over 100k takes the 0.10 penalty")
	assert.InDelta(t, 0.7, model.estimateLiquidity("ZZZZ", 50_000), 1e-9, "50k exactly takes no penalty")
}

func TestSizeImpactTiers(t *testing.T) {
	cases := []struct {
		value float64
		want  float64
	}{
		{5_000, 0},
		{10_000, 0.0001},
		{49_999, 0.0001},
		{50_000, 0.0002},
		{99_999, 0.0002},
		{100_000, 0.0005},
		{500_000, 0.0010},
		{2_000_000, 0.0010},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, sizeImpact(tc.value), "order value %.0f", tc.value)
	}
}

func TestEstimateSlippageIdempotent(t *testing.T) {
	ctx := context.Background()
	model := NewSlippageModel(nil)

	req := marketOrder("MSFT", 2500)
	snapshot := &domain.MarketSnapshot{
		Symbol:         "MSFT",
		CurrentPrice:   310,
		Bid:            309.9,
		Ask:            310.1,
		Volatility:     0.22,
		LiquidityScore: 0.85,
	}

	first, err := model.EstimateSlippage(ctx, req, snapshot)
	require.NoError(t, err)
	second, err := model.EstimateSlippage(ctx, req, snapshot)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEstimateSlippageRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	model := NewSlippageModel(nil)

	snapshot := &domain.MarketSnapshot{Symbol: "AAPL", CurrentPrice: 100}

	_, err := model.EstimateSlippage(ctx, nil, snapshot)
	assert.Error(t, err)

	_, err = model.EstimateSlippage(ctx, marketOrder("AAPL", 0), snapshot)
	assert.Error(t, err)

	_, err = model.EstimateSlippage(ctx, marketOrder("AAPL", 100), &domain.MarketSnapshot{Symbol: "AAPL"})
	assert.Error(t, err)
}

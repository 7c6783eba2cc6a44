package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderRequestValidate(t *testing.T) {
	valid := OrderRequest{
		Symbol:      "AAPL",
		TotalShares: 100,
		Side:        OrderSideBuy,
		Type:        OrderTypeMarket,
	}

	cases := []struct {
		name    string
		mutate  func(*OrderRequest)
		wantErr bool
	}{
		{"valid market order", func(r *OrderRequest) {}, false},
		{"valid limit order", func(r *OrderRequest) { r.Type = OrderTypeLimit; r.LimitPrice = 99.5 }, false},
		{"missing symbol", func(r *OrderRequest) { r.Symbol = "" }, true},
		{"zero shares", func(r *OrderRequest) { r.TotalShares = 0 }, true},
		{"negative shares", func(r *OrderRequest) { r.TotalShares = -10 }, true},
		{"bad side", func(r *OrderRequest) { r.Side = 0 }, true},
		{"bad type", func(r *OrderRequest) { r.Type = 9 }, true},
		{"limit without price", func(r *OrderRequest) { r.Type = OrderTypeLimit }, true},
		{"negative window", func(r *OrderRequest) { r.TimeWindowMinutes = -1 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)

			err := req.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "BUY", OrderSideBuy.String())
	assert.Equal(t, "SELL", OrderSideSell.String())
	assert.Equal(t, "UNKNOWN", OrderSide(0).String())

	assert.Equal(t, "MARKET", OrderTypeMarket.String())
	assert.Equal(t, "LIMIT", OrderTypeLimit.String())

	assert.Equal(t, "MARKET", StrategyMarket.String())
	assert.Equal(t, "VWAP", StrategyVWAP.String())
	assert.Equal(t, "TWAP", StrategyTWAP.String())

	assert.Equal(t, "front", QueuePositionFront.String())
	assert.Equal(t, "back", QueuePositionBack.String())
}

func TestNotionalValue(t *testing.T) {
	req := OrderRequest{Symbol: "AAPL", TotalShares: 250, Side: OrderSideBuy, Type: OrderTypeMarket}
	assert.Equal(t, 25_000.0, req.NotionalValue(100))
}

package domain

import (
	"fmt"
	"time"
)

// MarketSnapshot holds the market state for one symbol at a point in time.
// Values come from an external data feed; the snapshot is immutable per
// call and freshness is the provider's responsibility.
type MarketSnapshot struct {
	Symbol         string    `json:"symbol"`
	CurrentPrice   float64   `json:"current_price"`
	Bid            float64   `json:"bid"`
	Ask            float64   `json:"ask"`
	Volatility     float64   `json:"volatility"`      // annualized fraction
	LiquidityScore float64   `json:"liquidity_score"` // 0-1, higher is more liquid
	VolumeProfile  []float64 `json:"volume_profile,omitempty"`
	Timestamp      time.Time `json:"timestamp,omitempty"`
}

// Validate performs snapshot validation
func (s *MarketSnapshot) Validate() error {
	if s.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}

	if s.CurrentPrice <= 0 {
		return fmt.Errorf("current price must be positive")
	}

	if s.Bid < 0 || s.Ask < 0 {
		return fmt.Errorf("bid and ask cannot be negative")
	}

	if s.Ask > 0 && s.Bid > s.Ask {
		return fmt.Errorf("bid %.4f exceeds ask %.4f", s.Bid, s.Ask)
	}

	if s.Volatility < 0 {
		return fmt.Errorf("volatility cannot be negative")
	}

	if s.LiquidityScore < 0 || s.LiquidityScore > 1 {
		return fmt.Errorf("liquidity score must be in [0,1]")
	}

	for i, v := range s.VolumeProfile {
		if v < 0 {
			return fmt.Errorf("volume profile bucket %d is negative", i)
		}
	}

	return nil
}

// MidPrice returns the bid/ask midpoint, falling back to the last price
// when either side of the book is missing.
func (s *MarketSnapshot) MidPrice() float64 {
	if s.Bid > 0 && s.Ask > 0 {
		return (s.Bid + s.Ask) / 2
	}
	return s.CurrentPrice
}

// RelativeSpread returns the bid/ask spread as a fraction of the midpoint,
// or 0 when the book is one-sided.
func (s *MarketSnapshot) RelativeSpread() float64 {
	mid := s.MidPrice()
	if s.Bid <= 0 || s.Ask <= 0 || mid <= 0 {
		return 0
	}
	return (s.Ask - s.Bid) / mid
}

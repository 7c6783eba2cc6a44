package execution

import (
	"context"
	"fmt"
	"math"

	"github.com/quantive/execengine/internal/core/domain"
	"github.com/quantive/execengine/internal/core/ports"
)

// SlippageConfig contains configuration for slippage estimation
type SlippageConfig struct {
	BaseSlippageBps   float64 `json:"base_slippage_bps"`
	MaxSlippage       float64 `json:"max_slippage"`
	DefaultVolatility float64 `json:"default_volatility"`
	VolatilityWeight  float64 `json:"volatility_weight"`
	LiquidityWeight   float64 `json:"liquidity_weight"`
}

// DefaultSlippageConfig returns reasonable default configuration
func DefaultSlippageConfig() SlippageConfig {
	return SlippageConfig{
		BaseSlippageBps:   5.0,   // 5 bps base slippage
		MaxSlippage:       0.02,  // cap at 2%
		DefaultVolatility: 0.20,  // 20% annualized when the feed has none
		VolatilityWeight:  0.5,   // weight on daily volatility
		LiquidityWeight:   0.002, // 20 bps at zero liquidity
	}
}

// tradingDaysPerYear converts annualized volatility to a daily figure.
const tradingDaysPerYear = 252.0

// SlippageModel estimates price impact from spread, volatility, liquidity,
// and order size. It is stateless: identical inputs produce identical
// estimates, and missing snapshot fields are defensively defaulted rather
// than rejected.
type SlippageModel struct {
	config    SlippageConfig
	liquidity ports.LiquidityProvider
}

// NewSlippageModel creates a slippage model with default configuration.
func NewSlippageModel(liquidity ports.LiquidityProvider) *SlippageModel {
	return NewSlippageModelWithConfig(DefaultSlippageConfig(), liquidity)
}

// NewSlippageModelWithConfig creates a slippage model with custom configuration.
func NewSlippageModelWithConfig(config SlippageConfig, liquidity ports.LiquidityProvider) *SlippageModel {
	if liquidity == nil {
		liquidity = NewStaticLiquidityDirectory()
	}
	return &SlippageModel{
		config:    config,
		liquidity: liquidity,
	}
}

// EstimateSlippage computes the five-component slippage decomposition for
// an order against a market snapshot.
func (m *SlippageModel) EstimateSlippage(ctx context.Context, req *domain.OrderRequest, snapshot *domain.MarketSnapshot) (*domain.SlippageEstimate, error) {
	if req == nil || snapshot == nil {
		return nil, fmt.Errorf("order request and market snapshot cannot be nil")
	}

	if req.TotalShares <= 0 {
		return nil, fmt.Errorf("order size must be positive")
	}

	if snapshot.CurrentPrice <= 0 {
		return nil, fmt.Errorf("current price must be positive")
	}

	price := snapshot.CurrentPrice
	orderValue := req.TotalShares * price

	spread := snapshot.RelativeSpread()
	if spread <= 0 {
		spread = m.estimateSpread(price)
	}

	volatility := snapshot.Volatility
	if volatility <= 0 {
		volatility = m.config.DefaultVolatility
	}

	liquidityScore := snapshot.LiquidityScore
	if liquidityScore <= 0 {
		liquidityScore = m.estimateLiquidity(req.Symbol, orderValue)
	}

	estimate := &domain.SlippageEstimate{
		Symbol:        req.Symbol,
		OrderSize:     req.TotalShares,
		BaseComponent: m.config.BaseSlippageBps / 10000.0,
	}

	// Market orders cross the spread; limit orders do not pay it.
	if req.Type == domain.OrderTypeMarket {
		estimate.SpreadComponent = spread / 2
	}

	dailyVol := volatility / math.Sqrt(tradingDaysPerYear)
	estimate.VolatilityComponent = dailyVol * m.config.VolatilityWeight

	estimate.LiquidityComponent = (1 - liquidityScore) * m.config.LiquidityWeight

	estimate.SizeComponent = sizeImpact(orderValue)

	total := estimate.BaseComponent +
		estimate.SpreadComponent +
		estimate.VolatilityComponent +
		estimate.LiquidityComponent +
		estimate.SizeComponent

	estimate.TotalSlippage = clamp(total, 0, m.config.MaxSlippage)
	estimate.SlippageBps = estimate.TotalSlippage * 10000.0

	if req.Type == domain.OrderTypeMarket {
		estimate.ExecutionPrice = price * (1 + estimate.TotalSlippage)
	} else {
		estimate.ExecutionPrice = price
	}

	estimate.ExecutionCost = req.TotalShares * price * estimate.TotalSlippage

	return estimate, nil
}

// GetConfig returns current configuration
func (m *SlippageModel) GetConfig() SlippageConfig {
	return m.config
}

// estimateSpread infers a relative spread from the price tier when the
// snapshot has no usable book.
func (m *SlippageModel) estimateSpread(price float64) float64 {
	switch {
	case price > 100:
		return 0.0005 // 5 bps
	case price > 10:
		return 0.0010 // 10 bps
	default:
		return 0.0020 // 20 bps
	}
}

// estimateLiquidity infers a liquidity score from the symbol directory,
// penalized for large order values, clamped to [0,1].
func (m *SlippageModel) estimateLiquidity(symbol string, orderValue float64) float64 {
	score := m.liquidity.BaseScore(symbol)

	switch {
	case orderValue > 100_000:
		score -= 0.10
	case orderValue > 50_000:
		score -= 0.05
	}

	return clamp(score, 0, 1)
}

// sizeImpact maps the order's notional value onto the impact tier table.
func sizeImpact(orderValue float64) float64 {
	switch {
	case orderValue < 10_000:
		return 0
	case orderValue < 50_000:
		return 0.0001 // 1 bp
	case orderValue < 100_000:
		return 0.0002 // 2 bps
	case orderValue < 500_000:
		return 0.0005 // 5 bps
	default:
		return 0.0010 // 10 bps
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

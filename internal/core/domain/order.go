package domain

import (
	"fmt"
)

// OrderSide represents whether the order is buying or selling
type OrderSide int

const (
	OrderSideBuy OrderSide = iota + 1
	OrderSideSell
)

func (os OrderSide) String() string {
	switch os {
	case OrderSideBuy:
		return "BUY"
	case OrderSideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// OrderType represents the type of order
type OrderType int

const (
	OrderTypeMarket OrderType = iota + 1
	OrderTypeLimit
)

func (ot OrderType) String() string {
	switch ot {
	case OrderTypeMarket:
		return "MARKET"
	case OrderTypeLimit:
		return "LIMIT"
	default:
		return "UNKNOWN"
	}
}

// ExecutionStrategy represents how an order should be worked over time
type ExecutionStrategy int

const (
	StrategyMarket ExecutionStrategy = iota + 1
	StrategyVWAP
	StrategyTWAP
)

func (es ExecutionStrategy) String() string {
	switch es {
	case StrategyMarket:
		return "MARKET"
	case StrategyVWAP:
		return "VWAP"
	case StrategyTWAP:
		return "TWAP"
	default:
		return "UNKNOWN"
	}
}

// ParseOrderSide maps a wire string to an OrderSide. Returns zero for
// unrecognized values.
func ParseOrderSide(s string) OrderSide {
	switch s {
	case "BUY":
		return OrderSideBuy
	case "SELL":
		return OrderSideSell
	default:
		return 0
	}
}

// ParseOrderType maps a wire string to an OrderType. Returns zero for
// unrecognized values.
func ParseOrderType(s string) OrderType {
	switch s {
	case "MARKET":
		return OrderTypeMarket
	case "LIMIT":
		return OrderTypeLimit
	default:
		return 0
	}
}

// ParseExecutionStrategy maps a wire string to an ExecutionStrategy.
// Returns zero for unrecognized values.
func ParseExecutionStrategy(s string) ExecutionStrategy {
	switch s {
	case "MARKET":
		return StrategyMarket
	case "VWAP":
		return StrategyVWAP
	case "TWAP":
		return StrategyTWAP
	default:
		return 0
	}
}

// OrderRequest is the order intent supplied by the trade-approval pipeline.
// LimitPrice is only meaningful for limit orders; Strategy is a hint the
// router may override.
type OrderRequest struct {
	Symbol            string            `json:"symbol"`
	TotalShares       float64           `json:"total_shares"`
	Side              OrderSide         `json:"side"`
	Type              OrderType         `json:"type"`
	LimitPrice        float64           `json:"limit_price,omitempty"`
	Strategy          ExecutionStrategy `json:"strategy,omitempty"`
	TimeWindowMinutes float64           `json:"time_window_minutes,omitempty"`
}

// Validate performs request validation
func (r *OrderRequest) Validate() error {
	if r.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}

	if r.TotalShares <= 0 {
		return fmt.Errorf("total shares must be positive")
	}

	if r.Side != OrderSideBuy && r.Side != OrderSideSell {
		return fmt.Errorf("invalid order side: %d", r.Side)
	}

	if r.Type != OrderTypeMarket && r.Type != OrderTypeLimit {
		return fmt.Errorf("invalid order type: %d", r.Type)
	}

	if r.Type == OrderTypeLimit && r.LimitPrice <= 0 {
		return fmt.Errorf("limit orders require a positive limit price")
	}

	if r.TimeWindowMinutes < 0 {
		return fmt.Errorf("time window cannot be negative")
	}

	return nil
}

// NotionalValue returns the order value at the given reference price.
func (r *OrderRequest) NotionalValue(price float64) float64 {
	return r.TotalShares * price
}

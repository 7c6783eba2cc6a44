package domain

import (
	"time"
)

// SlippageEstimate decomposes expected price impact into its sources.
// Components are each non-negative and sum to TotalSlippage before the
// clamp to [0, MaxSlippage] is applied.
type SlippageEstimate struct {
	Symbol              string  `json:"symbol"`
	OrderSize           float64 `json:"order_size"`
	BaseComponent       float64 `json:"base_component"`
	SpreadComponent     float64 `json:"spread_component"`
	VolatilityComponent float64 `json:"volatility_component"`
	LiquidityComponent  float64 `json:"liquidity_component"`
	SizeComponent       float64 `json:"size_component"`
	TotalSlippage       float64 `json:"total_slippage"` // fraction of price
	SlippageBps         float64 `json:"slippage_bps"`
	ExecutionPrice      float64 `json:"execution_price"`
	ExecutionCost       float64 `json:"execution_cost"`
}

// QueuePosition is where a resting limit order sits relative to the
// best bid/ask.
type QueuePosition int

const (
	QueuePositionFront QueuePosition = iota + 1
	QueuePositionMiddle
	QueuePositionQueue
	QueuePositionBack
)

func (qp QueuePosition) String() string {
	switch qp {
	case QueuePositionFront:
		return "front"
	case QueuePositionMiddle:
		return "middle"
	case QueuePositionQueue:
		return "queue"
	case QueuePositionBack:
		return "back"
	default:
		return "unknown"
	}
}

// QueueEstimate is the classification result for a limit order.
type QueueEstimate struct {
	Position         QueuePosition `json:"position"`
	FillProbability  float64       `json:"fill_probability"`
	EstimatedSeconds float64       `json:"estimated_seconds"`
}

// FillOutcome is the probability split between full, partial, and no fill.
// The three probabilities sum to 1.
type FillOutcome struct {
	FullFill    float64 `json:"full_fill"`
	PartialFill float64 `json:"partial_fill"`
	NoFill      float64 `json:"no_fill"`
}

// ExpectedFillPct returns the expected filled fraction of the order,
// counting a partial fill as half the requested size.
func (f FillOutcome) ExpectedFillPct() float64 {
	return f.FullFill + 0.5*f.PartialFill
}

// ScheduleSlice is one child order in an execution schedule.
type ScheduleSlice struct {
	Sequence      int     `json:"sequence"`
	Shares        float64 `json:"shares"`
	OffsetMinutes float64 `json:"offset_minutes"`
	VolumeWeight  float64 `json:"volume_weight,omitempty"`
}

// ExecutionSchedule is an ordered sequence of slices; the order is the
// intended execution sequence.
type ExecutionSchedule struct {
	Slices []ScheduleSlice `json:"slices"`
}

// TotalShares returns the sum of slice shares.
func (s ExecutionSchedule) TotalShares() float64 {
	total := 0.0
	for _, slice := range s.Slices {
		total += slice.Shares
	}
	return total
}

// ExecutionPlan is the routing decision returned to the order-placement
// layer. Plans are built fresh per request and carry no cross-call state.
type ExecutionPlan struct {
	ID                         string            `json:"id,omitempty"`
	Symbol                     string            `json:"symbol"`
	Strategy                   ExecutionStrategy `json:"strategy"`
	Schedule                   ExecutionSchedule `json:"schedule"`
	EstimatedCompletionMinutes float64           `json:"estimated_completion_minutes"`
	RecommendedOrderType       OrderType         `json:"recommended_order_type"`
	Reasoning                  string            `json:"reasoning"`
	CreatedAt                  time.Time         `json:"created_at,omitempty"`
}

// OrderAdjustment is the slippage-aware recommendation for a single order.
// The caller decides whether to act on it; nothing is placed here.
type OrderAdjustment struct {
	Symbol     string           `json:"symbol"`
	Shares     float64          `json:"shares"`
	OrderType  OrderType        `json:"order_type"`
	LimitPrice float64          `json:"limit_price,omitempty"`
	Converted  bool             `json:"converted"`
	Estimate   SlippageEstimate `json:"estimate"`
	TotalCost  float64          `json:"total_cost"`
	Reasoning  string           `json:"reasoning"`
}

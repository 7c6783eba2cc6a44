package execution

import (
	"math"

	"github.com/quantive/execengine/internal/core/domain"
)

// QueueConfig contains configuration for the queue position model
type QueueConfig struct {
	FillDecayTauMinutes float64 `json:"fill_decay_tau_minutes"`
	SizeScaleShares     float64 `json:"size_scale_shares"`
	SizeScaleFactor     float64 `json:"size_scale_factor"`
}

// DefaultQueueConfig returns reasonable default configuration
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		FillDecayTauMinutes: 10.0,
		SizeScaleShares:     10_000.0,
		SizeScaleFactor:     0.5,
	}
}

// Base fill probability and time-to-execution per queue position.
var queueFillProbability = map[domain.QueuePosition]float64{
	domain.QueuePositionFront:  0.95,
	domain.QueuePositionMiddle: 0.50,
	domain.QueuePositionQueue:  0.30,
	domain.QueuePositionBack:   0.10,
}

var queueBaseSeconds = map[domain.QueuePosition]float64{
	domain.QueuePositionFront:  1,
	domain.QueuePositionMiddle: 30,
	domain.QueuePositionQueue:  300,
	domain.QueuePositionBack:   3600,
}

// QueueModel estimates where a limit order rests relative to the spread
// and how likely and how soon it fills. Stateless; the OrderQueueManager
// layers order tracking on top of it.
type QueueModel struct {
	config QueueConfig
}

// NewQueueModel creates a queue model with default configuration.
func NewQueueModel() *QueueModel {
	return NewQueueModelWithConfig(DefaultQueueConfig())
}

// NewQueueModelWithConfig creates a queue model with custom configuration.
func NewQueueModelWithConfig(config QueueConfig) *QueueModel {
	return &QueueModel{config: config}
}

// ClassifyOrder determines queue position, base fill probability, and the
// size-scaled execution time estimate for a limit order.
func (q *QueueModel) ClassifyOrder(req *domain.OrderRequest, snapshot *domain.MarketSnapshot) domain.QueueEstimate {
	position := q.classify(req.LimitPrice, snapshot.Bid, snapshot.Ask, req.Side)

	return domain.QueueEstimate{
		Position:         position,
		FillProbability:  queueFillProbability[position],
		EstimatedSeconds: q.executionSeconds(position, req.TotalShares),
	}
}

// classify maps the limit price against the book. A buy at or through the
// ask jumps the queue; a sell mirrors around the bid.
func (q *QueueModel) classify(limit, bid, ask float64, side domain.OrderSide) domain.QueuePosition {
	if side == domain.OrderSideBuy {
		switch {
		case limit >= ask:
			return domain.QueuePositionFront
		case limit > bid && limit < ask:
			return domain.QueuePositionMiddle
		case limit == bid:
			return domain.QueuePositionQueue
		default:
			return domain.QueuePositionBack
		}
	}

	switch {
	case limit <= bid:
		return domain.QueuePositionFront
	case limit > bid && limit < ask:
		return domain.QueuePositionMiddle
	case limit == ask:
		return domain.QueuePositionQueue
	default:
		return domain.QueuePositionBack
	}
}

// executionSeconds scales the base time-to-execution for order size.
func (q *QueueModel) executionSeconds(position domain.QueuePosition, shares float64) float64 {
	scale := 1.0
	if q.config.SizeScaleShares > 0 {
		scale = 1.0 + (shares/q.config.SizeScaleShares)*q.config.SizeScaleFactor
	}
	return queueBaseSeconds[position] * scale
}

// FillProbabilityAfter decays the probability of remaining unfilled
// exponentially with elapsed time: p(t) = 1 - (1-p0)e^(-t/tau). The result
// is monotonically non-decreasing in t and converges to 1.
func (q *QueueModel) FillProbabilityAfter(initial float64, elapsedMinutes float64) float64 {
	if elapsedMinutes <= 0 {
		return clamp(initial, 0, 1)
	}

	tau := q.config.FillDecayTauMinutes
	if tau <= 0 {
		tau = DefaultQueueConfig().FillDecayTauMinutes
	}

	p0 := clamp(initial, 0, 1)
	return 1 - (1-p0)*math.Exp(-elapsedMinutes/tau)
}

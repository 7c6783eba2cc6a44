package execution

import (
	"math"

	"github.com/quantive/execengine/internal/core/domain"
)

// OrderSplitter partitions an order exceeding a size cap into equal,
// time-staggered slices. Pure utility; no market data involved.
type OrderSplitter struct {
	maxOrderSize float64
}

// NewOrderSplitter creates a splitter with the given per-slice size cap.
func NewOrderSplitter(maxOrderSize float64) *OrderSplitter {
	return &OrderSplitter{maxOrderSize: maxOrderSize}
}

// SplitOrder returns one zero-delay slice when the order fits under the
// cap, otherwise ceil(total/max) equal slices evenly spaced across the
// window.
func (s *OrderSplitter) SplitOrder(totalShares float64, windowMinutes float64) domain.ExecutionSchedule {
	if totalShares <= 0 {
		return domain.ExecutionSchedule{}
	}

	if s.maxOrderSize <= 0 || totalShares <= s.maxOrderSize {
		return domain.ExecutionSchedule{
			Slices: []domain.ScheduleSlice{{Sequence: 0, Shares: totalShares, OffsetMinutes: 0}},
		}
	}

	numSlices := int(math.Ceil(totalShares / s.maxOrderSize))
	shares := totalShares / float64(numSlices)
	spacing := windowMinutes / float64(numSlices)

	slices := make([]domain.ScheduleSlice, 0, numSlices)
	for i := 0; i < numSlices; i++ {
		slices = append(slices, domain.ScheduleSlice{
			Sequence:      i,
			Shares:        shares,
			OffsetMinutes: float64(i) * spacing,
		})
	}

	return domain.ExecutionSchedule{Slices: slices}
}

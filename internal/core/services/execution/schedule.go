package execution

import (
	"math"

	"github.com/quantive/execengine/internal/core/domain"
)

// fallbackSliceMinutes is the slice duration used when no volume profile
// is available to weight against.
const fallbackSliceMinutes = 5.0

// VWAPOptimizer allocates shares proportionally to the historical volume
// profile so the schedule tracks expected liquidity instead of spreading
// uniformly. Stateless.
type VWAPOptimizer struct{}

// NewVWAPOptimizer creates a VWAP schedule generator.
func NewVWAPOptimizer() *VWAPOptimizer {
	return &VWAPOptimizer{}
}

// GenerateSchedule builds a volume-weighted schedule across the window.
// Without a usable profile it degrades to equal 5-minute slices.
func (v *VWAPOptimizer) GenerateSchedule(req *domain.OrderRequest, snapshot *domain.MarketSnapshot, windowMinutes float64) domain.ExecutionSchedule {
	if req.TotalShares <= 0 {
		return domain.ExecutionSchedule{}
	}

	profile := snapshot.VolumeProfile
	totalVolume := 0.0
	for _, v := range profile {
		totalVolume += v
	}

	if len(profile) == 0 || totalVolume <= 0 {
		return equalSlices(req.TotalShares, windowMinutes, fallbackSliceMinutes)
	}

	numSlices := len(profile)
	spacing := windowMinutes / float64(numSlices)

	slices := make([]domain.ScheduleSlice, 0, numSlices)
	for i, volume := range profile {
		weight := volume / totalVolume
		slices = append(slices, domain.ScheduleSlice{
			Sequence:      i,
			Shares:        req.TotalShares * weight,
			OffsetMinutes: float64(i) * spacing,
			VolumeWeight:  weight,
		})
	}

	return domain.ExecutionSchedule{Slices: slices}
}

// TWAPOptimizer slices an order into equal shares at equal time intervals.
// Stateless.
type TWAPOptimizer struct {
	sliceDurationMinutes float64
}

// NewTWAPOptimizer creates a TWAP generator with the default 5-minute
// slice duration.
func NewTWAPOptimizer() *TWAPOptimizer {
	return NewTWAPOptimizerWithSliceDuration(fallbackSliceMinutes)
}

// NewTWAPOptimizerWithSliceDuration creates a TWAP generator with a custom
// slice duration.
func NewTWAPOptimizerWithSliceDuration(sliceDurationMinutes float64) *TWAPOptimizer {
	if sliceDurationMinutes <= 0 {
		sliceDurationMinutes = fallbackSliceMinutes
	}
	return &TWAPOptimizer{sliceDurationMinutes: sliceDurationMinutes}
}

// GenerateSchedule builds an equal-weight schedule of
// floor(window/sliceDuration) slices, minimum 1.
func (t *TWAPOptimizer) GenerateSchedule(req *domain.OrderRequest, _ *domain.MarketSnapshot, windowMinutes float64) domain.ExecutionSchedule {
	if req.TotalShares <= 0 {
		return domain.ExecutionSchedule{}
	}
	return equalSlices(req.TotalShares, windowMinutes, t.sliceDurationMinutes)
}

// equalSlices spreads totalShares evenly across the window at the given
// slice duration.
func equalSlices(totalShares, windowMinutes, sliceMinutes float64) domain.ExecutionSchedule {
	numSlices := 1
	if sliceMinutes > 0 && windowMinutes >= sliceMinutes {
		numSlices = int(math.Floor(windowMinutes / sliceMinutes))
	}
	if numSlices < 1 {
		numSlices = 1
	}

	shares := totalShares / float64(numSlices)

	slices := make([]domain.ScheduleSlice, 0, numSlices)
	for i := 0; i < numSlices; i++ {
		slices = append(slices, domain.ScheduleSlice{
			Sequence:      i,
			Shares:        shares,
			OffsetMinutes: float64(i) * sliceMinutes,
		})
	}

	return domain.ExecutionSchedule{Slices: slices}
}

package domain

import "errors"

var (
	// ErrOrderNotFound is returned when an order ID is not present in the
	// queue registry.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderExists is returned when registering an order ID that is
	// already tracked.
	ErrOrderExists = errors.New("order already exists")

	// ErrPlanNotFound is returned when a persisted plan cannot be located.
	ErrPlanNotFound = errors.New("execution plan not found")

	// ErrSnapshotNotFound is returned by snapshot caches on a miss.
	ErrSnapshotNotFound = errors.New("market snapshot not found")
)

package ports

import (
	"context"

	"github.com/quantive/execengine/internal/core/domain"
)

// SlippageEstimator calculates expected price impact for an order.
type SlippageEstimator interface {
	// EstimateSlippage computes a slippage decomposition for an order of
	// the given size against the supplied market snapshot.
	EstimateSlippage(ctx context.Context, req *domain.OrderRequest, snapshot *domain.MarketSnapshot) (*domain.SlippageEstimate, error)
}

// QueueEstimator classifies resting limit orders against the book.
type QueueEstimator interface {
	// ClassifyOrder determines queue position, fill probability, and
	// estimated execution time for a limit order.
	ClassifyOrder(req *domain.OrderRequest, snapshot *domain.MarketSnapshot) domain.QueueEstimate

	// FillProbabilityAfter returns the updated fill probability once
	// elapsedMinutes have passed since the order was placed.
	FillProbabilityAfter(initial float64, elapsedMinutes float64) float64
}

// FillEstimator estimates full/partial/no-fill probabilities.
type FillEstimator interface {
	EstimateFillProbability(req *domain.OrderRequest, snapshot *domain.MarketSnapshot) domain.FillOutcome
}

// ScheduleGenerator produces an execution schedule for a parent order.
type ScheduleGenerator interface {
	GenerateSchedule(req *domain.OrderRequest, snapshot *domain.MarketSnapshot, windowMinutes float64) domain.ExecutionSchedule
}

// OrderRouter selects an execution strategy and builds the plan.
type OrderRouter interface {
	RouteOrder(ctx context.Context, req *domain.OrderRequest, snapshot *domain.MarketSnapshot) (*domain.ExecutionPlan, error)
}

// LiquidityProvider supplies baseline liquidity scores per symbol. The
// default implementation is a static directory; hosts may back this with
// a real liquidity feed.
type LiquidityProvider interface {
	// BaseScore returns the baseline liquidity score for a symbol before
	// order-size penalties are applied.
	BaseScore(symbol string) float64
}

// PlanRepository persists execution plans for forensic review. The core
// works without one; persistence is a host concern.
type PlanRepository interface {
	Save(ctx context.Context, plan *domain.ExecutionPlan) error
	Get(ctx context.Context, id string) (*domain.ExecutionPlan, error)
	ListBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.ExecutionPlan, error)
}

// SnapshotCache caches market snapshots between feed updates.
type SnapshotCache interface {
	Get(ctx context.Context, symbol string) (*domain.MarketSnapshot, error)
	Set(ctx context.Context, snapshot *domain.MarketSnapshot) error
}

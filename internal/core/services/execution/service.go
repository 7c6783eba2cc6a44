package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quantive/execengine/internal/core/domain"
	"github.com/quantive/execengine/internal/core/ports"
)

// Service is the orchestration facade over the execution models: it routes
// orders to a strategy, produces slippage-aware adjustments, and optionally
// persists plans for forensic review.
type Service struct {
	router        ports.OrderRouter
	slippage      ports.SlippageEstimator
	slippageAware *SlippageAwareExecution
	fills         ports.FillEstimator
	plans         ports.PlanRepository
	logger        *zap.Logger
	metrics       *Metrics
	clock         func() time.Time
}

// ServiceOption customizes the service.
type ServiceOption func(*Service)

// WithPlanRepository enables plan persistence.
func WithPlanRepository(repo ports.PlanRepository) ServiceOption {
	return func(s *Service) { s.plans = repo }
}

// WithMetrics attaches prometheus instruments.
func WithMetrics(m *Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// NewService wires the default models together. A nil logger falls back to
// a no-op logger.
func NewService(logger *zap.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	slippage := NewSlippageModel(NewStaticLiquidityDirectory())

	s := &Service{
		router:        NewSmartOrderRouter(),
		slippage:      slippage,
		slippageAware: NewSlippageAwareExecution(slippage),
		fills:         NewPartialFillModel(),
		logger:        logger,
		clock:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// BuildPlan validates the request, routes it to an execution strategy, and
// returns the plan with a fresh ID. When a repository is configured the
// plan is persisted before returning.
func (s *Service) BuildPlan(ctx context.Context, req *domain.OrderRequest, snapshot *domain.MarketSnapshot) (*domain.ExecutionPlan, error) {
	plan, err := s.router.RouteOrder(ctx, req, snapshot)
	if err != nil {
		if s.metrics != nil {
			s.metrics.PlanErrors.Inc()
		}
		return nil, err
	}

	plan.ID = uuid.New().String()
	plan.CreatedAt = s.clock()

	if s.metrics != nil {
		s.metrics.PlansTotal.WithLabelValues(plan.Strategy.String()).Inc()
	}

	s.logger.Info("execution plan built",
		zap.String("plan_id", plan.ID),
		zap.String("symbol", plan.Symbol),
		zap.String("strategy", plan.Strategy.String()),
		zap.Int("slices", len(plan.Schedule.Slices)),
		zap.Float64("window_minutes", plan.EstimatedCompletionMinutes),
	)

	if s.plans != nil {
		if err := s.plans.Save(ctx, plan); err != nil {
			// The plan is still valid; persistence is best-effort.
			s.logger.Warn("failed to persist execution plan",
				zap.String("plan_id", plan.ID), zap.Error(err))
		}
	}

	return plan, nil
}

// EstimateSlippage exposes the slippage decomposition for a single order.
func (s *Service) EstimateSlippage(ctx context.Context, req *domain.OrderRequest, snapshot *domain.MarketSnapshot) (*domain.SlippageEstimate, error) {
	estimate, err := s.slippage.EstimateSlippage(ctx, req, snapshot)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SlippageEstimates.Inc()
		s.metrics.SlippageBps.Observe(estimate.SlippageBps)
	}

	return estimate, nil
}

// AdjustOrder runs the slippage-aware market-to-limit conversion check.
func (s *Service) AdjustOrder(ctx context.Context, req *domain.OrderRequest, snapshot *domain.MarketSnapshot) (*domain.OrderAdjustment, error) {
	return s.slippageAware.PlanOrder(ctx, req, snapshot)
}

// EstimateFill exposes the full/partial/no-fill probability split.
func (s *Service) EstimateFill(req *domain.OrderRequest, snapshot *domain.MarketSnapshot) (domain.FillOutcome, error) {
	if req == nil || snapshot == nil {
		return domain.FillOutcome{}, fmt.Errorf("order request and market snapshot cannot be nil")
	}
	return s.fills.EstimateFillProbability(req, snapshot), nil
}

// GetPlan loads a persisted plan by ID.
func (s *Service) GetPlan(ctx context.Context, id string) (*domain.ExecutionPlan, error) {
	if s.plans == nil {
		return nil, domain.ErrPlanNotFound
	}
	return s.plans.Get(ctx, id)
}

// ListPlans returns recent persisted plans for a symbol, newest first.
// Without a repository the list is empty.
func (s *Service) ListPlans(ctx context.Context, symbol string, limit int) ([]*domain.ExecutionPlan, error) {
	if s.plans == nil {
		return nil, nil
	}
	return s.plans.ListBySymbol(ctx, symbol, limit)
}

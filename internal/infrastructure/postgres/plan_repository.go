package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quantive/execengine/internal/core/domain"
)

// PlanRepository implements ports.PlanRepository backed by PostgreSQL.
// Schedules are stored as a JSONB column; the rest of the plan maps to
// flat columns so plans can be queried by symbol and strategy.
type PlanRepository struct {
	db *pgxpool.Pool
}

// NewPlanRepository creates a new PostgreSQL plan repository.
func NewPlanRepository(db *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{
		db: db,
	}
}

// Save inserts an execution plan.
func (r *PlanRepository) Save(ctx context.Context, plan *domain.ExecutionPlan) error {
	query := `
		INSERT INTO execution_plans (
			id, symbol, strategy, schedule, estimated_completion_minutes,
			recommended_order_type, reasoning, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	scheduleJSON, err := json.Marshal(plan.Schedule)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		plan.ID,
		plan.Symbol,
		plan.Strategy.String(),
		scheduleJSON,
		plan.EstimatedCompletionMinutes,
		plan.RecommendedOrderType.String(),
		plan.Reasoning,
		plan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save execution plan: %w", err)
	}

	return nil
}

// Get retrieves an execution plan by ID.
func (r *PlanRepository) Get(ctx context.Context, id string) (*domain.ExecutionPlan, error) {
	query := `
		SELECT id, symbol, strategy, schedule, estimated_completion_minutes,
			recommended_order_type, reasoning, created_at
		FROM execution_plans
		WHERE id = $1
	`

	plan, err := scanPlan(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get execution plan: %w", err)
	}

	return plan, nil
}

// ListBySymbol returns the most recent plans for a symbol, newest first.
func (r *PlanRepository) ListBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.ExecutionPlan, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, symbol, strategy, schedule, estimated_completion_minutes,
			recommended_order_type, reasoning, created_at
		FROM execution_plans
		WHERE symbol = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list execution plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.ExecutionPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution plan: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate execution plans: %w", err)
	}

	return plans, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*domain.ExecutionPlan, error) {
	var (
		plan         domain.ExecutionPlan
		strategy     string
		orderType    string
		scheduleJSON []byte
	)

	err := row.Scan(
		&plan.ID,
		&plan.Symbol,
		&strategy,
		&scheduleJSON,
		&plan.EstimatedCompletionMinutes,
		&orderType,
		&plan.Reasoning,
		&plan.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(scheduleJSON) > 0 {
		if err := json.Unmarshal(scheduleJSON, &plan.Schedule); err != nil {
			return nil, fmt.Errorf("failed to unmarshal schedule: %w", err)
		}
	}

	plan.Strategy = domain.ParseExecutionStrategy(strategy)
	plan.RecommendedOrderType = domain.ParseOrderType(orderType)

	return &plan, nil
}

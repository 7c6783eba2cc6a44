package execution

import (
	"fmt"
	"sync"
	"time"

	"github.com/quantive/execengine/internal/core/domain"
	"github.com/quantive/execengine/internal/core/ports"
)

// TrackedOrder is one limit order resting in the queue registry. Derived
// probability fields are the only thing updates mutate; fill and cancel
// confirmations come from the broker layer, not from here.
type TrackedOrder struct {
	OrderID         string               `json:"order_id"`
	Request         domain.OrderRequest  `json:"request"`
	Estimate        domain.QueueEstimate `json:"estimate"`
	CurrentFillProb float64              `json:"current_fill_prob"`
	Status          string               `json:"status"`
	PlacedAt        time.Time            `json:"placed_at"`
	LastUpdatedAt   time.Time            `json:"last_updated_at"`
}

// OrderQueueManager tracks active limit orders and their decaying fill
// probabilities. All access is serialized behind one lock so concurrent
// callers cannot lose updates to the derived fields.
type OrderQueueManager struct {
	mu     sync.RWMutex
	model  ports.QueueEstimator
	orders map[string]*TrackedOrder
	clock  func() time.Time
}

// NewOrderQueueManager creates a queue manager around the given estimator.
func NewOrderQueueManager(model ports.QueueEstimator) *OrderQueueManager {
	if model == nil {
		model = NewQueueModel()
	}
	return &OrderQueueManager{
		model:  model,
		orders: make(map[string]*TrackedOrder),
		clock:  time.Now,
	}
}

// AddOrder registers a limit order, computing its initial queue
// classification and execution-time estimate.
func (m *OrderQueueManager) AddOrder(orderID string, req *domain.OrderRequest, snapshot *domain.MarketSnapshot) (*TrackedOrder, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order ID is required")
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid order request: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.orders[orderID]; exists {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrOrderExists)
	}

	estimate := m.model.ClassifyOrder(req, snapshot)
	now := m.clock()

	order := &TrackedOrder{
		OrderID:         orderID,
		Request:         *req,
		Estimate:        estimate,
		CurrentFillProb: estimate.FillProbability,
		Status:          "pending",
		PlacedAt:        now,
		LastUpdatedAt:   now,
	}
	m.orders[orderID] = order

	copied := *order
	return &copied, nil
}

// UpdateOrderStatus recomputes the fill probability for the elapsed time
// since placement. The order stays pending; terminal transitions are the
// broker layer's call.
func (m *OrderQueueManager) UpdateOrderStatus(orderID string, elapsedMinutes float64) (*TrackedOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, exists := m.orders[orderID]
	if !exists {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrOrderNotFound)
	}

	order.CurrentFillProb = m.model.FillProbabilityAfter(order.Estimate.FillProbability, elapsedMinutes)
	order.LastUpdatedAt = m.clock()

	copied := *order
	return &copied, nil
}

// GetOrder retrieves a tracked order by ID.
func (m *OrderQueueManager) GetOrder(orderID string) (*TrackedOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, exists := m.orders[orderID]
	if !exists {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrOrderNotFound)
	}

	copied := *order
	return &copied, nil
}

// RemoveOrder drops an order from the registry once the broker confirms a
// terminal state.
func (m *OrderQueueManager) RemoveOrder(orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.orders[orderID]; !exists {
		return fmt.Errorf("order %s: %w", orderID, domain.ErrOrderNotFound)
	}

	delete(m.orders, orderID)
	return nil
}

// ActiveCount returns the number of tracked orders.
func (m *OrderQueueManager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

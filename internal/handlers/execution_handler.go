package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quantive/execengine/internal/core/domain"
	"github.com/quantive/execengine/internal/core/ports"
	"github.com/quantive/execengine/internal/core/services/execution"
)

// ExecutionHandler exposes the execution planning service over HTTP.
type ExecutionHandler struct {
	service *execution.Service
	queue   *execution.OrderQueueManager
	cache   ports.SnapshotCache
	logger  *zap.Logger
}

// NewExecutionHandler creates a new execution handler. The snapshot cache
// is optional; without one every request must carry its snapshot inline.
func NewExecutionHandler(
	service *execution.Service,
	queue *execution.OrderQueueManager,
	cache ports.SnapshotCache,
	logger *zap.Logger,
) *ExecutionHandler {
	return &ExecutionHandler{
		service: service,
		queue:   queue,
		cache:   cache,
		logger:  logger,
	}
}

// OrderPayload is the wire form of an order request. Side, type and
// strategy arrive as strings and are mapped to domain enums.
type OrderPayload struct {
	Symbol            string  `json:"symbol" binding:"required"`
	TotalShares       float64 `json:"total_shares" binding:"required,gt=0"`
	Side              string  `json:"side" binding:"required"`
	Type              string  `json:"type" binding:"required"`
	LimitPrice        float64 `json:"limit_price"`
	Strategy          string  `json:"strategy"`
	TimeWindowMinutes float64 `json:"time_window_minutes"`
}

// PlanRequest carries an order and optionally the market snapshot to
// evaluate it against. When the snapshot is omitted it is resolved from
// the snapshot cache by symbol.
type PlanRequest struct {
	Order    OrderPayload           `json:"order" binding:"required"`
	Snapshot *domain.MarketSnapshot `json:"snapshot,omitempty"`
}

// RefreshRequest updates a tracked order's fill probability for the time
// elapsed since placement.
type RefreshRequest struct {
	ElapsedMinutes float64 `json:"elapsed_minutes" binding:"gte=0"`
}

// ErrorResponse is the error envelope shared by all endpoints
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (p *OrderPayload) toDomain() (*domain.OrderRequest, error) {
	side := domain.ParseOrderSide(p.Side)
	if side == 0 {
		return nil, errors.New("side must be BUY or SELL")
	}

	orderType := domain.ParseOrderType(p.Type)
	if orderType == 0 {
		return nil, errors.New("type must be MARKET or LIMIT")
	}

	req := &domain.OrderRequest{
		Symbol:            p.Symbol,
		TotalShares:       p.TotalShares,
		Side:              side,
		Type:              orderType,
		LimitPrice:        p.LimitPrice,
		TimeWindowMinutes: p.TimeWindowMinutes,
	}

	if p.Strategy != "" {
		strategy := domain.ParseExecutionStrategy(p.Strategy)
		if strategy == 0 {
			return nil, errors.New("strategy must be MARKET, VWAP or TWAP")
		}
		req.Strategy = strategy
	}

	return req, nil
}

// resolveSnapshot returns the inline snapshot when present, otherwise
// falls back to the cache.
func (h *ExecutionHandler) resolveSnapshot(c *gin.Context, inline *domain.MarketSnapshot, symbol string) (*domain.MarketSnapshot, bool) {
	if inline != nil {
		return inline, true
	}

	if h.cache == nil {
		respondError(c, http.StatusBadRequest, "SNAPSHOT_REQUIRED",
			"no snapshot provided and no snapshot cache configured")
		return nil, false
	}

	snapshot, err := h.cache.Get(c.Request.Context(), symbol)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			respondError(c, http.StatusNotFound, "SNAPSHOT_NOT_FOUND",
				"no cached snapshot for symbol "+symbol)
			return nil, false
		}
		h.logger.Error("snapshot cache lookup failed", zap.String("symbol", symbol), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "CACHE_ERROR", "snapshot lookup failed")
		return nil, false
	}

	return snapshot, true
}

// BuildPlan handles POST /v1/plans
func (h *ExecutionHandler) BuildPlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	order, err := req.Order.toDomain()
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	snapshot, ok := h.resolveSnapshot(c, req.Snapshot, order.Symbol)
	if !ok {
		return
	}

	plan, err := h.service.BuildPlan(c.Request.Context(), order, snapshot)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "PLANNING_FAILED", err.Error())
		return
	}

	respondOK(c, http.StatusCreated, plan)
}

// GetPlan handles GET /v1/plans/:id
func (h *ExecutionHandler) GetPlan(c *gin.Context) {
	plan, err := h.service.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrPlanNotFound) {
			respondError(c, http.StatusNotFound, "PLAN_NOT_FOUND", "plan not found")
			return
		}
		h.logger.Error("plan lookup failed", zap.String("plan_id", c.Param("id")), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "STORAGE_ERROR", "plan lookup failed")
		return
	}

	respondOK(c, http.StatusOK, plan)
}

// ListPlans handles GET /v1/plans?symbol=AAPL&limit=20
func (h *ExecutionHandler) ListPlans(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "symbol query parameter is required")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	plans, err := h.service.ListPlans(c.Request.Context(), symbol, limit)
	if err != nil {
		h.logger.Error("plan list failed", zap.String("symbol", symbol), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "STORAGE_ERROR", "plan list failed")
		return
	}
	if plans == nil {
		plans = []*domain.ExecutionPlan{}
	}

	respondOK(c, http.StatusOK, plans)
}

// EstimateSlippage handles POST /v1/slippage
func (h *ExecutionHandler) EstimateSlippage(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	order, err := req.Order.toDomain()
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	snapshot, ok := h.resolveSnapshot(c, req.Snapshot, order.Symbol)
	if !ok {
		return
	}

	estimate, err := h.service.EstimateSlippage(c.Request.Context(), order, snapshot)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "ESTIMATION_FAILED", err.Error())
		return
	}

	respondOK(c, http.StatusOK, estimate)
}

// EstimateFill handles POST /v1/fills
func (h *ExecutionHandler) EstimateFill(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	order, err := req.Order.toDomain()
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	snapshot, ok := h.resolveSnapshot(c, req.Snapshot, order.Symbol)
	if !ok {
		return
	}

	outcome, err := h.service.EstimateFill(order, snapshot)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "ESTIMATION_FAILED", err.Error())
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"outcome":           outcome,
		"expected_fill_pct": outcome.ExpectedFillPct(),
	})
}

// AdjustOrder handles POST /v1/adjustments
func (h *ExecutionHandler) AdjustOrder(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	order, err := req.Order.toDomain()
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	snapshot, ok := h.resolveSnapshot(c, req.Snapshot, order.Symbol)
	if !ok {
		return
	}

	adjustment, err := h.service.AdjustOrder(c.Request.Context(), order, snapshot)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "ADJUSTMENT_FAILED", err.Error())
		return
	}

	respondOK(c, http.StatusOK, adjustment)
}

// TrackOrder handles POST /v1/queue/orders
func (h *ExecutionHandler) TrackOrder(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	order, err := req.Order.toDomain()
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	snapshot, ok := h.resolveSnapshot(c, req.Snapshot, order.Symbol)
	if !ok {
		return
	}

	tracked, err := h.queue.AddOrder(uuid.New().String(), order, snapshot)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "TRACKING_FAILED", err.Error())
		return
	}

	respondOK(c, http.StatusCreated, tracked)
}

// GetTrackedOrder handles GET /v1/queue/orders/:id
func (h *ExecutionHandler) GetTrackedOrder(c *gin.Context) {
	tracked, err := h.queue.GetOrder(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "order not found")
		return
	}

	respondOK(c, http.StatusOK, tracked)
}

// RefreshTrackedOrder handles POST /v1/queue/orders/:id/refresh
func (h *ExecutionHandler) RefreshTrackedOrder(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	tracked, err := h.queue.UpdateOrderStatus(c.Param("id"), req.ElapsedMinutes)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "order not found")
			return
		}
		respondError(c, http.StatusUnprocessableEntity, "REFRESH_FAILED", err.Error())
		return
	}

	respondOK(c, http.StatusOK, tracked)
}

// RemoveTrackedOrder handles DELETE /v1/queue/orders/:id
func (h *ExecutionHandler) RemoveTrackedOrder(c *gin.Context) {
	if err := h.queue.RemoveOrder(c.Param("id")); err != nil {
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "order not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// StoreSnapshot handles PUT /v1/snapshots
func (h *ExecutionHandler) StoreSnapshot(c *gin.Context) {
	if h.cache == nil {
		respondError(c, http.StatusServiceUnavailable, "CACHE_DISABLED", "no snapshot cache configured")
		return
	}

	var snapshot domain.MarketSnapshot
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := snapshot.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_SNAPSHOT", err.Error())
		return
	}

	if err := h.cache.Set(c.Request.Context(), &snapshot); err != nil {
		h.logger.Error("snapshot store failed", zap.String("symbol", snapshot.Symbol), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "CACHE_ERROR", "snapshot store failed")
		return
	}

	c.Status(http.StatusNoContent)
}

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": ErrorResponse{
			Code:    code,
			Message: message,
		},
	})
}

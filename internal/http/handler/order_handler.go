package handler

import (
	"net/http"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/service"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orderService *service.OrderService
	logger       *zap.Logger
}

func NewOrderHandler(orderService *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// List godoc
// @Summary List orders
// @Tags Orders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 200)" default(50)
// @Param status query string false "Filter by status" Enums(pending, confirmed, in_progress, completed, cancelled)
// @Param service_type query string false "Filter by service type" Enums(building_cleaning, garden_maintenance, winter_service)
// @Param priority query string false "Filter by priority" Enums(low, normal, medium, high, urgent)
// @Param customer_id query int false "Filter by customer"
// @Param search query string false "Search by order number or title"
// @Param sort_by query string false "Sort field" Enums(created_at, scheduled_date, order_number, priority)
// @Param sort_order query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} domain.OrderListResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders [get]
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID, err := queryInt64(r, "customer_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	filters := repository.OrderFilters{
		Status:      domain.OrderStatus(q.Get("status")),
		ServiceType: domain.ServiceType(q.Get("service_type")),
		Priority:    domain.Priority(q.Get("priority")),
		CustomerID:  customerID,
		Search:      q.Get("search"),
	}
	page, sort := listParams(r)

	result, err := h.orderService.List(r.Context(), filters, page, sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list orders")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Dashboard godoc
// @Summary Order dashboard
// @Description Order counts per status, today's and this week's orders and the number of customers
// @Tags Orders
// @Produce json
// @Success 200 {object} domain.OrderDashboardDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders/dashboard [get]
func (h *OrderHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.orderService.Dashboard(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "load order dashboard")
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}

// GetByID godoc
// @Summary Get order by ID
// @Tags Orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} domain.OrderDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders/{id} [get]
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get order")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// Create godoc
// @Summary Create order
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body domain.OrderRequest true "Order data"
// @Success 201 {object} domain.OrderDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders [post]
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.OrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.orderService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create order")
		return
	}
	respondCreated(w, r, order.ID, order)
}

// Update godoc
// @Summary Update order
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body domain.OrderRequest true "Order data"
// @Success 200 {object} domain.OrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders/{id} [put]
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req domain.OrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.orderService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update order")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// UpdateStatus godoc
// @Summary Change order status
// @Description Setting completed records completed_at.
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body domain.StatusRequest true "New status"
// @Success 200 {object} domain.OrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req domain.StatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		respondServiceError(w, h.logger, err, "update order status")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// Delete godoc
// @Summary Delete order
// @Tags Orders
// @Param id path int true "Order ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders/{id} [delete]
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.orderService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete order")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

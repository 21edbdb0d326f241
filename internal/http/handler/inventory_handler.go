package handler

import (
	"net/http"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/service"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	inventoryService *service.InventoryService
	logger           *zap.Logger
}

func NewInventoryHandler(inventoryService *service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// List godoc
// @Summary List inventory items
// @Tags Inventory
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 200)" default(50)
// @Param category query string false "Filter by category"
// @Param status query string false "Filter by status" Enums(active, inactive, discontinued)
// @Param low_stock query bool false "Only items at or below their reorder point"
// @Param search query string false "Search by name or SKU"
// @Param sort_by query string false "Sort field" Enums(name, quantity, category, created_at)
// @Param sort_order query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} domain.InventoryListResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory [get]
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	lowStock, err := queryBool(r, "low_stock")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	filters := repository.InventoryFilters{
		Category: q.Get("category"),
		Status:   domain.InventoryStatus(q.Get("status")),
		LowStock: lowStock != nil && *lowStock,
		Search:   q.Get("search"),
	}
	page, sort := listParams(r)

	result, err := h.inventoryService.List(r.Context(), filters, page, sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list inventory")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Categories godoc
// @Summary Inventory categories
// @Tags Inventory
// @Produce json
// @Success 200 {object} domain.CategoriesResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/categories [get]
func (h *InventoryHandler) Categories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.inventoryService.Categories())
}

// Statistics godoc
// @Summary Inventory statistics
// @Description Item count, counts per category, low stock count, stock value and the five latest movements
// @Tags Inventory
// @Produce json
// @Success 200 {object} domain.InventoryStatisticsDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/statistics [get]
func (h *InventoryHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.inventoryService.Statistics(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "compute inventory statistics")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// ListTransactions godoc
// @Summary List stock movements
// @Tags Inventory
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 200)" default(50)
// @Param item_id query int false "Filter by item"
// @Param transaction_type query string false "Filter by type" Enums(in, out, adjustment)
// @Success 200 {object} domain.InventoryTransactionListResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/transactions [get]
func (h *InventoryHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	itemID, err := queryInt64(r, "item_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	filters := repository.TransactionFilters{
		ItemID:          itemID,
		TransactionType: domain.TransactionType(r.URL.Query().Get("transaction_type")),
	}
	page, _ := listParams(r)

	result, err := h.inventoryService.ListTransactions(r.Context(), filters, page)
	if err != nil {
		respondServiceError(w, h.logger, err, "list stock movements")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get inventory item
// @Description Includes the ten most recent stock movements.
// @Tags Inventory
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} domain.InventoryItemDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/{id} [get]
func (h *InventoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.inventoryService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get inventory item")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Create godoc
// @Summary Create inventory item
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body domain.InventoryItemRequest true "Item data"
// @Success 201 {object} domain.InventoryItemDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory [post]
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.InventoryItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.inventoryService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create inventory item")
		return
	}
	respondCreated(w, r, item.ID, item)
}

// Update godoc
// @Summary Update inventory item
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body domain.InventoryItemRequest true "Item data"
// @Success 200 {object} domain.InventoryItemDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/{id} [put]
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req domain.InventoryItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.inventoryService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update inventory item")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Adjust godoc
// @Summary Adjust stock
// @Description in adds the quantity, out subtracts it, adjustment sets the absolute quantity.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body domain.StockAdjustmentRequest true "Stock movement"
// @Success 200 {object} domain.InventoryTransactionDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Insufficient stock"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/{id}/adjust [post]
func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req domain.StockAdjustmentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tx, err := h.inventoryService.Adjust(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "adjust stock")
		return
	}
	respondJSON(w, http.StatusOK, tx)
}

// Delete godoc
// @Summary Delete inventory item
// @Tags Inventory
// @Param id path int true "Item ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/{id} [delete]
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.inventoryService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete inventory item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

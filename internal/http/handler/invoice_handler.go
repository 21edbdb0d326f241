package handler

import (
	"net/http"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/service"
	"go.uber.org/zap"
)

type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	logger         *zap.Logger
}

func NewInvoiceHandler(invoiceService *service.InvoiceService, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// List godoc
// @Summary List invoices
// @Tags Invoices
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 200)" default(50)
// @Param status query string false "Filter by status" Enums(draft, sent, paid, overdue, cancelled)
// @Param customer_id query int false "Filter by customer"
// @Param order_id query int false "Filter by order"
// @Param search query string false "Search by invoice number"
// @Param sort_by query string false "Sort field" Enums(created_at, invoice_date, due_date, invoice_number, total_amount)
// @Param sort_order query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} domain.InvoiceListResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices [get]
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID, err := queryInt64(r, "customer_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	orderID, err := queryInt64(r, "order_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	filters := repository.InvoiceFilters{
		Status:     domain.InvoiceStatus(r.URL.Query().Get("status")),
		CustomerID: customerID,
		OrderID:    orderID,
		Search:     r.URL.Query().Get("search"),
	}
	page, sort := listParams(r)

	result, err := h.invoiceService.List(r.Context(), filters, page, sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list invoices")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Statistics godoc
// @Summary Invoice statistics
// @Description Counts and amounts by status, monthly totals of the current year and the overdue count
// @Tags Invoices
// @Produce json
// @Success 200 {object} domain.InvoiceStatisticsDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/statistics [get]
func (h *InvoiceHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.invoiceService.Statistics(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "compute invoice statistics")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// GetByID godoc
// @Summary Get invoice by ID
// @Tags Invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} domain.InvoiceDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get invoice")
		return
	}
	respondJSON(w, http.StatusOK, invoice)
}

// Create godoc
// @Summary Create invoice
// @Description Defaults: invoice_date today, due_date 14 days later, tax_rate 19.
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body domain.InvoiceRequest true "Invoice data"
// @Success 201 {object} domain.InvoiceDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices [post]
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.InvoiceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	invoice, err := h.invoiceService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create invoice")
		return
	}
	respondCreated(w, r, invoice.ID, invoice)
}

// Update godoc
// @Summary Update invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path int true "Invoice ID"
// @Param request body domain.InvoiceRequest true "Invoice data"
// @Success 200 {object} domain.InvoiceDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req domain.InvoiceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	invoice, err := h.invoiceService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update invoice")
		return
	}
	respondJSON(w, http.StatusOK, invoice)
}

// UpdateStatus godoc
// @Summary Change invoice status
// @Description paid records payment_date.
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path int true "Invoice ID"
// @Param request body domain.StatusRequest true "New status"
// @Success 200 {object} domain.InvoiceDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id}/status [put]
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req domain.StatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	invoice, err := h.invoiceService.UpdateStatus(r.Context(), id, domain.InvoiceStatus(req.Status))
	if err != nil {
		respondServiceError(w, h.logger, err, "update invoice status")
		return
	}
	respondJSON(w, http.StatusOK, invoice)
}

// Send godoc
// @Summary Send invoice
// @Description Marks a draft invoice as sent.
// @Tags Invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} domain.InvoiceDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Invoice is not a draft"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id}/send [post]
func (h *InvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Send(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "send invoice")
		return
	}
	respondJSON(w, http.StatusOK, invoice)
}

// Delete godoc
// @Summary Delete invoice
// @Tags Invoices
// @Param id path int true "Invoice ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete invoice")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

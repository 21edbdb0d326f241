package handler

import (
	"net/http"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/service"
	"go.uber.org/zap"
)

type QuoteHandler struct {
	quoteService *service.QuoteService
	logger       *zap.Logger
}

func NewQuoteHandler(quoteService *service.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// List godoc
// @Summary List quotes
// @Tags Quotes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 200)" default(50)
// @Param status query string false "Filter by status" Enums(draft, sent, accepted, rejected, expired)
// @Param service_type query string false "Filter by service type" Enums(building_cleaning, garden_maintenance, winter_service)
// @Param customer_id query int false "Filter by customer"
// @Param search query string false "Search by quote number or title"
// @Success 200 {object} domain.QuoteListResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes [get]
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID, err := queryInt64(r, "customer_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	filters := repository.QuoteFilters{
		Status:      domain.QuoteStatus(q.Get("status")),
		ServiceType: domain.ServiceType(q.Get("service_type")),
		CustomerID:  customerID,
		Search:      q.Get("search"),
	}
	page, sort := listParams(r)

	result, err := h.quoteService.List(r.Context(), filters, page, sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list quotes")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get quote by ID
// @Tags Quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} domain.QuoteDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{id} [get]
func (h *QuoteHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	quote, err := h.quoteService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get quote")
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// Create godoc
// @Summary Create quote
// @Description Totals are computed from the items; optional items are excluded from the subtotal.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body domain.QuoteRequest true "Quote data"
// @Success 201 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes [post]
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.QuoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quote, err := h.quoteService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create quote")
		return
	}
	respondCreated(w, r, quote.ID, quote)
}

// Update godoc
// @Summary Update quote
// @Description Replaces all items and recomputes the totals.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path int true "Quote ID"
// @Param request body domain.QuoteRequest true "Quote data"
// @Success 200 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{id} [put]
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req domain.QuoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quote, err := h.quoteService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update quote")
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// UpdateStatus godoc
// @Summary Change quote status
// @Description sent records sent_at, accepted records accepted_at.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path int true "Quote ID"
// @Param request body domain.StatusRequest true "New status"
// @Success 200 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{id}/status [put]
func (h *QuoteHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req domain.StatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quote, err := h.quoteService.UpdateStatus(r.Context(), id, domain.QuoteStatus(req.Status))
	if err != nil {
		respondServiceError(w, h.logger, err, "update quote status")
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// Delete godoc
// @Summary Delete quote
// @Tags Quotes
// @Param id path int true "Quote ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{id} [delete]
func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.quoteService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete quote")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTemplates godoc
// @Summary List quote templates
// @Tags Quote Templates
// @Produce json
// @Param service_type query string false "Filter by service type" Enums(building_cleaning, garden_maintenance, winter_service)
// @Success 200 {object} domain.QuoteTemplateListResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quote-templates [get]
func (h *QuoteHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	result, err := h.quoteService.ListTemplates(r.Context(), domain.ServiceType(r.URL.Query().Get("service_type")))
	if err != nil {
		respondServiceError(w, h.logger, err, "list quote templates")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetTemplate godoc
// @Summary Get quote template
// @Tags Quote Templates
// @Produce json
// @Param id path int true "Template ID"
// @Success 200 {object} domain.QuoteTemplateDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quote-templates/{id} [get]
func (h *QuoteHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	template, err := h.quoteService.GetTemplate(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get quote template")
		return
	}
	respondJSON(w, http.StatusOK, template)
}

// GenerateFromTemplate godoc
// @Summary Generate quote from template
// @Description Creates a draft quote for the customer with the template's items and defaults.
// @Tags Quote Templates
// @Accept json
// @Produce json
// @Param id path int true "Template ID"
// @Param request body domain.GenerateQuoteRequest true "Customer and overrides"
// @Success 201 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quote-templates/{id}/generate [post]
func (h *QuoteHandler) GenerateFromTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req domain.GenerateQuoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quote, err := h.quoteService.GenerateFromTemplate(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "generate quote")
		return
	}
	w.Header().Set("Location", "/api/quotes/"+formatID(quote.ID))
	respondJSON(w, http.StatusCreated, quote)
}

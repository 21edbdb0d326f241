package handler

import (
	"net/http"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/service"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	customerService *service.CustomerService
	logger          *zap.Logger
}

func NewCustomerHandler(customerService *service.CustomerService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
	}
}

// List godoc
// @Summary List customers
// @Description Get paginated list of customers with optional filters
// @Tags Customers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 200)" default(50)
// @Param search query string false "Search by name, company, email or customer number"
// @Param customer_type query string false "Filter by type" Enums(private, business)
// @Param is_active query bool false "Filter by active flag"
// @Param sort_by query string false "Sort field" Enums(created_at, last_name, customer_number, city)
// @Param sort_order query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} domain.CustomerListResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /customers [get]
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	isActive, err := queryBool(r, "is_active")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	filters := repository.CustomerFilters{
		Search:       r.URL.Query().Get("search"),
		CustomerType: domain.CustomerType(r.URL.Query().Get("customer_type")),
		IsActive:     isActive,
	}
	page, sort := listParams(r)

	result, err := h.customerService.List(r.Context(), filters, page, sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list customers")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get customer by ID
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} domain.CustomerDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get customer")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// Create godoc
// @Summary Create customer
// @Description Create a new customer. The customer number is assigned by the server.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body domain.CustomerRequest true "Customer data"
// @Success 201 {object} domain.CustomerDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Email already in use"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /customers [post]
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CustomerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	customer, err := h.customerService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create customer")
		return
	}
	respondCreated(w, r, customer.ID, customer)
}

// Update godoc
// @Summary Update customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Param request body domain.CustomerRequest true "Customer data"
// @Success 200 {object} domain.CustomerDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /customers/{id} [put]
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req domain.CustomerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	customer, err := h.customerService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update customer")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// Delete godoc
// @Summary Deactivate customer
// @Description Customers are never removed; delete sets is_active to false and keeps their history.
// @Tags Customers
// @Param id path int true "Customer ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /customers/{id} [delete]
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.customerService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete customer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetPortalAccess godoc
// @Summary Set portal password
// @Description Grants the customer access to the portal or replaces the password.
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Param request body domain.PortalAccessRequest true "New password"
// @Success 200 {object} domain.CustomerDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /customers/{id}/portal-access [put]
func (h *CustomerHandler) SetPortalAccess(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req domain.PortalAccessRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	customer, err := h.customerService.SetPortalAccess(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "set portal access")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

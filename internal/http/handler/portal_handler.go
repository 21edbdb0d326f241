package handler

import (
	"net/http"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/service"
	"go.uber.org/zap"
)

// PortalHandler serves the customer portal. Every query below runs with the
// portal session in the context and is limited to that customer by the repositories.
type PortalHandler struct {
	authService          *service.AuthService
	customerService      *service.CustomerService
	orderService         *service.OrderService
	invoiceService       *service.InvoiceService
	communicationService *service.CommunicationService
	logger               *zap.Logger
}

func NewPortalHandler(
	authService *service.AuthService,
	customerService *service.CustomerService,
	orderService *service.OrderService,
	invoiceService *service.InvoiceService,
	communicationService *service.CommunicationService,
	logger *zap.Logger,
) *PortalHandler {
	return &PortalHandler{
		authService:          authService,
		customerService:      customerService,
		orderService:         orderService,
		invoiceService:       invoiceService,
		communicationService: communicationService,
		logger:               logger,
	}
}

// Login godoc
// @Summary Portal login
// @Description Customers log in with their email and the password set by staff.
// @Tags Portal
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Router /portal/login [post]
func (h *PortalHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.authService.PortalLogin(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "log in to portal")
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// Orders godoc
// @Summary My orders
// @Tags Portal
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 200)" default(50)
// @Param status query string false "Filter by status" Enums(pending, confirmed, in_progress, completed, cancelled)
// @Success 200 {object} domain.OrderListResponse
// @Security BearerAuth
// @Router /portal/orders [get]
func (h *PortalHandler) Orders(w http.ResponseWriter, r *http.Request) {
	filters := repository.OrderFilters{Status: domain.OrderStatus(r.URL.Query().Get("status"))}
	page, sort := listParams(r)

	result, err := h.orderService.List(r.Context(), filters, page, sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list portal orders")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Invoices godoc
// @Summary My invoices
// @Tags Portal
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 200)" default(50)
// @Param status query string false "Filter by status" Enums(draft, sent, paid, overdue, cancelled)
// @Success 200 {object} domain.InvoiceListResponse
// @Security BearerAuth
// @Router /portal/invoices [get]
func (h *PortalHandler) Invoices(w http.ResponseWriter, r *http.Request) {
	filters := repository.InvoiceFilters{Status: domain.InvoiceStatus(r.URL.Query().Get("status"))}
	page, sort := listParams(r)

	result, err := h.invoiceService.List(r.Context(), filters, page, sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list portal invoices")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Profile godoc
// @Summary My profile
// @Tags Portal
// @Produce json
// @Success 200 {object} domain.CustomerDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /portal/profile [get]
func (h *PortalHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.customerService.Profile(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "get profile")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update my profile
// @Description Contact details and address only; name and email are managed by staff.
// @Tags Portal
// @Accept json
// @Produce json
// @Param request body domain.PortalProfileRequest true "Profile data"
// @Success 200 {object} domain.CustomerDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /portal/profile [put]
func (h *PortalHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.PortalProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.customerService.UpdateProfile(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update profile")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// Messages godoc
// @Summary My messages
// @Tags Portal
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 200)" default(50)
// @Success 200 {object} domain.CommunicationListResponse
// @Security BearerAuth
// @Router /portal/messages [get]
func (h *PortalHandler) Messages(w http.ResponseWriter, r *http.Request) {
	page, sort := listParams(r)

	result, err := h.communicationService.List(r.Context(), repository.CommunicationFilters{}, page, sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list portal messages")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// SendMessage godoc
// @Summary Send a message
// @Description Creates an inbound, pending communication for the customer.
// @Tags Portal
// @Accept json
// @Produce json
// @Param request body domain.PortalMessageRequest true "Message"
// @Success 201 {object} domain.CommunicationDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /portal/messages [post]
func (h *PortalHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req domain.PortalMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	msg, err := h.communicationService.SendPortalMessage(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "send message")
		return
	}
	respondCreated(w, r, msg.ID, msg)
}

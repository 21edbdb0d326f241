package handler

import (
	"net/http"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/service"
	"go.uber.org/zap"
)

type CommunicationHandler struct {
	communicationService *service.CommunicationService
	logger               *zap.Logger
}

func NewCommunicationHandler(communicationService *service.CommunicationService, logger *zap.Logger) *CommunicationHandler {
	return &CommunicationHandler{
		communicationService: communicationService,
		logger:               logger,
	}
}

// communicationFilters reads the list filters shared by the staff and portal endpoints
func communicationFilters(r *http.Request) (repository.CommunicationFilters, error) {
	customerID, err := queryInt64(r, "customer_id")
	if err != nil {
		return repository.CommunicationFilters{}, err
	}
	important, err := queryBool(r, "is_important")
	if err != nil {
		return repository.CommunicationFilters{}, err
	}

	q := r.URL.Query()
	return repository.CommunicationFilters{
		Type:        domain.CommunicationType(q.Get("type")),
		Status:      domain.CommunicationStatus(q.Get("status")),
		CustomerID:  customerID,
		IsImportant: important,
		Search:      q.Get("search"),
	}, nil
}

// List godoc
// @Summary List communications
// @Tags Communications
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 200)" default(50)
// @Param type query string false "Filter by type" Enums(email, phone, whatsapp, sms, meeting, note)
// @Param status query string false "Filter by status" Enums(pending, completed, follow_up_required)
// @Param customer_id query int false "Filter by customer"
// @Param is_important query bool false "Only important entries"
// @Param search query string false "Search subject and content"
// @Success 200 {object} domain.CommunicationListResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /communications [get]
func (h *CommunicationHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := communicationFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, sort := listParams(r)

	result, err := h.communicationService.List(r.Context(), filters, page, sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list communications")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get communication by ID
// @Tags Communications
// @Produce json
// @Param id path int true "Communication ID"
// @Success 200 {object} domain.CommunicationDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /communications/{id} [get]
func (h *CommunicationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	comm, err := h.communicationService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get communication")
		return
	}
	respondJSON(w, http.StatusOK, comm)
}

// Create godoc
// @Summary Log communication
// @Description created_by is taken from the session.
// @Tags Communications
// @Accept json
// @Produce json
// @Param request body domain.CommunicationRequest true "Communication data"
// @Success 201 {object} domain.CommunicationDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /communications [post]
func (h *CommunicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CommunicationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comm, err := h.communicationService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create communication")
		return
	}
	respondCreated(w, r, comm.ID, comm)
}

// Update godoc
// @Summary Update communication
// @Tags Communications
// @Accept json
// @Produce json
// @Param id path int true "Communication ID"
// @Param request body domain.CommunicationRequest true "Communication data"
// @Success 200 {object} domain.CommunicationDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /communications/{id} [put]
func (h *CommunicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req domain.CommunicationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comm, err := h.communicationService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update communication")
		return
	}
	respondJSON(w, http.StatusOK, comm)
}

// Delete godoc
// @Summary Delete communication
// @Tags Communications
// @Param id path int true "Communication ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /communications/{id} [delete]
func (h *CommunicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.communicationService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete communication")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/service"
	"go.uber.org/zap"
)

type TimeEntryHandler struct {
	timeEntryService *service.TimeEntryService
	logger           *zap.Logger
}

func NewTimeEntryHandler(timeEntryService *service.TimeEntryService, logger *zap.Logger) *TimeEntryHandler {
	return &TimeEntryHandler{
		timeEntryService: timeEntryService,
		logger:           logger,
	}
}

// List godoc
// @Summary List time entries
// @Tags Time Entries
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 200)" default(50)
// @Param status query string false "Filter by status" Enums(active, completed, paused, cancelled)
// @Param user_id query int false "Filter by user"
// @Param activity_type query string false "Filter by activity" Enums(work, break, meeting, travel)
// @Param customer_id query int false "Filter by customer"
// @Success 200 {object} domain.TimeEntryListResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /time-entries [get]
func (h *TimeEntryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "user_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	customerID, err := queryInt64(r, "customer_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	filters := repository.TimeEntryFilters{
		Status:       domain.TimeEntryStatus(r.URL.Query().Get("status")),
		UserID:       userID,
		ActivityType: domain.ActivityType(r.URL.Query().Get("activity_type")),
		CustomerID:   customerID,
	}
	page, sort := listParams(r)

	result, err := h.timeEntryService.List(r.Context(), filters, page, sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list time entries")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Statistics godoc
// @Summary Time statistics
// @Tags Time Entries
// @Produce json
// @Success 200 {object} domain.TimeStatisticsDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /time-entries/statistics [get]
func (h *TimeEntryHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.timeEntryService.Statistics(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "compute time statistics")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Report godoc
// @Summary Time report
// @Description Completed entries that started between date_from and date_to (inclusive)
// @Tags Time Entries
// @Produce json
// @Param date_from query string true "First day (YYYY-MM-DD)"
// @Param date_to query string true "Last day (YYYY-MM-DD)"
// @Param user_id query int false "Only this user"
// @Success 200 {object} domain.TimeReportDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /time-entries/report [get]
func (h *TimeEntryHandler) Report(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "user_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.timeEntryService.Report(r.Context(), r.URL.Query().Get("date_from"), r.URL.Query().Get("date_to"), userID)
	if err != nil {
		respondServiceError(w, h.logger, err, "build time report")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// GetByID godoc
// @Summary Get time entry
// @Tags Time Entries
// @Produce json
// @Param id path int true "Time entry ID"
// @Success 200 {object} domain.TimeEntryDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /time-entries/{id} [get]
func (h *TimeEntryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	entry, err := h.timeEntryService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get time entry")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// Create godoc
// @Summary Record time entry
// @Description The user is taken from the session. Duration is derived from start and end.
// @Tags Time Entries
// @Accept json
// @Produce json
// @Param request body domain.TimeEntryRequest true "Time entry data"
// @Success 201 {object} domain.TimeEntryDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError "No user session"
// @Security BearerAuth
// @Router /time-entries [post]
func (h *TimeEntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.TimeEntryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	entry, err := h.timeEntryService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create time entry")
		return
	}
	respondCreated(w, r, entry.ID, entry)
}

// Start godoc
// @Summary Start timer
// @Description Creates an active entry starting now.
// @Tags Time Entries
// @Accept json
// @Produce json
// @Param request body domain.StartTimerRequest true "Timer data"
// @Success 201 {object} domain.TimeEntryDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /time-entries/start [post]
func (h *TimeEntryHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req domain.StartTimerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	entry, err := h.timeEntryService.Start(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "start timer")
		return
	}
	w.Header().Set("Location", "/api/time-entries/"+formatID(entry.ID))
	respondJSON(w, http.StatusCreated, entry)
}

// Stop godoc
// @Summary Stop timer
// @Tags Time Entries
// @Produce json
// @Param id path int true "Time entry ID"
// @Success 200 {object} domain.TimeEntryDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Entry is not running"
// @Security BearerAuth
// @Router /time-entries/{id}/stop [post]
func (h *TimeEntryHandler) Stop(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	entry, err := h.timeEntryService.Stop(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "stop timer")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// Update godoc
// @Summary Update time entry
// @Tags Time Entries
// @Accept json
// @Produce json
// @Param id path int true "Time entry ID"
// @Param request body domain.TimeEntryRequest true "Time entry data"
// @Success 200 {object} domain.TimeEntryDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /time-entries/{id} [put]
func (h *TimeEntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req domain.TimeEntryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	entry, err := h.timeEntryService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update time entry")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// Delete godoc
// @Summary Delete time entry
// @Tags Time Entries
// @Param id path int true "Time entry ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /time-entries/{id} [delete]
func (h *TimeEntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.timeEntryService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete time entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

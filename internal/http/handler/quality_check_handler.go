package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/service"
	"go.uber.org/zap"
)

type QualityCheckHandler struct {
	checkService *service.QualityCheckService
	maxUploadMB  int64
	logger       *zap.Logger
}

func NewQualityCheckHandler(checkService *service.QualityCheckService, maxUploadMB int64, logger *zap.Logger) *QualityCheckHandler {
	return &QualityCheckHandler{
		checkService: checkService,
		maxUploadMB:  maxUploadMB,
		logger:       logger,
	}
}

// List godoc
// @Summary List quality checks
// @Tags Quality Checks
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 200)" default(50)
// @Param status query string false "Filter by status" Enums(pending, in_progress, completed, failed)
// @Param check_type query string false "Filter by type" Enums(cleaning, maintenance, inspection, final)
// @Param customer_id query int false "Filter by customer"
// @Param order_id query int false "Filter by order"
// @Success 200 {object} domain.QualityCheckListResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quality-checks [get]
func (h *QualityCheckHandler) List(w http.ResponseWriter, r *http.Request) {
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

	filters := repository.QualityCheckFilters{
		Status:     domain.QualityStatus(r.URL.Query().Get("status")),
		CheckType:  r.URL.Query().Get("check_type"),
		CustomerID: customerID,
		OrderID:    orderID,
	}
	page, sort := listParams(r)

	result, err := h.checkService.List(r.Context(), filters, page, sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list quality checks")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Statistics godoc
// @Summary Quality statistics
// @Description Counts per status, average score per check type, monthly averages and the latest checks
// @Tags Quality Checks
// @Produce json
// @Success 200 {object} domain.QualityStatisticsDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quality-checks/statistics [get]
func (h *QualityCheckHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.checkService.Statistics(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "compute quality statistics")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Standards godoc
// @Summary Quality standards
// @Description The checklist of each check type
// @Tags Quality Checks
// @Produce json
// @Success 200 {object} domain.QualityStandardsResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quality-checks/standards [get]
func (h *QualityCheckHandler) Standards(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.checkService.Standards())
}

// GetByID godoc
// @Summary Get quality check
// @Tags Quality Checks
// @Produce json
// @Param id path int true "Quality check ID"
// @Success 200 {object} domain.QualityCheckDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quality-checks/{id} [get]
func (h *QualityCheckHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	check, err := h.checkService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get quality check")
		return
	}
	respondJSON(w, http.StatusOK, check)
}

// Create godoc
// @Summary Create quality check
// @Tags Quality Checks
// @Accept json
// @Produce json
// @Param request body domain.QualityCheckRequest true "Quality check data"
// @Success 201 {object} domain.QualityCheckDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quality-checks [post]
func (h *QualityCheckHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.QualityCheckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	check, err := h.checkService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create quality check")
		return
	}
	respondCreated(w, r, check.ID, check)
}

// Update godoc
// @Summary Update quality check
// @Tags Quality Checks
// @Accept json
// @Produce json
// @Param id path int true "Quality check ID"
// @Param request body domain.QualityCheckRequest true "Quality check data"
// @Success 200 {object} domain.QualityCheckDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quality-checks/{id} [put]
func (h *QualityCheckHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req domain.QualityCheckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	check, err := h.checkService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update quality check")
		return
	}
	respondJSON(w, http.StatusOK, check)
}

// UpdateStatus godoc
// @Summary Change quality check status
// @Tags Quality Checks
// @Accept json
// @Produce json
// @Param id path int true "Quality check ID"
// @Param request body domain.StatusRequest true "New status"
// @Success 200 {object} domain.QualityCheckDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quality-checks/{id}/status [put]
func (h *QualityCheckHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req domain.StatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	check, err := h.checkService.UpdateStatus(r.Context(), id, domain.QualityStatus(req.Status))
	if err != nil {
		respondServiceError(w, h.logger, err, "update quality check status")
		return
	}
	respondJSON(w, http.StatusOK, check)
}

// Delete godoc
// @Summary Delete quality check
// @Description Also removes the stored photos.
// @Tags Quality Checks
// @Param id path int true "Quality check ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quality-checks/{id} [delete]
func (h *QualityCheckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.checkService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete quality check")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadPhoto godoc
// @Summary Upload inspection photo
// @Tags Quality Checks
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Quality check ID"
// @Param file formData file true "JPEG, PNG or WebP image"
// @Param caption formData string false "Caption"
// @Success 201 {object} domain.QualityPhotoDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quality-checks/{id}/photos [post]
func (h *QualityCheckHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	limit := h.maxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	photo, err := h.checkService.AddPhoto(r.Context(), id, service.PhotoUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Caption:     r.FormValue("caption"),
		Data:        file,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "upload photo")
		return
	}
	w.Header().Set("Location", r.URL.Path+"/"+formatID(photo.ID))
	respondJSON(w, http.StatusCreated, photo)
}

// DownloadPhoto godoc
// @Summary Download inspection photo
// @Tags Quality Checks
// @Produce octet-stream
// @Param id path int true "Quality check ID"
// @Param photoId path int true "Photo ID"
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quality-checks/{id}/photos/{photoId} [get]
func (h *QualityCheckHandler) DownloadPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	photoID, ok := parseID(w, r, "photoId")
	if !ok {
		return
	}

	photo, body, err := h.checkService.OpenPhoto(r.Context(), id, photoID)
	if err != nil {
		respondServiceError(w, h.logger, err, "download photo")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", photo.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(photo.Size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", photo.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("photo download interrupted", zap.Int64("photo_id", photoID), zap.Error(err))
	}
}

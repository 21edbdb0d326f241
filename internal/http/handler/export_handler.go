package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/glanzwerk/crm/internal/export"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ExportHandler struct {
	exporter *export.Exporter
	now      func() time.Time
	logger   *zap.Logger
}

func NewExportHandler(exporter *export.Exporter, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{exporter: exporter, now: time.Now, logger: logger}
}

// Export godoc
// @Summary Export as spreadsheet
// @Description Downloads all records of a resource as an xlsx workbook.
// @Tags Export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param resource path string true "Resource" Enums(customers, orders, invoices, inventory, time-entries)
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /export/{resource} [get]
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")

	table, err := h.exporter.Table(r.Context(), resource)
	if err != nil {
		if errors.Is(err, export.ErrUnknownResource) {
			respondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to export", zap.String("resource", resource), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to export "+resource)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(resource, h.now())))
	if err := export.WriteXLSX(w, table); err != nil {
		// headers are already sent
		h.logger.Error("failed to write export", zap.String("resource", resource), zap.Error(err))
	}
}

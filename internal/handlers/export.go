package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/exporter"
	"sales-dashboard/internal/models"
)

// HandleExportCSV streams the filtered records as a CSV download.
func (h *APIHandlers) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	records, err := h.exportRecords(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	body, err := exporter.CSV(records)
	if err != nil {
		h.fail(w, r, errors.InternalWrap(err, "Failed to build CSV export"))
		return
	}

	h.writeAttachment(w, exporter.MIMECSV, "csv", body)
}

// HandleExportXLSX returns the filtered records as an Excel workbook.
func (h *APIHandlers) HandleExportXLSX(w http.ResponseWriter, r *http.Request) {
	records, err := h.exportRecords(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	body, err := exporter.XLSX(records)
	if err != nil {
		h.fail(w, r, errors.InternalWrap(err, "Failed to build Excel export"))
		return
	}

	h.writeAttachment(w, exporter.MIMEXLSX, "xlsx", body)
}

func (h *APIHandlers) exportRecords(r *http.Request) ([]models.Transaction, error) {
	criteria, err := ParseCriteria(r.URL.Query(), h.analytics.Catalog())
	if err != nil {
		return nil, err
	}
	if err := r.Context().Err(); err != nil {
		return nil, errors.ServiceUnavailable("Export was cancelled").WithDetails(err.Error())
	}
	return h.analytics.Filtered(criteria), nil
}

func (h *APIHandlers) writeAttachment(w http.ResponseWriter, contentType, ext string, body []byte) {
	name := exporter.FileName(h.opts.Now(), ext)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Cache-Control", noStore)
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(body); err != nil {
		h.logger.Warn("export write failed", "format", ext, "error", err)
		return
	}
	h.opts.Metrics.CountExport(ext)
}

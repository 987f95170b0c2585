// Package shopping serves the shopping list, its printable form and
// exports over HTTP.
package shopping

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"

	"github.com/fdg312/meal-planner/internal/blob"
	"github.com/fdg312/meal-planner/internal/mealplan"
	"github.com/fdg312/meal-planner/internal/planner"
)

// Handler handles HTTP requests for the shopping list.
type Handler struct {
	service  *planner.Service
	printer  *Printer
	exporter *Exporter
}

// NewHandler creates a new shopping list handler.
func NewHandler(service *planner.Service) *Handler {
	return &Handler{service: service, printer: NewPrinter()}
}

// WithExporter enables POST /v1/shopping-list/export.
func (h *Handler) WithExporter(e *Exporter) *Handler {
	h.exporter = e
	return h
}

// HandleGenerate handles POST /v1/shopping-list/generate
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	list := h.service.GenerateShoppingList(r.Context())
	writeJSON(w, http.StatusOK, toListResponse(list, h.service.Plan()))
}

// HandleGet handles GET /v1/shopping-list
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toListResponse(h.service.ShoppingList(), h.service.Plan()))
}

// HandleCheck handles POST /v1/shopping-list/items/{id}/check
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Check(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "Failed to check item")
		return
	}
	writeJSON(w, http.StatusOK, toItemDTO(item))
}

// HandleUncheck handles POST /v1/shopping-list/items/{id}/uncheck
func (h *Handler) HandleUncheck(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Uncheck(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "Failed to uncheck item")
		return
	}
	writeJSON(w, http.StatusOK, toItemDTO(item))
}

// HandleCheckPosition handles POST /v1/shopping-list/positions/{index}/check
// and .../uncheck, where index is zero-based.
func (h *Handler) HandleCheckPosition(checked bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := strconv.Atoi(r.PathValue("index"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "index must be an integer")
			return
		}

		var item mealplan.ShoppingItem
		if checked {
			item, err = h.service.CheckAt(r.Context(), index)
		} else {
			item, err = h.service.UncheckAt(r.Context(), index)
		}
		if err != nil {
			writeServiceError(w, err, "Failed to update item")
			return
		}
		writeJSON(w, http.StatusOK, toItemDTO(item))
	}
}

// HandleClearChecked handles POST /v1/shopping-list/clear-checked
func (h *Handler) HandleClearChecked(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ClearCheckedResponse{Cleared: h.service.ClearChecked(r.Context())})
}

// HandleClear handles DELETE /v1/shopping-list
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.service.ClearShoppingList(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// HandlePrint handles GET /v1/shopping-list/print?format=pdf|csv
func (h *Handler) HandlePrint(w http.ResponseWriter, r *http.Request) {
	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeServiceError(w, err, "Failed to print shopping list")
		return
	}

	data, err := h.printer.Render(format, h.service.ShoppingList(), h.service.Plan())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to print shopping list")
		return
	}

	w.Header().Set("Content-Type", ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="shopping-list.%s"`, format))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// HandleExport handles POST /v1/shopping-list/export?format=pdf|csv
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "export_unavailable", "Export storage is not configured")
		return
	}

	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeServiceError(w, err, "Failed to export shopping list")
		return
	}

	resp, err := h.exporter.Export(r.Context(), format, h.service.ShoppingList(), h.service.Plan())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to export shopping list")
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// HandleDownloadExport handles GET /v1/exports/{key...}, the link target of
// exports kept in local blob storage.
func (h *Handler) HandleDownloadExport(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		writeError(w, http.StatusNotFound, "not_found", "export not found")
		return
	}

	key := r.PathValue("key")
	data, err := h.exporter.Download(r.Context(), key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "export not found")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid export key")
		return
	}

	format := FormatPDF
	if path.Ext(key) == "."+FormatCSV {
		format = FormatCSV
	}
	w.Header().Set("Content-Type", ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, path.Base(key)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var verr *mealplan.ValidationError
	var nerr *mealplan.NotFoundError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "invalid_request", verr.Error())
	case errors.As(err, &nerr):
		writeError(w, http.StatusNotFound, "not_found", nerr.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

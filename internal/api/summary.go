package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/almoxarifado/internal/export"
	"github.com/erazemk/almoxarifado/internal/store"
)

// SummaryHandler serves the dashboard totals and stock exports.
type SummaryHandler struct {
	DB *sql.DB
}

// Summary handles GET /api/summary. The low-stock threshold comes from the
// saved preferences unless ?threshold= overrides it.
func (h *SummaryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	prefs, err := store.LoadPreferences(r.Context(), h.DB)
	if err != nil {
		storeError(w, r, "loading preferences", err)
		return
	}

	threshold := prefs.LowStockThreshold
	if v := r.URL.Query().Get("threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, http.StatusBadRequest, "limite inválido")
			return
		}
		threshold = n
	}

	summary, err := store.LoadSummary(r.Context(), h.DB, threshold)
	if err != nil {
		storeError(w, r, "loading summary", err)
		return
	}
	jsonResponse(w, http.StatusOK, summary)
}

// Export handles GET /api/export/{file}, where file is stock.json or
// stock.xlsx.
func (h *SummaryHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, ok := strings.CutPrefix(r.PathValue("file"), "stock.")
	if !ok || !export.ValidFormat(format) {
		jsonError(w, http.StatusNotFound, "formato desconhecido")
		return
	}
	WriteExport(w, r, h.DB, format)
}

// WriteExport streams the stock export as a file download.
func WriteExport(w http.ResponseWriter, r *http.Request, db *sql.DB, format string) {
	records, err := export.LoadStock(r.Context(), db)
	if err != nil {
		storeError(w, r, "exporting stock", err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="estoque.`+format+`"`)
	if err := export.Write(w, format, records); err != nil {
		// Headers are already out; all that is left is to log.
		slog.Error("writing export failed", "format", format, "error", err, "request_id", RequestID(r.Context()))
	}
}

package web

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/almoxarifado/internal/export"
)

// ExportDownload handles GET /export/{file} for estoque.json and
// estoque.xlsx.
func (s *Server) ExportDownload(w http.ResponseWriter, r *http.Request) {
	format, ok := strings.CutPrefix(r.PathValue("file"), "estoque.")
	if !ok || !export.ValidFormat(format) {
		http.NotFound(w, r)
		return
	}

	records, err := export.LoadStock(r.Context(), s.DB)
	if err != nil {
		redirect(w, r, "/stock", "", err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="estoque.`+format+`"`)
	if err := export.Write(w, format, records); err != nil {
		slog.Error("failed to write export", "format", format, "error", err)
		return
	}
	slog.Info("stock exported", "format", format, "items", len(records))
}

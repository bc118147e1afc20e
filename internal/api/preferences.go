package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/almoxarifado/internal/store"
)

// PreferencesHandler reads and saves UI preferences.
type PreferencesHandler struct {
	DB *sql.DB
}

type preferencesRequest struct {
	Theme             *string `json:"theme"`
	LowStockThreshold *int    `json:"low_stock_threshold"`
}

// Get handles GET /api/preferences.
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	prefs, err := store.LoadPreferences(r.Context(), h.DB)
	if err != nil {
		storeError(w, r, "loading preferences", err)
		return
	}
	jsonResponse(w, http.StatusOK, prefs)
}

// Update handles PUT /api/preferences. Omitted fields keep their value.
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	ctx := r.Context()
	if req.Theme != nil {
		if err := store.SetTheme(ctx, h.DB, *req.Theme); err != nil {
			storeError(w, r, "saving theme", err)
			return
		}
	}
	if req.LowStockThreshold != nil {
		if err := store.SetLowStockThreshold(ctx, h.DB, *req.LowStockThreshold); err != nil {
			storeError(w, r, "saving low stock threshold", err)
			return
		}
	}

	prefs, err := store.LoadPreferences(ctx, h.DB)
	if err != nil {
		storeError(w, r, "loading preferences", err)
		return
	}

	slog.Info("preferences updated", "theme", prefs.Theme, "low_stock_threshold", prefs.LowStockThreshold)
	jsonResponse(w, http.StatusOK, prefs)
}

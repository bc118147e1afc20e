package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/almoxarifado/internal/model"
	"github.com/erazemk/almoxarifado/internal/store"
)

// recentLimit caps the withdrawals listed on the dashboard.
const recentLimit = 10

func (s *Server) preferences(r *http.Request) (model.Preferences, error) {
	return store.LoadPreferences(r.Context(), s.DB)
}

// userMessage logs errors the operator cannot act on and returns the
// message to show.
func userMessage(r *http.Request, err error) string {
	if !model.IsValidation(err) &&
		!errors.Is(err, model.ErrNotFound) &&
		!errors.Is(err, model.ErrInsufficientStock) &&
		!errors.Is(err, model.ErrInvalidReturnQuantity) &&
		!errors.Is(err, model.ErrAlreadyReturned) &&
		!errors.Is(err, model.ErrDuplicateItemName) {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	return model.UserMessage(err)
}

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "Painel", "dashboard")

	prefs, _ := s.preferences(r)
	summary, err := store.LoadSummary(r.Context(), s.DB, prefs.LowStockThreshold)
	if err != nil {
		slog.Error("failed to load summary", "error", err)
		data.Error = model.UserMessage(err)
	}

	withdrawals, err := store.ListWithdrawals(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list withdrawals for dashboard", "error", err)
	}
	pending := model.WithdrawalFilter{PendingOnly: true}.Apply(withdrawals)
	if len(pending) > recentLimit {
		pending = pending[:recentLimit]
	}

	s.Templates.Render(w, http.StatusOK, "dashboard.html", &struct {
		PageData
		Summary model.Summary
		Pending []model.Withdrawal
	}{
		PageData: data,
		Summary:  summary,
		Pending:  pending,
	})
}

// ThemeToggle handles POST /theme.
func (s *Server) ThemeToggle(w http.ResponseWriter, r *http.Request) {
	prefs, _ := s.preferences(r)
	theme := model.ToggleTheme(prefs.Theme)
	if err := store.SetTheme(r.Context(), s.DB, theme); err != nil {
		slog.Error("failed to save theme", "error", err)
	}
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// ThresholdSubmit handles POST /preferences/threshold.
func (s *Server) ThresholdSubmit(w http.ResponseWriter, r *http.Request) {
	threshold, err := strconv.Atoi(r.FormValue("low_stock_threshold"))
	if err != nil {
		err = &model.ValidationError{Field: "low_stock_threshold", Message: "informe um número inteiro"}
	} else {
		err = store.SetLowStockThreshold(r.Context(), s.DB, threshold)
	}
	if err == nil {
		slog.Info("low stock threshold changed", "threshold", threshold)
	}
	redirect(w, r, "/", "Limite de estoque baixo atualizado.", err)
}

// backTo returns the local page the form was submitted from, or the
// dashboard.
func backTo(r *http.Request) string {
	if back := r.FormValue("back"); len(back) > 1 && back[0] == '/' && back[1] != '/' && back[1] != '\\' {
		return back
	}
	return "/"
}

package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/almoxarifado/internal/model"
	"github.com/erazemk/almoxarifado/internal/store"
)

func withdrawalPath(id int64) string {
	return fmt.Sprintf("/withdrawals/%d", id)
}

// WithdrawalsPage handles GET /withdrawals?q=&pending=.
func (s *Server) WithdrawalsPage(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "Retiradas", "withdrawals")

	withdrawals, err := store.ListWithdrawals(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list withdrawals", "error", err)
		data.Error = model.UserMessage(err)
	}

	// Only items with something on hand can be withdrawn.
	items, err := store.ListItems(r.Context(), s.DB, "")
	if err != nil {
		slog.Error("failed to list items", "error", err)
	}
	available := items[:0:0]
	for _, it := range items {
		if it.Available() {
			available = append(available, it)
		}
	}

	pending, _ := strconv.ParseBool(r.URL.Query().Get("pending"))
	filter := model.WithdrawalFilter{Term: r.URL.Query().Get("q"), PendingOnly: pending}
	selected, _ := strconv.ParseInt(r.URL.Query().Get("item"), 10, 64)

	s.Templates.Render(w, http.StatusOK, "withdrawals.html", &struct {
		PageData
		Query        string
		PendingOnly  bool
		Withdrawals  []model.Withdrawal
		Items        []model.Item
		SelectedItem int64
	}{
		PageData:     data,
		Query:        filter.Term,
		PendingOnly:  filter.PendingOnly,
		Withdrawals:  filter.Apply(withdrawals),
		Items:        available,
		SelectedItem: selected,
	})
}

// WithdrawalDetailPage handles GET /withdrawals/{id}.
func (s *Server) WithdrawalDetailPage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	wd, err := store.GetWithdrawal(r.Context(), s.DB, id)
	if errors.Is(err, model.ErrNotFound) {
		http.Error(w, "retirada não encontrada", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to get withdrawal", "error", err)
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}

	// The item may have been deleted since.
	item, err := store.GetItem(r.Context(), s.DB, wd.ItemID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		slog.Error("failed to get withdrawn item", "error", err)
	}

	s.Templates.Render(w, http.StatusOK, "withdrawal_detail.html", &struct {
		PageData
		Withdrawal *model.Withdrawal
		Item       *model.Item
	}{
		PageData:   s.page(r, "Retirada de "+wd.ItemName, "withdrawals"),
		Withdrawal: wd,
		Item:       item,
	})
}

// WithdrawalCreateSubmit handles POST /withdrawals.
func (s *Server) WithdrawalCreateSubmit(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(r.FormValue("item_id"), 10, 64)
	if err != nil {
		redirect(w, r, "/withdrawals", "", &model.ValidationError{Field: "item_id", Message: "Selecione um item."})
		return
	}
	quantity, err := formInt(r, "quantity")
	if err != nil {
		redirect(w, r, "/withdrawals", "", err)
		return
	}

	wd, err := store.CreateWithdrawal(r.Context(), s.DB, r.FormValue("person_name"), itemID, quantity)
	if err != nil {
		redirect(w, r, "/withdrawals", "", err)
		return
	}

	slog.Info("withdrawal created", "id", wd.ID, "item", wd.ItemName, "person", wd.PersonName, "quantity", wd.Quantity)
	redirect(w, r, "/withdrawals", "Retirada registrada.", nil)
}

// WithdrawalEditSubmit handles POST /withdrawals/{id}. The "return" checkbox
// turns the edit into a partial return.
func (s *Server) WithdrawalEditSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	quantity, err := formInt(r, "quantity")
	if err != nil {
		redirect(w, r, withdrawalPath(id), "", err)
		return
	}
	isReturn := r.FormValue("return") != ""

	wd, err := store.EditWithdrawal(r.Context(), s.DB, id, quantity, isReturn)
	if err != nil {
		redirect(w, r, withdrawalPath(id), "", err)
		return
	}

	slog.Info("withdrawal edited", "id", wd.ID, "quantity", wd.Quantity, "return", isReturn, "status", wd.Status)
	redirect(w, r, withdrawalPath(id), "Retirada atualizada.", nil)
}

// WithdrawalReturnSubmit handles POST /withdrawals/{id}/return.
func (s *Server) WithdrawalReturnSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	wd, err := store.ReturnWithdrawal(r.Context(), s.DB, id)
	if err != nil {
		redirect(w, r, backTo(r), "", err)
		return
	}

	slog.Info("withdrawal returned", "id", wd.ID, "item", wd.ItemName, "person", wd.PersonName)
	redirect(w, r, backTo(r), "Devolução registrada.", nil)
}

// WithdrawalDeleteSubmit handles POST /withdrawals/{id}/delete.
func (s *Server) WithdrawalDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	if err := store.DeleteWithdrawal(r.Context(), s.DB, id); err != nil {
		redirect(w, r, "/withdrawals", "", err)
		return
	}

	slog.Info("withdrawal deleted", "id", id)
	redirect(w, r, "/withdrawals", "Retirada excluída.", nil)
}

package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/almoxarifado/internal/model"
	"github.com/erazemk/almoxarifado/internal/store"
)

// WithdrawalsHandler handles withdrawal endpoints.
type WithdrawalsHandler struct {
	DB *sql.DB
}

type createWithdrawalRequest struct {
	PersonName string `json:"person_name"`
	ItemID     int64  `json:"item_id"`
	Quantity   int    `json:"quantity"`
}

type editWithdrawalRequest struct {
	Quantity *int `json:"quantity"`
	IsReturn bool `json:"is_return"`
}

// withdrawalFilter reads ?q= and ?pending= into a filter.
func withdrawalFilter(r *http.Request) model.WithdrawalFilter {
	pending, _ := strconv.ParseBool(r.URL.Query().Get("pending"))
	return model.WithdrawalFilter{Term: r.URL.Query().Get("q"), PendingOnly: pending}
}

// List handles GET /api/withdrawals?q=&pending=.
func (h *WithdrawalsHandler) List(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := store.ListWithdrawals(r.Context(), h.DB)
	if err != nil {
		storeError(w, r, "listing withdrawals", err)
		return
	}
	jsonResponse(w, http.StatusOK, withdrawalFilter(r).Apply(withdrawals))
}

// Create handles POST /api/withdrawals.
func (h *WithdrawalsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createWithdrawalRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	wd, err := store.CreateWithdrawal(r.Context(), h.DB, req.PersonName, req.ItemID, req.Quantity)
	if err != nil {
		storeError(w, r, "creating withdrawal", err)
		return
	}

	slog.Info("withdrawal created", "id", wd.ID, "item", wd.ItemID, "person", wd.PersonName, "quantity", wd.Quantity)
	jsonResponse(w, http.StatusCreated, wd)
}

// Get handles GET /api/withdrawals/{id}.
func (h *WithdrawalsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "id de retirada inválido")
		return
	}

	wd, err := store.GetWithdrawal(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, r, "getting withdrawal", err)
		return
	}
	jsonResponse(w, http.StatusOK, wd)
}

// Update handles PUT /api/withdrawals/{id}: a partial return when is_return
// is set, otherwise a correction of the withdrawn amount.
func (h *WithdrawalsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "id de retirada inválido")
		return
	}

	var req editWithdrawalRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if req.Quantity == nil {
		jsonError(w, http.StatusBadRequest, "quantidade obrigatória")
		return
	}

	wd, err := store.EditWithdrawal(r.Context(), h.DB, id, *req.Quantity, req.IsReturn)
	if err != nil {
		storeError(w, r, "editing withdrawal", err)
		return
	}

	slog.Info("withdrawal edited", "id", wd.ID, "quantity", wd.Quantity, "return", req.IsReturn, "status", wd.Status)
	jsonResponse(w, http.StatusOK, wd)
}

// Return handles POST /api/withdrawals/{id}/return.
func (h *WithdrawalsHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "id de retirada inválido")
		return
	}

	wd, err := store.ReturnWithdrawal(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, r, "returning withdrawal", err)
		return
	}

	slog.Info("withdrawal returned", "id", wd.ID, "item", wd.ItemID, "quantity", wd.OriginalQuantity)
	jsonResponse(w, http.StatusOK, wd)
}

// Delete handles DELETE /api/withdrawals/{id}. The item's quantity is left
// as it is.
func (h *WithdrawalsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "id de retirada inválido")
		return
	}

	if err := store.DeleteWithdrawal(r.Context(), h.DB, id); err != nil {
		storeError(w, r, "deleting withdrawal", err)
		return
	}

	slog.Info("withdrawal deleted", "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "retirada excluída"})
}

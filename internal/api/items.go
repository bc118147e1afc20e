package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/almoxarifado/internal/imaging"
	"github.com/erazemk/almoxarifado/internal/model"
	"github.com/erazemk/almoxarifado/internal/store"
)

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type itemRequest struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// List handles GET /api/items?category=&q=.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" && !model.ValidCategory(category) {
		jsonError(w, http.StatusBadRequest, "categoria inválida")
		return
	}

	items, err := store.ListItems(r.Context(), h.DB, category)
	if err != nil {
		storeError(w, r, "listing items", err)
		return
	}

	filter := model.ItemFilter{Term: r.URL.Query().Get("q")}
	jsonResponse(w, http.StatusOK, filter.Apply(items))
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, req.Category, req.Name, req.Description, req.Quantity)
	if err != nil {
		storeError(w, r, "creating item", err)
		return
	}

	slog.Info("item created", "id", item.ID, "category", item.Category, "name", item.Name, "quantity", item.Quantity)
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "id de item inválido")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, r, "getting item", err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}. The category cannot be changed.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "id de item inválido")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	item, err := store.UpdateItem(r.Context(), h.DB, id, req.Name, req.Description, req.Quantity)
	if err != nil {
		storeError(w, r, "updating item", err)
		return
	}

	slog.Info("item updated", "id", item.ID, "name", item.Name, "quantity", item.Quantity)
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}. Withdrawals of the item are kept;
// the response says how many of them were still pending.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "id de item inválido")
		return
	}

	pending, err := store.DeleteItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, r, "deleting item", err)
		return
	}

	slog.Info("item deleted", "id", id, "pending_withdrawals", pending)
	jsonResponse(w, http.StatusOK, map[string]any{
		"message":             "item excluído",
		"pending_withdrawals": pending,
	})
}

// History handles GET /api/items/{id}/history.
func (h *ItemsHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "id de item inválido")
		return
	}

	history, err := store.GetItemHistory(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, r, "getting item history", err)
		return
	}
	if history == nil {
		history = []model.Withdrawal{}
	}
	jsonResponse(w, http.StatusOK, history)
}

// UploadImage handles PUT /api/items/{id}/image with a multipart "image" field.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "id de item inválido")
		return
	}

	// Room for the multipart framing around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		jsonError(w, http.StatusBadRequest, "arquivo muito grande ou formulário inválido")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "arquivo de imagem obrigatório")
		return
	}
	defer file.Close()

	photo, err := imaging.Thumbnail(file)
	if err != nil {
		if !errors.Is(err, imaging.ErrUnsupportedFormat) && !errors.Is(err, imaging.ErrTooLarge) {
			slog.Warn("photo rejected", "item", id, "error", err)
		}
		jsonError(w, http.StatusBadRequest, "a imagem deve ser JPEG ou PNG de até 5 MB")
		return
	}

	if err := store.SetItemImage(r.Context(), h.DB, id, photo.Data, photo.MIME); err != nil {
		storeError(w, r, "saving item image", err)
		return
	}

	slog.Info("item image updated", "id", id, "bytes", len(photo.Data))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "imagem atualizada"})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "id de item inválido")
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, r, "getting item image", err)
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "sem imagem")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=60")
	w.Write(data)
}

package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/almoxarifado/internal/imaging"
	"github.com/erazemk/almoxarifado/internal/model"
	"github.com/erazemk/almoxarifado/internal/store"
)

// categoryPath maps a category to its list page.
func categoryPath(category string) string {
	if category == model.CategoryTools {
		return "/tools"
	}
	return "/stock"
}

func itemPath(id int64) string {
	return fmt.Sprintf("/items/%d", id)
}

// formInt parses an integer form field, reporting a validation error for
// anything that is not a whole number.
func formInt(r *http.Request, field string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue(field)))
	if err != nil {
		return 0, &model.ValidationError{Field: field, Message: "informe um número inteiro"}
	}
	return n, nil
}

// StockPage handles GET /stock.
func (s *Server) StockPage(w http.ResponseWriter, r *http.Request) {
	s.itemsPage(w, r, model.CategoryStock)
}

// ToolsPage handles GET /tools.
func (s *Server) ToolsPage(w http.ResponseWriter, r *http.Request) {
	s.itemsPage(w, r, model.CategoryTools)
}

func (s *Server) itemsPage(w http.ResponseWriter, r *http.Request, category string) {
	data := s.page(r, model.CategoryLabel(category), category)

	items, err := store.ListItems(r.Context(), s.DB, category)
	if err != nil {
		slog.Error("failed to list items", "category", category, "error", err)
		data.Error = model.UserMessage(err)
	}

	prefs, _ := s.preferences(r)
	filter := model.ItemFilter{Term: r.URL.Query().Get("q")}

	s.Templates.Render(w, http.StatusOK, "items.html", &struct {
		PageData
		Category  string
		Path      string
		Query     string
		Items     []model.Item
		Total     int
		Threshold int
	}{
		PageData:  data,
		Category:  category,
		Path:      categoryPath(category),
		Query:     filter.Term,
		Items:     filter.Apply(items),
		Total:     len(items),
		Threshold: prefs.LowStockThreshold,
	})
}

// ItemDetailPage handles GET /items/{id}.
func (s *Server) ItemDetailPage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	item, err := store.GetItem(r.Context(), s.DB, id)
	if errors.Is(err, model.ErrNotFound) {
		http.Error(w, "item não encontrado", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to get item", "error", err)
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}

	history, err := store.GetItemHistory(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get item history", "error", err)
	}
	_, mime, err := store.GetItemImage(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to check item image", "error", err)
	}

	s.Templates.Render(w, http.StatusOK, "item_detail.html", &struct {
		PageData
		Item     *model.Item
		History  []model.Withdrawal
		HasImage bool
	}{
		PageData: s.page(r, item.Name, item.Category),
		Item:     item,
		History:  history,
		HasImage: mime != "",
	})
}

// ItemCreateSubmit handles POST /items.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	category := r.FormValue("category")
	back := categoryPath(category)

	quantity, err := formInt(r, "quantity")
	if err != nil {
		redirect(w, r, back, "", err)
		return
	}

	item, err := store.CreateItem(r.Context(), s.DB, category, r.FormValue("name"), r.FormValue("description"), quantity)
	if err != nil {
		redirect(w, r, back, "", err)
		return
	}

	slog.Info("item created", "id", item.ID, "category", item.Category, "name", item.Name, "quantity", item.Quantity)
	redirect(w, r, back, "Item adicionado.", nil)
}

// ItemUpdateSubmit handles POST /items/{id}.
func (s *Server) ItemUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	quantity, err := formInt(r, "quantity")
	if err != nil {
		redirect(w, r, itemPath(id), "", err)
		return
	}

	item, err := store.UpdateItem(r.Context(), s.DB, id, r.FormValue("name"), r.FormValue("description"), quantity)
	if err != nil {
		redirect(w, r, itemPath(id), "", err)
		return
	}

	slog.Info("item updated", "id", item.ID, "name", item.Name, "quantity", item.Quantity)
	redirect(w, r, itemPath(id), "Item atualizado.", nil)
}

// ItemDeleteSubmit handles POST /items/{id}/delete.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	item, err := store.GetItem(r.Context(), s.DB, id)
	if err != nil {
		redirect(w, r, "/stock", "", err)
		return
	}

	pending, err := store.DeleteItem(r.Context(), s.DB, id)
	if err != nil {
		redirect(w, r, itemPath(id), "", err)
		return
	}

	slog.Info("item deleted", "id", id, "name", item.Name, "pending_withdrawals", pending)
	msg := "Item excluído."
	if pending > 0 {
		msg = fmt.Sprintf("Item excluído. %d retirada(s) pendente(s) continuam registradas.", pending)
	}
	redirect(w, r, categoryPath(item.Category), msg, nil)
}

// ItemImageSubmit handles POST /items/{id}/image.
func (s *Server) ItemImageSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	invalid := &model.ValidationError{Field: "image", Message: "A imagem deve ser JPEG ou PNG de até 5 MB."}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		redirect(w, r, itemPath(id), "", invalid)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		redirect(w, r, itemPath(id), "", invalid)
		return
	}
	defer file.Close()

	photo, err := imaging.Thumbnail(file)
	if err != nil {
		slog.Warn("photo rejected", "item", id, "error", err)
		redirect(w, r, itemPath(id), "", invalid)
		return
	}

	if err := store.SetItemImage(r.Context(), s.DB, id, photo.Data, photo.MIME); err != nil {
		redirect(w, r, itemPath(id), "", err)
		return
	}

	slog.Info("item image uploaded", "id", id, "bytes", len(photo.Data))
	redirect(w, r, itemPath(id), "Foto atualizada.", nil)
}

// ItemImageGet handles GET /items/{id}/image.
func (s *Server) ItemImageGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), s.DB, id)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		slog.Error("failed to get image", "error", err)
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=60")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write image response", "error", err)
	}
}

package model

import (
	"strings"
	"time"
)

// Item represents a stock item or tool with an on-hand quantity.
type Item struct {
	ID          int64     `json:"id"`
	Category    string    `json:"category"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Quantity    int       `json:"quantity"`
	ImageMime   string    `json:"image_mime,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Item categories.
const (
	CategoryStock = "stock"
	CategoryTools = "tools"
)

// Categories lists the valid item categories in display order.
var Categories = []string{CategoryStock, CategoryTools}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c string) bool {
	return c == CategoryStock || c == CategoryTools
}

// CategoryLabel returns the user-facing name of a category.
func CategoryLabel(c string) string {
	switch c {
	case CategoryStock:
		return "Estoque"
	case CategoryTools:
		return "Ferramentas"
	default:
		return c
	}
}

// Available reports whether any units are on hand.
func (i Item) Available() bool {
	return i.Quantity > 0
}

// AvailabilityLabel returns the status label shown next to an item.
func (i Item) AvailabilityLabel() string {
	if i.Available() {
		return "Disponível"
	}
	return "Indisponível"
}

// ValidateItem checks the user-supplied fields of an item and returns the
// trimmed name.
func ValidateItem(category, name string, quantity int) (string, error) {
	if !ValidCategory(category) {
		return "", &ValidationError{Field: "category", Message: "categoria inválida"}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: "name", Message: "nome obrigatório"}
	}
	if quantity < 0 {
		return "", &ValidationError{Field: "quantity", Message: "a quantidade não pode ser negativa"}
	}
	return name, nil
}

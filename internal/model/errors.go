package model

import "errors"

// Errors returned by store operations. All of them are detected before any
// write, so the operation that returned them changed nothing.
var (
	ErrNotFound              = errors.New("not found")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrInvalidReturnQuantity = errors.New("return quantity exceeds amount still withdrawn")
	ErrAlreadyReturned       = errors.New("withdrawal already returned")
	ErrDuplicateItemName     = errors.New("item name already exists in category")
)

// ValidationError reports a missing or invalid input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UserMessage maps an error to the message shown to the operator.
func UserMessage(err error) string {
	var ve *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, ErrInsufficientStock):
		return "Quantidade indisponível para retirada."
	case errors.Is(err, ErrInvalidReturnQuantity):
		return "A nova quantidade não pode ser maior que a quantidade retirada."
	case errors.Is(err, ErrAlreadyReturned):
		return "Esta retirada já foi devolvida."
	case errors.Is(err, ErrDuplicateItemName):
		return "Já existe um item com este nome nesta categoria."
	case errors.Is(err, ErrNotFound):
		return "Registro não encontrado."
	default:
		return "Erro interno. Tente novamente."
	}
}

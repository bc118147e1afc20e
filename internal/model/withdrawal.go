package model

import "time"

// Withdrawal records a quantity checked out from an item.
//
// ItemName and ItemType are copied from the item when the withdrawal is
// created and are never updated afterwards, even if the item is renamed or
// deleted.
type Withdrawal struct {
	ID               int64     `json:"id"`
	ItemID           int64     `json:"item_id"`
	ItemName         string    `json:"item_name"`
	ItemType         string    `json:"item_type"`
	PersonName       string    `json:"person_name"`
	Quantity         int       `json:"quantity"`
	OriginalQuantity int       `json:"original_quantity"`
	Status           string    `json:"status"`
	WithdrawnAt      time.Time `json:"withdrawn_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Withdrawal statuses.
const (
	StatusWithdrawn         = "withdrawn"
	StatusPartiallyReturned = "partially_returned"
	StatusReturned          = "returned"
)

// Pending reports whether part of the withdrawal is still out.
func (w Withdrawal) Pending() bool {
	return w.Status != StatusReturned
}

// Returned is the amount given back so far.
func (w Withdrawal) Returned() int {
	return w.OriginalQuantity - w.Quantity
}

// StatusLabel returns the user-facing name of a withdrawal status.
func StatusLabel(status string) string {
	switch status {
	case StatusWithdrawn:
		return "Retirado"
	case StatusPartiallyReturned:
		return "Parcialmente devolvido"
	case StatusReturned:
		return "Devolvido"
	default:
		return status
	}
}

// ReturnStatus computes the status after a return edit moved the amount
// still out from current to next. A return of nothing leaves the status alone.
func ReturnStatus(status string, current, next int) string {
	switch {
	case current-next <= 0:
		return status
	case next == 0:
		return StatusReturned
	default:
		return StatusPartiallyReturned
	}
}

package model

import (
	"strconv"
	"strings"
)

// NormalizeSearchTerm trims and lower-cases a search term.
func NormalizeSearchTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func containsFold(value, term string) bool {
	return value != "" && strings.Contains(strings.ToLower(value), term)
}

// ItemFilter selects items by a free-text term.
type ItemFilter struct {
	Term string
}

// Match reports whether the term occurs in the item's name, description or
// quantity. An empty term matches every item.
func (f ItemFilter) Match(it Item) bool {
	term := NormalizeSearchTerm(f.Term)
	if term == "" {
		return true
	}
	return containsFold(it.Name, term) ||
		containsFold(it.Description, term) ||
		strings.Contains(strconv.Itoa(it.Quantity), term)
}

// Apply returns the items that match, preserving order.
func (f ItemFilter) Apply(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// WithdrawalFilter selects withdrawals by a free-text term and, optionally,
// only those not yet fully returned.
type WithdrawalFilter struct {
	Term        string
	PendingOnly bool
}

// Match reports whether the withdrawal passes both the term and the pending
// constraint.
func (f WithdrawalFilter) Match(w Withdrawal) bool {
	if f.PendingOnly && !w.Pending() {
		return false
	}
	term := NormalizeSearchTerm(f.Term)
	if term == "" {
		return true
	}
	return containsFold(w.PersonName, term) ||
		containsFold(w.ItemName, term) ||
		containsFold(w.ItemType, term) ||
		containsFold(CategoryLabel(w.ItemType), term)
}

// Apply returns the withdrawals that match, preserving order.
func (f WithdrawalFilter) Apply(ws []Withdrawal) []Withdrawal {
	out := make([]Withdrawal, 0, len(ws))
	for _, w := range ws {
		if f.Match(w) {
			out = append(out, w)
		}
	}
	return out
}

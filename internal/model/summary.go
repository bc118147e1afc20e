package model

// DefaultLowStockThreshold is the quantity at or below which an item counts
// as low on stock.
const DefaultLowStockThreshold = 5

// CategoryTotals aggregates the items of one category.
type CategoryTotals struct {
	Count    int `json:"count"`
	Quantity int `json:"quantity"`
	Low      int `json:"low"`
}

// WithdrawalTotals aggregates all withdrawals.
type WithdrawalTotals struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
}

// Summary is the dashboard overview of both collections.
type Summary struct {
	Stock       CategoryTotals   `json:"stock"`
	Tools       CategoryTotals   `json:"tools"`
	Withdrawals WithdrawalTotals `json:"withdrawals"`
	Threshold   int              `json:"threshold"`
}

// IsLowStock reports whether quantity is at or below threshold.
func IsLowStock(quantity, threshold int) bool {
	return quantity <= threshold
}

// CategoryTotalsOf aggregates items regardless of their category.
func CategoryTotalsOf(items []Item, threshold int) CategoryTotals {
	var t CategoryTotals
	for _, it := range items {
		t.Count++
		t.Quantity += it.Quantity
		if IsLowStock(it.Quantity, threshold) {
			t.Low++
		}
	}
	return t
}

// Summarize computes per-category totals and withdrawal counts. Items outside
// the known categories are ignored.
func Summarize(items []Item, withdrawals []Withdrawal, threshold int) Summary {
	byCategory := make(map[string][]Item, len(Categories))
	for _, it := range items {
		byCategory[it.Category] = append(byCategory[it.Category], it)
	}

	s := Summary{
		Stock:     CategoryTotalsOf(byCategory[CategoryStock], threshold),
		Tools:     CategoryTotalsOf(byCategory[CategoryTools], threshold),
		Threshold: threshold,
	}
	s.Withdrawals.Total = len(withdrawals)
	for _, w := range withdrawals {
		if w.Pending() {
			s.Withdrawals.Pending++
		}
	}
	return s
}

// Package merge holds the single normalization and de-duplication rule shared by
// the order store and the client-side order cache.
//
// Records are keyed by their normalized order number. When a key repeats, the
// record with the strictly later transaction date wins; equal dates keep the
// record seen first. A transaction date that cannot be parsed never compares
// later or earlier than anything, so such a record only wins a key it opened.
package merge

import (
	"strings"
	"time"

	"orderdesk/internal/domain"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// NormalizeOrderNumber trims surrounding whitespace and upper-cases the number.
func NormalizeOrderNumber(orderNumber string) string {
	return strings.ToUpper(strings.TrimSpace(orderNumber))
}

// Key returns the dedup key of an order.
func Key(order domain.Order) string {
	return NormalizeOrderNumber(order.OrderNumber.String())
}

// ParseTransactionDate reports false for empty or malformed dates.
func ParseTransactionDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Later reports whether candidate's transaction date is strictly after current's.
// It is false whenever either date is invalid.
func Later(candidate, current domain.Order) bool {
	c, ok := ParseTransactionDate(candidate.TransactionDate)
	if !ok {
		return false
	}
	w, ok := ParseTransactionDate(current.TransactionDate)
	if !ok {
		return false
	}
	return c.After(w)
}

// Normalize returns a copy of order in canonical form: normalized number, a
// Pending status when none is set, non-nil collections and a total derived from
// the lines.
func Normalize(order domain.Order) domain.Order {
	n := order.Clone()
	n.OrderNumber = domain.OrderNumber(NormalizeOrderNumber(order.OrderNumber.String()))
	if n.Status == domain.OrderStatusNone {
		n.Status = domain.OrderStatusPending
	}
	if n.PendingApprovalReasonCode == nil {
		n.PendingApprovalReasonCode = []string{}
	}
	if n.Lines == nil {
		n.Lines = []domain.OrderLine{}
	}
	if n.History == nil {
		n.History = []domain.HistoryEntry{}
	}
	n.Recalculate()
	return n
}

// Merge normalizes orders and keeps one winner per key. The result is ordered
// by first appearance of each key, not by the position of the winning record.
func Merge(orders []domain.Order) []domain.Order {
	winners := winnerIndexes(orders)

	merged := make([]domain.Order, 0, len(winners.order))
	for _, key := range winners.order {
		merged = append(merged, Normalize(orders[winners.index[key]]))
	}
	return merged
}

// WinnerIndex returns the position in orders of the record that wins key.
func WinnerIndex(orders []domain.Order, key string) (int, bool) {
	key = NormalizeOrderNumber(key)
	idx := -1
	for i, order := range orders {
		if Key(order) != key {
			continue
		}
		if idx == -1 || Later(order, orders[idx]) {
			idx = i
		}
	}
	return idx, idx != -1
}

// Discarded counts the records Merge would drop.
func Discarded(orders []domain.Order) int {
	return len(orders) - len(winnerIndexes(orders).order)
}

type winnerSet struct {
	order []string
	index map[string]int
}

func winnerIndexes(orders []domain.Order) winnerSet {
	set := winnerSet{index: make(map[string]int, len(orders))}
	for i, order := range orders {
		key := Key(order)
		current, seen := set.index[key]
		if !seen {
			set.order = append(set.order, key)
			set.index[key] = i
			continue
		}
		if Later(order, orders[current]) {
			set.index[key] = i
		}
	}
	return set
}

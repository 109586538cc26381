// Package report aggregates the canonical order list into the figures the
// dashboard and the reports page display.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"orderdesk/internal/domain"
)

type StatusTotals struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

type CustomerTotal struct {
	Customer string  `json:"customer"`
	Orders   int     `json:"orders"`
	Amount   float64 `json:"amount"`
}

type Summary struct {
	TotalOrders     int                                 `json:"totalOrders"`
	TotalAmount     float64                             `json:"totalAmount"`
	AverageAmount   float64                             `json:"averageAmount"`
	UniqueCustomers int                                 `json:"uniqueCustomers"`
	ByStatus        map[domain.OrderStatus]StatusTotals `json:"byStatus"`
	ByCustomer      []CustomerTotal                     `json:"byCustomer"`
}

type runningTotal struct {
	count  int
	amount decimal.Decimal
}

// Summarize expects canonical orders. Every dashboard status appears in
// ByStatus even with zero orders; ByCustomer is sorted by amount, largest first,
// and skips orders without a customer.
func Summarize(orders []domain.Order) Summary {
	total := decimal.Zero
	byStatus := make(map[domain.OrderStatus]*runningTotal, len(domain.OrderStatuses))
	for _, s := range domain.OrderStatuses {
		byStatus[s] = &runningTotal{amount: decimal.Zero}
	}
	byCustomer := make(map[string]*runningTotal)

	for _, o := range orders {
		amount := decimal.NewFromFloat(o.Amount)
		total = total.Add(amount)

		st, ok := byStatus[o.Status]
		if !ok {
			st = &runningTotal{amount: decimal.Zero}
			byStatus[o.Status] = st
		}
		st.count++
		st.amount = st.amount.Add(amount)

		if o.Customer == "" {
			continue
		}
		ct, ok := byCustomer[o.Customer]
		if !ok {
			ct = &runningTotal{amount: decimal.Zero}
			byCustomer[o.Customer] = ct
		}
		ct.count++
		ct.amount = ct.amount.Add(amount)
	}

	summary := Summary{
		TotalOrders:     len(orders),
		TotalAmount:     total.InexactFloat64(),
		UniqueCustomers: len(byCustomer),
		ByStatus:        make(map[domain.OrderStatus]StatusTotals, len(byStatus)),
		ByCustomer:      make([]CustomerTotal, 0, len(byCustomer)),
	}
	if len(orders) > 0 {
		summary.AverageAmount = total.Div(decimal.NewFromInt(int64(len(orders)))).Round(2).InexactFloat64()
	}
	for status, st := range byStatus {
		summary.ByStatus[status] = StatusTotals{Count: st.count, Amount: st.amount.InexactFloat64()}
	}
	for customer, ct := range byCustomer {
		summary.ByCustomer = append(summary.ByCustomer, CustomerTotal{
			Customer: customer,
			Orders:   ct.count,
			Amount:   ct.amount.InexactFloat64(),
		})
	}
	sort.Slice(summary.ByCustomer, func(i, j int) bool {
		a, b := summary.ByCustomer[i], summary.ByCustomer[j]
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		return a.Customer < b.Customer
	})

	return summary
}

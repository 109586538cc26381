package domain

// TimestampLayout is the ISO-8601 form used for dates the store generates.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type OrderStatus string

const (
	OrderStatusNone      OrderStatus = ""
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusApproved  OrderStatus = "Approved"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// OrderStatuses lists the statuses that carry a meaning on the dashboard.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusApproved,
	OrderStatusShipped,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNone, OrderStatusPending, OrderStatusApproved, OrderStatusShipped, OrderStatusCancelled:
		return true
	}
	return false
}

type OrderLine struct {
	ID       string  `json:"id"`
	Item     string  `json:"item"`
	Units    string  `json:"units"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Amount   float64 `json:"amount"`
}

type HistoryEntry struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
}

type Order struct {
	ID                        string         `json:"id,omitempty"`
	OrderNumber               OrderNumber    `json:"orderNumber"`
	Customer                  string         `json:"customer"`
	TransactionDate           string         `json:"transactionDate"`
	Status                    OrderStatus    `json:"status"`
	FromLocation              string         `json:"fromLocation"`
	ToLocation                string         `json:"toLocation"`
	PendingApprovalReasonCode []string       `json:"pendingApprovalReasonCode"`
	SupportRep                string         `json:"supportRep"`
	Incoterm                  string         `json:"incoterm"`
	FreightTerms              string         `json:"freightTerms"`
	TotalShipUnitCount        float64        `json:"totalShipUnitCount"`
	TotalQuantity             float64        `json:"totalQuantity"`
	DiscountRate              float64        `json:"discountRate"`
	BillingAddress            Address        `json:"billingAddress"`
	ShippingAddress           Address        `json:"shippingAddress"`
	EarlyPickupDate           string         `json:"earlyPickupDate"`
	LatePickupDate            string         `json:"latePickupDate"`
	Amount                    float64        `json:"amount"`
	Lines                     []OrderLine    `json:"lines"`
	History                   []HistoryEntry `json:"history"`
}

// Clone returns a deep copy so callers can mutate slices without touching the source.
func (o Order) Clone() Order {
	c := o
	if o.PendingApprovalReasonCode != nil {
		c.PendingApprovalReasonCode = append([]string(nil), o.PendingApprovalReasonCode...)
	}
	if o.Lines != nil {
		c.Lines = append([]OrderLine(nil), o.Lines...)
	}
	if o.History != nil {
		c.History = append([]HistoryEntry(nil), o.History...)
	}
	return c
}

// Recalculate derives the order total from its lines. Orders without lines keep
// whatever amount they were stored with.
func (o *Order) Recalculate() {
	if len(o.Lines) == 0 {
		return
	}
	o.Amount = TotalAmount(o.Lines)
}

// RemoveLine drops the line with the given id and reports whether one was found.
func (o *Order) RemoveLine(lineID string) bool {
	for i, line := range o.Lines {
		if line.ID == lineID {
			o.Lines = append(o.Lines[:i:i], o.Lines[i+1:]...)
			if len(o.Lines) == 0 {
				o.Amount = 0
			} else {
				o.Recalculate()
			}
			return true
		}
	}
	return false
}

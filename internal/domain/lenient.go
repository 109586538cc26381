package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// lenientNumber decodes a number, a numeric string, "" or null. Strings that do
// not parse as a finite number decode to zero, as the create form sends
// whatever was typed into its count fields.
type lenientNumber float64

func (n *lenientNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			f = 0
		}
		*n = lenientNumber(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("expected a number or a numeric string: %w", err)
	}
	*n = lenientNumber(f)
	return nil
}

// lenientID decodes an identifier sent either as a string or as a number.
type lenientID string

func (id *lenientID) UnmarshalJSON(data []byte) error {
	var n OrderNumber
	if err := n.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = lenientID(n)
	return nil
}

// UnmarshalJSON accepts numeric ids and numeric fields written as strings.
func (l *OrderLine) UnmarshalJSON(data []byte) error {
	type plain OrderLine
	var aux struct {
		plain
		ID       lenientID     `json:"id"`
		Quantity lenientNumber `json:"quantity"`
		Price    lenientNumber `json:"price"`
		Amount   lenientNumber `json:"amount"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*l = OrderLine(aux.plain)
	l.ID = string(aux.ID)
	l.Quantity = float64(aux.Quantity)
	l.Price = float64(aux.Price)
	l.Amount = float64(aux.Amount)
	return nil
}

// UnmarshalJSON accepts the shapes the create form and older records use:
// counts and rates as strings, null dates and the plural reason code key.
func (o *Order) UnmarshalJSON(data []byte) error {
	type plain Order
	var aux struct {
		plain
		TotalShipUnitCount lenientNumber `json:"totalShipUnitCount"`
		TotalQuantity      lenientNumber `json:"totalQuantity"`
		DiscountRate       lenientNumber `json:"discountRate"`
		Amount             lenientNumber `json:"amount"`
		ReasonCodes        []string      `json:"pendingApprovalReasonCodes"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*o = Order(aux.plain)
	o.TotalShipUnitCount = float64(aux.TotalShipUnitCount)
	o.TotalQuantity = float64(aux.TotalQuantity)
	o.DiscountRate = float64(aux.DiscountRate)
	o.Amount = float64(aux.Amount)
	if o.PendingApprovalReasonCode == nil && aux.ReasonCodes != nil {
		o.PendingApprovalReasonCode = aux.ReasonCodes
	}
	return nil
}

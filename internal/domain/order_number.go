package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// OrderNumber is the business identifier of an order. Raw documents carry it
// either as a JSON string or as a JSON number; both decode to text.
type OrderNumber string

func (n *OrderNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = OrderNumber(s)
		return nil
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("orderNumber must be a string or a number: %w", err)
	}
	*n = OrderNumber(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

func (n OrderNumber) String() string {
	return string(n)
}

package repository

import (
	"bytes"
	"encoding/json"

	"orderdesk/internal/domain"
)

// decodeDocument parses the persisted JSON array of orders. Empty input is an
// empty document.
func decodeDocument(data []byte) ([]domain.Order, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.Order{}, nil
	}

	var orders []domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func encodeDocument(orders []domain.Order) ([]byte, error) {
	if orders == nil {
		orders = []domain.Order{}
	}
	return json.MarshalIndent(orders, "", "  ")
}

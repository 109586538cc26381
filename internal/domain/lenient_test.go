package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLenientNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		wantErr  bool
	}{
		{name: "number", input: `2.5`, expected: 2.5},
		{name: "numeric string", input: `"5"`, expected: 5},
		{name: "padded numeric string", input: `" 0.25 "`, expected: 0.25},
		{name: "empty string", input: `""`, expected: 0},
		{name: "null", input: `null`, expected: 0},
		{name: "text", input: `"five"`, expected: 0},
		{name: "not a number", input: `"NaN"`, expected: 0},
		{name: "object", input: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n lenientNumber
			err := json.Unmarshal([]byte(tt.input), &n)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, float64(n))
		})
	}
}

func TestOrderLine_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected OrderLine
		wantErr  bool
	}{
		{
			name:     "string id",
			input:    `{"id": "l1", "item": "Pallet", "units": "EA", "quantity": 2, "price": 3, "amount": 6}`,
			expected: OrderLine{ID: "l1", Item: "Pallet", Units: "EA", Quantity: 2, Price: 3, Amount: 6},
		},
		{
			name:     "numeric id",
			input:    `{"id": 1, "item": "Crate", "quantity": 4, "price": 1.5, "amount": 6}`,
			expected: OrderLine{ID: "1", Item: "Crate", Quantity: 4, Price: 1.5, Amount: 6},
		},
		{
			name:     "string quantities",
			input:    `{"id": null, "quantity": "3", "price": "", "amount": null}`,
			expected: OrderLine{Quantity: 3},
		},
		{name: "boolean id", input: `{"id": true}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var line OrderLine
			err := json.Unmarshal([]byte(tt.input), &line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, line)
		})
	}
}

func TestOrder_DecodeCreateFormPayload(t *testing.T) {
	raw := `{
		"orderNumber": "SO-77",
		"customer": "Initech",
		"transactionDate": null,
		"status": "Pending",
		"pendingApprovalReasonCodes": ["CREDIT"],
		"totalShipUnitCount": "3",
		"totalQuantity": "5",
		"discountRate": "",
		"billingAddress": "",
		"earlyPickupDate": null,
		"latePickupDate": "2024-04-02T00:00:00.000Z",
		"lines": [{"id": 1, "item": "Widget", "units": "EA", "quantity": 5, "price": 2, "amount": 10}],
		"totalAmount": 10
	}`

	var order Order
	require.NoError(t, json.Unmarshal([]byte(raw), &order))

	assert.Equal(t, OrderNumber("SO-77"), order.OrderNumber)
	assert.Empty(t, order.TransactionDate)
	assert.Empty(t, order.EarlyPickupDate)
	assert.Equal(t, "2024-04-02T00:00:00.000Z", order.LatePickupDate)
	assert.Equal(t, 3.0, order.TotalShipUnitCount)
	assert.Equal(t, 5.0, order.TotalQuantity)
	assert.Zero(t, order.DiscountRate)
	assert.Equal(t, []string{"CREDIT"}, order.PendingApprovalReasonCode)
	assert.True(t, order.BillingAddress.IsZero())
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "1", order.Lines[0].ID)
	assert.Equal(t, 10.0, order.Lines[0].Amount)
}

func TestOrder_SingularReasonCodeWins(t *testing.T) {
	raw := `{"pendingApprovalReasonCode": ["A"], "pendingApprovalReasonCodes": ["B"]}`

	var order Order
	require.NoError(t, json.Unmarshal([]byte(raw), &order))

	assert.Equal(t, []string{"A"}, order.PendingApprovalReasonCode)
}

func TestOrder_EncodesCanonicalShape(t *testing.T) {
	var order Order
	require.NoError(t, json.Unmarshal([]byte(`{"orderNumber": 9, "totalQuantity": "7", "lines": [{"id": 2}]}`), &order))

	data, err := json.Marshal(order)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"orderNumber":"9"`)
	assert.Contains(t, string(data), `"totalQuantity":7`)
	assert.Contains(t, string(data), `"id":"2"`)
	assert.NotContains(t, string(data), "pendingApprovalReasonCodes")
}

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSale_JSONShape(t *testing.T) {
	// given
	sale := Sale{
		ID:       "sale1",
		Date:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		ClientID: "cli1",
		Items: []SaleLine{
			{ProductID: "prod1", Name: "Pen", Quantity: 2, Price: decimal.RequireFromString("1.25")},
		},
		Total: decimal.RequireFromString("2.5"),
	}

	// when
	data, err := json.Marshal(sale)

	// then
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "sale1",
		"date": "2025-01-02T03:04:05.000Z",
		"clientId": "cli1",
		"items": [{"productId": "prod1", "name": "Pen", "quantity": 2, "price": 1.25}],
		"total": 2.5
	}`, string(data))
}

func TestSale_DateHasMillisecondPrecision(t *testing.T) {
	testCases := []struct {
		name     string
		date     time.Time
		expected string
	}{
		{name: "whole second", date: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC), expected: "2025-03-14T09:26:53.000Z"},
		{name: "half second", date: time.Date(2025, 3, 14, 9, 26, 53, 500000000, time.UTC), expected: "2025-03-14T09:26:53.500Z"},
		{name: "milliseconds", date: time.Date(2025, 3, 14, 9, 26, 53, 589000000, time.UTC), expected: "2025-03-14T09:26:53.589Z"},
		{name: "other zone", date: time.Date(2025, 3, 14, 10, 26, 53, 0, time.FixedZone("CET", 3600)), expected: "2025-03-14T09:26:53.000Z"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			data, err := json.Marshal(Sale{ID: "sale1", Date: tc.date})
			require.NoError(t, err)

			// then
			var out map[string]any
			require.NoError(t, json.Unmarshal(data, &out))
			assert.Equal(t, tc.expected, out["date"])

			var decoded Sale
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.True(t, tc.date.Equal(decoded.Date))
		})
	}
}

func TestProduct_AcceptsNumericPrice(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":"prod1","name":"Pen","price":10.5,"stock":3,"categoryId":"cat1"}`), &p))

	assert.True(t, decimal.RequireFromString("10.5").Equal(p.Price))
	assert.Equal(t, 3, p.Stock)
}

func TestUser_View(t *testing.T) {
	u := User{ID: "user1", Username: "admin", Password: "$2a$hash", Role: "admin"}

	data, err := json.Marshal(u.View())

	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"user1","username":"admin","role":"admin"}`, string(data))
}

func TestSaleLine_Subtotal(t *testing.T) {
	line := SaleLine{Price: decimal.RequireFromString("0.1"), Quantity: 3}

	assert.Equal(t, "0.3", line.Subtotal().String())
}

func TestIDs(t *testing.T) {
	assert.Equal(t, []string{"cat1", "cat2"}, IDs([]Category{{ID: "cat1"}, {ID: "cat2"}}))
}

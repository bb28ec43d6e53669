package invoicepdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-dashboard/internal/domain"
)

func TestRender(t *testing.T) {
	inv := &domain.Invoice{
		Number:        "INV-0042",
		CustomerName:  "Acme Corporation",
		CustomerEmail: "billing@acme.example",
		Items: []domain.LineItem{
			{Description: "Support hours", Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
			{Description: "Domain renewal", Quantity: 1, UnitPrice: decimal.NewFromInt(75)},
		},
		TaxRate:   decimal.RequireFromString("8.5"),
		Discount:  decimal.NewFromInt(10),
		Status:    domain.InvoicePending,
		IssueDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		Notes:     "Thanks",
	}
	inv.Recalculate()

	b, err := New().Render(context.Background(), inv, Branding{SiteName: "Admin Dashboard", Currency: "USD"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestRender_NilInvoice(t *testing.T) {
	_, err := New().Render(context.Background(), nil, Branding{})
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "USD 12.50", money("USD", "12.50"))
	assert.Equal(t, "12.50", money("", "12.50"))
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-dashboard/internal/domain"
)

func decEq(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func sampleInvoice() InvoiceInput {
	return InvoiceInput{
		CustomerName:  "Globex Ltd",
		CustomerEmail: "accounts@globex.example",
		Items: []LineItemInput{
			{Description: "Support hours", Quantity: 2, UnitPrice: dec("50")},
			{Description: "Domain renewal", Quantity: 1, UnitPrice: dec("75")},
		},
		TaxRate:  dec("8.5"),
		Discount: dec("10"),
	}
}

func TestInvoices_CreateComputesTotals(t *testing.T) {
	s := NewInvoicesService(testDeps(t), InvoiceOptions{})

	inv, err := s.Create(context.Background(), sampleInvoice())
	require.NoError(t, err)

	decEq(t, "100", inv.Items[0].Amount)
	decEq(t, "75", inv.Items[1].Amount)
	decEq(t, "175", inv.Subtotal)
	decEq(t, "14.875", inv.TaxAmount)
	decEq(t, "179.875", inv.Total)
	assert.Equal(t, domain.InvoiceDraft, inv.Status)
	assert.Equal(t, testNow, inv.IssueDate)
	assert.Equal(t, testNow.AddDate(0, 0, 30), inv.DueDate)
}

func TestInvoices_AutoNumberFollowsHighest(t *testing.T) {
	ctx := context.Background()
	s := NewInvoicesService(testDeps(t), InvoiceOptions{})

	inv, err := s.Create(ctx, sampleInvoice())
	require.NoError(t, err)
	assert.Equal(t, "INV-0004", inv.Number)

	in := sampleInvoice()
	in.Number = "INV-0042"
	_, err = s.Create(ctx, in)
	require.NoError(t, err)

	inv, err = s.Create(ctx, sampleInvoice())
	require.NoError(t, err)
	assert.Equal(t, "INV-0043", inv.Number)
}

func TestInvoices_DuplicateNumber(t *testing.T) {
	ctx := context.Background()
	s := NewInvoicesService(testDeps(t), InvoiceOptions{})

	in := sampleInvoice()
	in.Number = "INV-0001"
	_, err := s.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrConflict)

	n := "INV-0002"
	_, err = s.Update(ctx, "inv-1", InvoicePatch{Number: &n})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestInvoices_CreateValidation(t *testing.T) {
	ctx := context.Background()
	s := NewInvoicesService(testDeps(t), InvoiceOptions{})

	in := sampleInvoice()
	in.Items = nil
	_, err := s.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalid)

	in = sampleInvoice()
	in.TaxRate = dec("101")
	_, err = s.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalid)

	in = sampleInvoice()
	in.Items[0].UnitPrice = dec("-1")
	_, err = s.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalid)

	in = sampleInvoice()
	in.Status = "lost"
	_, err = s.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestInvoices_UpdateRecalculates(t *testing.T) {
	s := NewInvoicesService(testDeps(t), InvoiceOptions{})
	rate := dec("0")

	inv, err := s.Update(context.Background(), "inv-2", InvoicePatch{TaxRate: &rate})
	require.NoError(t, err)
	decEq(t, "0", inv.TaxAmount)
	decEq(t, "165", inv.Total)
	assert.Equal(t, testNow, inv.UpdatedAt)
}

func TestInvoices_StatusPaidStampsPaidAt(t *testing.T) {
	ctx := context.Background()
	s := NewInvoicesService(testDeps(t), InvoiceOptions{})

	inv, err := s.UpdateStatus(ctx, "inv-2", domain.InvoicePaid)
	require.NoError(t, err)
	require.NotNil(t, inv.PaidAt)
	assert.Equal(t, testNow, *inv.PaidAt)

	inv, err = s.UpdateStatus(ctx, "inv-2", domain.InvoicePending)
	require.NoError(t, err)
	assert.Nil(t, inv.PaidAt)

	_, err = s.UpdateStatus(ctx, "inv-2", "bogus")
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestInvoices_MarkOverdue(t *testing.T) {
	ctx := context.Background()
	s := NewInvoicesService(testDeps(t), InvoiceOptions{})

	n, err := s.MarkOverdue(ctx, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, n, "inv-2 is not due yet")

	n, err = s.MarkOverdue(ctx, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	inv, err := s.GetByNumber(ctx, "INV-0002")
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceOverdue, inv.Status)
}

func TestInvoices_Stats(t *testing.T) {
	s := NewInvoicesService(testDeps(t), InvoiceOptions{})

	st, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 1, st.ByStatus[domain.InvoicePaid])
	assert.Equal(t, 0, st.ByStatus[domain.InvoiceDraft])
	decEq(t, "2750", st.PaidAmount)
	decEq(t, "239.88", st.OverdueAmount)
	decEq(t, "419.755", st.OutstandingAmount)
	decEq(t, "3169.755", st.TotalAmount)
}

func TestInvoices_SoftDeleteLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewInvoicesService(testDeps(t), InvoiceOptions{})

	_, err := s.Delete(ctx, "inv-1")
	require.NoError(t, err)

	active, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
	deleted, err := s.GetDeleted(ctx)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	all, err := s.GetAllIncludingDeleted(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// deleted records still hold their number
	in := sampleInvoice()
	in.Number = "INV-0001"
	_, err = s.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = s.Restore(ctx, "inv-1")
	require.NoError(t, err)
	require.NoError(t, s.PermanentDelete(ctx, "inv-1"))
	_, err = s.GetByID(ctx, "inv-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Reset(ctx))
	all, err = s.GetAllIncludingDeleted(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestInvoices_SearchAndByCustomer(t *testing.T) {
	ctx := context.Background()
	s := NewInvoicesService(testDeps(t), InvoiceOptions{})

	got, err := s.Search(ctx, "globex")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "inv-2", got[0].ID)

	got, err = s.GetByCustomer(ctx, "cus-3")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "INV-0003", got[0].Number)
}

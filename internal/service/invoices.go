package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"admin-dashboard/internal/domain"
	"admin-dashboard/internal/repo"
	"admin-dashboard/pkg/utils"
)

const KeyInvoices = "invoices"

type InvoiceOptions struct {
	NumberPrefix string // default "INV-"
	DueDays      int    // default 30
}

type LineItemInput struct {
	Description string          `json:"description" validate:"required"`
	Quantity    int64           `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

type InvoiceInput struct {
	Number        string          `json:"number"`
	CustomerID    string          `json:"customerId"`
	CustomerName  string          `json:"customerName" validate:"required"`
	CustomerEmail string          `json:"customerEmail" validate:"omitempty,email"`
	Items         []LineItemInput `json:"items" validate:"required,min=1,dive"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	Discount      decimal.Decimal `json:"discount"`
	Status        string          `json:"status"`
	IssueDate     time.Time       `json:"issueDate"`
	DueDate       time.Time       `json:"dueDate"`
	Notes         string          `json:"notes"`
}

// InvoicePatch carries the fields to change; nil fields are left alone.
type InvoicePatch struct {
	Number        *string          `json:"number"`
	CustomerID    *string          `json:"customerId"`
	CustomerName  *string          `json:"customerName"`
	CustomerEmail *string          `json:"customerEmail" validate:"omitempty,email"`
	Items         []LineItemInput  `json:"items" validate:"omitempty,min=1,dive"`
	TaxRate       *decimal.Decimal `json:"taxRate"`
	Discount      *decimal.Decimal `json:"discount"`
	Status        *string          `json:"status"`
	IssueDate     *time.Time       `json:"issueDate"`
	DueDate       *time.Time       `json:"dueDate"`
	Notes         *string          `json:"notes"`
}

type InvoicesService struct {
	base[*domain.Invoice]
	opts InvoiceOptions
}

func NewInvoicesService(d Deps, o InvoiceOptions) *InvoicesService {
	if o.NumberPrefix == "" {
		o.NumberPrefix = "INV-"
	}
	if o.DueDays <= 0 {
		o.DueDays = 30
	}
	return &InvoicesService{
		base: base[*domain.Invoice]{
			c: newCollection(d, KeyInvoices, "invoice", defaultInvoices),
			fields: func(i *domain.Invoice) []string {
				return []string{i.Number, i.CustomerName, i.CustomerEmail, i.Status}
			},
		},
		opts: o,
	}
}

func toLineItems(in []LineItemInput) ([]domain.LineItem, error) {
	out := make([]domain.LineItem, 0, len(in))
	for _, it := range in {
		if err := nonNegative("unitPrice", it.UnitPrice); err != nil {
			return nil, err
		}
		out = append(out, domain.LineItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return out, nil
}

func (s *InvoicesService) validateAmounts(inv *domain.Invoice) error {
	if inv.TaxRate.IsNegative() || inv.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return invalid("taxRate must be between 0 and 100")
	}
	if err := nonNegative("discount", inv.Discount); err != nil {
		return err
	}
	return oneOf("status", inv.Status, domain.InvoiceStatuses)
}

func (s *InvoicesService) Create(ctx context.Context, in InvoiceInput) (*domain.Invoice, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	items, err := toLineItems(in.Items)
	if err != nil {
		return nil, err
	}
	inv := &domain.Invoice{
		Number:        strings.TrimSpace(in.Number),
		CustomerID:    in.CustomerID,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerEmail: strings.TrimSpace(in.CustomerEmail),
		Items:         items,
		TaxRate:       in.TaxRate,
		Discount:      in.Discount,
		Status:        in.Status,
		IssueDate:     in.IssueDate,
		DueDate:       in.DueDate,
		Notes:         in.Notes,
	}
	if inv.Status == "" {
		inv.Status = domain.InvoiceDraft
	}
	if inv.IssueDate.IsZero() {
		inv.IssueDate = s.c.Now()
	}
	if inv.DueDate.IsZero() {
		inv.DueDate = inv.IssueDate.AddDate(0, 0, s.opts.DueDays)
	}
	if inv.Status == domain.InvoicePaid {
		now := s.c.Now()
		inv.PaidAt = &now
	}
	if err := s.validateAmounts(inv); err != nil {
		return nil, err
	}
	inv.Recalculate()

	auto := inv.Number == ""
	return s.c.Insert(ctx, inv, func(all []*domain.Invoice) error {
		if auto {
			nums := make([]string, 0, len(all))
			for _, r := range all {
				nums = append(nums, r.Number)
			}
			inv.Number = utils.NextSequence(s.opts.NumberPrefix, 4, nums)
		}
		if repo.Taken(all, inv.ID, inv.Number, func(r *domain.Invoice) string { return r.Number }) {
			return conflict("invoice number %q already exists", inv.Number)
		}
		return nil
	})
}

func (s *InvoicesService) Update(ctx context.Context, id string, p InvoicePatch) (*domain.Invoice, error) {
	if err := check(p); err != nil {
		return nil, err
	}
	if err := notBlank("customerName", p.CustomerName); err != nil {
		return nil, err
	}
	if p.Items != nil && len(p.Items) == 0 {
		return nil, invalid("items must not be empty")
	}
	var items []domain.LineItem
	if p.Items != nil {
		var err error
		if items, err = toLineItems(p.Items); err != nil {
			return nil, err
		}
	}
	return s.c.Modify(ctx, id, func(all []*domain.Invoice, inv *domain.Invoice) error {
		if p.Number != nil {
			n := strings.TrimSpace(*p.Number)
			if n == "" {
				return invalid("number must not be empty")
			}
			if repo.Taken(all, inv.ID, n, func(r *domain.Invoice) string { return r.Number }) {
				return conflict("invoice number %q already exists", n)
			}
			inv.Number = n
		}
		set(&inv.CustomerID, p.CustomerID)
		set(&inv.CustomerName, trimmed(p.CustomerName))
		set(&inv.CustomerEmail, trimmed(p.CustomerEmail))
		if items != nil {
			inv.Items = items
		}
		set(&inv.TaxRate, p.TaxRate)
		set(&inv.Discount, p.Discount)
		set(&inv.IssueDate, p.IssueDate)
		set(&inv.DueDate, p.DueDate)
		set(&inv.Notes, p.Notes)
		if p.Status != nil {
			s.applyStatus(inv, *p.Status)
		}
		if err := s.validateAmounts(inv); err != nil {
			return err
		}
		inv.Recalculate()
		return nil
	})
}

func (s *InvoicesService) applyStatus(inv *domain.Invoice, status string) {
	if status == domain.InvoicePaid && inv.Status != domain.InvoicePaid {
		now := s.c.Now()
		inv.PaidAt = &now
	}
	if status != domain.InvoicePaid {
		inv.PaidAt = nil
	}
	inv.Status = status
}

// UpdateStatus moves the invoice to status; paying stamps paidAt.
func (s *InvoicesService) UpdateStatus(ctx context.Context, id, status string) (*domain.Invoice, error) {
	if err := oneOf("status", status, domain.InvoiceStatuses); err != nil {
		return nil, err
	}
	return s.c.Modify(ctx, id, func(_ []*domain.Invoice, inv *domain.Invoice) error {
		s.applyStatus(inv, status)
		return nil
	})
}

func (s *InvoicesService) GetByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	inv, ok, err := s.c.Find(ctx, func(r *domain.Invoice) bool { return r.Number == number })
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.c.NotFound(number)
	}
	return inv, nil
}

func (s *InvoicesService) GetByCustomer(ctx context.Context, customerID string) ([]*domain.Invoice, error) {
	return s.c.Filter(ctx, func(r *domain.Invoice) bool { return r.CustomerID == customerID })
}

// MarkOverdue flags pending invoices whose due date is before now.
func (s *InvoicesService) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	return s.c.ModifyEach(ctx, func(r *domain.Invoice) bool {
		if r.Status == domain.InvoicePending && r.DueDate.Before(now) {
			r.Status = domain.InvoiceOverdue
			return true
		}
		return false
	})
}

func (s *InvoicesService) Stats(ctx context.Context) (domain.InvoiceStats, error) {
	st := domain.InvoiceStats{ByStatus: map[string]int{}}
	for _, k := range domain.InvoiceStatuses {
		st.ByStatus[k] = 0
	}
	all, err := s.c.Active(ctx)
	if err != nil {
		return st, err
	}
	for _, r := range all {
		st.Total++
		st.ByStatus[r.Status]++
		st.TotalAmount = st.TotalAmount.Add(r.Total)
		switch r.Status {
		case domain.InvoicePaid:
			st.PaidAmount = st.PaidAmount.Add(r.Total)
		case domain.InvoicePending:
			st.OutstandingAmount = st.OutstandingAmount.Add(r.Total)
		case domain.InvoiceOverdue:
			st.OutstandingAmount = st.OutstandingAmount.Add(r.Total)
			st.OverdueAmount = st.OverdueAmount.Add(r.Total)
		}
	}
	return st, nil
}

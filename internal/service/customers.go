package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"admin-dashboard/internal/domain"
	"admin-dashboard/internal/repo"
)

const KeyCustomers = "customers"

var customerStatuses = []string{domain.CustomerActive, domain.CustomerInactive}

type CustomerInput struct {
	Name    string         `json:"name" validate:"required,max=128"`
	Email   string         `json:"email" validate:"required,email"`
	Phone   string         `json:"phone" validate:"max=32"`
	Company string         `json:"company"`
	Address domain.Address `json:"address"`
	Status  string         `json:"status"`
	Notes   string         `json:"notes"`
}

type CustomerPatch struct {
	Name    *string         `json:"name" validate:"omitempty,max=128"`
	Email   *string         `json:"email" validate:"omitempty,email"`
	Phone   *string         `json:"phone" validate:"omitempty,max=32"`
	Company *string         `json:"company"`
	Address *domain.Address `json:"address"`
	Status  *string         `json:"status"`
	Notes   *string         `json:"notes"`
}

type CustomersService struct {
	base[*domain.Customer]
}

func NewCustomersService(d Deps) *CustomersService {
	return &CustomersService{base: base[*domain.Customer]{
		c: newCollection(d, KeyCustomers, "customer", defaultCustomers),
		fields: func(c *domain.Customer) []string {
			return []string{c.Name, c.Email, c.Phone, c.Company}
		},
	}}
}

func customerEmail(c *domain.Customer) string { return c.Email }

func (s *CustomersService) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	c, ok, err := s.c.Find(ctx, func(r *domain.Customer) bool { return strings.EqualFold(r.Email, strings.TrimSpace(email)) })
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.c.NotFound(email)
	}
	return c, nil
}

func (s *CustomersService) Create(ctx context.Context, in CustomerInput) (*domain.Customer, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	c := &domain.Customer{
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		Company:    strings.TrimSpace(in.Company),
		Address:    in.Address,
		Status:     in.Status,
		Notes:      in.Notes,
		TotalSpent: decimal.Zero,
	}
	if c.Status == "" {
		c.Status = domain.CustomerActive
	}
	if err := oneOf("status", c.Status, customerStatuses); err != nil {
		return nil, err
	}
	return s.c.Insert(ctx, c, func(all []*domain.Customer) error {
		if repo.Taken(all, c.ID, c.Email, customerEmail) {
			return conflict("customer with email %q already exists", c.Email)
		}
		return nil
	})
}

func (s *CustomersService) Update(ctx context.Context, id string, p CustomerPatch) (*domain.Customer, error) {
	if err := check(p); err != nil {
		return nil, err
	}
	if err := errors.Join(notBlank("name", p.Name), notBlank("email", p.Email)); err != nil {
		return nil, err
	}
	if p.Status != nil {
		if err := oneOf("status", *p.Status, customerStatuses); err != nil {
			return nil, err
		}
	}
	return s.c.Modify(ctx, id, func(all []*domain.Customer, c *domain.Customer) error {
		if p.Email != nil {
			e := strings.TrimSpace(*p.Email)
			if repo.Taken(all, c.ID, e, customerEmail) {
				return conflict("customer with email %q already exists", e)
			}
			c.Email = e
		}
		set(&c.Name, trimmed(p.Name))
		set(&c.Phone, trimmed(p.Phone))
		set(&c.Company, trimmed(p.Company))
		set(&c.Address, p.Address)
		set(&c.Status, p.Status)
		set(&c.Notes, p.Notes)
		return nil
	})
}

func (s *CustomersService) UpdateStatus(ctx context.Context, id, status string) (*domain.Customer, error) {
	return s.Update(ctx, id, CustomerPatch{Status: &status})
}

func (s *CustomersService) Stats(ctx context.Context) (domain.CustomerStats, error) {
	var st domain.CustomerStats
	all, err := s.c.Active(ctx)
	if err != nil {
		return st, err
	}
	now := s.c.Now()
	for _, c := range all {
		st.Total++
		switch c.Status {
		case domain.CustomerActive:
			st.Active++
		case domain.CustomerInactive:
			st.Inactive++
		}
		if c.CreatedAt.Year() == now.Year() && c.CreatedAt.Month() == now.Month() {
			st.NewThisMonth++
		}
		st.TotalSpent = st.TotalSpent.Add(c.TotalSpent)
	}
	return st, nil
}

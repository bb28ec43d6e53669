package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"admin-dashboard/internal/domain"
	"admin-dashboard/internal/repo"
	"admin-dashboard/pkg/utils"
)

const (
	KeyStaff       = "staff"
	KeyDepartments = "departments"
)

type StaffInput struct {
	EmployeeID string          `json:"employeeId"`
	FirstName  string          `json:"firstName" validate:"required,max=64"`
	LastName   string          `json:"lastName" validate:"required,max=64"`
	Email      string          `json:"email" validate:"required,email"`
	Phone      string          `json:"phone"`
	Position   string          `json:"position" validate:"required"`
	Department string          `json:"department"`
	RoleKey    string          `json:"roleKey"`
	Salary     decimal.Decimal `json:"salary"`
	HireDate   time.Time       `json:"hireDate"`
	Status     string          `json:"status"`
}

type StaffPatch struct {
	EmployeeID *string          `json:"employeeId"`
	FirstName  *string          `json:"firstName" validate:"omitempty,max=64"`
	LastName   *string          `json:"lastName" validate:"omitempty,max=64"`
	Email      *string          `json:"email" validate:"omitempty,email"`
	Phone      *string          `json:"phone"`
	Position   *string          `json:"position"`
	Department *string          `json:"department"`
	RoleKey    *string          `json:"roleKey"`
	Salary     *decimal.Decimal `json:"salary"`
	HireDate   *time.Time       `json:"hireDate"`
	Status     *string          `json:"status"`
}

type StaffService struct {
	base[*domain.Staff]
}

func NewStaffService(d Deps) *StaffService {
	return &StaffService{base: base[*domain.Staff]{
		c: newCollection(d, KeyStaff, "staff member", defaultStaff),
		fields: func(s *domain.Staff) []string {
			return []string{s.FirstName, s.LastName, s.FullName(), s.Email, s.EmployeeID, s.Position, s.Department}
		},
	}}
}

func staffEmail(s *domain.Staff) string      { return s.Email }
func staffEmployeeID(s *domain.Staff) string { return s.EmployeeID }

func (s *StaffService) find(ctx context.Context, what string, match func(*domain.Staff) bool) (*domain.Staff, error) {
	m, ok, err := s.c.Find(ctx, match)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.c.NotFound(what)
	}
	return m, nil
}

func (s *StaffService) GetByEmployeeID(ctx context.Context, employeeID string) (*domain.Staff, error) {
	return s.find(ctx, employeeID, func(r *domain.Staff) bool { return r.EmployeeID == employeeID })
}

func (s *StaffService) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	return s.find(ctx, email, func(r *domain.Staff) bool { return strings.EqualFold(r.Email, email) })
}

func (s *StaffService) GetByDepartment(ctx context.Context, department string) ([]*domain.Staff, error) {
	return s.c.Filter(ctx, func(r *domain.Staff) bool { return strings.EqualFold(r.Department, department) })
}

func (s *StaffService) Create(ctx context.Context, in StaffInput) (*domain.Staff, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	if err := nonNegative("salary", in.Salary); err != nil {
		return nil, err
	}
	m := &domain.Staff{
		EmployeeID: strings.TrimSpace(in.EmployeeID),
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		Position:   strings.TrimSpace(in.Position),
		Department: strings.TrimSpace(in.Department),
		RoleKey:    in.RoleKey,
		Salary:     in.Salary,
		HireDate:   in.HireDate,
		Status:     in.Status,
	}
	if m.Status == "" {
		m.Status = domain.StaffActive
	}
	if err := oneOf("status", m.Status, domain.StaffStatuses); err != nil {
		return nil, err
	}
	if m.HireDate.IsZero() {
		m.HireDate = s.c.Now()
	}
	auto := m.EmployeeID == ""
	return s.c.Insert(ctx, m, func(all []*domain.Staff) error {
		if auto {
			ids := make([]string, 0, len(all))
			for _, r := range all {
				ids = append(ids, r.EmployeeID)
			}
			m.EmployeeID = utils.NextSequence("EMP-", 3, ids)
		}
		if repo.Taken(all, m.ID, m.EmployeeID, staffEmployeeID) {
			return conflict("employee id %q already exists", m.EmployeeID)
		}
		if repo.Taken(all, m.ID, m.Email, staffEmail) {
			return conflict("staff member with email %q already exists", m.Email)
		}
		return nil
	})
}

func (s *StaffService) Update(ctx context.Context, id string, p StaffPatch) (*domain.Staff, error) {
	if err := check(p); err != nil {
		return nil, err
	}
	err := errors.Join(
		notBlank("firstName", p.FirstName),
		notBlank("lastName", p.LastName),
		notBlank("email", p.Email),
		notBlank("position", p.Position),
	)
	if err != nil {
		return nil, err
	}
	if p.Salary != nil {
		if err := nonNegative("salary", *p.Salary); err != nil {
			return nil, err
		}
	}
	if p.Status != nil {
		if err := oneOf("status", *p.Status, domain.StaffStatuses); err != nil {
			return nil, err
		}
	}
	return s.c.Modify(ctx, id, func(all []*domain.Staff, m *domain.Staff) error {
		if p.EmployeeID != nil {
			eid := strings.TrimSpace(*p.EmployeeID)
			if eid == "" {
				return invalid("employeeId must not be empty")
			}
			if repo.Taken(all, m.ID, eid, staffEmployeeID) {
				return conflict("employee id %q already exists", eid)
			}
			m.EmployeeID = eid
		}
		if p.Email != nil {
			e := strings.TrimSpace(*p.Email)
			if repo.Taken(all, m.ID, e, staffEmail) {
				return conflict("staff member with email %q already exists", e)
			}
			m.Email = e
		}
		set(&m.FirstName, trimmed(p.FirstName))
		set(&m.LastName, trimmed(p.LastName))
		set(&m.Phone, trimmed(p.Phone))
		set(&m.Position, trimmed(p.Position))
		set(&m.Department, trimmed(p.Department))
		set(&m.RoleKey, p.RoleKey)
		set(&m.Salary, p.Salary)
		set(&m.HireDate, p.HireDate)
		set(&m.Status, p.Status)
		return nil
	})
}

func (s *StaffService) UpdateStatus(ctx context.Context, id, status string) (*domain.Staff, error) {
	return s.Update(ctx, id, StaffPatch{Status: &status})
}

func (s *StaffService) Stats(ctx context.Context) (domain.StaffStats, error) {
	st := domain.StaffStats{ByStatus: map[string]int{}, ByDepartment: map[string]int{}}
	for _, k := range domain.StaffStatuses {
		st.ByStatus[k] = 0
	}
	all, err := s.c.Active(ctx)
	if err != nil {
		return st, err
	}
	for _, m := range all {
		st.Total++
		st.ByStatus[m.Status]++
		if m.Department != "" {
			st.ByDepartment[m.Department]++
		}
		st.TotalSalary = st.TotalSalary.Add(m.Salary)
	}
	if st.Total > 0 {
		st.AverageSalary = st.TotalSalary.Div(decimal.NewFromInt(int64(st.Total)))
	}
	return st, nil
}

type DepartmentInput struct {
	Name        string `json:"name" validate:"required,max=64"`
	Code        string `json:"code" validate:"required,alphanum,max=16"`
	ManagerID   string `json:"managerId"`
	Description string `json:"description"`
}

type DepartmentPatch struct {
	Name        *string `json:"name" validate:"omitempty,max=64"`
	Code        *string `json:"code" validate:"omitempty,alphanum,max=16"`
	ManagerID   *string `json:"managerId"`
	Description *string `json:"description"`
}

type DepartmentsService struct {
	base[*domain.Department]
}

func NewDepartmentsService(d Deps) *DepartmentsService {
	return &DepartmentsService{base: base[*domain.Department]{
		c: newCollection(d, KeyDepartments, "department", defaultDepartments),
		fields: func(dp *domain.Department) []string {
			return []string{dp.Name, dp.Code, dp.Description}
		},
	}}
}

func departmentName(d *domain.Department) string { return d.Name }
func departmentCode(d *domain.Department) string { return d.Code }

func (s *DepartmentsService) GetByCode(ctx context.Context, code string) (*domain.Department, error) {
	d, ok, err := s.c.Find(ctx, func(r *domain.Department) bool { return strings.EqualFold(r.Code, code) })
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.c.NotFound(code)
	}
	return d, nil
}

func (s *DepartmentsService) Create(ctx context.Context, in DepartmentInput) (*domain.Department, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	d := &domain.Department{
		Name:        strings.TrimSpace(in.Name),
		Code:        strings.ToUpper(in.Code),
		ManagerID:   in.ManagerID,
		Description: in.Description,
	}
	return s.c.Insert(ctx, d, func(all []*domain.Department) error {
		if repo.Taken(all, d.ID, d.Name, departmentName) {
			return conflict("department %q already exists", d.Name)
		}
		if repo.Taken(all, d.ID, d.Code, departmentCode) {
			return conflict("department code %q already exists", d.Code)
		}
		return nil
	})
}

func (s *DepartmentsService) Update(ctx context.Context, id string, p DepartmentPatch) (*domain.Department, error) {
	if err := check(p); err != nil {
		return nil, err
	}
	if err := notBlank("code", p.Code); err != nil {
		return nil, err
	}
	return s.c.Modify(ctx, id, func(all []*domain.Department, d *domain.Department) error {
		if p.Name != nil {
			n := strings.TrimSpace(*p.Name)
			if n == "" {
				return invalid("name must not be empty")
			}
			if repo.Taken(all, d.ID, n, departmentName) {
				return conflict("department %q already exists", n)
			}
			d.Name = n
		}
		if p.Code != nil {
			c := strings.ToUpper(*p.Code)
			if repo.Taken(all, d.ID, c, departmentCode) {
				return conflict("department code %q already exists", c)
			}
			d.Code = c
		}
		set(&d.ManagerID, p.ManagerID)
		set(&d.Description, p.Description)
		return nil
	})
}

func (s *DepartmentsService) Stats(ctx context.Context) (domain.DepartmentStats, error) {
	var st domain.DepartmentStats
	all, err := s.c.Active(ctx)
	if err != nil {
		return st, err
	}
	for _, d := range all {
		st.Total++
		if d.ManagerID != "" {
			st.WithManager++
		}
	}
	return st, nil
}

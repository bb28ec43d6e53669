package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StaffActive     = "active"
	StaffInactive   = "inactive"
	StaffOnLeave    = "on_leave"
	StaffTerminated = "terminated"
)

var StaffStatuses = []string{StaffActive, StaffInactive, StaffOnLeave, StaffTerminated}

type Staff struct {
	Base
	EmployeeID string          `json:"employeeId"`
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Position   string          `json:"position"`
	Department string          `json:"department"`
	RoleKey    string          `json:"roleKey"`
	Salary     decimal.Decimal `json:"salary"`
	HireDate   time.Time       `json:"hireDate"`
	Status     string          `json:"status"`
}

func (s *Staff) FullName() string { return s.FirstName + " " + s.LastName }

type StaffStats struct {
	Total         int             `json:"total"`
	ByStatus      map[string]int  `json:"byStatus"`
	ByDepartment  map[string]int  `json:"byDepartment"`
	TotalSalary   decimal.Decimal `json:"totalSalary"`
	AverageSalary decimal.Decimal `json:"averageSalary"`
}

type Department struct {
	Base
	Name        string `json:"name"`
	Code        string `json:"code"`
	ManagerID   string `json:"managerId,omitempty"`
	Description string `json:"description,omitempty"`
}

type DepartmentStats struct {
	Total       int `json:"total"`
	WithManager int `json:"withManager"`
}

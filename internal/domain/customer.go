package domain

import "github.com/shopspring/decimal"

const (
	CustomerActive   = "active"
	CustomerInactive = "inactive"
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type Customer struct {
	Base
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Company     string          `json:"company"`
	Address     Address         `json:"address"`
	Status      string          `json:"status"`
	TotalOrders int             `json:"totalOrders"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	Notes       string          `json:"notes,omitempty"`
}

type CustomerStats struct {
	Total        int             `json:"total"`
	Active       int             `json:"active"`
	Inactive     int             `json:"inactive"`
	NewThisMonth int             `json:"newThisMonth"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
}

package domain

import "github.com/shopspring/decimal"

const (
	ProductActive   = "active"
	ProductDraft    = "draft"
	ProductArchived = "archived"
)

type Product struct {
	Base
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	CategoryID  string          `json:"categoryId"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	Status      string          `json:"status"`
	Description string          `json:"description,omitempty"`
}

type ProductStats struct {
	Total          int             `json:"total"`
	Active         int             `json:"active"`
	LowStock       int             `json:"lowStock"`
	OutOfStock     int             `json:"outOfStock"`
	InventoryValue decimal.Decimal `json:"inventoryValue"`
}

type Category struct {
	Base
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description,omitempty"`
	ProductCount int    `json:"productCount"`
}

type CategoryStats struct {
	Total         int `json:"total"`
	Empty         int `json:"empty"`
	TotalProducts int `json:"totalProducts"`
}

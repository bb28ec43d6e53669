package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is stored as one object rather than an array.
type Settings struct {
	General       GeneralSettings      `json:"general"`
	Invoice       InvoiceSettings      `json:"invoice"`
	Notifications NotificationSettings `json:"notifications"`
	Security      SecuritySettings     `json:"security"`
	Appearance    AppearanceSettings   `json:"appearance"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

type GeneralSettings struct {
	SiteName   string `json:"siteName" validate:"required"`
	SiteURL    string `json:"siteUrl" validate:"omitempty,url"`
	AdminEmail string `json:"adminEmail" validate:"omitempty,email"`
	Timezone   string `json:"timezone"`
	Language   string `json:"language"`
	DateFormat string `json:"dateFormat"`
}

type InvoiceSettings struct {
	NumberPrefix   string          `json:"numberPrefix"`
	Currency       string          `json:"currency" validate:"required,len=3"`
	DefaultTaxRate decimal.Decimal `json:"defaultTaxRate"`
	DueDays        int             `json:"dueDays" validate:"gte=0"`
	Footer         string          `json:"footer"`
}

type NotificationSettings struct {
	EmailEnabled    bool `json:"emailEnabled"`
	NewInvoice      bool `json:"newInvoice"`
	PaymentReceived bool `json:"paymentReceived"`
	LowStock        bool `json:"lowStock"`
}

type SecuritySettings struct {
	SessionTimeoutMin int  `json:"sessionTimeoutMin" validate:"gte=1"`
	PasswordMinLength int  `json:"passwordMinLength" validate:"gte=4"`
	TwoFactor         bool `json:"twoFactor"`
}

type AppearanceSettings struct {
	Theme        string `json:"theme" validate:"omitempty,oneof=light dark system"`
	PrimaryColor string `json:"primaryColor"`
	Compact      bool   `json:"compact"`
}

package service

import (
	"context"
	"time"

	"admin-dashboard/internal/domain"
	"admin-dashboard/internal/repo"
)

const KeySettings = "settings"

// SettingsPatch replaces whole sections; absent sections are kept.
type SettingsPatch struct {
	General       *domain.GeneralSettings      `json:"general"`
	Invoice       *domain.InvoiceSettings      `json:"invoice"`
	Notifications *domain.NotificationSettings `json:"notifications"`
	Security      *domain.SecuritySettings     `json:"security"`
	Appearance    *domain.AppearanceSettings   `json:"appearance"`
}

type SettingsService struct {
	doc *repo.Document[domain.Settings]
	d   Deps
}

func NewSettingsService(d Deps) *SettingsService {
	return &SettingsService{doc: repo.NewDocument(d.Store, KeySettings, defaultSettings, d.Log), d: d}
}

func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	return s.doc.Get(ctx)
}

func (s *SettingsService) Update(ctx context.Context, p SettingsPatch) (domain.Settings, error) {
	return s.doc.Update(ctx, func(v *domain.Settings) error {
		set(&v.General, p.General)
		set(&v.Invoice, p.Invoice)
		set(&v.Notifications, p.Notifications)
		set(&v.Security, p.Security)
		set(&v.Appearance, p.Appearance)
		if err := check(v); err != nil {
			return err
		}
		if v.Invoice.DefaultTaxRate.IsNegative() {
			return invalid("defaultTaxRate must not be negative")
		}
		v.UpdatedAt = s.now()
		return nil
	})
}

func (s *SettingsService) Reset(ctx context.Context) (domain.Settings, error) {
	return s.doc.Reset(ctx)
}

func (s *SettingsService) now() time.Time {
	if s.d.Now != nil {
		return s.d.Now()
	}
	return time.Now().UTC()
}

package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"admin-dashboard/internal/core/cache"
	"admin-dashboard/internal/domain"
)

const overviewCacheKey = "dashboard:overview"

type Overview struct {
	Invoices      domain.InvoiceStats      `json:"invoices"`
	Customers     domain.CustomerStats     `json:"customers"`
	Products      domain.ProductStats      `json:"products"`
	Staff         domain.StaffStats        `json:"staff"`
	Users         domain.UserStats         `json:"users"`
	Notifications domain.NotificationStats `json:"notifications"`
	GeneratedAt   time.Time                `json:"generatedAt"`
}

type statser[S any] interface {
	Stats(ctx context.Context) (S, error)
}

type DashboardService struct {
	Invoices      statser[domain.InvoiceStats]
	Customers     statser[domain.CustomerStats]
	Products      statser[domain.ProductStats]
	Staff         statser[domain.StaffStats]
	Users         statser[domain.UserStats]
	Notifications statser[domain.NotificationStats]

	Cache *cache.Cache // optional
	TTL   time.Duration
	Now   func() time.Time
}

// Overview gathers every stats block, served from cache within TTL.
func (s *DashboardService) Overview(ctx context.Context) (*Overview, error) {
	return cache.GetOrLoadJSON(s.Cache, ctx, overviewCacheKey, s.TTL, s.load)
}

// Invalidate forgets the cached overview.
func (s *DashboardService) Invalidate(ctx context.Context) error {
	if s.Cache == nil || s.Cache.RDB == nil {
		return nil
	}
	return s.Cache.Invalidate(ctx, overviewCacheKey)
}

func (s *DashboardService) load(ctx context.Context) (*Overview, error) {
	var o Overview
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		o.Invoices, err = s.Invoices.Stats(ctx)
		return err
	})
	g.Go(func() (err error) {
		o.Customers, err = s.Customers.Stats(ctx)
		return err
	})
	g.Go(func() (err error) {
		o.Products, err = s.Products.Stats(ctx)
		return err
	})
	g.Go(func() (err error) {
		o.Staff, err = s.Staff.Stats(ctx)
		return err
	})
	g.Go(func() (err error) {
		o.Users, err = s.Users.Stats(ctx)
		return err
	})
	g.Go(func() (err error) {
		o.Notifications, err = s.Notifications.Stats(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	o.GeneratedAt = time.Now().UTC()
	if s.Now != nil {
		o.GeneratedAt = s.Now()
	}
	return &o, nil
}

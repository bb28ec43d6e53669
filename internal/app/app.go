// Package app wires configuration into storage, services and HTTP modules.
// Both binaries build the same App and mount different halves of it.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"admin-dashboard/internal/core/auth"
	"admin-dashboard/internal/core/cache"
	"admin-dashboard/internal/core/config"
	"admin-dashboard/internal/core/database"
	"admin-dashboard/internal/core/kv"
	"admin-dashboard/internal/domain"
	"admin-dashboard/internal/feature/invoicepdf"
	"admin-dashboard/internal/service"
	"admin-dashboard/internal/transport/http/handler"
	"admin-dashboard/internal/transport/http/router"
	"admin-dashboard/pkg/utils"
)

type App struct {
	Cfg   *config.Config
	Log   *zap.Logger
	Store kv.Store
	JWT   *auth.JWTer

	Invoices      *service.InvoicesService
	Customers     *service.CustomersService
	Products      *service.ProductsService
	Categories    *service.CategoriesService
	Staff         *service.StaffService
	Departments   *service.DepartmentsService
	Roles         *service.RolesService
	Permissions   *service.PermissionsService
	Users         *service.UsersService
	Notifications *service.NotificationsService
	Settings      *service.SettingsService
	Dashboard     *service.DashboardService

	closers []func() error
}

// New opens the configured storage backend and builds every service on it.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{
		Cfg: cfg,
		Log: log,
		JWT: &auth.JWTer{
			Secret: []byte(cfg.JWT.Secret),
			Issuer: cfg.JWT.Issuer,
			TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		},
	}

	rdb, err := a.openRedis(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.openStore(rdb); err != nil {
		a.Close()
		return nil, err
	}

	d := service.Deps{Store: a.Store, Log: log.Named("store"), Now: time.Now, IDGen: utils.NewID}
	a.Invoices = service.NewInvoicesService(d, service.InvoiceOptions{})
	a.Customers = service.NewCustomersService(d)
	a.Products = service.NewProductsService(d, cfg.Seed.LowStock)
	a.Categories = service.NewCategoriesService(d)
	a.Staff = service.NewStaffService(d)
	a.Departments = service.NewDepartmentsService(d)
	a.Roles = service.NewRolesService(d)
	a.Permissions = service.NewPermissionsService(d)
	a.Users = service.NewUsersService(d, a.Roles, service.UserOptions{
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminPassword: cfg.Seed.AdminPassword,
		MinPassword:   cfg.Seed.MinPassword,
	})
	a.Notifications = service.NewNotificationsService(d)
	a.Settings = service.NewSettingsService(d)

	a.Dashboard = &service.DashboardService{
		Invoices:      a.Invoices,
		Customers:     a.Customers,
		Products:      a.Products,
		Staff:         a.Staff,
		Users:         a.Users,
		Notifications: a.Notifications,
		TTL:           time.Duration(cfg.Storage.StatsTTLSec) * time.Second,
		Now:           time.Now,
	}
	if rdb != nil {
		a.Dashboard.Cache = cache.NewWithClient(rdb, cfg.Storage.Prefix+"cache:")
	}
	return a, nil
}

// openRedis connects when redis.addr is set. Without the redis storage
// driver an unreachable Redis only disables the stats cache.
func (a *App) openRedis(ctx context.Context) (*redis.Client, error) {
	if a.Cfg.Redis.Addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     a.Cfg.Redis.Addr,
		Password: a.Cfg.Redis.Password,
		DB:       a.Cfg.Redis.DB,
	})
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		if a.Cfg.Storage.Driver == "redis" {
			return nil, fmt.Errorf("redis ping %s: %w", a.Cfg.Redis.Addr, err)
		}
		a.Log.Warn("redis unreachable, stats cache disabled", zap.String("addr", a.Cfg.Redis.Addr), zap.Error(err))
		return nil, nil
	}
	a.Log.Info("redis connected", zap.String("addr", a.Cfg.Redis.Addr))
	if a.Cfg.Storage.Driver != "redis" {
		a.closers = append(a.closers, rdb.Close)
	}
	return rdb, nil
}

func (a *App) openStore(rdb *redis.Client) error {
	prefix := a.Cfg.Storage.Prefix
	switch a.Cfg.Storage.Driver {
	case "redis":
		a.Store = kv.NewRedis(rdb, prefix)
	case "sql":
		db, err := database.NewGorm(database.Opts{
			Driver:             a.Cfg.DB.Driver,
			DSN:                a.Cfg.DB.DSN,
			Username:           a.Cfg.DB.Username,
			Password:           a.Cfg.DB.Password,
			MaxOpenConns:       a.Cfg.DB.MaxOpenConns,
			MaxIdleConns:       a.Cfg.DB.MaxIdleConns,
			ConnMaxLifetimeMin: a.Cfg.DB.ConnMaxLifetimeMin,
			LogLevel:           a.Cfg.DB.LogLevel,
			Log:                a.Log,
		})
		if err != nil {
			return fmt.Errorf("open %s: %w", a.Cfg.DB.Driver, err)
		}
		s, err := kv.NewSQL(db, prefix)
		if err != nil {
			return fmt.Errorf("migrate kv_entries: %w", err)
		}
		a.Store = s
	default:
		a.Store = kv.NewMemory()
	}
	a.closers = append(a.closers, a.Store.Close)
	a.Log.Info("storage ready", zap.String("driver", a.Cfg.Storage.Driver), zap.String("prefix", prefix))
	return nil
}

// Close releases storage connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.Warn("close", zap.Error(err))
		}
	}
	a.closers = nil
}

func (a *App) invalidate(ctx context.Context) {
	if err := a.Dashboard.Invalidate(ctx); err != nil {
		a.Log.Warn("dashboard cache invalidate", zap.Error(err))
	}
}

func (a *App) Limits() router.Limits {
	l := a.Cfg.App.Limits
	return router.Limits{
		CORSOrigins:  a.Cfg.App.CORSOrigins,
		RPS:          l.RPS,
		Burst:        l.Burst,
		PerIPRPS:     l.PerIPRPS,
		PerIPBurst:   l.PerIPBurst,
		MaxInFlight:  l.MaxInFlight,
		MaxBodyBytes: l.MaxBodyBytes,
		Timeout:      time.Duration(l.TimeoutSec) * time.Second,
	}
}

// APIModules is the main-store surface: invoices, customers, products,
// categories, notifications and the dashboard.
func (a *App) APIModules() *router.Registry {
	return router.NewRegistry(
		&handler.Auth{Users: a.Users, JWT: a.JWT},
		&handler.MainStore{
			Invoices:   a.Invoices,
			Customers:  a.Customers,
			Products:   a.Products,
			Categories: a.Categories,
			Settings:   a.Settings,
			PDF:        invoicepdf.New(),
			OnChange:   a.invalidate,
		},
		&handler.Notifications{Svc: a.Notifications, OnChange: a.invalidate},
		&handler.Dashboard{Svc: a.Dashboard},
	)
}

// AdminModules is the user-manage surface plus settings.
func (a *App) AdminModules() *router.Registry {
	return router.NewRegistry(
		&handler.Auth{Users: a.Users, JWT: a.JWT, RequireRole: domain.RoleAdmin},
		&handler.UserManage{
			Staff:       a.Staff,
			Departments: a.Departments,
			Roles:       a.Roles,
			Permissions: a.Permissions,
			Users:       a.Users,
			OnChange:    a.invalidate,
		},
		&handler.Settings{Svc: a.Settings},
	)
}

// SweepOverdue marks past-due invoices overdue every interval until ctx ends.
func (a *App) SweepOverdue(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		n, err := a.Invoices.MarkOverdue(ctx, time.Now())
		switch {
		case err != nil && ctx.Err() == nil:
			a.Log.Warn("overdue sweep", zap.Error(err))
		case n > 0:
			a.Log.Info("invoices marked overdue", zap.Int("count", n))
			a.invalidate(ctx)
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/domain"
	"admin-dashboard/internal/service"
	"admin-dashboard/internal/transport/http/ez"
)

type Notifications struct {
	Svc      *service.NotificationsService
	OnChange func(ctx context.Context)
}

type countOut struct {
	Count int `json:"count"`
}

func (h *Notifications) MountAPI(g *gin.RouterGroup) {
	ez.Crud(ez.CrudConfig[*domain.Notification, service.NotificationInput, service.NotificationPatch, domain.NotificationStats]{
		Group: g, Path: "/notifications", Store: h.Svc,
		Create: h.Svc.Create, Update: h.Svc.Update,
		Stats: h.Svc.Stats, Reset: h.Svc.Reset, OnChange: h.OnChange,
	})

	e := ez.New(g.Group("/notifications"))
	ez.RegisterAction(e, ez.Action[struct{}, countOut]{
		Method: http.MethodGet,
		Path:   "/unread-count",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (countOut, error) {
			n, err := h.Svc.UnreadCount(c.Request.Context())
			return countOut{Count: n}, err
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, *domain.Notification]{
		Method: http.MethodPost,
		Path:   "/:id/read",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Notification, error) {
			n, err := h.Svc.MarkRead(c.Request.Context(), c.Param("id"))
			if err == nil && h.OnChange != nil {
				h.OnChange(c.Request.Context())
			}
			return n, err
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, countOut]{
		Method: http.MethodPost,
		Path:   "/read-all",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (countOut, error) {
			n, err := h.Svc.MarkAllRead(c.Request.Context())
			if err == nil && n > 0 && h.OnChange != nil {
				h.OnChange(c.Request.Context())
			}
			return countOut{Count: n}, err
		},
	})
}

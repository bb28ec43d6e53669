package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/domain"
	"admin-dashboard/internal/service"
	"admin-dashboard/internal/transport/http/ez"
)

type Settings struct {
	Svc *service.SettingsService
}

func (h *Settings) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g.Group("/settings"))
	ez.RegisterAction(e, ez.Action[struct{}, domain.Settings]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (domain.Settings, error) {
			return h.Svc.Get(c.Request.Context())
		},
	})
	ez.RegisterAction(e, ez.Action[service.SettingsPatch, domain.Settings]{
		Method: http.MethodPut,
		Path:   "",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.SettingsPatch) (domain.Settings, error) {
			return h.Svc.Update(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, domain.Settings]{
		Method: http.MethodPost,
		Path:   "/reset",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (domain.Settings, error) {
			return h.Svc.Reset(c.Request.Context())
		},
	})
}

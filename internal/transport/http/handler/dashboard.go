package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/service"
	"admin-dashboard/internal/transport/http/ez"
)

type Dashboard struct {
	Svc *service.DashboardService
}

func (h *Dashboard) MountAPI(g *gin.RouterGroup) {
	ez.RegisterAction(ez.New(g), ez.Action[struct{}, *service.Overview]{
		Method: http.MethodGet,
		Path:   "/dashboard",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.Overview, error) {
			return h.Svc.Overview(c.Request.Context())
		},
	})
}

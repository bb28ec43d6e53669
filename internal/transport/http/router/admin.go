package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"admin-dashboard/internal/core/auth"
	"admin-dashboard/internal/domain"
	mdw "admin-dashboard/internal/transport/http/middleware"
)

// NewAdminEngine 管理端：/admin/v1，统一要求 admin 角色
func NewAdminEngine(l *zap.Logger, jwter *auth.JWTer, lim Limits, reg *Registry) *gin.Engine {
	r := newEngine(l, "admin", lim)

	admin := r.Group("/admin/v1")
	reg.MountPublic(admin)

	authed := admin.Group("")
	authed.Use(mdw.AuthJWT(jwter, domain.RoleAdmin))
	reg.MountAdmin(authed)

	return r
}

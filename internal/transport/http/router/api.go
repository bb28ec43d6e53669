package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"admin-dashboard/internal/core/auth"
	mdw "admin-dashboard/internal/transport/http/middleware"
)

// NewAPIEngine 业务端：/api/v1，登录外的接口都要求有效 token
func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, lim Limits, reg *Registry) *gin.Engine {
	r := newEngine(l, "api", lim)

	api := r.Group("/api/v1")
	reg.MountPublic(api)

	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter, ""))
	reg.MountAPI(authed)

	return r
}

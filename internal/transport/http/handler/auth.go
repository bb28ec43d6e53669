package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/core/auth"
	"admin-dashboard/internal/domain"
	"admin-dashboard/internal/service"
	"admin-dashboard/internal/transport/http/ez"
)

// Auth mounts login on the public group and /me on the authenticated one.
// RequireRole limits who may log in on this surface ("" for anyone).
type Auth struct {
	Users       *service.UsersService
	JWT         *auth.JWTer
	RequireRole string
}

type loginIn struct {
	Login    string `json:"login" binding:"required"` // email 或 username
	Password string `json:"password" binding:"required"`
}

type loginOut struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	User      domain.PublicUser `json:"user"`
}

type passwordIn struct {
	Current string `json:"current" binding:"required"`
	Next    string `json:"next" binding:"required"`
}

func (h *Auth) Priority() int { return 10 }

func (h *Auth) MountPublic(g *gin.RouterGroup) {
	ez.RegisterAction(ez.New(g), ez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			u, err := h.Users.Authenticate(c.Request.Context(), in.Login, in.Password)
			if err != nil {
				return loginOut{}, err
			}
			if h.RequireRole != "" && u.RoleKey != h.RequireRole {
				return loginOut{}, ez.Forbidden("role " + h.RequireRole + " required")
			}
			tok, err := h.JWT.Issue(u.ID, u.RoleKey)
			if err != nil || tok == "" {
				return loginOut{}, ez.Internal("issue token failed", err)
			}
			return loginOut{Token: tok, ExpiresAt: time.Now().Add(h.JWT.TTL), User: u.Public()}, nil
		},
	})
}

func (h *Auth) mountMe(g *gin.RouterGroup) {
	e := ez.New(g)
	ez.RegisterAction(e, ez.Action[struct{}, domain.PublicUser]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (domain.PublicUser, error) {
			u, err := h.Users.GetByID(c.Request.Context(), c.GetString(ez.KeyUserID))
			if errors.Is(err, domain.ErrNotFound) {
				return domain.PublicUser{}, ez.Unauthorized("account no longer exists")
			}
			if err != nil {
				return domain.PublicUser{}, err
			}
			return u.Public(), nil
		},
	})
	ez.RegisterAction(e, ez.Action[passwordIn, gin.H]{
		Method: http.MethodPut,
		Path:   "/me/password",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *passwordIn) (gin.H, error) {
			if err := h.Users.ChangePassword(c.Request.Context(), c.GetString(ez.KeyUserID), in.Current, in.Next); err != nil {
				return nil, err
			}
			return gin.H{"changed": true}, nil
		},
	})
}

func (h *Auth) MountAPI(g *gin.RouterGroup)   { h.mountMe(g) }
func (h *Auth) MountAdmin(g *gin.RouterGroup) { h.mountMe(g) }

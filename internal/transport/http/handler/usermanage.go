package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/domain"
	"admin-dashboard/internal/service"
	"admin-dashboard/internal/transport/http/ez"
)

// UserManage serves /user-manage/{staff,departments,roles,permissions,users}.
type UserManage struct {
	Staff       *service.StaffService
	Departments *service.DepartmentsService
	Roles       *service.RolesService
	Permissions *service.PermissionsService
	Users       *service.UsersService
	OnChange    func(ctx context.Context)
}

type permissionsIn struct {
	Permissions []string `json:"permissions"`
}

type setPasswordIn struct {
	Password string `json:"password" binding:"required"`
}

func presentUser(u *domain.User) any { return u.Public() }

func (h *UserManage) MountAdmin(g *gin.RouterGroup) {
	ez.Crud(ez.CrudConfig[*domain.Staff, service.StaffInput, service.StaffPatch, domain.StaffStats]{
		Group: g, Path: "/user-manage/staff", Store: h.Staff,
		Create: h.Staff.Create, Update: h.Staff.Update, UpdateStatus: h.Staff.UpdateStatus,
		Stats: h.Staff.Stats, Reset: h.Staff.Reset, OnChange: h.OnChange,
	})
	ez.Crud(ez.CrudConfig[*domain.Department, service.DepartmentInput, service.DepartmentPatch, domain.DepartmentStats]{
		Group: g, Path: "/user-manage/departments", Store: h.Departments,
		Create: h.Departments.Create, Update: h.Departments.Update,
		Stats: h.Departments.Stats, Reset: h.Departments.Reset, OnChange: h.OnChange,
	})
	ez.Crud(ez.CrudConfig[*domain.Role, service.RoleInput, service.RolePatch, domain.RoleStats]{
		Group: g, Path: "/user-manage/roles", Store: h.Roles,
		Create: h.Roles.Create, Update: h.Roles.Update,
		Stats: h.Roles.Stats, Reset: h.Roles.Reset, OnChange: h.OnChange,
	})
	ez.Crud(ez.CrudConfig[*domain.Permission, service.PermissionInput, service.PermissionPatch, domain.PermissionStats]{
		Group: g, Path: "/user-manage/permissions", Store: h.Permissions,
		Create: h.Permissions.Create, Update: h.Permissions.Update,
		Stats: h.Permissions.Stats, Reset: h.Permissions.Reset, OnChange: h.OnChange,
	})
	ez.Crud(ez.CrudConfig[*domain.User, service.UserInput, service.UserPatch, domain.UserStats]{
		Group: g, Path: "/user-manage/users", Store: h.Users,
		Create: h.Users.Create, Update: h.Users.Update, UpdateStatus: h.Users.UpdateStatus,
		Stats: h.Users.Stats, Reset: h.Users.Reset, OnChange: h.OnChange,
		Present: presentUser,
	})

	staff := ez.New(g.Group("/user-manage/departments"))
	ez.RegisterAction(staff, ez.Action[struct{}, []*domain.Staff]{
		Method: http.MethodGet,
		Path:   "/:id/staff",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]*domain.Staff, error) {
			d, err := h.Departments.GetByID(c.Request.Context(), c.Param("id"))
			if err != nil {
				return nil, err
			}
			return h.Staff.GetByDepartment(c.Request.Context(), d.Name)
		},
	})

	roles := ez.New(g.Group("/user-manage/roles"))
	ez.RegisterAction(roles, ez.Action[permissionsIn, *domain.Role]{
		Method: http.MethodPut,
		Path:   "/:id/permissions",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *permissionsIn) (*domain.Role, error) {
			return h.Roles.SetPermissions(c.Request.Context(), c.Param("id"), in.Permissions)
		},
	})

	perms := ez.New(g.Group("/user-manage/permissions"))
	ez.RegisterAction(perms, ez.Action[struct{}, map[string][]*domain.Permission]{
		Method: http.MethodGet,
		Path:   "/by-module",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (map[string][]*domain.Permission, error) {
			return h.Permissions.GetByModule(c.Request.Context())
		},
	})

	users := ez.New(g.Group("/user-manage/users"))
	ez.RegisterAction(users, ez.Action[setPasswordIn, gin.H]{
		Method: http.MethodPut,
		Path:   "/:id/password",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *setPasswordIn) (gin.H, error) {
			if err := h.Users.SetPassword(c.Request.Context(), c.Param("id"), in.Password); err != nil {
				return nil, err
			}
			return gin.H{"id": c.Param("id")}, nil
		},
	})
}

package ez

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	resp "admin-dashboard/internal/transport/http/response"
)

// Store is the read/lifecycle surface every entity service shares.
type Store[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetAllIncludingDeleted(ctx context.Context) ([]T, error)
	GetDeleted(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (T, error)
	Search(ctx context.Context, query string) ([]T, error)
	Delete(ctx context.Context, id string) (T, error)
	Restore(ctx context.Context, id string) (T, error)
	PermanentDelete(ctx context.Context, id string) error
}

// CrudConfig 描述一个资源：C 为创建入参，U 为更新补丁，S 为统计结果
type CrudConfig[T any, C any, U any, S any] struct {
	Group *gin.RouterGroup
	Path  string
	Store Store[T]

	Create       func(ctx context.Context, in C) (T, error)
	Update       func(ctx context.Context, id string, in U) (T, error)
	UpdateStatus func(ctx context.Context, id, status string) (T, error) // 可选
	Stats        func(ctx context.Context) (S, error)                    // 可选
	Reset        func(ctx context.Context) error                         // 可选：恢复默认数据

	// Present 在输出前转换记录（如去掉密码哈希），默认原样输出
	Present func(T) any

	// OnChange 每次写成功后调用（如让看板缓存失效）
	OnChange func(ctx context.Context)
}

type statusIn struct {
	Status string `json:"status" binding:"required"`
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

// Paginate cuts one page out of list. page starts at 1; size defaults to 20
// and is capped at 100.
func Paginate[T any](list []T, page, size int) resp.Page[T] {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	out := resp.Page[T]{Total: len(list), Page: page, Size: size, List: []T{}}
	start := (page - 1) * size
	if start >= len(list) {
		return out
	}
	end := min(start+size, len(list))
	out.List = list[start:end]
	return out
}

// Crud mounts list/stats/get/create/update/delete/restore/permanent for one
// resource under cfg.Path.
func Crud[T any, C any, U any, S any](cfg CrudConfig[T, C, U, S]) {
	present := cfg.Present
	if present == nil {
		present = func(v T) any { return v }
	}
	presentAll := func(list []T) []any {
		out := make([]any, 0, len(list))
		for _, v := range list {
			out = append(out, present(v))
		}
		return out
	}
	changed := func(ctx context.Context) {
		if cfg.OnChange != nil {
			cfg.OnChange(ctx)
		}
	}
	one := func(c *gin.Context, v T, err error) {
		if err != nil {
			Fail(c, err)
			return
		}
		changed(c.Request.Context())
		c.JSON(http.StatusOK, resp.OK(present(v)))
	}

	g := cfg.Group.Group(cfg.Path)

	// List：scope=active|all|deleted，q 只搜索未删除记录
	g.GET("", func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		scope := c.DefaultQuery("scope", "active")

		var list []T
		var err error
		switch {
		case q != "" && scope != "active":
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "q only applies to scope=active"))
			return
		case q != "":
			list, err = cfg.Store.Search(c.Request.Context(), q)
		case scope == "active":
			list, err = cfg.Store.GetAll(c.Request.Context())
		case scope == "all":
			list, err = cfg.Store.GetAllIncludingDeleted(c.Request.Context())
		case scope == "deleted":
			list, err = cfg.Store.GetDeleted(c.Request.Context())
		default:
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "scope must be active, all or deleted"))
			return
		}
		if err != nil {
			Fail(c, err)
			return
		}
		page := atoiDefault(c.Query("page"), 1)
		size := atoiDefault(c.Query("size"), 20)
		c.JSON(http.StatusOK, resp.OK(Paginate(presentAll(list), page, size)))
	})

	if cfg.Stats != nil {
		g.GET("/stats", func(c *gin.Context) {
			st, err := cfg.Stats(c.Request.Context())
			if err != nil {
				Fail(c, err)
				return
			}
			c.JSON(http.StatusOK, resp.OK(st))
		})
	}

	if cfg.Reset != nil {
		g.POST("/reset", func(c *gin.Context) {
			if err := cfg.Reset(c.Request.Context()); err != nil {
				Fail(c, err)
				return
			}
			changed(c.Request.Context())
			c.JSON(http.StatusOK, resp.OK(gin.H{"reset": true}))
		})
	}

	g.GET("/:id", func(c *gin.Context) {
		v, err := cfg.Store.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(present(v)))
	})

	if cfg.Create != nil {
		g.POST("", func(c *gin.Context) {
			var in C
			if err := c.ShouldBindJSON(&in); err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
				return
			}
			v, err := cfg.Create(c.Request.Context(), in)
			one(c, v, err)
		})
	}

	if cfg.Update != nil {
		g.PUT("/:id", func(c *gin.Context) {
			var in U
			if err := c.ShouldBindJSON(&in); err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
				return
			}
			v, err := cfg.Update(c.Request.Context(), c.Param("id"), in)
			one(c, v, err)
		})
	}

	if cfg.UpdateStatus != nil {
		g.PATCH("/:id/status", func(c *gin.Context) {
			var in statusIn
			if err := c.ShouldBindJSON(&in); err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
				return
			}
			v, err := cfg.UpdateStatus(c.Request.Context(), c.Param("id"), in.Status)
			one(c, v, err)
		})
	}

	g.DELETE("/:id", func(c *gin.Context) {
		v, err := cfg.Store.Delete(c.Request.Context(), c.Param("id"))
		one(c, v, err)
	})

	g.POST("/:id/restore", func(c *gin.Context) {
		v, err := cfg.Store.Restore(c.Request.Context(), c.Param("id"))
		one(c, v, err)
	})

	g.DELETE("/:id/permanent", func(c *gin.Context) {
		id := c.Param("id")
		if err := cfg.Store.PermanentDelete(c.Request.Context(), id); err != nil {
			Fail(c, err)
			return
		}
		changed(c.Request.Context())
		c.JSON(http.StatusOK, resp.OK(gin.H{"id": id}))
	})
}

package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// 模块可选择实现其中一个或多个接口
type PublicModule interface{ MountPublic(*gin.RouterGroup) } // 无需登录
type APIModule interface{ MountAPI(*gin.RouterGroup) }       // /api/v1，已登录
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }   // /admin/v1，admin 角色

// 实现该接口可控制挂载顺序（数值越小越先挂），不实现则默认 100
type prioritizer interface{ Priority() int }

// Registry 收集模块，由 engine 构造时统一挂载
type Registry struct {
	mu   sync.RWMutex
	mods []any
}

func NewRegistry(mods ...any) *Registry {
	r := &Registry{}
	for _, m := range mods {
		r.Register(m)
	}
	return r
}

func (r *Registry) Register(mod any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mods = append(r.mods, mod)
}

func (r *Registry) sorted() []any {
	r.mu.RLock()
	mods := append([]any(nil), r.mods...)
	r.mu.RUnlock()
	sort.SliceStable(mods, func(i, j int) bool { return priorityOf(mods[i]) < priorityOf(mods[j]) })
	return mods
}

func (r *Registry) MountPublic(g *gin.RouterGroup) {
	for _, m := range r.sorted() {
		if p, ok := m.(PublicModule); ok {
			p.MountPublic(g)
		}
	}
}

func (r *Registry) MountAPI(g *gin.RouterGroup) {
	for _, m := range r.sorted() {
		if a, ok := m.(APIModule); ok {
			a.MountAPI(g)
		}
	}
}

func (r *Registry) MountAdmin(g *gin.RouterGroup) {
	for _, m := range r.sorted() {
		if a, ok := m.(AdminModule); ok {
			a.MountAdmin(g)
		}
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}

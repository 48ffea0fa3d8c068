package router

import "github.com/gin-gonic/gin"

// Registry collects the feature modules and mounts them under /api.
// Middlewares added with Use apply to the whole group, ahead of any
// per-route limiter a module attaches.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

// Use queues group-level middleware; it takes effect in RegisterAll.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// RegisterAll installs the queued middleware and then lets every
// module register its routes. Called once after all Add calls.
func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}

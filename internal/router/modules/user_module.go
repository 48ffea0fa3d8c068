package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davryn/identity-service/internal/container"
	handlers "github.com/davryn/identity-service/internal/interface/http"
	"github.com/davryn/identity-service/internal/interface/middleware"
	"github.com/davryn/identity-service/pkg/helpers"
)

// UserModule wires registration, login and profile routes.
// Public: POST /api/register, POST /api/login
// Protected: POST /api/logout, GET/PUT/DELETE /api/profile
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.DELETE("/profile", m.Handler.DeleteAccount)
	}
}

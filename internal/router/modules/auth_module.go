package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davryn/identity-service/internal/container"
	handlers "github.com/davryn/identity-service/internal/interface/http"
	"github.com/davryn/identity-service/internal/interface/middleware"
)

// AuthModule wires the public password-reset and email-confirmation
// routes, each behind an IP-based rate limit.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	resetInitLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetConfirmLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	verifyConfirmLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/reset/init", resetInitLimiter, m.Handler.ResetInit)
	rg.POST("/auth/reset/confirm", resetConfirmLimiter, m.Handler.ResetConfirm)
	rg.POST("/auth/verify/confirm", verifyConfirmLimiter, m.Handler.VerifyConfirm)
}

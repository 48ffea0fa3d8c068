package router

import (
	userapp "github.com/davryn/identity-service/internal/application"
	"github.com/davryn/identity-service/internal/container"
	pginfra "github.com/davryn/identity-service/internal/infrastructure/postgres"
	"github.com/davryn/identity-service/internal/infrastructure/redisstore"
	handlers "github.com/davryn/identity-service/internal/interface/http"
	"github.com/davryn/identity-service/internal/router/modules"
)

// Redis key prefixes for the single-use token stores.
const (
	resetTokenPrefix   = "pwd:reset:token:"
	confirmTokenPrefix = "email:verify:token:"
)

func buildService() *userapp.Service {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	svc := userapp.NewService(
		repo,
		container.GetJWT(),
		container.GetMailer(),
		container.GetEvents(),
		redisstore.NewTokenStore(container.GetRedis(), resetTokenPrefix),
		redisstore.NewTokenStore(container.GetRedis(), confirmTokenPrefix),
		container.GetLogger(),
	)
	svc.BcryptCost = cfg.BcryptCost
	svc.ResetTokenTTL = cfg.ResetTokenTTL
	svc.ResetURL = cfg.ResetPasswordURL
	return svc
}

// InitModules wires all application modules into the router registry.
// Called once during startup after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	svc := buildService()

	userHandler := handlers.NewUserHandler(svc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	authHandler := handlers.NewAuthHandler(svc, container.GetLogger())

	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	r.Add(modules.NewAuthModule(authHandler))
}

package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/davryn/identity-service/config"
	"github.com/davryn/identity-service/internal/application"
	"github.com/davryn/identity-service/pkg/helpers"
)

// app-level container to share constructed components across packages.
// The router auto-wires modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	jwtManager *helpers.JWTManager
	rabbitPub  *helpers.RabbitPublisher

	mailTransport application.Mailer
	eventPub      application.EventPublisher
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger { return logger }
func SetPGPool(p *pgxpool.Pool) { pgPool = p }
func GetPGPool() *pgxpool.Pool { return pgPool }
func SetRedis(r *redis.Client) { redisClient = r }
func GetRedis() *redis.Client { return redisClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager { return jwtManager }

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher { return rabbitPub }

func SetMailer(m application.Mailer) { mailTransport = m }
func GetMailer() application.Mailer { return mailTransport }
func SetEvents(p application.EventPublisher) { eventPub = p }
func GetEvents() application.EventPublisher { return eventPub }

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"bookingapi/internal/auth"
	"bookingapi/internal/cache"
	"bookingapi/internal/config"
	"bookingapi/internal/database"
	"bookingapi/internal/database/migration"
	handlers "bookingapi/internal/http/handler"
	"bookingapi/internal/http/middleware"
	"bookingapi/internal/logging"
	"bookingapi/internal/mail"
	"bookingapi/internal/monitor"
	"bookingapi/internal/otel"
	mongorepo "bookingapi/internal/repository/mongo"
	"bookingapi/internal/repository/postgres"
	"bookingapi/internal/service"
	"bookingapi/internal/storage"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter, err := monitor.New(cfg.Sentry)
	if err != nil {
		log.WithError(err).Fatal("monitor_init_failed")
	}
	defer reporter.Flush(2 * time.Second)

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.WithError(err).Fatal("tracing_init_failed")
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("postgres_connect_failed")
	}
	defer db.Close()
	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.WithError(err).Fatal("postgres_migrate_failed")
	}

	mongoClient, mongoDB, err := database.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		log.WithError(err).Fatal("mongo_connect_failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	if err := mongorepo.EnsureIndexes(ctx, mongoDB); err != nil {
		log.WithError(err).Fatal("mongo_indexes_failed")
	}

	rdb, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		log.WithError(err).Fatal("redis_connect_failed")
	}
	defer rdb.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	runner, err := newRunner(cfg.Cache, rdb, reg, log)
	if err != nil {
		log.WithError(err).Fatal("cache_init_failed")
	}
	deps := service.Deps{
		Runner:   runner,
		Keys:     cache.NewKeyBuilder(cfg.Cache.Prefix),
		Log:      log,
		Reporter: reporter,
	}

	var objStore storage.Storage
	if cfg.MinIO.Endpoint != "" {
		s, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			log.WithError(err).Fatal("object_storage_init_failed")
		}
		objStore = s
	} else {
		log.Warn("schedule_export_disabled")
	}

	mailer, err := mail.New(cfg.Mail, log)
	if err != nil {
		log.WithError(err).Fatal("mail_init_failed")
	}

	usage := service.NewUsageService(mongorepo.NewUsageMongo(mongoDB), deps)
	userMeta := service.NewUserMetaService(mongorepo.NewUserMetaMongo(mongoDB), deps)
	users := service.NewUserService(postgres.NewUserPostgres(db), deps, usage, userMeta)
	schedules := service.NewScheduleService(postgres.NewSchedulePostgres(db), objStore, cfg.MinIO.PresignTTL, deps)
	sessionTypes := service.NewSessionTypeService(postgres.NewSessionTypePostgres(db), deps)
	chats := service.NewChatService(postgres.NewChatPostgres(db), deps)
	notifications := service.NewNotificationService(users, userMeta, mailer, deps)

	tokens, err := auth.NewTokenIssuer(cfg.Auth)
	if err != nil {
		log.WithError(err).Fatal("auth_init_failed")
	}
	sessions := auth.NewSessionStore(rdb, cfg.Session)
	registry := auth.NewRegistry(log,
		auth.NewLocalStrategy(users),
		auth.NewJWTStrategy(tokens, users),
		auth.NewSessionStrategy(sessions, users),
	)
	var google *auth.GoogleStrategy
	if cfg.Auth.GoogleClientID != "" {
		google = auth.NewGoogleStrategy(auth.GoogleOAuthConfig(cfg.Auth), "", users)
		registry.Register(google)
	}
	log.WithField("strategies", registry.Names()).Info("auth_configured")

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.WithError(err).Fatal("metrics_init_failed")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, handlers.Deps{
		Health: []handlers.Dependency{
			handlers.PostgresDependency(db),
			handlers.MongoDependency(mongoClient),
			handlers.RedisDependency(rdb),
		},
		Metrics: reg,
		Auth: handlers.AuthDeps{
			Registry:      registry,
			Tokens:        tokens,
			Sessions:      sessions,
			Google:        google,
			Usage:         usage,
			Notifications: notifications,
			Log:           log,
		},
		Schedules:    schedules,
		SessionTypes: sessionTypes,
		Chats:        chats,
		Usage:        usage,
		UserMeta:     userMeta,
	})

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("server_shutdown_failed")
		}
	}()

	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("server_starting")
	if err := app.Listen(addr); err != nil {
		log.WithError(err).Fatal("server_failed")
	}
}

// newRunner picks the cache backend. Unknown backends are a configuration error.
func newRunner(cfg config.CacheConfig, rdb *redis.Client, reg prometheus.Registerer, log logrus.FieldLogger) (*cache.Runner, error) {
	var store cache.Store
	switch cfg.Backend {
	case "redis":
		store = cache.NewRedisStore(rdb)
	case "memory":
		mem, err := cache.NewMemoryStore(cfg.Capacity, cfg.TTL)
		if err != nil {
			return nil, err
		}
		store = mem
	case "none":
	default:
		return nil, errors.New("unknown CACHE_BACKEND " + cfg.Backend)
	}

	metrics, err := cache.NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	log.WithField("backend", cfg.Backend).Info("cache_configured")
	return cache.NewRunner(store, cfg.TTL, log, metrics), nil
}

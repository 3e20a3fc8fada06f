package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/aiops/api/handler"
	"github.com/fastygo/aiops/internal/config"
	"github.com/fastygo/aiops/internal/infrastructure/buffer"
	"github.com/fastygo/aiops/internal/infrastructure/incidents"
	"github.com/fastygo/aiops/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/aiops/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/aiops/internal/infrastructure/redis"
	"github.com/fastygo/aiops/internal/middleware"
	"github.com/fastygo/aiops/internal/router"
	"github.com/fastygo/aiops/internal/services"
	"github.com/fastygo/aiops/internal/services/lifecycle"
	"github.com/fastygo/aiops/pkg/httpcontext"
	"github.com/fastygo/aiops/pkg/logger"
	"github.com/fastygo/aiops/repository"
	boltRepo "github.com/fastygo/aiops/repository/bolt"
	"github.com/fastygo/aiops/repository/memory"
	pgRepo "github.com/fastygo/aiops/repository/postgres"
	redisRepo "github.com/fastygo/aiops/repository/redis"
	"github.com/fastygo/aiops/usecase"
	auditUC "github.com/fastygo/aiops/usecase/audit"
	authUC "github.com/fastygo/aiops/usecase/auth"
	"github.com/fastygo/aiops/usecase/console"
	"github.com/fastygo/aiops/usecase/dashboard"
	"github.com/fastygo/aiops/usecase/session"
	"github.com/fastygo/aiops/usecase/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)

	credentials, err := memory.NewCredentialRepository(memory.DemoPassword, 0)
	if err != nil {
		zapLogger.Fatal("failed to hash demo credentials", zap.Error(err))
	}

	var (
		redisClient *goRedis.Client
		pool        *pgxpool.Pool
		spool       *buffer.Store
		mirror      repository.SessionRepository
	)

	switch cfg.Session.Backend {
	case config.BackendRedis:
		redisClient, err = redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
		mirror = redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)
	case config.BackendBolt:
		boltSessions, err := boltRepo.OpenSessionRepository(cfg.Session.BoltPath)
		if err != nil {
			zapLogger.Fatal("failed to open session file", zap.Error(err))
		}
		manager.Register("session_file", func(ctx context.Context) error {
			return boltSessions.Close()
		})
		mirror = boltSessions
	default:
		mirror = memory.NewSessionRepository()
	}
	zapLogger.Info("session mirror ready", zap.String("backend", cfg.Session.Backend))

	var (
		auditRepo   repository.AuditRepository = memory.NewAuditRepository()
		auditWriter usecase.AuditWriter
	)
	if cfg.Audit.Backend == config.BackendPostgres {
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
		pool, err = pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})
		auditRepo = pgRepo.NewAuditRepository(pool)

		spool, err = buffer.Open(cfg.Buffer.Path, "audit")
		if err != nil {
			zapLogger.Fatal("failed to open audit spool", zap.Error(err))
		}
		manager.Register("audit_spool", func(ctx context.Context) error {
			return spool.Close()
		})
	}

	feed := incidents.NewClient(cfg.Incidents.URL, nil, zapLogger)

	mon := monitor.New(pool, redisClient, spool, feed, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	if spool != nil {
		processor := services.NewBufferProcessor(spool, mon, auditRepo, zapLogger, services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  cfg.Buffer.BatchSize,
			MaxRetries: cfg.Buffer.MaxRetry,
		})
		processor.Start()
		manager.Register("audit_processor", func(ctx context.Context) error {
			processor.Stop(ctx)
			return nil
		})
		auditWriter = services.NewBufferBridge(processor)
	}

	secret := cfg.JWT.Secret
	if secret == "" {
		secret = randomSecret()
		zapLogger.Warn("JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	}
	tokens, err := authUC.NewTokens(secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	if err != nil {
		zapLogger.Fatal("token setup failed", zap.Error(err))
	}

	ops := memory.NewOpsStore(cfg.Mock.Seed, time.Now().UTC())
	auditUseCase := auditUC.New(auditWriter, auditRepo, zapLogger)
	registry := session.NewRegistry(credentials, mirror, zapLogger)
	authUseCase := authUC.New(registry, tokens, auditUseCase, zapLogger)
	dashboardUseCase := dashboard.New(ops, feed, zapLogger)
	consoleUseCase := console.New(ops, credentials, dashboardUseCase, auditUseCase, zapLogger)

	viewRegistry := views.NewRegistry()
	consoleUseCase.Register(viewRegistry)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Views:   apiHandler.NewViewsHandler(viewRegistry, ctxAdapter, zapLogger),
		Actions: apiHandler.NewActionsHandler(consoleUseCase, ctxAdapter, zapLogger),
		Feed:    apiHandler.NewFeedHandler(consoleUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	sessionMiddleware := middleware.Session(authUseCase, ctxAdapter, zapLogger)
	r := router.New(handlers, sessionMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	manager.Go("http_server", func() error {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("incidents_url", feed.URL()),
			zap.String("audit_backend", cfg.Audit.Backend))
		return server.ListenAndServe(cfg.Address())
	})
	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	if err := manager.Wait(appCtx); err != nil {
		zapLogger.Error("server stopped unexpectedly", zap.Error(err))
	}
	cancel()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

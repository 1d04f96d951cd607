package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/swetasamaddar-clear/document-finder/handlers"
	"github.com/swetasamaddar-clear/document-finder/internal/config"
	"github.com/swetasamaddar-clear/document-finder/internal/database"
	"github.com/swetasamaddar-clear/document-finder/internal/document/handler"
	"github.com/swetasamaddar-clear/document-finder/internal/document/repository"
	"github.com/swetasamaddar-clear/document-finder/internal/document/service"
	"github.com/swetasamaddar-clear/document-finder/internal/keywords"
	"github.com/swetasamaddar-clear/document-finder/pkg/logger"
	"github.com/swetasamaddar-clear/document-finder/pkg/metrics"
	"github.com/swetasamaddar-clear/document-finder/pkg/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	startTime       = time.Now()
	registerMetrics sync.Once
)

// App is a fully wired dispatcher: collaborators, service and HTTP engine.
type App struct {
	Config    *config.Config
	Store     service.RowStore
	Extractor service.Extractor
	Service   *service.Service
	Redis     *redis.Client
	Engine    *gin.Engine

	closers []func()
}

// Close releases client connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// New connects the configured collaborators and builds the HTTP engine.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	app := &App{Config: cfg}

	if cfg.Redis.Addr() != "" {
		app.Redis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		app.closers = append(app.closers, func() { _ = app.Redis.Close() })
		if err := app.Redis.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis ping failed (%s): %v", cfg.Redis.Addr(), err)
		} else {
			logger.Infof("connected to redis at %s", cfg.Redis.Addr())
		}
	}

	store, err := app.openStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = store

	ext, err := keywords.New(cfg.OpenAI, nil)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("keyword extractor: %w", err)
	}
	app.Extractor = ext

	app.Service = service.New(app.Extractor, app.Store)
	app.Engine = NewEngine(cfg, app.Service, app.Redis, app.ready)
	return app, nil
}

func (a *App) openStore(ctx context.Context) (service.RowStore, error) {
	cfg := a.Config
	switch cfg.Store.Backend {
	case config.BackendSheets:
		repo, err := repository.NewSheetsRepo(ctx, cfg.Sheets)
		if err != nil {
			return nil, err
		}
		logger.Infof("using google sheets store (sheet %q)", cfg.Sheets.SheetName)
		return repo, nil
	case config.BackendMongo:
		client, err := connectMongo(ctx, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Disconnect(context.Background()) })
		logger.Infof("using mongo store (%s.%s)", cfg.MongoDB.Database, cfg.MongoDB.Collection)
		return repository.NewMongoRepo(client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)), nil
	case config.BackendRedis:
		if a.Redis == nil {
			return nil, fmt.Errorf("redis backend selected but REDIS_HOST is empty")
		}
		logger.Infof("using redis store (key %q)", cfg.Redis.Key)
		return repository.NewRedisRepo(a.Redis, cfg.Redis.Key), nil
	case config.BackendMemory:
		logger.Warnf("using in-memory store; records are lost on restart")
		return repository.NewMemoryRepo(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// connectMongo retries with backoff to tolerate startup races with the database container.
func connectMongo(ctx context.Context, cfg config.MongoDBConfig) (*mongo.Client, error) {
	const maxAttempts = 5
	backoff := time.Second
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, err := database.ConnectMongo(ctx, cfg.URI, cfg.Timeout)
		if err == nil {
			return client, nil
		}
		lastErr = err
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, err)
		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("could not connect to MongoDB after %d attempts: %w", maxAttempts, lastErr)
}

func (a *App) ready(ctx context.Context) (bool, map[string]bool) {
	deps := map[string]bool{
		"store":     a.Store != nil,
		"extractor": a.Extractor != nil,
	}
	if a.Redis != nil {
		deps["redis"] = a.Redis.Ping(ctx).Err() == nil
	}
	ok := true
	for _, v := range deps {
		ok = ok && v
	}
	return ok, deps
}

// ReadyFunc reports overall readiness and per-dependency state.
type ReadyFunc func(ctx context.Context) (bool, map[string]bool)

// NewEngine builds the gin engine around a dispatcher service. rdb may be nil.
func NewEngine(cfg *config.Config, svc handler.DocumentService, rdb *redis.Client, ready ReadyFunc) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	registerMetrics.Do(func() { metrics.RegisterCollectors(prometheus.DefaultRegisterer) })

	r := gin.New()
	r.Use(middleware.JSONRecovery(), middleware.RequestLogger(), middleware.CORS())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
			logger.Infof("rate limiter enabled (redis, %v rps, burst %d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
			logger.Infof("rate limiter enabled (memory, %v rps, burst %d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ok, deps := true, map[string]bool{}
		if ready != nil {
			ok, deps = ready(c.Request.Context())
		}
		status, code := "ready", http.StatusOK
		if !ok {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	handler.RegisterDispatchRoutes(r, svc)
	handlers.RegisterSwagger(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// Run serves the engine until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.Config.Server.Addr(),
		Handler:      a.Engine,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("document-finder listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

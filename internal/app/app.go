package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/impactflow/core/internal/config"
	"github.com/impactflow/core/internal/database"
	"github.com/impactflow/core/internal/gateway"
	"github.com/impactflow/core/internal/middleware"
	"github.com/impactflow/core/internal/modules/ai"
	"github.com/impactflow/core/internal/modules/notify"
	"github.com/impactflow/core/internal/modules/realtime"
	pkgcron "github.com/impactflow/core/internal/pkg/cron"
	pkgredis "github.com/impactflow/core/internal/pkg/redis"
	"github.com/impactflow/core/internal/pkg/taskqueue"
	"github.com/impactflow/core/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg      *config.AppConfig
	router   *gin.Engine
	db       *gorm.DB
	st       *store.Store
	hub      *realtime.Hub
	broker   *gateway.Broker
	notifier *notify.Center
	aiSvc    *ai.Service
	sched    *pkgcron.Scheduler
	rc       *pkgredis.Client
	logger   *zap.Logger
	cancel   context.CancelFunc
}

// New initializes the application: config → store gateway → redis → routes.
// Missing or placeholder credentials are not an error; the service comes up
// in local-only demo mode serving seeded state.
func New(logger *zap.Logger, configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := applyRuntimeSettings(cfg); err != nil {
		return nil, err
	}

	configured := cfg.StoreConfigured()
	var db *gorm.DB
	if configured {
		db, err = database.Connect(cfg, true)
		if err != nil {
			logger.Warn("remote store unreachable, falling back to demo mode", zap.Error(err))
			configured = false
		}
	} else {
		logger.Info("remote store not configured, running in demo mode")
	}

	var rc *pkgredis.Client
	if cfg.RedisURL != "" {
		rc, err = pkgredis.Connect(cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, running single-instance", zap.Error(err))
			rc = nil
		}
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(buildCORSConfig(cfg)))

	ctx, cancel := context.WithCancel(context.Background())

	broker := gateway.NewBroker(rc, logger)
	go broker.Run(ctx)

	gw := gateway.New(db, configured, broker, logger)

	hub := realtime.NewHub(rc, logger)
	go hub.Run(ctx)

	notifier := notify.NewCenter(notify.WithBroadcaster(hub))

	st := store.New(gw, notifier, logger)
	st.Initialize(ctx)

	taskSvc := taskqueue.NewService(rc)
	aiSvc := ai.NewService(cfg.AI, taskSvc, logger)

	sched := pkgcron.New()
	registerCronJobs(sched, st, logger)
	go sched.Start(ctx)

	app := &App{
		cfg:      cfg,
		router:   router,
		db:       db,
		st:       st,
		hub:      hub,
		broker:   broker,
		notifier: notifier,
		aiSvc:    aiSvc,
		sched:    sched,
		rc:       rc,
		logger:   logger,
		cancel:   cancel,
	}
	app.registerRoutes()

	return app, nil
}

func buildCORSConfig(cfg *config.AppConfig) cors.Config {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			host := extractOriginHost(origin)
			for _, pattern := range patterns {
				if matchOriginPattern(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	return corsConfig
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Store exposes the application state store.
func (a *App) Store() *store.Store { return a.st }

// Shutdown stops background goroutines and releases connections.
func (a *App) Shutdown() {
	a.cancel()
	a.st.Close()
	a.notifier.Close()
	_ = a.rc.Close()
}

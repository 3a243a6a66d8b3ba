package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/wiztheplanning/blogflow/internal/config"
	"github.com/wiztheplanning/blogflow/internal/database"
	"github.com/wiztheplanning/blogflow/internal/middleware"
	"github.com/wiztheplanning/blogflow/internal/modules/backup"
	"github.com/wiztheplanning/blogflow/internal/modules/manuscript"
	"github.com/wiztheplanning/blogflow/internal/pkg/alimtalk"
	pkgcron "github.com/wiztheplanning/blogflow/internal/pkg/cron"
	pkgredis "github.com/wiztheplanning/blogflow/internal/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	logger *zap.Logger
	cancel context.CancelFunc
	sched  *pkgcron.Scheduler

	manuscripts *manuscript.Service
	backups     *backup.Service
}

// New initializes the application: config → DB → Redis → routes → cron.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	// Redis is optional; without it the idempotence and rate-limit
	// middlewares are simply not installed.
	var rc *pkgredis.Client
	if cfg.RedisURL != "" {
		rc, err = pkgredis.Connect(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
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

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "x-idempotence"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			host := originHost(origin)
			for _, pattern := range patterns {
				if originAllowed(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	router.Use(cors.New(corsConfig))

	gw := buildGateway(cfg, logger)
	notifier := alimtalk.NewService(gw, db, cfg.SendDelay(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	sched := pkgcron.New()

	app := &App{cfg: cfg, router: router, db: db, logger: logger, cancel: cancel, sched: sched}
	app.registerRoutes(rc, notifier)
	app.registerCronJobs()
	go sched.Start(ctx)

	return app, nil
}

// buildGateway picks the notification provider from configuration. Swapping
// providers is a config change, not a code change.
func buildGateway(cfg *config.AppConfig, logger *zap.Logger) alimtalk.Gateway {
	if cfg.Alimtalk.Provider == "bizgo" && cfg.Alimtalk.APIKey != "" {
		return alimtalk.NewBizGo(cfg.Alimtalk.APIKey, cfg.Alimtalk.SenderKey)
	}
	return alimtalk.NewConsole(logger)
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown cleans up background goroutines.
func (a *App) Shutdown() { a.cancel() }

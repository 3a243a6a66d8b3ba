package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wiztheplanning/blogflow/internal/middleware"
	"github.com/wiztheplanning/blogflow/internal/modules/ai"
	"github.com/wiztheplanning/blogflow/internal/modules/backup"
	"github.com/wiztheplanning/blogflow/internal/modules/client"
	"github.com/wiztheplanning/blogflow/internal/modules/confirm"
	"github.com/wiztheplanning/blogflow/internal/modules/manuscript"
	"github.com/wiztheplanning/blogflow/internal/modules/notification"
	"github.com/wiztheplanning/blogflow/internal/modules/template"
	"github.com/wiztheplanning/blogflow/internal/pkg/alimtalk"
	pkgredis "github.com/wiztheplanning/blogflow/internal/pkg/redis"
	"github.com/wiztheplanning/blogflow/internal/pkg/response"
)

var processStart = time.Now()

func (a *App) registerRoutes(rc *pkgredis.Client, notifier *alimtalk.Service) {
	r := a.router
	db := a.db

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "not found")
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	if rc != nil {
		r.Use(middleware.RateLimit(rc.Raw()))
		r.Use(middleware.Idempotence(rc.Raw()))
	}

	api := r.Group("/api")

	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(processStart).Milliseconds(),
			"cron":   a.sched.List(),
		})
	})

	manuscriptSvc := manuscript.NewService(db, notifier, a.cfg.AppURL, a.logger)
	a.manuscripts = manuscriptSvc

	client.NewHandler(client.NewService(db)).RegisterRoutes(api)
	template.NewHandler(template.NewService(db)).RegisterRoutes(api)
	manuscript.NewHandler(manuscriptSvc).RegisterRoutes(api)
	confirm.NewHandler(manuscriptSvc).RegisterRoutes(api)
	notification.NewHandler(notifier).RegisterRoutes(api)
	ai.NewHandler(ai.NewService(db, &a.cfg.AI, a.logger)).RegisterRoutes(api)

	backupSvc := backup.NewService(db, a.cfg.Backup, a.logger)
	a.backups = backupSvc
	backup.NewHandler(backupSvc).RegisterRoutes(api)
}

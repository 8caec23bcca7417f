package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/impactflow/core/internal/middleware"
	"github.com/impactflow/core/internal/modules/aggregate"
	"github.com/impactflow/core/internal/modules/ai"
	"github.com/impactflow/core/internal/modules/campaign"
	"github.com/impactflow/core/internal/modules/contact"
	"github.com/impactflow/core/internal/modules/donation"
	"github.com/impactflow/core/internal/modules/news"
	"github.com/impactflow/core/internal/modules/notify"
	"github.com/impactflow/core/internal/modules/payment"
	"github.com/impactflow/core/internal/modules/project"
	"github.com/impactflow/core/internal/modules/realtime"
	"github.com/impactflow/core/internal/modules/settings"
	"github.com/impactflow/core/internal/pkg/response"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes() {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "impactflow-core",
		"version":  "1.0.0",
		"homepage": "https://github.com/impactflow/core",
	}

	// WebSocket gateway at the root, same path browsers expect.
	root := r.Group("")
	realtime.RegisterRoutes(root, a.hub)

	api := r.Group(apiPrefix)
	api.Use(middleware.RateLimit(a.rc.Raw()))

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(processStart).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":          "ok",
			"storeConfigured": a.st != nil && a.storeConfigured(),
			"jobs":            a.sched.List(),
		})
	})

	project.NewHandler(a.st).RegisterRoutes(api)
	campaign.NewHandler(a.st).RegisterRoutes(api)
	donation.NewHandler(a.st, a.aiSvc, a.hub).RegisterRoutes(api)
	news.NewHandler(a.st).RegisterRoutes(api)
	contact.NewHandler(a.st).RegisterRoutes(api)
	settings.NewHandler(a.st, a.hub).RegisterRoutes(api)
	payment.NewHandler(a.st, a.hub).RegisterRoutes(api)
	notify.NewHandler(a.notifier).RegisterRoutes(api)
	aggregate.NewHandler(a.st, a.hub).RegisterRoutes(api)
	ai.NewHandler(a.aiSvc).RegisterRoutes(api)
}

func (a *App) storeConfigured() bool {
	return a.db != nil
}

var processStart = time.Now()

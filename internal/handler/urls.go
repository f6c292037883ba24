package handlers

import (
	"citysafe/pkg/cache"
	"citysafe/pkg/metrics"
	"citysafe/pkg/middleware"
	"citysafe/pkg/stores"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handlers struct {
	db        *gorm.DB
	media     stores.Store
	cache     cache.Cache
	jwtSecret string
}

func NewHandlers(db *gorm.DB, media stores.Store, c cache.Cache, jwtSecret string) *Handlers {
	return &Handlers{
		db:    db,
		media: media,
		cache:     c,
		jwtSecret: jwtSecret,
	}
}

// NewEngine assembles the server with recovery, request metrics and a
// per-IP rate limit, then mounts every route group.
func NewEngine(h *Handlers, mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(metrics.Middleware())
	engine.Use(middleware.RateLimiter("300-M"))
	metrics.Register(engine)
	h.Register(engine)
	return engine
}

func (h *Handlers) Register(engine *gin.Engine) {
	// Register System Module Routes
	h.registerSystemRoutes(engine)

	// Register Business Module Routes
	h.registerAuthRoutes(engine)
	h.registerReportRoutes(engine)
	h.registerMediaRoutes(engine)
}

func (h *Handlers) registerSystemRoutes(engine *gin.Engine) {
	engine.GET("/health", h.HealthCheck)
}

// Auth Module
func (h *Handlers) registerAuthRoutes(engine *gin.Engine) {
	auth := engine.Group("/auth")
	{
		auth.POST("/register", h.handleRegister)

		auth.POST("/login", h.handleLogin)

		auth.POST("/logout", h.handleLogout)

		auth.GET("/me", h.authRequired, h.handleMe)
	}
}

// Report Module
func (h *Handlers) registerReportRoutes(engine *gin.Engine) {
	reports := engine.Group("/reports")
	{
		reports.POST("", h.handleCreateReport)

		reports.GET("", h.handleListReports)

		reports.GET("/:id", h.handleGetReport)
	}
}

func (h *Handlers) registerMediaRoutes(engine *gin.Engine) {
	engine.GET("/media/:key", h.handleGetMedia)
}

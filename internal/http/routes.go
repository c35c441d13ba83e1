package http

import (
	"cmbs_reminder/internal/config"
	"cmbs_reminder/internal/http/handlers"
	"cmbs_reminder/internal/http/middleware"
	"cmbs_reminder/internal/service"
	"cmbs_reminder/internal/store"
	"cmbs_reminder/internal/ws"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// RegisterRoutes wires the full API surface. redisClient may be nil (tests
// run on the memory store); the rate limiter then passes everything
// through.
func RegisterRoutes(
	r *gin.Engine,
	records *store.Records,
	orchestrator *service.Orchestrator,
	hub *ws.Hub,
	redisClient *redis.Client,
	cfg *config.Config,
	version string,
) {
	h := handlers.NewHandler(records, orchestrator)
	healthHandler := handlers.NewHealthHandler(records.KV(), version)

	// Health checks, no rate limiting
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// Trigger endpoint, invoked on demand or by the background scheduler
	r.POST("/check_reminders", h.CheckReminders)

	// API v1
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(redisClient, cfg.APIRateLimit, cfg.APIRateWindow))
	{
		v1.POST("/tasks", h.CreateTask)
		v1.GET("/tasks", h.ListTasks)
		v1.GET("/tasks/:id", h.GetTask)
		v1.PATCH("/tasks/:id/status", h.UpdateTaskStatus)

		v1.PUT("/properties/:id", h.PutProperty)
		v1.GET("/properties/:id", h.GetProperty)
		v1.PUT("/loans/:id", h.PutLoan)
		v1.GET("/loans/:id", h.GetLoan)
	}

	// Bootstrap endpoints, admin-token only
	admin := r.Group("/admin")
	admin.Use(middleware.AdminJWT(cfg.AdminJWTSecret))
	{
		admin.POST("/reset", h.Reset)
		admin.POST("/seed", h.Seed)
	}

	// Live outcome feed for dashboards
	if hub != nil {
		r.GET("/ws/outcomes", ws.Handle(hub))
	}
}

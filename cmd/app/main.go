package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cmbs_reminder/internal/config"
	httpServer "cmbs_reminder/internal/http"
	"cmbs_reminder/internal/logger"
	"cmbs_reminder/internal/repository"
	"cmbs_reminder/internal/scheduler"
	"cmbs_reminder/internal/seed"
	"cmbs_reminder/internal/service"
	"cmbs_reminder/internal/store"
	"cmbs_reminder/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	kv, err := store.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("store connection failed", "error", err)
	}
	defer kv.Close()

	records := store.NewRecords(kv)
	tasks := repository.NewTaskRepository(records)
	refs := repository.NewReferenceRepository(records)

	selector := service.NewSelector(tasks, service.SelectorConfig{
		ReminderInterval:     cfg.ReminderInterval,
		DueSoonThresholdDays: cfg.DueSoonThresholdDays,
	})
	contextualizer := service.NewContextualizer(refs)

	var generator service.Generator
	if cfg.GeminiAPIKey != "" {
		generator = service.NewGeminiGenerator(cfg.GeminiAPIKey, cfg.GeminiModel)
		logger.Info("using gemini text generation", "model", cfg.GeminiModel)
	} else {
		generator = service.NewTemplateGenerator()
		logger.Info("GEMINI_API_KEY not set, using template text generation")
	}

	orchestrator := service.NewOrchestrator(tasks, selector, contextualizer, generator, service.NewLogNotifier())

	hub := ws.NewHub()
	orchestrator.SetPublisher(hub)

	if cfg.SeedOnStartup {
		if err := seed.Run(context.Background(), tasks, refs); err != nil {
			logger.Fatal("seeding failed", "error", err)
		}
	}

	r := gin.Default()
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	httpServer.RegisterRoutes(r, records, orchestrator, hub, kv.Client(), cfg, version)

	var sched *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		sched = scheduler.New(orchestrator, cfg.SchedulerInterval)
		sched.Start()
		logger.Info("reminder scheduler started", "interval", cfg.SchedulerInterval.String())
	}

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

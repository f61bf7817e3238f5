package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/t0pa/plansync/core/cache"
	"github.com/t0pa/plansync/core/config"
	"github.com/t0pa/plansync/core/database"
	"github.com/t0pa/plansync/core/logger"
	"github.com/t0pa/plansync/modules/auth"
	"github.com/t0pa/plansync/modules/event"
	"github.com/t0pa/plansync/modules/notification"
	"github.com/t0pa/plansync/modules/schedule"
	"github.com/t0pa/plansync/monitoring"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
)

// Run wires every module together and serves until interrupted.
func Run(cfg *config.Config) error {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	c, err := cache.New(cfg.Redis)
	if err != nil {
		return err
	}
	defer c.Close()

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	queueClient := asynq.NewClient(redisOpt)
	defer queueClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mw, identities := auth.Init(e, db, c)
	notifier := notification.Init(e, db, mw, queueClient)
	eventRepo := event.Init(e, db, cfg, mw, identities, notifier)
	schedule.Init(e, cfg.Schedule)

	// Background worker consumes the notification queue in-process.
	worker := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 5})
	mux := asynq.NewServeMux()
	notifier.RegisterHandlers(mux)
	if err := worker.Start(mux); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	defer worker.Shutdown()

	// The open-events gauge is refreshed on a schedule rather than on
	// every write.
	scheduler := cron.New()
	refreshOpenEvents := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		count, err := eventRepo.CountOpenEvents(ctx)
		if err != nil {
			logger.Warn("Server:RefreshOpenEvents", "error", err)
			return
		}
		monitoring.SetOpenEvents(count)
	}
	if _, err := scheduler.AddFunc("@every 1m", refreshOpenEvents); err != nil {
		return fmt.Errorf("schedule gauge refresh: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()
	refreshOpenEvents()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start", err)
		}
	}()
	logger.Info("Server started", "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facturaflow/dashboard/internal/config"
	"github.com/facturaflow/dashboard/internal/domain/dashboard"
	appHTTP "github.com/facturaflow/dashboard/internal/handler/http"
	"github.com/facturaflow/dashboard/internal/pkg/cron"
	"github.com/facturaflow/dashboard/internal/pkg/database"
	"github.com/facturaflow/dashboard/internal/pkg/jwt"
	"github.com/facturaflow/dashboard/internal/pkg/logger"
	"github.com/facturaflow/dashboard/internal/pkg/sse"
	"github.com/facturaflow/dashboard/internal/pkg/statsclient"
	"github.com/facturaflow/dashboard/internal/repository/postgresql"
	dashboardService "github.com/facturaflow/dashboard/internal/service/dashboard"
	"github.com/facturaflow/dashboard/internal/service/statsapi"
)

// Version is set at build time
var Version = "dev"

const (
	welcomeDelay       = time.Second
	sessionSweepPeriod = time.Minute
	shutdownTimeout    = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, logger.Options{
		App:     "facturaflow-dashboard",
		Version: Version,
		Env:     cfg.App.Env,
		Level:   cfg.SlogLevel(),
	})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.ServiceExpiration)
	statsClient := statsclient.NewClient(cfg.Stats.Endpoint, cfg.Stats.Timeout, JWTService)

	hub := sse.NewHub()
	controller := dashboardService.NewController(statsClient, hub)
	sessions := dashboardService.NewSessionService(cfg.Dashboard.SidebarBreakpoint, cfg.Dashboard.SessionTTL)

	var statsHandler appHTTP.StatsHandler
	if cfg.Stats.APIEnabled {
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			slog.Error("Error connecting to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			slog.Error("Error preparing schema", "error", err)
			os.Exit(1)
		}

		statsRepo := postgresql.NewStatsRepository(db)
		statsHandler = appHTTP.NewStatsHandler(statsapi.NewStatsService(statsRepo))
		slog.Info("Statistics API enabled", "path", "/api/dashboard-stats")
	}

	dashboardHandler := appHTTP.NewDashboardHandler(controller, sessions, hub)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{FrontendURL: cfg.App.FrontendURL, LogLevel: cfg.SlogLevel()},
		log,
		JWTService,
		dashboardHandler,
		statsHandler,
	)

	scheduler := cron.NewScheduler(ctx)
	scheduler.AddJob(cron.Job{
		Name:     "dashboard-poll",
		Interval: cfg.Stats.PollInterval,
		Timeout:  cfg.Stats.Timeout,
		Fn: func(ctx context.Context) error {
			err := controller.LoadDashboardData(ctx)
			if errors.Is(err, dashboard.ErrStaleResponse) {
				return nil
			}
			return err
		},
	})
	scheduler.AddJob(cron.Job{
		Name:     "session-sweep",
		Interval: sessionSweepPeriod,
		Fn: func(ctx context.Context) error {
			sessions.Sweep(time.Now())
			return nil
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Event streams end when the process is signalled
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", "http://localhost"+server.Addr, "stats_endpoint", cfg.Stats.Endpoint)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	scheduler.Start()
	controller.Welcome(welcomeDelay)

	select {
	case err := <-serverErr:
		if err != nil {
			slog.Error("Server error", "error", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
	}

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

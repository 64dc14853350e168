package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Muhammadkaif97/cpn-calculator/internal/cache"
	"github.com/Muhammadkaif97/cpn-calculator/internal/catalog"
	"github.com/Muhammadkaif97/cpn-calculator/internal/config"
	"github.com/Muhammadkaif97/cpn-calculator/internal/contact"
	apperrors "github.com/Muhammadkaif97/cpn-calculator/internal/errors"
	"github.com/Muhammadkaif97/cpn-calculator/internal/monitoring"
	"github.com/Muhammadkaif97/cpn-calculator/internal/ratelimit"
	"github.com/Muhammadkaif97/cpn-calculator/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long:  `Serve the admissions page and the JSON API. Settings come from --config (TOML), then the environment (PORT, LOG_LEVEL, REDIS_ADDR, CONTACT_ENDPOINT, SMTP_*, ...).`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a TOML config file")
	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides config and PORT)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	level, err := monitoring.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := monitoring.NewLogger(level)
	slog.SetDefault(logger.Logger)
	gin.SetMode(cfg.Server.Mode)

	metrics := monitoring.NewMetrics()

	redisClient, err := ratelimit.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		// Limits still apply, in memory.
		logger.Warn("Continuing without Redis", "error", err)
	}
	defer apperrors.SafeClose(redisClient, "redis")

	limiter := ratelimit.NewRateLimiter(redisClient, cfg.RateLimiter(), metrics)
	defer limiter.Close()

	responseCache := cache.NewCache(cfg.Cache.TTL.Duration)
	defer responseCache.Close()

	var contactService *contact.Service
	delivery, deliveryKind := cfg.Delivery()
	if delivery != nil {
		contactService = contact.NewService(delivery, contact.NewGate(), logger.Logger)
	} else {
		logger.Warn("No contact delivery configured, /api/contact will answer 503")
	}

	router, err := server.NewRouter(server.Deps{
		Catalog:        catalog.Default(),
		Contact:        contactService,
		DeliveryKind:   deliveryKind,
		Limiter:        limiter,
		Redis:          redisClient,
		Cache:          responseCache,
		Metrics:        metrics,
		Logger:         logger,
		Security:       cfg.SecurityHeaders(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Version:        version,
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	sampleCtx, stopSampler := context.WithCancel(ctx)
	defer stopSampler()
	go monitoring.RunRuntimeSampler(sampleCtx, metrics, 15*time.Second)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.SystemLogger("server_start", "listening on "+srv.Addr+", contact delivery: "+deliveryKind)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.SystemLogger("server_shutdown", "signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.SystemLogger("server_exit", "graceful shutdown complete")
	return nil
}

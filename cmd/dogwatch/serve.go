package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dogwatch-dev/dogwatch/internal/auth"
	"github.com/dogwatch-dev/dogwatch/internal/config"
	"github.com/dogwatch-dev/dogwatch/internal/metrics"
	"github.com/dogwatch-dev/dogwatch/internal/monitors"
	"github.com/dogwatch-dev/dogwatch/internal/router"
	"github.com/dogwatch-dev/dogwatch/internal/services"
	"github.com/dogwatch-dev/dogwatch/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	shutdownTimeout = 10 * time.Second
	checkTimeout    = 3 * time.Second
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")

	return cmd
}

func runServe(ctx context.Context, port string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Server.Port = port
	}
	if err := cfg.ValidateServer(); err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	logger := newLogger(cfg)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	conn, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	sessionStore, redisClient, err := newSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	checks := healthChecks(cfg, conn, redisClient)

	signer, err := auth.NewTokenSigner(cfg.Session.Secret)
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	sessions := auth.NewManager(sessionStore, signer, cfg.Session.TTL, auth.CookieOptions{
		Domain: cfg.Session.CookieDomain,
		Secure: cfg.Session.CookieSecure,
	})

	notifier := &services.Notifier{
		DiscordURL: cfg.Notify.DiscordWebhookURL,
		SlackURL:   cfg.Notify.SlackWebhookURL,
	}

	r, _ := router.NewRouter(router.Deps{
		Store:          store.New(conn),
		Sessions:       sessions,
		Metrics:        metrics.New(),
		Health:         checks,
		Notifier:       notifier,
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Version:        cfg.App.Version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Server.Port, "environment", cfg.App.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return oops.Code("SERVER_FAILED").Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return oops.Code("SHUTDOWN_FAILED").Wrap(err)
	}
	return nil
}

// newSessionStore uses Redis when REDIS_URL is set and process memory
// otherwise. Memory sessions do not survive a restart. The returned client is
// nil for the memory store.
func newSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (auth.SessionStore, *redis.Client, error) {
	if cfg.Session.RedisURL == "" {
		logger.Warn("REDIS_URL not set, keeping sessions in memory")
		return auth.NewMemorySessionStore(), nil, nil
	}

	opts, err := redis.ParseURL(cfg.Session.RedisURL)
	if err != nil {
		return nil, nil, oops.Code("CONFIG_INVALID").With("operation", "parse REDIS_URL").Wrap(err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, oops.Code("REDIS_CONNECT_FAILED").With("operation", "connect to redis").Wrap(err)
	}

	return auth.NewRedisSessionStore(client), client, nil
}

// healthChecks lists the dependencies probed by /health.
func healthChecks(cfg *config.Config, conn *gorm.DB, redisClient *redis.Client) *monitors.Runner {
	checks := monitors.NewRunner(checkTimeout)
	checks.Add("database", monitors.DatabaseCheck(conn))

	if redisClient != nil {
		checks.Add("redis", monitors.RedisCheck(redisClient))
	}

	if cfg.Catalog.APIKey != "" {
		checks.Add("catalog", monitors.HTTPCheck(nil, cfg.Catalog.BaseURL+"/breeds?limit=1",
			map[string]string{"x-api-key": cfg.Catalog.APIKey}, http.StatusOK))
	}

	return checks
}

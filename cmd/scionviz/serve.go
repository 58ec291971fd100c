package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"github.com/sagoresarker/scion-visualizer/internal/config"
	"github.com/sagoresarker/scion-visualizer/internal/handlers"
	"github.com/sagoresarker/scion-visualizer/internal/logging"
	"github.com/sagoresarker/scion-visualizer/internal/ratelimit"
	"github.com/sagoresarker/scion-visualizer/internal/resolve"
	"github.com/sagoresarker/scion-visualizer/internal/runner"
	"github.com/sagoresarker/scion-visualizer/internal/server"
	"github.com/sagoresarker/scion-visualizer/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP dashboard (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(os.Stderr, logging.LevelFromString(cfg.Log.Level), cfg.Log.Format)
	slog.SetDefault(logger)

	limiter, closeLimiter := newLimiter(cfg, logger)
	defer closeLimiter()

	dashboard := handlers.NewDashboardHandler(handlers.DashboardOptions{
		Runner:      runner.NewShellRunner(cfg.ProjectRoot, cfg.Exec.Timeout, logger),
		Resolver:    resolve.NewResolver(cfg.DNS.Server, cfg.DNS.Timeout),
		Commands:    handlers.CommandsFromConfig(cfg),
		ProjectRoot: cfg.ProjectRoot,
		PingTarget:  cfg.SCION.PingTarget,
		Logger:      logger,
	})

	srv := server.New(server.Options{
		Addr:            cfg.Server.Listen,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dashboard:       dashboard,
		Limiter:         limiter,
		StaticDir:       cfg.Server.StaticDir,
		Assets:          web.Assets,
		Logger:          logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("SCION visualizer starting",
		"listen", cfg.Server.Listen,
		"project_root", cfg.ProjectRoot,
		"exec_timeout", cfg.Exec.Timeout,
	)
	return srv.ListenAndServe(ctx)
}

// newLimiter picks the Redis-backed limiter when an address is configured
// and the in-memory one otherwise. A nil limiter disables limiting.
func newLimiter(cfg *config.Config, logger *slog.Logger) (ratelimit.Limiter, func()) {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return nil, func() {}
	}
	if rl.RedisAddr == "" {
		return ratelimit.NewRateLimiter(rl.Window, rl.Requests), func() {}
	}

	logger.Info("rate limiting through redis", "addr", rl.RedisAddr)
	limiter := ratelimit.NewRedisLimiter(redis.NewClient(&redis.Options{Addr: rl.RedisAddr}), rl.Window, rl.Requests)
	return limiter, func() {
		if err := limiter.Close(); err != nil {
			logger.Warn("closing redis client", "error", err)
		}
	}
}

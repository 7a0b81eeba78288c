package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/arena/internal/client"
	"github.com/okian/arena/internal/config"
	"github.com/okian/arena/internal/console"
	"github.com/okian/arena/internal/session"
	"github.com/okian/arena/internal/transport"
	"github.com/okian/arena/pkg/logger"
)

func main() {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := session.New(cfg.SessionDir)
	if err != nil {
		loggerInstance.Error(ctx, "failed to open session store", logger.Error(err))
		os.Exit(1)
	}

	api := transport.New(cfg.BaseURL,
		transport.WithTimeout(time.Duration(cfg.TimeoutMS)*time.Millisecond),
		transport.WithTokenSource(store),
	)

	cli := console.New(client.New(api, store), store)
	if err := cli.Run(ctx, os.Args[1:]); err != nil {
		os.Stderr.WriteString("error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

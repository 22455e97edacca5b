package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Ipeter02/ccapsystemsynod/internal/console"
	"github.com/Ipeter02/ccapsystemsynod/internal/localstore"
	"github.com/Ipeter02/ccapsystemsynod/internal/service"
	"github.com/Ipeter02/ccapsystemsynod/pkg/config"
	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
	"github.com/Ipeter02/ccapsystemsynod/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	global := pflag.NewFlagSet("synodctl", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(stderr)
	remote := global.String("remote", cfg.Remote.BaseURL, "remote service base URL; empty for local mode")
	backend := global.String("store", cfg.Store.Backend, "local store backend: file, redis or memory")
	dir := global.String("store-dir", cfg.Store.Dir, "directory for the file backend")
	verbose := global.BoolP("verbose", "v", false, "log at debug level")
	if err := global.Parse(args); err != nil {
		return 2
	}

	cfg.Remote.BaseURL = strings.TrimRight(strings.TrimSpace(*remote), "/")
	cfg.Store.Backend = *backend
	cfg.Store.Dir = *dir
	cfg.Log.Format = "console"
	if *verbose {
		cfg.Log.Level = "debug"
	} else {
		cfg.Log.Level = "warn"
	}

	logr, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "failed to init logger: %v\n", err)
		return 1
	}
	defer logr.Sync() //nolint:errcheck

	store, closer, err := console.OpenBackend(ctx, cfg, logger.Named(logr, "store"))
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	defer closer.Close() //nolint:errcheck

	db := localstore.New(store, logger.Named(logr, "localstore"))
	client := service.BuildSyncClient(cfg, db, logger.Named(logr, "sync"), service.NewMetricsService())
	session := service.NewSessionController(client, db, logger.Named(logr, "session"))
	if _, err := session.Init(ctx); err != nil {
		logr.Warn("initial load incomplete", zap.Error(err))
	}

	if err := console.New(session, cfg.Grace, stdout, logr).Run(ctx, global.Args()); err != nil {
		return report(stderr, err)
	}
	return 0
}

func report(stderr io.Writer, err error) int {
	if errors.Is(err, console.ErrUsage) {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}
	appErr := appErrors.FromError(err)
	fmt.Fprintf(stderr, "%s: %v\n", appErr.Code, appErr)
	return 1
}

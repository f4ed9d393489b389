package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/oz-main-09-team3/emodiary/internal/buildinfo"
	"github.com/oz-main-09-team3/emodiary/internal/client/cli"
	"github.com/oz-main-09-team3/emodiary/internal/client/config"
	"github.com/oz-main-09-team3/emodiary/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger, err := logging.NewZap(cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = logger.Sync() }()

	app := cli.NewApp(cfg, cli.WithLogger(logger))
	app.Run(ctx)
}

package main

import (
	"os"

	"github.com/DRSN-tech/product-dashboard/internal/app"
	config "github.com/DRSN-tech/product-dashboard/internal/cfg"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
)

func main() {
	bootLog := logger.NewSlogLogger()

	cfg, err := config.Load(bootLog)
	if err != nil {
		bootLog.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	log := logger.NewSlogLoggerWithOptions(logger.Options{
		Level:     cfg.Log.Level,
		File:      cfg.Log.File,
		MaxSizeMB: cfg.Log.MaxSizeMB,
	}).With("service", "dashboard")

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}

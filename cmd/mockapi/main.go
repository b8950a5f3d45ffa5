package main

import (
	"os"

	"github.com/DRSN-tech/product-dashboard/internal/app"
	config "github.com/DRSN-tech/product-dashboard/internal/cfg"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
)

func main() {
	bootLog := logger.NewSlogLogger()

	cfg, err := config.LoadBackend(bootLog)
	if err != nil {
		bootLog.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	log := logger.NewSlogLoggerWithOptions(logger.Options{
		Level:     cfg.Log.Level,
		File:      cfg.Log.File,
		MaxSizeMB: cfg.Log.MaxSizeMB,
	}).With("service", "mockapi")

	backend, err := app.NewBackendApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize mock API")
		os.Exit(1)
	}

	if err := backend.Run(); err != nil {
		os.Exit(1)
	}
}

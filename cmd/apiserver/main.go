// Command apiserver runs the valuation REST API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrcar-cl/tasador/internal/config"
	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/logging"
	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/mrcar-cl/tasador/internal/interfaces/http"
	"github.com/mrcar-cl/tasador/internal/interfaces/http/handlers"
)

// Version is injected via ldflags.
var Version = "dev"

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info("starting tasador API server",
		logging.String("version", Version),
		logging.Int("port", cfg.Server.Port),
	)

	collector := prometheus.NewCollector("tasador")
	metrics := prometheus.NewAppMetrics(collector)

	ctx := context.Background()
	assembly, err := assemble(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Fatal("assemble services", logging.Err(err))
	}
	defer assembly.close()

	router := httpserver.NewRouter(httpserver.RouterConfig{
		VehicleHandler:   handlers.NewVehicleHandler(assembly.service),
		ValuationHandler: handlers.NewValuationHandler(assembly.service),
		HealthHandler:    handlers.NewHealthHandler(Version, assembly.checks...),
		Logger:           logger,
		Metrics:          metrics,
		Collector:        collector,
		Mode:             cfg.Server.Mode,
	})

	srv := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", logging.Err(err))
		}
	}

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("server shutdown", logging.Err(err))
	}
}

// loadConfig reads the config file, falling back to defaults and environment
// overrides when the default path does not exist.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config.Load("")
		}
	}
	return config.Load(path)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mialing7/pricing-dashboard/internal/config"
	"github.com/mialing7/pricing-dashboard/internal/exporter"
	"github.com/mialing7/pricing-dashboard/internal/infrastructure"
	"github.com/mialing7/pricing-dashboard/internal/ingest"
	"github.com/mialing7/pricing-dashboard/internal/schema"
	"github.com/mialing7/pricing-dashboard/internal/services"
	transporthttp "github.com/mialing7/pricing-dashboard/internal/transport/http"
)

func main() {
	configFile := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	// .env is optional; missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := infrastructure.InitializeLogger(cfg.Logging)

	aliases := schema.DefaultAliases().Extend(schema.AliasTable{
		schema.FieldUnitPrice: cfg.Aliases.UnitPrice,
		schema.FieldQuantity:  cfg.Aliases.Quantity,
		schema.FieldPartner:   cfg.Aliases.Partner,
		schema.FieldAmount:    cfg.Aliases.Amount,
	})
	loader := ingest.NewLoader(ingest.NewReader(logger), logger)
	service := services.NewAnalysisService(loader, schema.NewNormalizer(aliases), cfg.Analysis, logger)
	handler := transporthttp.NewAnalysisHandler(service, exporter.NewCSVWriter(logger),
		cfg.Server.MaxUploadBytes, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      transporthttp.NewRouter(cfg, handler, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", slog.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}

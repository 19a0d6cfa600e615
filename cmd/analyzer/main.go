package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mialing7/pricing-dashboard/internal/config"
	apperrors "github.com/mialing7/pricing-dashboard/internal/errors"
	"github.com/mialing7/pricing-dashboard/internal/exporter"
	"github.com/mialing7/pricing-dashboard/internal/infrastructure"
	"github.com/mialing7/pricing-dashboard/internal/ingest"
	"github.com/mialing7/pricing-dashboard/internal/schema"
	"github.com/mialing7/pricing-dashboard/internal/services"
	"github.com/mialing7/pricing-dashboard/internal/stats"
)

func main() {
	in := flag.String("in", "", "input data file (.csv, .xlsx or .xls)")
	out := flag.String("out", "", "output path for the partner report CSV (default: stdout summary only)")
	configFile := flag.String("config", "", "optional YAML config file")
	noOutliers := flag.Bool("no-outlier-filter", false, "disable IQR outlier trimming")
	minRevenue := flag.Float64("min-revenue", -1, "minimum partner revenue (overrides config when >= 0)")
	partners := flag.String("partners", "", "comma-separated partner allow-list")
	topN := flag.Int("top", 0, "ranking size (overrides config when > 0)")
	flag.Parse()

	// .env is optional; missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := infrastructure.InitializeLogger(cfg.Logging)

	if *in == "" {
		slog.Error("missing required -in flag")
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		logger.Error("failed to read input file", "file", *in, "error", err)
		os.Exit(1)
	}

	aliases := schema.DefaultAliases().Extend(schema.AliasTable{
		schema.FieldUnitPrice: cfg.Aliases.UnitPrice,
		schema.FieldQuantity:  cfg.Aliases.Quantity,
		schema.FieldPartner:   cfg.Aliases.Partner,
		schema.FieldAmount:    cfg.Aliases.Amount,
	})
	loader := ingest.NewLoader(ingest.NewReader(logger), logger)
	service := services.NewAnalysisService(loader, schema.NewNormalizer(aliases), cfg.Analysis, logger)

	opts := services.Options{TopN: *topN}
	if *noOutliers {
		disabled := false
		opts.EnableOutlierFilter = &disabled
	}
	if *minRevenue >= 0 {
		opts.MinPartnerRevenue = minRevenue
	}
	if *partners != "" {
		opts.PartnerAllowlist = strings.Split(*partners, ",")
	}

	report, err := service.AnalyzeUpload(context.Background(), *in, data, opts)
	if err != nil {
		var emptyErr *apperrors.EmptyResultError
		if errors.As(err, &emptyErr) {
			logger.Warn("no records remain after filtering; loosen the filters and retry",
				"stage", emptyErr.Stage)
			return
		}
		logger.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	printSummary(report)

	if *out != "" {
		writer := exporter.NewCSVWriter(logger)
		if err := writer.WriteFile(*out, exporter.PartnerReport(report.Partners)); err != nil {
			logger.Error("failed to write report", "path", *out, "error", err)
			os.Exit(1)
		}
		logger.Info("report written", "path", *out, "partners", len(report.Partners))
	}
}

func printSummary(report *services.Report) {
	s := report.Summary
	fmt.Printf("rows: %d  partners: %d\n", report.RowCount, len(report.Partners))
	fmt.Printf("weighted avg price: %.2f  median: %.2f  max: %.2f\n",
		s.WeightedAvgPrice, s.MedianPrice, s.MaxPrice)
	fmt.Printf("tier thresholds: P25=%.2f P75=%.2f\n", s.Quantiles.P25, s.Quantiles.P75)
	fmt.Printf("total quantity: %.2f  total revenue: %.2f\n", s.TotalQuantity, s.TotalRevenue)

	fmt.Println("\ntop partners by median price:")
	printRanking(report.TopByPrice)
	fmt.Println("\nbottom partners by median price:")
	printRanking(report.BottomByPrice)
}

func printRanking(aggs []stats.PartnerAggregate) {
	for i, agg := range aggs {
		fmt.Printf("  %2d. %-30s %10.2f  %-10s (orders: %d)\n",
			i+1, agg.Partner, agg.MedianPrice, agg.Tier, agg.OrderCount)
	}
}

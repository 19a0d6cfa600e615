package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mialing7/pricing-dashboard/internal/stats"
)

// CSVWriter provides CSV export functionality for the partner report.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance.
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior.
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // UTF-8 BOM so Excel recognizes the encoding
}

// Write streams a CSV document to dst.
func (w *CSVWriter) Write(dst io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := dst.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(dst)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes a CSV document to the given path, creating parent
// directories as needed.
func (w *CSVWriter) WriteFile(path string, options WriteOptions) error {
	w.logger.Info("writing csv file",
		slog.String("path", path),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return w.Write(file, options)
}

// PartnerReportHeaders is the column order of the exported statistics table.
var PartnerReportHeaders = []string{
	"partner", "median_price", "total_quantity", "total_revenue", "order_count", "tier",
}

// PartnerReport builds the export options for the partner statistics table.
// Row order is the aggregator's order; no sort is forced here.
func PartnerReport(aggs []stats.PartnerAggregate) WriteOptions {
	records := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		records = append(records, []string{
			agg.Partner,
			formatFloat(agg.MedianPrice),
			formatFloat(agg.TotalQuantity),
			formatFloat(agg.TotalRevenue),
			strconv.Itoa(agg.OrderCount),
			string(agg.Tier),
		})
	}
	return WriteOptions{
		Headers:   PartnerReportHeaders,
		Records:   records,
		BOMPrefix: true,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package pipeline

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/mialing7/pricing-dashboard/internal/schema"
)

// Clean coerces the mapped numeric columns of the raw rows and builds the
// initial working set. A cell that fails numeric parsing makes its row
// missing data, which drops the row; it is never an error. Rows with a
// non-positive unit price or quantity are dropped. LineRevenue is computed
// here, once.
func Clean(rows [][]string, mapping schema.Mapping, logger *slog.Logger) WorkingSet {
	if logger == nil {
		logger = slog.Default()
	}

	priceCol, _ := mapping.Column(schema.FieldUnitPrice)
	qtyCol, _ := mapping.Column(schema.FieldQuantity)
	partnerCol, _ := mapping.Column(schema.FieldPartner)
	amountCol, hasAmount := mapping.Column(schema.FieldAmount)

	records := make([]CleanRecord, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		price, ok := parseNumber(cell(row, priceCol))
		if !ok {
			dropped++
			continue
		}
		qty, ok := parseNumber(cell(row, qtyCol))
		if !ok {
			dropped++
			continue
		}
		if price <= 0 || qty <= 0 {
			dropped++
			continue
		}

		rec := CleanRecord{
			Partner:     strings.TrimSpace(cell(row, partnerCol)),
			UnitPrice:   price,
			Quantity:    qty,
			LineRevenue: price * qty,
		}
		if hasAmount {
			if amount, ok := parseNumber(cell(row, amountCol)); ok {
				rec.Amount = amount
			}
		}
		records = append(records, rec)
	}

	logger.Debug("cleaned raw rows",
		slog.Int("input_rows", len(rows)),
		slog.Int("kept", len(records)),
		slog.Int("dropped", dropped))

	return WorkingSet{records: records, hasAmount: hasAmount}
}

// cell returns the raw value at idx, or "" when the row is short. Spreadsheet
// exports routinely omit trailing empty cells.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseNumber coerces a raw cell to float64, tolerating surrounding
// whitespace and thousands separators.
func parseNumber(raw string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

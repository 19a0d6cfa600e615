package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordsWithPrices(prices ...float64) []CleanRecord {
	recs := make([]CleanRecord, len(prices))
	for i, p := range prices {
		recs[i] = CleanRecord{Partner: "P", UnitPrice: p, Quantity: 1, LineRevenue: p}
	}
	return recs
}

func TestFilterOutliers(t *testing.T) {
	t.Run("extreme price removed", func(t *testing.T) {
		ws := NewWorkingSet(recordsWithPrices(100, 101, 102, 103, 104, 105, 106, 107, 10000))
		filtered := FilterOutliers(ws)

		assert.Equal(t, 8, filtered.Len())
		for _, rec := range filtered.Records() {
			assert.Less(t, rec.UnitPrice, 10000.0)
		}
	})

	t.Run("containment within pre-filter fence", func(t *testing.T) {
		ws := NewWorkingSet(recordsWithPrices(5, 80, 90, 100, 110, 120, 130, 500, 900))
		bounds := ComputeOutlierBounds(ws)
		filtered := FilterOutliers(ws)

		assert.LessOrEqual(t, filtered.Len(), ws.Len())
		for _, rec := range filtered.Records() {
			assert.GreaterOrEqual(t, rec.UnitPrice, bounds.Lower)
			assert.LessOrEqual(t, rec.UnitPrice, bounds.Upper)
		}
	})

	t.Run("uniform prices pass through", func(t *testing.T) {
		ws := NewWorkingSet(recordsWithPrices(50, 50, 50, 50))
		assert.Equal(t, 4, FilterOutliers(ws).Len())
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		// Q1=2, Q3=4, IQR=2: fence is [-1, 7]; 7 stays.
		ws := NewWorkingSet(recordsWithPrices(1, 2, 3, 4, 7))
		bounds := ComputeOutlierBounds(ws)
		require.InDelta(t, 7.0, bounds.Upper, 1e-9)
		assert.Equal(t, 5, FilterOutliers(ws).Len())
	})

	t.Run("empty set passes through", func(t *testing.T) {
		assert.Equal(t, 0, FilterOutliers(WorkingSet{}).Len())
	})
}

func TestFilterMinRevenue(t *testing.T) {
	records := []CleanRecord{
		{Partner: "X", UnitPrice: 100, Quantity: 10, LineRevenue: 1000},
		{Partner: "X", UnitPrice: 120, Quantity: 5, LineRevenue: 600},
		{Partner: "Y", UnitPrice: 50, Quantity: 100, LineRevenue: 5000},
		{Partner: "Z", UnitPrice: 10, Quantity: 1, LineRevenue: 10},
	}

	tests := []struct {
		name         string
		min          float64
		wantPartners []string
	}{
		{"zero threshold keeps non-negative partners", 0, []string{"X", "X", "Y", "Z"}},
		{"threshold drops small partners", 1000, []string{"X", "X", "Y"}},
		{"partner exactly at threshold is retained", 5000, []string{"Y"}},
		{"threshold above all partners empties the set", 6000, nil},
		{"negative threshold disables the stage", -1, []string{"X", "X", "Y", "Z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := NewWorkingSet(records)
			filtered := FilterMinRevenue(ws, tt.min)

			var partners []string
			for _, rec := range filtered.Records() {
				partners = append(partners, rec.Partner)
			}
			assert.Equal(t, tt.wantPartners, partners)
			assert.LessOrEqual(t, filtered.Len(), ws.Len())
		})
	}

	t.Run("zero threshold drops a negative-total partner", func(t *testing.T) {
		ws := NewWorkingSet([]CleanRecord{
			{Partner: "X", UnitPrice: 100, Quantity: 10, LineRevenue: 1000},
			{Partner: "N", UnitPrice: 100, Quantity: -5, LineRevenue: -500},
		})
		filtered := FilterMinRevenue(ws, 0)

		require.Equal(t, 1, filtered.Len())
		assert.Equal(t, "X", filtered.Records()[0].Partner)
	})
}

func TestFilterPartners(t *testing.T) {
	records := []CleanRecord{
		{Partner: "X", UnitPrice: 1, Quantity: 1, LineRevenue: 1},
		{Partner: "Y", UnitPrice: 1, Quantity: 1, LineRevenue: 1},
		{Partner: "Z", UnitPrice: 1, Quantity: 1, LineRevenue: 1},
	}

	t.Run("empty allow-list means no restriction", func(t *testing.T) {
		ws := NewWorkingSet(records)
		assert.Equal(t, 3, FilterPartners(ws, nil).Len())
		assert.Equal(t, 3, FilterPartners(ws, []string{}).Len())
	})

	t.Run("allow-list restricts", func(t *testing.T) {
		filtered := FilterPartners(NewWorkingSet(records), []string{"X", "Z"})
		require.Equal(t, 2, filtered.Len())
		assert.Equal(t, "X", filtered.Records()[0].Partner)
		assert.Equal(t, "Z", filtered.Records()[1].Partner)
	})

	t.Run("allow-list matching nothing empties the set", func(t *testing.T) {
		assert.Equal(t, 0, FilterPartners(NewWorkingSet(records), []string{"W"}).Len())
	})
}

func TestFiltersDoNotMutateInput(t *testing.T) {
	records := recordsWithPrices(1, 2, 3, 1000)
	ws := NewWorkingSet(records)

	FilterOutliers(ws)
	FilterMinRevenue(ws, 100)
	FilterPartners(ws, []string{"nobody"})

	assert.Equal(t, 4, ws.Len())
	assert.Equal(t, records, ws.Records())
}

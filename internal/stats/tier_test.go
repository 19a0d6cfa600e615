package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mialing7/pricing-dashboard/internal/pipeline"
)

func TestClassify(t *testing.T) {
	ws := scenarioSet()
	aggs := Aggregate(ws)
	quantiles := Classify(aggs, ws)

	// Prices [100,120,50]: P25=75, P75=110.
	assert.InDelta(t, 75.0, quantiles.P25, 1e-9)
	assert.InDelta(t, 110.0, quantiles.P75, 1e-9)

	require.Len(t, aggs, 2)
	// X median 110 sits exactly at P75: High wins.
	assert.Equal(t, TierHigh, aggs[0].Tier)
	// Y median 50 is below P25.
	assert.Equal(t, TierLow, aggs[1].Tier)
}

func TestClassifyBoundaries(t *testing.T) {
	// Prices 10..17 inclusive: P25=11.75, P75=15.25.
	var records []pipeline.CleanRecord
	for p := 10.0; p <= 17; p++ {
		records = append(records, pipeline.CleanRecord{
			Partner: "P", UnitPrice: p, Quantity: 1, LineRevenue: p,
		})
	}
	ws := pipeline.NewWorkingSet(records)

	tests := []struct {
		name   string
		median float64
		want   Tier
	}{
		{"well below p25", 10, TierLow},
		{"exactly p25", 11.75, TierLow},
		{"between quantiles", 13, TierMainstream},
		{"exactly p75", 15.25, TierHigh},
		{"above p75", 17, TierHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aggs := []PartnerAggregate{{Partner: "P", MedianPrice: tt.median}}
			Classify(aggs, ws)
			assert.Equal(t, tt.want, aggs[0].Tier)
		})
	}
}

// With every price identical P25 == P75 == median, and the High branch is
// checked first. The original system never exercised this case; the ordering
// is treated as deliberate policy and pinned here.
func TestClassifyDegenerateDistribution(t *testing.T) {
	ws := pipeline.NewWorkingSet([]pipeline.CleanRecord{
		{Partner: "A", UnitPrice: 100, Quantity: 1, LineRevenue: 100},
		{Partner: "B", UnitPrice: 100, Quantity: 1, LineRevenue: 100},
	})
	aggs := Aggregate(ws)
	Classify(aggs, ws)

	for _, agg := range aggs {
		assert.Equal(t, TierHigh, agg.Tier)
	}
}

func TestClassifyPartitionsAggregates(t *testing.T) {
	ws := pipeline.NewWorkingSet([]pipeline.CleanRecord{
		{Partner: "A", UnitPrice: 10, Quantity: 1, LineRevenue: 10},
		{Partner: "B", UnitPrice: 20, Quantity: 1, LineRevenue: 20},
		{Partner: "C", UnitPrice: 30, Quantity: 1, LineRevenue: 30},
		{Partner: "D", UnitPrice: 40, Quantity: 1, LineRevenue: 40},
		{Partner: "E", UnitPrice: 50, Quantity: 1, LineRevenue: 50},
	})
	aggs := Aggregate(ws)
	Classify(aggs, ws)

	valid := map[Tier]bool{TierLow: true, TierMainstream: true, TierHigh: true}
	counts := make(map[Tier]int)
	for _, agg := range aggs {
		require.True(t, valid[agg.Tier], "aggregate %s has tier %q", agg.Partner, agg.Tier)
		counts[agg.Tier]++
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, len(aggs), total)
}

package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mialing7/pricing-dashboard/internal/pipeline"
)

func scenarioSet() pipeline.WorkingSet {
	return pipeline.NewWorkingSet([]pipeline.CleanRecord{
		{Partner: "X", UnitPrice: 100, Quantity: 10, LineRevenue: 1000},
		{Partner: "X", UnitPrice: 120, Quantity: 5, LineRevenue: 600},
		{Partner: "Y", UnitPrice: 50, Quantity: 100, LineRevenue: 5000},
	})
}

func TestAggregate(t *testing.T) {
	aggs := Aggregate(scenarioSet())
	require.Len(t, aggs, 2)

	x := aggs[0]
	assert.Equal(t, "X", x.Partner)
	assert.InDelta(t, 110.0, x.MedianPrice, 1e-9)
	assert.InDelta(t, 15.0, x.TotalQuantity, 1e-9)
	assert.InDelta(t, 1600.0, x.TotalRevenue, 1e-9)
	assert.Equal(t, 2, x.OrderCount)

	y := aggs[1]
	assert.Equal(t, "Y", y.Partner)
	assert.InDelta(t, 50.0, y.MedianPrice, 1e-9)
	assert.InDelta(t, 100.0, y.TotalQuantity, 1e-9)
	assert.InDelta(t, 5000.0, y.TotalRevenue, 1e-9)
	assert.Equal(t, 1, y.OrderCount)
}

func TestAggregateFirstSeenOrder(t *testing.T) {
	ws := pipeline.NewWorkingSet([]pipeline.CleanRecord{
		{Partner: "C", UnitPrice: 1, Quantity: 1, LineRevenue: 1},
		{Partner: "A", UnitPrice: 2, Quantity: 1, LineRevenue: 2},
		{Partner: "C", UnitPrice: 3, Quantity: 1, LineRevenue: 3},
		{Partner: "B", UnitPrice: 4, Quantity: 1, LineRevenue: 4},
	})

	aggs := Aggregate(ws)
	require.Len(t, aggs, 3)
	assert.Equal(t, "C", aggs[0].Partner)
	assert.Equal(t, "A", aggs[1].Partner)
	assert.Equal(t, "B", aggs[2].Partner)
	assert.Equal(t, 2, aggs[0].OrderCount)
}

func TestAggregateEmptySet(t *testing.T) {
	assert.Empty(t, Aggregate(pipeline.WorkingSet{}))
}

func TestAggregatePartnersMatchWorkingSet(t *testing.T) {
	ws := scenarioSet()
	aggs := Aggregate(ws)

	seen := make(map[string]bool)
	for _, rec := range ws.Records() {
		seen[rec.Partner] = true
	}
	require.Len(t, aggs, len(seen))
	for _, agg := range aggs {
		assert.True(t, seen[agg.Partner])
	}
}

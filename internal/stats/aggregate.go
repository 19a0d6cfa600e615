package stats

import (
	"github.com/mialing7/pricing-dashboard/internal/pipeline"
)

// Tier labels a partner's pricing position relative to the market quantiles.
// Presentation glyphs and colors belong to the rendering layer; core logic
// only ever compares these values.
type Tier string

const (
	TierLow        Tier = "low"
	TierMainstream Tier = "mainstream"
	TierHigh       Tier = "high"
)

// PartnerAggregate holds the derived statistics for one trading partner.
// Recomputed wholesale from the working set whenever it changes.
type PartnerAggregate struct {
	Partner       string  `json:"partner"`
	MedianPrice   float64 `json:"median_price"`
	TotalQuantity float64 `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
	OrderCount    int     `json:"order_count"`
	Tier          Tier    `json:"tier"`
}

// Aggregate groups the working set by partner, preserving first-seen partner
// order, and computes each group's median price, quantity and revenue sums,
// and order count. Callers must reject an empty set before calling; an empty
// input yields an empty slice.
func Aggregate(ws pipeline.WorkingSet) []PartnerAggregate {
	index := make(map[string]int)
	order := make([]string, 0)
	prices := make(map[string][]float64)
	aggs := make([]PartnerAggregate, 0)

	for _, rec := range ws.Records() {
		i, seen := index[rec.Partner]
		if !seen {
			i = len(aggs)
			index[rec.Partner] = i
			order = append(order, rec.Partner)
			aggs = append(aggs, PartnerAggregate{Partner: rec.Partner})
		}
		aggs[i].TotalQuantity += rec.Quantity
		aggs[i].TotalRevenue += rec.LineRevenue
		aggs[i].OrderCount++
		prices[rec.Partner] = append(prices[rec.Partner], rec.UnitPrice)
	}

	for i, partner := range order {
		aggs[i].MedianPrice = pipeline.Median(prices[partner])
	}
	return aggs
}

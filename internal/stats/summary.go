package stats

import (
	"sort"

	"github.com/mialing7/pricing-dashboard/internal/pipeline"
)

// Summary carries the scalar panels the dashboard shell displays: price,
// volume and revenue metrics over the final working set plus the tier share
// breakdown.
type Summary struct {
	WeightedAvgPrice float64        `json:"weighted_avg_price"`
	MedianPrice      float64        `json:"median_price"`
	MaxPrice         float64        `json:"max_price"`
	Quantiles        PriceQuantiles `json:"quantiles"`

	TotalQuantity       float64 `json:"total_quantity"`
	MeanOrderQuantity   float64 `json:"mean_order_quantity"`
	MaxOrderQuantity    float64 `json:"max_order_quantity"`
	MeanPartnerQuantity float64 `json:"mean_partner_quantity"`
	MaxPartnerQuantity  float64 `json:"max_partner_quantity"`

	TotalRevenue       float64 `json:"total_revenue"`
	MeanOrderRevenue   float64 `json:"mean_order_revenue"`
	MaxOrderRevenue    float64 `json:"max_order_revenue"`
	MeanPartnerRevenue float64 `json:"mean_partner_revenue"`
	MaxPartnerRevenue  float64 `json:"max_partner_revenue"`

	TierQuantityShare map[Tier]float64 `json:"tier_quantity_share"`
}

// Summarize computes the scalar summary over the final working set and its
// aggregates. The weighted average price divides total revenue by total
// quantity; when the source table carried a pre-computed monetary amount
// column, that amount is preferred as the revenue numerator. A zero quantity
// sum yields 0, never a division fault.
func Summarize(ws pipeline.WorkingSet, aggs []PartnerAggregate, quantiles PriceQuantiles) Summary {
	s := Summary{
		Quantiles:         quantiles,
		TierQuantityShare: make(map[Tier]float64),
	}

	var revenueNumerator float64
	for _, rec := range ws.Records() {
		s.TotalQuantity += rec.Quantity
		s.TotalRevenue += rec.LineRevenue
		if rec.Quantity > s.MaxOrderQuantity {
			s.MaxOrderQuantity = rec.Quantity
		}
		if rec.LineRevenue > s.MaxOrderRevenue {
			s.MaxOrderRevenue = rec.LineRevenue
		}
		if rec.UnitPrice > s.MaxPrice {
			s.MaxPrice = rec.UnitPrice
		}
		if ws.HasAmount() {
			revenueNumerator += rec.Amount
		} else {
			revenueNumerator += rec.LineRevenue
		}
	}

	if s.TotalQuantity > 0 {
		s.WeightedAvgPrice = revenueNumerator / s.TotalQuantity
	}
	if n := ws.Len(); n > 0 {
		s.MedianPrice = pipeline.Median(ws.Prices())
		s.MeanOrderQuantity = s.TotalQuantity / float64(n)
		s.MeanOrderRevenue = s.TotalRevenue / float64(n)
	}

	for _, agg := range aggs {
		if agg.TotalQuantity > s.MaxPartnerQuantity {
			s.MaxPartnerQuantity = agg.TotalQuantity
		}
		if agg.TotalRevenue > s.MaxPartnerRevenue {
			s.MaxPartnerRevenue = agg.TotalRevenue
		}
		s.MeanPartnerQuantity += agg.TotalQuantity
		s.MeanPartnerRevenue += agg.TotalRevenue
		s.TierQuantityShare[agg.Tier] += agg.TotalQuantity
	}
	if len(aggs) > 0 {
		s.MeanPartnerQuantity /= float64(len(aggs))
		s.MeanPartnerRevenue /= float64(len(aggs))
	}
	return s
}

// TopByPrice returns the first n aggregates sorted descending by median
// price. Ties keep the partners' first-seen order from the aggregation pass.
func TopByPrice(aggs []PartnerAggregate, n int) []PartnerAggregate {
	return rankByPrice(aggs, n, func(a, b PartnerAggregate) bool {
		return a.MedianPrice > b.MedianPrice
	})
}

// BottomByPrice returns the first n aggregates sorted ascending by median
// price, with the same stable tie-break as TopByPrice.
func BottomByPrice(aggs []PartnerAggregate, n int) []PartnerAggregate {
	return rankByPrice(aggs, n, func(a, b PartnerAggregate) bool {
		return a.MedianPrice < b.MedianPrice
	})
}

func rankByPrice(aggs []PartnerAggregate, n int, less func(a, b PartnerAggregate) bool) []PartnerAggregate {
	ranked := append([]PartnerAggregate(nil), aggs...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// PriceDistribution is one partner's row-level unit prices, handed to the
// external box-plot collaborator.
type PriceDistribution struct {
	Partner     string    `json:"partner"`
	MedianPrice float64   `json:"median_price"`
	Prices      []float64 `json:"prices"`
}

// PriceDistributions restricts the working set to the top k partners by
// total quantity and returns their row-level prices ordered by descending
// median price. The ordering is part of the contract with the rendering
// collaborator, which applies it verbatim.
func PriceDistributions(ws pipeline.WorkingSet, aggs []PartnerAggregate, k int) []PriceDistribution {
	byQuantity := append([]PartnerAggregate(nil), aggs...)
	sort.SliceStable(byQuantity, func(i, j int) bool {
		return byQuantity[i].TotalQuantity > byQuantity[j].TotalQuantity
	})
	if k > 0 && k < len(byQuantity) {
		byQuantity = byQuantity[:k]
	}

	selected := make(map[string]bool, len(byQuantity))
	for _, agg := range byQuantity {
		selected[agg.Partner] = true
	}

	prices := make(map[string][]float64)
	for _, rec := range ws.Records() {
		if selected[rec.Partner] {
			prices[rec.Partner] = append(prices[rec.Partner], rec.UnitPrice)
		}
	}

	dists := make([]PriceDistribution, 0, len(byQuantity))
	for _, agg := range byQuantity {
		dists = append(dists, PriceDistribution{
			Partner:     agg.Partner,
			MedianPrice: agg.MedianPrice,
			Prices:      prices[agg.Partner],
		})
	}
	sort.SliceStable(dists, func(i, j int) bool {
		return dists[i].MedianPrice > dists[j].MedianPrice
	})
	return dists
}

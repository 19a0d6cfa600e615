package stats

import (
	"github.com/mialing7/pricing-dashboard/internal/pipeline"
)

// PriceQuantiles are the global tier boundaries for one classification run,
// always recomputed from the current working set's row-level prices.
type PriceQuantiles struct {
	P25 float64 `json:"p25"`
	P75 float64 `json:"p75"`
}

// Classify assigns a tier to every aggregate by comparing its median price to
// the working set's global P25/P75. The High check runs before the Low check
// on purpose: with a degenerate distribution where P25 == P75 == median, the
// partner classifies High. The returned quantiles are exposed for the summary
// panels.
func Classify(aggs []PartnerAggregate, ws pipeline.WorkingSet) PriceQuantiles {
	prices := ws.Prices()
	q := PriceQuantiles{
		P25: pipeline.Quantile(prices, 0.25),
		P75: pipeline.Quantile(prices, 0.75),
	}
	for i := range aggs {
		switch {
		case aggs[i].MedianPrice >= q.P75:
			aggs[i].Tier = TierHigh
		case aggs[i].MedianPrice <= q.P25:
			aggs[i].Tier = TierLow
		default:
			aggs[i].Tier = TierMainstream
		}
	}
	return q
}

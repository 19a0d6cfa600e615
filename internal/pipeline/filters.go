package pipeline

// OutlierBounds is the IQR fence on unit price for one working set.
type OutlierBounds struct {
	Q1, Q3       float64
	Lower, Upper float64
}

// ComputeOutlierBounds derives the fence from the set handed in. Bounds are
// computed once per filter application; the filter never re-trims against
// bounds from the already-trimmed set.
func ComputeOutlierBounds(ws WorkingSet) OutlierBounds {
	prices := ws.Prices()
	q1 := Quantile(prices, 0.25)
	q3 := Quantile(prices, 0.75)
	iqr := q3 - q1
	return OutlierBounds{
		Q1:    q1,
		Q3:    q3,
		Lower: q1 - 1.5*iqr,
		Upper: q3 + 1.5*iqr,
	}
}

// FilterOutliers keeps the rows whose unit price lies inside the IQR fence,
// inclusive at both ends.
func FilterOutliers(ws WorkingSet) WorkingSet {
	if ws.Len() == 0 {
		return ws
	}
	bounds := ComputeOutlierBounds(ws)
	return ws.keep(func(rec CleanRecord) bool {
		return rec.UnitPrice >= bounds.Lower && rec.UnitPrice <= bounds.Upper
	})
}

// FilterMinRevenue keeps the rows of partners whose summed line revenue meets
// the minimum. A partner sitting exactly at the threshold is retained. A zero
// minimum still applies the comparison; only a negative minimum disables the
// stage.
func FilterMinRevenue(ws WorkingSet, min float64) WorkingSet {
	if min < 0 {
		return ws
	}
	totals := ws.RevenueByPartner()
	return ws.keep(func(rec CleanRecord) bool {
		return totals[rec.Partner] >= min
	})
}

// FilterPartners restricts the set to the allow-listed partners. An empty
// allow-list means no restriction, which is distinct from an allow-list that
// matches nothing.
func FilterPartners(ws WorkingSet, allow []string) WorkingSet {
	if len(allow) == 0 {
		return ws
	}
	allowed := make(map[string]struct{}, len(allow))
	for _, partner := range allow {
		allowed[partner] = struct{}{}
	}
	return ws.keep(func(rec CleanRecord) bool {
		_, ok := allowed[rec.Partner]
		return ok
	})
}

package pipeline

// CleanRecord is one normalized trade transaction. LineRevenue is derived
// once at creation as UnitPrice*Quantity and never edited afterwards; records
// leave a working set only through set-level filtering.
type CleanRecord struct {
	Partner     string
	UnitPrice   float64
	Quantity    float64
	LineRevenue float64
	Amount      float64 // optional pre-computed monetary amount, 0 when absent
}

// WorkingSet is the ordered collection of records alive after the filters
// applied so far. The zero value is an empty set.
type WorkingSet struct {
	records   []CleanRecord
	hasAmount bool
}

// NewWorkingSet builds a set from already-cleaned records. Used by tests and
// by the cleaner; filters derive new sets via keep.
func NewWorkingSet(records []CleanRecord) WorkingSet {
	return WorkingSet{records: records}
}

// NewWorkingSetWithAmount builds a set whose records carry the optional
// pre-computed monetary amount column.
func NewWorkingSetWithAmount(records []CleanRecord) WorkingSet {
	return WorkingSet{records: records, hasAmount: true}
}

// Len returns the number of live records.
func (ws WorkingSet) Len() int {
	return len(ws.records)
}

// Records returns the live records in order. Callers must not modify the
// returned slice.
func (ws WorkingSet) Records() []CleanRecord {
	return ws.records
}

// Prices returns every live record's unit price, in set order.
func (ws WorkingSet) Prices() []float64 {
	prices := make([]float64, len(ws.records))
	for i, rec := range ws.records {
		prices[i] = rec.UnitPrice
	}
	return prices
}

// HasAmount reports whether the source table carried a pre-computed monetary
// amount column for these records.
func (ws WorkingSet) HasAmount() bool {
	return ws.hasAmount
}

// RevenueByPartner sums line revenue per partner over the live records.
func (ws WorkingSet) RevenueByPartner() map[string]float64 {
	totals := make(map[string]float64)
	for _, rec := range ws.records {
		totals[rec.Partner] += rec.LineRevenue
	}
	return totals
}

// keep returns a new set holding the records the predicate accepts, in the
// original order.
func (ws WorkingSet) keep(pred func(CleanRecord) bool) WorkingSet {
	kept := make([]CleanRecord, 0, len(ws.records))
	for _, rec := range ws.records {
		if pred(rec) {
			kept = append(kept, rec)
		}
	}
	return WorkingSet{records: kept, hasAmount: ws.hasAmount}
}

// Package stats derives per-partner market statistics from a filtered
// working set: grouped aggregates, quantile-based pricing tiers, price
// rankings and the scalar summary panels consumed by the dashboard and
// export collaborators. Everything here is recomputed wholesale from the
// current working set; there are no incremental aggregates.
package stats

// Package pipeline implements the record cleaning and filtering stages of the
// pricing analysis pipeline.
//
// The central type is WorkingSet, the ordered collection of cleaned trade
// records alive after the filters applied so far. Every stage is a pure
// function from one WorkingSet to a new, smaller-or-equal WorkingSet; no
// stage mutates its input or invents records. The full chain is recomputed
// from the raw table on every parameter change, so there is no incremental
// state to invalidate.
//
// Stages, in order:
//
//	Clean            — numeric coercion, row-level exclusion, revenue derivation
//	FilterOutliers   — IQR fence on unit price (optional)
//	FilterMinRevenue — per-partner revenue threshold
//	FilterPartners   — allow-list restriction (optional)
package pipeline

// Package timeline implements the date-based layout engine.
//
// The package takes dated items and maps them onto a normalized 0-100%
// vertical axis: selection picks tagged documents, resolution assigns
// each a date, and layout computes per-item positions, alternating
// sides, and year markers with deterministic collision avoidance.
//
// Layout is a pure, single-pass computation over an in-memory batch.
// Collision resolution accumulates state from previously placed items,
// so it is intentionally sequential; callers must not parallelize it.
package timeline

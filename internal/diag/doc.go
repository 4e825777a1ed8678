// Package diag defines the diagnostic model shared by every checking phase.
//
// Diagnostic is the central record: severity, a stable numeric Code with a
// fixed string form, a human message, a primary source.Span, and optional
// notes pointing at related locations. Bag aggregates diagnostics per unit
// and supports sorting, deduplication and a hard cap for deterministic
// output.
//
// Package diag performs no formatting or IO. Rendering lives in
// internal/diagfmt; orchestration in internal/driver.
package diag

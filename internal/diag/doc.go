// Package diag carries the diagnostics of the ownership pass: codes,
// severities, the per-pass Bag, and the Reporter contract the checker
// emits through. Report order equals detection order; the Bag never
// deduplicates, since every violation cites a distinct instruction.
package diag

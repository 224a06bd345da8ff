// Package dataset holds the id-keyed record stores that templates are
// resolved against.
//
// A dataset is built in one pass at startup: the primary table is read
// (ReadTable sniffs the delimiter), keyed by its id column (Load), optionally
// joined with an extra table (MergeExtra) and finally stripped of columns
// that carry the same value on every record (PruneUninformative). The result
// is immutable and may be queried from many goroutines.
//
// Source wraps a built Dataset with its configuration (CSV mapfile or
// SraRunTable) and exposes it as a scope.Scope.
package dataset

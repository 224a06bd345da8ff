// Package scope implements name resolution over an ordered chain of
// heterogeneous scopes.
//
// Every source of named values (the wildcard binding of a job, a dataset,
// the grouping context derived from both, and the global registry)
// implements the small Scope interface. A Chain asks them in order and
// returns the first hit. A scope that does not carry a name simply
// declines; only exhausting the whole chain is observable, and it is
// reported as "not found" rather than as an error so the caller can choose
// between a placeholder and a hard failure.
package scope

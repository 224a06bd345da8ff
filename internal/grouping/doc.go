// Package grouping derives which dataset column a path groups records by.
//
// Paths name their grouping with a ".by_<column>" segment terminated by a
// "." or "/" or the end of the string, e.g. "toy.by_host/counts". When a
// fragment carries several such segments the last one wins. Without one the
// dataset's id column is used.
package grouping

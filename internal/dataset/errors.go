package dataset

import (
	"fmt"
	"strings"
)

// MalformedTableError reports a structural defect in a source table.
type MalformedTableError struct {
	Source string
	Reason string
}

func (e *MalformedTableError) Error() string {
	if e.Source == "" {
		return "malformed table: " + e.Reason
	}
	return fmt.Sprintf("malformed table %s: %s", e.Source, e.Reason)
}

// IncompleteMergeError lists primary records that received no row from the
// extra table.
type IncompleteMergeError struct {
	Missing []string
}

func (e *IncompleteMergeError) Error() string {
	return fmt.Sprintf("incomplete extra data: no extra row for %d record(s): %s",
		len(e.Missing), strings.Join(e.Missing, ", "))
}

// UnknownColumnError is returned by queries naming a column the dataset
// does not have (or no longer has, after pruning).
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Column)
}

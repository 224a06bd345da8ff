package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
)

// Record maps column name to value. Records handed out by a Dataset are
// shared and must be treated as read-only.
type Record map[string]string

// Dataset is the id-keyed record store of one configured dataset.
//
// A Dataset is built once (Load, then MergeExtra, then PruneUninformative)
// and is immutable afterwards: every build step returns a new value, and
// the query methods only read. It is therefore safe for concurrent readers.
type Dataset struct {
	idColumn string
	columns  []string
	ids      []string
	records  map[string]Record
}

// MergeStats describes the outcome of MergeExtra.
type MergeStats struct {
	Matched int
	// Dropped holds keys of extra rows that matched no primary record.
	// Such rows are ignored.
	Dropped []string
}

// Load builds a Dataset from a primary table keyed by idColumn. Record
// order follows the table; a repeated id replaces the earlier row but
// keeps its position.
func Load(t Table, idColumn string) (*Dataset, error) {
	idIdx := indexOf(t.Header, idColumn)
	if idIdx < 0 {
		return nil, &MalformedTableError{Source: t.Source, Reason: fmt.Sprintf("id column %q not in header %v", idColumn, t.Header)}
	}
	if len(t.Rows) == 0 && len(t.Header) > 0 {
		return nil, &MalformedTableError{Source: t.Source, Reason: "column with no values: table has a header but no rows"}
	}

	d := &Dataset{
		idColumn: idColumn,
		columns:  append([]string(nil), t.Header...),
		records:  make(map[string]Record, len(t.Rows)),
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return nil, &MalformedTableError{Source: t.Source, Reason: fmt.Sprintf("row %d has %d fields, header has %d", i+1, len(row), len(t.Header))}
		}
		rec := make(Record, len(row))
		for j, col := range t.Header {
			rec[col] = row[j]
		}
		id := row[idIdx]
		if _, dup := d.records[id]; !dup {
			d.ids = append(d.ids, id)
		}
		d.records[id] = rec
	}
	return d, nil
}

// MergeExtra unions the fields of each extra row into the primary record
// whose id equals the row's keyColumn value. Extra values win on shared
// column names. Every primary record must receive a row; otherwise an
// *IncompleteMergeError lists the records left out. The resulting column
// list is the primary columns followed by the extra columns, duplicates
// included, until PruneUninformative folds them.
func (d *Dataset) MergeExtra(extra Table, keyColumn string) (*Dataset, MergeStats, error) {
	var stats MergeStats
	keyIdx := indexOf(extra.Header, keyColumn)
	if keyIdx < 0 {
		return nil, stats, &MalformedTableError{Source: extra.Source, Reason: fmt.Sprintf("key column %q not in header %v", keyColumn, extra.Header)}
	}

	out := d.clone()
	out.columns = append(out.columns, extra.Header...)

	matched := make(map[string]struct{}, len(d.ids))
	dropped := make(map[string]struct{})
	for i, row := range extra.Rows {
		if len(row) != len(extra.Header) {
			return nil, stats, &MalformedTableError{Source: extra.Source, Reason: fmt.Sprintf("row %d has %d fields, header has %d", i+1, len(row), len(extra.Header))}
		}
		key := row[keyIdx]
		rec, ok := out.records[key]
		if !ok {
			dropped[key] = struct{}{}
			continue
		}
		for j, col := range extra.Header {
			rec[col] = row[j]
		}
		matched[key] = struct{}{}
	}

	var missing []string
	for _, id := range d.ids {
		if _, ok := matched[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, stats, &IncompleteMergeError{Missing: missing}
	}

	stats.Matched = len(matched)
	stats.Dropped = sortedSet(dropped)
	return out, stats, nil
}

// PruneUninformative drops every column whose value is the same on all
// records, and folds duplicate column names. A column that has no values at
// all means the dataset is empty, which is reported as malformed.
func (d *Dataset) PruneUninformative() (*Dataset, error) {
	out := d.clone()
	out.columns = out.columns[:0]

	seen := make(map[string]struct{}, len(d.columns))
	var constant []string
	for _, col := range d.columns {
		if _, dup := seen[col]; dup {
			continue
		}
		seen[col] = struct{}{}

		distinct := make(map[string]struct{})
		for _, id := range d.ids {
			distinct[d.records[id][col]] = struct{}{}
		}
		switch len(distinct) {
		case 0:
			return nil, &MalformedTableError{Reason: fmt.Sprintf("column %q has no values", col)}
		case 1:
			constant = append(constant, col)
		default:
			out.columns = append(out.columns, col)
		}
	}

	for _, rec := range out.records {
		for _, col := range constant {
			delete(rec, col)
		}
	}
	return out, nil
}

// GroupBy returns the sorted distinct values of column across all records.
func (d *Dataset) GroupBy(column string) ([]string, error) {
	set := make(map[string]struct{})
	for _, id := range d.ids {
		v, err := d.value(id, column)
		if err != nil {
			return nil, err
		}
		set[v] = struct{}{}
	}
	return sortedSet(set), nil
}

// SelectBy returns the sorted distinct values of selectColumn among the
// records whose filterColumn equals filterValue.
func (d *Dataset) SelectBy(selectColumn, filterColumn, filterValue string) ([]string, error) {
	set := make(map[string]struct{})
	for _, id := range d.ids {
		fv, err := d.value(id, filterColumn)
		if err != nil {
			return nil, err
		}
		if fv != filterValue {
			continue
		}
		sv, err := d.value(id, selectColumn)
		if err != nil {
			return nil, err
		}
		set[sv] = struct{}{}
	}
	return sortedSet(set), nil
}

// value reads column of record id. The id column always answers with the
// record id, even when pruning removed it from a single-record dataset.
func (d *Dataset) value(id, column string) (string, error) {
	if column == d.idColumn {
		return id, nil
	}
	v, ok := d.records[id][column]
	if !ok {
		return "", &UnknownColumnError{Column: column}
	}
	return v, nil
}

// IDColumn returns the name of the identifier column.
func (d *Dataset) IDColumn() string { return d.idColumn }

// Columns returns the column names in order.
func (d *Dataset) Columns() []string { return append([]string(nil), d.columns...) }

// IDs returns the record ids in load order.
func (d *Dataset) IDs() []string { return append([]string(nil), d.ids...) }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.ids) }

// Record returns the record with the given id.
func (d *Dataset) Record(id string) (Record, bool) {
	rec, ok := d.records[id]
	return rec, ok
}

// Value returns one cell.
func (d *Dataset) Value(id, column string) (string, error) {
	if _, ok := d.records[id]; !ok {
		return "", fmt.Errorf("no record %q", id)
	}
	return d.value(id, column)
}

// WriteCSV writes the surviving columns of every record as CSV.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.columns); err != nil {
		return err
	}
	row := make([]string, len(d.columns))
	for _, id := range d.ids {
		for i, col := range d.columns {
			row[i], _ = d.value(id, col)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (d *Dataset) clone() *Dataset {
	out := &Dataset{
		idColumn: d.idColumn,
		columns:  append([]string(nil), d.columns...),
		ids:      append([]string(nil), d.ids...),
		records:  make(map[string]Record, len(d.records)),
	}
	for id, rec := range d.records {
		cp := make(Record, len(rec))
		for k, v := range rec {
			cp[k] = v
		}
		out.records[id] = cp
	}
	return out
}

func indexOf(items []string, s string) int {
	for i, it := range items {
		if it == s {
			return i
		}
	}
	return -1
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

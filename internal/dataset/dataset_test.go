package dataset

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioTable is the three-run dataset used throughout these tests.
func scenarioTable() Table {
	return Table{
		Source: "toy.csv",
		Header: []string{"id", "host", "dose", "platform"},
		Rows: [][]string{
			{"r1", "A", "10", "illumina"},
			{"r2", "A", "20", "illumina"},
			{"r3", "B", "10", "illumina"},
		},
	}
}

func mustBuild(t *testing.T, tbl Table) *Dataset {
	t.Helper()
	d, err := Load(tbl, "id")
	require.NoError(t, err)
	d, err = d.PruneUninformative()
	require.NoError(t, err)
	return d
}

func TestLoad(t *testing.T) {
	d, err := Load(scenarioTable(), "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r3"}, d.IDs())
	assert.Equal(t, []string{"id", "host", "dose", "platform"}, d.Columns())
	assert.Equal(t, 3, d.Len())

	rec, ok := d.Record("r2")
	require.True(t, ok)
	if diff := cmp.Diff(Record{"id": "r2", "host": "A", "dose": "20", "platform": "illumina"}, rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_DuplicateIDKeepsPosition(t *testing.T) {
	tbl := scenarioTable()
	tbl.Rows = append(tbl.Rows, []string{"r1", "C", "30", "illumina"})

	d, err := Load(tbl, "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r3"}, d.IDs())
	v, err := d.Value("r1", "host")
	require.NoError(t, err)
	assert.Equal(t, "C", v)
}

func TestLoad_Malformed(t *testing.T) {
	testCases := []struct {
		name  string
		table Table
		idCol string
	}{
		{name: "id column absent", table: scenarioTable(), idCol: "sample"},
		{
			name:  "short row",
			table: Table{Header: []string{"id", "host"}, Rows: [][]string{{"r1", "A"}, {"r2"}}},
			idCol: "id",
		},
		{
			name:  "header without rows",
			table: Table{Header: []string{"id", "host"}},
			idCol: "id",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.table, tc.idCol)
			var mt *MalformedTableError
			require.ErrorAs(t, err, &mt)
		})
	}
}

func TestPruneUninformative(t *testing.T) {
	d := mustBuild(t, scenarioTable())

	assert.Equal(t, []string{"id", "host", "dose"}, d.Columns())
	for _, id := range d.IDs() {
		rec, _ := d.Record(id)
		assert.NotContains(t, rec, "platform")
	}

	for _, col := range d.Columns() {
		values, err := d.GroupBy(col)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(values), 2, "column %q survived pruning with a single value", col)
	}
}

func TestPruneUninformative_SingleRecord(t *testing.T) {
	d := mustBuild(t, Table{
		Header: []string{"id", "host"},
		Rows:   [][]string{{"only", "A"}},
	})

	assert.Empty(t, d.Columns())
	targets, err := d.GroupBy("id")
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, targets, "the id column stays answerable")

	_, err = d.GroupBy("host")
	var uc *UnknownColumnError
	assert.ErrorAs(t, err, &uc)
}

func TestPruneUninformative_FoldsDuplicateColumns(t *testing.T) {
	d, err := Load(scenarioTable(), "id")
	require.NoError(t, err)
	d, _, err = d.MergeExtra(Table{
		Header: []string{"run", "host"},
		Rows:   [][]string{{"r1", "A"}, {"r2", "A"}, {"r3", "B"}},
	}, "run")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "host", "dose", "platform", "run", "host"}, d.Columns())

	d, err = d.PruneUninformative()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "host", "dose", "run"}, d.Columns())
}

func TestMergeExtra(t *testing.T) {
	base, err := Load(scenarioTable(), "id")
	require.NoError(t, err)

	t.Run("extra values are merged and win", func(t *testing.T) {
		merged, stats, err := base.MergeExtra(Table{
			Header: []string{"run", "dose", "site"},
			Rows: [][]string{
				{"r1", "11", "gut"},
				{"r2", "21", "skin"},
				{"r3", "11", "gut"},
				{"r9", "99", "gut"},
			},
		}, "run")
		require.NoError(t, err)
		assert.Equal(t, 3, stats.Matched)
		assert.Equal(t, []string{"r9"}, stats.Dropped)

		v, err := merged.Value("r2", "dose")
		require.NoError(t, err)
		assert.Equal(t, "21", v)
		v, err = merged.Value("r1", "site")
		require.NoError(t, err)
		assert.Equal(t, "gut", v)

		orig, err := base.Value("r2", "dose")
		require.NoError(t, err)
		assert.Equal(t, "20", orig, "merge must not modify its receiver")
	})

	t.Run("fails iff a primary record has no extra row", func(t *testing.T) {
		_, _, err := base.MergeExtra(Table{
			Header: []string{"run", "site"},
			Rows:   [][]string{{"r1", "gut"}, {"r9", "skin"}},
		}, "run")
		var im *IncompleteMergeError
		require.ErrorAs(t, err, &im)
		assert.Equal(t, []string{"r2", "r3"}, im.Missing)
	})

	t.Run("key column absent", func(t *testing.T) {
		_, _, err := base.MergeExtra(Table{Header: []string{"x"}, Rows: [][]string{{"r1"}}}, "run")
		var mt *MalformedTableError
		assert.ErrorAs(t, err, &mt)
	})
}

func TestGroupByAndSelectBy(t *testing.T) {
	d := mustBuild(t, scenarioTable())

	hosts, err := d.GroupBy("host")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, hosts)

	runs, err := d.SelectBy("id", "host", "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, runs)

	doses, err := d.SelectBy("dose", "host", "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "20"}, doses)

	none, err := d.SelectBy("id", "host", "Z")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = d.GroupBy("platform")
	var uc *UnknownColumnError
	require.ErrorAs(t, err, &uc)
	assert.Equal(t, "platform", uc.Column)
}

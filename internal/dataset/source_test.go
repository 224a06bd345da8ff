package dataset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/ymp/internal/config"
	"github.com/vk/ymp/internal/ctxlog"
	"github.com/vk/ymp/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

func testRegistry(cfgPath string) *config.Registry {
	m := config.NewModel()
	m.Path = cfgPath
	m.Settings["pairnames"] = cty.TupleVal([]cty.Value{cty.StringVal("R1"), cty.StringVal("R2")})
	m.Settings["directories"] = cty.ObjectVal(map[string]cty.Value{"scratch": cty.StringVal("/scratch")})
	return config.NewRegistry(m)
}

func TestOpen_Mapfile(t *testing.T) {
	dir := testutil.WriteWorkspace(t, map[string]string{
		"data/map.csv": "id,host,fq1,fq2\n" +
			"r1,A,r1_1.fq.gz,r1_2.fq.gz\n" +
			"r2,A,r2_1.fq.gz,r2_2.fq.gz\n" +
			"r3,B,r3_1.fq.gz,r3_2.fq.gz\n",
		"data/extra.tsv": "run\tsite\n" +
			"r1\tgut\n" +
			"r2\tskin\n" +
			"r3\tgut\n" +
			"r9\tgut\n",
	})
	logs := &testutil.SafeBuffer{}
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(logs, nil)))

	src, err := Open(ctx, &config.DatasetDefinition{
		Name:         "toy",
		Type:         config.DatasetTypeCSV,
		File:         "data/map.csv",
		NameCol:      "id",
		FqCols:       []string{"fq1", "fq2"},
		ExtraFile:    "data/extra.tsv",
		ExtraNameCol: "run",
	}, testRegistry(filepath.Join(dir, "config.hcl")))
	require.NoError(t, err)

	assert.Equal(t, "toy", src.Name())
	assert.Equal(t, config.DatasetTypeCSV, src.Type())
	assert.Equal(t, "id", src.NameCol())
	assert.Equal(t, src.Runs(), src.Data().IDs())
	assert.Equal(t, []string{"r1", "r2", "r3"}, src.Runs())
	assert.Equal(t, []string{"id", "host", "fq1", "fq2", "run", "site"}, src.Props())
	assert.Contains(t, logs.String(), "Ignoring extra rows")

	path, err := src.FQPath("r2", 1)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "r2_2.fq.gz"), path)

	_, err = src.FQPath("r2", 2)
	assert.Error(t, err)

	names, err := src.FastqBasenames()
	require.NoError(t, err)
	assert.Equal(t, []string{"r1.R1", "r1.R2", "r2.R1", "r2.R2", "r3.R1", "r3.R2"}, names)

	v, ok, err := src.Lookup("runs")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"r1", "r2", "r3"}, v.Strings())

	v, ok, err = src.Lookup("name_col")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "id", v.Scalar())

	_, ok, err = src.Lookup("sample")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpen_SraRunTable(t *testing.T) {
	dir := testutil.WriteWorkspace(t, map[string]string{
		"sra.tsv": "Libary_Name_s\tRun_s\tBody_Site_s\n" +
			"lib1\tSRR001\tgut\n" +
			"lib2\tSRR002\tskin\n",
	})

	src, err := Open(ctxlog.Discard(context.Background()), &config.DatasetDefinition{
		Name: "sra",
		Type: config.DatasetTypeSraRunTable,
		File: filepath.Join(dir, "sra.tsv"),
	}, testRegistry(""))
	require.NoError(t, err)

	assert.Equal(t, DefaultSraNameCol, src.NameCol())
	assert.Equal(t, 2, src.Pairs())

	path, err := src.FQPath("lib2", 0)
	require.NoError(t, err)
	assert.Equal(t, "/scratch/SRR/SRR002_1.fastq.gz", path)
}

func TestOpen_Errors(t *testing.T) {
	dir := testutil.WriteWorkspace(t, map[string]string{
		"map.csv":   "id,host\nr1,A\nr2,B\n",
		"extra.csv": "run,site\nr1,gut\n",
	})
	reg := testRegistry(filepath.Join(dir, "config.yaml"))
	ctx := ctxlog.Discard(context.Background())

	testCases := []struct {
		name  string
		def   config.DatasetDefinition
		check func(t *testing.T, err error)
	}{
		{
			name: "unknown type",
			def:  config.DatasetDefinition{Name: "x", Type: "Parquet", File: "map.csv"},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "unable to parse configuration for x")
			},
		},
		{
			name: "mapfile without name_col",
			def:  config.DatasetDefinition{Name: "x", Type: config.DatasetTypeCSV, File: "map.csv", FqCols: []string{"host"}},
			check: func(t *testing.T, err error) {
				var mk *config.MissingKeyError
				require.ErrorAs(t, err, &mk)
				assert.Equal(t, "datasets/x/name_col", mk.Path)
			},
		},
		{
			name: "missing file",
			def:  config.DatasetDefinition{Name: "x", Type: config.DatasetTypeCSV, File: "nope.csv", NameCol: "id", FqCols: []string{"host"}},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, os.ErrNotExist)
			},
		},
		{
			name: "incomplete extra data",
			def: config.DatasetDefinition{
				Name: "x", Type: config.DatasetTypeCSV, File: "map.csv", NameCol: "id", FqCols: []string{"host"},
				ExtraFile: "extra.csv", ExtraNameCol: "run",
			},
			check: func(t *testing.T, err error) {
				var im *IncompleteMergeError
				require.ErrorAs(t, err, &im)
				assert.Equal(t, []string{"r2"}, im.Missing)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			def := tc.def
			_, err := Open(ctx, &def, reg)
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

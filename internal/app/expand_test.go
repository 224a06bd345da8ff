package app

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/ymp/internal/config"
	"github.com/vk/ymp/internal/scope"
	"github.com/vk/ymp/internal/strfmt"
	"github.com/vk/ymp/internal/testutil"
)

func toyApp(t *testing.T) *App {
	t.Helper()
	a, _ := SetupAppTest(t, testutil.ToyWorkspace(t))
	return a
}

func expand(t *testing.T, a *App, wc scope.Wildcards, templates ...string) scope.Value {
	t.Helper()
	exp, err := a.Expand(templates...)
	require.NoError(t, err)
	v, err := exp(wc)
	require.NoError(t, err)
	return v
}

func TestExpand_ScopeChain(t *testing.T) {
	a := toyApp(t)

	testCases := []struct {
		name     string
		wc       scope.Wildcards
		template string
		expected scope.Value
	}{
		{
			name:     "wildcards",
			wc:       scope.Wildcards{"dir": "toy", "sample": "s1"},
			template: "{dir}/{sample}.txt",
			expected: scope.String("toy/s1.txt"),
		},
		{
			name:     "dataset runs multiply",
			wc:       scope.Wildcards{"dir": "toy"},
			template: "{dir}/{runs}.fq",
			expected: scope.List("toy/r1.fq", "toy/r2.fq", "toy/r3.fq"),
		},
		{
			name:     "wildcard shadows dataset",
			wc:       scope.Wildcards{"dir": "toy", "runs": "mine"},
			template: "{runs}",
			expected: scope.String("mine"),
		},
		{
			name:     "grouping targets",
			wc:       scope.Wildcards{"dir": "toy.by_host/assembly"},
			template: "{dir}/{targets}.fasta",
			expected: scope.List("toy.by_host/assembly/A.fasta", "toy.by_host/assembly/B.fasta"),
		},
		{
			name:     "grouping sources",
			wc:       scope.Wildcards{"dir": "toy", "by": "toy.by_host", "target": "A"},
			template: "{dir}/{sources}.bam",
			expected: scope.List("toy/r1.bam", "toy/r2.bam"),
		},
		{
			name:     "registry setting",
			wc:       scope.Wildcards{"dir": "toy"},
			template: "{scratch}/{pairnames}",
			expected: scope.List("/scratch/R1", "/scratch/R2"),
		},
		{
			name:     "aggregate names",
			wc:       scope.Wildcards{},
			template: "{datasets}:{allruns}",
			expected: scope.List("toy:r1", "toy:r2", "toy:r3"),
		},
		{
			name:     "dataset scope declines for unknown dir",
			wc:       scope.Wildcards{"dir": "nope"},
			template: "{runs}-{allruns}",
			expected: scope.List("{runs}-r1", "{runs}-r2", "{runs}-r3"),
		},
		{
			name:     "no dir at all",
			wc:       scope.Wildcards{},
			template: "{reportsdir}/{colname}",
			expected: scope.String("/reports/{colname}"),
		},
		{
			name:     "fastq basenames",
			wc:       scope.Wildcards{"dir": "toy"},
			template: "{fastq_basenames}",
			expected: scope.List("r1.R1", "r1.R2", "r2.R1", "r2.R2", "r3.R1", "r3.R2"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := expand(t, a, tc.wc, tc.template)
			assert.True(t, tc.expected.Equal(v), "got %#v, want %#v", v, tc.expected)
		})
	}
}

func TestExpand_ProductScenario(t *testing.T) {
	dir := testutil.WriteWorkspace(t, map[string]string{
		"config.hcl": `
rep   = ["1", "2"]
empty = []
`,
	})
	a, _ := SetupAppTest(t, filepath.Join(dir, "config.hcl"))

	v := expand(t, a, scope.Wildcards{"sample": "X"}, "{sample}_{rep}.txt")
	assert.Equal(t, []string{"X_1.txt", "X_2.txt"}, v.Strings())
	assert.True(t, v.IsList())

	v = expand(t, a, scope.Wildcards{"sample": "X"}, "{sample}_{empty}.txt")
	assert.False(t, v.IsList())
	assert.Equal(t, "", v.Scalar())
}

func TestExpand_MultipleTemplates(t *testing.T) {
	a := toyApp(t)

	v := expand(t, a, scope.Wildcards{"dir": "toy"}, "{dir}.a", "{dir}.{pairnames}")
	assert.True(t, scope.List("toy.a", "toy.R1", "toy.R2").Equal(v), "got %#v", v)
}

func TestExpand_PartialResume(t *testing.T) {
	a := toyApp(t)

	first := expand(t, a, scope.Wildcards{"dir": "toy"}, "{dir}/{sample}_{pairnames}.fq")
	assert.Equal(t, []string{"toy/{sample}_R1.fq", "toy/{sample}_R2.fq"}, first.Strings())

	again := expand(t, a, scope.Wildcards{"dir": "toy"}, "{dir}/{sample}_{pairnames}.fq")
	assert.True(t, first.Equal(again))

	f := strfmt.MustNew(strfmt.Options{Product: true})
	for i, s := range first.Strings() {
		v, err := f.Format(s, scope.Map{"sample": scope.String("S")})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("toy/S_%s.fq", []string{"R1", "R2"}[i]), v.Scalar())
	}
}

func TestExpand_Errors(t *testing.T) {
	a := toyApp(t)

	t.Run("strict mode reports unresolved fields", func(t *testing.T) {
		exp, err := a.ExpandWith(ExpandOptions{Strict: true}, "{dir}/{scratchdri}")
		require.NoError(t, err)
		_, err = exp(scope.Wildcards{"dir": "toy"})
		var ue *strfmt.UnresolvedFieldError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, "scratchdri", ue.Field)
		assert.Contains(t, ue.Suggestions, "scratchdir")
	})

	t.Run("missing directory aborts", func(t *testing.T) {
		exp, err := a.Expand("{sra}/{runs}")
		require.NoError(t, err)
		_, err = exp(scope.Wildcards{"dir": "toy"})
		var mk *config.MissingKeyError
		require.ErrorAs(t, err, &mk)
		assert.Equal(t, "directories/sra", mk.Path)
	})

	t.Run("syntax errors surface when preparing", func(t *testing.T) {
		_, err := a.Expand("{dir")
		var se *strfmt.UnknownFieldSyntaxError
		assert.ErrorAs(t, err, &se)
	})

	t.Run("bad tag pattern", func(t *testing.T) {
		_, err := a.ExpandWith(ExpandOptions{Regex: "("}, "x")
		assert.Error(t, err)
	})
}

func TestExpand_RegexTags(t *testing.T) {
	a := toyApp(t)

	exp, err := a.ExpandWith(ExpandOptions{Regex: `\$\{(?P<name>\w+)\}`}, "${dir}/${runs}.{raw}")
	require.NoError(t, err)
	v, err := exp(scope.Wildcards{"dir": "toy"})
	require.NoError(t, err)
	assert.Equal(t, []string{"toy/r1.{raw}", "toy/r2.{raw}", "toy/r3.{raw}"}, v.Strings())
}

func TestExpandAll(t *testing.T) {
	a := toyApp(t)
	exp, err := a.Expand("{dir}/{targets}")
	require.NoError(t, err)

	bindings := []scope.Wildcards{
		{"dir": "toy"},
		{"dir": "toy.by_host"},
		{"dir": "toy.by_dose"},
	}
	for i := 0; i < 20; i++ {
		bindings = append(bindings, scope.Wildcards{"dir": "toy.by_host"})
	}

	results, err := a.ExpandAll(context.Background(), exp, bindings)
	require.NoError(t, err)
	require.Len(t, results, len(bindings))
	assert.Equal(t, []string{"toy/r1", "toy/r2", "toy/r3"}, results[0].Strings())
	assert.Equal(t, []string{"toy.by_host/A", "toy.by_host/B"}, results[1].Strings())
	assert.Equal(t, []string{"toy.by_dose/10", "toy.by_dose/20"}, results[2].Strings())
	for _, r := range results[3:] {
		assert.True(t, results[1].Equal(r))
	}

	strict, err := a.ExpandWith(ExpandOptions{Strict: true}, "{nothing}")
	require.NoError(t, err)
	_, err = a.ExpandAll(context.Background(), strict, bindings)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.ExpandAll(ctx, exp, bindings)
	assert.ErrorIs(t, err, context.Canceled)
}

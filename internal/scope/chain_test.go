package scope

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainResolve_FirstMatchWins(t *testing.T) {
	first := Map{"x": String("first")}
	second := Map{"x": String("second"), "y": List("a", "b")}

	testCases := []struct {
		name     string
		chain    Chain
		field    string
		expected Value
		found    bool
	}{
		{name: "earlier scope shadows later", chain: NewChain(first, second), field: "x", expected: String("first"), found: true},
		{name: "order reversed", chain: NewChain(second, first), field: "x", expected: String("second"), found: true},
		{name: "falls through to later scope", chain: NewChain(first, second), field: "y", expected: List("a", "b"), found: true},
		{name: "unresolved", chain: NewChain(first, second), field: "z", found: false},
		{name: "empty chain", chain: NewChain(), field: "x", found: false},
		{name: "nil scopes are skipped", chain: NewChain(nil, first, nil), field: "x", expected: String("first"), found: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, ok, err := tc.chain.Resolve(tc.field)
			require.NoError(t, err)
			assert.Equal(t, tc.found, ok)
			if tc.found {
				assert.True(t, tc.expected.Equal(v), "got %#v, want %#v", v, tc.expected)
			}
		})
	}
}

func TestChainResolve_ErrorStopsChain(t *testing.T) {
	boom := errors.New("missing directories/scratch")
	calledLater := false
	chain := NewChain(
		Func(func(string) (Value, bool, error) { return Value{}, false, boom }),
		Func(func(string) (Value, bool, error) {
			calledLater = true
			return String("x"), true, nil
		}),
	)

	_, ok, err := chain.Resolve("scratch")
	require.ErrorIs(t, err, boom)
	assert.False(t, ok)
	assert.False(t, calledLater)
}

func TestLazy_BuildFailureDeclines(t *testing.T) {
	builds := 0
	failing := Lazy(func() (Scope, error) {
		builds++
		return nil, errors.New("no dataset found")
	})
	chain := NewChain(Wildcards{"dir": "toy.by_host"}, failing, Map{"runs": List("r1")})

	v, ok, err := chain.Resolve("runs")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"r1"}, v.Strings())

	_, _, err = chain.Resolve("other")
	require.NoError(t, err)
	assert.Equal(t, 1, builds, "lazy scope must build at most once")
}

func TestChainNames(t *testing.T) {
	chain := NewChain(
		Wildcards{"dir": "a", "sample": "s"},
		Func(func(string) (Value, bool, error) { return Value{}, false, nil }),
		Map{"sample": String("x"), "pairnames": List("R1", "R2")},
	)
	assert.Equal(t, []string{"dir", "pairnames", "sample"}, chain.Names())
}

func TestValueShapes(t *testing.T) {
	s := String("x")
	assert.False(t, s.IsList())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, []string{"x"}, s.Strings())

	one := List("x")
	assert.True(t, one.IsList())
	assert.False(t, one.Equal(s), "a one-element list is not a scalar")

	l := List("a", "b")
	assert.Equal(t, "a b", l.Scalar())
	assert.Equal(t, 2, l.Len())

	empty := List()
	assert.True(t, empty.IsList())
	assert.Equal(t, 0, empty.Len())
	assert.Empty(t, empty.Strings())
}

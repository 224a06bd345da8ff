package grouping

import (
	"regexp"
	"strings"
	"sync"

	"github.com/vk/ymp/internal/dataset"
	"github.com/vk/ymp/internal/scope"
)

// Marker introduces a column name inside a path segment, as in
// "toy.by_host/".
const Marker = ".by_"

// Wildcard names read from the binding.
const (
	DirWildcard    = "dir"
	ByWildcard     = "by"
	TargetWildcard = "target"
)

// patterns caches compiled column patterns keyed by the ordered column list.
var patterns sync.Map // string -> *regexp.Regexp

// Pattern returns the compiled `\.by_(<col>|...)(?:[./]|$)` pattern for
// columns. Column names are matched literally.
func Pattern(columns []string) *regexp.Regexp {
	key := strings.Join(columns, "\x00")
	if re, ok := patterns.Load(key); ok {
		return re.(*regexp.Regexp)
	}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = regexp.QuoteMeta(c)
	}
	re := regexp.MustCompile(regexp.QuoteMeta(Marker) + "(" + strings.Join(quoted, "|") + ")(?:[./]|$)")
	actual, _ := patterns.LoadOrStore(key, re)
	return actual.(*regexp.Regexp)
}

// Column returns the column named by the last marker segment in fragment,
// or def when there is none.
func Column(columns []string, fragment, def string) string {
	if len(columns) == 0 || fragment == "" {
		return def
	}
	matches := Pattern(columns).FindAllStringSubmatch(fragment, -1)
	if len(matches) == 0 {
		return def
	}
	return matches[len(matches)-1][1]
}

// Context is the grouping derived from one dataset and one wildcard
// binding. Colname is the column that path segments group by, Byname the
// column group members are keyed against. Both default to the dataset's id
// column.
type Context struct {
	Colname string
	Byname  string

	data      *dataset.Dataset
	target    string
	hasTarget bool
}

// New derives the grouping context of data under wc: Colname from the "dir"
// wildcard, Byname from the "by" wildcard.
func New(data *dataset.Dataset, wc scope.Wildcards) *Context {
	cols := data.Columns()
	dir, _ := wc.Get(DirWildcard)
	by, _ := wc.Get(ByWildcard)
	target, hasTarget := wc.Get(TargetWildcard)
	return &Context{
		Colname:   Column(cols, dir, data.IDColumn()),
		Byname:    Column(cols, by, data.IDColumn()),
		data:      data,
		target:    target,
		hasTarget: hasTarget,
	}
}

// Targets returns the distinct values of Colname.
func (c *Context) Targets() ([]string, error) {
	return c.data.GroupBy(c.Colname)
}

// Sources returns the distinct values of Colname among records whose
// Byname equals the "target" wildcard. ok is false when the binding has no
// target.
func (c *Context) Sources() (values []string, ok bool, err error) {
	if !c.hasTarget {
		return nil, false, nil
	}
	values, err = c.data.SelectBy(c.Colname, c.Byname, c.target)
	return values, err == nil, err
}

var contextAttrs = []string{"byname", "colname", "sources", "targets"}

// Lookup implements scope.Scope.
func (c *Context) Lookup(name string) (scope.Value, bool, error) {
	switch name {
	case "colname":
		return scope.String(c.Colname), true, nil
	case "byname":
		return scope.String(c.Byname), true, nil
	case "targets":
		values, err := c.Targets()
		if err != nil {
			return scope.Value{}, false, err
		}
		return scope.List(values...), true, nil
	case "sources":
		values, ok, err := c.Sources()
		if err != nil || !ok {
			return scope.Value{}, false, err
		}
		return scope.List(values...), true, nil
	}
	return scope.Value{}, false, nil
}

// Names implements scope.Namer.
func (c *Context) Names() []string {
	return append([]string(nil), contextAttrs...)
}

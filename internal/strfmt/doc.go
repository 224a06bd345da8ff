// Package strfmt expands path-like templates into one or more strings.
//
// A Formatter is assembled from two strategies and a mode:
//
//   - Parser: the surface grammar. BraceParser understands "{name}",
//     "{name!r}", "{name:>8}" and specs with nested fields such as
//     "{name:{width}}". RegexParser takes a caller pattern with a
//     (?P<name>...) group for tag syntaxes embedded in free text.
//   - Joiner: how expanded pieces are combined. ConcatJoiner produces one
//     string. ProductJoiner turns collection-valued fields into the
//     cartesian product of all pieces.
//   - Partial mode: an unresolved field is written back verbatim so the
//     output can be expanded again once more context is known. Without
//     it, an unresolved field is an *UnresolvedFieldError.
//
// Options maps the common combinations onto these strategies:
//
//	f, _ := strfmt.New(strfmt.Options{Product: true, Partial: true})
//	v, _ := f.Format("{sample}_{rep}.txt", scope.Map{
//		"sample": scope.String("X"),
//		"rep":    scope.List("1", "2"),
//	})
//	// v.Strings() == []string{"X_1.txt", "X_2.txt"}
//
// Formatters carry no per-call state; one instance may serve many
// goroutines as long as each call passes its own resolver.
package strfmt

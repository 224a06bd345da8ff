package strfmt

import (
	"fmt"
	"regexp"
)

// NameGroup is the capture group a tag pattern must define.
const NameGroup = "name"

// RegexParser implements a tag grammar defined by a caller-supplied
// pattern. Text between matches is literal; the field name is the
// pattern's "name" group. Tags carry no conversion or format spec.
type RegexParser struct {
	re    *regexp.Regexp
	group int
}

// NewRegexParser compiles pattern and checks that it has a "name" group.
func NewRegexParser(pattern string) (*RegexParser, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid tag pattern %q: %w", pattern, err)
	}
	return RegexParserFor(re)
}

// RegexParserFor wraps an already compiled pattern.
func RegexParserFor(re *regexp.Regexp) (*RegexParser, error) {
	idx := re.SubexpIndex(NameGroup)
	if idx < 0 {
		return nil, fmt.Errorf("tag pattern %q has no (?P<%s>...) group", re.String(), NameGroup)
	}
	return &RegexParser{re: re, group: idx}, nil
}

// Parse implements Parser.
func (p *RegexParser) Parse(template string) ([]Piece, error) {
	var pieces []Piece
	start := 0
	for _, m := range p.re.FindAllStringSubmatchIndex(template, -1) {
		if m[0] > start {
			pieces = append(pieces, Piece{Literal: template[start:m[0]]})
		}
		name := ""
		if gs, ge := m[2*p.group], m[2*p.group+1]; gs >= 0 {
			name = template[gs:ge]
		}
		pieces = append(pieces, Piece{Field: &Field{Name: name, Raw: template[m[0]:m[1]]}})
		start = m[1]
	}
	if start < len(template) {
		pieces = append(pieces, Piece{Literal: template[start:]})
	}
	return pieces, nil
}

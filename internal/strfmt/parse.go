package strfmt

import "strings"

// Field is one replacement field of a template.
type Field struct {
	Name       string
	Conversion byte   // 0, 's', 'r' or 'a'
	Spec       string // raw format spec, may itself contain fields
	Raw        string // the field exactly as written, re-emitted in partial mode
}

// Piece is either literal text or a field. Literal is set for text pieces;
// Field is non-nil for replacement fields.
type Piece struct {
	Literal string
	Field   *Field
}

// Parser splits a template into pieces. It is the grammar strategy of a
// Formatter.
type Parser interface {
	Parse(template string) ([]Piece, error)
}

// BraceParser implements the brace grammar:
//
//	{name}  {name!r}  {name:>10}  {name:{width}}  {{ and }} for literal braces
type BraceParser struct{}

// Parse implements Parser.
func (BraceParser) Parse(template string) ([]Piece, error) {
	var pieces []Piece
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			pieces = append(pieces, Piece{Literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(template); {
		c := template[i]
		switch c {
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				lit.WriteByte('}')
				i += 2
				continue
			}
			return nil, &UnknownFieldSyntaxError{Template: template, Pos: i, Reason: "single '}' encountered"}
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				lit.WriteByte('{')
				i += 2
				continue
			}
			end, err := matchBrace(template, i)
			if err != nil {
				return nil, err
			}
			field, err := splitField(template, i, template[i:end+1])
			if err != nil {
				return nil, err
			}
			flush()
			pieces = append(pieces, Piece{Field: field})
			i = end + 1
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	return pieces, nil
}

// matchBrace returns the index of the '}' closing the '{' at start.
func matchBrace(template string, start int) (int, error) {
	depth := 0
	for j := start; j < len(template); j++ {
		switch template[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j, nil
			}
		}
	}
	if start == len(template)-1 {
		return 0, &UnknownFieldSyntaxError{Template: template, Pos: start, Reason: "single '{' encountered"}
	}
	return 0, &UnknownFieldSyntaxError{Template: template, Pos: start, Reason: "expected '}' before end of string"}
}

// splitField breaks "{name!c:spec}" into its parts.
func splitField(template string, pos int, raw string) (*Field, error) {
	body := raw[1 : len(raw)-1]
	f := &Field{Raw: raw}

	nameEnd := strings.IndexAny(body, "!:")
	if nameEnd < 0 {
		f.Name = body
	} else {
		f.Name = body[:nameEnd]
		rest := body[nameEnd:]
		if rest[0] == '!' {
			if len(rest) < 2 {
				return nil, &UnknownFieldSyntaxError{Template: template, Pos: pos, Reason: "end of string while looking for conversion specifier"}
			}
			f.Conversion = rest[1]
			rest = rest[2:]
			if rest != "" && rest[0] != ':' {
				return nil, &UnknownFieldSyntaxError{Template: template, Pos: pos, Reason: "expected ':' after conversion specifier"}
			}
			switch f.Conversion {
			case 's', 'r', 'a':
			default:
				return nil, &UnknownFieldSyntaxError{Template: template, Pos: pos, Reason: "unknown conversion specifier " + string(f.Conversion)}
			}
		}
		if rest != "" {
			f.Spec = rest[1:]
		}
	}

	if f.Name == "" {
		return nil, &UnknownFieldSyntaxError{Template: template, Pos: pos, Reason: "empty field name"}
	}
	if strings.ContainsAny(f.Name, "{}") {
		return nil, &UnknownFieldSyntaxError{Template: template, Pos: pos, Reason: "unexpected '{' in field name"}
	}
	return f, nil
}

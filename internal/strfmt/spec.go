package strfmt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// convert applies a !s, !r or !a conversion.
func convert(s string, conv byte) string {
	switch conv {
	case 'r':
		return repr(s, false)
	case 'a':
		return repr(s, true)
	default:
		return s
	}
}

// repr quotes s the way a Python-style repr does: single quotes unless the
// text contains a single quote and no double quote. With ascii set, every
// non-ASCII rune is escaped.
func repr(s string, ascii bool) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == rune(q) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		case ascii && r > 0x7f:
			switch {
			case r <= 0xff:
				fmt.Fprintf(&b, `\x%02x`, r)
			case r <= 0xffff:
				fmt.Fprintf(&b, `\u%04x`, r)
			default:
				fmt.Fprintf(&b, `\U%08x`, r)
			}
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

// stringSpec is the parsed form of [[fill]align][0][width][.precision][s].
type stringSpec struct {
	fill      rune
	align     byte
	width     int
	precision int // -1 when absent
}

func parseStringSpec(spec string) (stringSpec, error) {
	ss := stringSpec{fill: ' ', align: '<', precision: -1}
	if spec == "" {
		return ss, nil
	}

	rest := spec
	fillGiven := false
	first, size := utf8.DecodeRuneInString(rest)
	if len(rest) > size && isAlign(rest[size]) {
		ss.fill = first
		ss.align = rest[size]
		rest = rest[size+1:]
		fillGiven = true
	} else if isAlign(rest[0]) {
		ss.align = rest[0]
		rest = rest[1:]
	}

	if rest != "" {
		switch rest[0] {
		case '+', '-', ' ':
			return ss, fmt.Errorf("sign not allowed in string format specifier")
		case '#':
			return ss, fmt.Errorf("alternate form (#) not allowed in string format specifier")
		}
	}
	if ss.align == '=' {
		return ss, fmt.Errorf("'=' alignment not allowed in string format specifier")
	}

	if rest != "" && rest[0] == '0' {
		if !fillGiven {
			ss.fill = '0'
		}
		rest = rest[1:]
	}

	n := 0
	for n < len(rest) && rest[n] >= '0' && rest[n] <= '9' {
		n++
	}
	if n > 0 {
		w, err := parseSpecNumber(rest[:n], "width")
		if err != nil {
			return ss, err
		}
		ss.width = w
		rest = rest[n:]
	}

	if rest != "" && (rest[0] == ',' || rest[0] == '_') {
		return ss, fmt.Errorf("cannot specify '%c' with 's'", rest[0])
	}

	if rest != "" && rest[0] == '.' {
		rest = rest[1:]
		n = 0
		for n < len(rest) && rest[n] >= '0' && rest[n] <= '9' {
			n++
		}
		if n == 0 {
			return ss, fmt.Errorf("format specifier missing precision")
		}
		p, err := parseSpecNumber(rest[:n], "precision")
		if err != nil {
			return ss, err
		}
		ss.precision = p
		rest = rest[n:]
	}

	switch rest {
	case "", "s":
	default:
		return ss, fmt.Errorf("unknown format code %q for a string value", rest)
	}
	return ss, nil
}

// maxSpecNumber bounds width and precision so padding stays allocatable.
const maxSpecNumber = 1 << 20

func parseSpecNumber(digits, what string) (int, error) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("too many decimal digits in format string")
	}
	if n > maxSpecNumber {
		return 0, fmt.Errorf("%s %d exceeds the limit of %d", what, n, maxSpecNumber)
	}
	return n, nil
}

func isAlign(c byte) bool {
	return c == '<' || c == '>' || c == '^' || c == '='
}

// apply renders s under the spec.
func (ss stringSpec) apply(s string) string {
	if ss.precision >= 0 && utf8.RuneCountInString(s) > ss.precision {
		s = string([]rune(s)[:ss.precision])
	}
	pad := ss.width - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}
	fill := string(ss.fill)
	switch ss.align {
	case '>':
		return strings.Repeat(fill, pad) + s
	case '^':
		left := pad / 2
		return strings.Repeat(fill, left) + s + strings.Repeat(fill, pad-left)
	default:
		return s + strings.Repeat(fill, pad)
	}
}

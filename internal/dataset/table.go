package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Table is a parsed delimited file: a header row and data rows.
type Table struct {
	Source string
	Header []string
	Rows   [][]string
}

// sniffSize is how much of a file is inspected to guess its delimiter.
const sniffSize = 10240

var delimiterCandidates = []rune{',', '\t', ';', '|'}

// ReadTable opens path and reads it as a delimited table.
func ReadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, errors.Wrapf(err, "opening table %s", path)
	}
	defer f.Close()

	t, err := ParseTable(f)
	if err != nil {
		var mt *MalformedTableError
		if errors.As(err, &mt) {
			mt.Source = path
			return Table{}, mt
		}
		return Table{}, errors.Wrapf(err, "reading table %s", path)
	}
	t.Source = path
	return t, nil
}

// ParseTable reads a delimited table from r, guessing the delimiter from the
// first few KiB.
func ParseTable(r io.Reader) (Table, error) {
	br := bufio.NewReaderSize(r, sniffSize)
	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return Table{}, errors.Wrap(err, "sniffing delimiter")
	}

	cr := csv.NewReader(br)
	cr.Comma = Sniff(head)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return Table{}, &MalformedTableError{Reason: pe.Error()}
		}
		return Table{}, err
	}
	if len(records) == 0 {
		return Table{}, &MalformedTableError{Reason: "no header row"}
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	return Table{Header: header, Rows: records[1:]}, nil
}

// Sniff guesses the delimiter of a sample: the candidate that occurs the
// same, non-zero number of times outside quoted cells on every complete
// sampled line, preferring the most frequent. Falls back to a comma.
func Sniff(sample []byte) rune {
	lines := bytes.Split(sample, []byte("\n"))
	if len(lines) > 1 && len(sample) >= sniffSize {
		lines = lines[:len(lines)-1] // last line may be cut off
	}

	best, bestCount := ',', 0
	for _, c := range delimiterCandidates {
		count := -1
		consistent := true
		for _, line := range lines {
			line = bytes.TrimRight(line, "\r")
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			n := countUnquoted(line, byte(c))
			if count == -1 {
				count = n
			} else if n != count {
				consistent = false
				break
			}
		}
		if consistent && count > bestCount {
			best, bestCount = c, count
		}
	}
	return best
}

// countUnquoted counts c in line, skipping spans between double quotes. An
// escaped quote ("") closes and reopens the span, leaving the count intact.
func countUnquoted(line []byte, c byte) int {
	n := 0
	quoted := false
	for _, b := range line {
		switch {
		case b == '"':
			quoted = !quoted
		case b == c && !quoted:
			n++
		}
	}
	return n
}

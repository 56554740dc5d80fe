/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reader.go
Description: Delimited table reader for byteclasser. Reads CSV or TSV rows from a file or
stdin, transparently decompressing and transcoding, assigns each data record its
zero-based row id and drops records that cannot be parsed or are not valid UTF-8
without renumbering the rest.
*/

package input

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/kleascm/byteclasser/pkg/compression"
	"github.com/kleascm/byteclasser/pkg/core"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Options controls how a table is read.
type Options struct {
	Delimiter rune   // Field separator, 0 picks it from the file extension
	NoHeader  bool   // Treat the first record as data
	Encoding  string // Charset label such as "utf-8", "latin1" or "shift_jis"
}

// ErrInvalidUTF8 marks a record whose fields are not valid UTF-8 after decoding.
var ErrInvalidUTF8 = errors.New("record is not valid UTF-8")

// RowReadError reports a record that could not be parsed into fields.
// The record is dropped and its row id is not reused.
type RowReadError struct {
	RowID int
	Line  int
	Err   error
}

func (e *RowReadError) Error() string {
	return fmt.Sprintf("row %d (line %d): %v", e.RowID, e.Line, e.Err)
}

func (e *RowReadError) Unwrap() error { return e.Err }

// Table is everything read from one input.
type Table struct {
	Header  []string
	Rows    []core.Row
	Dropped []*RowReadError
	Records int // data records seen, dropped ones included
}

// DelimiterFromPath returns a tab for .tsv and .tab files and a comma otherwise.
// Compression suffixes are ignored.
func DelimiterFromPath(path string) rune {
	switch strings.ToLower(filepath.Ext(compression.TrimExt(path))) {
	case ".tsv", ".tab":
		return '\t'
	default:
		return ','
	}
}

// ParseDelimiter turns a flag value into a delimiter rune. "tab" and `\t`
// name the tab character.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	if r[0] == '"' || r[0] == '\r' || r[0] == '\n' || r[0] == 0xFFFD {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r[0], nil
}

// ReadFile reads the table at path. "-" reads stdin. Failing to open or
// decompress the input is returned as an error; bad records are not.
func ReadFile(path string, opts Options) (*Table, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = DelimiterFromPath(path)
	}

	rc, err := compression.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input %s: %w", path, err)
	}
	defer rc.Close()

	return Read(rc, opts)
}

// Read parses every record from r.
func Read(r io.Reader, opts Options) (*Table, error) {
	src, err := decode(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(src)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	// The first record fixes the field count for the rest of the table.
	cr.FieldsPerRecord = 0
	// Quotes inside unquoted fields are literal text, common in log lines.
	cr.LazyQuotes = true

	table := &Table{}
	headerPending := !opts.NoHeader
	nextID := 0

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if headerPending {
			headerPending = false
			if err == nil {
				table.Header = record
			}
			continue
		}

		id := nextID
		nextID++
		table.Records++

		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				// Underlying reader failure, nothing more can be read.
				return nil, fmt.Errorf("failed to read input: %w", err)
			}
			table.Dropped = append(table.Dropped, &RowReadError{RowID: id, Line: perr.StartLine, Err: perr.Err})
			continue
		}

		if !validUTF8(record) {
			line, _ := cr.FieldPos(0)
			table.Dropped = append(table.Dropped, &RowReadError{RowID: id, Line: line, Err: ErrInvalidUTF8})
			continue
		}

		table.Rows = append(table.Rows, core.Row{ID: id, Fields: record})
	}

	return table, nil
}

func validUTF8(record []string) bool {
	for _, field := range record {
		if !utf8.ValidString(field) {
			return false
		}
	}
	return true
}

// ValidateEncoding reports whether name is a known charset label.
func ValidateEncoding(name string) error {
	if _, err := htmlindex.Get(name); err != nil {
		return fmt.Errorf("unsupported input encoding %q: %w", name, err)
	}
	return nil
}

// decode wraps r with a transcoder to UTF-8 for the named charset. A byte
// order mark, if present, overrides the name.
func decode(r io.Reader, name string) (io.Reader, error) {
	if name == "" {
		return r, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported input encoding %q: %w", name, err)
	}
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), nil
}

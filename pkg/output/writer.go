/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: writer.go
Description: Result table writers for byteclasser. Encoders register themselves per
format; Write picks the format, opens the destination (file, compressed file or stdout)
and reports every failure as a WriteError.
*/

package output

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/kleascm/byteclasser/pkg/aggregate"
	"github.com/kleascm/byteclasser/pkg/compression"
)

// Format names an output encoding.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatTSV    Format = "tsv"
	FormatJSONL  Format = "jsonl"
	FormatCBOR   Format = "cbor"
	FormatSQLite Format = "sqlite"
)

// EncodeFunc writes a whole table to w.
type EncodeFunc func(w io.Writer, table *aggregate.Table) error

// encoders maps stream formats to their encoder. SQLite is not a stream
// format and is handled separately.
var encoders = map[Format]EncodeFunc{}

// Register adds or replaces the encoder for a stream format.
func Register(format Format, fn EncodeFunc) {
	encoders[format] = fn
}

// Formats lists every supported format, sorted.
func Formats() []string {
	names := []string{string(FormatSQLite)}
	for f := range encoders {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// WriteError reports a failure to produce the output table. It is fatal.
type WriteError struct {
	Path   string
	Format Format
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s output %s: %v", e.Format, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// FormatFromPath picks the format from the extension, ignoring any
// compression suffix. Unknown extensions and stdout default to CSV.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(compression.TrimExt(path))) {
	case ".tsv", ".tab":
		return FormatTSV
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".cbor":
		return FormatCBOR
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatCSV
	}
}

// ParseFormat validates a format name. Empty means "pick from the path".
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if f == "" || f == FormatSQLite {
		return f, nil
	}
	if _, ok := encoders[f]; !ok {
		return "", fmt.Errorf("unknown output format %q (supported: %s)", name, strings.Join(Formats(), ", "))
	}
	return f, nil
}

// Encode writes table to w in a stream format.
func Encode(w io.Writer, format Format, table *aggregate.Table) error {
	fn, ok := encoders[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return fn(w, table)
}

// Write stores table at path. An empty format is picked from the path and
// "-" writes to stdout.
func Write(path string, format Format, table *aggregate.Table) error {
	if format == "" {
		format = FormatFromPath(path)
	}

	if format == FormatSQLite {
		if err := writeSQLite(path, table); err != nil {
			return &WriteError{Path: path, Format: format, Err: err}
		}
		return nil
	}

	if _, ok := encoders[format]; !ok {
		return &WriteError{Path: path, Format: format, Err: errors.New("no writer registered")}
	}

	w, err := compression.Create(path)
	if err != nil {
		return &WriteError{Path: path, Format: format, Err: err}
	}

	err = Encode(w, format, table)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if path == compression.StdioPath && IsBrokenPipe(err) {
			// The reader went away, e.g. piped into head.
			return nil
		}
		return &WriteError{Path: path, Format: format, Err: err}
	}
	return nil
}

// IsBrokenPipe reports whether an error is a broken or closed pipe.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

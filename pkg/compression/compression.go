/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: compression.go
Description: Transparent compression for byteclasser input tables, vocabularies and
output tables. The codec is chosen from the file extension (.gz, .zst, .lz4) and
"-" maps to stdin/stdout.
*/

package compression

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies a stream compression format.
type Codec string

const (
	CodecNone Codec = "none"
	CodecGzip Codec = "gzip"
	CodecZstd Codec = "zstd"
	CodecLZ4  Codec = "lz4"
)

// StdioPath is the path that selects stdin for reading and stdout for writing.
const StdioPath = "-"

var extensions = map[string]Codec{
	".gz":   CodecGzip,
	".gzip": CodecGzip,
	".zst":  CodecZstd,
	".zstd": CodecZstd,
	".lz4":  CodecLZ4,
}

// FromPath returns the codec implied by the last extension of path.
func FromPath(path string) Codec {
	if c, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return c
	}
	return CodecNone
}

// TrimExt strips a compression extension so callers can inspect the inner
// extension ("scores.csv.zst" becomes "scores.csv").
func TrimExt(path string) string {
	if FromPath(path) == CodecNone {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// NewReader wraps r with a decompressor for codec.
func NewReader(r io.Reader, codec Codec) (io.ReadCloser, error) {
	switch codec {
	case CodecNone, "":
		return io.NopCloser(r), nil
	case CodecGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return zr, nil
	case CodecZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return zr.IOReadCloser(), nil
	case CodecLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("unsupported compression codec: %s", codec)
	}
}

// NewWriter wraps w with a compressor for codec. Closing the returned writer
// flushes the compressor but does not close w.
func NewWriter(w io.Writer, codec Codec) (io.WriteCloser, error) {
	switch codec {
	case CodecNone, "":
		return nopWriteCloser{w}, nil
	case CodecGzip:
		return gzip.NewWriter(w), nil
	case CodecZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd stream: %w", err)
		}
		return zw, nil
	case CodecLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported compression codec: %s", codec)
	}
}

// Open opens path for reading and decompresses it according to its extension.
func Open(path string) (io.ReadCloser, error) {
	var f io.ReadCloser
	if path == StdioPath {
		f = io.NopCloser(os.Stdin)
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		f = file
	}

	r, err := NewReader(f, FromPath(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &stackedReader{ReadCloser: r, under: f}, nil
}

// Create creates path for writing and compresses according to its extension.
func Create(path string) (io.WriteCloser, error) {
	var f io.WriteCloser
	if path == StdioPath {
		f = nopWriteCloser{os.Stdout}
	} else {
		file, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		f = file
	}

	w, err := NewWriter(f, FromPath(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &stackedWriter{WriteCloser: w, under: f}, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// stackedReader closes the decompressor and then the file underneath it.
type stackedReader struct {
	io.ReadCloser
	under io.Closer
}

func (s *stackedReader) Close() error {
	err := s.ReadCloser.Close()
	if uerr := s.under.Close(); err == nil {
		err = uerr
	}
	return err
}

// stackedWriter flushes the compressor before closing the file underneath it.
type stackedWriter struct {
	io.WriteCloser
	under io.Closer
}

func (s *stackedWriter) Close() error {
	err := s.WriteCloser.Close()
	if uerr := s.under.Close(); err == nil {
		err = uerr
	}
	return err
}

/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: loader.go
Description: Reads byteclasser vocabulary files from disk. JSON files may carry
comments and trailing commas (JSONC); YAML files are accepted by extension. Compressed
files are decompressed transparently and every loaded file is fingerprinted with BLAKE3.
*/

package vocabulary

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/kleascm/byteclasser/pkg/compression"
	"github.com/tidwall/jsonc"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of a vocabulary file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension, ignoring any
// compression suffix. Anything that is not YAML is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(compression.TrimExt(path))) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads, parses and validates the vocabulary at path. Every failure is
// returned as a *ConfigError.
func Load(path string) (*Vocabulary, error) {
	r, err := compression.Open(path)
	if err != nil {
		return nil, &ConfigError{Kind: Unreadable, Path: path, Err: err}
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ConfigError{Kind: Unreadable, Path: path, Err: err}
	}

	doc, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, withPath(err, path)
	}

	v, err := New(doc)
	if err != nil {
		return nil, withPath(err, path)
	}

	v.fingerprint = Fingerprint(data)
	v.source = path
	return v, nil
}

// Parse decodes raw vocabulary bytes into a Document without validating it.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, malformed("document is empty")
			}
			return nil, malformed("failed to parse yaml: %w", err)
		}
	case FormatJSON, "":
		stripped := bytes.TrimSpace(jsonc.ToJSON(data))
		if len(stripped) == 0 {
			return nil, malformed("document is empty")
		}
		if err := json.Unmarshal(stripped, &doc); err != nil {
			return nil, malformed("failed to parse json: %w", err)
		}
	default:
		return nil, malformed("unsupported vocabulary format: %s", format)
	}

	return &doc, nil
}

// Fingerprint returns the BLAKE3-256 digest of data as lowercase hex.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func withPath(err error, path string) error {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		cfgErr.Path = path
		return cfgErr
	}
	return &ConfigError{Kind: Malformed, Path: path, Err: err}
}

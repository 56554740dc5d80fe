/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types.go
Description: Vocabulary types for byteclasser. Document mirrors the on-disk targets
file; Vocabulary is the immutable, validated form shared read-only by every scoring
worker, with each target's hex pattern decoded once at construction.
*/

package vocabulary

import "github.com/kleascm/byteclasser/pkg/matcher"

// Document is the parsed external representation of a targets file.
// Pointer fields distinguish a missing field from its zero value.
type Document struct {
	Metadata *DocumentMetadata         `json:"metadata" yaml:"metadata"`
	Targets  map[string]*DocumentLabel `json:"targets" yaml:"targets"`
}

// DocumentMetadata holds the global vocabulary settings.
type DocumentMetadata struct {
	MinFrequency  *uint32  `json:"min_frequency" yaml:"min_frequency"`
	MinUniqueness *float64 `json:"min_uniqueness" yaml:"min_uniqueness"`
	NGramRange    []int    `json:"ngram_range" yaml:"ngram_range"`
}

// DocumentLabel is one entry of the targets mapping.
type DocumentLabel struct {
	Label   *string          `json:"label" yaml:"label"`
	Targets []DocumentTarget `json:"targets" yaml:"targets"`
}

// DocumentTarget is one scoring rule as written in the targets file.
type DocumentTarget struct {
	Text         *string  `json:"text" yaml:"text"`
	Weight       *float64 `json:"weight" yaml:"weight"`
	Frequency    *uint32  `json:"frequency" yaml:"frequency"`
	Uniqueness   *float64 `json:"uniqueness" yaml:"uniqueness"`
	BytesPattern *string  `json:"bytes_pattern" yaml:"bytes_pattern"`
}

// Metadata is carried through from the vocabulary source. None of it is
// consulted while matching.
type Metadata struct {
	MinFrequency  uint32
	MinUniqueness float64
	NGramRange    [2]int
}

// Target is a single weighted byte pattern.
type Target struct {
	text       string
	weight     float64
	frequency  uint32
	uniqueness float64
	hex        string
	pattern    []byte
	err        error
}

func (t Target) Text() string        { return t.text }
func (t Target) Weight() float64     { return t.weight }
func (t Target) Frequency() uint32   { return t.frequency }
func (t Target) Uniqueness() float64 { return t.uniqueness }
func (t Target) Hex() string         { return t.hex }

// Pattern returns the decoded bytes. The slice is shared and must not be modified.
func (t Target) Pattern() []byte { return t.pattern }

// Valid reports whether the pattern decoded. Invalid targets never score.
func (t Target) Valid() bool { return t.err == nil }

// Err returns the decode failure, if any.
func (t Target) Err() error { return t.err }

// Label groups the targets scored under one output column.
type Label struct {
	name    string
	display string
	targets []Target
}

// Name is the targets mapping key and the output column name.
func (l Label) Name() string { return l.name }

// Display is the human-readable label field from the file.
func (l Label) Display() string { return l.display }

// Targets returns the label's targets in file order. The slice is shared and
// must not be modified.
func (l Label) Targets() []Target { return l.targets }

// ValidTargets counts the targets whose pattern decoded.
func (l Label) ValidTargets() int {
	n := 0
	for _, t := range l.targets {
		if t.Valid() {
			n++
		}
	}
	return n
}

// Vocabulary is the immutable label → targets mapping. Build it with New or
// Load; it has no mutating methods and is safe for concurrent use.
type Vocabulary struct {
	metadata    Metadata
	labels      []Label // sorted by name
	index       map[string]int
	skipped     []*matcher.PatternDecodeError
	fingerprint string
	source      string
}

// Metadata returns the carried-through vocabulary settings.
func (v *Vocabulary) Metadata() Metadata { return v.metadata }

// Labels returns every label sorted by name.
func (v *Vocabulary) Labels() []Label {
	out := make([]Label, len(v.labels))
	copy(out, v.labels)
	return out
}

// LabelNames returns the sorted label names.
func (v *Vocabulary) LabelNames() []string {
	names := make([]string, len(v.labels))
	for i, l := range v.labels {
		names[i] = l.name
	}
	return names
}

// Lookup returns the label with the given name.
func (v *Vocabulary) Lookup(name string) (Label, bool) {
	i, ok := v.index[name]
	if !ok {
		return Label{}, false
	}
	return v.labels[i], true
}

// Len returns the number of labels.
func (v *Vocabulary) Len() int { return len(v.labels) }

// TargetCount returns the total number of targets across all labels.
func (v *Vocabulary) TargetCount() int {
	n := 0
	for _, l := range v.labels {
		n += len(l.targets)
	}
	return n
}

// Skipped lists targets excluded because their pattern failed to decode.
func (v *Vocabulary) Skipped() []*matcher.PatternDecodeError {
	out := make([]*matcher.PatternDecodeError, len(v.skipped))
	copy(out, v.skipped)
	return out
}

// Fingerprint is the BLAKE3-256 hex digest of the file the vocabulary was
// loaded from, or empty when built directly from a Document.
func (v *Vocabulary) Fingerprint() string { return v.fingerprint }

// Source is the path the vocabulary was loaded from.
func (v *Vocabulary) Source() string { return v.source }

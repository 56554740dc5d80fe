/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: vocabulary.go
Description: Construction and validation of the immutable Vocabulary from a parsed
Document. Required fields are checked here; patterns that fail to decode are kept
as invalid targets and recorded for diagnostics instead of failing the load.
*/

package vocabulary

import (
	"math"
	"sort"

	"github.com/kleascm/byteclasser/pkg/matcher"
)

// New validates doc and builds a Vocabulary from it. A missing or mistyped
// required field returns a *ConfigError of kind Malformed. Undecodable
// bytes_pattern values do not fail construction; see Vocabulary.Skipped.
func New(doc *Document) (*Vocabulary, error) {
	if doc == nil {
		return nil, malformed("document is empty")
	}

	meta, err := buildMetadata(doc.Metadata)
	if err != nil {
		return nil, err
	}

	if doc.Targets == nil {
		return nil, malformed("missing required field: targets")
	}

	v := &Vocabulary{
		metadata: meta,
		labels:   make([]Label, 0, len(doc.Targets)),
		index:    make(map[string]int, len(doc.Targets)),
	}

	names := make([]string, 0, len(doc.Targets))
	for name := range doc.Targets {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		label, skipped, err := buildLabel(name, doc.Targets[name])
		if err != nil {
			return nil, err
		}
		v.labels = append(v.labels, label)
		v.index[name] = i
		v.skipped = append(v.skipped, skipped...)
	}

	return v, nil
}

func buildMetadata(dm *DocumentMetadata) (Metadata, error) {
	if dm == nil {
		return Metadata{}, malformed("missing required field: metadata")
	}
	if dm.MinFrequency == nil {
		return Metadata{}, malformed("missing required field: metadata.min_frequency")
	}
	if dm.MinUniqueness == nil {
		return Metadata{}, malformed("missing required field: metadata.min_uniqueness")
	}
	if dm.NGramRange == nil {
		return Metadata{}, malformed("missing required field: metadata.ngram_range")
	}
	if len(dm.NGramRange) != 2 {
		return Metadata{}, malformed("metadata.ngram_range must have exactly 2 elements, got %d", len(dm.NGramRange))
	}

	return Metadata{
		MinFrequency:  *dm.MinFrequency,
		MinUniqueness: *dm.MinUniqueness,
		NGramRange:    [2]int{dm.NGramRange[0], dm.NGramRange[1]},
	}, nil
}

func buildLabel(name string, dl *DocumentLabel) (Label, []*matcher.PatternDecodeError, error) {
	if name == "" {
		return Label{}, nil, malformed("targets: label name must not be empty")
	}
	if dl == nil {
		return Label{}, nil, malformed("targets.%s: expected an object", name)
	}
	if dl.Label == nil {
		return Label{}, nil, malformed("targets.%s: missing required field: label", name)
	}
	if dl.Targets == nil {
		return Label{}, nil, malformed("targets.%s: missing required field: targets", name)
	}

	label := Label{
		name:    name,
		display: *dl.Label,
		targets: make([]Target, 0, len(dl.Targets)),
	}

	var skipped []*matcher.PatternDecodeError
	for i, dt := range dl.Targets {
		target, err := buildTarget(name, i, dt)
		if err != nil {
			return Label{}, nil, err
		}
		if decodeErr, ok := target.err.(*matcher.PatternDecodeError); ok {
			skipped = append(skipped, decodeErr)
		}
		label.targets = append(label.targets, target)
	}

	return label, skipped, nil
}

func buildTarget(label string, i int, dt DocumentTarget) (Target, error) {
	switch {
	case dt.Text == nil:
		return Target{}, malformed("targets.%s.targets[%d]: missing required field: text", label, i)
	case dt.Weight == nil:
		return Target{}, malformed("targets.%s.targets[%d]: missing required field: weight", label, i)
	case dt.Frequency == nil:
		return Target{}, malformed("targets.%s.targets[%d]: missing required field: frequency", label, i)
	case dt.Uniqueness == nil:
		return Target{}, malformed("targets.%s.targets[%d]: missing required field: uniqueness", label, i)
	case dt.BytesPattern == nil:
		return Target{}, malformed("targets.%s.targets[%d]: missing required field: bytes_pattern", label, i)
	}

	weight := *dt.Weight
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return Target{}, malformed("targets.%s.targets[%d]: weight must be finite, got %v", label, i, weight)
	}

	t := Target{
		text:       *dt.Text,
		weight:     weight,
		frequency:  *dt.Frequency,
		uniqueness: *dt.Uniqueness,
		hex:        *dt.BytesPattern,
	}

	pattern, err := matcher.DecodePattern(t.hex)
	if err != nil {
		if decodeErr, ok := err.(*matcher.PatternDecodeError); ok {
			decodeErr.Label = label
			decodeErr.Index = i
		}
		t.err = err
		return t, nil
	}
	t.pattern = pattern
	return t, nil
}

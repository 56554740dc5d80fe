/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: engine.go
Description: Scoring engine for byteclasser. Compiles a vocabulary into flat per-label
rule lists once, then scores rows by summing weighted non-overlapping pattern counts
over the row's joined text.
*/

package scoring

import (
	"strings"

	"github.com/kleascm/byteclasser/pkg/core"
	"github.com/kleascm/byteclasser/pkg/matcher"
	"github.com/kleascm/byteclasser/pkg/vocabulary"
)

// FieldSeparator joins a row's fields into the scored text.
const FieldSeparator = " "

// rule is one decoded pattern and its weight.
type rule struct {
	pattern []byte
	weight  float64
}

// labelRules holds the rules scored under one label.
type labelRules struct {
	name  string
	rules []rule
}

// Engine scores rows against a vocabulary
// It holds no mutable state and is safe to share between workers
type Engine struct {
	vocab  *vocabulary.Vocabulary
	labels []labelRules
}

// NewEngine compiles the vocabulary's valid targets into rule lists.
// Targets whose pattern failed to decode are left out.
func NewEngine(vocab *vocabulary.Vocabulary) *Engine {
	labels := vocab.Labels()
	compiled := make([]labelRules, len(labels))
	for i, l := range labels {
		lr := labelRules{name: l.Name()}
		for _, t := range l.Targets() {
			if !t.Valid() {
				continue
			}
			lr.rules = append(lr.rules, rule{pattern: t.Pattern(), weight: t.Weight()})
		}
		compiled[i] = lr
	}
	return &Engine{vocab: vocab, labels: compiled}
}

// Vocabulary returns the vocabulary the engine was built from.
func (e *Engine) Vocabulary() *vocabulary.Vocabulary { return e.vocab }

// Score computes the label scores for one row. The result has an entry for
// every label, zero when nothing matched.
func (e *Engine) Score(row core.Row) core.RowResult {
	text := JoinFields(row.Fields)
	return core.RowResult{
		RowID:  row.ID,
		Text:   text,
		Scores: e.ScoreText([]byte(text)),
	}
}

// ScoreText scores raw bytes without building a row.
func (e *Engine) ScoreText(buf []byte) map[string]float64 {
	scores := make(map[string]float64, len(e.labels))
	for _, l := range e.labels {
		total := 0.0
		for _, r := range l.rules {
			if n := matcher.Count(r.pattern, buf); n > 0 {
				total += float64(n) * r.weight
			}
		}
		scores[l.name] = total
	}
	return scores
}

// JoinFields joins fields with a single space in column order.
func JoinFields(fields []string) string {
	return strings.Join(fields, FieldSeparator)
}

var _ core.Scorer = (*Engine)(nil)

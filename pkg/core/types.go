/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types.go
Description: Core types for the byteclasser scoring run. Defines the rows handed over by
the table reader, the per-row scoring results, run statistics updated atomically by the
workers, and the run summary written at the end of a run.
*/

package core

import (
	"sync/atomic"
	"time"
)

// Row represents a single input record to be scored
// The ID is assigned by the reader before dispatch, so dropped rows leave gaps
type Row struct {
	ID     int      `json:"row_id"` // Zero-based position of the record in the input
	Fields []string `json:"fields"` // Column values in original column order
}

// RowResult represents the outcome of scoring one row
// Scores holds an entry for every configured label
type RowResult struct {
	RowID  int                `json:"row_id"` // ID of the scored row
	Text   string             `json:"text"`   // Fields joined by single spaces
	Scores map[string]float64 `json:"scores"` // Label name to accumulated score
}

// Score returns the score for label, or 0 when the label is absent
func (r RowResult) Score(label string) float64 {
	return r.Scores[label]
}

// RunStats tracks counters for a scoring run
// Uses atomic operations for thread-safe updates from workers
type RunStats struct {
	RowsRead       int64 `json:"rows_read"`       // Records read from the input, dropped ones included
	RowsDropped    int64 `json:"rows_dropped"`    // Records that could not be parsed
	RowsScored     int64 `json:"rows_scored"`     // Rows that produced a RowResult
	TargetsSkipped int64 `json:"targets_skipped"` // Targets excluded for an undecodable pattern
}

// IncrementRowsScored atomically increments the scored row counter
func (s *RunStats) IncrementRowsScored() {
	atomic.AddInt64(&s.RowsScored, 1)
}

// IncrementRowsDropped atomically increments the dropped row counter
func (s *RunStats) IncrementRowsDropped() {
	atomic.AddInt64(&s.RowsDropped, 1)
}

// Snapshot returns a consistent copy of the counters
func (s *RunStats) Snapshot() RunStats {
	return RunStats{
		RowsRead:       atomic.LoadInt64(&s.RowsRead),
		RowsDropped:    atomic.LoadInt64(&s.RowsDropped),
		RowsScored:     atomic.LoadInt64(&s.RowsScored),
		TargetsSkipped: atomic.LoadInt64(&s.TargetsSkipped),
	}
}

// RunSummary describes a finished scoring run
// Written to the summary directory and logged at the end of the run
type RunSummary struct {
	RunID        string    `json:"run_id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Duration     string    `json:"duration"`
	Input        string    `json:"input"`
	Vocabulary   string    `json:"vocabulary"`
	Fingerprint  string    `json:"vocabulary_blake3"`
	Output       string    `json:"output"`
	OutputFormat string    `json:"output_format"`
	Workers      int       `json:"workers"`
	Labels       int       `json:"labels"`
	Targets      int       `json:"targets"`
	Stats        RunStats  `json:"stats"`
	RowsPerSec   float64   `json:"rows_per_second"`
}

// Finish stamps the end time, duration and throughput
func (s *RunSummary) Finish(stats RunStats) {
	s.FinishedAt = time.Now()
	elapsed := s.FinishedAt.Sub(s.StartedAt)
	s.Duration = elapsed.String()
	s.Stats = stats
	if secs := elapsed.Seconds(); secs > 0 {
		s.RowsPerSec = float64(stats.RowsScored) / secs
	}
}

/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reporter.go
Description: Reporter interface and implementations for byteclasser run telemetry.
Reporters are notified when a row is scored or dropped and must be safe for concurrent use.
*/

package core

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Reporter defines the interface for telemetry and reporting hooks.
// Hooks are called from worker goroutines.
type Reporter interface {
	// OnRowScored is called after a row has been scored.
	OnRowScored(result *RowResult)
	// OnRowDropped is called when the reader drops a row it could not parse.
	OnRowDropped(rowID int, err error)
}

// LoggerReporter logs row events at debug level.
type LoggerReporter struct {
	logger *logrus.Logger
}

// NewLoggerReporter creates a new LoggerReporter.
func NewLoggerReporter(logger *logrus.Logger) *LoggerReporter {
	return &LoggerReporter{logger: logger}
}

// OnRowScored logs the row and its best label.
func (r *LoggerReporter) OnRowScored(result *RowResult) {
	best, score := TopLabel(result)
	r.logger.WithFields(logrus.Fields{
		"row_id":    result.RowID,
		"top_label": best,
		"top_score": score,
		"labels":    len(result.Scores),
	}).Debug("Row scored")
}

// OnRowDropped logs the dropped row.
func (r *LoggerReporter) OnRowDropped(rowID int, err error) {
	r.logger.WithFields(logrus.Fields{"row_id": rowID, "error": err}).Debug("Row dropped")
}

// CountingReporter counts row events for callers embedding a run.
type CountingReporter struct {
	mu      sync.Mutex
	Scored  int
	Dropped []int
}

// OnRowScored counts a scored row.
func (r *CountingReporter) OnRowScored(result *RowResult) {
	r.mu.Lock()
	r.Scored++
	r.mu.Unlock()
}

// OnRowDropped records the dropped row id.
func (r *CountingReporter) OnRowDropped(rowID int, err error) {
	r.mu.Lock()
	r.Dropped = append(r.Dropped, rowID)
	r.mu.Unlock()
}

// TopLabel returns the highest scoring label, ties broken alphabetically.
// It returns "" when the result has no labels.
func TopLabel(result *RowResult) (string, float64) {
	best := ""
	score := 0.0
	for label, s := range result.Scores {
		if best == "" || s > score || (s == score && label < best) {
			best, score = label, s
		}
	}
	return best, score
}

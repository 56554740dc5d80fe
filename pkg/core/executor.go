/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: executor.go
Description: Parallel row executor for byteclasser. Distributes rows over a fixed pool of
worker goroutines that share one read-only scorer, and collects the results in input order.
*/

package core

import (
	"context"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Scorer scores a single row. Implementations must be safe for concurrent use
// and must not depend on which goroutine calls them.
type Scorer interface {
	Score(row Row) RowResult
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(row Row) RowResult

// Score calls f(row).
func (f ScorerFunc) Score(row Row) RowResult { return f(row) }

// Executor fans rows out to a worker pool
// Every row is scored exactly once and results come back in row order
type Executor struct {
	scorer    Scorer
	workers   int
	logger    *logrus.Logger
	reporters []Reporter
	stats     *RunStats
}

// NewExecutor creates an executor with the given worker count
// Zero or negative means one worker per available CPU
func NewExecutor(scorer Scorer, workers int, logger *logrus.Logger) *Executor {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Executor{
		scorer:  scorer,
		workers: workers,
		logger:  logger,
		stats:   &RunStats{},
	}
}

// AddReporter registers a reporter notified for every scored or dropped row.
func (e *Executor) AddReporter(r Reporter) {
	e.reporters = append(e.reporters, r)
}

// ReportDropped counts a row the reader dropped and notifies every reporter.
func (e *Executor) ReportDropped(rowID int, err error) {
	e.stats.IncrementRowsDropped()
	for _, r := range e.reporters {
		r.OnRowDropped(rowID, err)
	}
}

// Workers returns the configured pool size.
func (e *Executor) Workers() int { return e.workers }

// Stats returns the executor's live counters.
func (e *Executor) Stats() *RunStats { return e.stats }

// Run scores every row and returns one result per row, in the order the rows
// were given. The context only stops the run early: once it is cancelled no
// further rows are dispatched and Run returns the context's error.
func (e *Executor) Run(ctx context.Context, rows []Row) ([]RowResult, error) {
	results := make([]RowResult, len(rows))
	if len(rows) == 0 {
		return results, nil
	}

	workers := e.workers
	if workers > len(rows) {
		workers = len(rows)
	}

	e.logger.WithFields(logrus.Fields{
		"rows":    len(rows),
		"workers": workers,
	}).Debug("Starting scoring workers")

	jobs := make(chan int, workers*2)
	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				// Each index is received by exactly one worker, so the
				// slot write needs no lock.
				results[i] = e.scorer.Score(rows[i])
				e.stats.IncrementRowsScored()
				for _, r := range e.reporters {
					r.OnRowScored(&results[i])
				}
			}
			return nil
		})
	}

dispatch:
	for i := range rows {
		select {
		case <-gctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		e.logger.WithError(err).Warn("Scoring interrupted")
		return nil, err
	}

	return results, nil
}

/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: executor_test.go
Description: Tests for the parallel executor. Covers result ordering, worker count
independence, reporter notification, empty input and cancellation.
*/

package core_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kleascm/byteclasser/pkg/core"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// lengthScorer scores each row by its joined length under a single label.
var lengthScorer = core.ScorerFunc(func(row core.Row) core.RowResult {
	text := strings.Join(row.Fields, " ")
	return core.RowResult{
		RowID:  row.ID,
		Text:   text,
		Scores: map[string]float64{"len": float64(len(text))},
	}
})

func makeRows(n int) []core.Row {
	rows := make([]core.Row, n)
	for i := range rows {
		// Leave a gap every tenth id like a reader that dropped rows.
		rows[i] = core.Row{ID: i + i/10, Fields: []string{fmt.Sprintf("row-%d", i), "x"}}
	}
	return rows
}

// TestExecutorPreservesOrder tests that results come back in row order
func TestExecutorPreservesOrder(t *testing.T) {
	rows := makeRows(500)
	exec := core.NewExecutor(lengthScorer, 8, quietLogger())

	results, err := exec.Run(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, results, len(rows))

	for i, res := range results {
		assert.Equal(t, rows[i].ID, res.RowID)
		assert.Equal(t, strings.Join(rows[i].Fields, " "), res.Text)
	}
	assert.Equal(t, int64(len(rows)), exec.Stats().Snapshot().RowsScored)
}

// TestExecutorWorkerCountIndependence tests that any pool size yields the same results
func TestExecutorWorkerCountIndependence(t *testing.T) {
	rows := makeRows(137)

	baseline, err := core.NewExecutor(lengthScorer, 1, quietLogger()).Run(context.Background(), rows)
	require.NoError(t, err)

	for _, workers := range []int{0, 2, 3, 16, 1000} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			results, err := core.NewExecutor(lengthScorer, workers, quietLogger()).Run(context.Background(), rows)
			require.NoError(t, err)
			assert.Equal(t, baseline, results)
		})
	}
}

// TestExecutorScoresEachRowOnce tests that no row is scored twice
func TestExecutorScoresEachRowOnce(t *testing.T) {
	rows := makeRows(250)
	var calls int64
	counting := core.ScorerFunc(func(row core.Row) core.RowResult {
		atomic.AddInt64(&calls, 1)
		return lengthScorer(row)
	})

	_, err := core.NewExecutor(counting, 4, quietLogger()).Run(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, int64(len(rows)), atomic.LoadInt64(&calls))
}

// TestExecutorEmptyInput tests that no rows yields no results
func TestExecutorEmptyInput(t *testing.T) {
	exec := core.NewExecutor(lengthScorer, 4, quietLogger())

	results, err := exec.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

// TestExecutorDefaultWorkers tests the CPU-count default
func TestExecutorDefaultWorkers(t *testing.T) {
	exec := core.NewExecutor(lengthScorer, 0, nil)
	assert.Positive(t, exec.Workers())
}

// TestExecutorReporters tests that reporters see every scored row
func TestExecutorReporters(t *testing.T) {
	rows := makeRows(40)
	reporter := &core.CountingReporter{}

	exec := core.NewExecutor(lengthScorer, 4, quietLogger())
	exec.AddReporter(reporter)
	exec.AddReporter(core.NewLoggerReporter(quietLogger()))

	_, err := exec.Run(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, len(rows), reporter.Scored)
}

// TestExecutorReportDropped tests that dropped rows reach every reporter and the stats
func TestExecutorReportDropped(t *testing.T) {
	var logs bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logs)
	logger.SetLevel(logrus.DebugLevel)

	reporter := &core.CountingReporter{}
	exec := core.NewExecutor(lengthScorer, 2, logger)
	exec.AddReporter(reporter)
	exec.AddReporter(core.NewLoggerReporter(logger))

	exec.ReportDropped(3, errors.New("wrong number of fields"))
	exec.ReportDropped(7, errors.New("record is not valid UTF-8"))

	assert.Equal(t, []int{3, 7}, reporter.Dropped)
	assert.Equal(t, int64(2), exec.Stats().Snapshot().RowsDropped)
	assert.Contains(t, logs.String(), "Row dropped")
	assert.Contains(t, logs.String(), "row_id=7")
}

// TestExecutorCancelled tests that a cancelled context stops the run
func TestExecutorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := core.NewExecutor(lengthScorer, 2, quietLogger()).Run(ctx, makeRows(100))
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

// TestTopLabel tests best label selection and tie breaking
func TestTopLabel(t *testing.T) {
	label, score := core.TopLabel(&core.RowResult{Scores: map[string]float64{"b": 2, "a": 2, "c": -1}})
	assert.Equal(t, "a", label)
	assert.Equal(t, 2.0, score)

	label, score = core.TopLabel(&core.RowResult{})
	assert.Empty(t, label)
	assert.Zero(t, score)
}

// TestRunSummaryFinish tests throughput and duration stamping
func TestRunSummaryFinish(t *testing.T) {
	stats := &core.RunStats{RowsRead: 3}
	stats.IncrementRowsScored()
	stats.IncrementRowsScored()
	stats.IncrementRowsDropped()

	summary := &core.RunSummary{RunID: "run"}
	summary.Finish(stats.Snapshot())

	assert.Equal(t, int64(2), summary.Stats.RowsScored)
	assert.Equal(t, int64(1), summary.Stats.RowsDropped)
	assert.NotEmpty(t, summary.Duration)
	assert.False(t, summary.FinishedAt.IsZero())
}

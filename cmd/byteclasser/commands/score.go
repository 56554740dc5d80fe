/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: score.go
Description: Scoring command for byteclasser. Loads the vocabulary, reads the input table,
scores every row on a worker pool, aggregates and writes the result table, then logs and
optionally stores the run summary.
*/

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/kleascm/byteclasser/pkg/aggregate"
	"github.com/kleascm/byteclasser/pkg/core"
	"github.com/kleascm/byteclasser/pkg/input"
	"github.com/kleascm/byteclasser/pkg/logging"
	"github.com/kleascm/byteclasser/pkg/output"
	"github.com/kleascm/byteclasser/pkg/scoring"
	"github.com/kleascm/byteclasser/pkg/utils"
	"github.com/kleascm/byteclasser/pkg/vocabulary"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// JobOptions collects everything a scoring run needs
type JobOptions struct {
	InputPath      string
	VocabularyPath string
	OutputPath     string
	Workers        int           // 0 means one per CPU
	Format         output.Format // empty means from the output extension
	Input          input.Options
	Strict         bool   // skipped targets are fatal
	SummaryDir     string // empty disables the summary file

	// Reporters are notified for every scored and dropped row.
	Reporters []core.Reporter
}

// RunScore executes the root command
func RunScore(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := SetupLogging(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Close()

	opts, err := JobOptionsFromSettings(args[0], args[1], args[2])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = RunJob(ctx, opts, logger)
	return err
}

// RunJob performs one scoring run. Vocabulary, input and output failures are
// returned; rows that cannot be parsed and targets that cannot be decoded are
// logged and counted instead.
func RunJob(ctx context.Context, opts *JobOptions, logger *logging.Logger) (*core.RunSummary, error) {
	summary := &core.RunSummary{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now(),
		Input:      opts.InputPath,
		Vocabulary: opts.VocabularyPath,
		Output:     opts.OutputPath,
	}

	vocab, err := LoadVocabulary(opts.VocabularyPath, opts.Strict, logger)
	if err != nil {
		return nil, err
	}
	summary.Fingerprint = vocab.Fingerprint()
	summary.Labels = vocab.Len()
	summary.Targets = vocab.TargetCount()

	table, err := input.ReadFile(opts.InputPath, opts.Input)
	if err != nil {
		return nil, err
	}

	engine := scoring.NewEngine(vocab)
	executor := core.NewExecutor(engine, opts.Workers, logger.GetLogger())
	if logger.GetLogger().IsLevelEnabled(logrus.DebugLevel) {
		executor.AddReporter(core.NewLoggerReporter(logger.GetLogger()))
	}
	for _, r := range opts.Reporters {
		executor.AddReporter(r)
	}

	stats := executor.Stats()
	stats.RowsRead = int64(table.Records)
	stats.TargetsSkipped = int64(len(vocab.Skipped()))
	for _, dropped := range table.Dropped {
		logger.LogDroppedRow(dropped.RowID, dropped.Line, dropped.Err)
		executor.ReportDropped(dropped.RowID, dropped)
	}

	summary.Workers = executor.Workers()
	logger.LogScoring(len(table.Rows), executor.Workers())

	results, err := executor.Run(ctx, table.Rows)
	if err != nil {
		return nil, fmt.Errorf("scoring interrupted: %w", err)
	}

	result := aggregate.BuildWithLabels(results, vocab.LabelNames())
	format := opts.Format
	if format == "" {
		format = output.FormatFromPath(opts.OutputPath)
	}
	summary.OutputFormat = string(format)

	if err := output.Write(opts.OutputPath, format, result); err != nil {
		return nil, err
	}
	logger.LogOutput(opts.OutputPath, string(format), len(result.Rows), len(result.Labels))

	summary.Finish(stats.Snapshot())
	logger.LogStats(summary.Stats.RowsRead, summary.Stats.RowsDropped, summary.Stats.RowsScored,
		summary.Stats.TargetsSkipped, summary.RowsPerSec, map[string]interface{}{
			"run_id":   summary.RunID,
			"duration": summary.FinishedAt.Sub(summary.StartedAt),
		})

	if opts.SummaryDir != "" {
		path, err := utils.WriteRunSummary(opts.SummaryDir, summary)
		if err != nil {
			// The scores are already written; a missing summary is not fatal.
			logger.Warning("Failed to write run summary", map[string]interface{}{"error": err})
		} else {
			logger.Info("Run summary written", map[string]interface{}{"path": path})
		}
	}

	return summary, nil
}

// LoadVocabulary loads the vocabulary, logs it and every skipped target. In
// strict mode any skipped target fails the load.
func LoadVocabulary(path string, strict bool, logger *logging.Logger) (*vocabulary.Vocabulary, error) {
	vocab, err := vocabulary.Load(path)
	if err != nil {
		return nil, err
	}

	skipped := vocab.Skipped()
	logger.LogVocabulary(vocab.Source(), vocab.Fingerprint(), vocab.Len(), vocab.TargetCount(), len(skipped))
	for _, s := range skipped {
		logger.LogSkippedTarget(s.Label, s.Index, s.Pattern, s.Err)
	}

	if strict && len(skipped) > 0 {
		errs := make([]error, len(skipped))
		for i, s := range skipped {
			errs[i] = s
		}
		return nil, &vocabulary.ConfigError{
			Kind: vocabulary.Malformed,
			Path: path,
			Err:  fmt.Errorf("%d targets have undecodable patterns: %w", len(skipped), errors.Join(errs...)),
		}
	}

	return vocab, nil
}

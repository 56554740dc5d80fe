/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: check.go
Description: Built-in self-check command for byteclasser. Verifies the input, vocabulary,
output location, log directory and configuration before a scoring run.
*/

package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/kleascm/byteclasser/pkg/compression"
	"github.com/kleascm/byteclasser/pkg/input"
	"github.com/kleascm/byteclasser/pkg/logging"
	"github.com/kleascm/byteclasser/pkg/output"
	"github.com/kleascm/byteclasser/pkg/vocabulary"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// PerformSelfCheck runs every check for the given input, vocabulary and output
func PerformSelfCheck(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🔍 byteclasser - System Self-Check")
	fmt.Fprintln(out, "==================================")
	fmt.Fprintln(out)

	inputPath, vocabPath, outputPath := args[0], args[1], args[2]

	checks := []struct {
		name     string
		function func() (string, error)
	}{
		{"Input Readable", func() (string, error) { return checkInputReadable(inputPath) }},
		{"Vocabulary Valid", func() (string, error) { return checkVocabulary(vocabPath) }},
		{"Output Writable", func() (string, error) { return "", checkOutputWritable(outputPath) }},
		{"Log Directory Writable", checkLogDirectory},
		{"Configuration Validation", func() (string, error) { return "", checkConfiguration(inputPath, vocabPath, outputPath) }},
	}

	passed := 0
	total := len(checks)

	for _, check := range checks {
		fmt.Fprintf(out, "🔍 %s... ", check.name)
		detail, err := check.function()
		switch {
		case err != nil:
			fmt.Fprintf(out, "❌ FAILED: %v\n", err)
		case detail != "":
			fmt.Fprintf(out, "✅ PASSED (%s)\n", detail)
			passed++
		default:
			fmt.Fprintln(out, "✅ PASSED")
			passed++
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "📊 Results: %d/%d checks passed\n", passed, total)

	if passed == total {
		fmt.Fprintln(out, "✨ All checks passed! Ready to score.")
		return nil
	}
	fmt.Fprintln(out, "⚠️  Some checks failed. Please address the issues before scoring.")
	return fmt.Errorf("%d/%d checks failed", total-passed, total)
}

// checkInputReadable opens the input and reads its first bytes through any
// decompressor
func checkInputReadable(path string) (string, error) {
	if path == compression.StdioPath {
		return "stdin", nil
	}
	r, err := compression.Open(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	buf := make([]byte, 512)
	if _, err := r.Read(buf); err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return humanize.Bytes(uint64(info.Size())), nil
}

// checkVocabulary loads the vocabulary and honours strict mode
func checkVocabulary(path string) (string, error) {
	vocab, err := vocabulary.Load(path)
	if err != nil {
		return "", err
	}
	n := len(vocab.Skipped())
	if n > 0 && viper.GetBool("strict") {
		return "", fmt.Errorf("%d targets have undecodable patterns", n)
	}
	return fmt.Sprintf("%d labels, %d targets, %d skipped", vocab.Len(), vocab.TargetCount(), n), nil
}

// checkOutputWritable creates and removes a probe file next to the output
func checkOutputWritable(path string) error {
	if path == compression.StdioPath {
		return nil
	}
	return probeDir(filepath.Dir(path))
}

// checkLogDirectory verifies the log directory when file logging is enabled
func checkLogDirectory() (string, error) {
	dir := viper.GetString("log_dir")
	if dir == "" {
		return "console only", nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	if err := probeDir(dir); err != nil {
		return "", err
	}

	stats, err := logging.NewLogManager(dir, viper.GetInt("log_max_files"), false).GetLogStats()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d log files, %s", stats.TotalFiles, humanize.Bytes(uint64(stats.TotalSize))), nil
}

// checkConfiguration validates every setting a run would use
func checkConfiguration(inputPath, vocabPath, outputPath string) error {
	opts, err := JobOptionsFromSettings(inputPath, vocabPath, outputPath)
	if err != nil {
		return err
	}
	format := opts.Format
	if format == "" {
		format = output.FormatFromPath(outputPath)
	}
	if format == output.FormatSQLite && (outputPath == compression.StdioPath || compression.FromPath(outputPath) != compression.CodecNone) {
		return fmt.Errorf("sqlite output needs a plain file path")
	}
	if opts.Input.Encoding != "" {
		if err := input.ValidateEncoding(opts.Input.Encoding); err != nil {
			return err
		}
	}
	return LoggerConfigFromSettings(os.Stderr).Validate()
}

func probeDir(dir string) error {
	f, err := os.CreateTemp(dir, ".byteclasser-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

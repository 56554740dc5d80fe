/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the byteclasser commands. Provides configuration
loading, logging setup and the translation of viper settings into job options.
*/

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/kleascm/byteclasser/pkg/input"
	"github.com/kleascm/byteclasser/pkg/logging"
	"github.com/kleascm/byteclasser/pkg/output"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read as a setting.
const EnvPrefix = "BYTECLASSER"

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return nil
}

// LoggerConfigFromSettings builds the logger configuration from viper
func LoggerConfigFromSettings(console io.Writer) *logging.LoggerConfig {
	config := logging.DefaultConfig()
	if level := viper.GetString("log_level"); level != "" {
		config.Level = logging.LogLevel(strings.ToLower(level))
	}
	if format := viper.GetString("log_format"); format != "" {
		config.Format = logging.LogFormat(strings.ToLower(format))
	}
	config.OutputDir = viper.GetString("log_dir")
	if maxFiles := viper.GetInt("log_max_files"); maxFiles > 0 {
		config.MaxFiles = maxFiles
	}
	config.Compress = viper.GetBool("log_compress")
	config.Console = console
	return config
}

// SetupLogging configures the logging system
func SetupLogging(console io.Writer) (*logging.Logger, error) {
	logger, err := logging.NewLogger(LoggerConfigFromSettings(console))
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return logger, nil
}

// JobOptionsFromSettings builds the scoring job for the three positional paths
func JobOptionsFromSettings(inputPath, vocabularyPath, outputPath string) (*JobOptions, error) {
	format, err := output.ParseFormat(viper.GetString("format"))
	if err != nil {
		return nil, err
	}

	delimiter, err := input.ParseDelimiter(viper.GetString("delimiter"))
	if err != nil {
		return nil, err
	}

	workers := viper.GetInt("workers")
	if workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", workers)
	}

	return &JobOptions{
		InputPath:      inputPath,
		VocabularyPath: vocabularyPath,
		OutputPath:     outputPath,
		Workers:        workers,
		Format:         format,
		Input: input.Options{
			Delimiter: delimiter,
			NoHeader:  viper.GetBool("no_header"),
			Encoding:  viper.GetString("input_encoding"),
		},
		Strict:     viper.GetBool("strict"),
		SummaryDir: viper.GetString("summary_dir"),
	}, nil
}

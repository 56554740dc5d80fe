/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: formatter.go
Description: Custom log formatters for byteclasser. CustomFormatter prints timestamp, level,
message and sorted fields on one line; ClasserFormatter adds a run-phase prefix and renders
counters and throughput in human readable form.
*/

package logging

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// CustomFormatter provides structured single-line output
type CustomFormatter struct {
	Timestamp bool
	Caller    bool
	Colors    bool
}

// Format formats a log entry
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return f.format(entry, "", f.formatValue), nil
}

func (f *CustomFormatter) format(entry *logrus.Entry, prefix string, value func(key string, v interface{}) string) []byte {
	var output strings.Builder

	if f.Timestamp {
		timestamp := entry.Time.Format("2006-01-02 15:04:05.000")
		if f.Colors {
			output.WriteString(fmt.Sprintf("\033[36m%s\033[0m ", timestamp)) // Cyan
		} else {
			output.WriteString(timestamp + " ")
		}
	}

	level := strings.ToUpper(entry.Level.String())
	if f.Colors {
		output.WriteString(fmt.Sprintf("\033[%dm%s\033[0m ", f.getLevelColor(entry.Level), level))
	} else {
		output.WriteString(level + " ")
	}

	if prefix != "" {
		if f.Colors {
			output.WriteString(fmt.Sprintf("\033[35m[%s]\033[0m ", prefix)) // Magenta
		} else {
			output.WriteString("[" + prefix + "] ")
		}
	}

	if f.Caller && entry.HasCaller() {
		caller := fmt.Sprintf("%s:%d", entry.Caller.File, entry.Caller.Line)
		if f.Colors {
			output.WriteString(fmt.Sprintf("\033[33m[%s]\033[0m ", caller)) // Yellow
		} else {
			output.WriteString("[" + caller + "] ")
		}
	}

	output.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		output.WriteString(" ")
		output.WriteString(f.formatFields(entry.Data, value))
	}

	output.WriteString("\n")
	return []byte(output.String())
}

// getLevelColor returns the ANSI color code for a log level
func (f *CustomFormatter) getLevelColor(level logrus.Level) int {
	switch level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return 37 // White
	case logrus.InfoLevel:
		return 32 // Green
	case logrus.WarnLevel:
		return 33 // Yellow
	case logrus.ErrorLevel:
		return 31 // Red
	case logrus.FatalLevel, logrus.PanicLevel:
		return 35 // Magenta
	default:
		return 37
	}
}

// formatFields formats structured fields sorted by key
func (f *CustomFormatter) formatFields(fields logrus.Fields, value func(key string, v interface{}) string) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		formatted := value(key, fields[key])
		if f.Colors {
			parts = append(parts, fmt.Sprintf("\033[34m%s\033[0m=\033[32m%s\033[0m", key, formatted)) // Blue key, Green value
		} else {
			parts = append(parts, key+"="+formatted)
		}
	}

	return strings.Join(parts, " ")
}

// formatValue formats a field value appropriately
func (f *CustomFormatter) formatValue(_ string, value interface{}) string {
	switch v := value.(type) {
	case time.Duration:
		return v.String()
	case time.Time:
		return v.Format("15:04:05.000")
	case string:
		if len(v) > 80 {
			return v[:80] + "..."
		}
		return v
	case []byte:
		if len(v) > 20 {
			return fmt.Sprintf("[%d bytes]", len(v))
		}
		return fmt.Sprintf("%x", v)
	case error:
		return v.Error()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ClasserFormatter adds run-phase prefixes and humanized counters
type ClasserFormatter struct {
	CustomFormatter
}

// Format formats a log entry with its phase prefix
func (f *ClasserFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return f.format(entry, f.getPhasePrefix(entry.Message), f.formatClasserValue), nil
}

// getPhasePrefix returns a prefix based on the log message
func (f *ClasserFormatter) getPhasePrefix(message string) string {
	switch {
	case strings.Contains(message, "Vocabulary loaded"):
		return "LOAD"
	case strings.Contains(message, "Target skipped"):
		return "SKIP"
	case strings.Contains(message, "Row dropped"):
		return "DROP"
	case strings.Contains(message, "Scoring"), strings.Contains(message, "Row scored"):
		return "SCORE"
	case strings.Contains(message, "Output written"):
		return "WRITE"
	case strings.Contains(message, "Statistics update"):
		return "STATS"
	default:
		return ""
	}
}

// formatClasserValue formats run-specific field values
func (f *ClasserFormatter) formatClasserValue(key string, value interface{}) string {
	switch key {
	case "rows", "rows_read", "rows_dropped", "rows_scored", "targets", "targets_skipped":
		switch n := value.(type) {
		case int:
			return humanize.Comma(int64(n))
		case int64:
			return humanize.Comma(n)
		}
	case "rows_per_sec":
		if r, ok := value.(float64); ok {
			// CommafWithDigits truncates, so round to one digit first.
			return humanize.CommafWithDigits(math.Round(r*10)/10, 1) + "/sec"
		}
	case "size":
		if n, ok := value.(int64); ok {
			return humanize.Bytes(uint64(n))
		}
	case "fingerprint":
		if s, ok := value.(string); ok && len(s) > 16 {
			return s[:16]
		}
	case "uptime", "duration":
		if d, ok := value.(time.Duration); ok {
			return d.Round(time.Millisecond).String()
		}
	}

	return f.formatValue(key, value)
}

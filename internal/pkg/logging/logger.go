// Package logging configures the global logrus logger.
package logging

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, text, simple, or compact
	Output string `yaml:"output"` // stdout (default) or stderr
}

// bracketKeys are rendered as [value] tags after the level instead of in the trailing field list.
var bracketKeys = []string{"component", "chip"}

// CompactFormatter renders one line per entry:
//
//	[15:04:05][LEVEL][component][chip] message (key=value, ...)
//
// The time tag is only written with ShowTime.
type CompactFormatter struct {
	ShowTime bool
}

// Format renders a single log entry
func (f *CompactFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	if f.ShowTime {
		writeTag(b, entry.Time.Format("15:04:05"))
	}
	writeTag(b, strings.ToUpper(entry.Level.String()))
	for _, key := range bracketKeys {
		if v, ok := entry.Data[key]; ok {
			writeTag(b, v)
		}
	}

	b.WriteByte(' ')
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if !slices.Contains(bracketKeys, k) {
			keys = append(keys, k)
		}
	}
	if len(keys) > 0 {
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s=%v", k, entry.Data[k])
		}
		b.WriteByte(')')
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func writeTag(b *bytes.Buffer, v any) {
	fmt.Fprintf(b, "[%v]", v)
}

// textFormatter is used for the "text" format and as the fallback for unknown formats.
func textFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}
}

// formatterFor maps a configured format name to its formatter. ok is false for unknown names.
func formatterFor(format string) (formatter logrus.Formatter, ok bool) {
	switch strings.ToLower(format) {
	case "json":
		return &logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"}, true
	case "simple":
		return &CompactFormatter{}, true
	case "compact":
		return &CompactFormatter{ShowTime: true}, true
	case "text", "":
		return textFormatter(), true
	default:
		return textFormatter(), false
	}
}

// InitLogger replaces the global logger with one built from config.
// Unknown levels fall back to info and unknown formats to text, each with a warning.
func InitLogger(config LogConfig) {
	Logger = logrus.New()

	if strings.EqualFold(config.Output, "stderr") {
		Logger.SetOutput(os.Stderr)
	} else {
		Logger.SetOutput(os.Stdout)
	}

	formatter, knownFormat := formatterFor(config.Format)
	Logger.SetFormatter(formatter)

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)

	if err != nil {
		Logger.Warnf("Invalid log level '%s', defaulting to 'info'", config.Level)
	}
	if !knownFormat {
		Logger.Warnf("Invalid log format '%s', defaulting to 'text'", config.Format)
	}

	Logger.Debugf("Logger initialized with level: %s, format: %s", level.String(), config.Format)
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		// Initialize with default config if not already initialized
		InitLogger(LogConfig{
			Level:  "info",
			Format: "text",
		})
	}
	return Logger
}

// Helper functions for common logging patterns
func WithComponent(component string) *logrus.Entry {
	return GetLogger().WithField("component", component)
}

func WithChip(chip string) *logrus.Entry {
	return GetLogger().WithField("chip", chip)
}

func WithComponentAndChip(component, chip string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"component": component,
		"chip":      chip,
	})
}

// WithSession tags entries of one manager run so interleaved chips can be told apart.
func WithSession(entry *logrus.Entry, session string) *logrus.Entry {
	return entry.WithField("session", session)
}

func WithError(err error) *logrus.Entry {
	return GetLogger().WithError(err)
}

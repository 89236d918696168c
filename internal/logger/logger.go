package logger

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var ErrUnknownFormat = errors.New("unknown log format")

// Logger is the structured logging surface used across the pipeline. Every
// entry carries the emitting component and a set of fields.
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// ParseLevel maps a level name such as "debug" or "warn" to a zerolog level.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(name)
}

// Nop returns a logger that discards everything.
func Nop() *ZerologAdapter {
	return &ZerologAdapter{logger: zerolog.Nop()}
}

// NewJSONLogger writes one JSON object per entry to w.
func NewJSONLogger(w io.Writer, level zerolog.Level) *ZerologAdapter {
	return newZerolog(w, level)
}

// New builds a logger for the named output format. An empty format selects
// the console writer.
func New(format string, w io.Writer, level zerolog.Level) (*ZerologAdapter, error) {
	switch format {
	case "", FormatConsole:
		return NewConsoleLogger(w, level), nil
	case FormatJSON:
		return NewJSONLogger(w, level), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// FILE: lixenwraith/execution/logging.go
package execution

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LoggingOptions configures the process-wide tracker.
type LoggingOptions struct {
	Level  string `option:"log.level" gloss:"Minimum level: trace, debug, info, warn or error" validate:"oneof=trace debug info warn error"`
	Format string `option:"log.format" gloss:"Output format: console or json" validate:"oneof=console json"`
	Output string `option:"log.output" gloss:"stderr, stdout or a file path" validate:"required"`
	Time   bool   `option:"log.time" gloss:"Include timestamps"`
}

// DefaultLoggingOptions returns the logging defaults.
func DefaultLoggingOptions() LoggingOptions {
	return LoggingOptions{
		Level:  "info",
		Format: "console",
		Output: "stderr",
		Time:   true,
	}
}

// Logging holds the logging options bound by the last ConfigureLogging.
var Logging = DefaultLoggingOptions()

var loggingClass = MustRegister(&Logging)

var logFile struct {
	mu sync.Mutex
	f  *os.File
}

// ConfigureLogging binds the log.* options from props and installs a new
// process-wide tracker built from them.
func ConfigureLogging(props *Properties) (*Tracker, error) {
	reg, err := BuildRegistry([]*Class{loggingClass})
	if err != nil {
		return nil, err
	}
	if err := reg.Bind(props, false); err != nil {
		return nil, err
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	tracker, err := NewTrackerFromOptions(Logging)
	if err != nil {
		return nil, err
	}
	SetLogger(tracker)
	return tracker, nil
}

// NewTrackerFromOptions builds a tracker without installing it.
func NewTrackerFromOptions(opts LoggingOptions) (*Tracker, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	out, err := openLogOutput(opts.Output)
	if err != nil {
		return nil, err
	}

	var w io.Writer = out
	if opts.Format == "console" {
		cw := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		if !opts.Time {
			cw.PartsExclude = []string{zerolog.TimestampFieldName}
		}
		w = cw
	}

	ctx := zerolog.New(w).Level(level).With()
	if opts.Time {
		ctx = ctx.Timestamp()
	}
	return NewTracker(ctx.Logger()), nil
}

// openLogOutput resolves an output name, closing any file opened by a
// previous configuration.
func openLogOutput(name string) (io.Writer, error) {
	logFile.mu.Lock()
	defer logFile.mu.Unlock()

	if logFile.f != nil {
		logFile.f.Close()
		logFile.f = nil
	}

	switch strings.ToLower(name) {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	}

	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log output '%s': %w", name, err)
	}
	logFile.f = f
	return f, nil
}

// FILE: lixenwraith/execution/log.go
package execution

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// exitFunc terminates the process. Tests replace it.
var exitFunc = os.Exit

type track struct {
	name  string
	start time.Time
}

// Tracker is a leveled logger with nested named tracks. Every event carries
// the active track path and its depth.
type Tracker struct {
	logger zerolog.Logger
	tracks []track
}

// NewTracker wraps an existing zerolog logger.
func NewTracker(logger zerolog.Logger) *Tracker {
	return &Tracker{logger: logger}
}

// NewConsoleTracker logs human-readable lines to w.
func NewConsoleTracker(w io.Writer) *Tracker {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return NewTracker(zerolog.New(output).With().Timestamp().Logger())
}

var defaultTracker atomic.Pointer[Tracker]

func init() {
	defaultTracker.Store(NewConsoleTracker(os.Stderr))
}

// Log returns the process-wide tracker.
func Log() *Tracker {
	return defaultTracker.Load()
}

// SetLogger replaces the process-wide tracker.
func SetLogger(t *Tracker) {
	if t != nil {
		defaultTracker.Store(t)
	}
}

// With returns a tracker that adds key=value to every event. The track
// stack is copied, not shared.
func (t *Tracker) With(key, value string) *Tracker {
	return &Tracker{
		logger: t.logger.With().Str(key, value).Logger(),
		tracks: append([]track(nil), t.tracks...),
	}
}

// Depth returns the number of open tracks.
func (t *Tracker) Depth() int {
	return len(t.tracks)
}

// StartTrack opens a nested track.
func (t *Tracker) StartTrack(name string) {
	t.tracks = append(t.tracks, track{name: name, start: time.Now()})
	t.Info().Msg("begin " + name)
}

// EndTrack closes the innermost track, which must be name.
func (t *Tracker) EndTrack(name string) error {
	if len(t.tracks) == 0 {
		err := fmt.Errorf("end of track %q without matching start", name)
		t.Error().Err(err).Send()
		return err
	}
	top := t.tracks[len(t.tracks)-1]
	if top.name != name {
		err := fmt.Errorf("end of track %q does not match open track %q", name, top.name)
		t.Error().Err(err).Send()
		return err
	}
	t.Info().Dur("elapsed", time.Since(top.start)).Msg("end " + name)
	t.tracks = t.tracks[:len(t.tracks)-1]
	return nil
}

func (t *Tracker) decorate(e *zerolog.Event) *zerolog.Event {
	if len(t.tracks) == 0 {
		return e
	}
	names := make([]string, len(t.tracks))
	for i, tr := range t.tracks {
		names[i] = tr.name
	}
	return e.Str("track", strings.Join(names, "/")).Int("depth", len(t.tracks))
}

func (t *Tracker) Debug() *zerolog.Event { return t.decorate(t.logger.Debug()) }
func (t *Tracker) Info() *zerolog.Event  { return t.decorate(t.logger.Info()) }
func (t *Tracker) Warn() *zerolog.Event  { return t.decorate(t.logger.Warn()) }
func (t *Tracker) Error() *zerolog.Event { return t.decorate(t.logger.Error()) }

// Force logs regardless of the configured level.
func (t *Tracker) Force() *zerolog.Event {
	return t.decorate(t.logger.Log())
}

// Fatal logs err at fatal level and terminates the process with status 1.
func (t *Tracker) Fatal(err error, msg string) {
	t.decorate(t.logger.WithLevel(zerolog.FatalLevel)).Err(err).Msg(msg)
	exitFunc(1)
}

// FILE: lixenwraith/execution/helpers_test.go
package execution

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

// isolateCatalog restores the class catalog when the test ends.
func isolateCatalog(t *testing.T) {
	t.Helper()

	catalog.mu.Lock()
	saved := make(map[string]*Class, len(catalog.classes))
	for name, class := range catalog.classes {
		saved[name] = class
	}
	catalog.mu.Unlock()

	t.Cleanup(func() {
		catalog.mu.Lock()
		catalog.classes = saved
		catalog.mu.Unlock()
	})
}

// captureLog routes the process-wide tracker to a buffer of JSON lines.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	prev := Log()
	SetLogger(NewTracker(zerolog.New(buf).Level(zerolog.DebugLevel)))
	t.Cleanup(func() { SetLogger(prev) })
	return buf
}

// stubExit records exit statuses instead of terminating.
func stubExit(t *testing.T) *[]int {
	t.Helper()

	codes := &[]int{}
	prev := exitFunc
	exitFunc = func(code int) { *codes = append(*codes, code) }
	t.Cleanup(func() { exitFunc = prev })
	return codes
}

// resetGlobals clears the bootstrap and logging groups for the test and
// restores them afterwards.
func resetGlobals(t *testing.T) {
	t.Helper()

	savedSettings, savedLogging := Settings, Logging
	Settings.OptionClasses = nil
	Settings.Classpath = nil
	Logging = DefaultLoggingOptions()

	t.Cleanup(func() {
		Settings, Logging = savedSettings, savedLogging
	})
}

func mustBuild(t *testing.T, groups ...any) *Registry {
	t.Helper()

	classes := make([]*Class, len(groups))
	for i, g := range groups {
		classes[i] = ClassOf(g)
	}
	reg, err := BuildRegistry(classes)
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}
	return reg
}

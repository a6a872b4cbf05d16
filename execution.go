// FILE: lixenwraith/execution/execution.go
package execution

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
)

// ClasspathEnv names the environment variable that seeds Settings.Classpath.
const ClasspathEnv = "EXECUTION_CLASSPATH"

// Bootstrap holds the options that steer discovery itself. They are bound
// before any class is discovered.
type Bootstrap struct {
	OptionClasses []string `option:"option_classes" gloss:"Fill options from these classes"`
	Threads       int      `option:"threads" gloss:"Number of threads on machine" validate:"gte=1"`
	Host          string   `option:"host" gloss:"Name of computer we are running on"`
	Classpath     []string `option:"classpath" gloss:"Directories and archives to scan for option classes"`
}

// Settings is the bootstrap option group of this process.
var Settings = Bootstrap{
	Threads:   runtime.NumCPU(),
	Host:      hostname(),
	Classpath: envClasspath(),
}

var bootstrapClass = MustRegister(&Settings)

func hostname() string {
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "(unknown)"
}

func envClasspath() []string {
	cp := os.Getenv(ClasspathEnv)
	if cp == "" {
		return nil
	}
	return filepath.SplitList(cp)
}

// bootstrapClasses is the fixed, non-discoverable class list of the
// bootstrap phase.
func bootstrapClasses() []*Class {
	return []*Class{bootstrapClass}
}

// fillOptions builds a registry for classes, binds props and validates.
// Reserved keys belong to another pass and are never unrecognized.
func fillOptions(log *Tracker, classes []*Class, props *Properties, strict bool, reserved []string) (*Registry, error) {
	reg, err := buildRegistry(log, classes)
	if err != nil {
		return nil, err
	}
	reg.reserve(reserved...)
	if err := reg.Bind(props, strict); err != nil {
		return reg, err
	}
	return reg, reg.Validate()
}

// discover returns the explicitly configured classes, or scans the classpath.
// A scan never yields the framework's own groups; they have their own passes.
func discover() ([]*Class, error) {
	if len(Settings.OptionClasses) == 0 {
		var classes []*Class
		for _, class := range DiscoverClasses(Settings.Classpath) {
			if !isFrameworkClass(class) {
				classes = append(classes, class)
			}
		}
		return classes, nil
	}

	var errs []error
	classes := make([]*Class, 0, len(Settings.OptionClasses))
	for _, name := range Settings.OptionClasses {
		class, err := LookupClass(strings.TrimSpace(name))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		classes = append(classes, class)
	}
	return classes, errors.Join(errs...)
}

// frameworkClasses are bound outside the main pass: the bootstrap group
// before discovery, the logging group after validation.
func frameworkClasses() []*Class {
	return []*Class{bootstrapClass, loggingClass}
}

func isFrameworkClass(class *Class) bool {
	for _, c := range frameworkClasses() {
		if c == class {
			return true
		}
	}
	return false
}

// withBootstrap appends the framework's own classes, skipping any already
// present. Used to collect every name a property source may supply.
func withBootstrap(classes []*Class) []*Class {
	seen := make(map[*Class]bool, len(classes))
	out := make([]*Class, 0, len(classes)+2)
	for _, c := range append(append([]*Class(nil), classes...), frameworkClasses()...) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// configure runs the bootstrap, discovery, bind and validate phases. A nil
// classes slice means discovery decides.
func configure(log *Tracker, props *Properties, classes []*Class, strict bool) (*Registry, error) {
	if _, err := fillOptions(log, bootstrapClasses(), props, false, nil); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	if classes == nil {
		discovered, err := discover()
		if err != nil {
			return nil, fmt.Errorf("discovery: %w", err)
		}
		classes = discovered
	}
	log.Debug().Int("classes", len(classes)).Msg("option classes selected")

	var reserved []string
	if strict {
		reserved = optionNames(frameworkClasses())
	}
	return fillOptions(log, classes, props, strict, reserved)
}

// FillOptions binds the options of every discovered class from args
// overlaid with props. Values in props win over the command line.
func FillOptions(props *Properties, args []string) (*Registry, error) {
	options, err := ArgsToProperties(args)
	if err != nil {
		return nil, err
	}
	return configure(Log(), options.Merge(props), nil, false)
}

// UsingOptions binds args to an explicit class list, skipping discovery.
func UsingOptions(classes []*Class, args []string) (*Registry, error) {
	options, err := ArgsToProperties(args)
	if err != nil {
		return nil, err
	}
	return configure(Log(), options, classes, false)
}

// Exec configures the process from props and runs run. It returns 0 on
// success and 1 when configuration fails or run fails; with exit set the
// process terminates with that status instead.
func Exec(run func() error, props *Properties, exit bool) int {
	return NewBuilder().
		WithArgs(nil).
		WithProperties(props).
		WithExit(exit).
		Run(run)
}

// ExecArgs is Exec with properties parsed from args.
func ExecArgs(run func() error, args []string, exit bool) int {
	return NewBuilder().
		WithArgs(args).
		WithExit(exit).
		Run(run)
}

// safeRun calls run, converting a panic into an error.
func safeRun(run func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	if run == nil {
		return nil
	}
	return run()
}

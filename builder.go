// File: lixenwraith/execution/builder.go
package execution

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// Builder provides a fluent interface for configuring and running a program.
//
// Property precedence, highest first: WithProperties, command line,
// environment, property file.
type Builder struct {
	args         []string
	props        *Properties
	file         string
	search       *PropertySearch
	envPrefix    string
	envTransform EnvTransformFunc
	classes      []*Class
	strict       bool
	exit         bool
}

// NewBuilder creates a builder reading os.Args[1:].
func NewBuilder() *Builder {
	return &Builder{
		args: os.Args[1:],
	}
}

// WithArgs sets the command-line arguments
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithProperties sets properties that override every other source
func (b *Builder) WithProperties(props *Properties) *Builder {
	b.props = props
	return b
}

// WithFile sets a property file read underneath the command line
func (b *Builder) WithFile(path string) *Builder {
	b.file = path
	return b
}

// WithPropertySearch looks for the property file when WithFile names none.
// The search runs when properties are resolved.
func (b *Builder) WithPropertySearch(search PropertySearch) *Builder {
	b.search = &search
	return b
}

// WithEnvPrefix enables environment variables named PREFIX_OPTION_NAME.
// The separating underscore is added when prefix lacks it.
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	b.envPrefix = prefix
	return b
}

// WithEnvTransform sets a custom environment variable transformer
func (b *Builder) WithEnvTransform(fn EnvTransformFunc) *Builder {
	b.envTransform = fn
	return b
}

// WithClasses binds an explicit class list instead of discovering classes
func (b *Builder) WithClasses(classes ...*Class) *Builder {
	b.classes = append([]*Class{}, classes...)
	return b
}

// WithStrict makes unrecognized keys fatal
func (b *Builder) WithStrict(strict bool) *Builder {
	b.strict = strict
	return b
}

// WithExit makes Run terminate the process with its status
func (b *Builder) WithExit(exit bool) *Builder {
	b.exit = exit
	return b
}

// propertyFile reads the file source. An explicit file wins over a search.
func (b *Builder) propertyFile() (*Properties, error) {
	path := b.file
	if path == "" && b.search != nil {
		found, ok := b.search.Find()
		if !ok {
			Log().Debug().Str("name", b.search.Name).Msg("no property file found")
			return NewProperties(), nil
		}
		path = found
	}
	if path == "" {
		return NewProperties(), nil
	}

	props, err := LoadFile(path)
	switch {
	case errors.Is(err, ErrConfigNotFound):
		Log().Warn().Str("file", path).Msg("property file not found")
		return NewProperties(), nil
	case err != nil:
		return nil, err
	}
	Log().Debug().Str("file", path).Int("properties", props.Len()).Msg("loaded property file")
	return props, nil
}

// properties merges every configured source.
func (b *Builder) properties() (*Properties, error) {
	merged, err := b.propertyFile()
	if err != nil {
		return nil, err
	}

	if b.envPrefix != "" || b.envTransform != nil {
		candidates := b.classes
		if candidates == nil {
			candidates = Classes()
		}
		names := optionNames(withBootstrap(candidates))
		merged = merged.Merge(LoadEnv(b.envPrefix, names, b.envTransform))
	}

	cli, err := ArgsToProperties(b.args)
	if err != nil {
		return nil, err
	}
	return merged.Merge(cli).Merge(b.props), nil
}

// Build resolves properties and binds and validates every option without
// running anything.
func (b *Builder) Build() (*Registry, error) {
	props, err := b.properties()
	if err != nil {
		return nil, err
	}
	return configure(Log(), props, b.classes, b.strict)
}

// Run configures the process and runs fn. Failures of fn, returned or
// panicked, are logged and yield status 1; they never escape Run.
func (b *Builder) Run(fn func() error) int {
	code := b.run(fn)
	if b.exit {
		exitFunc(code)
	}
	return code
}

func (b *Builder) run(fn func() error) int {
	runID := uuid.NewString()
	log := Log().With("run_id", runID)

	props, err := b.properties()
	if err != nil {
		log.Error().Err(err).Msg("could not read properties")
		return 1
	}

	log.StartTrack("init")
	_, err = configure(log, props, b.classes, b.strict)
	log.EndTrack("init")
	if err != nil {
		log.Error().Err(err).Msg("configuration failed")
		return 1
	}

	tracker, err := ConfigureLogging(props)
	if err != nil {
		log.Error().Err(err).Msg("could not configure logging")
		return 1
	}
	log = tracker.With("run_id", runID)

	code := 0
	log.StartTrack("main")
	if err := safeRun(fn); err != nil {
		log.Force().Err(err).Msg("uncaught failure")
		code = 1
	}
	log.EndTrack("main")
	return code
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Registry {
	reg, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("option binding failed: %v", err))
	}
	return reg
}

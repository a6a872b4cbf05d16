// FILE: lixenwraith/execution/args.go
package execution

import (
	"fmt"
	"strconv"
	"strings"
)

// propertyFileKeys name arguments whose value is a property file to load
// underneath the command line.
var propertyFileKeys = map[string]bool{
	"props":  true,
	"prop":   true,
	"config": true,
}

// ArgsToProperties converts an argument vector into ordered properties.
//
// Recognized forms are "-key value", "--key value", "-key=value" and bare
// "-flag" (stored as "true"). Arguments that are not flags are joined with
// spaces under the empty key; everything after "--" is positional. Values of
// -props, -prop and -config are loaded as property files whose values the
// command line overrides.
func ArgsToProperties(args []string) (*Properties, error) {
	cli := NewProperties()
	var files []string
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !isFlag(arg) {
			positional = append(positional, arg)
			continue
		}

		key := strings.TrimLeft(arg, "-")
		if key == "" {
			positional = append(positional, args[i+1:]...)
			break
		}

		var value string
		if k, v, ok := strings.Cut(key, "="); ok {
			key, value = k, v
		} else if i+1 < len(args) && !isFlag(args[i+1]) {
			value = args[i+1]
			i++
		} else {
			value = "true"
		}

		if !isValidKey(key) {
			return nil, fmt.Errorf("%w: invalid key %q", ErrCLIParse, key)
		}

		if propertyFileKeys[strings.ToLower(key)] {
			files = append(files, value)
			continue
		}
		cli.Set(key, unquote(value))
	}

	if len(positional) > 0 {
		cli.Set("", strings.Join(positional, " "))
	}

	base := NewProperties()
	for _, file := range files {
		fileProps, err := LoadFile(file)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCLIParse, err)
		}
		base = base.Merge(fileProps)
	}
	return base.Merge(cli), nil
}

// isFlag reports whether arg starts a key. Negative numbers are values.
func isFlag(arg string) bool {
	if len(arg) < 2 || arg[0] != '-' {
		return arg == "--"
	}
	if _, err := strconv.ParseFloat(arg, 64); err == nil {
		return false
	}
	return true
}

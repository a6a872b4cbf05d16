// FILE: lixenwraith/execution/loader.go
package execution

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// MaxFileSize bounds property files read by LoadFile.
const MaxFileSize = 10 << 20

// EnvTransformFunc converts an option name to an environment variable name
type EnvTransformFunc func(name string) string

// LoadFile reads a TOML, YAML or JSON document and flattens it into
// properties with dot-separated keys. Lists become comma-separated values.
func LoadFile(path string) (*Properties, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat property file '%s': %w", path, err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("property file '%s' exceeds maximum size %d bytes", path, MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read property file '%s': %w", path, err)
	}

	format := detectFileFormat(path)
	if format == "" {
		format = detectFormatFromContent(data)
	}

	doc := make(map[string]any)
	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse TOML property file '%s': %w", path, err)
		}
	case "json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON property file '%s': %w", path, err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML property file '%s': %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unable to determine format for property file '%s'", path)
	}

	return flatProperties(doc), nil
}

// LoadEnv collects environment variables for the given option names.
// With a nil transform, "log.level" and prefix "APP" or "APP_" map to
// APP_LOG_LEVEL.
func LoadEnv(prefix string, names []string, transform EnvTransformFunc) *Properties {
	if transform == nil {
		transform = defaultEnvTransform(prefix)
	}

	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	props := NewProperties()
	for _, name := range sorted {
		if value, exists := os.LookupEnv(transform(name)); exists {
			props.Set(name, value)
		}
	}
	return props
}

// defaultEnvTransform creates the default environment variable transformer
func defaultEnvTransform(prefix string) EnvTransformFunc {
	if prefix != "" && !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}
	return func(name string) string {
		env := strings.ReplaceAll(name, ".", "_")
		env = strings.ReplaceAll(env, "-", "_")
		return prefix + strings.ToUpper(env)
	}
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	// JSON first; YAML would also accept it
	var jsonTest map[string]any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}

	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}

	var yamlTest map[string]any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return "yaml"
	}

	return ""
}

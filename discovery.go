// FILE: lixenwraith/execution/discovery.go
package execution

import (
	"os"
	"path/filepath"
	"strings"
)

// propertyExtensions are the file extensions LoadFile recognizes by name.
var propertyExtensions = []string{".toml", ".yaml", ".yml", ".json"}

// PropertySearch describes where a program looks for its property file
// when none is named explicitly.
type PropertySearch struct {
	Name       string   // base name, without extension
	Extensions []string // tried in order within each directory; default propertyExtensions
	Dirs       []string // searched before the standard locations
	EnvVar     string   // names the file directly and ends the search
	WorkingDir bool
	UserConfig bool // user config dir, then $XDG_CONFIG_DIRS (or /etc/xdg), then /etc
}

// DefaultPropertySearch searches the working directory and the config
// directories for program.toml, program.yaml and so on. PROGRAM_PROPS names
// a file directly.
func DefaultPropertySearch(program string) PropertySearch {
	env := strings.ToUpper(strings.ReplaceAll(program, "-", "_")) + "_PROPS"
	return PropertySearch{
		Name:       program,
		EnvVar:     env,
		WorkingDir: true,
		UserConfig: true,
	}
}

// Paths lists every candidate file in probe order.
func (s PropertySearch) Paths() []string {
	dirs := append([]string(nil), s.Dirs...)
	if s.WorkingDir {
		if cwd, err := os.Getwd(); err == nil {
			dirs = append(dirs, cwd)
		}
	}
	if s.UserConfig {
		dirs = append(dirs, configDirs(s.Name)...)
	}

	exts := s.Extensions
	if len(exts) == 0 {
		exts = propertyExtensions
	}
	paths := make([]string, 0, len(dirs)*len(exts))
	for _, dir := range dirs {
		for _, ext := range exts {
			paths = append(paths, filepath.Join(dir, s.Name+ext))
		}
	}
	return paths
}

// Find returns the property file to load. A path from EnvVar is returned
// whether or not it exists, so the loader can report it; otherwise the
// first existing regular file among Paths wins.
func (s PropertySearch) Find() (string, bool) {
	if s.EnvVar != "" {
		if path := os.Getenv(s.EnvVar); path != "" {
			return path, true
		}
	}
	for _, path := range s.Paths() {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}

// configDirs returns the per-program config directories, user first.
func configDirs(name string) []string {
	var dirs []string
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, name))
	}

	system := filepath.SplitList(os.Getenv("XDG_CONFIG_DIRS"))
	if len(system) == 0 {
		system = []string{"/etc/xdg"}
	}
	for _, dir := range system {
		dirs = append(dirs, filepath.Join(dir, name))
	}
	return append(dirs, filepath.Join("/etc", name))
}

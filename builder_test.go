// FILE: lixenwraith/execution/builder_test.go
package execution

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuilder tests property source layering
func TestBuilder(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "app.toml")
	require.NoError(t, os.WriteFile(file, []byte("port = 1\nhosts = [\"f\"]\n"), 0644))

	tests := []struct {
		name  string
		env   bool
		args  []string
		props *Properties
		want  int
	}{
		{"FileOnly", false, nil, nil, 1},
		{"EnvOverFile", true, nil, nil, 2},
		{"ArgsOverEnv", true, []string{"-port", "3"}, nil, 3},
		{"PropsOverArgs", true, []string{"-port", "3"}, PropertiesOf("port", "4"), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobals(t)
			if tt.env {
				t.Setenv("APP_PORT", "2")
			}

			group := &portGroup{}
			hosts := &hostsGroup{}
			reg, err := NewBuilder().
				WithArgs(tt.args).
				WithFile(file).
				WithEnvPrefix("APP_").
				WithProperties(tt.props).
				WithClasses(ClassOf(group), ClassOf(hosts)).
				Build()

			require.NoError(t, err)
			assert.Equal(t, tt.want, group.Port)
			assert.Equal(t, []string{"f"}, hosts.Hosts)
			assert.True(t, reg.Fulfilled("port"))
		})
	}
}

func TestBuilderOptions(t *testing.T) {
	t.Run("MissingFileWarns", func(t *testing.T) {
		resetGlobals(t)
		buf := captureLog(t)

		hosts := &hostsGroup{}
		_, err := NewBuilder().
			WithArgs([]string{"-hosts", "a"}).
			WithFile(filepath.Join(t.TempDir(), "absent.toml")).
			WithClasses(ClassOf(hosts)).
			Build()

		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, hosts.Hosts)
		assert.Contains(t, buf.String(), "property file not found")
	})

	t.Run("MalformedFileFails", func(t *testing.T) {
		resetGlobals(t)
		file := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(file, []byte("port = = 1"), 0644))

		_, err := NewBuilder().WithArgs(nil).WithFile(file).WithClasses(ClassOf(&hostsGroup{})).Build()
		assert.Error(t, err)
	})

	t.Run("EnvTransform", func(t *testing.T) {
		resetGlobals(t)
		t.Setenv("custom.port", "77")

		group := &portGroup{}
		_, err := NewBuilder().
			WithArgs(nil).
			WithEnvTransform(func(name string) string { return "custom." + name }).
			WithClasses(ClassOf(group)).
			Build()

		require.NoError(t, err)
		assert.Equal(t, 77, group.Port)
	})

	t.Run("BootstrapFromEnv", func(t *testing.T) {
		resetGlobals(t)
		t.Setenv("APP_THREADS", "5")

		_, err := NewBuilder().
			WithArgs(nil).
			WithEnvPrefix("APP_").
			WithClasses(ClassOf(&hostsGroup{})).
			Build()

		require.NoError(t, err)
		assert.Equal(t, 5, Settings.Threads)
	})

	t.Run("MustBuildPanics", func(t *testing.T) {
		resetGlobals(t)
		captureLog(t)

		assert.Panics(t, func() {
			NewBuilder().WithArgs(nil).WithClasses(ClassOf(&portGroup{})).MustBuild()
		})
	})
}

// TestPropertySearch tests locating the property file
func TestPropertySearch(t *testing.T) {
	t.Run("Dirs", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "demo.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port: 5\n"), 0644))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "demo.toml"), 0755))

		search := PropertySearch{Name: "demo", Dirs: []string{filepath.Join(dir, "missing"), dir}}
		found, ok := search.Find()
		require.True(t, ok)
		assert.Equal(t, path, found, "directories named like the file are passed over")
	})

	t.Run("EnvVarWins", func(t *testing.T) {
		explicit := filepath.Join(t.TempDir(), "explicit.toml")
		t.Setenv("MY_DEMO_PROPS", explicit)

		search := DefaultPropertySearch("my-demo")
		assert.Equal(t, "MY_DEMO_PROPS", search.EnvVar)
		found, ok := search.Find()
		assert.True(t, ok)
		assert.Equal(t, explicit, found)
	})

	t.Run("NothingFound", func(t *testing.T) {
		search := PropertySearch{Name: "demo", Dirs: []string{t.TempDir()}}
		_, ok := search.Find()
		assert.False(t, ok)
	})

	t.Run("Paths", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/xdg/home")
		t.Setenv("XDG_CONFIG_DIRS", "/xdg/a"+string(os.PathListSeparator)+"/xdg/b")

		search := PropertySearch{Name: "demo", Extensions: []string{".toml"}, Dirs: []string{"/opt"}, UserConfig: true}
		assert.Equal(t, []string{
			"/opt/demo.toml",
			"/xdg/home/demo/demo.toml",
			"/xdg/a/demo/demo.toml",
			"/xdg/b/demo/demo.toml",
			"/etc/demo/demo.toml",
		}, search.Paths())
	})

	t.Run("BuilderLoadsFoundFile", func(t *testing.T) {
		resetGlobals(t)
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "demo.toml"), []byte("port = 6\n"), 0644))

		group := &portGroup{}
		_, err := NewBuilder().
			WithArgs(nil).
			WithPropertySearch(PropertySearch{Name: "demo", Dirs: []string{dir}}).
			WithClasses(ClassOf(group)).
			Build()

		require.NoError(t, err)
		assert.Equal(t, 6, group.Port)
	})

	t.Run("ExplicitFileWins", func(t *testing.T) {
		resetGlobals(t)
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "demo.toml"), []byte("port = 6\n"), 0644))
		explicit := filepath.Join(dir, "explicit.toml")
		require.NoError(t, os.WriteFile(explicit, []byte("port = 7\n"), 0644))

		group := &portGroup{}
		_, err := NewBuilder().
			WithArgs(nil).
			WithFile(explicit).
			WithPropertySearch(PropertySearch{Name: "demo", Dirs: []string{dir}}).
			WithClasses(ClassOf(group)).
			Build()

		require.NoError(t, err)
		assert.Equal(t, 7, group.Port)
	})

	t.Run("MissingEnvFileWarns", func(t *testing.T) {
		resetGlobals(t)
		buf := captureLog(t)
		t.Setenv("DEMO_PROPS", filepath.Join(t.TempDir(), "absent.toml"))

		hosts := &hostsGroup{}
		search := DefaultPropertySearch("demo")
		search.WorkingDir, search.UserConfig = false, false
		_, err := NewBuilder().
			WithArgs([]string{"-hosts", "a"}).
			WithPropertySearch(search).
			WithClasses(ClassOf(hosts)).
			Build()

		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, hosts.Hosts)
		assert.Contains(t, buf.String(), "property file not found")
	})
}

// FILE: lixenwraith/execution/catalog_test.go
package execution

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogGroup struct {
	Name string `option:"catalog.name"`
}

// TestClassName tests class identifier derivation
func TestClassName(t *testing.T) {
	assert.Equal(t, "github.com.lixenwraith.execution.catalogGroup", ClassName(reflect.TypeOf(catalogGroup{})))
	assert.Equal(t, "github.com.lixenwraith.execution.catalogGroup", ClassName(reflect.TypeOf(&catalogGroup{})))
	assert.Equal(t, "struct { A int }", ClassName(reflect.TypeOf(struct{ A int }{})))
}

// TestRegister tests the process-wide catalog
func TestRegister(t *testing.T) {
	t.Run("SameStorageTwice", func(t *testing.T) {
		isolateCatalog(t)
		group := &catalogGroup{}

		first, err := Register(group)
		require.NoError(t, err)
		second, err := Register(group)
		require.NoError(t, err)
		assert.Same(t, first, second)
	})

	t.Run("DifferentStorageSameName", func(t *testing.T) {
		isolateCatalog(t)

		_, err := Register(&catalogGroup{})
		require.NoError(t, err)
		_, err = Register(&catalogGroup{})
		assert.Error(t, err)
	})

	t.Run("NamedGroups", func(t *testing.T) {
		isolateCatalog(t)

		a, err := RegisterNamed("app.primary", &catalogGroup{})
		require.NoError(t, err)
		b, err := RegisterNamed("app.secondary", &catalogGroup{})
		require.NoError(t, err)
		assert.Equal(t, "app.primary", a.Name())
		assert.Equal(t, "app.secondary", b.Name())
	})

	t.Run("InvalidGroups", func(t *testing.T) {
		isolateCatalog(t)

		_, err := Register(nil)
		assert.Error(t, err)
		_, err = Register((*catalogGroup)(nil))
		assert.Error(t, err)
		_, err = Register(42)
		assert.Error(t, err)
		assert.Panics(t, func() { MustRegister("not a struct") })
		assert.Panics(t, func() { ClassOf(3.14) })
	})

	t.Run("LookupAndUnregister", func(t *testing.T) {
		isolateCatalog(t)

		class := MustRegister(&catalogGroup{})
		found, err := LookupClass(class.Name())
		require.NoError(t, err)
		assert.Same(t, class, found)
		assert.Contains(t, Classes(), class)

		require.NoError(t, Unregister(class.Name()))
		_, err = LookupClass(class.Name())
		assert.ErrorIs(t, err, ErrClassNotFound)
		assert.ErrorIs(t, Unregister(class.Name()), ErrClassNotFound)
	})

	t.Run("ClassesSorted", func(t *testing.T) {
		isolateCatalog(t)

		_, err := RegisterNamed("zz.last", &catalogGroup{})
		require.NoError(t, err)
		_, err = RegisterNamed("aa.first", &catalogGroup{})
		require.NoError(t, err)

		classes := Classes()
		for i := 1; i < len(classes); i++ {
			assert.Less(t, classes[i-1].Name(), classes[i].Name())
		}
	})
}

// TestRegisterLazy tests that lookup does not initialize a class
func TestRegisterLazy(t *testing.T) {
	isolateCatalog(t)

	loads := 0
	group := &catalogGroup{}
	_, err := RegisterLazy("lazy.Group", func() (any, error) {
		loads++
		return group, nil
	})
	require.NoError(t, err)

	class, err := LookupClass("lazy.Group")
	require.NoError(t, err)
	assert.Equal(t, 0, loads, "lookup must not run the loader")

	reg, err := BuildRegistry([]*Class{class})
	require.NoError(t, err)
	_, err = BuildRegistry([]*Class{class})
	require.NoError(t, err)
	assert.Equal(t, 1, loads, "loader runs once")

	require.NoError(t, reg.Bind(PropertiesOf("catalog.name", "lazy"), false))
	assert.Equal(t, "lazy", group.Name)

	_, err = RegisterLazy("lazy.Group", func() (any, error) { return nil, nil })
	assert.Error(t, err)
	_, err = RegisterLazy("lazy.Nil", nil)
	assert.Error(t, err)
}

// TestRegisterLazyFailure tests that a class failing to initialize is skipped
func TestRegisterLazyFailure(t *testing.T) {
	isolateCatalog(t)
	buf := captureLog(t)

	class, err := RegisterLazy("lazy.Broken", func() (any, error) {
		return nil, errors.New("static initializer failed")
	})
	require.NoError(t, err)

	reg, err := BuildRegistry([]*Class{class})
	require.NoError(t, err)
	assert.Empty(t, reg.Options())
	assert.Contains(t, buf.String(), "could not check fields for class")
	assert.Contains(t, buf.String(), "static initializer failed")
}

// FILE: lixenwraith/execution/validate_test.go
package execution

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tenRequired struct {
	A string `option:"a,required"`
	B string `option:"b,required"`
	C string `option:"c,required"`
	D string `option:"d,required"`
	E string `option:"e,required"`
	F string `option:"f,required"`
	G string `option:"g,required"`
	H string `option:"h,required"`
	I string `option:"i,required"`
	J string `option:"j,required"`
}

type aliasedRequired struct {
	Input string `option:"input,required" alt:"in, source"`
}

type constrainedGroup struct {
	Workers int    `option:"workers" validate:"gte=1,lte=64"`
	Mode    string `option:"mode" validate:"omitempty,oneof=fast safe"`
}

// TestValidateMissing tests aggregated reporting of required options
func TestValidateMissing(t *testing.T) {
	t.Run("SingleMissing", func(t *testing.T) {
		buf := captureLog(t)
		reg := mustBuild(t, &portGroup{})

		require.NoError(t, reg.Bind(NewProperties(), false))
		err := reg.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingRequired)

		var missingErr *MissingOptionsError
		require.ErrorAs(t, err, &missingErr)
		require.Len(t, missingErr.Missing, 1)
		assert.Equal(t, "port", missingErr.Missing[0].Name)
		assert.Equal(t, "github.com.lixenwraith.execution.portGroup.Port", missingErr.Missing[0].Field)

		assert.Contains(t, buf.String(), "missing required option")
		assert.Contains(t, buf.String(), `"option":"port"`)
	})

	t.Run("AllMissingReported", func(t *testing.T) {
		captureLog(t)
		reg := mustBuild(t, &tenRequired{})

		require.NoError(t, reg.Bind(PropertiesOf("unrelated", "x"), false))
		missing := reg.Missing()
		require.Len(t, missing, 10)

		names := make([]string, len(missing))
		for i, m := range missing {
			names[i] = m.Name
		}
		assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}, names)

		err := reg.Validate()
		var missingErr *MissingOptionsError
		require.ErrorAs(t, err, &missingErr)
		assert.Contains(t, missingErr.Error(), "10 missing required option(s)")
	})

	t.Run("PartiallySupplied", func(t *testing.T) {
		captureLog(t)
		reg := mustBuild(t, &tenRequired{})

		require.NoError(t, reg.Bind(PropertiesOf("a", "1", "J", "2"), false))
		assert.Len(t, reg.Missing(), 8)
	})

	t.Run("AliasFulfillsAll", func(t *testing.T) {
		group := &aliasedRequired{}
		reg := mustBuild(t, group)

		require.NoError(t, reg.Bind(PropertiesOf("source", "data.csv"), false))
		assert.Equal(t, "data.csv", group.Input)
		assert.True(t, reg.Fulfilled("input"))
		assert.True(t, reg.Fulfilled("in"))
		assert.True(t, reg.Fulfilled("source"))
		assert.Empty(t, reg.Missing())
		assert.NoError(t, reg.Validate())
	})

	t.Run("NotRequiredNeverFulfilled", func(t *testing.T) {
		reg := mustBuild(t, &hostsGroup{})

		require.NoError(t, reg.Bind(PropertiesOf("hosts", "a"), false))
		assert.False(t, reg.Fulfilled("hosts"))
		assert.NoError(t, reg.Validate())
	})
}

// TestValidateConstraints tests validate tags on bound classes
func TestValidateConstraints(t *testing.T) {
	t.Run("Satisfied", func(t *testing.T) {
		reg := mustBuild(t, &constrainedGroup{})

		require.NoError(t, reg.Bind(PropertiesOf("workers", "8", "mode", "safe"), false))
		assert.NoError(t, reg.Validate())
	})

	t.Run("Violated", func(t *testing.T) {
		buf := captureLog(t)
		reg := mustBuild(t, &constrainedGroup{}, &portGroup{})

		require.NoError(t, reg.Bind(PropertiesOf("workers", "0", "mode", "reckless"), false))
		err := reg.Validate()
		require.Error(t, err)

		// both the missing option and the constraint violation are reported
		assert.ErrorIs(t, err, ErrMissingRequired)
		assert.Contains(t, err.Error(), "Workers")
		assert.Contains(t, err.Error(), "Mode")
		assert.Contains(t, buf.String(), "option constraint violated")
	})
}

// TestMissingOptionsError tests the aggregated error message
func TestMissingOptionsError(t *testing.T) {
	err := &MissingOptionsError{Missing: []MissingOption{
		{Name: "port", Field: "app.Options.Port"},
		{Name: "user", Field: "app.Options.User"},
	}}

	assert.Equal(t, "2 missing required option(s): port <in app.Options.Port>, user <in app.Options.User>", err.Error())
	assert.True(t, errors.Is(err, ErrMissingRequired))
}

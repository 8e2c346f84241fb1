package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionStepTypeAndParams(t *testing.T) {
	step := ActionStep{
		"action_type":    ActionWait,
		"duration_seconds": 2,
	}
	assert.Equal(t, ActionWait, step.Type())
	assert.Equal(t, map[string]any{"duration_seconds": 2}, step.Params())

	// Params returns a copy
	step.Params()["duration_seconds"] = 99
	assert.Equal(t, 2, step["duration_seconds"])
}

func TestActionStepMissingType(t *testing.T) {
	assert.Equal(t, "", ActionStep{"text": "hi"}.Type())
}

func TestFailCarriesError(t *testing.T) {
	r := Fail("window %q not found", "Calc")
	assert.False(t, r.Success)
	assert.Equal(t, `window "Calc" not found`, r.Error())
}

func TestSucceedPut(t *testing.T) {
	r := Succeed(nil).Put("warning_accessibility", "fell back to vision")
	assert.True(t, r.Success)
	assert.Equal(t, "fell back to vision", r.Data["warning_accessibility"])
	assert.Equal(t, "", r.Error())
}

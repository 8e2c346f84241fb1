package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	ctx := map[string]any{
		"user_name":  "pat",
		"count":      3,
		"greeting":   "hello {{ user_name }}",
		"loop_a":     "{{ loop_b }}",
		"loop_b":     "{{ loop_a }}",
	}
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"plain string untouched", "no references here", "no references here"},
		{"simple substitution", "hi {{ user_name }}", "hi pat"},
		{"whitespace variants", "{{user_name}} and {{  user_name  }}", "pat and pat"},
		{"non-string value", "n={{ count }}", "n=3"},
		{"unknown reference left literal", "hi {{ missing }}", "hi {{ missing }}"},
		{"nested expansion", "{{ greeting }}!", "hello pat!"},
		{"empty template", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.template, ctx))
		})
	}
}

func TestResolveCycleTerminates(t *testing.T) {
	ctx := map[string]any{
		"loop_a": "{{ loop_b }}",
		"loop_b": "{{ loop_a }}",
	}
	// must return after the pass limit, not hang; exact output is a
	// still-unresolved reference
	got := Resolve("{{ loop_a }}", ctx)
	assert.Contains(t, got, "{{ loop_")
}

func TestResolveNilContext(t *testing.T) {
	assert.Equal(t, "{{ a }}", Resolve("{{ a }}", nil))
}

func TestResolveValue(t *testing.T) {
	ctx := map[string]any{"city": "Oslo"}
	in := map[string]any{
		"text":  "weather in {{ city }}",
		"count": 2,
		"list":  []any{"{{ city }}", 7},
	}
	got := ResolveValue(in, ctx).(map[string]any)
	assert.Equal(t, "weather in Oslo", got["text"])
	assert.Equal(t, 2, got["count"])
	assert.Equal(t, []any{"Oslo", 7}, got["list"])
	// input untouched
	assert.Equal(t, "weather in {{ city }}", in["text"])
}

func TestVariables(t *testing.T) {
	got := Variables("{{ a }} {{ b }} {{ a }}")
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Nil(t, Variables("none"))
}

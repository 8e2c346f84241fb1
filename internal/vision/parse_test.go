package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocateResponse(t *testing.T) {
	t.Run("clean found response", func(t *testing.T) {
		loc := ParseLocateResponse(`{"found":true,"x_center":120,"y_center":80,"x_top_left":100,"y_top_left":60,"width":40,"height":40,"reasoning":"blue button"}`)
		assert.True(t, loc.Found)
		assert.Equal(t, 120, loc.XCenter)
		assert.Equal(t, 80, loc.YCenter)
		assert.Equal(t, 40, loc.Width)
		assert.Equal(t, "blue button", loc.Reasoning)
	})

	t.Run("confidence carried through", func(t *testing.T) {
		loc := ParseLocateResponse(`{"found":true,"x_center":120,"y_center":80,"x_top_left":100,"y_top_left":60,"width":40,"height":40,"confidence":0.85}`)
		assert.True(t, loc.Found)
		assert.InDelta(t, 0.85, loc.Confidence, 1e-9)
	})

	t.Run("missing confidence stays zero", func(t *testing.T) {
		loc := ParseLocateResponse(`{"found":true,"x_center":1,"y_center":1,"x_top_left":0,"y_top_left":0,"width":2,"height":2}`)
		assert.True(t, loc.Found)
		assert.Zero(t, loc.Confidence)
	})

	t.Run("fenced response", func(t *testing.T) {
		raw := "```json\n{\"found\":false,\"reasoning\":\"not visible\"}\n```"
		loc := ParseLocateResponse(raw)
		assert.False(t, loc.Found)
		assert.Equal(t, "not visible", loc.Reasoning)
	})

	t.Run("claimed found without coordinates downgraded", func(t *testing.T) {
		loc := ParseLocateResponse(`{"found":true,"x_center":120,"y_center":80,"reasoning":"saw it"}`)
		assert.False(t, loc.Found)
		assert.Contains(t, loc.Reasoning, "saw it")
		assert.Contains(t, loc.Reasoning, "x_top_left")
	})

	t.Run("non-numeric coordinate downgraded", func(t *testing.T) {
		loc := ParseLocateResponse(`{"found":true,"x_center":"left","y_center":80,"x_top_left":1,"y_top_left":1,"width":5,"height":5}`)
		assert.False(t, loc.Found)
		assert.Contains(t, loc.Reasoning, "x_center")
	})

	t.Run("repairable JSON accepted", func(t *testing.T) {
		// trailing comma and single quotes are typical model output defects
		loc := ParseLocateResponse(`{'found': true, 'x_center': 10, 'y_center': 20, 'x_top_left': 5, 'y_top_left': 15, 'width': 10, 'height': 10,}`)
		assert.True(t, loc.Found)
		assert.Equal(t, 10, loc.XCenter)
	})

	t.Run("unparseable text becomes not-found", func(t *testing.T) {
		loc := ParseLocateResponse("I could not find the element you described.")
		assert.False(t, loc.Found)
		assert.Contains(t, loc.Reasoning, "parse")
	})
}

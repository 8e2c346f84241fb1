package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundsAbsolute(t *testing.T) {
	tests := []struct {
		name   string
		bounds Bounds
		rx, ry int
		wantX  int
		wantY  int
	}{
		{"window offset", Bounds{Left: 100, Top: 200, Width: 800, Height: 600}, 40, 60, 140, 260},
		{"zero origin window", Bounds{Left: 0, Top: 0, Width: 800, Height: 600}, 40, 60, 40, 60},
		{"full screen passthrough", FullScreen(), 512, 384, 512, 384},
		{"negative height sentinel", Bounds{Width: 100, Height: -1}, 10, 10, 10, 10},
		{"outside window not clipped", Bounds{Left: 100, Top: 200, Width: 50, Height: 50}, 400, 400, 500, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.bounds.Absolute(tt.rx, tt.ry)
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)
		})
	}
}

func TestFullScreenSentinel(t *testing.T) {
	assert.True(t, FullScreen().IsFullScreen())
	assert.False(t, Bounds{Width: 800, Height: 600}.IsFullScreen())
}

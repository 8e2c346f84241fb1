package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeControlType(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"AXButton", "btn"},
		{"Button", "btn"},
		{"Edit", "input"},
		{"AXTextField", "input"},
		{"btn", "btn"},
		{"", ""},
		{"SomethingExotic", "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeControlType(tt.raw), "raw=%s", tt.raw)
	}
}

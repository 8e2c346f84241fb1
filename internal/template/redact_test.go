package template

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggableMasksSecrets(t *testing.T) {
	ctx := map[string]any{
		"mail_password": "hunter2-secret",
		"mail_username": "pat@example.com",
	}
	got := Loggable("hunter2-secret", "{{ mail_password }}", ctx)
	assert.Equal(t, secretMask, got)

	// a password embedded in longer text is not an exact match; it is
	// previewed, matching the source of the value the caller logs
	long := "pw is hunter2-secret okay"
	assert.NotEqual(t, secretMask, Loggable(long, "pw is {{ mail_password }} okay", ctx))
}

func TestLoggablePreviewsNonSecrets(t *testing.T) {
	ctx := map[string]any{"mail_username": "pat@example.com"}
	long := strings.Repeat("x", 40)
	got := Loggable(long, "{{ mail_username }}", ctx)
	assert.Equal(t, long[:previewLen]+"...", got)

	short := "short"
	assert.Equal(t, short, Loggable(short, "{{ mail_username }}", ctx))
}

func TestRedactParams(t *testing.T) {
	ctx := map[string]any{"svc_password": "s3cret"}
	params := map[string]any{
		"text_to_type":  "{{ svc_password }}",
		"user_password": "literal",
		"element_name":  "Login",
		"timeout":       5,
	}
	got := RedactParams(params, ctx)
	assert.Equal(t, secretMask, got["text_to_type"])
	assert.Equal(t, secretMask, got["user_password"])
	assert.Equal(t, "Login", got["element_name"])
	assert.Equal(t, 5, got["timeout"])
	// original untouched
	assert.Equal(t, "{{ svc_password }}", params["text_to_type"])
}

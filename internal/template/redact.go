package template

import (
	"fmt"
	"strings"
)

const (
	secretMask = "*******"
	previewLen = 25
)

// Loggable returns a form of the resolved value that is safe to put in logs
// and error messages. If the original template referenced a context key
// ending in "_password" and the resolved value is exactly that secret, the
// whole value is masked; anything else is truncated to a short preview.
func Loggable(resolved, original string, ctx map[string]any) string {
	for _, name := range Variables(original) {
		if !strings.HasSuffix(name, "_password") {
			continue
		}
		v, ok := ctx[name]
		if !ok {
			continue
		}
		if resolved == fmt.Sprintf("%v", v) {
			return secretMask
		}
	}
	return Preview(resolved)
}

// Preview truncates s to a short prefix for log output.
func Preview(s string) string {
	if len(s) <= previewLen {
		return s
	}
	return s[:previewLen] + "..."
}

// RedactParams returns a copy of an action's parameter map with secret
// material masked: values under keys containing "password", and string
// values whose templates resolve to a *_password context secret. The result
// is for logging only.
func RedactParams(params map[string]any, ctx map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		if strings.Contains(strings.ToLower(k), "password") {
			out[k] = secretMask
			continue
		}
		if s, ok := v.(string); ok {
			out[k] = Loggable(Resolve(s, ctx), s, ctx)
			continue
		}
		out[k] = v
	}
	return out
}

// Package template substitutes {{ variable }} references in action
// parameters with values from the execution context.
package template

import (
	"fmt"
	"regexp"

	"deskpilot/pkg/logging"
)

var varPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// maxPasses bounds the fixed-point iteration so that values which expand to
// further references resolve, while reference cycles terminate.
const maxPasses = 5

// Resolve substitutes every {{ name }} reference in s with the context value
// under that name, repeating until no substitution changes the string or the
// pass limit is reached. References to absent keys stay literal. Resolution
// never fails: a template that cannot be processed is returned unchanged.
func Resolve(s string, ctx map[string]any) string {
	if s == "" || ctx == nil {
		return s
	}
	out := s
	for pass := 0; pass < maxPasses; pass++ {
		next := varPattern.ReplaceAllStringFunc(out, func(ref string) string {
			name := varPattern.FindStringSubmatch(ref)[1]
			v, ok := ctx[name]
			if !ok {
				return ref
			}
			return fmt.Sprintf("%v", v)
		})
		if next == out {
			return next
		}
		out = next
	}
	logging.Debug("template", "reference substitution did not converge after %d passes", maxPasses)
	return out
}

// ResolveValue resolves references inside a parameter value of any shape:
// strings are substituted, maps and slices are walked recursively, other
// types pass through unchanged.
func ResolveValue(v any, ctx map[string]any) any {
	switch val := v.(type) {
	case string:
		return Resolve(val, ctx)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = ResolveValue(item, ctx)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = ResolveValue(item, ctx)
		}
		return out
	default:
		return v
	}
}

// Variables returns the distinct reference names appearing in s, in order of
// first appearance.
func Variables(s string) []string {
	seen := map[string]bool{}
	var names []string
	for _, m := range varPattern.FindAllStringSubmatch(s, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

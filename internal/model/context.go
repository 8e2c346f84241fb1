package model

// MergeResult merges a step's result data into the execution context and
// returns the context for chaining. A nil-valued key in data is a deletion
// request: the key is removed from both the context and the data map before
// the remaining entries are copied in. Both maps are modified in place.
func MergeResult(ctx, data map[string]any) map[string]any {
	for k, v := range data {
		if v == nil {
			delete(ctx, k)
			delete(data, k)
		}
	}
	for k, v := range data {
		ctx[k] = v
	}
	return ctx
}

// CloneContext returns a shallow copy of an execution context.
func CloneContext(ctx map[string]any) map[string]any {
	out := make(map[string]any, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}

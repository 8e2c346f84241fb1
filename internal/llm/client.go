// Package llm abstracts the generative backend used for planning, intent
// extraction, vision-based element location and text generation.
package llm

import "context"

// Client is the generative backend port. Implementations retry transient
// transport failures internally; callers treat a returned error as final
// for the current step.
type Client interface {
	// GenerateText returns the model's text completion for the prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// AnalyzeImage answers a prompt about a PNG image.
	AnalyzeImage(ctx context.Context, png []byte, prompt string) (string, error)
}

package llm

import "context"

// Mock is a scripted Client for tests. Responses are consumed in order;
// when the script runs out the last entry repeats.
type Mock struct {
	TextResponses  []string
	ImageResponses []string
	Err            error

	TextPrompts  []string
	ImagePrompts []string

	textIdx  int
	imageIdx int
}

func (m *Mock) GenerateText(_ context.Context, prompt string) (string, error) {
	m.TextPrompts = append(m.TextPrompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return take(m.TextResponses, &m.textIdx), nil
}

func (m *Mock) AnalyzeImage(_ context.Context, _ []byte, prompt string) (string, error) {
	m.ImagePrompts = append(m.ImagePrompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return take(m.ImageResponses, &m.imageIdx), nil
}

func take(responses []string, idx *int) string {
	if len(responses) == 0 {
		return ""
	}
	i := *idx
	if i >= len(responses) {
		i = len(responses) - 1
	} else {
		*idx++
	}
	return responses[i]
}

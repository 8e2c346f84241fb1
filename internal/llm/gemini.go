package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"deskpilot/pkg/logging"
)

const (
	geminiEndpoint     = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultTextModel   = "gemini-1.5-flash-latest"
	defaultVisionModel = "gemini-1.5-flash-latest"

	maxAttempts  = 3
	retryBackoff = 2 * time.Second
)

// GeminiConfig configures the Gemini REST client.
type GeminiConfig struct {
	APIKey      string
	TextModel   string
	VisionModel string
	HTTPClient  *http.Client
}

// Gemini talks to the Google Generative Language REST API.
type Gemini struct {
	cfg      GeminiConfig
	http     *http.Client
	endpoint string
	backoff  time.Duration
}

// NewGemini creates a Gemini client. The API key falls back to the
// GEMINI_API_KEY environment variable.
func NewGemini(cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key not configured (set GEMINI_API_KEY)")
	}
	if cfg.TextModel == "" {
		cfg.TextModel = defaultTextModel
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = defaultVisionModel
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 90 * time.Second}
	}
	return &Gemini{cfg: cfg, http: httpClient, endpoint: geminiEndpoint, backoff: retryBackoff}, nil
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// GenerateText returns the model's completion for a text-only prompt.
func (g *Gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, g.cfg.TextModel, []geminiPart{{Text: prompt}})
}

// AnalyzeImage answers a prompt about a PNG image.
func (g *Gemini) AnalyzeImage(ctx context.Context, png []byte, prompt string) (string, error) {
	parts := []geminiPart{
		{Text: prompt},
		{InlineData: &geminiInlineData{
			MimeType: "image/png",
			Data:     base64.StdEncoding.EncodeToString(png),
		}},
	}
	return g.generate(ctx, g.cfg.VisionModel, parts)
}

func (g *Gemini) generate(ctx context.Context, model string, parts []geminiPart) (string, error) {
	body, err := json.Marshal(geminiRequest{Contents: []geminiContent{{Parts: parts}}})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.endpoint, model, g.cfg.APIKey)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			logging.Warn("llm", "gemini request retry %d/%d: %v", attempt, maxAttempts, lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(g.backoff):
			}
		}
		text, retryable, err := g.doRequest(ctx, url, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return "", fmt.Errorf("gemini request failed: %w", lastErr)
}

// doRequest performs one attempt. The second return value reports whether
// the failure is worth retrying (transport errors, 5xx, 429).
func (g *Gemini) doRequest(ctx context.Context, url string, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", true, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return "", retryable, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(data), 300))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", false, fmt.Errorf("decoding response: %w", err)
	}
	if parsed.PromptFeedback != nil && parsed.PromptFeedback.BlockReason != "" {
		return "", false, fmt.Errorf("prompt blocked: %s", parsed.PromptFeedback.BlockReason)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", false, fmt.Errorf("empty response from model")
	}
	var out string
	for _, p := range parsed.Candidates[0].Content.Parts {
		out += p.Text
	}
	return out, false, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

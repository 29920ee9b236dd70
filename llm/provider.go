package llm

import "context"

// TextOptions tunes a single text-completion call. Zero values fall back to
// the package defaults.
type TextOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// ImageOptions tunes a single image-generation call.
type ImageOptions struct {
	Model   string
	Size    string
	Quality string
	N       int
}

// Usage is the token accounting returned by the text endpoint.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// TextResult is the extracted payload of a text-completion call.
type TextResult struct {
	Content string
	Model   string
	Usage   Usage
}

// ImageResult carries the base64-encoded images of one generation call.
type ImageResult struct {
	B64   []string
	Model string
}

// Generator abstracts the two remote generation endpoints so the
// orchestrator can be tested against a mock. Neither operation retries;
// retry policy belongs to the caller.
type Generator interface {
	GenerateText(ctx context.Context, prompt string, opts TextOptions) (TextResult, error)
	GenerateImage(ctx context.Context, prompt string, opts ImageOptions) (ImageResult, error)
}

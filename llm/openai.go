package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/keycontent/keycontent/types"
)

// OpenAIClient implements Generator against an OpenAI-compatible API.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	sink       types.EventSink
}

// NewOpenAIClient creates a client. baseURL may be empty to use the public
// endpoint; sink may be nil to discard debug events.
func NewOpenAIClient(apiKey, baseURL string, timeout time.Duration, sink types.EventSink) *OpenAIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if sink == nil {
		sink = types.NopSink{}
	}
	return &OpenAIClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		sink:       sink,
	}
}

// chatRequestPayload defines the structure of the text-completion request.
type chatRequestPayload struct {
	Model               string          `json:"model"`
	Messages            []chatMessage   `json:"messages"`
	Temperature         float64         `json:"temperature,omitempty"`
	MaxCompletionTokens int             `json:"max_completion_tokens,omitempty"`
	ResponseFormat      *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatResponsePayload defines the structure of the text-completion response.
type chatResponsePayload struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

// imageRequestPayload defines the structure of the image-generation request.
type imageRequestPayload struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Size    string `json:"size,omitempty"`
	Quality string `json:"quality,omitempty"`
	N       int    `json:"n,omitempty"`
}

// imageResponsePayload defines the structure of the image-generation response.
type imageResponsePayload struct {
	Created int64 `json:"created"`
	Data    []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// errorEnvelope is the provider's error body shape for non-200 responses.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// GenerateText runs one chat completion requesting a JSON-object response.
// It makes a single attempt; failures are classified, never retried here.
func (c *OpenAIClient) GenerateText(ctx context.Context, prompt string, opts TextOptions) (TextResult, error) {
	if c.apiKey == "" {
		return TextResult{}, types.NewPipelineError(types.CodeAuth, "API key is not set")
	}
	if opts.Model == "" {
		opts.Model = DefaultTextModel
	}
	if opts.Temperature == 0 {
		opts.Temperature = DefaultTemperature
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = DefaultMaxTokens
	}

	payload := chatRequestPayload{
		Model:               opts.Model,
		Messages:            []chatMessage{{Role: "user", Content: prompt}},
		Temperature:         opts.Temperature,
		MaxCompletionTokens: opts.MaxTokens,
		ResponseFormat:      &responseFormat{Type: "json_object"},
	}

	c.sink.Record("api_text_request", map[string]any{
		"endpoint":     c.baseURL + chatCompletionsURL,
		"model":        opts.Model,
		"promptLength": len(prompt),
		"temperature":  opts.Temperature,
		"maxTokens":    opts.MaxTokens,
	}, false)

	raw, status, err := c.post(ctx, chatCompletionsURL, payload)
	if err != nil {
		c.sink.Record("api_text_response", map[string]any{"errorKind": string(types.CodeOf(err)), "error": err.Error()}, true)
		return TextResult{}, err
	}
	if status != http.StatusOK {
		rerr := remoteError(status, raw)
		c.sink.Record("api_text_response", map[string]any{"status": status, "errorKind": string(types.CodeRemote), "error": rerr.Error()}, true)
		return TextResult{}, rerr
	}

	var resp chatResponsePayload
	if err := json.Unmarshal(raw, &resp); err != nil {
		derr := types.WrapPipelineError(types.CodeDecode, "response body is not valid JSON", err)
		c.sink.Record("api_text_response", map[string]any{"status": status, "errorKind": string(types.CodeDecode)}, true)
		return TextResult{}, derr
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		serr := types.NewPipelineError(types.CodeResponseShape, "response contains no message content")
		c.sink.Record("api_text_response", map[string]any{"status": status, "errorKind": string(types.CodeResponseShape)}, true)
		return TextResult{}, serr
	}

	content := resp.Choices[0].Message.Content
	c.sink.Record("api_text_response", map[string]any{
		"status":        status,
		"model":         resp.Model,
		"contentLength": len(content),
		"content":       content,
		"totalTokens":   resp.Usage.TotalTokens,
	}, false)

	return TextResult{Content: content, Model: resp.Model, Usage: resp.Usage}, nil
}

// GenerateImage runs one image generation returning base64 payloads.
func (c *OpenAIClient) GenerateImage(ctx context.Context, prompt string, opts ImageOptions) (ImageResult, error) {
	if c.apiKey == "" {
		return ImageResult{}, types.NewPipelineError(types.CodeAuth, "API key is not set")
	}
	if opts.Model == "" {
		opts.Model = DefaultImageModel
	}
	if opts.Size == "" {
		opts.Size = DefaultImageSize
	}
	if opts.Quality == "" {
		opts.Quality = DefaultImageQual
	}
	if opts.N <= 0 {
		opts.N = 1
	}

	payload := imageRequestPayload{
		Model:   opts.Model,
		Prompt:  prompt,
		Size:    opts.Size,
		Quality: opts.Quality,
		N:       opts.N,
	}

	c.sink.Record("api_image_request", map[string]any{
		"endpoint":     c.baseURL + imagesURL,
		"model":        opts.Model,
		"promptLength": len(prompt),
		"size":         opts.Size,
		"quality":      opts.Quality,
		"n":            opts.N,
	}, false)

	raw, status, err := c.post(ctx, imagesURL, payload)
	if err != nil {
		c.sink.Record("api_image_response", map[string]any{"errorKind": string(types.CodeOf(err)), "error": err.Error()}, true)
		return ImageResult{}, err
	}
	if status != http.StatusOK {
		rerr := remoteError(status, raw)
		c.sink.Record("api_image_response", map[string]any{"status": status, "errorKind": string(types.CodeRemote), "error": rerr.Error()}, true)
		return ImageResult{}, rerr
	}

	var resp imageResponsePayload
	if err := json.Unmarshal(raw, &resp); err != nil {
		derr := types.WrapPipelineError(types.CodeDecode, "response body is not valid JSON", err)
		c.sink.Record("api_image_response", map[string]any{"status": status, "errorKind": string(types.CodeDecode)}, true)
		return ImageResult{}, derr
	}

	images := make([]string, 0, len(resp.Data))
	for _, d := range resp.Data {
		if d.B64JSON != "" {
			images = append(images, d.B64JSON)
		}
	}
	if len(images) == 0 {
		serr := types.NewPipelineError(types.CodeResponseShape, "response data array is empty or malformed")
		c.sink.Record("api_image_response", map[string]any{"status": status, "errorKind": string(types.CodeResponseShape)}, true)
		return ImageResult{}, serr
	}

	c.sink.Record("api_image_response", map[string]any{
		"status": status,
		"images": len(images),
		"bytes":  len(images[0]),
	}, false)

	return ImageResult{B64: images, Model: opts.Model}, nil
}

// post executes one JSON POST and returns the raw body and status code.
// Network and request-building failures come back as transport errors.
func (c *OpenAIClient) post(ctx context.Context, path string, payload any) ([]byte, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, types.WrapPipelineError(types.CodeTransport, "failed to encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, 0, types.WrapPipelineError(types.CodeTransport, "failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if strings.Contains(err.Error(), "context deadline exceeded") || strings.Contains(err.Error(), "Client.Timeout exceeded") {
			return nil, 0, types.WrapPipelineError(types.CodeTransport, fmt.Sprintf("request timed out after %v", c.httpClient.Timeout), err)
		}
		return nil, 0, types.WrapPipelineError(types.CodeTransport, "network failure", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, types.WrapPipelineError(types.CodeTransport, "failed to read response body", err)
	}
	return raw, resp.StatusCode, nil
}

// remoteError classifies a non-200 response, extracting the provider's
// message from its error envelope when one is present.
func remoteError(status int, raw []byte) error {
	msg := fmt.Sprintf("API request failed with status %d", status)
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error.Message != "" {
		msg = env.Error.Message
	}
	return &types.PipelineError{Code: types.CodeRemote, Message: msg, Status: status}
}

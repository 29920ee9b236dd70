package llm

import "time"

// Endpoint paths relative to the API base URL.
const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	chatCompletionsURL = "/chat/completions"
	imagesURL          = "/images/generations"
)

// Call defaults. Every call is a single attempt with a bounded timeout so a
// stuck remote call cannot hang a batch.
const (
	DefaultTextModel   = "gpt-4o"
	DefaultImageModel  = "gpt-image-1"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4000
	DefaultImageSize   = "auto"
	DefaultImageQual   = "auto"
	DefaultTimeout     = 2 * time.Minute
)

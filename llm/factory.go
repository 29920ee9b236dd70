package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/keycontent/keycontent/types"
)

// NewGenerator is a factory function that returns a Generator based on the
// provided LLM configuration.
func NewGenerator(config *types.LLMConfig, sink types.EventSink) (Generator, error) {
	if config == nil {
		return nil, fmt.Errorf("LLM configuration cannot be nil")
	}

	provider := strings.ToLower(strings.TrimSpace(config.Provider))
	if provider == "" {
		provider = "openai"
	}

	switch provider {
	case "openai":
		timeout := DefaultTimeout
		if config.RequestTimeoutSeconds > 0 {
			timeout = time.Duration(config.RequestTimeoutSeconds) * time.Second
		}
		return NewOpenAIClient(config.APIKey, config.BaseURL, timeout, sink), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", config.Provider)
	}
}

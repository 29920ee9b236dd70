package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keycontent/keycontent/types"
)

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		name    string
		config  *types.LLMConfig
		wantErr bool
	}{
		{name: "nil config", config: nil, wantErr: true},
		{name: "default provider", config: &types.LLMConfig{APIKey: "k"}, wantErr: false},
		{name: "explicit openai", config: &types.LLMConfig{Provider: "openai", APIKey: "k"}, wantErr: false},
		{name: "unknown provider", config: &types.LLMConfig{Provider: "dalle-self-hosted"}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen, err := NewGenerator(tc.config, nil)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, &OpenAIClient{}, gen)
		})
	}
}

func TestNewGenerator_TimeoutFromConfig(t *testing.T) {
	gen, err := NewGenerator(&types.LLMConfig{APIKey: "k", RequestTimeoutSeconds: 30}, nil)
	require.NoError(t, err)
	client := gen.(*OpenAIClient)
	assert.Equal(t, float64(30), client.httpClient.Timeout.Seconds())
}

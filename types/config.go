package types

import "github.com/keycontent/keycontent/models"

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose bool          `mapstructure:"verbose"`
	Config  string        `mapstructure:"config"`
	Project ProjectConfig `mapstructure:"project" validate:"required"`
	Data    DataConfig    `mapstructure:"data" validate:"required"`
	LLM     LLMConfig     `mapstructure:"llm" validate:"required"`
	Brand   BrandConfig   `mapstructure:"brand"`
	Content ContentConfig `mapstructure:"content" validate:"required"`
	// Types is the type-level config store: generation settings keyed by
	// content type, validated once at load.
	Types map[string]models.TypeConfig `mapstructure:"types" validate:"omitempty,dive"`
	// Providers declares custom field groups (the provider side of the
	// field registry) directly in configuration.
	Providers []ProviderGroupConfig `mapstructure:"providers" validate:"omitempty,dive"`
	Batch     BatchConfig           `mapstructure:"batch"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	RootDir      string `mapstructure:"rootDir" validate:"required"`
	DataDir      string `mapstructure:"dataDir" validate:"required"`
	LogsDir      string `mapstructure:"logsDir" validate:"required"`
	TemplatesDir string `mapstructure:"templatesDir"`
}

// DataConfig holds content store configuration
type DataConfig struct {
	File   string `mapstructure:"file" validate:"required"`
	Format string `mapstructure:"format" validate:"required,oneof=json yaml"`
	// AssetsDir is where stored image assets land, relative to rootDir.
	AssetsDir string `mapstructure:"assetsDir" validate:"required"`
}

// LLMConfig holds configuration for the generation API
type LLMConfig struct {
	Provider  string `mapstructure:"provider" validate:"omitempty,oneof=openai"`
	APIKey    string `mapstructure:"apiKey" validate:"omitempty,min=1"`
	BaseURL   string `mapstructure:"baseURL" validate:"omitempty,url"`
	TextModel string `mapstructure:"textModel" validate:"omitempty,min=1"`
	// ImageModel drives the image-generation endpoint.
	ImageModel      string  `mapstructure:"imageModel" validate:"omitempty,min=1"`
	Temperature     float64 `mapstructure:"temperature" validate:"omitempty,min=0,max=2"`
	MaxOutputTokens int     `mapstructure:"maxOutputTokens" validate:"omitempty,min=1"`
	// RequestTimeoutSeconds controls the HTTP client timeout for API calls.
	RequestTimeoutSeconds int `mapstructure:"requestTimeoutSeconds" validate:"omitempty,min=5,max=600"`
	// Debug enables extra request/response logging within the client.
	Debug bool `mapstructure:"debug"`
}

// BrandConfig is the site-wide brand context woven into every prompt.
// Empty facts are simply omitted from the prompt.
type BrandConfig struct {
	CompanyName string `mapstructure:"companyName"`
	Industry    string `mapstructure:"industry"`
	Audience    string `mapstructure:"audience"`
	Tone        string `mapstructure:"tone"`
	Values      string `mapstructure:"values"`
	USP         string `mapstructure:"usp"`
	Website     string `mapstructure:"website" validate:"omitempty,url"`
}

// ContentConfig selects the target content type and output language policy.
type ContentConfig struct {
	Type     string `mapstructure:"type" validate:"required,min=1"`
	Language string `mapstructure:"language" validate:"omitempty,min=2"`
	// Addressing picks the register for languages that distinguish
	// formal/informal pronouns (German Sie/du).
	Addressing string `mapstructure:"addressing" validate:"omitempty,oneof=formal informal"`
	// Formatting lists the structural HTML elements richtext output may
	// contain, e.g. {"h2": true, "ul": true}.
	Formatting map[string]bool `mapstructure:"formatting"`
	// EnabledDefault is the merge policy for fields absent from a saved
	// enabled-map: "baseline" enables baseline fields only, "all" enables
	// everything, "none" disables everything not explicitly saved.
	EnabledDefault string `mapstructure:"enabledDefault" validate:"omitempty,oneof=baseline all none"`
}

// ProviderFieldConfig declares one custom field inside a provider group.
type ProviderFieldConfig struct {
	Key   string `mapstructure:"key" validate:"required,min=1"`
	Label string `mapstructure:"label" validate:"required,min=1"`
	Kind  string `mapstructure:"kind" validate:"required,oneof=text richtext image"`
}

// ProviderGroupConfig declares a custom field group and the content types
// it attaches to.
type ProviderGroupConfig struct {
	Key    string                `mapstructure:"key" validate:"required,min=1"`
	Label  string                `mapstructure:"label" validate:"required,min=1"`
	Types  []string              `mapstructure:"types" validate:"required,min=1"`
	Fields []ProviderFieldConfig `mapstructure:"fields" validate:"required,min=1,dive"`
}

// BatchConfig tunes the sequential keyword batch worker.
type BatchConfig struct {
	// DelaySeconds is the deliberate pause between items to stay under
	// API rate limits.
	DelaySeconds int `mapstructure:"delaySeconds" validate:"omitempty,min=0,max=3600"`
	// AutoPublish publishes freshly created items instead of drafting them.
	AutoPublish bool `mapstructure:"autoPublish"`
	// KeepDebugLogs bounds how many per-run debug logs are retained.
	KeepDebugLogs int `mapstructure:"keepDebugLogs" validate:"omitempty,min=1,max=100"`
}

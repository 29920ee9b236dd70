package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/keycontent/keycontent/internal/fields"
	"github.com/keycontent/keycontent/llm"
	"github.com/keycontent/keycontent/models"
	"github.com/keycontent/keycontent/store"
	"github.com/keycontent/keycontent/types"
)

// ResolvedLLM is the fully defaulted generation API configuration. Every
// field is usable as-is; no downstream consumer re-applies defaults.
type ResolvedLLM struct {
	APIKey      string
	BaseURL     string
	TextModel   string
	ImageModel  string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// SettingsBundle is the flattened result of the layered resolution: global
// brand and API settings, the per-type tuning, the per-item keyword context
// and the enabled field set with type-level overlays already applied.
type SettingsBundle struct {
	ContentType       string
	ItemID            string
	Keyword           string
	ExtraInstructions string
	Brand             types.BrandConfig
	Content           types.ContentConfig
	LLM               ResolvedLLM
	TypeConfig        models.TypeConfig
	Fields            []models.FieldSpec
}

// TextFields returns the enabled text-like fields in registry order.
func (b *SettingsBundle) TextFields() []models.FieldSpec {
	var out []models.FieldSpec
	for _, f := range b.Fields {
		if f.IsTextLike() {
			out = append(out, f)
		}
	}
	return out
}

// ImageFields returns the enabled image fields in registry order.
func (b *SettingsBundle) ImageFields() []models.FieldSpec {
	var out []models.FieldSpec
	for _, f := range b.Fields {
		if f.IsImage() {
			out = append(out, f)
		}
	}
	return out
}

// Resolver walks the settings layers for one (content type, item) pair.
// A nil item ID resolves type-level settings only, which is what listing
// commands need.
type Resolver struct {
	cfg      *types.AppConfig
	items    store.ContentStore
	registry *fields.Registry
}

// NewResolver builds a resolver over loaded application config, the content
// store and the field registry.
func NewResolver(cfg *types.AppConfig, items store.ContentStore, registry *fields.Registry) *Resolver {
	return &Resolver{cfg: cfg, items: items, registry: registry}
}

// Resolve produces the settings bundle for generating an item. It fails on
// the first unrecoverable gap: a missing API key, a missing keyword, or an
// empty enabled field set. A missing type-level config is not an error; it
// degrades to empty tuning.
func (r *Resolver) Resolve(contentType, itemID string) (*SettingsBundle, error) {
	apiKey := ResolveAPIKey(&r.cfg.LLM)
	if apiKey == "" {
		return nil, types.NewPipelineError(types.CodeMissingCredential, "no API key configured; set llm.apiKey or OPENAI_API_KEY")
	}

	bundle := &SettingsBundle{
		ContentType: contentType,
		ItemID:      itemID,
		Brand:       r.cfg.Brand,
		Content:     r.cfg.Content,
		LLM:         resolveLLM(&r.cfg.LLM, apiKey),
	}
	if bundle.Content.Language == "" {
		bundle.Content.Language = DefaultLanguage
	}

	// Type layer. Absence means the admin never tuned this type.
	if tc, ok := r.cfg.Types[contentType]; ok {
		bundle.TypeConfig = tc
	}

	// Item layer. The keyword is the one per-item input generation cannot
	// proceed without.
	if itemID != "" {
		item, err := r.items.GetItem(itemID)
		if err != nil {
			return nil, fmt.Errorf("resolve item %s: %w", itemID, err)
		}
		bundle.Keyword = item.Keyword()
		if bundle.Keyword == "" {
			return nil, types.NewPipelineError(types.CodeMissingKeyword, fmt.Sprintf("item %s has no keyword", itemID))
		}
		bundle.ExtraInstructions = strings.TrimSpace(item.Meta[models.MetaExtraInstructions])
	}

	policy, err := fields.ParseEnabledDefault(bundle.Content.EnabledDefault)
	if err != nil {
		return nil, err
	}
	enabled, err := r.registry.EnabledFields(contentType, bundle.TypeConfig.EnabledMap(), policy)
	if err != nil {
		return nil, err
	}
	for i, spec := range enabled {
		enabled[i] = r.applyDefaults(bundle.TypeConfig.Apply(spec))
	}
	bundle.Fields = enabled

	return bundle, nil
}

// applyDefaults fills image size/quality so prompt and request building
// never see empty tuning values.
func (r *Resolver) applyDefaults(spec models.FieldSpec) models.FieldSpec {
	if spec.IsImage() {
		if spec.Size == "" {
			spec.Size = models.SizeAuto
		}
		if spec.Quality == "" {
			spec.Quality = models.QualityAuto
		}
	}
	return spec
}

// ResolveAPIKey returns the configured API key, falling back to the
// provider's conventional environment variable.
func ResolveAPIKey(cfg *types.LLMConfig) string {
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		return key
	}
	return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
}

func resolveLLM(cfg *types.LLMConfig, apiKey string) ResolvedLLM {
	out := ResolvedLLM{
		APIKey:      apiKey,
		BaseURL:     cfg.BaseURL,
		TextModel:   cfg.TextModel,
		ImageModel:  cfg.ImageModel,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxOutputTokens,
		Timeout:     llm.DefaultTimeout,
	}
	if out.BaseURL == "" {
		out.BaseURL = llm.DefaultBaseURL
	}
	if out.TextModel == "" {
		out.TextModel = llm.DefaultTextModel
	}
	if out.ImageModel == "" {
		out.ImageModel = llm.DefaultImageModel
	}
	if out.Temperature == 0 {
		out.Temperature = llm.DefaultTemperature
	}
	if out.MaxTokens == 0 {
		out.MaxTokens = llm.DefaultMaxTokens
	}
	if cfg.RequestTimeoutSeconds > 0 {
		out.Timeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	}
	return out
}

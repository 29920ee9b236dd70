package generation

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keycontent/keycontent/internal/config"
	"github.com/keycontent/keycontent/internal/fields"
	"github.com/keycontent/keycontent/llm"
	"github.com/keycontent/keycontent/models"
	"github.com/keycontent/keycontent/prompts"
	"github.com/keycontent/keycontent/store"
	"github.com/keycontent/keycontent/types"
)

// mockGenerator scripts both endpoints and records call traffic.
type mockGenerator struct {
	textContent string
	textErr     error
	imageB64    string
	imageErr    error

	textCalls    int
	imageCalls   int
	imagePrompts []string
}

func (m *mockGenerator) GenerateText(_ context.Context, prompt string, _ llm.TextOptions) (llm.TextResult, error) {
	m.textCalls++
	if m.textErr != nil {
		return llm.TextResult{}, m.textErr
	}
	return llm.TextResult{Content: m.textContent, Model: "mock"}, nil
}

func (m *mockGenerator) GenerateImage(_ context.Context, prompt string, _ llm.ImageOptions) (llm.ImageResult, error) {
	m.imageCalls++
	m.imagePrompts = append(m.imagePrompts, prompt)
	if m.imageErr != nil {
		return llm.ImageResult{}, m.imageErr
	}
	return llm.ImageResult{B64: []string{m.imageB64}, Model: "mock"}, nil
}

func newFixture(t *testing.T, cfg *types.AppConfig, gen *mockGenerator, providers ...fields.Provider) (*Orchestrator, store.ContentStore) {
	t.Helper()
	s := store.NewFileContentStore()
	require.NoError(t, s.Initialize(map[string]string{
		"dataFile":       filepath.Join(t.TempDir(), "content.json"),
		"dataFileFormat": "json",
	}))
	t.Cleanup(func() { _ = s.Close() })

	registry := fields.NewRegistry(providers...)
	resolver := config.NewResolver(cfg, s, registry)
	assets := store.NewFileAssetStore(afero.NewMemMapFs(), "assets")
	factory := func(config.ResolvedLLM, types.EventSink) llm.Generator { return gen }
	return NewOrchestrator(resolver, registry, prompts.DefaultBuilder(), s, assets, factory), s
}

func appConfig() *types.AppConfig {
	return &types.AppConfig{
		LLM:     types.LLMConfig{APIKey: "sk-test"},
		Brand:   types.BrandConfig{CompanyName: "BeanHub", Industry: "coffee retail"},
		Content: types.ContentConfig{Type: "post", Formatting: map[string]bool{"h2": true, "ul": true}},
		Types: map[string]models.TypeConfig{
			"post": {Fields: map[string]models.FieldSettings{
				"title":   {WordCount: 50},
				"excerpt": {Enabled: boolPtr(false)},
			}},
		},
	}
}

func boolPtr(b bool) *bool { return &b }

func newItem(t *testing.T, s store.ContentStore, keyword string) models.ContentItem {
	t.Helper()
	item, err := s.CreateItem(models.ContentItem{
		Type:  "post",
		Title: keyword,
		Meta:  map[string]string{models.MetaKeyword: keyword},
	})
	require.NoError(t, err)
	return item
}

func TestGenerateItem_FullRun(t *testing.T) {
	gen := &mockGenerator{
		textContent: `{"title":"The Best Coffee Machines of 2026","body":"<h2>Our picks</h2><p>We tested ten.</p>"}`,
		imageB64:    pngBase64(t),
	}
	orch, s := newFixture(t, appConfig(), gen)
	item := newItem(t, s, "best coffee machine")

	result := orch.GenerateItem(context.Background(), "post", item.ID)

	require.True(t, result.Success, result.Message)
	assert.Equal(t, 2, result.FieldsUpdated)
	assert.Equal(t, 1, result.ImagesUpdated)
	assert.Equal(t, 1, gen.textCalls)
	assert.Equal(t, 1, gen.imageCalls)

	got, err := s.GetItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Best Coffee Machines of 2026", got.Title)
	assert.Contains(t, got.Body, "<h2>Our picks</h2>")
	assert.NotEmpty(t, got.FeaturedImageID)

	stamp, err := s.GetMeta(item.ID, models.MetaLastGeneratedAt)
	require.NoError(t, err)
	assert.NotEmpty(t, stamp)

	require.NotEmpty(t, result.Log)
	assert.Equal(t, "run_completed", result.Log[len(result.Log)-1].Step)

	// The image prompt references the freshly generated text, markup
	// stripped.
	require.Len(t, gen.imagePrompts, 1)
	assert.Contains(t, gen.imagePrompts[0], "The Best Coffee Machines of 2026")
	assert.Contains(t, gen.imagePrompts[0], "Our picks We tested ten.")
	assert.NotContains(t, gen.imagePrompts[0], "<h2>")
}

func TestGenerateItem_InvalidModelOutputStopsBeforeImages(t *testing.T) {
	gen := &mockGenerator{
		textContent: "Sure! Here is your content: ...",
		imageB64:    pngBase64(t),
	}
	orch, s := newFixture(t, appConfig(), gen)
	item := newItem(t, s, "best coffee machine")

	result := orch.GenerateItem(context.Background(), "post", item.ID)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "JSON")
	assert.Equal(t, 0, result.FieldsUpdated)
	assert.Equal(t, 0, result.ImagesUpdated)
	assert.Equal(t, 0, gen.imageCalls)

	last := result.Log[len(result.Log)-1]
	assert.True(t, last.IsError)
	assert.Equal(t, string(types.CodeInvalidModelOutput), last.Data["code"])

	// No completion timestamp on a failed run.
	stamp, err := s.GetMeta(item.ID, models.MetaLastGeneratedAt)
	require.NoError(t, err)
	assert.Empty(t, stamp)
}

func TestGenerateItem_ResolverErrorMakesNoAPICalls(t *testing.T) {
	gen := &mockGenerator{textContent: `{}`, imageB64: pngBase64(t)}
	orch, s := newFixture(t, appConfig(), gen)
	item, err := s.CreateItem(models.ContentItem{Type: "post", Title: "no keyword"})
	require.NoError(t, err)

	result := orch.GenerateItem(context.Background(), "post", item.ID)

	assert.False(t, result.Success)
	assert.Equal(t, 0, gen.textCalls)
	assert.Equal(t, 0, gen.imageCalls)
	last := result.Log[len(result.Log)-1]
	assert.Equal(t, string(types.CodeMissingKeyword), last.Data["code"])
}

func TestGenerateItem_ImageOnlyTypeSkipsTextCall(t *testing.T) {
	cfg := appConfig()
	cfg.Types["post"] = models.TypeConfig{Fields: map[string]models.FieldSettings{
		"title":   {Enabled: boolPtr(false)},
		"body":    {Enabled: boolPtr(false)},
		"excerpt": {Enabled: boolPtr(false)},
	}}
	gen := &mockGenerator{imageB64: pngBase64(t)}
	orch, s := newFixture(t, cfg, gen)
	item := newItem(t, s, "best coffee machine")

	result := orch.GenerateItem(context.Background(), "post", item.ID)

	require.True(t, result.Success, result.Message)
	assert.Equal(t, 0, gen.textCalls)
	assert.Equal(t, 0, result.FieldsUpdated)
	assert.Equal(t, 1, result.ImagesUpdated)
}

func TestGenerateItem_APIErrorSurfacesInResult(t *testing.T) {
	gen := &mockGenerator{
		textErr: types.WrapPipelineError(types.CodeRemote, "API request failed with status 429", errors.New("429")),
	}
	orch, s := newFixture(t, appConfig(), gen)
	item := newItem(t, s, "best coffee machine")

	result := orch.GenerateItem(context.Background(), "post", item.ID)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "429")
	assert.Equal(t, 0, result.ImagesUpdated)
}

func TestGenerateItem_ImageConversionFailureIsFatal(t *testing.T) {
	gen := &mockGenerator{
		textContent: `{"title":"T","body":"B"}`,
		imageB64:    "bm90IGFuIGltYWdl", // decodes, but not an image
	}
	orch, s := newFixture(t, appConfig(), gen)
	item := newItem(t, s, "best coffee machine")

	result := orch.GenerateItem(context.Background(), "post", item.ID)

	assert.False(t, result.Success)
	assert.Equal(t, 2, result.FieldsUpdated)
	assert.Equal(t, 0, result.ImagesUpdated)
	last := result.Log[len(result.Log)-1]
	assert.Equal(t, string(types.CodeImageConversion), last.Data["code"])
}

func TestGenerateItem_ProviderImageFieldBindsThroughProvider(t *testing.T) {
	cfg := appConfig()
	cfg.Providers = []types.ProviderGroupConfig{{
		Key:    "social",
		Label:  "Social",
		Types:  []string{"post"},
		Fields: []types.ProviderFieldConfig{{Key: "og_image", Label: "Social image", Kind: "image"}},
	}}
	cfg.Types["post"] = models.TypeConfig{Fields: map[string]models.FieldSettings{
		"excerpt":  {Enabled: boolPtr(false)},
		"og_image": {Enabled: boolPtr(true)},
	}}

	gen := &mockGenerator{
		textContent: `{"title":"T","body":"B"}`,
		imageB64:    pngBase64(t),
	}

	s := store.NewFileContentStore()
	require.NoError(t, s.Initialize(map[string]string{
		"dataFile":       filepath.Join(t.TempDir(), "content.json"),
		"dataFileFormat": "json",
	}))
	t.Cleanup(func() { _ = s.Close() })

	provider := fields.NewConfigProvider(cfg.Providers, s)
	registry := fields.NewRegistry(provider)
	resolver := config.NewResolver(cfg, s, registry)
	assets := store.NewFileAssetStore(afero.NewMemMapFs(), "assets")
	factory := func(config.ResolvedLLM, types.EventSink) llm.Generator { return gen }
	orch := NewOrchestrator(resolver, registry, prompts.DefaultBuilder(), s, assets, factory)

	item := newItem(t, s, "best coffee machine")
	result := orch.GenerateItem(context.Background(), "post", item.ID)

	require.True(t, result.Success, result.Message)
	assert.Equal(t, 2, result.ImagesUpdated)
	assert.Equal(t, 2, gen.imageCalls)

	// Native image binds to the item, provider image lands in field meta.
	got, err := s.GetItem(item.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, got.FeaturedImageID)

	assetID, err := provider.Read("og_image", item.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, assetID)
	assert.NotEqual(t, got.FeaturedImageID, assetID)
}

func TestMemorySink_OrderAndCopy(t *testing.T) {
	sink := NewMemorySink()
	sink.Record("a", nil, false)
	sink.Record("b", map[string]any{"k": 1}, true)

	entries := sink.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Step)
	assert.Equal(t, "b", entries[1].Step)
	assert.True(t, entries[1].IsError)

	entries[0].Step = "mutated"
	assert.Equal(t, "a", sink.Entries()[0].Step)
}

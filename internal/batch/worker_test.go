package batch

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keycontent/keycontent/internal/config"
	"github.com/keycontent/keycontent/internal/fields"
	"github.com/keycontent/keycontent/internal/generation"
	"github.com/keycontent/keycontent/internal/intake"
	"github.com/keycontent/keycontent/llm"
	"github.com/keycontent/keycontent/models"
	"github.com/keycontent/keycontent/prompts"
	"github.com/keycontent/keycontent/store"
	"github.com/keycontent/keycontent/types"
)

type scriptedGenerator struct {
	textContent string
	imageB64    string
}

func (g *scriptedGenerator) GenerateText(context.Context, string, llm.TextOptions) (llm.TextResult, error) {
	return llm.TextResult{Content: g.textContent, Model: "mock"}, nil
}

func (g *scriptedGenerator) GenerateImage(context.Context, string, llm.ImageOptions) (llm.ImageResult, error) {
	return llm.ImageResult{B64: []string{g.imageB64}, Model: "mock"}, nil
}

func testPNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newWorker(t *testing.T, textContent string, delay time.Duration) (*Worker, store.ContentStore) {
	t.Helper()
	s := store.NewFileContentStore()
	require.NoError(t, s.Initialize(map[string]string{
		"dataFile":       filepath.Join(t.TempDir(), "content.json"),
		"dataFileFormat": "json",
	}))
	t.Cleanup(func() { _ = s.Close() })

	cfg := &types.AppConfig{
		LLM:     types.LLMConfig{APIKey: "sk-test"},
		Content: types.ContentConfig{Type: "post"},
	}
	gen := &scriptedGenerator{textContent: textContent, imageB64: testPNG(t)}
	registry := fields.NewRegistry()
	resolver := config.NewResolver(cfg, s, registry)
	assets := store.NewFileAssetStore(afero.NewMemMapFs(), "assets")
	factory := func(config.ResolvedLLM, types.EventSink) llm.Generator { return gen }
	orch := generation.NewOrchestrator(resolver, registry, prompts.DefaultBuilder(), s, assets, factory)
	svc := intake.NewService(s, "post")
	return NewWorker(svc, orch, "post", delay, false), s
}

func TestRun_ProcessesAllKeywordsInOrder(t *testing.T) {
	w, s := newWorker(t, `{"title":"T","body":"B","excerpt":"E"}`, 0)

	var seen []string
	w.OnItem = func(r ItemResult) { seen = append(seen, r.Keyword) }

	summary := w.Run(context.Background(), []string{"alpha", "beta", "gamma"}, "")
	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.False(t, summary.Canceled)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, seen)

	items, err := s.ListItems(nil, nil)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestRun_SingleFailureDoesNotStopBatch(t *testing.T) {
	w, s := newWorker(t, `{"title":"T","body":"B","excerpt":"E"}`, 0)

	summary := w.Run(context.Background(), []string{"alpha", "   ", "gamma"}, "")
	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)

	require.Len(t, summary.Results, 3)
	assert.True(t, summary.Results[1].Failed())
	assert.Equal(t, types.CodeMissingKeyword, types.CodeOf(summary.Results[1].Err))

	items, err := s.ListItems(nil, nil)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRun_GenerationFailureCountsAsFailed(t *testing.T) {
	w, _ := newWorker(t, "not json at all", 0)

	summary := w.Run(context.Background(), []string{"alpha"}, "")
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Results, 1)
	assert.NoError(t, summary.Results[0].Err)
	assert.False(t, summary.Results[0].Result.Success)
}

func TestRun_DuplicateKeywordsReuseOneItem(t *testing.T) {
	w, s := newWorker(t, `{"title":"T","body":"B","excerpt":"E"}`, 0)

	summary := w.Run(context.Background(), []string{"alpha", "alpha"}, "")
	assert.Equal(t, 2, summary.Succeeded)
	assert.True(t, summary.Results[0].Intake.Created)
	assert.False(t, summary.Results[1].Intake.Created)
	assert.Equal(t, summary.Results[0].Intake.ItemID, summary.Results[1].Intake.ItemID)

	items, err := s.ListItems(nil, nil)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRun_CanceledContextStopsAtBoundary(t *testing.T) {
	w, _ := newWorker(t, `{"title":"T","body":"B","excerpt":"E"}`, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary := w.Run(ctx, []string{"alpha", "beta"}, "")
	assert.True(t, summary.Canceled)
	assert.Equal(t, 0, summary.Processed)
}

func TestRun_CancelMidBatchFinishesInFlightItem(t *testing.T) {
	w, s := newWorker(t, `{"title":"T","body":"B","excerpt":"E"}`, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	w.OnItem = func(r ItemResult) { cancel() }

	summary := w.Run(ctx, []string{"alpha", "beta", "gamma"}, "")
	assert.True(t, summary.Canceled)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Succeeded)

	// The first item completed fully; the cancel only stopped the batch.
	item, err := s.GetItem(summary.Results[0].Intake.ItemID)
	require.NoError(t, err)
	assert.Equal(t, "T", item.Title)
	stamp, err := s.GetMeta(item.ID, models.MetaLastGeneratedAt)
	require.NoError(t, err)
	assert.NotEmpty(t, stamp)
}

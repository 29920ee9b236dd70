package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/keycontent/keycontent/internal/config"
	"github.com/keycontent/keycontent/internal/fields"
	"github.com/keycontent/keycontent/llm"
	"github.com/keycontent/keycontent/models"
	"github.com/keycontent/keycontent/prompts"
	"github.com/keycontent/keycontent/store"
	"github.com/keycontent/keycontent/types"
)

// runState names the stage an orchestration run has reached. Transitions
// are strictly forward; any failure moves to stateErrored and stops.
type runState string

const (
	stateStart           runState = "start"
	stateConfigResolved  runState = "config_resolved"
	stateTextGenerated   runState = "text_generated"
	stateImagesGenerated runState = "images_generated"
	stateDone            runState = "done"
	stateErrored         runState = "errored"
)

// GeneratorFactory builds the API client for one run from resolved
// credentials, wiring the run's event sink into it.
type GeneratorFactory func(cfg config.ResolvedLLM, sink types.EventSink) llm.Generator

// OpenAIGeneratorFactory is the production factory.
func OpenAIGeneratorFactory(cfg config.ResolvedLLM, sink types.EventSink) llm.Generator {
	return llm.NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Timeout, sink)
}

// Orchestrator runs the generation pipeline for single content items. It
// never returns an error: every failure is converted into an unsuccessful
// GenerationResult carrying the run's debug log.
type Orchestrator struct {
	resolver *config.Resolver
	registry *fields.Registry
	builder  *prompts.Builder
	items    store.ContentStore
	assets   store.AssetStore
	newGen   GeneratorFactory
}

// NewOrchestrator wires the pipeline stages together.
func NewOrchestrator(resolver *config.Resolver, registry *fields.Registry, builder *prompts.Builder,
	items store.ContentStore, assets store.AssetStore, factory GeneratorFactory) *Orchestrator {
	return &Orchestrator{
		resolver: resolver,
		registry: registry,
		builder:  builder,
		items:    items,
		assets:   assets,
		newGen:   factory,
	}
}

// run carries the mutable state of one item's generation.
type run struct {
	state         runState
	sink          *MemorySink
	bundle        *config.SettingsBundle
	gen           llm.Generator
	textValues    map[string]string
	fieldsUpdated int
	imagesUpdated int
}

// GenerateItem drives one item through the full pipeline. Settings errors
// abort before any API call; later failures abort the item but are still
// reported as a result, never as an error.
func (o *Orchestrator) GenerateItem(ctx context.Context, contentType, itemID string) models.GenerationResult {
	r := &run{state: stateStart, sink: NewMemorySink()}

	steps := []func(context.Context, string, string, *run) error{
		o.resolveSettings,
		o.generateText,
		o.generateImages,
		o.finish,
	}
	for _, step := range steps {
		if err := step(ctx, contentType, itemID, r); err != nil {
			r.state = stateErrored
			r.sink.Record("run_failed", map[string]any{
				"error": err.Error(),
				"code":  string(types.CodeOf(err)),
			}, true)
			return models.GenerationResult{
				Success:       false,
				ItemID:        itemID,
				FieldsUpdated: r.fieldsUpdated,
				ImagesUpdated: r.imagesUpdated,
				Message:       err.Error(),
				Log:           r.sink.Entries(),
			}
		}
	}

	return models.GenerationResult{
		Success:       true,
		ItemID:        itemID,
		FieldsUpdated: r.fieldsUpdated,
		ImagesUpdated: r.imagesUpdated,
		Message:       fmt.Sprintf("generated %d fields and %d images", r.fieldsUpdated, r.imagesUpdated),
		Log:           r.sink.Entries(),
	}
}

func (o *Orchestrator) resolveSettings(_ context.Context, contentType, itemID string, r *run) error {
	bundle, err := o.resolver.Resolve(contentType, itemID)
	if err != nil {
		return err
	}
	r.bundle = bundle
	r.gen = o.newGen(bundle.LLM, r.sink)
	r.state = stateConfigResolved

	keys := make([]string, len(bundle.Fields))
	for i, f := range bundle.Fields {
		keys[i] = f.Key
	}
	r.sink.Record("settings_resolved", map[string]any{
		"type":    contentType,
		"keyword": bundle.Keyword,
		"fields":  keys,
	}, false)
	return nil
}

func (o *Orchestrator) generateText(ctx context.Context, contentType, itemID string, r *run) error {
	prompt := o.builder.BuildTextPrompt(r.bundle)
	if prompt == "" {
		// A type with only image fields is valid.
		r.state = stateTextGenerated
		r.sink.Record("text_skipped", map[string]any{"reason": "no text fields enabled"}, false)
		return nil
	}

	res, err := r.gen.GenerateText(ctx, prompt, llm.TextOptions{
		Model:       r.bundle.LLM.TextModel,
		Temperature: r.bundle.LLM.Temperature,
		MaxTokens:   r.bundle.LLM.MaxTokens,
	})
	if err != nil {
		return err
	}

	values := map[string]string{}
	if err := json.Unmarshal([]byte(res.Content), &values); err != nil {
		return types.WrapPipelineError(types.CodeInvalidModelOutput,
			"model response is not the contracted JSON object of string fields", err)
	}
	r.textValues = values

	// Native fields batch into one item update; provider fields go through
	// their owning provider one by one.
	nativeUpdates := map[string]interface{}{}
	for _, f := range r.bundle.TextFields() {
		value, ok := values[f.Key]
		if !ok {
			continue
		}
		if f.Source == models.SourceNative {
			nativeUpdates[f.Key] = value
		} else {
			if err := o.registry.WriteField(contentType, f.Key, value, itemID); err != nil {
				return err
			}
		}
		r.fieldsUpdated++
	}
	if len(nativeUpdates) > 0 {
		if _, err := o.items.UpdateItem(itemID, nativeUpdates); err != nil {
			return types.WrapPipelineError(types.CodeWrite, "item update rejected", err)
		}
	}

	r.state = stateTextGenerated
	r.sink.Record("text_applied", map[string]any{
		"fieldsUpdated": r.fieldsUpdated,
		"model":         res.Model,
		"totalTokens":   res.Usage.TotalTokens,
	}, false)
	return nil
}

func (o *Orchestrator) generateImages(ctx context.Context, contentType, itemID string, r *run) error {
	for _, field := range r.bundle.ImageFields() {
		prompt := o.builder.BuildImagePrompt(r.bundle, field, r.textValues)
		res, err := r.gen.GenerateImage(ctx, prompt, llm.ImageOptions{
			Model:   r.bundle.LLM.ImageModel,
			Size:    string(field.Size),
			Quality: string(field.Quality),
			N:       1,
		})
		if err != nil {
			// One image failure aborts the remaining image fields.
			return err
		}
		if len(res.B64) == 0 {
			return types.NewPipelineError(types.CodeResponseShape, "image response carries no payload")
		}
		data, err := ConvertBase64Image(res.B64[0])
		if err != nil {
			return err
		}
		assetID, err := o.assets.Store(data, itemID, field.Key+".jpg", field.Label)
		if err != nil {
			return err
		}
		if field.Source == models.SourceNative && field.Key == models.FieldFeaturedImage {
			if err := o.items.SetFeaturedImage(itemID, assetID); err != nil {
				return types.WrapPipelineError(types.CodeWrite, "unable to bind featured image", err)
			}
		} else {
			if err := o.registry.WriteField(contentType, field.Key, assetID, itemID); err != nil {
				return err
			}
		}
		r.imagesUpdated++
		r.sink.Record("image_applied", map[string]any{
			"field":   field.Key,
			"assetId": assetID,
		}, false)
	}
	r.state = stateImagesGenerated
	return nil
}

func (o *Orchestrator) finish(_ context.Context, _, itemID string, r *run) error {
	if err := o.items.SetMeta(itemID, models.MetaLastGeneratedAt, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return types.WrapPipelineError(types.CodeWrite, "unable to record completion timestamp", err)
	}
	r.state = stateDone
	r.sink.Record("run_completed", map[string]any{
		"fieldsUpdated": r.fieldsUpdated,
		"imagesUpdated": r.imagesUpdated,
	}, false)
	return nil
}

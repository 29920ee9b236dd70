package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	appconfig "github.com/keycontent/keycontent/internal/config"
	"github.com/keycontent/keycontent/internal/fields"
	"github.com/keycontent/keycontent/internal/generation"
	"github.com/keycontent/keycontent/internal/intake"
	"github.com/keycontent/keycontent/internal/logger"
	"github.com/keycontent/keycontent/prompts"
	"github.com/keycontent/keycontent/store"
	"github.com/keycontent/keycontent/types"
)

// appContext is the wired pipeline constructed once per command invocation
// and passed explicitly to everything that needs it.
type appContext struct {
	cfg      *types.AppConfig
	items    store.ContentStore
	assets   store.AssetStore
	registry *fields.Registry
	resolver *appconfig.Resolver
	builder  *prompts.Builder
	orch     *generation.Orchestrator
	intake   *intake.Service
	runLogs  *logger.RunLogWriter
}

func newAppContext() (*appContext, error) {
	cfg := GetConfig()

	items, err := GetStore()
	if err != nil {
		return nil, fmt.Errorf("initialize content store: %w", err)
	}

	assetsDir := filepath.Join(cfg.Project.RootDir, cfg.Data.AssetsDir)
	assets := store.NewFileAssetStore(afero.NewOsFs(), assetsDir)

	registry := fields.NewRegistry(fields.NewConfigProvider(cfg.Providers, items))
	resolver := appconfig.NewResolver(cfg, items, registry)

	templatesDir := ""
	if cfg.Project.TemplatesDir != "" {
		templatesDir = filepath.Join(cfg.Project.RootDir, cfg.Project.TemplatesDir)
	}
	builder, err := prompts.NewBuilder(templatesDir)
	if err != nil {
		_ = items.Close()
		return nil, fmt.Errorf("load prompt templates: %w", err)
	}

	orch := generation.NewOrchestrator(resolver, registry, builder, items, assets,
		generation.OpenAIGeneratorFactory)

	logsDir := filepath.Join(cfg.Project.RootDir, cfg.Project.LogsDir)
	runLogs := logger.NewRunLogWriter(logsDir, cfg.Batch.KeepDebugLogs)

	return &appContext{
		cfg:      cfg,
		items:    items,
		assets:   assets,
		registry: registry,
		resolver: resolver,
		builder:  builder,
		orch:     orch,
		intake:   intake.NewService(items, cfg.Content.Type),
		runLogs:  runLogs,
	}, nil
}

func (a *appContext) Close() {
	if a.items != nil {
		_ = a.items.Close()
	}
}

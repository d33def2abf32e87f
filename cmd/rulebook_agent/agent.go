package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/rulebook-agent/internal/audit"
	"github.com/jonathan/rulebook-agent/internal/auth"
	"github.com/jonathan/rulebook-agent/internal/catalog"
	"github.com/jonathan/rulebook-agent/internal/config"
	"github.com/jonathan/rulebook-agent/internal/decompose"
	"github.com/jonathan/rulebook-agent/internal/extraction"
	"github.com/jonathan/rulebook-agent/internal/fetch"
	"github.com/jonathan/rulebook-agent/internal/llm"
	"github.com/jonathan/rulebook-agent/internal/pipeline"
	"github.com/jonathan/rulebook-agent/internal/publish"
	"github.com/jonathan/rulebook-agent/internal/runstate"
	"github.com/jonathan/rulebook-agent/internal/storage"
)

// agent holds the assembled pipeline plus the resources that need closing
// when the process exits.
type agent struct {
	pipeline *pipeline.Pipeline
	auditor  *audit.Logger
	cfg      config.Config

	store   runstate.Store
	model   llm.Client
	archive *storage.GCSStore
}

// buildAgent wires every component from the merged configuration.
func buildAgent(ctx context.Context, cfg config.Config) (*agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable or 'gemini_api_key' config value is required")
	}
	if cfg.InventoryURL == "" {
		return nil, fmt.Errorf("'inventory_url' is required (config file or RULEBOOK_API_INVENTORY_URL)")
	}
	if cfg.AuthMode == string(auth.ModeBearer) && cfg.AuthURL == "" {
		return nil, fmt.Errorf("'auth_url' is required in bearer mode (config file or RULEBOOK_API_AUTH_URL)")
	}
	if cfg.AuthMode == string(auth.ModeAPIKey) && cfg.APIKey == "" {
		return nil, fmt.Errorf("'api_key' is required in api-key mode (config file or RULEBOOK_API_KEY)")
	}

	opts := fetch.DefaultOptions()
	if cfg.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	store, err := runstate.OpenBadger(cfg.StateDir)
	if err != nil {
		return nil, err
	}

	a := &agent{cfg: cfg, store: store}

	creds := auth.Credentials{
		Username: cfg.AuthUsername,
		Password: cfg.AuthPassword,
		OTP:      cfg.AuthOTP,
	}
	authClient := auth.NewClient(auth.Mode(cfg.AuthMode), cfg.AuthURL, creds, cfg.APIKey, store, opts)

	assets := storage.NewLocalStore(cfg.AssetsDir, cfg.URLPrefix)
	var archive storage.BlobStore
	if cfg.Storage == "gcs" {
		gcsStore, err := storage.NewGCSStore(ctx, cfg.GCSBucket)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.archive = gcsStore
		archive = gcsStore
	}

	model, err := llm.NewClient(ctx, nil, cfg.GeminiAPIKey)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.model = model

	tier := llm.ModelTier(cfg.ModelTier)
	if tier == "" {
		tier = llm.TierStandard
	}

	lister := catalog.NewLister(cfg.CatalogURL, cfg.ListingURL, cfg.BatchSize, store, opts)
	rasterizer := &extraction.PopplerRasterizer{DPI: cfg.RasterizeDPI}
	recognizer := &extraction.TesseractRecognizer{Language: cfg.OCRLanguage}
	extractor := extraction.NewExtractor(cfg.BaseURL, assets, archive, rasterizer, recognizer, opts)
	engine := decompose.NewEngine(model, tier)
	publisher := publish.NewPublisher(cfg.InventoryURL, cfg.BaseURL, authClient, store, opts)

	a.pipeline = pipeline.New(lister, extractor, engine, publisher, cfg.Verbose, nil)
	a.auditor = audit.NewLogger(cfg.AILogURL, cfg.SiteName, authClient, opts)
	return a, nil
}

// Close releases the state store, the model client, and the archive client.
func (a *agent) Close() {
	if a.model != nil {
		_ = a.model.Close()
	}
	if a.archive != nil {
		_ = a.archive.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}

// loadMergedConfig resolves the effective configuration: file values first,
// then environment overrides, then built-in defaults for whatever is left.
func loadMergedConfig(path string, verbose bool) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if verbose {
			fmt.Printf("Loaded config from: %s\n", path)
		}
	}
	cfg.ApplyEnv()
	cfg = cfg.MergeWithDefaults()
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

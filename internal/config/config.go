// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/rulebook-agent/internal/auth"
)

// Default values applied when neither the config file, the environment, nor
// CLI flags provide one.
const (
	DefaultCatalogURL   = "https://www.cbn.gov.ng/api/GetAllCirculars"
	DefaultBaseURL      = "https://www.cbn.gov.ng"
	DefaultSiteName     = "Central Bank of Nigeria"
	DefaultStateDir     = ".rulebook-agent/state"
	DefaultAssetsDir    = ".rulebook-agent/circulars"
	DefaultBatchSize    = 1
	DefaultIntervalSecs = 300
	DefaultBackoffSecs  = 60
	DefaultStorage      = "local"
	DefaultAuthMode     = string(auth.ModeBearer)
	DefaultOCRLanguage  = "eng"
	DefaultRasterizeDPI = 150
)

// Config represents the agent configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via environment variables or CLI flags.
type Config struct {
	// Source site
	CatalogURL string `json:"catalog_url,omitempty"` // Circulars catalog endpoint (JSON)
	ListingURL string `json:"listing_url,omitempty"` // HTML circulars listing, used when the catalog endpoint fails
	BaseURL    string `json:"base_url,omitempty"`    // Base URL relative document links resolve against
	SiteName   string `json:"site_name,omitempty"`   // Display name reported to the activity log

	// Rulebook API
	AuthURL      string `json:"auth_url,omitempty"`      // Token endpoint for bearer mode
	AuthUsername string `json:"auth_username,omitempty"` // Bearer-mode login name
	AuthPassword string `json:"auth_password,omitempty"` // Bearer-mode password
	AuthOTP      string `json:"auth_otp,omitempty"`      // Bearer-mode one-time PIN
	AuthMode     string `json:"auth_mode,omitempty"`     // "bearer" or "api-key"
	APIKey       string `json:"api_key,omitempty"`       // Static key for api-key mode
	InventoryURL string `json:"inventory_url,omitempty"` // Regulation inventory endpoint
	AILogURL     string `json:"ai_log_url,omitempty"`    // Activity log endpoint

	// Model
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Gemini API key
	ModelTier    string `json:"model_tier,omitempty"`     // lite, standard, or advanced

	// Storage
	StateDir  string `json:"state_dir,omitempty"`  // Durable run-state directory (watermark, token cache)
	AssetsDir string `json:"assets_dir,omitempty"` // Downloaded PDF directory
	URLPrefix string `json:"url_prefix,omitempty"` // Serving prefix for locally stored documents
	Storage   string `json:"storage,omitempty"`    // "local" or "gcs"
	GCSBucket string `json:"gcs_bucket,omitempty"` // Archive bucket, required when storage is "gcs"

	// OCR
	OCRLanguage  string `json:"ocr_language,omitempty"`  // Tesseract language code
	RasterizeDPI int    `json:"rasterize_dpi,omitempty"` // Page render resolution

	// Behavior
	BatchSize             int  `json:"batch_size,omitempty"`               // Max circulars per run
	IntervalSeconds       int  `json:"interval_seconds,omitempty"`         // Pause between scheduled runs
	ClientErrPauseSeconds int  `json:"client_err_pause_seconds,omitempty"` // Replacement pause after a 4xx failure
	TimeoutSeconds        int  `json:"timeout_seconds,omitempty"`          // HTTP timeout override
	Verbose               bool `json:"verbose,omitempty"`                  // Print detailed run information
}

// Interval returns the pause between scheduled runs.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// ClientErrPause returns the pause used instead of Interval after a run fails
// with a client error.
func (c *Config) ClientErrPause() time.Duration {
	return time.Duration(c.ClientErrPauseSeconds) * time.Second
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv fills empty fields from environment variables. The environment
// wins over the config file for secrets so credentials never need to live on
// disk.
func (c *Config) ApplyEnv() {
	setFromEnv(&c.AuthURL, "RULEBOOK_API_AUTH_URL")
	setFromEnv(&c.AuthUsername, "RULEBOOK_API_AUTH_USERNAME")
	setFromEnv(&c.AuthPassword, "RULEBOOK_API_AUTH_PASSWORD")
	setFromEnv(&c.AuthOTP, "RULEBOOK_API_AUTH_OTP")
	setFromEnv(&c.APIKey, "RULEBOOK_API_KEY")
	setFromEnv(&c.InventoryURL, "RULEBOOK_API_INVENTORY_URL")
	setFromEnv(&c.AILogURL, "RULEBOOK_API_AI_LOG_URL")
	setFromEnv(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setFromEnv(&c.BaseURL, "RULEBOOK_BASE_URL")
	setFromEnv(&c.CatalogURL, "RULEBOOK_CATALOG_URL")
	setFromEnv(&c.GCSBucket, "RULEBOOK_GCS_BUCKET")
}

func setFromEnv(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.AuthMode != "" && c.AuthMode != string(auth.ModeBearer) && c.AuthMode != string(auth.ModeAPIKey) {
		return fmt.Errorf("config error: 'auth_mode' must be %q or %q", auth.ModeBearer, auth.ModeAPIKey)
	}

	if c.Storage != "" && c.Storage != "local" && c.Storage != "gcs" {
		return fmt.Errorf("config error: 'storage' must be \"local\" or \"gcs\"")
	}
	if c.Storage == "gcs" && c.GCSBucket == "" {
		return fmt.Errorf("config error: 'gcs_bucket' is required when storage is \"gcs\"")
	}

	if c.BatchSize < 0 {
		return fmt.Errorf("config error: 'batch_size' must be non-negative")
	}
	if c.IntervalSeconds < 0 {
		return fmt.Errorf("config error: 'interval_seconds' must be non-negative")
	}
	if c.RasterizeDPI < 0 {
		return fmt.Errorf("config error: 'rasterize_dpi' must be non-negative")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from the
// built-in defaults.
func (c *Config) MergeWithDefaults() Config {
	result := *c

	if result.CatalogURL == "" {
		result.CatalogURL = DefaultCatalogURL
	}
	if result.BaseURL == "" {
		result.BaseURL = DefaultBaseURL
	}
	if result.SiteName == "" {
		result.SiteName = DefaultSiteName
	}
	if result.AuthMode == "" {
		result.AuthMode = DefaultAuthMode
	}
	if result.StateDir == "" {
		result.StateDir = DefaultStateDir
	}
	if result.AssetsDir == "" {
		result.AssetsDir = DefaultAssetsDir
	}
	if result.Storage == "" {
		result.Storage = DefaultStorage
	}
	if result.OCRLanguage == "" {
		result.OCRLanguage = DefaultOCRLanguage
	}
	if result.RasterizeDPI == 0 {
		result.RasterizeDPI = DefaultRasterizeDPI
	}
	if result.BatchSize == 0 {
		result.BatchSize = DefaultBatchSize
	}
	if result.IntervalSeconds == 0 {
		result.IntervalSeconds = DefaultIntervalSecs
	}
	if result.ClientErrPauseSeconds == 0 {
		result.ClientErrPauseSeconds = DefaultBackoffSecs
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

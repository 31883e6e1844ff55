package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"SearchAudit/internal/domain"
)

const (
	configPathEnv = "SEARCH_AUDIT_CONFIG"
	oldURLEnv     = "SEARCH_AUDIT_OLD_URL"
	newURLEnv     = "SEARCH_AUDIT_NEW_URL"
	queriesEnv    = "SEARCH_AUDIT_QUERIES"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	API     APIConfig     `yaml:"api"`
	Probe   ProbeConfig   `yaml:"probe"`
	Files   FilesConfig   `yaml:"files"`
}

// LoggingConfig controls the log output.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// APIConfig describes the two search API revisions under comparison.
type APIConfig struct {
	Old EndpointConfig `yaml:"old"`
	New EndpointConfig `yaml:"new"`
}

// EndpointConfig describes one revision endpoint and its request body.
type EndpointConfig struct {
	URL    string              `yaml:"url" validate:"required,url"`
	Params domain.SearchParams `yaml:"params"`
}

// ProbeConfig tunes retries, sampling and fan-out.
type ProbeConfig struct {
	RetryBackoff   time.Duration `yaml:"retryBackoff" validate:"gt=0"`
	RequestTimeout time.Duration `yaml:"requestTimeout" validate:"gt=0"`
	MaxAttempts    int           `yaml:"maxAttempts"`
	Samples        int           `yaml:"samples" validate:"gte=1"`
	Workers        int           `yaml:"workers" validate:"gte=1"`
	QueryInterval  time.Duration `yaml:"queryInterval" validate:"gte=0"`
}

// FilesConfig names every input and output file of a run.
type FilesConfig struct {
	Queries     string `yaml:"queries" validate:"required"`
	DiffReport  string `yaml:"diffReport" validate:"required"`
	Violations  string `yaml:"violations" validate:"required"`
	Coverage    string `yaml:"coverage" validate:"required"`
	CacheReport string `yaml:"cacheReport" validate:"required"`
	Mismatches  string `yaml:"mismatches" validate:"required"`
}

// Load reads YAML configuration on top of the defaults, applies environment
// overrides and validates the result. An unreadable or invalid file is fatal;
// silently running against the wrong endpoint would poison every report.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(oldURLEnv); v != "" {
		c.API.Old.URL = v
	}
	if v := os.Getenv(newURLEnv); v != "" {
		c.API.New.URL = v
	}
	if v := os.Getenv(queriesEnv); v != "" {
		c.Files.Queries = v
	}
}

// OldEndpoint builds the pre-migration probe target.
func (c Config) OldEndpoint() domain.Endpoint {
	return domain.Endpoint{
		Revision: domain.RevisionOld,
		URL:      c.API.Old.URL,
		Params:   c.API.Old.Params,
	}
}

// NewEndpoint builds the post-migration probe target.
func (c Config) NewEndpoint() domain.Endpoint {
	return domain.Endpoint{
		Revision: domain.RevisionNew,
		URL:      c.API.New.URL,
		Params:   c.API.New.Params,
	}
}

// Endpoint returns the probe target for the given revision.
func (c Config) Endpoint(rev domain.Revision) domain.Endpoint {
	if rev == domain.RevisionOld {
		return c.OldEndpoint()
	}
	return c.NewEndpoint()
}

func defaultConfig() Config {
	params := domain.SearchParams{
		TimeSupSize:    3,
		DecomposedFlag: true,
		DecomposedSize: 3,
		Size:           12,
	}
	oldParams := params
	oldParams.UseNewsSearch = false
	newParams := params
	newParams.UseNewsSearch = true

	return Config{
		Logging: LoggingConfig{Level: "info"},
		API: APIConfig{
			Old: EndpointConfig{
				URL:    "http://search.internal/search/modelV2",
				Params: oldParams,
			},
			New: EndpointConfig{
				URL:    "http://search.internal/search/coreApp/modelV2",
				Params: newParams,
			},
		},
		Probe: ProbeConfig{
			RetryBackoff:   500 * time.Millisecond,
			RequestTimeout: 10 * time.Second,
			MaxAttempts:    0,
			Samples:        3,
			Workers:        3,
			QueryInterval:  300 * time.Millisecond,
		},
		Files: FilesConfig{
			Queries:     "questions.csv",
			DiffReport:  "diff_report.csv",
			Violations:  "violations.csv",
			Coverage:    "coverage.csv",
			CacheReport: "cache_report.csv",
			Mismatches:  "type_mismatches.csv",
		},
	}
}

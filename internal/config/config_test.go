package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SearchAudit/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 3, cfg.Probe.Samples)
	assert.Equal(t, 500*time.Millisecond, cfg.Probe.RetryBackoff)
	assert.Zero(t, cfg.Probe.MaxAttempts)

	old := cfg.OldEndpoint()
	assert.Equal(t, domain.RevisionOld, old.Revision)
	assert.False(t, old.Params.UseNewsSearch)
	assert.Equal(t, 12, old.Params.Size)

	next := cfg.NewEndpoint()
	assert.Equal(t, domain.RevisionNew, next.Revision)
	assert.True(t, next.Params.UseNewsSearch)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  old:
    url: http://staging.internal/search/modelV2
probe:
  samples: 5
files:
  queries: corpus.csv
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://staging.internal/search/modelV2", cfg.API.Old.URL)
	assert.Equal(t, 5, cfg.Probe.Samples)
	assert.Equal(t, "corpus.csv", cfg.Files.Queries)
	// Untouched sections keep their defaults.
	assert.Equal(t, "http://search.internal/search/coreApp/modelV2", cfg.API.New.URL)
	assert.Equal(t, "diff_report.csv", cfg.Files.DiffReport)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
probe:
  samples: 0
`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFileIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SEARCH_AUDIT_OLD_URL", "http://env.internal/search/modelV2")
	t.Setenv("SEARCH_AUDIT_QUERIES", "env.csv")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://env.internal/search/modelV2", cfg.API.Old.URL)
	assert.Equal(t, "env.csv", cfg.Files.Queries)
}

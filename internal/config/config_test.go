package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"search": {"page_size": 25},
		"subjects": {"trending": ["Go", "Rust"]},
		"catalog": {"base_url": "http://localhost:9999"}
	}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Search.PageSize)
	assert.Equal(t, []string{"Go", "Rust"}, cfg.Subjects.Trending)
	assert.Equal(t, "http://localhost:9999", cfg.Catalog.BaseURL)
	// untouched keys keep their defaults
	assert.Equal(t, 300, cfg.Search.DebounceMs)
	assert.Equal(t, 10, cfg.Subjects.WorkLimit)
	assert.True(t, cfg.History.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BOOKSEARCH_SEARCH_PAGE_SIZE", "40")
	t.Setenv("BOOKSEARCH_HISTORY_ENABLED", "false")
	t.Setenv("BOOKSEARCH_DATA_DIR", "/tmp/books")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Search.PageSize)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, "/tmp/books", cfg.DataDir)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"search": `), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"search": {"page_size": 0}}`), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search.page_size")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := DefaultConfig()
	cfg.Search.PageSize = 15
	cfg.Subjects.Trending = []string{"Poetry"}
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Catalog.BaseURL = ""
	cfg.Search.PageSize = -1
	cfg.Subjects.WorkLimit = 0

	err := cfg.Validate()
	require.Error(t, err)
	for _, key := range []string{"catalog.base_url", "search.page_size", "subjects.work_limit"} {
		assert.Contains(t, err.Error(), key)
	}
	assert.NoError(t, DefaultConfig().Validate())
}

func TestDurations(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Equal(t, 300*time.Millisecond, cfg.Debounce())
}

func TestDataPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join(home, ".booksearch", "history.db"), cfg.DataPath("history.db"))

	cfg.DataDir = "/var/lib/booksearch"
	assert.Equal(t, "/var/lib/booksearch/events.jsonl", cfg.DataPath("events.jsonl"))
}

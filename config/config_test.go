package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/feedrank/core"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 60, cfg.Feed.PageSize)
	assert.Equal(t, 800, cfg.Feed.Ceiling)
	assert.Equal(t, 0.65, cfg.Rerank.MixRatio)
	assert.Equal(t, 4*time.Second, cfg.Recall.SourceTimeout)
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
feed:
  page_size: 30
recall:
  source_timeout: 2s
  cold_start_queries: [news, music]
filter:
  drop_expr: 'item.channel_name == "Spam"'
rank:
  jitter: 0
`))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Feed.PageSize)
	assert.Equal(t, 800, cfg.Feed.Ceiling)
	assert.Equal(t, 2*time.Second, cfg.Recall.SourceTimeout)
	assert.Equal(t, []string{"news", "music"}, cfg.Recall.ColdStartQueries)
	assert.Equal(t, 0.0, cfg.Rank.Jitter)
	assert.Equal(t, 2.5, cfg.Rank.Relevance)
	assert.Equal(t, `item.channel_name == "Spam"`, cfg.Filter.DropExpr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"page size too big", func(c *Config) { c.Feed.PageSize = MaxPageSize + 1 }},
		{"page size zero", func(c *Config) { c.Feed.PageSize = 0 }},
		{"ratio above one", func(c *Config) { c.Rerank.MixRatio = 1.5 }},
		{"ratio zero", func(c *Config) { c.Rerank.MixRatio = 0 }},
		{"channel cap zero", func(c *Config) { c.Rerank.ChannelCap = 0 }},
		{"jitter too big", func(c *Config) { c.Rank.Jitter = 1 }},
		{"unknown backend", func(c *Config) { c.Preferences.Backend = "mongo" }},
		{"redis without addr", func(c *Config) { c.Preferences.Backend = "redis"; c.Preferences.Redis.Addr = "" }},
		{"bad id pattern", func(c *Config) { c.Catalog.HTTP.IDPattern = "([" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, core.IsInvalidInput(err))
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedrank.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n  format: console\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("feed: [oops"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}

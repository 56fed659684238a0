package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg, err := NewConfig(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, SourceEmbedded, cfg.Source)
	assert.Equal(t, 10000, cfg.Inference.Trials)
	assert.True(t, cfg.Cache.Enabled)
}

func TestNewConfigRejects(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown source", func(c *Config) { c.Source = "ftp" }, "source must be one of"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "loglevel must be one of"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "logformat must be one of"},
		{"zero trials", func(c *Config) { c.Inference.Trials = 0 }, "inference.trials must be greater than 0"},
		{"negative workers", func(c *Config) { c.Inference.Workers = -1 }, "inference.workers must be at least 0"},
		{"port out of range", func(c *Config) { c.HealthcheckPort = 70000 }, "healthcheckport must be at most"},
		{"baseline above one", func(c *Config) { c.Heuristic.DefaultBaseline = 1.5 }, "heuristic.defaultbaseline must be at most 1"},
		{"three entry row", func(c *Config) { c.Heuristic.ActiveRow = []float64{0.5, 0.3, 0.2} }, "heuristic.activerow must have 2 entries"},
		{"row not summing to one", func(c *Config) { c.Heuristic.QuietRow = []float64{0.5, 0.6} }, "heuristic: quiet row"},
		{"hcl without paths", func(c *Config) { c.Source = SourceHCL }, "network_paths is required"},
		{"embedded without name", func(c *Config) { c.Network = "" }, "network is required"},
		{"supabase without key", func(c *Config) {
			c.Source = SourceSupabase
			c.Supabase.URL = "https://example.supabase.co"
		}, EnvSupabaseKey},
		{"supabase bad url", func(c *Config) { c.Supabase.URL = "not a url" }, "supabase.url must be a valid URL"},
		{"watch on embedded", func(c *Config) { c.Watch = true }, "watch is only supported"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			_, err := NewConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elevendx.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source: hcl
network_paths: [networks/]
inference:
  trials: 500
  seed: 42
cache:
  ttl: 30s
heuristic:
  active_row: [0.8, 0.2]
log_level: debug
`), 0o644))

	cfg := DefaultConfig()
	require.NoError(t, LoadConfigFile(path, &cfg))

	assert.Equal(t, SourceHCL, cfg.Source)
	assert.Equal(t, []string{"networks/"}, cfg.NetworkPaths)
	assert.Equal(t, 500, cfg.Inference.Trials)
	assert.Equal(t, uint64(42), cfg.Inference.Seed)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, []float64{0.8, 0.2}, cfg.Heuristic.ActiveRow)
	assert.Equal(t, []float64{0.01, 0.99}, cfg.Heuristic.QuietRow, "keys absent from the file keep their defaults")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Cache.Enabled)

	_, err := NewConfig(cfg)
	require.NoError(t, err)

	t.Run("missing file", func(t *testing.T) {
		err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("inference: [unclosed"), 0o644))
		assert.ErrorContains(t, LoadConfigFile(bad, &cfg), "parsing config file")
	})
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvSupabaseURL: "https://example.supabase.co",
		EnvSupabaseKey: "secret",
	}
	cfg := DefaultConfig()
	cfg.Supabase.Network = "from-file"
	ApplyEnv(&cfg, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Equal(t, "https://example.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, "secret", cfg.Supabase.Key)
	assert.Equal(t, "from-file", cfg.Supabase.Network)
}

func TestDiagnosisOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Inference.Trials = 123
	cfg.Inference.Seed = 9
	cfg.Cache.Enabled = false

	opts := cfg.DiagnosisOptions()
	assert.Equal(t, 123, opts.Inference.Trials)
	assert.Equal(t, uint64(9), opts.Inference.Seed)
	assert.False(t, opts.Cache.Enabled)
	assert.Equal(t, 0.1, opts.Policy.DefaultBaseline)
	require.NoError(t, opts.Policy.Validate())
}

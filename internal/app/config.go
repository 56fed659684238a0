package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/specialistvlad/elevendx/internal/cpt"
	"github.com/specialistvlad/elevendx/internal/diagnosis"
	"github.com/specialistvlad/elevendx/internal/inference"
	"gopkg.in/yaml.v3"
)

// Graph sources.
const (
	SourceHCL      = "hcl"
	SourceEmbedded = "embedded"
	SourceSupabase = "supabase"
)

// Environment variables read by ApplyEnv.
const (
	EnvSupabaseURL     = "ELEVENDX_SUPABASE_URL"
	EnvSupabaseKey     = "ELEVENDX_SUPABASE_KEY"
	EnvSupabaseNetwork = "ELEVENDX_SUPABASE_NETWORK"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	NetworkPaths []string `yaml:"network_paths"`
	Source       string   `yaml:"source" validate:"oneof=hcl embedded supabase"`
	Network      string   `yaml:"network"` // embedded network name

	Supabase  SupabaseConfig  `yaml:"supabase"`
	Inference InferenceConfig `yaml:"inference"`
	Heuristic HeuristicConfig `yaml:"heuristic"`
	Cache     CacheConfig     `yaml:"cache"`

	LogFormat       string `yaml:"log_format" validate:"oneof=text json"`
	LogLevel        string `yaml:"log_level" validate:"oneof=debug info warn error"`
	HealthcheckPort int    `yaml:"healthcheck_port" validate:"gte=0,lte=65535"`
	Watch           bool   `yaml:"watch"`
}

type SupabaseConfig struct {
	URL     string        `yaml:"url" validate:"omitempty,url"`
	Key     string        `yaml:"key"`
	Network string        `yaml:"network"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

type InferenceConfig struct {
	Trials         int     `yaml:"trials" validate:"gt=0"`
	Workers        int     `yaml:"workers" validate:"gte=0"`
	Seed           uint64  `yaml:"seed"`
	MinTotalWeight float64 `yaml:"min_total_weight" validate:"gte=0"`
}

type HeuristicConfig struct {
	DefaultBaseline float64   `yaml:"default_baseline" validate:"gte=0,lte=1"`
	ActiveRow       []float64 `yaml:"active_row" validate:"len=2,dive,gte=0,lte=1"`
	QuietRow        []float64 `yaml:"quiet_row" validate:"len=2,dive,gte=0,lte=1"`
}

type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	MaxEntries int64         `yaml:"max_entries" validate:"gte=0"`
	TTL        time.Duration `yaml:"ttl" validate:"gte=0"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() Config {
	d := diagnosis.DefaultOptions()
	return Config{
		Source:  SourceEmbedded,
		Network: "respiratory",
		Supabase: SupabaseConfig{
			Timeout: 10 * time.Second,
		},
		Inference: InferenceConfig{
			Trials:         d.Inference.Trials,
			Workers:        d.Inference.Workers,
			MinTotalWeight: d.Inference.MinTotalWeight,
		},
		Heuristic: HeuristicConfig{
			DefaultBaseline: d.Policy.DefaultBaseline,
			ActiveRow:       d.Policy.ActiveRow,
			QuietRow:        d.Policy.QuietRow,
		},
		Cache: CacheConfig{
			Enabled:    d.Cache.Enabled,
			MaxEntries: d.Cache.MaxEntries,
			TTL:        d.Cache.TTL,
		},
		LogFormat: "text",
		LogLevel:  "info",
	}
}

// LoadConfigFile overlays the YAML file at path onto cfg. Keys missing from
// the file keep their current value.
func LoadConfigFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays ELEVENDX_* variables onto cfg. lookup is os.LookupEnv
// outside tests.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvSupabaseURL); ok && v != "" {
		cfg.Supabase.URL = v
	}
	if v, ok := lookup(EnvSupabaseKey); ok && v != "" {
		cfg.Supabase.Key = v
	}
	if v, ok := lookup(EnvSupabaseNetwork); ok && v != "" {
		cfg.Supabase.Network = v
	}
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if err := validateStruct(cfg); err != nil {
		return nil, err
	}

	switch cfg.Source {
	case SourceHCL:
		if len(cfg.NetworkPaths) == 0 {
			return nil, errors.New("network_paths is required when source is hcl")
		}
	case SourceEmbedded:
		if cfg.Network == "" {
			return nil, errors.New("network is required when source is embedded")
		}
	case SourceSupabase:
		if cfg.Supabase.URL == "" || cfg.Supabase.Key == "" {
			return nil, fmt.Errorf("supabase url and key are required when source is supabase (set %s and %s)", EnvSupabaseURL, EnvSupabaseKey)
		}
	}
	if cfg.Watch && cfg.Source != SourceHCL {
		return nil, errors.New("watch is only supported for hcl sources")
	}

	if err := cfg.policy().Validate(); err != nil {
		return nil, fmt.Errorf("heuristic: %w", err)
	}
	return &cfg, nil
}

func (c *Config) policy() cpt.Policy {
	return cpt.Policy{
		DefaultBaseline: c.Heuristic.DefaultBaseline,
		ActiveRow:       c.Heuristic.ActiveRow,
		QuietRow:        c.Heuristic.QuietRow,
	}
}

// DiagnosisOptions translates the configuration into diagnosis.Options.
func (c *Config) DiagnosisOptions() diagnosis.Options {
	return diagnosis.Options{
		Inference: inference.Options{
			Trials:         c.Inference.Trials,
			Workers:        c.Inference.Workers,
			Seed:           c.Inference.Seed,
			MinTotalWeight: c.Inference.MinTotalWeight,
		},
		Policy: c.policy(),
		Cache: diagnosis.CacheOptions{
			Enabled:    c.Cache.Enabled,
			MaxEntries: c.Cache.MaxEntries,
			TTL:        c.Cache.TTL,
		},
	}
}

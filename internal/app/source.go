package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/elevendx/internal/config"
	"github.com/specialistvlad/elevendx/internal/hcl_adapter"
	"github.com/specialistvlad/elevendx/internal/supabasesource"
)

// newSource picks the graph source named by the configuration.
func newSource(ctx context.Context, cfg *Config) (config.Source, error) {
	switch cfg.Source {
	case SourceHCL:
		return hcl_adapter.NewLoader(cfg.NetworkPaths...), nil
	case SourceEmbedded:
		return hcl_adapter.Embedded(cfg.Network), nil
	case SourceSupabase:
		return supabasesource.New(ctx, cfg.Supabase.URL, cfg.Supabase.Key, supabasesource.Options{
			Network: cfg.Supabase.Network,
			Timeout: cfg.Supabase.Timeout,
			Breaker: supabasesource.DefaultBreakerConfig(),
		})
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}

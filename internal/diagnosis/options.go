package diagnosis

import (
	"time"

	"github.com/specialistvlad/elevendx/internal/cpt"
	"github.com/specialistvlad/elevendx/internal/dag"
	"github.com/specialistvlad/elevendx/internal/inference"
)

// CacheOptions configures the posterior cache.
type CacheOptions struct {
	Enabled    bool
	MaxEntries int64
	TTL        time.Duration
}

// Options configures a Brain.
type Options struct {
	Inference inference.Options
	Policy    cpt.Policy
	Cache     CacheOptions
	// ExcludeRoles are never asked about, on top of disease nodes.
	ExcludeRoles []dag.Role
}

// DefaultOptions returns the stock settings: 10000 trials, the literal
// heuristic policy and a five minute cache.
func DefaultOptions() Options {
	return Options{
		Inference: inference.DefaultOptions(),
		Policy:    cpt.DefaultPolicy(),
		Cache: CacheOptions{
			Enabled:    true,
			MaxEntries: 1024,
			TTL:        5 * time.Minute,
		},
	}
}

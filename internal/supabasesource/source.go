package supabasesource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"github.com/specialistvlad/elevendx/internal/config"
	"github.com/specialistvlad/elevendx/internal/ctxlog"
)

const (
	nodesTable    = "bbn_nodes"
	edgesTable    = "bbn_edges"
	networkColumn = "network"
)

// ErrUnavailable is returned while the breaker refuses requests.
var ErrUnavailable = errors.New("graph source temporarily unavailable")

// BreakerConfig tunes the circuit breaker around the remote source.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns settings suited to an occasional reload.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

// Options configures a Source.
type Options struct {
	// Network filters both tables on their network column when set.
	Network string
	// Timeout bounds one Load. Zero means no extra deadline.
	Timeout time.Duration
	Breaker BreakerConfig
}

// Source is a config.Source backed by Supabase.
type Source struct {
	q       Querier
	opts    Options
	cb      *gobreaker.CircuitBreaker
	logger  *slog.Logger
	network string
}

// New connects to Supabase at url with key.
func New(ctx context.Context, url, key string, opts Options) (*Source, error) {
	q, err := NewQuerier(url, key)
	if err != nil {
		return nil, err
	}
	return NewWithQuerier(ctx, q, opts), nil
}

// NewWithQuerier builds a Source over an existing Querier.
func NewWithQuerier(ctx context.Context, q Querier, opts Options) *Source {
	logger := ctxlog.FromContext(ctx).With("source", "supabase")
	bc := opts.Breaker
	if bc == (BreakerConfig{}) {
		bc = DefaultBreakerConfig()
	}
	s := &Source{q: q, opts: opts, logger: logger, network: opts.Network}
	s.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "supabase-graph-source",
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bc.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= bc.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed.", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up is not the database's fault.
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return s
}

// State returns the breaker state, for health reporting.
func (s *Source) State() gobreaker.State { return s.cb.State() }

// Load fetches the node and edge tables.
func (s *Source) Load(ctx context.Context) (*config.Network, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	out, err := s.cb.Execute(func() (any, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			s.logger.Warn("Circuit breaker rejected graph load.", "error", err)
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return nil, err
	}
	return out.(*config.Network), nil
}

func (s *Source) fetch(ctx context.Context) (*config.Network, error) {
	var eq map[string]string
	if s.network != "" {
		eq = map[string]string{networkColumn: s.network}
	}

	data, err := s.q.Select(ctx, nodesTable, eq)
	if err != nil {
		return nil, err
	}
	nodes, err := decodeNodes(data)
	if err != nil {
		return nil, err
	}

	data, err = s.q.Select(ctx, edgesTable, eq)
	if err != nil {
		return nil, err
	}
	edges, err := decodeEdges(data)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Loaded network from Supabase.", "network", s.network, "nodes", len(nodes), "edges", len(edges))
	return &config.Network{Name: s.network, Nodes: nodes, Edges: edges}, nil
}

package diagnosis

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/elevendx/internal/config"
	"github.com/specialistvlad/elevendx/internal/cpt"
	"github.com/specialistvlad/elevendx/internal/ctxlog"
	"github.com/specialistvlad/elevendx/internal/dag"
	"github.com/specialistvlad/elevendx/internal/evidence"
	"github.com/specialistvlad/elevendx/internal/inference"
	"github.com/specialistvlad/elevendx/internal/question"
)

// Brain answers diagnostic queries against one network.
type Brain struct {
	network  *config.Network
	graph    *dag.Graph
	store    *cpt.Store
	engine   *inference.Engine
	selector *question.Selector
	cache    *posteriorCache
	loadedAt time.Time
}

// NewBrain validates network and prepares it for queries. The network is
// copied; later changes to it have no effect.
func NewBrain(ctx context.Context, network *config.Network, opts Options) (*Brain, error) {
	logger := ctxlog.FromContext(ctx)
	if network == nil {
		return nil, fmt.Errorf("building brain: %w", dag.ErrEmptyGraph)
	}
	network = network.Clone()
	network.Canonicalize()

	g, err := dag.FromNetwork(ctx, network)
	if err != nil {
		return nil, fmt.Errorf("building graph: %w", err)
	}

	policy := opts.Policy
	if network.DefaultBaseline != nil {
		policy.DefaultBaseline = *network.DefaultBaseline
	}
	store, err := cpt.Populate(ctx, g, network.Nodes, policy)
	if err != nil {
		return nil, fmt.Errorf("building probability tables: %w", err)
	}

	engine, err := inference.New(store, opts.Inference)
	if err != nil {
		return nil, err
	}

	b := &Brain{
		network:  network,
		graph:    g,
		store:    store,
		engine:   engine,
		selector: question.NewSelector(opts.ExcludeRoles...),
		loadedAt: time.Now(),
	}
	if opts.Cache.Enabled && opts.Cache.MaxEntries > 0 {
		if b.cache, err = newPosteriorCache(opts.Cache); err != nil {
			return nil, err
		}
	}

	logger.Info("Diagnostic model ready.",
		"network", network.Name,
		"nodes", g.Len(),
		"targets", g.Targets(),
		"generated_tables", len(store.Generated()),
		"cache", b.cache != nil,
	)
	return b, nil
}

// Close releases the cache. The Brain must not be used afterwards.
func (b *Brain) Close() {
	if b.cache != nil {
		b.cache.close()
	}
}

// Graph returns the validated structure.
func (b *Brain) Graph() *dag.Graph { return b.graph }

// Store returns the probability tables.
func (b *Brain) Store() *cpt.Store { return b.store }

// Network returns a copy of the definition the brain was built from.
func (b *Brain) Network() *config.Network { return b.network.Clone() }

// LoadedAt is when the brain was built.
func (b *Brain) LoadedAt() time.Time { return b.loadedAt }

// Targets returns the disease ids.
func (b *Brain) Targets() []string { return b.graph.Targets() }

// Evidence validates a caller-supplied observation map.
func (b *Brain) Evidence(m map[string]string) (*evidence.Set, error) {
	return evidence.FromMap(b.graph, m)
}

// Posterior returns the full inference result for ev, from the cache when
// possible. The bool reports a cache hit.
func (b *Brain) Posterior(ctx context.Context, ev *evidence.Set) (*inference.Result, bool, error) {
	if b.cache == nil {
		res, err := b.engine.Infer(ctx, ev)
		return res, false, err
	}
	return b.cache.get(ctx, ev, func(ctx context.Context) (*inference.Result, error) {
		return b.engine.Infer(ctx, ev)
	})
}

// Assess runs one inference pass and returns both the disease percentages
// and the next question.
func (b *Brain) Assess(ctx context.Context, observations map[string]string) (*Assessment, error) {
	ev, err := b.Evidence(observations)
	if err != nil {
		return nil, err
	}
	res, cached, err := b.Posterior(ctx, ev)
	if err != nil {
		return nil, err
	}

	a := &Assessment{
		RunID:       res.RunID,
		Evidence:    ev.AsMap(),
		Percentages: res.TargetPercentages(),
		Degenerate:  res.Degenerate,
		Cached:      cached,
		Trials:      res.Trials,
	}
	if res.Diagnostic != nil {
		a.Diagnostic = res.Diagnostic.Error()
	}
	next, ok := b.selector.Next(b.graph, ev, res)
	a.NextQuestion, a.Done = next, !ok
	return a, nil
}

// Infer returns the disease percentages for the observations.
func (b *Brain) Infer(ctx context.Context, observations map[string]string) (*Assessment, error) {
	return b.Assess(ctx, observations)
}

// NextQuestion returns the most informative unanswered node, or false when
// nothing is left to ask.
func (b *Brain) NextQuestion(ctx context.Context, observations map[string]string) (string, bool, error) {
	a, err := b.Assess(ctx, observations)
	if err != nil {
		return "", false, err
	}
	return a.NextQuestion, !a.Done, nil
}

// Rank lists every askable node with its entropy, best first.
func (b *Brain) Rank(ctx context.Context, observations map[string]string) ([]question.Candidate, error) {
	ev, err := b.Evidence(observations)
	if err != nil {
		return nil, err
	}
	res, _, err := b.Posterior(ctx, ev)
	if err != nil {
		return nil, err
	}
	return b.selector.Rank(b.graph, ev, res), nil
}

// CacheStats returns cache hit and miss counts.
func (b *Brain) CacheStats() (hits, misses int64) {
	if b.cache == nil {
		return 0, 0
	}
	return b.cache.hits.Load(), b.cache.misses.Load()
}

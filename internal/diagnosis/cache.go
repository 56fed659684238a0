package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/specialistvlad/elevendx/internal/evidence"
	"github.com/specialistvlad/elevendx/internal/inference"
	"golang.org/x/sync/singleflight"
)

// posteriorCache memoises inference results by evidence snapshot. Identical
// requests that miss at the same time share one sampling run.
type posteriorCache struct {
	opts   CacheOptions
	store  *ristretto.Cache[string, *inference.Result]
	group  singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64

	mu      sync.Mutex
	flights map[string]*flight
}

// flight is the lifetime of one shared run. It is cancelled once every
// caller waiting on it has gone.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

func newPosteriorCache(opts CacheOptions) (*posteriorCache, error) {
	store, err := ristretto.NewCache(&ristretto.Config[string, *inference.Result]{
		NumCounters: opts.MaxEntries * 10,
		MaxCost:     opts.MaxEntries,
		BufferItems: 64,
		// Cost counts entries, not bytes.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating posterior cache: %w", err)
	}
	return &posteriorCache{opts: opts, store: store, flights: make(map[string]*flight)}, nil
}

// get returns the cached result for ev or computes it with run. The bool
// reports a cache hit; joining a run started by another caller is not one.
// Cancelling ctx abandons only this caller's wait.
func (c *posteriorCache) get(ctx context.Context, ev *evidence.Set, run func(context.Context) (*inference.Result, error)) (*inference.Result, bool, error) {
	key := ev.Key()
	if res, ok := c.store.Get(key); ok {
		c.hits.Add(1)
		return res, true, nil
	}
	c.misses.Add(1)

	for {
		res, err := c.wait(ctx, key, run)
		// A run abandoned by all of its earlier waiters reports
		// context.Canceled to late joiners; start a fresh one.
		if err != nil && errors.Is(err, context.Canceled) && ctx.Err() == nil {
			continue
		}
		return res, false, err
	}
}

func (c *posteriorCache) wait(ctx context.Context, key string, run func(context.Context) (*inference.Result, error)) (*inference.Result, error) {
	f := c.enter(ctx, key)
	defer c.leave(key, f)

	ch := c.group.DoChan(key, func() (any, error) {
		res, err := run(f.ctx)
		if err != nil {
			return nil, err
		}
		c.store.SetWithTTL(key, res, 1, c.opts.TTL)
		c.store.Wait()
		return res, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*inference.Result), nil
	}
}

func (c *posteriorCache) enter(ctx context.Context, key string) *flight {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.flights[key]
	if !ok {
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: runCtx, cancel: cancel}
		c.flights[key] = f
	}
	f.waiters++
	return f
}

func (c *posteriorCache) leave(key string, f *flight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if c.flights[key] == f {
		delete(c.flights, key)
	}
}

func (c *posteriorCache) close() { c.store.Close() }

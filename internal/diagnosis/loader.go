package diagnosis

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/elevendx/internal/config"
	"github.com/specialistvlad/elevendx/internal/ctxlog"
)

// State is the lifecycle stage of a Loader.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// Loader owns the current Brain and its lifecycle.
type Loader struct {
	source config.Source
	opts   Options

	mu    sync.RWMutex
	state State
	brain *Brain
	err   error

	reloadMu  sync.Mutex
	done      chan struct{}
	closeDone sync.Once
}

// NewLoader returns a Loader that builds brains from source with opts.
func NewLoader(source config.Source, opts Options) *Loader {
	return &Loader{
		source: source,
		opts:   opts,
		done:   make(chan struct{}),
	}
}

// Start begins the first load in the background. Calling it again, or after
// Reload, does nothing.
func (l *Loader) Start(ctx context.Context) {
	l.mu.Lock()
	if l.state != Uninitialized {
		l.mu.Unlock()
		return
	}
	l.state = Loading
	l.mu.Unlock()

	go func() {
		_ = l.Reload(ctx)
	}()
}

// Wait blocks until the first load attempt has finished and returns the
// current brain, or the load error.
func (l *Loader) Wait(ctx context.Context) (*Brain, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-l.done:
	}
	return l.Current()
}

// State returns the lifecycle stage.
func (l *Loader) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Current returns the brain in service.
func (l *Loader) Current() (*Brain, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.brain != nil {
		return l.brain, nil
	}
	if l.err != nil {
		return nil, l.err
	}
	return nil, ErrNotReady
}

// Err returns the error of the most recent failed load, if any.
func (l *Loader) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// Reload loads the source again and swaps in the new brain. When a brain is
// already in service a failed reload keeps it and only reports the error.
func (l *Loader) Reload(ctx context.Context) error {
	l.reloadMu.Lock()
	defer l.reloadMu.Unlock()
	defer l.closeDone.Do(func() { close(l.done) })

	logger := ctxlog.FromContext(ctx)
	if l.source == nil {
		l.fail(ErrNoSource)
		return ErrNoSource
	}

	l.mu.Lock()
	if l.brain == nil {
		l.state = Loading
	}
	l.mu.Unlock()

	logger.Debug("Loading diagnostic model.")
	brain, err := l.build(ctx)
	if err != nil {
		l.fail(err)
		return err
	}

	l.mu.Lock()
	old := l.brain
	l.brain, l.err, l.state = brain, nil, Ready
	l.mu.Unlock()

	if old != nil {
		old.Close()
		logger.Info("Diagnostic model reloaded.", "network", brain.network.Name)
	}
	return nil
}

func (l *Loader) build(ctx context.Context) (*Brain, error) {
	network, err := l.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading network: %w", err)
	}
	return NewBrain(ctx, network, l.opts)
}

func (l *Loader) fail(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
	if l.brain == nil {
		l.state = Failed
	}
}

// Close releases the brain in service.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.brain != nil {
		l.brain.Close()
	}
}

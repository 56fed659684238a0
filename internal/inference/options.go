package inference

import (
	"fmt"
	"runtime"
)

const (
	// DefaultTrials is the number of weighted samples per Infer call.
	DefaultTrials = 10000
	// DefaultMinTotalWeight is the total weight at or below which a run is
	// treated as degenerate.
	DefaultMinTotalWeight = 1e-300

	cancelCheckInterval = 512
)

// Options configures an Engine.
type Options struct {
	// Trials is the number of samples per call.
	Trials int
	// Workers is the number of sampling goroutines. Zero means GOMAXPROCS.
	Workers int
	// Seed makes runs reproducible for a fixed Workers value. Zero draws a
	// fresh seed per call.
	Seed uint64
	// MinTotalWeight is the degeneracy threshold.
	MinTotalWeight float64
}

// DefaultOptions returns the stock settings.
func DefaultOptions() Options {
	return Options{
		Trials:         DefaultTrials,
		MinTotalWeight: DefaultMinTotalWeight,
	}
}

// Validate rejects settings the sampler cannot run with.
func (o Options) Validate() error {
	if o.Trials < 1 {
		return fmt.Errorf("trials must be positive, got %d", o.Trials)
	}
	if o.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", o.Workers)
	}
	if o.MinTotalWeight < 0 {
		return fmt.Errorf("min total weight must not be negative, got %v", o.MinTotalWeight)
	}
	return nil
}

func (o Options) workerCount() int {
	w := o.Workers
	if w == 0 {
		w = runtime.GOMAXPROCS(0)
	}
	return min(w, o.Trials)
}

// partition splits trials into n contiguous chunk sizes that differ by at
// most one.
func partition(trials, n int) []int {
	chunks := make([]int, n)
	base, extra := trials/n, trials%n
	for i := range chunks {
		chunks[i] = base
		if i < extra {
			chunks[i]++
		}
	}
	return chunks
}

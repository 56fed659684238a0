package inference

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/elevendx/internal/cpt"
	"github.com/specialistvlad/elevendx/internal/ctxlog"
	"github.com/specialistvlad/elevendx/internal/evidence"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Engine runs likelihood weighting over a frozen table store.
type Engine struct {
	store *cpt.Store
	opts  Options
}

// New returns an Engine for store.
func New(store *cpt.Store, opts Options) (*Engine, error) {
	if store == nil {
		return nil, errors.New("inference engine needs a table store")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid inference options: %w", err)
	}
	return &Engine{store: store, opts: opts}, nil
}

// Options returns the engine's settings.
func (e *Engine) Options() Options { return e.opts }

// WithTrials returns an engine sharing e's tables with a different trial
// count.
func (e *Engine) WithTrials(trials int) (*Engine, error) {
	opts := e.opts
	opts.Trials = trials
	return New(e.store, opts)
}

// Infer computes the marginals of every node given ev. A nil ev means no
// evidence. A cancelled ctx yields ctx.Err() and no result.
func (e *Engine) Infer(ctx context.Context, ev *evidence.Set) (*Result, error) {
	start := time.Now()
	g := e.store.Graph()
	runID := uuid.NewString()[:12]
	ctx, logger := ctxlog.With(ctx, "run_id", runID)

	workers := e.opts.workerCount()
	ctx, span := tracer.Start(ctx, "inference.Infer",
		trace.WithAttributes(
			attribute.String("run_id", runID),
			attribute.Int("trials", e.opts.Trials),
			attribute.Int("workers", workers),
			attribute.Int("evidence_count", ev.Len()),
		),
	)
	defer span.End()
	defer func() { inferenceDuration.Observe(time.Since(start).Seconds()) }()

	observed, err := ev.Resolve(g)
	if err != nil {
		inferenceRuns.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	offsets := make([]int, g.Len())
	width := 0
	for i := range offsets {
		offsets[i] = width
		width += g.At(i).NumStates()
	}

	seed := e.opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	logger.Debug("Starting inference.", "trials", e.opts.Trials, "workers", workers, "evidence", ev.Key())
	pool := make([]*worker, workers)
	eg, egCtx := errgroup.WithContext(ctx)
	for w, chunk := range partition(e.opts.Trials, workers) {
		rng := rand.New(rand.NewPCG(seed, uint64(w)+1))
		pool[w] = newWorker(e.store, observed, offsets, width, rng)
		eg.Go(func() error { return pool[w].run(egCtx, chunk) })
	}
	if err := eg.Wait(); err != nil {
		inferenceRuns.WithLabelValues("cancelled").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "inference cancelled")
		logger.Debug("Inference cancelled.", "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		inferenceRuns.WithLabelValues("cancelled").Inc()
		span.SetStatus(codes.Error, "inference cancelled")
		return nil, err
	}

	total := accumulator{counts: make([]float64, width)}
	for _, w := range pool {
		total.add(&w.acc)
	}
	inferenceTrials.Add(float64(e.opts.Trials))

	res := &Result{
		RunID:       runID,
		Trials:      e.opts.Trials,
		TotalWeight: total.total,
		Evidence:    ev.AsMap(),
		graph:       g,
		marginals:   make([][]float64, g.Len()),
	}
	degenerate := total.total <= e.opts.MinTotalWeight || math.IsNaN(total.total) || math.IsInf(total.total, 0)
	for i := range res.marginals {
		k := g.At(i).NumStates()
		m := make([]float64, k)
		if !degenerate {
			for s := range m {
				m[s] = total.counts[offsets[i]+s] / total.total
			}
		}
		res.marginals[i] = m
	}

	span.SetAttributes(attribute.Bool("degenerate", degenerate), attribute.Float64("total_weight", total.total))
	if degenerate {
		res.Degenerate = true
		res.Diagnostic = fmt.Errorf("%w: total weight %g for evidence %s", ErrSamplingDegeneracy, total.total, ev)
		inferenceRuns.WithLabelValues("degenerate").Inc()
		logger.Warn("Inference degenerated, returning zero marginals.", "total_weight", total.total, "evidence", ev.Key())
	} else {
		inferenceRuns.WithLabelValues("ok").Inc()
	}
	span.SetStatus(codes.Ok, "")
	logger.Debug("Inference complete.", "duration", time.Since(start), "total_weight", total.total)
	return res, nil
}

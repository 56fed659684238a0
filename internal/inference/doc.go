// Package inference computes posterior marginals by likelihood weighting.
//
// Each trial walks the graph in topological order. An unobserved node draws a
// state from the table row selected by its sampled parents. An observed node
// is pinned to its value and the trial weight is multiplied by the
// probability of that value under the same row. Posterior P(X=x | evidence)
// is the weight of trials with X=x divided by the total weight.
//
// Trials are split into contiguous chunks, one per worker goroutine. Workers
// own their random source and accumulator, so the only synchronisation is the
// final sum after errgroup.Wait. The Engine itself holds nothing but the
// read-only graph, the tables and its options; one Engine serves any number of
// concurrent Infer calls.
//
// When the evidence is (nearly) impossible under the tables the total weight
// collapses. Infer then returns a Result with every marginal at zero,
// Degenerate set and Diagnostic wrapping ErrSamplingDegeneracy instead of
// dividing by zero.
package inference

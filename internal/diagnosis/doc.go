// Package diagnosis is the query surface of the diagnostic core.
//
// A Brain bundles one validated network: its graph, its probability tables,
// an inference engine and a question selector. It answers the two questions a
// symptom-intake front end asks, given the answers collected so far:
//
//   - Infer: how likely is each disease, in percent?
//   - NextQuestion: which unanswered symptom should be asked next?
//
// Assess answers both from a single sampling pass. A Brain is immutable and
// safe for concurrent use.
//
// # Lifecycle
//
// Networks come from files or a remote table and may be reloaded while
// requests are in flight. Loader moves through Uninitialized, Loading, Ready
// and Failed; Wait blocks until the first load settles. Reload swaps brains
// atomically, and calls that already hold the old Brain finish on it.
package diagnosis

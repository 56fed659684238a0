package inference

import "errors"

// ErrSamplingDegeneracy marks a run whose total trial weight collapsed.
var ErrSamplingDegeneracy = errors.New("sampling degeneracy: evidence has near-zero likelihood")

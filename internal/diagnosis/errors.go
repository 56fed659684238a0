package diagnosis

import "errors"

var (
	// ErrNotReady is returned by Loader.Current before the first successful
	// load.
	ErrNotReady = errors.New("diagnostic model is not ready")
	// ErrNoSource is returned when a Loader has nothing to load from.
	ErrNoSource = errors.New("no graph source configured")
)

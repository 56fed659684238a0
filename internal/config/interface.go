package config

import "context"

// Source is the interface for anything that can supply a network definition:
// local files, embedded assets or a remote data store. Implementations must
// not build or validate the graph; they only translate their format.
type Source interface {
	Load(ctx context.Context) (*Network, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(ctx context.Context) (*Network, error)

// Load implements Source.
func (f SourceFunc) Load(ctx context.Context) (*Network, error) {
	return f(ctx)
}

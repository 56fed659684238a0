package supabasesource

import (
	"context"
	"fmt"

	"github.com/supabase-community/supabase-go"
)

// Querier runs a filtered select against one table and returns the raw JSON
// array the server sent.
type Querier interface {
	Select(ctx context.Context, table string, eq map[string]string) ([]byte, error)
}

type clientQuerier struct {
	client *supabase.Client
}

// NewQuerier wraps a Supabase client.
func NewQuerier(url, key string) (Querier, error) {
	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create Supabase client: %w", err)
	}
	return &clientQuerier{client: client}, nil
}

func (q *clientQuerier) Select(ctx context.Context, table string, eq map[string]string) ([]byte, error) {
	fb := q.client.From(table).Select("*", "", false)
	for col, v := range eq {
		fb = fb.Eq(col, v)
	}

	// The PostgREST client has no context support, so the request runs on
	// its own goroutine and is abandoned if ctx ends first.
	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		data, _, err := fb.Execute()
		ch <- result{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("select from %s: %w", table, r.err)
		}
		return r.data, nil
	}
}

package inmemorystore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/specialistvlad/elevendx/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, session.ErrNotFound)

	in := &session.Session{ID: "abc", Evidence: map[string]string{"fever": "yes"}}
	require.NoError(t, s.Put(ctx, in))

	out, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "yes", out.Evidence["fever"])

	// Neither the stored value nor the caller's copy leak into each other.
	in.Evidence["cough"] = "no"
	out.Evidence["xray"] = "normal"
	again, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"fever": "yes"}, again.Evidence)
}

func TestPutRejectsAnonymousSession(t *testing.T) {
	s := New()
	require.Error(t, s.Put(context.Background(), &session.Session{}))
	require.Error(t, s.Put(context.Background(), nil))
}

func TestDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, &session.Session{ID: "abc"}))
	require.NoError(t, s.Delete(ctx, "abc"))
	assert.ErrorIs(t, s.Delete(ctx, "abc"), session.ErrNotFound)
	assert.Zero(t, s.Len())
}

func TestCancelledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Put(ctx, &session.Session{ID: "abc"}), context.Canceled)
	_, err := s.Get(ctx, "abc")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			assert.NoError(t, s.Put(ctx, &session.Session{ID: id}))
			_, err := s.Get(ctx, id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}

// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the session.Store interface.
//
// # Purpose
//
// This package keeps intake conversations for a single process: the CLI
// interview command and tests. Sessions live in a sync.Map, keyed by id.
//
// # Characteristics
//
//   - **Ephemeral:** Nothing survives a restart
//   - **Thread-Safe:** Independent sessions never contend on a shared lock
//   - **Copy Semantics:** Get and Put copy the session, so callers can mutate
//     what they hold without touching the stored value
//
// # Concurrency Model
//
// The key space grows and shrinks as conversations start and end, and each
// key is written by one conversation at a time. sync.Map fits that pattern
// without a global mutex. Serialising turns of the same session is the
// session.Manager's job, not the store's.
//
// A persistent implementation (e.g. backed by Redis or Postgres) would be
// needed to share sessions between processes.
package inmemorystore

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/elevendx/internal/session"
)

// Store is an in-memory session.Store.
type Store struct {
	sessions sync.Map // Key: session id, Value: *session.Session
}

var _ session.Store = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// Get returns a copy of the session with the given id.
func (s *Store) Get(ctx context.Context, id string) (*session.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, ok := s.sessions.Load(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", session.ErrNotFound, id)
	}
	return v.(*session.Session).Clone(), nil
}

// Put stores a copy of sess, replacing any session with the same id.
func (s *Store) Put(ctx context.Context, sess *session.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sess == nil || sess.ID == "" {
		return fmt.Errorf("cannot store a session without an id")
	}
	s.sessions.Store(sess.ID, sess.Clone())
	return nil
}

// Delete removes a session. Deleting an unknown id returns session.ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := s.sessions.LoadAndDelete(id); !ok {
		return fmt.Errorf("%w: %s", session.ErrNotFound, id)
	}
	return nil
}

// Len counts stored sessions.
func (s *Store) Len() int {
	n := 0
	s.sessions.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

package session

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/specialistvlad/elevendx/internal/diagnosis"
)

var (
	// ErrNotFound is returned by a Store for unknown ids.
	ErrNotFound = errors.New("session not found")
	// ErrFinished is returned when a finished session receives input.
	ErrFinished = errors.New("session is finished")
	// ErrInvalidTransition reports a phase change the state machine forbids.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrIDExhausted means no unused session id could be drawn.
	ErrIDExhausted = errors.New("no free session id")
)

const maxIDAttempts = 3

// Phase is where a conversation stands.
type Phase int

const (
	AwaitingEvidence Phase = iota
	Inferring
	Finished
)

func (p Phase) String() string {
	switch p {
	case Inferring:
		return "inferring"
	case Finished:
		return "finished"
	default:
		return "awaiting_evidence"
	}
}

var transitions = map[Phase][]Phase{
	AwaitingEvidence: {Inferring, Finished},
	Inferring:        {AwaitingEvidence, Finished},
}

// Session is the state of one conversation.
type Session struct {
	ID        string
	Phase     Phase
	Evidence  map[string]string
	Pending   string // node id of the question last asked
	Last      *diagnosis.Assessment
	Asked     []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of the mutable parts of s. The assessment is
// shared; it is never modified after creation.
func (s *Session) Clone() *Session {
	c := *s
	c.Evidence = maps.Clone(s.Evidence)
	c.Asked = slices.Clone(s.Asked)
	return &c
}

// transition moves s to next if the state machine allows it.
func (s *Session) transition(next Phase) error {
	if !slices.Contains(transitions[s.Phase], next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Phase, next)
	}
	s.Phase = next
	s.UpdatedAt = time.Now()
	return nil
}

// Store persists sessions between turns.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/elevendx/internal/ctxlog"
	"github.com/specialistvlad/elevendx/internal/diagnosis"
	"github.com/specialistvlad/elevendx/internal/intake"
)

// BrainSource hands out the brain currently in service. *diagnosis.Loader
// implements it.
type BrainSource interface {
	Current() (*diagnosis.Brain, error)
}

// Turn is what the caller shows after one step of the conversation.
type Turn struct {
	SessionID  string
	Phase      Phase
	Assessment *diagnosis.Assessment
	// QuestionID and Question are empty once the session is finished.
	QuestionID string
	Question   string
	// Reprompt is set when the answer could not be understood; the same
	// question stands.
	Reprompt bool
}

// Manager runs conversations.
type Manager struct {
	store  Store
	brains BrainSource

	locks sync.Map // session id -> *sync.Mutex

	catalogMu    sync.Mutex
	catalogBrain *diagnosis.Brain
	catalog      *intake.Catalog
}

// NewManager returns a Manager keeping sessions in store.
func NewManager(store Store, brains BrainSource) *Manager {
	return &Manager{store: store, brains: brains}
}

func (m *Manager) lock(id string) func() {
	v, _ := m.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Catalog returns the question catalog of the brain in service.
func (m *Manager) Catalog() (*intake.Catalog, error) {
	brain, err := m.brains.Current()
	if err != nil {
		return nil, err
	}
	return m.catalogFor(brain), nil
}

func (m *Manager) catalogFor(brain *diagnosis.Brain) *intake.Catalog {
	m.catalogMu.Lock()
	defer m.catalogMu.Unlock()
	if m.catalogBrain != brain {
		m.catalog = intake.NewCatalog(brain.Network())
		m.catalogBrain = brain
	}
	return m.catalog
}

// Start opens a session with optional initial evidence and returns the first
// turn.
func (m *Manager) Start(ctx context.Context, initial map[string]string) (*Turn, error) {
	id, err := m.newID(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	s := &Session{
		ID:        id,
		Phase:     AwaitingEvidence,
		Evidence:  map[string]string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for k, v := range initial {
		s.Evidence[k] = v
	}
	ctxlog.FromContext(ctx).Debug("Session started.", "session_id", s.ID, "evidence", len(s.Evidence))

	unlock := m.lock(s.ID)
	defer unlock()
	return m.advance(ctx, s)
}

// newID returns a random id that the store does not hold yet.
func (m *Manager) newID(ctx context.Context) (string, error) {
	for range maxIDAttempts {
		id := uuid.NewString()
		_, err := m.store.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking session id: %w", err)
		}
	}
	return "", ErrIDExhausted
}

// Answer records a free-text reply to the pending question.
func (m *Manager) Answer(ctx context.Context, id, text string) (*Turn, error) {
	unlock := m.lock(id)
	defer unlock()

	s, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	brain, err := m.brains.Current()
	if err != nil {
		return nil, err
	}
	entry, ok := m.catalogFor(brain).Entry(s.Pending)
	if !ok {
		return nil, fmt.Errorf("session %s has no pending question", id)
	}
	value, ok := intake.ParseAnswer(text, entry.States)
	if !ok {
		return m.turn(brain, s, true), nil
	}
	s.Evidence[s.Pending] = value
	return m.advance(ctx, s)
}

// Observe adds evidence gathered elsewhere, e.g. from a scanned document.
func (m *Manager) Observe(ctx context.Context, id string, observations map[string]string) (*Turn, error) {
	unlock := m.lock(id)
	defer unlock()

	s, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	for k, v := range observations {
		s.Evidence[k] = v
	}
	return m.advance(ctx, s)
}

// Get returns a copy of the session.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// End removes the session.
func (m *Manager) End(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()
	defer m.locks.Delete(id)
	return m.store.Delete(ctx, id)
}

func (m *Manager) load(ctx context.Context, id string) (*Session, error) {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Phase == Finished {
		return nil, fmt.Errorf("%w: %s", ErrFinished, id)
	}
	return s, nil
}

// advance runs inference for the session's evidence and stores the result.
// Invalid evidence leaves the stored session untouched.
func (m *Manager) advance(ctx context.Context, s *Session) (*Turn, error) {
	logger := ctxlog.FromContext(ctx).With("session_id", s.ID)
	brain, err := m.brains.Current()
	if err != nil {
		return nil, err
	}
	if err := s.transition(Inferring); err != nil {
		return nil, err
	}
	a, err := brain.Assess(ctx, s.Evidence)
	if err != nil {
		return nil, err
	}
	s.Last = a

	next := AwaitingEvidence
	s.Pending = a.NextQuestion
	if a.Done {
		next = Finished
	} else {
		s.Asked = append(s.Asked, a.NextQuestion)
	}
	if err := s.transition(next); err != nil {
		return nil, err
	}
	if err := m.store.Put(ctx, s); err != nil {
		return nil, err
	}
	logger.Debug("Session advanced.", "phase", s.Phase.String(), "next", s.Pending)
	return m.turn(brain, s, false), nil
}

func (m *Manager) turn(brain *diagnosis.Brain, s *Session, reprompt bool) *Turn {
	t := &Turn{
		SessionID:  s.ID,
		Phase:      s.Phase,
		Assessment: s.Last,
		Reprompt:   reprompt,
	}
	if s.Phase != Finished && s.Pending != "" {
		t.QuestionID = s.Pending
		t.Question = m.catalogFor(brain).Question(s.Pending)
	}
	return t
}

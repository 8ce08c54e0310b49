package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"iot-practice-service/internal/domain"
	"iot-practice-service/internal/practice"
	"iot-practice-service/internal/telemetry"
)

// SessionRepository abstracts how practice sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(sessionID string) *Session
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
	// DeleteIdle drops sessions not touched since before and reports how many.
	DeleteIdle(before time.Time) int
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) ([]domain.Assignment, error)
}

// Options tunes a PracticeService.
type Options struct {
	BankID                string
	AllowSequentialForAll bool
	Recorder              telemetry.Recorder
}

// DefaultBankID is used when Options.BankID is empty.
const DefaultBankID = "default"

// PracticeService contains the practice use cases.
type PracticeService struct {
	sessions           SessionRepository
	banks              BankRepository
	bankID             string
	allowSequentialAll bool
	recorder           telemetry.Recorder
	now                func() time.Time
}

func NewPracticeService(store SessionRepository, banks BankRepository, opts Options) *PracticeService {
	if opts.BankID == "" {
		opts.BankID = DefaultBankID
	}
	if opts.Recorder == nil {
		opts.Recorder = telemetry.Nop{}
	}
	return &PracticeService{
		sessions:           store,
		banks:              banks,
		bankID:             opts.BankID,
		allowSequentialAll: opts.AllowSequentialForAll,
		recorder:           opts.Recorder,
		now:                time.Now,
	}
}

// Open returns the session's current view, creating it on the Setup screen
// if it does not exist yet.
func (s *PracticeService) Open(ctx context.Context, sessionID string) (practice.View, error) {
	bank, err := s.banks.GetBank(ctx, s.bankID)
	if err != nil {
		return practice.View{}, err
	}
	session := s.sessions.GetOrCreate(sessionID)
	return session.open(s.rules(bank, session)), nil
}

// Apply feeds one user event to the session's state machine.
func (s *PracticeService) Apply(ctx context.Context, sessionID string, ev practice.Event) (practice.View, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return practice.View{}, domain.ErrSessionNotFound
	}
	bank, err := s.banks.GetBank(ctx, s.bankID)
	if err != nil {
		return practice.View{}, err
	}

	before, after, view := session.apply(ev, s.rules(bank, session))
	if usage := s.telemetryFor(sessionID, before, after); usage != nil {
		s.recorder.Record(ctx, *usage)
	}
	return view, nil
}

// View renders the session without changing it.
func (s *PracticeService) View(ctx context.Context, sessionID string) (practice.View, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return practice.View{}, domain.ErrSessionNotFound
	}
	bank, err := s.banks.GetBank(ctx, s.bankID)
	if err != nil {
		return practice.View{}, err
	}
	return session.open(s.rules(bank, session)), nil
}

// Assignments lists the configured bank.
func (s *PracticeService) Assignments(ctx context.Context) ([]domain.Assignment, error) {
	return s.banks.GetBank(ctx, s.bankID)
}

// Close destroys a session.
func (s *PracticeService) Close(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

// Sweep removes sessions idle for longer than idle.
func (s *PracticeService) Sweep(idle time.Duration) int {
	return s.sessions.DeleteIdle(s.now().Add(-idle))
}

func (s *PracticeService) rules(bank []domain.Assignment, session *Session) practice.Rules {
	return practice.Rules{
		Bank:                  bank,
		Rand:                  session.rnd,
		AllowSequentialForAll: s.allowSequentialAll,
	}
}

// telemetryFor derives the usage event, if any, implied by a transition.
func (s *PracticeService) telemetryFor(sessionID string, before, after practice.State) *telemetry.Event {
	ev := telemetry.Event{SessionID: sessionID, Screen: string(after.Screen()), At: s.now()}
	switch prev := before.(type) {
	case practice.Setup:
		next, ok := after.(practice.Active)
		if !ok {
			return nil
		}
		ev.Name = telemetry.PracticeStarted
		ev.Assignment = prev.Assignment
		ev.Mode = string(prev.Mode)
		ev.Total = len(next.Questions)
	case practice.Active:
		ev.Total = len(prev.Questions)
		switch next := after.(type) {
		case practice.Active:
			if prev.Revealed || !next.Revealed {
				return nil
			}
			correct := next.Score > prev.Score
			ev.Name = telemetry.AnswerSubmitted
			ev.Correct = &correct
			ev.Score = next.Score
		case practice.Finished:
			ev.Name = telemetry.PracticeFinished
			ev.Score = next.Score
		default:
			return nil
		}
	case practice.Finished:
		if after.Screen() != practice.ScreenSetup {
			return nil
		}
		ev.Name = telemetry.PracticeReset
		ev.Score = prev.Score
		ev.Total = prev.Total
	default:
		return nil
	}
	return &ev
}

// Session owns the state of a single practice run.
type Session struct {
	id        string
	createdAt time.Time
	now       func() time.Time
	rnd       practice.Rand

	mu        sync.Mutex
	state     practice.State
	updatedAt time.Time
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string) *Session {
	return newSession(id, time.Now, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, now func() time.Time) *Session {
	return newSession(id, now, rand.New(rand.NewSource(now().UnixNano())))
}

// NewSessionWithRand is test-only for deterministic shuffles.
func NewSessionWithRand(id string, rnd practice.Rand) *Session {
	return newSession(id, time.Now, rnd)
}

func newSession(id string, now func() time.Time, rnd practice.Rand) *Session {
	created := now()
	return &Session{
		id:        id,
		createdAt: created,
		now:       now,
		rnd:       rnd,
		updatedAt: created,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current state, nil until the session is opened.
func (s *Session) State() practice.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// UpdatedAt is the time of the last open or event.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) open(rules practice.Rules) practice.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		s.state = rules.Initial()
	}
	s.updatedAt = s.now()
	return practice.Render(s.state, rules)
}

func (s *Session) apply(ev practice.Event, rules practice.Rules) (before, after practice.State, view practice.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		s.state = rules.Initial()
	}
	before = s.state
	s.state = practice.Step(s.state, ev, rules)
	s.updatedAt = s.now()
	return before, s.state, practice.Render(s.state, rules)
}

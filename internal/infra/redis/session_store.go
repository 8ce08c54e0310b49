package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"iot-practice-service/internal/app"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - Sessions live in a local map; a run is owned by the instance its
//     client is connected to.
//   - Redis carries a liveness marker per session so operators can count
//     open runs across instances.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) GetOrCreate(sessionID string) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[sessionID]; ok {
		s.touch(sessionID)
		return session
	}
	session := app.NewSession(sessionID)
	s.sessions[sessionID] = session
	s.touch(sessionID)
	return session
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if ok {
		s.touch(sessionID)
	}
	return session, ok
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

func (s *SessionStore) DeleteIdle(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var idle []string
	for id, session := range s.sessions {
		if session.UpdatedAt().Before(before) {
			idle = append(idle, id)
		}
	}
	if len(idle) == 0 {
		return 0
	}
	keys := make([]string, len(idle))
	for i, id := range idle {
		delete(s.sessions, id)
		keys[i] = s.key(id)
	}
	_ = s.client.Del(context.Background(), keys...).Err()
	return len(idle)
}

// best-effort liveness marker
func (s *SessionStore) touch(sessionID string) {
	_ = s.client.Set(context.Background(), s.key(sessionID), "1", s.ttl).Err()
}

func (s *SessionStore) key(sessionID string) string {
	return "practice:session:" + sessionID
}

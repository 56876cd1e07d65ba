package repositories

import (
	"sync"

	"github.com/bdlove4you1/telygram-bot/internal/models"
)

// SessionRepository — per-user conversation sessions, in memory only.
// Each entry is only ever written on behalf of its own user, so a plain
// RWMutex over the map is enough for concurrent distinct users.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[int64]*models.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[int64]*models.Session)}
}

// Get returns nil when the user has no session at all.
func (r *SessionRepository) Get(userID int64) *models.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[userID]
	if !ok {
		return nil
	}
	cp := *s
	return &cp
}

func (r *SessionRepository) Put(s *models.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.UserID] = s
}

// SetState flips only the state tag, keeping VerifiedPhone as is.
func (r *SessionRepository) SetState(userID int64, state models.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[userID]; ok {
		s.State = state
	} else {
		r.sessions[userID] = &models.Session{UserID: userID, State: state}
	}
}

// SetVerified records the verified phone and ends the conversation.
func (r *SessionRepository) SetVerified(userID int64, phone string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok {
		s = &models.Session{UserID: userID}
		r.sessions[userID] = s
	}
	s.VerifiedPhone = phone
	s.State = models.StateEnded
}

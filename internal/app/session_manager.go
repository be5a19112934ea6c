package app

import (
	"sync"

	"github.com/sujals170/Bright-Byte-sub000/internal/core"
	"github.com/sujals170/Bright-Byte-sub000/internal/domain"
)

type SessionManagerImpl struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]core.SessionService
}

func NewSessionManager() core.SessionStore {
	return &SessionManagerImpl{sessions: make(map[domain.SessionID]core.SessionService)}
}

func (m *SessionManagerImpl) Schedule(courseID domain.CourseID, title string) (core.SessionService, error) {
	sess, err := domain.NewSession(courseID, title)
	if err != nil {
		return nil, err
	}
	svc := core.NewSessionService(sess)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = svc
	return svc, nil
}

func (m *SessionManagerImpl) Get(id domain.SessionID) (core.SessionService, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	svc, ok := m.sessions[id]
	return svc, ok
}

func (m *SessionManagerImpl) List() []core.SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.SessionInfo, 0, len(m.sessions))
	for _, svc := range m.sessions {
		s := svc.Session()
		out = append(out, core.SessionInfo{
			ID:               s.ID,
			CourseID:         s.CourseID,
			Title:            s.Title,
			Live:             s.Live,
			ParticipantCount: svc.ParticipantCount(),
		})
	}
	return out
}

func (m *SessionManagerImpl) SetLive(id domain.SessionID, live bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	svc, ok := m.sessions[id]
	if !ok {
		return false
	}
	svc.SetLive(live)
	return true
}

func (m *SessionManagerImpl) Remove(id domain.SessionID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sujals170/Bright-Byte-sub000/internal/domain"
)

// sessionImpl is a threadsafe in-memory rendezvous group.
// It never closes adapter-owned resources.
type sessionImpl struct {
	session *domain.Session

	mu         sync.RWMutex
	byConn     map[ConnID]ParticipantSession
	instructor ConnID // empty when no instructor is registered
}

func NewSessionService(session *domain.Session) SessionService {
	return &sessionImpl{
		session: session,
		byConn:  make(map[ConnID]ParticipantSession),
	}
}

func (s *sessionImpl) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.session
}

func (s *sessionImpl) Live() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Live
}

func (s *sessionImpl) SetLive(live bool) {
	s.mu.Lock()
	s.session.Live = live
	s.mu.Unlock()
}

func (s *sessionImpl) ParticipantCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byConn)
}

func (s *sessionImpl) AddParticipant(cid ConnID, ps ParticipantSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ps.Meta().Role == domain.RoleInstructor {
		if s.instructor != "" && s.instructor != cid {
			return ErrInstructorTaken
		}
		s.instructor = cid
	}
	s.byConn[cid] = ps
	log.Info().Str("module", "core.session").
		Str("session", string(s.session.ID)).
		Str("cid", string(cid)).
		Str("role", string(ps.Meta().Role)).
		Msg("participant added")
	return nil
}

func (s *sessionImpl) RemoveParticipant(cid ConnID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byConn[cid]; !ok {
		return
	}
	delete(s.byConn, cid)
	if s.instructor == cid {
		s.instructor = ""
	}
	log.Info().Str("module", "core.session").
		Str("session", string(s.session.ID)).
		Str("cid", string(cid)).
		Msg("participant removed")
}

func (s *sessionImpl) Instructor() (ConnID, ParticipantSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.instructor == "" {
		return "", nil, false
	}
	ps, ok := s.byConn[s.instructor]
	if !ok {
		return "", nil, false
	}
	return s.instructor, ps, true
}

func (s *sessionImpl) BroadcastExcept(from ConnID, data Frame) PublishResult {
	return s.fanout(from, data, func(ParticipantSession) bool { return true })
}

func (s *sessionImpl) ForwardToRole(from ConnID, role domain.Role, data Frame) PublishResult {
	return s.fanout(from, data, func(ps ParticipantSession) bool {
		return ps.Meta().Role == role
	})
}

func (s *sessionImpl) fanout(from ConnID, data Frame, want func(ParticipantSession) bool) PublishResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := PublishResult{}
	for cid, ps := range s.byConn {
		if cid == from || !want(ps) {
			continue
		}
		if err := ps.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, cid)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.session").
		Str("session", string(s.session.ID)).
		Str("from", string(from)).
		Int("sent_to", res.SentTo).
		Int("dropped", len(res.Dropped)).
		Msg("fanout result")
	return res
}

func (s *sessionImpl) ParticipantsSnapshot() []ParticipantDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ParticipantDTO, 0, len(s.byConn))
	for cid, ps := range s.byConn {
		m := ps.Meta()
		out = append(out, ParticipantDTO{ConnID: cid, Subject: m.Subject, Role: m.Role})
	}
	return out
}

package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/sujals170/Bright-Byte-sub000/internal/core"
	"github.com/sujals170/Bright-Byte-sub000/internal/domain"
	"github.com/sujals170/Bright-Byte-sub000/internal/metrics"
)

// Relay is the signaling protocol state machine. It validates the sender's
// role against the message type, computes forward targets through the
// session registry, and moves payloads opaquely. It never parses SDP.
type Relay struct {
	Registry *Registry
	Sessions core.SessionStore
	Policy   Policy
	Metrics  *metrics.Metrics

	// RequireLive rejects student joins for sessions not marked live.
	RequireLive bool
}

func NewRelay(reg *Registry, sessions core.SessionStore, policy Policy, m *metrics.Metrics) *Relay {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Relay{
		Registry: reg,
		Sessions: sessions,
		Policy:   policy,
		Metrics:  m,
	}
}

// Join adds a bound connection to a session. A connection already in another
// session is moved, not duplicated. If the joiner is a student and an
// instructor is registered, the instructor is notified with student-joined
// exactly once; that notification is the trigger for a fresh offer cycle, so
// late joiners never require a session restart.
func (r *Relay) Join(cid core.ConnID, sid domain.SessionID) error {
	ps, ok := r.Registry.Get(cid)
	if !ok {
		return ErrNotInSession
	}
	svc, ok := r.Sessions.Get(sid)
	if !ok {
		return ErrSessionNotFound
	}

	// Validate the target before leaving the current session: a rejected
	// move must not cost the caller its existing membership.
	role := ps.Meta().Role
	if r.RequireLive && role == domain.RoleStudent && !svc.Live() {
		return ErrSessionNotLive
	}
	if role == domain.RoleInstructor {
		if iid, _, taken := svc.Instructor(); taken && iid != cid {
			return core.ErrInstructorTaken
		}
	}

	if prev, _, joined := r.Registry.SessionOf(cid); joined {
		r.Leave(cid)
		log.Info().Str("module", "app.relay").Str("cid", string(cid)).Str("prev", string(prev)).Msg("left previous session on join")
	}

	if err := svc.AddParticipant(cid, ps); err != nil {
		return err
	}
	r.Registry.SetSession(cid, sid)
	r.Metrics.JoinAccepted(string(role))

	if role == domain.RoleStudent {
		r.notifyInstructor(svc, cid, sid)
	}
	return nil
}

func (r *Relay) notifyInstructor(svc core.SessionService, student core.ConnID, sid domain.SessionID) {
	iid, inst, ok := svc.Instructor()
	if !ok {
		// Students joining before the instructor is a normal race, not an error.
		return
	}
	frame, err := json.Marshal(core.StudentJoinedMsg{Type: core.MsgStudentJoined, SessionID: sid})
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("marshal student-joined")
		return
	}
	if err := inst.Signal().TrySend(frame); err != nil {
		r.Metrics.BackpressureDrop(1)
		r.applyPolicy(svc, iid)
		return
	}
	r.Metrics.MessageForwarded(core.MsgStudentJoined, 1)
	log.Info().Str("module", "app.relay").
		Str("session", string(sid)).
		Str("student", string(student)).
		Msg("student-joined sent to instructor")
}

// Leave removes the connection from whichever session it belongs to.
// Idempotent: leaving twice, or without having joined, is a no-op. An
// instructor leaving emits instructor-left to every remaining student so
// they are not silently orphaned.
func (r *Relay) Leave(cid core.ConnID) {
	sid, ps, ok := r.Registry.SessionOf(cid)
	if !ok {
		return
	}
	if svc, found := r.Sessions.Get(sid); found {
		if ps.Meta().Role == domain.RoleInstructor {
			r.announceInstructorLeft(svc, cid, sid)
		}
		svc.RemoveParticipant(cid)
	}
	r.Registry.ClearSession(cid)
	r.Metrics.ParticipantLeft()
}

func (r *Relay) announceInstructorLeft(svc core.SessionService, cid core.ConnID, sid domain.SessionID) {
	frame, err := json.Marshal(core.InstructorLeftMsg{Type: core.MsgInstructorLeft, SessionID: sid})
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("marshal instructor-left")
		return
	}
	res := svc.ForwardToRole(cid, domain.RoleStudent, frame)
	r.Metrics.MessageForwarded(core.MsgInstructorLeft, res.SentTo)
	r.handleDropped(svc, res)
}

// OnDisconnect is the transport-level teardown path: registry cleanup plus
// dropping the connection binding itself.
func (r *Relay) OnDisconnect(cid core.ConnID) {
	r.Leave(cid)
	r.Registry.Unbind(cid)
}

// Forward validates and relays one offer/answer/ice-candidate frame. The
// frame is delivered byte-for-byte; only the envelope was parsed upstream.
func (r *Relay) Forward(cid core.ConnID, msgType string, data core.Frame) error {
	sid, ps, ok := r.Registry.SessionOf(cid)
	if !ok {
		r.Metrics.ProtocolViolation("not_in_session")
		return ErrNotInSession
	}
	svc, ok := r.Sessions.Get(sid)
	if !ok {
		r.Metrics.ProtocolViolation("session_missing")
		return ErrSessionNotFound
	}

	role := ps.Meta().Role
	var res core.PublishResult
	switch msgType {
	case core.MsgOffer:
		if role != domain.RoleInstructor {
			r.Metrics.ProtocolViolation("student_offer")
			return ErrRoleViolation
		}
		res = svc.ForwardToRole(cid, domain.RoleStudent, data)
	case core.MsgAnswer:
		if role != domain.RoleStudent {
			r.Metrics.ProtocolViolation("instructor_answer")
			return ErrRoleViolation
		}
		res = svc.ForwardToRole(cid, domain.RoleInstructor, data)
	case core.MsgICECandidate:
		res = svc.ForwardToRole(cid, role.Other(), data)
	default:
		r.Metrics.ProtocolViolation("unknown_type")
		return ErrRoleViolation
	}

	r.Metrics.MessageForwarded(msgType, res.SentTo)
	r.handleDropped(svc, res)
	return nil
}

func (r *Relay) handleDropped(svc core.SessionService, res core.PublishResult) {
	if len(res.Dropped) == 0 {
		return
	}
	r.Metrics.BackpressureDrop(len(res.Dropped))
	for _, slow := range res.Dropped {
		r.applyPolicy(svc, slow)
	}
}

func (r *Relay) applyPolicy(svc core.SessionService, cid core.ConnID) {
	if r.Policy == nil {
		return
	}
	switch r.Policy.OnBackPressure(svc, cid) {
	case KickParticipant:
		log.Warn().Str("module", "app.relay").Str("cid", string(cid)).Msg("kicking slow participant")
		r.Leave(cid)
		r.Registry.Cancel(cid)
	case MarkSlow, DropFrame, NoAction:
	}
}

// EvictSession removes every participant and forgets the session.
func (r *Relay) EvictSession(sid domain.SessionID) {
	svc, ok := r.Sessions.Get(sid)
	if !ok {
		return
	}
	for _, p := range svc.ParticipantsSnapshot() {
		r.Leave(p.ConnID)
	}
	r.Sessions.Remove(sid)
}

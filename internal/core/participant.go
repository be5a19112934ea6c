package core

import "github.com/sujals170/Bright-Byte-sub000/internal/domain"

// ParticipantSession binds domain.Participant and its transport endpoint.
// This is what a session stores and fans out to.
type ParticipantSession interface {
	Meta() *domain.Participant
	Signal() SignalConnection
}

type participantSession struct {
	meta *domain.Participant
	conn SignalConnection
}

func NewParticipantSession(meta *domain.Participant, conn SignalConnection) ParticipantSession {
	return &participantSession{meta: meta, conn: conn}
}

func (p *participantSession) Meta() *domain.Participant { return p.meta }
func (p *participantSession) Signal() SignalConnection  { return p.conn }

// ParticipantDTO is a read-only view for APIs (no transport fields).
type ParticipantDTO struct {
	ConnID  ConnID      `json:"connectionId"`
	Subject string      `json:"subject"`
	Role    domain.Role `json:"role"`
}

package core

import (
	"errors"

	"github.com/sujals170/Bright-Byte-sub000/internal/domain"
)

// ErrInstructorTaken is returned when a second instructor connection tries
// to join a session that already has one.
var ErrInstructorTaken = errors.New("session already has an instructor")

// PublishResult reports delivery stats/backpressure to the relay.
type PublishResult struct {
	SentTo  int
	Dropped []ConnID
}

// SessionService is the core-facing API of one live session's rendezvous
// group. It owns the membership set but never touches transport resources.
type SessionService interface {
	// Session returns a snapshot; mutating it does not affect the session.
	Session() domain.Session
	// Live is read on the WS path while HTTP handlers toggle SetLive, so
	// both go through the session's lock.
	Live() bool
	SetLive(live bool)
	ParticipantCount() int
	ParticipantsSnapshot() []ParticipantDTO

	// AddParticipant registers a connection. At most one instructor may be
	// present at a time; a second instructor join fails with ErrInstructorTaken.
	AddParticipant(cid ConnID, ps ParticipantSession) error
	// RemoveParticipant is idempotent; removing an absent connection is a no-op.
	RemoveParticipant(cid ConnID)

	// Instructor returns the currently registered instructor connection, if any.
	Instructor() (ConnID, ParticipantSession, bool)

	// BroadcastExcept delivers data unchanged to every member except from.
	// Zero recipients is silent success.
	BroadcastExcept(from ConnID, data Frame) PublishResult
	// ForwardToRole delivers data unchanged to every member holding role,
	// except from.
	ForwardToRole(from ConnID, role domain.Role, data Frame) PublishResult
}

type SessionInfo struct {
	ID               domain.SessionID `json:"id"`
	CourseID         domain.CourseID  `json:"courseId"`
	Title            string           `json:"title"`
	Live             bool             `json:"live"`
	ParticipantCount int              `json:"participantCount"`
}

// SessionStore creates and indexes live sessions by their scheduled ID.
type SessionStore interface {
	Schedule(courseID domain.CourseID, title string) (SessionService, error)
	Get(id domain.SessionID) (SessionService, bool)
	List() []SessionInfo
	SetLive(id domain.SessionID, live bool) bool
	Remove(id domain.SessionID)
}

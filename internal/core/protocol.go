package core

import (
	"encoding/json"

	"github.com/sujals170/Bright-Byte-sub000/internal/domain"
)

// Wire message types. join-session through leave are client-to-server;
// student-joined and instructor-left are synthesized by the relay and never
// accepted from a client.
const (
	MsgJoinSession    = "join-session"
	MsgOffer          = "offer"
	MsgAnswer         = "answer"
	MsgICECandidate   = "ice-candidate"
	MsgLeave          = "leave"
	MsgPing           = "ping"
	MsgStudentJoined  = "student-joined"
	MsgInstructorLeft = "instructor-left"
	MsgSessionState   = "session-state"
	MsgPong           = "pong"
	MsgError          = "error"
)

// Envelope is the minimal frame parsed at the transport boundary before any
// handler logic runs. SDP and candidate payloads stay opaque raw JSON; the
// relay forwards the original frame byte-for-byte and never parses them.
type Envelope struct {
	Type      string           `json:"type"`
	SessionID domain.SessionID `json:"sessionId,omitempty"`
}

type JoinSessionMsg struct {
	Type      string           `json:"type"`
	SessionID domain.SessionID `json:"sessionId"`
	UserType  string           `json:"userType"`
}

type OfferMsg struct {
	Type      string           `json:"type"`
	SessionID domain.SessionID `json:"sessionId"`
	Offer     json.RawMessage  `json:"offer"`
}

type AnswerMsg struct {
	Type      string           `json:"type"`
	SessionID domain.SessionID `json:"sessionId"`
	Answer    json.RawMessage  `json:"answer"`
}

type CandidateMsg struct {
	Type      string           `json:"type"`
	SessionID domain.SessionID `json:"sessionId"`
	Candidate json.RawMessage  `json:"candidate"`
}

type StudentJoinedMsg struct {
	Type      string           `json:"type"`
	SessionID domain.SessionID `json:"sessionId"`
}

type InstructorLeftMsg struct {
	Type      string           `json:"type"`
	SessionID domain.SessionID `json:"sessionId"`
}

type SessionStateMsg struct {
	Type         string           `json:"type"`
	SessionID    domain.SessionID `json:"sessionId"`
	Live         bool             `json:"live"`
	Participants []ParticipantDTO `json:"participants"`
	Count        int              `json:"count"`
}

type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

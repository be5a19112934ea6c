package client

import (
	"context"
	"encoding/json"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/sujals170/Bright-Byte-sub000/internal/core"
)

// Handler routes decoded relay messages to callbacks. Nil callbacks are
// skipped.
type Handler struct {
	OnSessionState   func(core.SessionStateMsg)
	OnStudentJoined  func()
	OnInstructorLeft func()
	OnOffer          func(webrtc.SessionDescription)
	OnAnswer         func(webrtc.SessionDescription)
	OnCandidate      func(webrtc.ICECandidateInit)
	OnError          func(string)
}

// Run decodes inbound frames until the connection drops or ctx is done.
func (c *Client) Run(ctx context.Context, h Handler) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.incoming:
			if !ok {
				return
			}
			dispatch(h, data)
		}
	}
}

func dispatch(h Handler, data []byte) {
	var env core.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "client").Msg("bad frame from relay")
		return
	}

	switch env.Type {
	case core.MsgSessionState:
		if h.OnSessionState == nil {
			return
		}
		var m core.SessionStateMsg
		if err := json.Unmarshal(data, &m); err == nil {
			h.OnSessionState(m)
		}
	case core.MsgStudentJoined:
		if h.OnStudentJoined != nil {
			h.OnStudentJoined()
		}
	case core.MsgInstructorLeft:
		if h.OnInstructorLeft != nil {
			h.OnInstructorLeft()
		}
	case core.MsgOffer:
		decodeSDP(data, func(m core.OfferMsg) json.RawMessage { return m.Offer }, h.OnOffer)
	case core.MsgAnswer:
		decodeSDP(data, func(m core.AnswerMsg) json.RawMessage { return m.Answer }, h.OnAnswer)
	case core.MsgICECandidate:
		if h.OnCandidate == nil {
			return
		}
		var m core.CandidateMsg
		if err := json.Unmarshal(data, &m); err != nil {
			log.Error().Err(err).Str("module", "client").Msg("bad candidate frame")
			return
		}
		var ci webrtc.ICECandidateInit
		if err := json.Unmarshal(m.Candidate, &ci); err != nil {
			log.Error().Err(err).Str("module", "client").Msg("bad candidate payload")
			return
		}
		h.OnCandidate(ci)
	case core.MsgError:
		if h.OnError == nil {
			return
		}
		var m core.ErrorMsg
		if err := json.Unmarshal(data, &m); err == nil {
			h.OnError(m.Message)
		}
	case core.MsgPong, "left":
		// acks, nothing to route
	default:
		log.Debug().Str("module", "client").Str("type", env.Type).Msg("unhandled message type")
	}
}

func decodeSDP[T any](data []byte, raw func(T) json.RawMessage, cb func(webrtc.SessionDescription)) {
	if cb == nil {
		return
	}
	var m T
	if err := json.Unmarshal(data, &m); err != nil {
		log.Error().Err(err).Str("module", "client").Msg("bad sdp frame")
		return
	}
	var sd webrtc.SessionDescription
	if err := json.Unmarshal(raw(m), &sd); err != nil {
		log.Error().Err(err).Str("module", "client").Msg("bad sdp payload")
		return
	}
	cb(sd)
}

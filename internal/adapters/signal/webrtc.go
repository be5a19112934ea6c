package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/sujals170/Bright-Byte-sub000/internal/app"
	"github.com/sujals170/Bright-Byte-sub000/internal/core"
)

// handleForward relays offer/answer/ice-candidate frames. The payload stays
// opaque; only presence is checked before the relay computes targets. Role
// violations are dropped without a reply so a hostile client learns nothing,
// while not-joined senders get an explicit error (the consistent choice for
// this relay).
func (ctl *SignalWSController) handleForward(
	cid core.ConnID,
	conn *WsSignalConn,
	env core.Envelope,
	data []byte,
) {
	if !ctl.validPayload(env.Type, data) {
		log.Warn().Str("module", "signal").
			Str("cid", string(cid)).
			Str("type", env.Type).
			Msg("missing signaling payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	err := ctl.Relay.Forward(cid, env.Type, data)
	switch {
	case err == nil:
	case errors.Is(err, app.ErrNotInSession), errors.Is(err, app.ErrSessionNotFound):
		ctl.sendError(conn, "join a session first")
	case errors.Is(err, app.ErrRoleViolation):
		log.Warn().Str("module", "signal").
			Str("cid", string(cid)).
			Str("type", env.Type).
			Msg("dropped: role violation")
	default:
		log.Error().Err(err).Str("module", "signal").Msg("forward failed")
	}
}

func (ctl *SignalWSController) validPayload(msgType string, data []byte) bool {
	switch msgType {
	case core.MsgOffer:
		var p core.OfferMsg
		return json.Unmarshal(data, &p) == nil && len(p.Offer) > 0
	case core.MsgAnswer:
		var p core.AnswerMsg
		return json.Unmarshal(data, &p) == nil && len(p.Answer) > 0
	case core.MsgICECandidate:
		var p core.CandidateMsg
		return json.Unmarshal(data, &p) == nil && len(p.Candidate) > 0
	}
	return false
}

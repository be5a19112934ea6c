package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/sujals170/Bright-Byte-sub000/internal/app"
	"github.com/sujals170/Bright-Byte-sub000/internal/core"
)

func (ctl *SignalWSController) handleJoin(
	cid core.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	var p core.JoinSessionMsg
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.SessionID == "" {
		ctl.sendError(conn, "missing sessionId")
		return
	}

	// userType is advisory; the token role is authoritative. A mismatch is a
	// confused or hostile client, so reject up front.
	if ps, ok := ctl.Relay.Registry.Get(cid); ok && p.UserType != "" {
		if p.UserType != string(ps.Meta().Role) {
			log.Warn().Str("module", "signal").
				Str("cid", string(cid)).
				Str("claimed", p.UserType).
				Str("role", string(ps.Meta().Role)).
				Msg("userType does not match token role")
			ctl.sendError(conn, "role mismatch")
			return
		}
	}

	if err := ctl.Relay.Join(cid, p.SessionID); err != nil {
		log.Warn().Err(err).Str("module", "signal").
			Str("cid", string(cid)).
			Str("session", string(p.SessionID)).
			Msg("join rejected")
		switch {
		case errors.Is(err, app.ErrSessionNotFound):
			ctl.sendError(conn, "session not found")
		case errors.Is(err, app.ErrSessionNotLive):
			ctl.sendError(conn, "session is not live")
		case errors.Is(err, core.ErrInstructorTaken):
			ctl.sendError(conn, "session already has an instructor")
		default:
			ctl.sendError(conn, "join failed")
		}
		return
	}

	svc, ok := ctl.Relay.Sessions.Get(p.SessionID)
	if !ok {
		return
	}
	ctl.sendJSON(conn, core.SessionStateMsg{
		Type:         core.MsgSessionState,
		SessionID:    p.SessionID,
		Live:         svc.Live(),
		Participants: svc.ParticipantsSnapshot(),
		Count:        svc.ParticipantCount(),
	})
}

// handleLeave removes session membership; the socket itself stays open.
func (ctl *SignalWSController) handleLeave(
	cid core.ConnID,
	conn *WsSignalConn,
) {
	log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("leave")
	ctl.Relay.Leave(cid)
	ctl.sendJSON(conn, map[string]any{
		"type": "left",
	})
}

package client

import (
	"encoding/json"
	"fmt"

	"github.com/pion/webrtc/v4"

	"github.com/sujals170/Bright-Byte-sub000/internal/core"
	"github.com/sujals170/Bright-Byte-sub000/internal/domain"
)

// The methods below satisfy negotiator.Signaler, so a connected client can
// back a negotiator directly.

func (c *Client) JoinSession(sid domain.SessionID, role domain.Role) error {
	return c.Send(core.JoinSessionMsg{
		Type:      core.MsgJoinSession,
		SessionID: sid,
		UserType:  string(role),
	})
}

func (c *Client) Leave() error {
	return c.Send(core.Envelope{Type: core.MsgLeave})
}

func (c *Client) SendOffer(sid domain.SessionID, sdp webrtc.SessionDescription) error {
	raw, err := json.Marshal(sdp)
	if err != nil {
		return fmt.Errorf("marshal offer: %w", err)
	}
	return c.Send(core.OfferMsg{Type: core.MsgOffer, SessionID: sid, Offer: raw})
}

func (c *Client) SendAnswer(sid domain.SessionID, sdp webrtc.SessionDescription) error {
	raw, err := json.Marshal(sdp)
	if err != nil {
		return fmt.Errorf("marshal answer: %w", err)
	}
	return c.Send(core.AnswerMsg{Type: core.MsgAnswer, SessionID: sid, Answer: raw})
}

func (c *Client) SendCandidate(sid domain.SessionID, cand webrtc.ICECandidateInit) error {
	raw, err := json.Marshal(cand)
	if err != nil {
		return fmt.Errorf("marshal candidate: %w", err)
	}
	return c.Send(core.CandidateMsg{Type: core.MsgICECandidate, SessionID: sid, Candidate: raw})
}

// Package negotiator owns the client-side peer-connection lifecycle: one
// state machine shape, specialized for the instructor (sending media) and
// the student (receive-only). Every transport callback maps to exactly one
// transition attempt that is a no-op when its precondition fails.
package negotiator

import (
	"errors"
	"sync/atomic"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/sujals170/Bright-Byte-sub000/internal/domain"
)

var (
	ErrClosed          = errors.New("negotiator closed")
	ErrStaleAnswer     = errors.New("answer without pending offer")
	ErrUnexpectedOffer = errors.New("offer while not stable")
)

// State is the shared lifecycle shape. StateClosed is terminal: a fresh
// negotiator instance is required to reconnect.
type State int32

const (
	StateNew State = iota
	StateGatheringMedia
	StateConnecting
	StateConnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateGatheringMedia:
		return "gathering-local-media"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Signaler is the outbound half of the rendezvous: how a negotiator reaches
// the relay. The WS client implements it; tests can stub it.
type Signaler interface {
	SendOffer(sid domain.SessionID, sdp webrtc.SessionDescription) error
	SendAnswer(sid domain.SessionID, sdp webrtc.SessionDescription) error
	SendCandidate(sid domain.SessionID, cand webrtc.ICECandidateInit) error
}

// Config carries the externally supplied ICE servers (static configuration;
// the relay runs no TURN/STUN of its own).
type Config struct {
	ICEServers []string
}

func (c Config) webrtc() webrtc.Configuration {
	urls := c.ICEServers
	if len(urls) == 0 {
		urls = []string{"stun:stun.l.google.com:19302"}
	}
	return webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{{URLs: urls}},
	}
}

type base struct {
	sid   domain.SessionID
	sig   Signaler
	cfg   Config
	pc    *webrtc.PeerConnection
	state atomic.Int32
}

func (b *base) State() State { return State(b.state.Load()) }

func (b *base) setState(s State) { b.state.Store(int32(s)) }

// transition is a CAS so concurrent callbacks cannot revive a closed
// negotiator.
func (b *base) transition(from, to State) bool {
	return b.state.CompareAndSwap(int32(from), int32(to))
}

// SignalingState exposes the underlying pion state for precondition checks
// and tests.
func (b *base) SignalingState() webrtc.SignalingState {
	if b.pc == nil {
		return webrtc.SignalingStateClosed
	}
	return b.pc.SignalingState()
}

func (b *base) watchConnection(onClosed func()) {
	b.pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		log.Info().Str("module", "negotiator").
			Str("session", string(b.sid)).
			Str("peer_connection_state", s.String()).
			Msg("peer state")
		switch s {
		case webrtc.PeerConnectionStateConnected:
			b.transition(StateConnecting, StateConnected)
		case webrtc.PeerConnectionStateFailed, webrtc.PeerConnectionStateClosed:
			if onClosed != nil {
				onClosed()
			}
		}
	})
}

func (b *base) trickle() {
	b.pc.OnICECandidate(func(cand *webrtc.ICECandidate) {
		if cand == nil {
			return
		}
		if err := b.sig.SendCandidate(b.sid, cand.ToJSON()); err != nil {
			log.Warn().Err(err).Str("module", "negotiator").Msg("send candidate")
		}
	})
}

// HandleCandidate applies a remote ICE candidate unconditionally; candidate
// order is irrelevant per ICE semantics.
func (b *base) HandleCandidate(cand webrtc.ICECandidateInit) error {
	if b.State() == StateClosed {
		return ErrClosed
	}
	return b.pc.AddICECandidate(cand)
}

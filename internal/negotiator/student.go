package negotiator

import (
	"context"
	"fmt"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/sujals170/Bright-Byte-sub000/internal/domain"
)

// Student owns the receive-only peer connection: no local tracks, answers
// whatever offer the instructor broadcasts, and hands remote tracks to the
// playback surface.
type Student struct {
	base
	surface *Surface
}

func NewStudent(cfg Config, sid domain.SessionID, sig Signaler, surface *Surface) *Student {
	s := &Student{surface: surface}
	s.sid = sid
	s.sig = sig
	s.cfg = cfg
	return s
}

// Start builds the peer connection with receive-only transceivers. The
// playback surface may not be mounted yet; track attachment waits for it.
func (s *Student) Start(ctx context.Context) error {
	if !s.transition(StateNew, StateGatheringMedia) {
		return ErrClosed
	}

	pc, err := webrtc.NewPeerConnection(s.cfg.webrtc())
	if err != nil {
		s.setState(StateClosed)
		return fmt.Errorf("new peer connection: %w", err)
	}
	for _, kind := range []webrtc.RTPCodecType{webrtc.RTPCodecTypeAudio, webrtc.RTPCodecTypeVideo} {
		if _, err := pc.AddTransceiverFromKind(kind, webrtc.RTPTransceiverInit{
			Direction: webrtc.RTPTransceiverDirectionRecvonly,
		}); err != nil {
			_ = pc.Close()
			s.setState(StateClosed)
			return fmt.Errorf("add %s transceiver: %w", kind, err)
		}
	}
	s.pc = pc

	pc.OnTrack(func(track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver) {
		log.Info().Str("module", "negotiator").
			Str("session", string(s.sid)).
			Str("kind", track.Kind().String()).
			Str("track_id", track.ID()).
			Msg("remote track arrived")
		s.surface.Attach(ctx, track)
	})

	s.trickle()
	s.watchConnection(func() { s.Close() })

	context.AfterFunc(ctx, func() { s.Close() })

	s.setState(StateConnecting)
	return nil
}

// HandleOffer applies the instructor's offer and replies with an answer. An
// offer arriving while negotiation is already in flight is dropped.
func (s *Student) HandleOffer(sd webrtc.SessionDescription) error {
	if s.State() == StateClosed {
		return ErrClosed
	}
	if s.pc.SignalingState() != webrtc.SignalingStateStable {
		log.Warn().Str("module", "negotiator").
			Str("session", string(s.sid)).
			Str("signaling_state", s.pc.SignalingState().String()).
			Msg("dropping offer while not stable")
		return ErrUnexpectedOffer
	}
	if err := s.pc.SetRemoteDescription(sd); err != nil {
		return fmt.Errorf("set remote description: %w", err)
	}
	answer, err := s.pc.CreateAnswer(nil)
	if err != nil {
		return fmt.Errorf("create answer: %w", err)
	}
	if err := s.pc.SetLocalDescription(answer); err != nil {
		return fmt.Errorf("set local description: %w", err)
	}
	if err := s.sig.SendAnswer(s.sid, answer); err != nil {
		return fmt.Errorf("send answer: %w", err)
	}
	log.Info().Str("module", "negotiator").Str("session", string(s.sid)).Msg("answer sent")
	return nil
}

// Close tears down the connection. Terminal.
func (s *Student) Close() {
	if s.State() == StateClosed {
		return
	}
	s.setState(StateClosed)
	if s.pc != nil {
		if err := s.pc.Close(); err != nil {
			log.Error().Err(err).Str("module", "negotiator").Msg("close peer connection")
		}
	}
	log.Info().Str("module", "negotiator").Str("session", string(s.sid)).Msg("student closed")
}

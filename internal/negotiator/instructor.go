package negotiator

import (
	"context"
	"fmt"
	"sync"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/sujals170/Bright-Byte-sub000/internal/domain"
	"github.com/sujals170/Bright-Byte-sub000/internal/media"
)

// Instructor owns the broadcasting peer connection: camera plus microphone
// attached up front, a fresh offer cycle for every student-joined event, and
// camera/screen swaps through ReplaceTrack so the connection itself never
// renegotiates for a share toggle.
type Instructor struct {
	base

	mu          sync.Mutex
	camera      *media.Source
	microphone  *media.Source
	screen      *media.Source
	videoSender *webrtc.RTPSender
	audioSender *webrtc.RTPSender
}

func NewInstructor(cfg Config, sid domain.SessionID, sig Signaler) *Instructor {
	i := &Instructor{}
	i.sid = sid
	i.sig = sig
	i.cfg = cfg
	return i
}

// Start acquires local media and builds the peer connection. A device
// acquisition failure leaves the negotiator closed, never half-initialized.
func (i *Instructor) Start(ctx context.Context) error {
	if !i.transition(StateNew, StateGatheringMedia) {
		return ErrClosed
	}

	camera, err := media.NewCamera()
	if err != nil {
		i.setState(StateClosed)
		return fmt.Errorf("acquire camera: %w", err)
	}
	microphone, err := media.NewMicrophone()
	if err != nil {
		camera.Stop()
		i.setState(StateClosed)
		return fmt.Errorf("acquire microphone: %w", err)
	}

	pc, err := webrtc.NewPeerConnection(i.cfg.webrtc())
	if err != nil {
		camera.Stop()
		microphone.Stop()
		i.setState(StateClosed)
		return fmt.Errorf("new peer connection: %w", err)
	}

	videoSender, err := pc.AddTrack(camera.Track())
	if err != nil {
		i.failStart(pc, camera, microphone)
		return fmt.Errorf("add video track: %w", err)
	}
	audioSender, err := pc.AddTrack(microphone.Track())
	if err != nil {
		i.failStart(pc, camera, microphone)
		return fmt.Errorf("add audio track: %w", err)
	}

	i.mu.Lock()
	i.pc = pc
	i.camera = camera
	i.microphone = microphone
	i.videoSender = videoSender
	i.audioSender = audioSender
	i.mu.Unlock()

	i.trickle()
	i.watchConnection(func() { i.Close() })

	context.AfterFunc(ctx, func() { i.Close() })

	i.setState(StateConnecting)
	log.Info().Str("module", "negotiator").Str("session", string(i.sid)).Msg("instructor media ready")
	return nil
}

func (i *Instructor) failStart(pc *webrtc.PeerConnection, sources ...*media.Source) {
	for _, s := range sources {
		if s != nil {
			s.Stop()
		}
	}
	_ = pc.Close()
	i.setState(StateClosed)
}

// OnStudentJoined runs one fresh offer cycle. Full ICE gathering completion
// is awaited before the offer is sent; a deliberate trade-off favoring
// simplicity over trickle latency on the instructor side.
func (i *Instructor) OnStudentJoined() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.State() == StateClosed {
		return ErrClosed
	}
	if i.pc.SignalingState() != webrtc.SignalingStateStable {
		log.Warn().Str("module", "negotiator").
			Str("session", string(i.sid)).
			Str("signaling_state", i.pc.SignalingState().String()).
			Msg("offer cycle already in flight, student rides the pending one")
		return nil
	}

	offer, err := i.pc.CreateOffer(nil)
	if err != nil {
		return fmt.Errorf("create offer: %w", err)
	}
	gatherComplete := webrtc.GatheringCompletePromise(i.pc)
	if err := i.pc.SetLocalDescription(offer); err != nil {
		return fmt.Errorf("set local description: %w", err)
	}
	<-gatherComplete

	local := i.pc.LocalDescription()
	if err := i.sig.SendOffer(i.sid, *local); err != nil {
		return fmt.Errorf("send offer: %w", err)
	}
	log.Info().Str("module", "negotiator").Str("session", string(i.sid)).Msg("offer sent")
	return nil
}

// HandleAnswer applies a student's answer. A late or duplicate answer finds
// the signaling state already stable and is dropped without touching the
// connection.
func (i *Instructor) HandleAnswer(sd webrtc.SessionDescription) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.State() == StateClosed {
		return ErrClosed
	}
	if i.pc.SignalingState() != webrtc.SignalingStateHaveLocalOffer {
		log.Warn().Str("module", "negotiator").
			Str("session", string(i.sid)).
			Str("signaling_state", i.pc.SignalingState().String()).
			Msg("dropping answer without pending offer")
		return ErrStaleAnswer
	}
	if err := i.pc.SetRemoteDescription(sd); err != nil {
		return fmt.Errorf("set remote description: %w", err)
	}
	return nil
}

// ShareScreen swaps the outgoing video track to a screen capture without
// renegotiating. The capture's ended event (user stops sharing from browser
// chrome) falls back to the camera automatically.
func (i *Instructor) ShareScreen() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.State() == StateClosed {
		return ErrClosed
	}
	if i.screen != nil {
		return nil
	}
	screen, err := media.NewScreenCapture()
	if err != nil {
		return fmt.Errorf("acquire screen: %w", err)
	}
	if err := i.videoSender.ReplaceTrack(screen.Track()); err != nil {
		screen.Stop()
		return fmt.Errorf("replace track: %w", err)
	}
	screen.SetOnEnded(func() {
		if err := i.StopScreenShare(); err != nil {
			log.Warn().Err(err).Str("module", "negotiator").Msg("screen-share fallback")
		}
	})
	i.screen = screen
	log.Info().Str("module", "negotiator").Str("session", string(i.sid)).Msg("screen share started")
	return nil
}

// StopScreenShare restores the camera as the outgoing video track.
func (i *Instructor) StopScreenShare() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.State() == StateClosed {
		return ErrClosed
	}
	if i.screen == nil {
		return nil
	}
	screen := i.screen
	i.screen = nil
	screen.SetOnEnded(nil)
	screen.Stop()
	if err := i.videoSender.ReplaceTrack(i.camera.Track()); err != nil {
		return fmt.Errorf("restore camera track: %w", err)
	}
	log.Info().Str("module", "negotiator").Str("session", string(i.sid)).Msg("screen share stopped, camera restored")
	return nil
}

// Sharing reports whether a screen capture is the current video track.
func (i *Instructor) Sharing() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.screen != nil
}

// Close tears down the connection and stops all capture hardware
// synchronously. Terminal.
func (i *Instructor) Close() {
	if i.State() == StateClosed {
		return
	}
	i.setState(StateClosed)

	i.mu.Lock()
	camera, microphone, screen, pc := i.camera, i.microphone, i.screen, i.pc
	i.screen = nil
	i.mu.Unlock()

	if screen != nil {
		screen.SetOnEnded(nil)
		screen.Stop()
	}
	if camera != nil {
		camera.Stop()
	}
	if microphone != nil {
		microphone.Stop()
	}
	if pc != nil {
		if err := pc.Close(); err != nil {
			log.Error().Err(err).Str("module", "negotiator").Msg("close peer connection")
		}
	}
	log.Info().Str("module", "negotiator").Str("session", string(i.sid)).Msg("instructor closed")
}

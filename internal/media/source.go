// Package media provides local capture sources for negotiators. Each source
// owns one outgoing pion track and a pump goroutine feeding it samples; on a
// browser the equivalent objects come from getUserMedia/getDisplayMedia.
package media

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
	"github.com/rs/zerolog/log"
)

var ErrSourceEnded = errors.New("source ended")

const (
	videoFrameInterval = time.Second / 30
	audioFrameInterval = 20 * time.Millisecond
)

// Source is one local capture device surrogate (camera, microphone, or
// screen). Stop releases the underlying "hardware" synchronously; relying on
// garbage collection would hold camera/microphone locks indefinitely.
type Source struct {
	label string
	track *webrtc.TrackLocalStaticSample

	mu      sync.Mutex
	ended   bool
	onEnded func()
	stop    chan struct{}
}

func newSource(label, trackID string, codec webrtc.RTPCodecCapability, interval time.Duration) (*Source, error) {
	track, err := webrtc.NewTrackLocalStaticSample(codec, trackID, "bright-byte-"+uuid.NewString())
	if err != nil {
		return nil, err
	}
	s := &Source{
		label: label,
		track: track,
		stop:  make(chan struct{}),
	}
	go s.pump(interval)
	return s, nil
}

// NewCamera acquires the camera surrogate.
func NewCamera() (*Source, error) {
	return newSource("camera", "video-camera", webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8}, videoFrameInterval)
}

// NewMicrophone acquires the microphone surrogate.
func NewMicrophone() (*Source, error) {
	return newSource("microphone", "audio-mic", webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus}, audioFrameInterval)
}

// NewScreenCapture acquires the screen-share surrogate.
func NewScreenCapture() (*Source, error) {
	return newSource("screen", "video-screen", webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8}, videoFrameInterval)
}

func (s *Source) Label() string { return s.label }

func (s *Source) Track() *webrtc.TrackLocalStaticSample { return s.track }

// SetOnEnded registers the callback fired when the source ends, e.g. the
// user stops a screen share from the browser chrome.
func (s *Source) SetOnEnded(fn func()) {
	s.mu.Lock()
	s.onEnded = fn
	s.mu.Unlock()
}

// Ended reports whether the source has been stopped.
func (s *Source) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// Stop halts the sample pump and fires the ended callback exactly once.
func (s *Source) Stop() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	close(s.stop)
	fn := s.onEnded
	s.onEnded = nil
	s.mu.Unlock()

	log.Info().Str("module", "media").Str("label", s.label).Msg("source stopped")
	if fn != nil {
		fn()
	}
}

func (s *Source) pump(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	// Payload bytes are synthetic; only the plumbing matters to the relay.
	payload := make([]byte, 16)
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if err := s.track.WriteSample(media.Sample{Data: payload, Duration: interval}); err != nil {
				log.Debug().Err(err).Str("module", "media").Str("label", s.label).Msg("write sample")
			}
		}
	}
}

package negotiator

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

const (
	surfacePollInterval = 100 * time.Millisecond
	surfaceMountTimeout = 10 * time.Second
)

// TrackStat is a read-only view of one attached remote track.
type TrackStat struct {
	ID      string
	Kind    webrtc.RTPCodecType
	Packets uint64
}

// Surface is the playback target for remote tracks. It may be created
// before the owning view mounts; Attach polls until it appears, with a
// bounded but generous timeout, and gives up quietly if the view was torn
// down.
type Surface struct {
	mu      sync.Mutex
	mounted bool
	tracks  map[string]*TrackStat
	arrived chan string
}

func NewSurface() *Surface {
	return &Surface{
		tracks:  make(map[string]*TrackStat),
		arrived: make(chan string, 8),
	}
}

// Mount marks the playback element as present.
func (s *Surface) Mount() {
	s.mu.Lock()
	s.mounted = true
	s.mu.Unlock()
}

func (s *Surface) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Attach binds a remote track to the surface and drains its RTP stream.
// Non-fatal when the surface never mounts.
func (s *Surface) Attach(ctx context.Context, track *webrtc.TrackRemote) {
	if !s.waitMounted(ctx) {
		log.Warn().Str("module", "negotiator").
			Str("track_id", track.ID()).
			Msg("surface never mounted, dropping track")
		return
	}

	stat := &TrackStat{ID: track.ID(), Kind: track.Kind()}
	s.mu.Lock()
	s.tracks[track.ID()] = stat
	s.mu.Unlock()

	select {
	case s.arrived <- track.ID():
	default:
	}

	go s.drain(ctx, track, stat)
}

func (s *Surface) waitMounted(ctx context.Context) bool {
	deadline := time.Now().Add(surfaceMountTimeout)
	for {
		if s.Mounted() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(surfacePollInterval):
		}
	}
}

func (s *Surface) drain(ctx context.Context, track *webrtc.TrackRemote, stat *TrackStat) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		pkt, _, err := track.ReadRTP()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug().Err(err).Str("module", "negotiator").Str("track_id", track.ID()).Msg("read RTP")
			}
			return
		}
		s.record(stat, pkt)
	}
}

func (s *Surface) record(stat *TrackStat, _ *rtp.Packet) {
	s.mu.Lock()
	stat.Packets++
	s.mu.Unlock()
}

// Tracks snapshots the attached tracks.
func (s *Surface) Tracks() []TrackStat {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TrackStat, 0, len(s.tracks))
	for _, t := range s.tracks {
		out = append(out, *t)
	}
	return out
}

// WaitForTrack blocks until a remote track attaches or the timeout passes.
func (s *Surface) WaitForTrack(timeout time.Duration) (string, bool) {
	select {
	case id := <-s.arrived:
		return id, true
	case <-time.After(timeout):
		return "", false
	}
}

package negotiator

import (
	"context"
	"sync"
	"testing"

	"github.com/pion/webrtc/v4"

	"github.com/sujals170/Bright-Byte-sub000/internal/domain"
)

const testSessionID = domain.SessionID("session-1")

// stubSignaler records everything a negotiator tries to send to the relay.
type stubSignaler struct {
	mu         sync.Mutex
	offers     []webrtc.SessionDescription
	answers    []webrtc.SessionDescription
	candidates []webrtc.ICECandidateInit
}

func (s *stubSignaler) SendOffer(sid domain.SessionID, sdp webrtc.SessionDescription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers = append(s.offers, sdp)
	return nil
}

func (s *stubSignaler) SendAnswer(sid domain.SessionID, sdp webrtc.SessionDescription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = append(s.answers, sdp)
	return nil
}

func (s *stubSignaler) SendCandidate(sid domain.SessionID, cand webrtc.ICECandidateInit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates = append(s.candidates, cand)
	return nil
}

func (s *stubSignaler) lastOffer(t *testing.T) webrtc.SessionDescription {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.offers) == 0 {
		t.Fatal("no offer sent")
	}
	return s.offers[len(s.offers)-1]
}

func (s *stubSignaler) lastAnswer(t *testing.T) webrtc.SessionDescription {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.answers) == 0 {
		t.Fatal("no answer sent")
	}
	return s.answers[len(s.answers)-1]
}

func startInstructor(t *testing.T) (*Instructor, *stubSignaler) {
	t.Helper()
	sig := &stubSignaler{}
	inst := NewInstructor(Config{}, testSessionID, sig)
	if err := inst.Start(context.Background()); err != nil {
		t.Fatalf("instructor Start: %v", err)
	}
	t.Cleanup(inst.Close)
	return inst, sig
}

func startStudent(t *testing.T) (*Student, *stubSignaler) {
	t.Helper()
	sig := &stubSignaler{}
	stud := NewStudent(Config{}, testSessionID, sig, NewSurface())
	if err := stud.Start(context.Background()); err != nil {
		t.Fatalf("student Start: %v", err)
	}
	t.Cleanup(stud.Close)
	return stud, sig
}

func TestStateString(t *testing.T) {
	want := map[State]string{
		StateNew:            "new",
		StateGatheringMedia: "gathering-local-media",
		StateConnecting:     "connecting",
		StateConnected:      "connected",
		StateClosed:         "closed",
		State(99):           "unknown",
	}
	for s, name := range want {
		if got := s.String(); got != name {
			t.Errorf("State(%d).String()=%q, want %q", s, got, name)
		}
	}
}

func TestOfferAnswerCycle(t *testing.T) {
	inst, instSig := startInstructor(t)
	stud, studSig := startStudent(t)

	if err := inst.OnStudentJoined(); err != nil {
		t.Fatalf("OnStudentJoined: %v", err)
	}
	offer := instSig.lastOffer(t)
	if offer.Type != webrtc.SDPTypeOffer {
		t.Fatalf("sent description type=%v, want offer", offer.Type)
	}
	if inst.SignalingState() != webrtc.SignalingStateHaveLocalOffer {
		t.Fatalf("instructor signaling state=%v after offer", inst.SignalingState())
	}

	if err := stud.HandleOffer(offer); err != nil {
		t.Fatalf("HandleOffer: %v", err)
	}
	answer := studSig.lastAnswer(t)
	if answer.Type != webrtc.SDPTypeAnswer {
		t.Fatalf("sent description type=%v, want answer", answer.Type)
	}

	if err := inst.HandleAnswer(answer); err != nil {
		t.Fatalf("HandleAnswer: %v", err)
	}
	if inst.SignalingState() != webrtc.SignalingStateStable {
		t.Fatalf("instructor signaling state=%v after answer, want stable", inst.SignalingState())
	}
}

func TestInstructorDropsStaleAnswer(t *testing.T) {
	inst, instSig := startInstructor(t)
	stud, studSig := startStudent(t)

	// Produce a syntactically valid answer without the instructor having an
	// offer in flight.
	if err := inst.OnStudentJoined(); err != nil {
		t.Fatalf("OnStudentJoined: %v", err)
	}
	if err := stud.HandleOffer(instSig.lastOffer(t)); err != nil {
		t.Fatalf("HandleOffer: %v", err)
	}
	answer := studSig.lastAnswer(t)
	if err := inst.HandleAnswer(answer); err != nil {
		t.Fatalf("first HandleAnswer: %v", err)
	}

	if err := inst.HandleAnswer(answer); err != ErrStaleAnswer {
		t.Fatalf("duplicate HandleAnswer err=%v, want %v", err, ErrStaleAnswer)
	}
	if inst.SignalingState() != webrtc.SignalingStateStable {
		t.Fatalf("stale answer changed signaling state to %v", inst.SignalingState())
	}
}

func TestInstructorSerializesOfferCycles(t *testing.T) {
	inst, sig := startInstructor(t)

	if err := inst.OnStudentJoined(); err != nil {
		t.Fatalf("first OnStudentJoined: %v", err)
	}
	// A second student-joined while the first offer is unanswered must not
	// start another cycle; the new student rides the pending offer.
	if err := inst.OnStudentJoined(); err != nil {
		t.Fatalf("second OnStudentJoined: %v", err)
	}
	sig.mu.Lock()
	offers := len(sig.offers)
	sig.mu.Unlock()
	if offers != 1 {
		t.Fatalf("offers sent=%d, want 1", offers)
	}
}

func TestStudentDropsOfferWhileNegotiating(t *testing.T) {
	stud, _ := startStudent(t)

	// Force the student out of the stable state.
	pending, err := stud.pc.CreateOffer(nil)
	if err != nil {
		t.Fatalf("CreateOffer: %v", err)
	}
	if err := stud.pc.SetLocalDescription(pending); err != nil {
		t.Fatalf("SetLocalDescription: %v", err)
	}

	inst, instSig := startInstructor(t)
	if err := inst.OnStudentJoined(); err != nil {
		t.Fatalf("OnStudentJoined: %v", err)
	}
	if err := stud.HandleOffer(instSig.lastOffer(t)); err != ErrUnexpectedOffer {
		t.Fatalf("HandleOffer err=%v, want %v", err, ErrUnexpectedOffer)
	}
}

func TestInstructorScreenShareSwapsTracks(t *testing.T) {
	inst, _ := startInstructor(t)

	if inst.Sharing() {
		t.Fatal("Sharing=true before ShareScreen")
	}
	if err := inst.ShareScreen(); err != nil {
		t.Fatalf("ShareScreen: %v", err)
	}
	if !inst.Sharing() {
		t.Fatal("Sharing=false after ShareScreen")
	}
	if got := inst.videoSender.Track().ID(); got != "video-screen" {
		t.Fatalf("outgoing video track=%q, want screen capture", got)
	}
	if got := inst.audioSender.Track().ID(); got != "audio-mic" {
		t.Fatalf("audio track=%q changed by a video swap", got)
	}
	// Idempotent while already sharing.
	if err := inst.ShareScreen(); err != nil {
		t.Fatalf("second ShareScreen: %v", err)
	}

	if err := inst.StopScreenShare(); err != nil {
		t.Fatalf("StopScreenShare: %v", err)
	}
	if inst.Sharing() {
		t.Fatal("Sharing=true after StopScreenShare")
	}
	if got := inst.videoSender.Track().ID(); got != "video-camera" {
		t.Fatalf("outgoing video track=%q, want camera restored", got)
	}
	if err := inst.StopScreenShare(); err != nil {
		t.Fatalf("StopScreenShare when not sharing: %v", err)
	}
}

func TestInstructorScreenEndedFallsBackToCamera(t *testing.T) {
	inst, _ := startInstructor(t)

	if err := inst.ShareScreen(); err != nil {
		t.Fatalf("ShareScreen: %v", err)
	}
	inst.mu.Lock()
	screen := inst.screen
	inst.mu.Unlock()

	// The user ending the capture from outside the negotiator restores the
	// camera automatically.
	screen.Stop()

	if inst.Sharing() {
		t.Fatal("Sharing=true after capture ended")
	}
	if got := inst.videoSender.Track().ID(); got != "video-camera" {
		t.Fatalf("outgoing video track=%q, want camera restored", got)
	}
}

func TestCloseIsTerminal(t *testing.T) {
	inst, _ := startInstructor(t)
	inst.Close()
	inst.Close()

	if inst.State() != StateClosed {
		t.Fatalf("State=%v, want closed", inst.State())
	}
	if err := inst.OnStudentJoined(); err != ErrClosed {
		t.Fatalf("OnStudentJoined err=%v, want %v", err, ErrClosed)
	}
	if err := inst.ShareScreen(); err != ErrClosed {
		t.Fatalf("ShareScreen err=%v, want %v", err, ErrClosed)
	}
	if err := inst.Start(context.Background()); err != ErrClosed {
		t.Fatalf("restart err=%v, want %v", err, ErrClosed)
	}

	stud, _ := startStudent(t)
	stud.Close()
	if err := stud.HandleCandidate(webrtc.ICECandidateInit{}); err != ErrClosed {
		t.Fatalf("HandleCandidate err=%v, want %v", err, ErrClosed)
	}
}

func TestContextCancelClosesNegotiator(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sig := &stubSignaler{}
	stud := NewStudent(Config{}, testSessionID, sig, NewSurface())
	if err := stud.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()

	// context.AfterFunc runs in its own goroutine.
	deadline := newDeadline(t)
	for stud.State() != StateClosed {
		deadline.tick(t, "negotiator not closed after context cancel")
	}
}

package http_test

import (
	"context"
	"testing"
	"time"

	"github.com/pion/webrtc/v4"

	"github.com/sujals170/Bright-Byte-sub000/internal/client"
	"github.com/sujals170/Bright-Byte-sub000/internal/domain"
	"github.com/sujals170/Bright-Byte-sub000/internal/negotiator"
)

// Full stack: real instructor and student negotiators driving real pion
// peer connections, with every signaling frame crossing the relay over a
// live WebSocket. Asserts the signaling handshake completes; media-plane
// connectivity depends on the host's interfaces, so it is not required.
func TestNegotiationThroughRelay(t *testing.T) {
	srv := newTestServer(t)
	sid := srv.liveSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	instClient := client.New(srv.wsURL(), mintToken("teacher", domain.RoleInstructor))
	if err := instClient.Connect(); err != nil {
		t.Fatalf("instructor connect: %v", err)
	}
	t.Cleanup(instClient.Close)

	inst := negotiator.NewInstructor(negotiator.Config{}, sid, instClient)
	if err := inst.Start(ctx); err != nil {
		t.Fatalf("instructor Start: %v", err)
	}
	answered := make(chan struct{}, 1)
	go instClient.Run(ctx, client.Handler{
		OnStudentJoined: func() {
			if err := inst.OnStudentJoined(); err != nil {
				t.Errorf("OnStudentJoined: %v", err)
			}
		},
		OnAnswer: func(sd webrtc.SessionDescription) {
			if err := inst.HandleAnswer(sd); err != nil && err != negotiator.ErrStaleAnswer {
				t.Errorf("HandleAnswer: %v", err)
			}
			select {
			case answered <- struct{}{}:
			default:
			}
		},
		OnCandidate: func(ci webrtc.ICECandidateInit) {
			if err := inst.HandleCandidate(ci); err != nil {
				t.Errorf("instructor HandleCandidate: %v", err)
			}
		},
	})
	if err := instClient.JoinSession(sid, domain.RoleInstructor); err != nil {
		t.Fatalf("instructor join: %v", err)
	}

	studClient := client.New(srv.wsURL(), mintToken("pupil", domain.RoleStudent))
	if err := studClient.Connect(); err != nil {
		t.Fatalf("student connect: %v", err)
	}
	t.Cleanup(studClient.Close)

	surface := negotiator.NewSurface()
	surface.Mount()
	stud := negotiator.NewStudent(negotiator.Config{}, sid, studClient, surface)
	if err := stud.Start(ctx); err != nil {
		t.Fatalf("student Start: %v", err)
	}
	go studClient.Run(ctx, client.Handler{
		OnOffer: func(sd webrtc.SessionDescription) {
			if err := stud.HandleOffer(sd); err != nil && err != negotiator.ErrUnexpectedOffer {
				t.Errorf("HandleOffer: %v", err)
			}
		},
		OnCandidate: func(ci webrtc.ICECandidateInit) {
			if err := stud.HandleCandidate(ci); err != nil {
				t.Errorf("student HandleCandidate: %v", err)
			}
		},
	})
	if err := studClient.JoinSession(sid, domain.RoleStudent); err != nil {
		t.Fatalf("student join: %v", err)
	}

	// student-joined -> offer (full gathering) -> answer applied -> stable.
	select {
	case <-answered:
	case <-time.After(20 * time.Second):
		t.Fatal("no answer made the round trip")
	}
	waitSignaling(t, "instructor settled", inst.SignalingState, webrtc.SignalingStateStable)
	waitSignaling(t, "student settled", stud.SignalingState, webrtc.SignalingStateStable)

	if inst.State() == negotiator.StateClosed || stud.State() == negotiator.StateClosed {
		t.Fatal("negotiator closed during handshake")
	}
}

func waitSignaling(t *testing.T, what string, state func() webrtc.SignalingState, want webrtc.SignalingState) {
	t.Helper()
	deadline := time.Now().Add(20 * time.Second)
	for state() != want {
		if time.Now().After(deadline) {
			t.Fatalf("%s: signaling state=%v, want %v", what, state(), want)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

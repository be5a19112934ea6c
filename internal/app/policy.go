package app

import "github.com/sujals170/Bright-Byte-sub000/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	MarkSlow
	KickParticipant
	DropFrame
)

type Policy interface {
	OnBackPressure(session core.SessionService, cid core.ConnID) BackpressureAction
}

// SimplePolicy kicks participants whose send buffer stays full; a socket
// that cannot keep up with signaling traffic is effectively dead.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(session core.SessionService, cid core.ConnID) BackpressureAction {
	return KickParticipant
}

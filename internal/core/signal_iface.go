package core

// Frame is a raw signaling payload, forwarded without inspection.
type Frame []byte

// ConnID is the transport-level identifier of one socket, unique per
// connection and ephemeral.
type ConnID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

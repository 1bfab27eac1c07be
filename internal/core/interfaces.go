package core

import "errors"

// Frame is a raw outbound payload, already encoded for the transport.
type Frame []byte

// ConnID identifies one live transport session. The member identity of a
// joined connection equals its ConnID.
type ConnID string

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrWrongPassword = errors.New("wrong password")
)

// ClientConn abstracts the per-connection messaging transport.
// Owned by the adapter; the adapter must Close() it. TrySend must never
// block — rooms fan out under their lock.
type ClientConn interface {
	TrySend(Frame) error
	Close()
}

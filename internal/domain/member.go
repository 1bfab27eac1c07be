package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNameEmpty   = errors.New("user name empty")
	ErrUserNameTooLong = errors.New("user name too long")
)

// UserID is the member identity. It equals the connection identity at
// join time; the server assigns it, clients never pick it.
type UserID string

// Member is one connection's participation record within one room.
type Member struct {
	ID            UserID    `json:"id"`
	Name          string    `json:"name"`
	IsOwner       bool      `json:"isOwner"`
	LastHeartbeat time.Time `json:"-"`
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(id UserID, name string, isOwner bool) (*Member, error) {
	if len(name) == 0 {
		return nil, ErrUserNameEmpty
	}
	if len(name) > MaxUserNameLen {
		return nil, ErrUserNameTooLong
	}
	return &Member{ID: id, Name: name, IsOwner: isOwner, LastHeartbeat: time.Now()}, nil
}

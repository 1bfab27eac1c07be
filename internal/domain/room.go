// Package domain contains entities without logic, just meta-data.
package domain

import (
	"errors"
	"time"
)

const (
	RoomIDLen      = 6
	MaxRoomNameLen = 64
	MaxRoomDescLen = 256
	MaxPasswordLen = 64
	MaxUserNameLen = 36
	MaxChatMsgLen  = 1024
)

var (
	ErrRoomNameEmpty   = errors.New("room name empty")
	ErrRoomNameTooLong = errors.New("room name too long")
)

type RoomID string

// Room is the authoritative record of one watch session.
// Password is plaintext and never serialized.
type Room struct {
	ID                 RoomID         `json:"id"`
	Name               string         `json:"name"`
	Description        string         `json:"description,omitempty"`
	Password           string         `json:"-"`
	IsPublic           bool           `json:"isPublic"`
	OwnerID            UserID         `json:"ownerId"`
	OwnerName          string         `json:"ownerName"`
	MemberCount        int            `json:"memberCount"`
	CurrentState       *PlaybackState `json:"currentState"`
	CreatedAt          time.Time      `json:"createdAt"`
	LastOwnerHeartbeat time.Time      `json:"-"`
}

// HasPassword reports whether joining requires a password check.
func (r *Room) HasPassword() bool { return r.Password != "" }

type StateKind string

const (
	StateKindPlay StateKind = "play"
	StateKindLive StateKind = "live"
)

// PlaybackState is the room's synchronized content state. Kind selects
// which field group is meaningful: "play" carries video fields, "live"
// carries channel fields. Only the owner may set it; members receive it
// verbatim, latest write wins.
type PlaybackState struct {
	Kind StateKind `json:"kind"`

	VideoID         string  `json:"videoId,omitempty"`
	VideoName       string  `json:"videoName,omitempty"`
	PositionSeconds float64 `json:"positionSeconds,omitempty"`
	IsPlaying       bool    `json:"isPlaying,omitempty"`

	ChannelID   string `json:"channelId,omitempty"`
	ChannelName string `json:"channelName,omitempty"`
}

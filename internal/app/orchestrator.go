package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"watchroom/internal/core"
	"watchroom/internal/domain"
)

var ErrValidation = errors.New("validation failed")

// Orchestrator ties the registry and the room store together. It owns
// membership and ownership semantics; rooms only hold state.
type Orchestrator struct {
	Registry *Registry
	Rooms    *core.Store

	validate *validator.Validate
}

func NewOrchestrator(reg *Registry, rooms *core.Store) *Orchestrator {
	return &Orchestrator{
		Registry: reg,
		Rooms:    rooms,
		validate: validator.New(),
	}
}

type CreateRoomRequest struct {
	Name        string `json:"name" validate:"required,max=64"`
	Description string `json:"description" validate:"max=256"`
	Password    string `json:"password" validate:"max=64"`
	IsPublic    bool   `json:"isPublic"`
	UserName    string `json:"userName" validate:"required,max=36"`
}

// CreateRoom allocates a room with the caller as owner and sole member
// and binds the connection to it.
func (o *Orchestrator) CreateRoom(id core.ConnID, conn core.ClientConn, req CreateRoomRequest) (domain.Room, error) {
	if err := o.validate.Struct(req); err != nil {
		return domain.Room{}, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	uid := domain.UserID(id)
	rs := o.Rooms.Create(domain.Room{
		Name:        req.Name,
		Description: req.Description,
		Password:    req.Password,
		IsPublic:    req.IsPublic,
		OwnerID:     uid,
		OwnerName:   req.UserName,
	})

	owner, err := domain.NewMember(uid, req.UserName, true)
	if err != nil {
		o.Rooms.Delete(rs.ID())
		return domain.Room{}, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	rs.AddMember(owner, conn)
	o.Registry.Bind(id, RoomBinding{RoomID: rs.ID(), UserID: uid, UserName: req.UserName, IsOwner: true})

	log.Info().Str("module", "app.orchestrator").Str("room", string(rs.ID())).Str("owner", req.UserName).Msg("room created")
	return rs.Snapshot(), nil
}

type JoinRoomRequest struct {
	RoomID   string `json:"roomId" validate:"required,len=6"`
	Password string `json:"password"`
	UserName string `json:"userName" validate:"required,max=36"`
}

// JoinRoom inserts a non-owner member, binds the connection and tells
// everyone else. The returned snapshot includes the new member.
func (o *Orchestrator) JoinRoom(id core.ConnID, conn core.ClientConn, req JoinRoomRequest) (domain.Room, []domain.Member, error) {
	if err := o.validate.Struct(req); err != nil {
		return domain.Room{}, nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	roomID := domain.RoomID(strings.ToUpper(req.RoomID))
	rs, ok := o.Rooms.Get(roomID)
	if !ok {
		return domain.Room{}, nil, core.ErrRoomNotFound
	}

	room := rs.Snapshot()
	if room.HasPassword() && room.Password != req.Password {
		return domain.Room{}, nil, core.ErrWrongPassword
	}

	uid := domain.UserID(id)
	member, err := domain.NewMember(uid, req.UserName, false)
	if err != nil {
		return domain.Room{}, nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	rs.AddMember(member, conn)
	o.Registry.Bind(id, RoomBinding{RoomID: roomID, UserID: uid, UserName: req.UserName, IsOwner: false})

	if frame, ok := encodeEvent(EvtMemberJoined, member); ok {
		rs.Broadcast(uid, frame)
	}

	log.Info().Str("module", "app.orchestrator").Str("room", string(roomID)).Str("user", req.UserName).Msg("member joined")
	return rs.Snapshot(), rs.MembersSnapshot(), nil
}

// LeaveRoom removes the caller from its room, if any. The room survives
// an owner's departure until the sweeper reclaims it; only an empty room
// dies on the spot.
func (o *Orchestrator) LeaveRoom(id core.ConnID) {
	binding, ok := o.Registry.Lookup(id)
	if !ok {
		return
	}

	rs, ok := o.Rooms.Get(binding.RoomID)
	if ok {
		remaining, removed := rs.RemoveMember(binding.UserID)
		if removed {
			if frame, ok := encodeEvent(EvtMemberLeft, binding.UserID); ok {
				rs.Broadcast(binding.UserID, frame)
			}
			if binding.IsOwner {
				log.Info().Str("module", "app.orchestrator").Str("room", string(binding.RoomID)).Msg("owner left, room awaits sweep")
			}
			if remaining == 0 {
				o.DeleteRoom(rs)
			}
		}
	}

	o.Registry.Unbind(id)
}

// Heartbeat is pure liveness bookkeeping; nothing is broadcast.
func (o *Orchestrator) Heartbeat(id core.ConnID) {
	binding, ok := o.Registry.Lookup(id)
	if !ok {
		return
	}
	if rs, ok := o.Rooms.Get(binding.RoomID); ok {
		rs.Heartbeat(binding.UserID, time.Now())
	}
}

func (o *Orchestrator) ListPublic() []domain.Room {
	return o.Rooms.ListPublic()
}

// DeleteRoom announces the deletion, then removes the room, its
// membership table and the members' bindings.
func (o *Orchestrator) DeleteRoom(rs *core.RoomState) {
	if frame, ok := encodeEvent(EvtRoomDeleted, nil); ok {
		rs.Broadcast("", frame)
	}
	for _, m := range rs.MembersSnapshot() {
		o.Registry.Unbind(core.ConnID(m.ID))
	}
	o.Rooms.Delete(rs.ID())
}

// Disconnect is the transport's exit hook: leave whatever room the
// connection was in, then forget the connection entirely.
func (o *Orchestrator) Disconnect(id core.ConnID) {
	o.LeaveRoom(id)
	o.Registry.Unregister(id)
}

package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"watchroom/internal/app"
	"watchroom/internal/core"
	"watchroom/internal/domain"
)

var upgrader = websocket.Upgrader{
	// TODO: In production, restrict origins as needed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSController upgrades connections and dispatches the event surface
// onto the orchestrator. One goroutine pair per connection.
type WSController struct {
	Orch      *app.Orchestrator
	ReadLimit int64
}

func NewWSController(orch *app.Orchestrator) *WSController {
	return &WSController{Orch: orch}
}

func (ctl *WSController) Handle(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("ws upgrade")
		return
	}
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	id := core.ConnID(uuid.NewString())
	conn := newWSConn(ws)
	ctl.Orch.Registry.Register(id, conn)
	log.Info().Str("module", "adapters.ws").Str("conn", string(id)).Msg("client connected")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, id, conn)
}

func (ctl *WSController) writePump(ctx context.Context, c *wsConn) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "adapters.ws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "adapters.ws").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *WSController) readPump(ctx context.Context, cancel context.CancelFunc, id core.ConnID, c *wsConn) {
	defer func() {
		log.Info().Str("module", "adapters.ws").Str("conn", string(id)).Msg("client disconnected")
		cancel()
		ctl.Orch.Disconnect(id)
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				return
			}
			ctl.handleEvent(id, c, data)
		}
	}
}

func (ctl *WSController) handleEvent(id core.ConnID, c *wsConn, data []byte) {
	var env app.Event
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("bad json")
		return
	}

	switch env.Type {
	case app.EvtRoomCreate:
		ctl.handleCreate(id, c, env.Data)
	case app.EvtRoomJoin:
		ctl.handleJoin(id, c, env.Data)
	case app.EvtRoomLeave:
		ctl.Orch.LeaveRoom(id)
	case app.EvtRoomList:
		ctl.handleList(c)
	case app.EvtPlayUpdate:
		if st := decodeState(env.Data); st != nil {
			ctl.Orch.UpdatePlayback(id, st)
		}
	case app.EvtPlayChange:
		if st := decodeState(env.Data); st != nil {
			ctl.Orch.ChangeContent(id, st)
		}
	case app.EvtLiveChange:
		if st := decodeState(env.Data); st != nil {
			ctl.Orch.ChangeLive(id, st)
		}
	case app.EvtPlaySeek:
		var seconds float64
		if err := json.Unmarshal(env.Data, &seconds); err == nil {
			ctl.Orch.Seek(id, seconds)
		}
	case app.EvtPlayPlay:
		ctl.Orch.Play(id)
	case app.EvtPlayPause:
		ctl.Orch.Pause(id)
	case app.EvtChatMessage:
		ctl.handleChat(id, env.Data)
	case app.EvtVoiceOffer, app.EvtVoiceAnswer, app.EvtVoiceICE:
		ctl.handleSignal(id, env.Type, env.Data)
	case app.EvtHeartbeat:
		ctl.Orch.Heartbeat(id)
	default:
		log.Warn().Str("module", "adapters.ws").Str("type", env.Type).Msg("unknown event")
	}
}

func (ctl *WSController) sendJSON(c *wsConn, typ string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Str("type", typ).Msg("sendJSON marshal")
		return
	}
	frame, err := json.Marshal(app.Event{Type: typ, Data: data})
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Str("type", typ).Msg("sendJSON marshal envelope")
		return
	}
	_ = c.TrySend(frame)
}

func decodeState(data []byte) *domain.PlaybackState {
	var st domain.PlaybackState
	if err := json.Unmarshal(data, &st); err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("bad state payload")
		return nil
	}
	return &st
}

// errorText maps the error taxonomy onto client-facing strings.
func errorText(err error) string {
	switch {
	case errors.Is(err, core.ErrRoomNotFound):
		return "room not found"
	case errors.Is(err, core.ErrWrongPassword):
		return "wrong password"
	case errors.Is(err, app.ErrValidation):
		return "invalid request"
	default:
		return "internal error"
	}
}

type createResult struct {
	Success bool         `json:"success"`
	Room    *domain.Room `json:"room,omitempty"`
	Error   string       `json:"error,omitempty"`
}

func (ctl *WSController) handleCreate(id core.ConnID, c *wsConn, data []byte) {
	var req app.CreateRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		ctl.sendJSON(c, app.EvtRoomCreate, createResult{Error: "invalid request"})
		return
	}
	room, err := ctl.Orch.CreateRoom(id, c, req)
	if err != nil {
		ctl.sendJSON(c, app.EvtRoomCreate, createResult{Error: errorText(err)})
		return
	}
	ctl.sendJSON(c, app.EvtRoomCreate, createResult{Success: true, Room: &room})
}

type joinResult struct {
	Success bool            `json:"success"`
	Room    *domain.Room    `json:"room,omitempty"`
	Members []domain.Member `json:"members,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func (ctl *WSController) handleJoin(id core.ConnID, c *wsConn, data []byte) {
	var req app.JoinRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		ctl.sendJSON(c, app.EvtRoomJoin, joinResult{Error: "invalid request"})
		return
	}
	room, members, err := ctl.Orch.JoinRoom(id, c, req)
	if err != nil {
		ctl.sendJSON(c, app.EvtRoomJoin, joinResult{Error: errorText(err)})
		return
	}
	ctl.sendJSON(c, app.EvtRoomJoin, joinResult{Success: true, Room: &room, Members: members})
}

func (ctl *WSController) handleList(c *wsConn) {
	ctl.sendJSON(c, app.EvtRoomList, ctl.Orch.ListPublic())
}

func (ctl *WSController) handleChat(id core.ConnID, data []byte) {
	var p struct {
		Content string          `json:"content"`
		Type    domain.ChatType `json:"type"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("bad chat payload")
		return
	}
	ctl.Orch.Chat(id, p.Content, p.Type)
}

func (ctl *WSController) handleSignal(id core.ConnID, evt string, data []byte) {
	var p struct {
		TargetID string          `json:"targetId"`
		Payload  json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("bad signal payload")
		return
	}
	ctl.Orch.Relay(id, evt, core.ConnID(p.TargetID), p.Payload)
}

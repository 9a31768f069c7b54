package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"character-guessr/internal/game"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type wsHub struct {
	mu    sync.Mutex
	rooms map[string]map[*websocket.Conn]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{
		rooms: make(map[string]map[*websocket.Conn]struct{}),
	}
}

func (h *wsHub) Add(roomID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.rooms[roomID]
	if group == nil {
		group = make(map[*websocket.Conn]struct{})
		h.rooms[roomID] = group
	}
	group[conn] = struct{}{}
}

func (h *wsHub) Remove(roomID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.rooms[roomID]
	if group == nil {
		return
	}
	delete(group, conn)
	if len(group) == 0 {
		delete(h.rooms, roomID)
	}
}

func (h *wsHub) Send(conn *websocket.Conn, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

// Broadcast pushes a payload to every socket joined to a room. Writes that
// fail evict the socket.
func (h *wsHub) Broadcast(roomID string, payload any) {
	h.mu.Lock()
	group := h.rooms[roomID]
	conns := make([]*websocket.Conn, 0, len(group))
	for conn := range group {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.Remove(roomID, conn)
		}
	}
}

// CloseRoom drops and closes every socket in a room.
func (h *wsHub) CloseRoom(roomID string) {
	h.mu.Lock()
	group := h.rooms[roomID]
	delete(h.rooms, roomID)
	h.mu.Unlock()
	for conn := range group {
		_ = conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// roomConn is the per-connection protocol state, owned by the read
// goroutine.
type roomConn struct {
	conn   *websocket.Conn
	connID string
	roomID string
}

func (s *Server) handleRoomWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &roomConn{
		conn:   conn,
		connID: uuid.NewString(),
	}
	log.Printf("ws connected conn_id=%s remote=%s", client.connID, r.RemoteAddr)
	s.readRoomWS(client)
}

func (s *Server) readRoomWS(client *roomConn) {
	defer func() {
		s.handleDisconnect(client)
		_ = client.conn.Close()
	}()
	for {
		var msg RoomMessage
		if err := client.conn.ReadJSON(&msg); err != nil {
			log.Printf("ws disconnected conn_id=%s error=%v", client.connID, err)
			return
		}
		s.dispatchRoomMessage(client, msg)
	}
}

func (s *Server) dispatchRoomMessage(client *roomConn, msg RoomMessage) {
	if client.roomID == "" && msg.Type != msgCreateRoom && msg.Type != msgJoinRoom {
		s.sendError(client.conn, "join a room first")
		return
	}
	switch msg.Type {
	case msgCreateRoom:
		s.handleCreateRoom(client, msg)
	case msgJoinRoom:
		s.handleJoinRoom(client, msg)
	case msgToggleReady:
		s.handleToggleReady(client)
	case msgUpdateSettings:
		s.handleUpdateSettings(client, msg)
	case msgRequestSettings:
		s.handleRequestSettings(client)
	case msgGameStart:
		s.handleGameStart(client)
	case msgPlayerGuess:
		s.handlePlayerGuess(client, msg)
	case msgGameEnd:
		s.handleGameEnd(client, msg.Result)
	case msgSurrender:
		s.handleGameEnd(client, string(game.OutcomeSurrender))
	case msgTimeOut:
		s.handleTimeOut(client)
	case msgToggleVisibility:
		s.handleToggleVisibility(client)
	default:
		s.sendError(client.conn, "unknown message type")
	}
}

func (s *Server) sendError(conn *websocket.Conn, message string) {
	s.hub.Send(conn, NoticeEvent{Type: eventError, Message: message})
}

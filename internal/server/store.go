package server

import (
	"errors"
	"strings"
	"sync"

	"character-guessr/internal/game"
)

var (
	errRoomNotFound   = errors.New("room not found")
	errRoomExists     = errors.New("room already exists")
	errServerFull     = errors.New("server is at room capacity")
	errRoomPrivate    = errors.New("room is private")
	errRoomInGame     = errors.New("a game is already in progress")
	errRoomFull       = errors.New("room is full")
	errNameTaken      = errors.New("username is already taken in this room")
	errEmptyName      = errors.New("username cannot be empty")
	errHostOnly       = errors.New("only the host can do that")
	errHostReady      = errors.New("the host is always ready")
	errNotAllReady    = errors.New("not all players are ready")
	errNotInRoom      = errors.New("you are not in this room")
)

// Store is the owned in-memory room registry. All room mutations run under
// its lock, which preserves the original's per-room message serialization:
// no two messages for the same room are ever applied concurrently, and the
// first winning end-report closes the round.
type Store struct {
	mu         sync.Mutex
	rooms      map[string]*Room
	maxRooms   int
	maxPlayers int
}

func NewStore(maxRooms, maxPlayers int) *Store {
	return &Store{
		rooms:      make(map[string]*Room),
		maxRooms:   maxRooms,
		maxPlayers: maxPlayers,
	}
}

// CreateRoom allocates a room with the creator as sole host-player.
func (s *Store) CreateRoom(roomID, connID, username string) (*Room, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxRooms > 0 && len(s.rooms) >= s.maxRooms {
		return nil, errServerFull
	}
	if _, exists := s.rooms[roomID]; exists {
		return nil, errRoomExists
	}
	room := &Room{
		ID:       roomID,
		Settings: game.DefaultSettings(),
		Players: []Player{{
			ConnID:   connID,
			Username: username,
			IsHost:   true,
			Ready:    true,
		}},
	}
	s.rooms[roomID] = room
	return room, nil
}

// AddPlayer joins a player to an existing room. Rejections never mutate
// room state.
func (s *Store) AddPlayer(roomID, connID, username string) (*Room, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, errRoomNotFound
	}
	if room.Private {
		return nil, errRoomPrivate
	}
	if room.inGame() {
		return nil, errRoomInGame
	}
	if s.maxPlayers > 0 && len(room.Players) >= s.maxPlayers {
		return nil, errRoomFull
	}
	for _, player := range room.Players {
		if strings.EqualFold(player.Username, username) {
			return nil, errNameTaken
		}
	}
	room.Players = append(room.Players, Player{
		ConnID:   connID,
		Username: username,
	})
	return room, nil
}

func (s *Store) GetRoom(roomID string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	return room, ok
}

// UpdateRoom applies one mutation to a room under the store lock.
func (s *Store) UpdateRoom(roomID string, update func(room *Room) error) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, errRoomNotFound
	}
	if err := update(room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Store) DeleteRoom(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomID)
}

// Count reports the number of live rooms.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

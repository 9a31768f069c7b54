package server

import (
	"time"

	"character-guessr/internal/game"
)

const (
	visibilityPublic  = "public"
	visibilityPrivate = "private"
)

// Player is one room member. Username uniqueness is enforced
// case-insensitively at join time. The host is implicitly always ready.
type Player struct {
	ConnID       string
	Username     string
	IsHost       bool
	Score        int
	Ready        bool
	Disconnected bool
	Trace        []game.Outcome
}

// GuessEvent is one recorded multiplayer guess.
type GuessEvent struct {
	CharacterID int       `json:"characterId"`
	Correct     bool      `json:"correct"`
	At          time.Time `json:"at"`
}

// CurrentGame is the room's active round. Created on game start, cleared
// when the round globally ends.
type CurrentGame struct {
	Settings  game.Settings
	StartedAt time.Time
	Answer    *game.Character
	// Payload is the answer as shared with clients: obscured against
	// casual traffic inspection, not hidden from a determined client.
	Payload string
	Guesses map[string][]GuessEvent
}

// Room is one multiplayer session container.
type Room struct {
	ID       string
	Private  bool
	Starting bool
	Settings game.Settings
	Players  []Player
	Game     *CurrentGame
}

func (r *Room) visibility() string {
	if r.Private {
		return visibilityPrivate
	}
	return visibilityPublic
}

func (r *Room) host() *Player {
	for i := range r.Players {
		if r.Players[i].IsHost {
			return &r.Players[i]
		}
	}
	return nil
}

func (r *Room) playerByConn(connID string) *Player {
	for i := range r.Players {
		if r.Players[i].ConnID == connID {
			return &r.Players[i]
		}
	}
	return nil
}

func (r *Room) inGame() bool {
	return r.Game != nil || r.Starting
}

func traceHas(trace []game.Outcome, outcome game.Outcome) bool {
	for _, entry := range trace {
		if entry == outcome {
			return true
		}
	}
	return false
}

func traceTerminal(trace []game.Outcome) bool {
	for _, entry := range trace {
		if entry.Terminal() {
			return true
		}
	}
	return false
}

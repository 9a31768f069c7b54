package server

import "character-guessr/internal/game"

// Client-to-server room protocol message types.
const (
	msgCreateRoom       = "createRoom"
	msgJoinRoom         = "joinRoom"
	msgToggleReady      = "toggleReady"
	msgUpdateSettings   = "updateGameSettings"
	msgRequestSettings  = "requestGameSettings"
	msgGameStart        = "gameStart"
	msgPlayerGuess      = "playerGuess"
	msgGameEnd          = "gameEnd"
	msgTimeOut          = "timeOut"
	msgSurrender        = "surrender"
	msgToggleVisibility = "toggleRoomVisibility"
)

// Server-to-client room protocol event types.
const (
	eventUpdatePlayers  = "updatePlayers"
	eventUpdateSettings = "updateGameSettings"
	eventGameStart      = "gameStart"
	eventGameEnded      = "gameEnded"
	eventRoomClosed     = "roomClosed"
	eventResetReady     = "resetReadyStatus"
	eventError          = "error"
)

// RoomMessage is the single inbound envelope; fields beyond Type are
// populated per message type.
type RoomMessage struct {
	Type        string         `json:"type"`
	RoomID      string         `json:"roomId,omitempty"`
	Username    string         `json:"username,omitempty"`
	Settings    *game.Settings `json:"settings,omitempty"`
	CharacterID int            `json:"characterId,omitempty"`
	Correct     bool           `json:"correct,omitempty"`
	Result      string         `json:"result,omitempty"`
}

type PlayerInfo struct {
	Username     string         `json:"username"`
	IsHost       bool           `json:"isHost"`
	Score        int            `json:"score"`
	Ready        bool           `json:"ready"`
	Disconnected bool           `json:"disconnected"`
	Trace        []game.Outcome `json:"trace"`
}

type PlayersEvent struct {
	Type       string       `json:"type"`
	RoomID     string       `json:"roomId"`
	Visibility string       `json:"visibility"`
	Players    []PlayerInfo `json:"players"`
}

type SettingsEvent struct {
	Type     string        `json:"type"`
	Settings game.Settings `json:"settings"`
}

type GameStartEvent struct {
	Type     string        `json:"type"`
	Answer   string        `json:"answer"`
	Settings game.Settings `json:"settings"`
	Players  []PlayerInfo  `json:"players"`
}

type GameEndedEvent struct {
	Type    string                  `json:"type"`
	Winner  string                  `json:"winner,omitempty"`
	Answer  *game.Character         `json:"answer"`
	Guesses map[string][]GuessEvent `json:"guesses"`
	Players []PlayerInfo            `json:"players"`
}

type NoticeEvent struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

func playersPayload(room *Room) PlayersEvent {
	players := make([]PlayerInfo, 0, len(room.Players))
	for _, player := range room.Players {
		trace := player.Trace
		if trace == nil {
			trace = []game.Outcome{}
		}
		players = append(players, PlayerInfo{
			Username:     player.Username,
			IsHost:       player.IsHost,
			Score:        player.Score,
			Ready:        player.Ready,
			Disconnected: player.Disconnected,
			Trace:        trace,
		})
	}
	return PlayersEvent{
		Type:       eventUpdatePlayers,
		RoomID:     room.ID,
		Visibility: room.visibility(),
		Players:    players,
	}
}

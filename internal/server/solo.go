package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"character-guessr/internal/game"

	"github.com/gorilla/websocket"
)

const soloInitTimeout = time.Minute

type soloMessage struct {
	Type        string         `json:"type"`
	CharacterID int            `json:"characterId,omitempty"`
	Settings    *game.Settings `json:"settings,omitempty"`
}

type soloReadyEvent struct {
	Type        string        `json:"type"`
	Settings    game.Settings `json:"settings"`
	GuessesLeft int           `json:"guessesLeft"`
	Hints       []string      `json:"hints"`
}

type soloGuessEvent struct {
	Type        string           `json:"type"`
	Guess       game.GuessRecord `json:"guess"`
	GuessesLeft int              `json:"guessesLeft"`
	GameEnd     bool             `json:"gameEnd"`
	Result      game.Result      `json:"result,omitempty"`
	Answer      *game.Character  `json:"answer,omitempty"`
}

type soloEndEvent struct {
	Type   string          `json:"type"`
	Result game.Result     `json:"result"`
	Answer *game.Character `json:"answer"`
}

// handleSoloWebsocket runs a single-player session over one connection.
// The session is only ever touched from this read loop, so it needs no
// locking of its own.
func (s *Server) handleSoloWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("solo upgrade failed error=%v", err)
		return
	}
	s.readSoloWS(conn)
}

func (s *Server) readSoloWS(conn *websocket.Conn) {
	defer conn.Close()

	var session *game.Session
	for {
		var msg soloMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("solo read error=%v", err)
			}
			return
		}

		switch msg.Type {
		case "start":
			settings := game.DefaultSettings()
			if msg.Settings != nil {
				settings = *msg.Settings
			}
			session = game.NewSession(s.resolver, settings)
			s.soloInit(conn, session, settings)
		case "restart":
			if session == nil {
				s.sendError(conn, "no game in progress")
				continue
			}
			settings := game.DefaultSettings()
			if msg.Settings != nil {
				settings = *msg.Settings
			}
			s.soloRestart(conn, session, settings)
		case "guess":
			if session == nil {
				s.sendError(conn, "no game in progress")
				continue
			}
			s.soloGuess(conn, session, msg.CharacterID)
		case "timeUp":
			if session == nil {
				s.sendError(conn, "no game in progress")
				continue
			}
			s.soloTimeUp(conn, session)
		case "surrender":
			if session == nil {
				s.sendError(conn, "no game in progress")
				continue
			}
			session.Surrender()
			s.hub.Send(conn, soloEndEvent{
				Type:   "gameEnded",
				Result: session.Result(),
				Answer: session.Answer(),
			})
		default:
			s.sendError(conn, "unknown message type")
		}
	}
}

func (s *Server) soloInit(conn *websocket.Conn, session *game.Session, settings game.Settings) {
	ctx, cancel := context.WithTimeout(context.Background(), soloInitTimeout)
	defer cancel()
	if err := session.Init(ctx); err != nil {
		log.Printf("solo init failed error=%v", err)
		s.sendError(conn, "failed to initialize the game, please try again")
		return
	}
	hints := session.Hints()
	if hints == nil {
		hints = []string{}
	}
	s.hub.Send(conn, soloReadyEvent{
		Type:        "gameReady",
		Settings:    settings,
		GuessesLeft: session.GuessesLeft(),
		Hints:       hints,
	})
}

func (s *Server) soloRestart(conn *websocket.Conn, session *game.Session, settings game.Settings) {
	ctx, cancel := context.WithTimeout(context.Background(), soloInitTimeout)
	defer cancel()
	if err := session.Restart(ctx, settings); err != nil {
		log.Printf("solo restart failed error=%v", err)
		s.sendError(conn, "failed to initialize the game, please try again")
		return
	}
	hints := session.Hints()
	if hints == nil {
		hints = []string{}
	}
	s.hub.Send(conn, soloReadyEvent{
		Type:        "gameReady",
		Settings:    settings,
		GuessesLeft: session.GuessesLeft(),
		Hints:       hints,
	})
}

func (s *Server) soloGuess(conn *websocket.Conn, session *game.Session, characterID int) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	record, err := session.Guess(ctx, characterID)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrSessionEnded):
			s.sendError(conn, "the game has ended")
		case errors.Is(err, game.ErrSessionNotReady):
			s.sendError(conn, "the game is not ready yet")
		default:
			log.Printf("solo guess lookup failed character_id=%d error=%v", characterID, err)
			s.sendError(conn, "failed to look up that character, try again")
		}
		return
	}

	event := soloGuessEvent{
		Type:        "guessFeedback",
		Guess:       *record,
		GuessesLeft: session.GuessesLeft(),
	}
	if session.State() == game.StateEnded {
		event.GameEnd = true
		event.Result = session.Result()
		event.Answer = session.Answer()
	}
	s.hub.Send(conn, event)
}

func (s *Server) soloTimeUp(conn *websocket.Conn, session *game.Session) {
	if !session.TimeExpired() {
		return
	}
	if session.State() == game.StateEnded {
		s.hub.Send(conn, soloEndEvent{
			Type:   "gameEnded",
			Result: session.Result(),
			Answer: session.Answer(),
		})
		return
	}
	s.hub.Send(conn, struct {
		Type        string `json:"type"`
		GuessesLeft int    `json:"guessesLeft"`
	}{Type: "attemptExpired", GuessesLeft: session.GuessesLeft()})
}

package server

import (
	"context"
	"log"
	"time"

	"character-guessr/internal/game"

	"github.com/google/uuid"
)

func (s *Server) handleCreateRoom(client *roomConn, msg RoomMessage) {
	if client.roomID != "" {
		s.sendError(client.conn, "already in a room")
		return
	}
	username, err := validateUsername(msg.Username)
	if err != nil {
		s.sendError(client.conn, err.Error())
		return
	}
	roomID := msg.RoomID
	if roomID == "" {
		roomID = uuid.NewString()
	}
	room, err := s.store.CreateRoom(roomID, client.connID, username)
	if err != nil {
		s.sendError(client.conn, err.Error())
		return
	}
	client.roomID = room.ID
	s.hub.Add(room.ID, client.conn)
	log.Printf("room created room_id=%s host=%s", room.ID, username)
	s.hub.Broadcast(room.ID, playersPayload(room))
}

func (s *Server) handleJoinRoom(client *roomConn, msg RoomMessage) {
	if client.roomID != "" {
		s.sendError(client.conn, "already in a room")
		return
	}
	username, err := validateUsername(msg.Username)
	if err != nil {
		s.sendError(client.conn, err.Error())
		return
	}
	room, err := s.store.AddPlayer(msg.RoomID, client.connID, username)
	if err != nil {
		s.sendError(client.conn, err.Error())
		return
	}
	client.roomID = room.ID
	s.hub.Add(room.ID, client.conn)
	log.Printf("player joined room_id=%s username=%s count=%d", room.ID, username, len(room.Players))
	s.hub.Broadcast(room.ID, playersPayload(room))
}

func (s *Server) handleToggleReady(client *roomConn) {
	room, err := s.store.UpdateRoom(client.roomID, func(room *Room) error {
		player := room.playerByConn(client.connID)
		if player == nil {
			return errNotInRoom
		}
		if player.IsHost {
			return errHostReady
		}
		// Readiness is frozen once a round is starting or underway.
		if room.inGame() {
			return errRoomInGame
		}
		player.Ready = !player.Ready
		return nil
	})
	if err != nil {
		s.sendError(client.conn, err.Error())
		return
	}
	s.hub.Broadcast(room.ID, playersPayload(room))
}

func (s *Server) handleUpdateSettings(client *roomConn, msg RoomMessage) {
	if msg.Settings == nil {
		s.sendError(client.conn, "settings are required")
		return
	}
	room, err := s.store.UpdateRoom(client.roomID, func(room *Room) error {
		player := room.playerByConn(client.connID)
		if player == nil {
			return errNotInRoom
		}
		if !player.IsHost {
			return errHostOnly
		}
		room.Settings = *msg.Settings
		return nil
	})
	if err != nil {
		s.sendError(client.conn, err.Error())
		return
	}
	s.hub.Broadcast(room.ID, SettingsEvent{Type: eventUpdateSettings, Settings: room.Settings})
}

// Settings are not part of the join response, so late joiners request them
// on demand; the reply goes only to the requester.
func (s *Server) handleRequestSettings(client *roomConn) {
	room, ok := s.store.GetRoom(client.roomID)
	if !ok {
		s.sendError(client.conn, errRoomNotFound.Error())
		return
	}
	s.hub.Send(client.conn, SettingsEvent{Type: eventUpdateSettings, Settings: room.Settings})
}

func (s *Server) handleToggleVisibility(client *roomConn) {
	room, err := s.store.UpdateRoom(client.roomID, func(room *Room) error {
		player := room.playerByConn(client.connID)
		if player == nil {
			return errNotInRoom
		}
		if !player.IsHost {
			return errHostOnly
		}
		room.Private = !room.Private
		return nil
	})
	if err != nil {
		s.sendError(client.conn, err.Error())
		return
	}
	s.hub.Broadcast(room.ID, playersPayload(room))
}

// handleGameStart validates and latches the room, then resolves the answer
// off the message path so lookups never block room handling.
func (s *Server) handleGameStart(client *roomConn) {
	var settings game.Settings
	room, err := s.store.UpdateRoom(client.roomID, func(room *Room) error {
		player := room.playerByConn(client.connID)
		if player == nil {
			return errNotInRoom
		}
		if !player.IsHost {
			return errHostOnly
		}
		if room.inGame() {
			return errRoomInGame
		}
		for _, member := range room.Players {
			if !member.IsHost && !member.Disconnected && !member.Ready {
				return errNotAllReady
			}
		}
		// Disconnected players with nothing at stake are dropped before a
		// new round; those with scores stay on the roster.
		kept := room.Players[:0]
		for _, member := range room.Players {
			if member.Disconnected && member.Score == 0 {
				continue
			}
			kept = append(kept, member)
		}
		room.Players = kept
		room.Private = true
		room.Starting = true
		settings = room.Settings
		return nil
	})
	if err != nil {
		s.sendError(client.conn, err.Error())
		return
	}
	log.Printf("game starting room_id=%s players=%d", room.ID, len(room.Players))
	go s.launchGame(client, room.ID, settings)
}

func (s *Server) launchGame(client *roomConn, roomID string, settings game.Settings) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	answer, err := s.resolver.RandomCharacter(ctx, settings)
	if err != nil {
		log.Printf("game start failed room_id=%s error=%v", roomID, err)
		if _, updateErr := s.store.UpdateRoom(roomID, func(room *Room) error {
			room.Starting = false
			return nil
		}); updateErr == nil {
			s.sendError(client.conn, "failed to initialize the game, please try again")
		}
		return
	}
	payload, err := encryptAnswer(s.secret, answer)
	if err != nil {
		log.Printf("answer encrypt failed room_id=%s error=%v", roomID, err)
		_, _ = s.store.UpdateRoom(roomID, func(room *Room) error {
			room.Starting = false
			return nil
		})
		s.sendError(client.conn, "failed to initialize the game, please try again")
		return
	}

	var start GameStartEvent
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		if !room.Starting {
			return errRoomNotFound
		}
		room.Starting = false
		guesses := make(map[string][]GuessEvent, len(room.Players))
		for i := range room.Players {
			room.Players[i].Trace = nil
			guesses[room.Players[i].Username] = nil
		}
		room.Game = &CurrentGame{
			Settings:  settings,
			StartedAt: time.Now().UTC(),
			Answer:    answer,
			Payload:   payload,
			Guesses:   guesses,
		}
		start = GameStartEvent{
			Type:     eventGameStart,
			Answer:   payload,
			Settings: settings,
			Players:  playersPayload(room).Players,
		}
		return nil
	})
	if err != nil {
		return
	}
	log.Printf("game started room_id=%s answer_id=%d", room.ID, answer.ID)
	s.hub.Broadcast(room.ID, start)
}

func (s *Server) handlePlayerGuess(client *roomConn, msg RoomMessage) {
	room, err := s.store.UpdateRoom(client.roomID, func(room *Room) error {
		player := room.playerByConn(client.connID)
		if player == nil {
			return errNotInRoom
		}
		// Guesses that race past the end of a round are dropped without
		// touching membership or scores.
		if room.Game == nil {
			return nil
		}
		room.Game.Guesses[player.Username] = append(room.Game.Guesses[player.Username], GuessEvent{
			CharacterID: msg.CharacterID,
			Correct:     msg.Correct,
			At:          time.Now().UTC(),
		})
		outcome := game.OutcomeIncorrect
		if msg.Correct {
			outcome = game.OutcomeCorrect
		}
		player.Trace = append(player.Trace, outcome)
		return nil
	})
	if err != nil {
		s.sendError(client.conn, err.Error())
		return
	}
	s.hub.Broadcast(room.ID, playersPayload(room))
}

// handleTimeOut marks an expired guess window on the caller's trace. It
// never ends the round by itself; the client follows up with a lose report
// once attempts are exhausted.
func (s *Server) handleTimeOut(client *roomConn) {
	room, err := s.store.UpdateRoom(client.roomID, func(room *Room) error {
		player := room.playerByConn(client.connID)
		if player == nil {
			return errNotInRoom
		}
		if room.Game == nil {
			return nil
		}
		player.Trace = append(player.Trace, game.OutcomeTimeout)
		return nil
	})
	if err != nil {
		s.sendError(client.conn, err.Error())
		return
	}
	s.hub.Broadcast(room.ID, playersPayload(room))
}

// handleGameEnd records a client-reported round outcome and closes the
// round when a winner emerges or every connected player is done.
func (s *Server) handleGameEnd(client *roomConn, result string) {
	outcome, ok := roundOutcome(result)
	if !ok {
		s.sendError(client.conn, "unknown game result")
		return
	}
	var ended *GameEndedEvent
	room, err := s.store.UpdateRoom(client.roomID, func(room *Room) error {
		player := room.playerByConn(client.connID)
		if player == nil {
			return errNotInRoom
		}
		if room.Game == nil {
			return nil
		}
		player.Trace = append(player.Trace, outcome)
		ended = evaluateRoundEnd(room)
		return nil
	})
	if err != nil {
		s.sendError(client.conn, err.Error())
		return
	}
	if ended == nil {
		s.hub.Broadcast(room.ID, playersPayload(room))
		return
	}
	log.Printf("game ended room_id=%s winner=%q", room.ID, ended.Winner)
	s.hub.Broadcast(room.ID, *ended)
	s.hub.Broadcast(room.ID, NoticeEvent{Type: eventResetReady})
	s.hub.Broadcast(room.ID, playersPayload(room))
}

// evaluateRoundEnd applies the two ordered termination conditions. Player
// order breaks any tie, which the store's serialization makes moot: only
// the first processed winning report ever sees an open round.
func evaluateRoundEnd(room *Room) *GameEndedEvent {
	var winner *Player
	for i := range room.Players {
		if traceHas(room.Players[i].Trace, game.OutcomeWin) {
			winner = &room.Players[i]
			break
		}
	}
	if winner == nil {
		for _, player := range room.Players {
			if player.Disconnected {
				continue
			}
			if !traceTerminal(player.Trace) {
				return nil
			}
		}
	}

	ended := &GameEndedEvent{
		Type:    eventGameEnded,
		Answer:  room.Game.Answer,
		Guesses: room.Game.Guesses,
	}
	if winner != nil {
		winner.Score++
		ended.Winner = winner.Username
	}
	room.Game = nil
	for i := range room.Players {
		if !room.Players[i].IsHost {
			room.Players[i].Ready = false
		}
	}
	ended.Players = playersPayload(room).Players
	return ended
}

func roundOutcome(result string) (game.Outcome, bool) {
	switch game.Outcome(result) {
	case game.OutcomeWin, game.OutcomeLose, game.OutcomeSurrender:
		return game.Outcome(result), true
	default:
		return "", false
	}
}

// handleDisconnect tears the connection out of its room. A host leaving
// destroys the room outright, even mid-round; everyone else is removed, or
// retained as disconnected when they have a score to keep.
func (s *Server) handleDisconnect(client *roomConn) {
	if client.roomID == "" {
		return
	}
	roomID := client.roomID
	s.hub.Remove(roomID, client.conn)

	var (
		hostLeft bool
		ended    *GameEndedEvent
	)
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		player := room.playerByConn(client.connID)
		if player == nil {
			return errNotInRoom
		}
		if player.IsHost {
			hostLeft = true
			return nil
		}
		if player.Score == 0 {
			kept := room.Players[:0]
			for _, member := range room.Players {
				if member.ConnID == client.connID {
					continue
				}
				kept = append(kept, member)
			}
			room.Players = kept
		} else {
			player.Disconnected = true
		}
		if room.Game != nil {
			ended = evaluateRoundEnd(room)
		}
		return nil
	})
	if err != nil {
		return
	}

	if hostLeft {
		s.store.DeleteRoom(roomID)
		log.Printf("room closed room_id=%s reason=host_disconnected", roomID)
		s.hub.Broadcast(roomID, NoticeEvent{Type: eventRoomClosed, Message: "Host disconnected"})
		s.hub.CloseRoom(roomID)
		return
	}
	if ended != nil {
		log.Printf("game ended room_id=%s winner=%q", room.ID, ended.Winner)
		s.hub.Broadcast(room.ID, *ended)
		s.hub.Broadcast(room.ID, NoticeEvent{Type: eventResetReady})
	}
	s.hub.Broadcast(room.ID, playersPayload(room))
}

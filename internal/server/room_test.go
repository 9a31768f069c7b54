package server

import (
	"testing"

	"character-guessr/internal/config"
	"character-guessr/internal/game"
)

func roomInGame(players ...Player) *Room {
	guesses := make(map[string][]GuessEvent, len(players))
	for _, player := range players {
		guesses[player.Username] = nil
	}
	return &Room{
		ID:       "r1",
		Settings: game.DefaultSettings(),
		Players:  players,
		Game: &CurrentGame{
			Settings: game.DefaultSettings(),
			Answer:   &game.Character{ID: 7, Name: "Hero"},
			Guesses:  guesses,
		},
	}
}

func TestEvaluateRoundEndFirstWinnerTakesRound(t *testing.T) {
	room := roomInGame(
		Player{ConnID: "c1", Username: "Ada", IsHost: true, Ready: true, Trace: []game.Outcome{game.OutcomeIncorrect, game.OutcomeWin}},
		Player{ConnID: "c2", Username: "Bob", Ready: true, Trace: []game.Outcome{game.OutcomeWin}},
	)

	ended := evaluateRoundEnd(room)
	if ended == nil {
		t.Fatal("expected the round to end")
	}
	// Player order breaks the tie.
	if ended.Winner != "Ada" {
		t.Fatalf("expected Ada to win, got %s", ended.Winner)
	}
	if room.Players[0].Score != 1 || room.Players[1].Score != 0 {
		t.Fatalf("expected only the winner scored, got %d/%d", room.Players[0].Score, room.Players[1].Score)
	}
	if ended.Answer == nil || ended.Answer.ID != 7 {
		t.Fatalf("expected plaintext answer in end event, got %#v", ended.Answer)
	}
	if room.Game != nil {
		t.Fatal("expected round state cleared")
	}
}

func TestEvaluateRoundEndWaitsForOpenPlayers(t *testing.T) {
	room := roomInGame(
		Player{ConnID: "c1", Username: "Ada", IsHost: true, Trace: []game.Outcome{game.OutcomeLose}},
		Player{ConnID: "c2", Username: "Bob", Trace: []game.Outcome{game.OutcomeIncorrect}},
	)

	if ended := evaluateRoundEnd(room); ended != nil {
		t.Fatal("round must stay open while a connected player can still win")
	}
	if room.Game == nil {
		t.Fatal("round state must survive a non-final report")
	}
}

func TestEvaluateRoundEndAllLostNoWinner(t *testing.T) {
	room := roomInGame(
		Player{ConnID: "c1", Username: "Ada", IsHost: true, Trace: []game.Outcome{game.OutcomeLose}},
		Player{ConnID: "c2", Username: "Bob", Trace: []game.Outcome{game.OutcomeSurrender}},
	)

	ended := evaluateRoundEnd(room)
	if ended == nil {
		t.Fatal("expected the round to end with no winner")
	}
	if ended.Winner != "" {
		t.Fatalf("expected no winner, got %s", ended.Winner)
	}
	if room.Players[0].Score != 0 || room.Players[1].Score != 0 {
		t.Fatal("nobody should score in a no-winner round")
	}
}

func TestEvaluateRoundEndIgnoresDisconnected(t *testing.T) {
	room := roomInGame(
		Player{ConnID: "c1", Username: "Ada", IsHost: true, Trace: []game.Outcome{game.OutcomeLose}},
		Player{ConnID: "c2", Username: "Bob", Disconnected: true, Score: 2},
	)

	ended := evaluateRoundEnd(room)
	if ended == nil {
		t.Fatal("a disconnected player must not hold a round open")
	}
	if ended.Winner != "" {
		t.Fatalf("expected no winner, got %s", ended.Winner)
	}
}

func TestEvaluateRoundEndResetsReadyForNonHosts(t *testing.T) {
	room := roomInGame(
		Player{ConnID: "c1", Username: "Ada", IsHost: true, Ready: true, Trace: []game.Outcome{game.OutcomeWin}},
		Player{ConnID: "c2", Username: "Bob", Ready: true, Trace: []game.Outcome{game.OutcomeLose}},
	)

	if ended := evaluateRoundEnd(room); ended == nil {
		t.Fatal("expected the round to end")
	}
	if !room.Players[0].Ready {
		t.Fatal("host stays ready")
	}
	if room.Players[1].Ready {
		t.Fatal("non-host ready flags reset after a round")
	}
}

func TestTimeoutIsNotTerminal(t *testing.T) {
	room := roomInGame(
		Player{ConnID: "c1", Username: "Ada", IsHost: true, Trace: []game.Outcome{game.OutcomeTimeout, game.OutcomeTimeout}},
		Player{ConnID: "c2", Username: "Bob", Trace: []game.Outcome{game.OutcomeLose}},
	)

	if ended := evaluateRoundEnd(room); ended != nil {
		t.Fatal("timeouts alone must not end the round")
	}
}

func newCoordinatorServer(t *testing.T) *Server {
	t.Helper()
	return New(nil, config.Default())
}

func TestDisconnectRemovesZeroScorePlayer(t *testing.T) {
	srv := newCoordinatorServer(t)
	if _, err := srv.store.CreateRoom("r1", "host", "Ada"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := srv.store.AddPlayer("r1", "guest", "Bob"); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	srv.handleDisconnect(&roomConn{connID: "guest", roomID: "r1"})

	room, ok := srv.store.GetRoom("r1")
	if !ok {
		t.Fatal("room must survive a guest disconnect")
	}
	if len(room.Players) != 1 || room.Players[0].Username != "Ada" {
		t.Fatalf("expected only the host to remain, got %#v", room.Players)
	}
}

func TestDisconnectRetainsScoredPlayerAndEndsRound(t *testing.T) {
	srv := newCoordinatorServer(t)
	if _, err := srv.store.CreateRoom("r1", "host", "Ada"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := srv.store.AddPlayer("r1", "guest", "Bob"); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if _, err := srv.store.UpdateRoom("r1", func(room *Room) error {
		room.Players[0].Trace = []game.Outcome{game.OutcomeLose}
		room.Players[1].Score = 2
		room.Game = &CurrentGame{
			Answer:  &game.Character{ID: 7},
			Guesses: map[string][]GuessEvent{"Ada": nil, "Bob": nil},
		}
		return nil
	}); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	// With Bob gone, no connected player can still win; the round ends.
	srv.handleDisconnect(&roomConn{connID: "guest", roomID: "r1"})

	room, _ := srv.store.GetRoom("r1")
	if len(room.Players) != 2 {
		t.Fatalf("a scored player must stay on the roster, got %d players", len(room.Players))
	}
	if !room.Players[1].Disconnected {
		t.Fatal("expected Bob marked disconnected")
	}
	if room.Players[1].Score != 2 {
		t.Fatalf("expected score retained, got %d", room.Players[1].Score)
	}
	if room.Game != nil {
		t.Fatal("expected the round to end once only done players remain")
	}
}

func TestDisconnectHostDestroysRoom(t *testing.T) {
	srv := newCoordinatorServer(t)
	if _, err := srv.store.CreateRoom("r1", "host", "Ada"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := srv.store.AddPlayer("r1", "guest", "Bob"); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	srv.handleDisconnect(&roomConn{connID: "host", roomID: "r1"})

	if _, ok := srv.store.GetRoom("r1"); ok {
		t.Fatal("host disconnect must destroy the room")
	}
	if srv.store.Count() != 0 {
		t.Fatalf("expected no rooms, got %d", srv.store.Count())
	}
}

func TestRoundOutcomeParsing(t *testing.T) {
	for _, valid := range []string{"win", "lose", "surrender"} {
		if _, ok := roundOutcome(valid); !ok {
			t.Errorf("expected %q to parse", valid)
		}
	}
	for _, invalid := range []string{"", "correct", "timeout", "banana"} {
		if _, ok := roundOutcome(invalid); ok {
			t.Errorf("expected %q to be rejected", invalid)
		}
	}
}

package server

import (
	"errors"
	"fmt"
	"testing"
)

func TestCreateRoomHostIsAlwaysReady(t *testing.T) {
	store := NewStore(10, 8)
	room, err := store.CreateRoom("r1", "c1", "Ada")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	host := room.host()
	if host == nil || !host.IsHost || !host.Ready {
		t.Fatalf("expected a ready host, got %#v", host)
	}
	if room.Private {
		t.Fatal("new rooms start public")
	}
	if room.Settings.MaxAttempts == 0 {
		t.Fatal("expected default settings on creation")
	}
}

func TestCreateRoomCapacityAndCollision(t *testing.T) {
	store := NewStore(2, 8)
	for i := 0; i < 2; i++ {
		if _, err := store.CreateRoom(fmt.Sprintf("r%d", i), "c", "Ada"); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}
	if _, err := store.CreateRoom("r9", "c", "Ada"); !errors.Is(err, errServerFull) {
		t.Fatalf("expected server full, got %v", err)
	}

	store = NewStore(10, 8)
	if _, err := store.CreateRoom("dup", "c1", "Ada"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := store.CreateRoom("dup", "c2", "Bob"); !errors.Is(err, errRoomExists) {
		t.Fatalf("expected duplicate id rejection, got %v", err)
	}
}

func TestAddPlayerRejections(t *testing.T) {
	store := NewStore(10, 2)
	if _, err := store.AddPlayer("missing", "c1", "Ada"); !errors.Is(err, errRoomNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	room, err := store.CreateRoom("r1", "host", "Ada")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := store.AddPlayer("r1", "c2", "  "); !errors.Is(err, errEmptyName) {
		t.Fatalf("expected empty name rejection, got %v", err)
	}
	if _, err := store.AddPlayer("r1", "c2", "ada"); !errors.Is(err, errNameTaken) {
		t.Fatalf("expected case-insensitive collision, got %v", err)
	}
	if _, err := store.AddPlayer("r1", "c2", "Bob"); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if _, err := store.AddPlayer("r1", "c3", "Eve"); !errors.Is(err, errRoomFull) {
		t.Fatalf("expected room full, got %v", err)
	}

	room.Private = true
	if _, err := store.AddPlayer("r1", "c4", "Mallory"); !errors.Is(err, errRoomPrivate) {
		t.Fatalf("expected private rejection, got %v", err)
	}
}

func TestAddPlayerRejectedDuringGame(t *testing.T) {
	store := NewStore(10, 8)
	room, err := store.CreateRoom("r1", "host", "Ada")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	room.Game = &CurrentGame{}
	if _, err := store.AddPlayer("r1", "c2", "Bob"); !errors.Is(err, errRoomInGame) {
		t.Fatalf("expected in-game rejection, got %v", err)
	}

	room.Game = nil
	room.Starting = true
	if _, err := store.AddPlayer("r1", "c2", "Bob"); !errors.Is(err, errRoomInGame) {
		t.Fatalf("expected starting room to reject joins, got %v", err)
	}
}

func TestDeleteRoomAndCount(t *testing.T) {
	store := NewStore(10, 8)
	if _, err := store.CreateRoom("r1", "c1", "Ada"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if store.Count() != 1 {
		t.Fatalf("expected 1 room, got %d", store.Count())
	}
	store.DeleteRoom("r1")
	if store.Count() != 0 {
		t.Fatalf("expected 0 rooms, got %d", store.Count())
	}
	if _, ok := store.GetRoom("r1"); ok {
		t.Fatal("deleted room still retrievable")
	}
}

func TestUpdateRoomErrorLeavesRoomIntact(t *testing.T) {
	store := NewStore(10, 8)
	if _, err := store.CreateRoom("r1", "c1", "Ada"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	_, err := store.UpdateRoom("r1", func(room *Room) error {
		return errHostOnly
	})
	if !errors.Is(err, errHostOnly) {
		t.Fatalf("expected update error surfaced, got %v", err)
	}
	if _, err := store.UpdateRoom("missing", func(room *Room) error { return nil }); !errors.Is(err, errRoomNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

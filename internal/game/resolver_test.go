package game

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"character-guessr/internal/bangumi"
)

func TestRandomCharacterResolvesFullCharacter(t *testing.T) {
	src := oneCharacterSource()
	resolver := NewResolver(src, nil, 1, 0)
	resolver.intn = func(n int) int { return 0 }

	settings := DefaultSettings()
	got, err := resolver.RandomCharacter(context.Background(), settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 7 || got.Name != "Hero" {
		t.Fatalf("expected character 7 Hero, got %#v", got)
	}
	if got.Gender != GenderFemale {
		t.Fatalf("expected female, got %s", got.Gender)
	}
	if got.Popularity != 1200 {
		t.Fatalf("expected popularity 1200, got %d", got.Popularity)
	}
	if got.LatestYear != 2021 || got.EarliestYear != 2021 {
		t.Fatalf("expected 2021 appearance years, got %d..%d", got.EarliestYear, got.LatestYear)
	}
}

func TestRandomCharacterRetriesThenFails(t *testing.T) {
	src := newFakeSource()
	src.failSearch = true
	resolver := NewResolver(src, nil, 3, time.Millisecond)
	resolver.intn = func(n int) int { return 0 }

	_, err := resolver.RandomCharacter(context.Background(), DefaultSettings())
	if err == nil {
		t.Fatal("expected failure after retries")
	}
	if src.searchCalls != 3 {
		t.Fatalf("expected 3 attempts, got %d", src.searchCalls)
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Fatalf("expected exhaustion error, got %v", err)
	}
}

func TestRandomCharacterRejectsCharacterWithoutAppearances(t *testing.T) {
	src := oneCharacterSource()
	// The drawn character exists but has no qualifying works.
	src.characterSubjects[7] = nil
	resolver := NewResolver(src, nil, 2, 0)
	resolver.intn = func(n int) int { return 0 }

	_, err := resolver.RandomCharacter(context.Background(), DefaultSettings())
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestRandomCharacterHonorsContextBetweenRetries(t *testing.T) {
	src := newFakeSource()
	src.failSearch = true
	resolver := NewResolver(src, nil, 5, time.Hour)
	resolver.intn = func(n int) int { return 0 }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := resolver.RandomCharacter(ctx, DefaultSettings())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestPickSubjectAddedWorks(t *testing.T) {
	src := oneCharacterSource()
	resolver := NewResolver(src, nil, 1, 0)

	settings := DefaultSettings()
	settings.TopNSubjects = 1
	settings.AddedSubjects = []WorkRef{{ID: 500}}

	// Offsets past the ranked pool map onto the added list.
	resolver.intn = func(n int) int { return n - 1 }
	id, err := resolver.pickSubject(context.Background(), settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 500 {
		t.Fatalf("expected added subject 500, got %d", id)
	}

	resolver.intn = func(n int) int { return 0 }
	id, err = resolver.pickSubject(context.Background(), settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 100 {
		t.Fatalf("expected ranked subject 100, got %d", id)
	}
}

func TestPickSubjectFromIndex(t *testing.T) {
	src := newFakeSource()
	src.index = &bangumi.Index{ID: 9, Total: 2}
	src.indexSubjects = []bangumi.SearchSubject{{ID: 201}, {ID: 202}}
	resolver := NewResolver(src, nil, 1, 0)
	resolver.intn = func(n int) int { return 1 }

	settings := DefaultSettings()
	settings.UseIndex = true
	settings.IndexID = 9

	id, err := resolver.pickSubject(context.Background(), settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 202 {
		t.Fatalf("expected index subject 202, got %d", id)
	}
}

func TestPickSubjectIndexWithAddedOverflow(t *testing.T) {
	src := newFakeSource()
	src.index = &bangumi.Index{ID: 9, Total: 1}
	src.indexSubjects = []bangumi.SearchSubject{{ID: 201}}
	resolver := NewResolver(src, nil, 1, 0)
	resolver.intn = func(n int) int { return 1 }

	settings := DefaultSettings()
	settings.UseIndex = true
	settings.IndexID = 9
	settings.AddedSubjects = []WorkRef{{ID: 700}}

	id, err := resolver.pickSubject(context.Background(), settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 700 {
		t.Fatalf("expected added subject 700, got %d", id)
	}
}

func TestPickCharacterMainOnly(t *testing.T) {
	src := oneCharacterSource()
	resolver := NewResolver(src, nil, 1, 0)
	calls := 0
	resolver.intn = func(n int) int {
		calls++
		if n != 1 {
			t.Fatalf("expected a single lead candidate, got pool of %d", n)
		}
		return 0
	}

	settings := DefaultSettings()
	id, err := resolver.pickCharacter(context.Background(), 100, settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected lead character 7, got %d", id)
	}
	if calls == 0 {
		t.Fatal("expected a uniform draw")
	}
}

func TestPickCharacterIncludesSupporting(t *testing.T) {
	src := oneCharacterSource()
	resolver := NewResolver(src, nil, 1, 0)
	resolver.intn = func(n int) int { return n - 1 }

	settings := DefaultSettings()
	settings.MainCharacterOnly = false
	id, err := resolver.pickCharacter(context.Background(), 100, settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 8 {
		t.Fatalf("expected supporting character 8, got %d", id)
	}
}

func TestAirDateRangeClampsToToday(t *testing.T) {
	got := airDateRange(2020, 9999)
	if got[0] != ">=2020-01-01" {
		t.Fatalf("unexpected lower bound %s", got[0])
	}
	today := time.Now().UTC().Format("2006-01-02")
	if got[1] != "<"+today {
		t.Fatalf("expected upper bound clamped to today, got %s", got[1])
	}
}

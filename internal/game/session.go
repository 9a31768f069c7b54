package game

import (
	"context"
	"errors"
)

type SessionState string

const (
	StateInitializing  SessionState = "initializing"
	StateAwaitingGuess SessionState = "awaiting_guess"
	StateEvaluating    SessionState = "evaluating"
	StateEnded         SessionState = "ended"
)

type Result string

const (
	ResultNone      Result = ""
	ResultWin       Result = "win"
	ResultLose      Result = "lose"
	ResultSurrender Result = "surrender"
)

var (
	ErrSessionNotReady = errors.New("session is not ready for guesses")
	ErrSessionEnded    = errors.New("session has ended")
)

// Session drives a single playthrough: initialize, evaluate guesses until a
// win/lose/surrender outcome, restart on demand. Not safe for concurrent
// use; callers serialize access (one socket goroutine per session).
type Session struct {
	resolver *Resolver
	settings Settings

	state       SessionState
	answer      *Character
	guessesLeft int
	guesses     []GuessRecord
	hints       []string
	result      Result
}

func NewSession(resolver *Resolver, settings Settings) *Session {
	return &Session{
		resolver: resolver,
		settings: settings,
		state:    StateInitializing,
	}
}

// Init draws a fresh answer and opens the session for guesses.
func (s *Session) Init(ctx context.Context) error {
	s.state = StateInitializing
	s.answer = nil
	s.guesses = nil
	s.hints = nil
	s.result = ResultNone

	answer, err := s.resolver.RandomCharacter(ctx, s.settings)
	if err != nil {
		return err
	}
	s.answer = answer
	s.guessesLeft = s.settings.MaxAttempts
	if s.settings.EnableHints {
		s.hints = SummaryHints(answer.Summary, 2)
	}
	s.state = StateAwaitingGuess
	return nil
}

// Restart returns to a fresh playthrough with new settings.
func (s *Session) Restart(ctx context.Context, settings Settings) error {
	s.settings = settings
	return s.Init(ctx)
}

// Guess evaluates one guessed character. The attempt is consumed before
// correctness is evaluated; a failed lookup consumes nothing. A correct
// guess wins regardless of remaining attempts, and the final losing guess
// still yields full feedback.
func (s *Session) Guess(ctx context.Context, characterID int) (*GuessRecord, error) {
	if s.state != StateAwaitingGuess {
		if s.state == StateEnded {
			return nil, ErrSessionEnded
		}
		return nil, ErrSessionNotReady
	}
	s.state = StateEvaluating
	guess, err := s.resolver.CharacterByID(ctx, characterID, s.settings)
	if err != nil {
		s.state = StateAwaitingGuess
		return nil, err
	}

	s.guessesLeft--
	record := GuessRecord{
		Index:     len(s.guesses) + 1,
		Character: *guess,
		Feedback:  Compare(guess, s.answer),
		IsAnswer:  guess.ID == s.answer.ID,
	}
	s.guesses = append(s.guesses, record)

	switch {
	case record.IsAnswer:
		s.state = StateEnded
		s.result = ResultWin
	case s.guessesLeft <= 0:
		s.state = StateEnded
		s.result = ResultLose
	default:
		s.state = StateAwaitingGuess
	}
	return &record, nil
}

// TimeExpired consumes an attempt exactly as a guess would. Expiry during
// an in-flight evaluation is ignored so a racing manual guess cannot be
// double-counted.
func (s *Session) TimeExpired() bool {
	if s.state != StateAwaitingGuess {
		return false
	}
	s.guessesLeft--
	if s.guessesLeft <= 0 {
		s.state = StateEnded
		s.result = ResultLose
	}
	return true
}

// Surrender ends the round immediately. No-op once the session has ended.
func (s *Session) Surrender() {
	if s.state == StateEnded {
		return
	}
	s.state = StateEnded
	s.result = ResultSurrender
}

func (s *Session) State() SessionState { return s.state }
func (s *Session) Result() Result      { return s.result }
func (s *Session) Answer() *Character  { return s.answer }
func (s *Session) GuessesLeft() int    { return s.guessesLeft }
func (s *Session) Hints() []string     { return s.hints }
func (s *Session) Guesses() []GuessRecord {
	return s.guesses
}

// internal/game/session.go
//
// Round state machine for a single game session.
// Responsibilities:
//   - Create sessions whose current guess starts at the solution's first letter.
//   - Apply key presses (letters, Backspace, Enter).
//   - Validate submitted guesses (length, already tried, dictionary).
//   - Track state transitions: playing → won/lost.
//
// The first letter of the current guess is fixed and can never be removed.
// Scoring itself lives in engine.go; this file only decides which outcome
// applies and keeps the guess history.

package game

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxTries is the number of rows on the board.
const DefaultMaxTries = 6

// Status is the coarse state of a session.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Outcome tells the caller what a key press or submit did.
type Outcome string

const (
	OutcomeTyped           Outcome = "typed"
	OutcomeIgnored         Outcome = "ignored"
	OutcomeTooShort        Outcome = "tooShort"
	OutcomeAlreadyTried    Outcome = "alreadyTried"
	OutcomeNotInDictionary Outcome = "notInDictionary"
	OutcomeAccepted        Outcome = "accepted"
	OutcomeWon             Outcome = "won"
	OutcomeLost            Outcome = "lost"
	OutcomeGameOver        Outcome = "gameOver"
)

// Key names understood by Press besides single letters.
const (
	KeyEnter     = "Enter"
	KeyBackspace = "Backspace"
)

// ErrInvalidGuess is returned by SetGuess for guesses that cannot be typed.
var ErrInvalidGuess = errors.New("invalid guess")

// Session holds the state of one game.
type Session struct {
	ID          string    // Unique session identifier (UUID).
	ChallengeID string    // Challenge the solution came from (date or index).
	Solution    string    // Lowercase solution word.
	MaxTries    int       // Number of guesses allowed.
	Previous    []string  // Submitted guesses, in order.
	Current     string    // Guess being typed; starts as the first letter.
	Status      Status    // playing | won | lost
	StartedAt   time.Time // Creation time (UTC).
}

// NewSession starts a session for solution.
// maxTries <= 0 selects DefaultMaxTries.
func NewSession(challengeID, solution string, maxTries int) *Session {
	solution = strings.ToLower(strings.TrimSpace(solution))
	if maxTries <= 0 {
		maxTries = DefaultMaxTries
	}
	return &Session{
		ID:          uuid.NewString(),
		ChallengeID: challengeID,
		Solution:    solution,
		MaxTries:    maxTries,
		Previous:    []string{},
		Current:     firstLetter(solution),
		Status:      StatusPlaying,
		StartedAt:   time.Now().UTC(),
	}
}

// Finished reports whether the session reached won or lost.
func (s *Session) Finished() bool { return s.Status != StatusPlaying }

// Press applies one key: a letter, KeyBackspace or KeyEnter.
// isWord is consulted on Enter only.
func (s *Session) Press(key string, isWord func(string) bool) Outcome {
	switch key {
	case KeyEnter:
		return s.Submit(isWord)
	case KeyBackspace:
		return s.Backspace()
	}
	return s.Type(key)
}

// Type appends a letter while there are remaining cells.
func (s *Session) Type(letter string) Outcome {
	if s.Finished() {
		return OutcomeGameOver
	}
	letter = strings.ToLower(letter)
	if len(letter) != 1 || !isAlpha(letter) || len(s.Current) >= len(s.Solution) {
		return OutcomeIgnored
	}
	s.Current += letter
	return OutcomeTyped
}

// Backspace removes the last letter, never the first one.
func (s *Session) Backspace() Outcome {
	if s.Finished() {
		return OutcomeGameOver
	}
	if len(s.Current) <= 1 {
		return OutcomeIgnored
	}
	s.Current = s.Current[:len(s.Current)-1]
	return OutcomeTyped
}

// SetGuess replaces the current guess with a whole word.
// The guess must be alphabetic, fit the board and keep the first letter.
func (s *Session) SetGuess(guess string) error {
	if s.Finished() {
		return errors.New("game finished")
	}
	guess = strings.ToLower(strings.TrimSpace(guess))
	if guess == "" || len(guess) > len(s.Solution) || !isAlpha(guess) || guess[0] != s.Solution[0] {
		return ErrInvalidGuess
	}
	s.Current = guess
	return nil
}

// Submit validates the current guess and, if accepted, records it.
//
// Checks, in order:
//   - fewer letters than the solution → OutcomeTooShort
//   - already submitted               → OutcomeAlreadyTried
//   - not a word (solution exempt)    → OutcomeNotInDictionary
//
// Then: the solution wins; reaching MaxTries loses; otherwise the guess
// resets to the first letter for the next round.
func (s *Session) Submit(isWord func(string) bool) Outcome {
	if s.Finished() {
		return OutcomeGameOver
	}
	guess := s.Current
	if len(guess) < len(s.Solution) {
		return OutcomeTooShort
	}
	for _, p := range s.Previous {
		if p == guess {
			return OutcomeAlreadyTried
		}
	}
	if guess != s.Solution && (isWord == nil || !isWord(guess)) {
		return OutcomeNotInDictionary
	}

	s.Previous = append(s.Previous, guess)
	switch {
	case guess == s.Solution:
		s.Status, s.Current = StatusWon, ""
		return OutcomeWon
	case len(s.Previous) >= s.MaxTries:
		s.Status, s.Current = StatusLost, ""
		return OutcomeLost
	}
	s.Current = firstLetter(s.Solution)
	return OutcomeAccepted
}

// Board is a render-ready snapshot of a session.
type Board struct {
	Content  []string      `json:"content"`
	State    [][]CellState `json:"state"`
	Keyboard Keyboard      `json:"keyboard"`
}

// Board evaluates the session's guesses against its solution.
func (s *Session) Board() Board {
	return Board{
		Content:  BoardContent(s.Previous, s.Current, s.Solution),
		State:    BoardState(s.Previous, s.Current, s.Solution),
		Keyboard: KeyboardState(s.Previous, s.Solution),
	}
}

func firstLetter(s string) string {
	if s == "" {
		return ""
	}
	return s[:1]
}

// isAlpha checks that a string consists only of lowercase a–z.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

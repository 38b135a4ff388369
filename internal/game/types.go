// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - Tag: display classification of one board cell.
//   - CellState: a Tag plus the orthogonal hint marker.
//   - Keyboard: best Tag seen per letter.

package game

import "fmt"

// Tag is the display classification of one board cell.
//
// Completed guesses use Correct, Present and Absent:
//   - "correct": letter is in the solution at this position.
//   - "present": letter is in the solution at another position.
//   - "absent":  letter is not in the solution (or all its copies are used).
//
// The guess being typed uses cursor-relative tags instead.
type Tag uint8

const (
	TagNone Tag = iota
	Correct
	Present
	Absent
	BeforeCursor
	AtCursor
	AfterCursor
)

var tagNames = [...]string{
	TagNone:      "",
	Correct:      "correct",
	Present:      "present",
	Absent:       "absent",
	BeforeCursor: "before-cursor",
	AtCursor:     "at-cursor",
	AfterCursor:  "after-cursor",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}

// MarshalText renders the tag name, so tags encode as JSON strings.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// rank orders completed-guess tags: correct > present > absent.
func (t Tag) rank() int {
	switch t {
	case Correct:
		return 3
	case Present:
		return 2
	case Absent:
		return 1
	}
	return 0
}

// CellState is the state of one board cell.
// Hint is only ever set on cursor tags at or after the cursor.
type CellState struct {
	Base Tag
	Hint bool
}

// String renders the state the way the board styles it, e.g. "after-cursor hint".
func (c CellState) String() string {
	if c.Hint {
		return c.Base.String() + " hint"
	}
	return c.Base.String()
}

// MarshalText encodes the cell as its String form.
func (c CellState) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Keyboard maps a letter to the best Tag it received across guesses.
// Letters never guessed have no entry.
type Keyboard map[string]Tag

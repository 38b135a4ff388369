// internal/game/engine.go
//
// Guess evaluation for one challenge.
// Responsibilities:
//   - Score submitted guesses using the two‑pass algorithm.
//   - Derive cursor-relative states for the guess being typed, with hints.
//   - Build the board rows and the keyboard summary.
//
// Every function here is pure: results depend only on the arguments and
// no state is kept between calls. Guesses shorter or longer than the
// solution are tolerated.

package game

import "strings"

// Hint returns, for each solution position, the solution letter if some
// guess already has it at that position, or a space otherwise. Trailing
// spaces are trimmed.
func Hint(guesses []string, solution string) string {
	b := make([]byte, len(solution))
	for j := range b {
		b[j] = ' '
		if foundAt(guesses, solution, j) {
			b[j] = solution[j]
		}
	}
	return strings.TrimRight(string(b), " ")
}

// ScoreCompletedGuess scores a submitted guess, one state per guess letter.
//
// Pass 1:
//   - Mark exact matches as Correct.
//   - Count remaining (non‑correct) solution letters.
//
// Pass 2:
//   - Left to right over the other guess letters: if the letter still has
//     budget, mark Present and decrement; otherwise mark Absent.
//
// The shared left-to-right budget is what makes repeated letters score
// correctly.
func ScoreCompletedGuess(guess, solution string) []CellState {
	res := make([]CellState, len(guess))

	// Budget per byte for the non‑correct positions.
	var budget [256]int

	for i := 0; i < len(solution); i++ {
		if i < len(guess) && guess[i] == solution[i] {
			continue
		}
		budget[solution[i]]++
	}

	for i := 0; i < len(guess); i++ {
		c := guess[i]
		switch {
		case i < len(solution) && c == solution[i]:
			res[i].Base = Correct
		case budget[c] > 0:
			res[i].Base = Present
			budget[c]--
		default:
			res[i].Base = Absent
		}
	}
	return res
}

// ScoreInProgressGuess returns cursor-relative states for the guess being
// typed, one per solution position. Hints are only computed while the
// guess holds the fixed first letter alone: a cell after the cursor is
// marked as a hint when some guess (current one included) already found
// the solution letter there.
func ScoreInProgressGuess(previous []string, current, solution string) []CellState {
	n := len(current)
	if n == 0 {
		return []CellState{}
	}

	var guesses []string
	if n == 1 {
		guesses = withCurrent(previous, current)
	}

	res := make([]CellState, len(solution))
	for i := range res {
		switch {
		case i < n:
			res[i].Base = BeforeCursor
			continue
		case i == n:
			res[i].Base = AtCursor
		default:
			res[i].Base = AfterCursor
		}
		res[i].Hint = n == 1 && foundAt(guesses, solution, i)
	}
	return res
}

// BoardContent returns the letters shown on each board row: previous
// guesses, then the current guess (or the hint row while only the first
// letter is typed).
func BoardContent(previous []string, current, solution string) []string {
	out := make([]string, 0, len(previous)+1)
	out = append(out, previous...)
	if len(current) == 1 {
		return append(out, Hint(withCurrent(previous, current), solution))
	}
	return append(out, current)
}

// BoardState returns the cell states matching BoardContent.
func BoardState(previous []string, current, solution string) [][]CellState {
	out := make([][]CellState, 0, len(previous)+1)
	for _, g := range previous {
		out = append(out, ScoreCompletedGuess(g, solution))
	}
	return append(out, ScoreInProgressGuess(previous, current, solution))
}

// KeyboardState folds every previous guess into the best state per letter.
// A letter seen as Correct once never goes back to Present or Absent.
func KeyboardState(previous []string, solution string) Keyboard {
	kb := Keyboard{}
	for _, g := range previous {
		for i, st := range ScoreCompletedGuess(g, solution) {
			letter := g[i : i+1]
			if st.Base.rank() > kb[letter].rank() {
				kb[letter] = st.Base
			}
		}
	}
	return kb
}

// foundAt reports whether any guess has the solution letter at position j.
func foundAt(guesses []string, solution string, j int) bool {
	for _, g := range guesses {
		if j < len(g) && g[j] == solution[j] {
			return true
		}
	}
	return false
}

// withCurrent appends current to a copy of previous.
func withCurrent(previous []string, current string) []string {
	out := make([]string, 0, len(previous)+1)
	out = append(out, previous...)
	return append(out, current)
}

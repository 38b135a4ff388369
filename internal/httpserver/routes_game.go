// internal/httpserver/routes_game.go
//
// Game endpoints:
//   - POST /game/new    → start a session on a random or named challenge
//   - POST /game/key    → apply one key press (letter, Backspace, Enter)
//   - POST /game/guess  → type a whole word and submit it
//   - GET  /game/{id}   → current board
//
// Every move answers with the full board (content, cell states, keyboard)
// so the client only renders. The solution is revealed once the game ends.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/motus/internal/dictionary"
	"github.com/robalobadob/motus/internal/game"
	"github.com/robalobadob/motus/internal/words"
)

// newGameReq is the payload for POST /game/new.
type newGameReq struct {
	Mode string `json:"mode"` // "random" (default) | "daily" | "id"
	ID   string `json:"id"`   // challenge ID when mode is "id"
}

// boardRes is returned by every game endpoint.
type boardRes struct {
	GameID   string       `json:"gameId"`
	Outcome  game.Outcome `json:"outcome,omitempty"`
	Status   game.Status  `json:"status"`
	Length   int          `json:"length"`
	First    string       `json:"first"`
	Tries    int          `json:"tries"`
	Board    game.Board   `json:"board"`
	Solution string       `json:"solution,omitempty"`
}

func newBoardRes(sess *game.Session, outcome game.Outcome) boardRes {
	res := boardRes{
		GameID:  sess.ID,
		Outcome: outcome,
		Status:  sess.Status,
		Length:  len(sess.Solution),
		First:   sess.Solution[:1],
		Tries:   sess.MaxTries,
		Board:   sess.Board(),
	}
	if sess.Finished() {
		res.Solution = sess.Solution
	}
	return res
}

// handleNewGame picks a challenge, preloads its dictionary partition and
// stores a fresh session.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	var (
		id, solution string
		err          error
	)
	switch req.Mode {
	case "", "random":
		req.Mode = "random"
		id, solution, err = s.lib.RandomChallenge(r.Context())
	case "daily":
		s.daily.start(w, r)
		return
	case "id":
		id = req.ID
		solution, err = s.lib.Challenge(r.Context(), id)
	default:
		jsonError(w, http.StatusBadRequest, "invalid_mode")
		return
	}
	if err != nil {
		writeChallengeError(w, err)
		return
	}

	sess, err := s.startSession(r.Context(), id, solution)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "dictionary_unavailable")
		return
	}
	s.recordGame(w, r, sess, req.Mode)
	_ = json.NewEncoder(w).Encode(newBoardRes(sess, ""))
}

// startSession builds and stores a session once the solution's dictionary
// partition is loaded, so later submits never wait on I/O.
func (s *Server) startSession(ctx context.Context, challengeID, solution string) (*game.Session, error) {
	k, _ := dictionary.KeyOf(solution)
	if _, err := s.lib.Partition(ctx, k); err != nil {
		log.Error().Err(err).Str("key", k.String()).Str("challenge", challengeID).Msg("load dictionary")
		return nil, err
	}
	sess := game.NewSession(challengeID, solution, s.maxTries)
	if err := s.store.Save(ctx, sess); err != nil {
		log.Error().Err(err).Msg("save session")
		return nil, err
	}
	return sess, nil
}

// keyReq is the payload for POST /game/key.
type keyReq struct {
	GameID string `json:"gameId"`
	Key    string `json:"key"`
}

// handleKey applies one key press.
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req keyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.move(w, r, req.GameID, func(sess *game.Session) (game.Outcome, error) {
		return sess.Press(req.Key, s.isWord(r.Context())), nil
	})
}

// guessReq is the payload for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

// handleGuess types a whole word into the current row and submits it.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.move(w, r, req.GameID, func(sess *game.Session) (game.Outcome, error) {
		if sess.Finished() {
			return game.OutcomeGameOver, nil
		}
		if err := sess.SetGuess(req.Guess); err != nil {
			return "", err
		}
		return sess.Submit(s.isWord(r.Context())), nil
	})
}

// handleGetGame returns the board without changing it.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, http.StatusNotFound, "not_found")
		return
	}
	s.playMu.Lock()
	res := newBoardRes(sess, "")
	s.playMu.Unlock()
	_ = json.NewEncoder(w).Encode(res)
}

// move loads a session, applies fn under playMu, persists the result and
// writes the board.
func (s *Server) move(w http.ResponseWriter, r *http.Request, gameID string, fn func(*game.Session) (game.Outcome, error)) {
	sess, err := s.store.Get(r.Context(), gameID)
	if err != nil {
		jsonError(w, http.StatusNotFound, "not_found")
		return
	}

	s.playMu.Lock()
	outcome, err := fn(sess)
	if err != nil {
		s.playMu.Unlock()
		jsonError(w, http.StatusBadRequest, "invalid_guess")
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		s.playMu.Unlock()
		jsonError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	res := newBoardRes(sess, outcome)
	m := moveResult{
		GameID:      sess.ID,
		ChallengeID: sess.ChallengeID,
		Status:      sess.Status,
		Guesses:     len(sess.Previous),
		Outcome:     outcome,
	}
	s.playMu.Unlock()

	switch outcome {
	case game.OutcomeAccepted, game.OutcomeWon, game.OutcomeLost:
		s.persistMove(r.Context(), userFrom(r), m)
	}
	_ = json.NewEncoder(w).Encode(res)
}

// isWord adapts the library to the session's dictionary predicate.
// Lookup failures count as unknown words.
func (s *Server) isWord(ctx context.Context) func(string) bool {
	return func(word string) bool {
		ok, err := s.lib.IsWord(ctx, word)
		if err != nil {
			log.Warn().Err(err).Str("word", word).Msg("dictionary lookup")
			return false
		}
		return ok
	}
}

// recordGame inserts the games row owning this session (user or anonymous).
// Best effort: the game is playable even if the write fails.
func (s *Server) recordGame(w http.ResponseWriter, r *http.Request, sess *game.Session, mode string) {
	now := sess.StartedAt.Format(time.RFC3339)
	if me := userFrom(r); me != nil {
		_, err := s.db.ExecContext(r.Context(), `INSERT INTO games (id, user_id, challenge_id, mode, started_at, status, guesses)
		                     VALUES (?,?,?,?,?,?,0)`, sess.ID, me.ID, sess.ChallengeID, mode, now, string(sess.Status))
		if err != nil {
			log.Warn().Err(err).Str("gameId", sess.ID).Msg("insert user game row")
		}
		return
	}
	anon := s.ensureAnonID(w, r)
	_, err := s.db.ExecContext(r.Context(), `INSERT INTO games (id, anonymous_id, challenge_id, mode, started_at, status, guesses)
	                     VALUES (?,?,?,?,?,?,0)`, sess.ID, anon, sess.ChallengeID, mode, now, string(sess.Status))
	if err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("insert anon game row")
	}
}

// moveResult is a copy of the session fields persisted after a move,
// taken while playMu is held.
type moveResult struct {
	GameID      string
	ChallengeID string
	Status      game.Status
	Guesses     int
	Outcome     game.Outcome
}

func (m moveResult) finished() bool { return m.Status != game.StatusPlaying }

// persistMove bumps counters for an accepted guess and, when the game ends,
// records the final status, user stats and daily result (best effort).
func (s *Server) persistMove(ctx context.Context, me *authUser, m moveResult) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE games SET guesses = guesses + 1 WHERE id=?`, m.GameID); err != nil {
		log.Warn().Err(err).Msg("update guesses")
	}
	if m.finished() {
		if _, err := tx.ExecContext(ctx, `UPDATE games SET status=?, finished_at=? WHERE id=?`,
			string(m.Status), s.now().UTC().Format(time.RFC3339), m.GameID); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
		if me != nil {
			if err := bumpStats(ctx, tx, me.ID, m.Outcome == game.OutcomeWon); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit move")
	}

	if m.Outcome == game.OutcomeWon {
		s.daily.recordWin(ctx, m)
	}
}

// writeChallengeError maps library errors to HTTP statuses.
func writeChallengeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, words.ErrInvalidChallenge):
		jsonError(w, http.StatusBadRequest, "invalid_challenge")
	case errors.Is(err, fs.ErrNotExist):
		jsonError(w, http.StatusNotFound, "challenge_not_found")
	default:
		log.Error().Err(err).Msg("load challenge")
		jsonError(w, http.StatusInternalServerError, "challenge_unavailable")
	}
}

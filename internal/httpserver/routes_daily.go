// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily challenge.
//   - POST /daily/new         → start (or resume) today's game
//   - GET  /daily/leaderboard → fastest wins for today (or ?date=YYYY-MM-DD)
//
// A daily game is an ordinary session played through /game/key and
// /game/guess. Each player gets one result per day: the DB row is written
// on win and later /daily/new calls report played=true. In-progress daily
// sessions are tracked in memory by player and date.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/motus/internal/daily"
	"github.com/robalobadob/motus/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv   *Server
	store *daily.Store
	salt  string

	mu       sync.Mutex
	sessions map[string]*dailyEntry // keyed by playerID|date
	byGame   map[string]*dailyEntry // keyed by game session ID
}

// dailyEntry links a game session to the player and date it counts for.
type dailyEntry struct {
	GameID   string
	PlayerID string
	Date     string
	Start    time.Time
}

// mountDaily registers the /daily routes on r.
func (s *Server) mountDaily(r chi.Router, salt string) {
	if salt == "" {
		salt = "local_dev_salt"
	}
	s.daily = &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     salt,
		sessions: make(map[string]*dailyEntry),
		byGame:   make(map[string]*dailyEntry),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.daily.handleNew)
		r.Get("/leaderboard", s.daily.handleLeaderboard)
	})
}

// playerID is the signed-in user ID, or the anonymous cookie for guests.
func (d *dailyServer) playerID(w http.ResponseWriter, r *http.Request) string {
	if me := userFrom(r); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// dailyRes is returned by /daily/new and by /game/new in daily mode.
type dailyRes struct {
	Date   string `json:"date"`
	Played bool   `json:"played"`
	*boardRes
}

func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	d.start(w, r)
}

// start resumes the caller's daily session for today, or creates one.
func (d *dailyServer) start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pid := d.playerID(w, r)
	now := d.srv.now()
	date := daily.DateKey(now)

	played, err := d.store.AlreadyPlayed(ctx, pid, date)
	if err != nil {
		log.Error().Err(err).Msg("daily already played")
		jsonError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if played {
		_ = json.NewEncoder(w).Encode(dailyRes{Date: date, Played: true})
		return
	}

	if sess := d.resume(ctx, pid, date); sess != nil {
		d.srv.playMu.Lock()
		res := newBoardRes(sess, "")
		d.srv.playMu.Unlock()
		_ = json.NewEncoder(w).Encode(dailyRes{Date: date, boardRes: &res})
		return
	}

	id, solution, err := daily.Pick(ctx, d.srv.lib, now, d.salt)
	if err != nil {
		writeChallengeError(w, err)
		return
	}
	sess, err := d.srv.startSession(ctx, id, solution)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "dictionary_unavailable")
		return
	}
	e := &dailyEntry{GameID: sess.ID, PlayerID: pid, Date: date, Start: now}
	d.mu.Lock()
	d.sessions[pid+"|"+date] = e
	d.byGame[sess.ID] = e
	d.mu.Unlock()
	d.srv.recordGame(w, r, sess, "daily")

	res := newBoardRes(sess, "")
	_ = json.NewEncoder(w).Encode(dailyRes{Date: date, boardRes: &res})
}

// resume returns the player's unfinished session for date, if still stored.
func (d *dailyServer) resume(ctx context.Context, pid, date string) *game.Session {
	d.mu.Lock()
	e, ok := d.sessions[pid+"|"+date]
	d.mu.Unlock()
	if !ok {
		return nil
	}
	sess, err := d.srv.store.Get(ctx, e.GameID)
	if err != nil {
		log.Warn().Err(err).Str("gameId", e.GameID).Msg("daily session gone")
		d.forget(e)
		return nil
	}
	return sess
}

func (d *dailyServer) forget(e *dailyEntry) {
	d.mu.Lock()
	delete(d.sessions, e.PlayerID+"|"+e.Date)
	delete(d.byGame, e.GameID)
	d.mu.Unlock()
}

// recordWin stores the daily result when m belongs to a daily session.
// Lost daily games keep their entry so /daily/new resumes the finished board.
func (d *dailyServer) recordWin(ctx context.Context, m moveResult) {
	d.mu.Lock()
	e, ok := d.byGame[m.GameID]
	d.mu.Unlock()
	if !ok {
		return
	}
	err := d.store.InsertResult(ctx, daily.Result{
		UserID:      e.PlayerID,
		Date:        e.Date,
		ChallengeID: m.ChallengeID,
		Guesses:     m.Guesses,
		ElapsedMs:   int(d.srv.now().Sub(e.Start).Milliseconds()),
	})
	if err != nil {
		log.Warn().Err(err).Str("gameId", m.GameID).Msg("insert daily result")
		return
	}
	d.forget(e)
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for ?date= (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		jsonError(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}

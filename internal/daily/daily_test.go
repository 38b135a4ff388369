package daily

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/motus/assets"
	"github.com/robalobadob/motus/internal/database"
)

type fakeChallenges map[string]string

func (f fakeChallenges) Challenge(ctx context.Context, id string) (string, error) {
	if s, ok := f[id]; ok {
		return s, nil
	}
	return "", fs.ErrNotExist
}

func (f fakeChallenges) ChallengeCount(ctx context.Context) (int, error) {
	n := 0
	for id := range f {
		if len(id) < 3 {
			n++
		}
	}
	return n, nil
}

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	assert.Equal(t, "2026-10-15", DateKey(time.Date(2026, 10, 16, 5, 0, 0, 0, loc)))
}

func TestWordIndex(t *testing.T) {
	day := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	a := WordIndex(day, "salt", 100)
	assert.Equal(t, a, WordIndex(day.Add(time.Hour), "salt", 100), "same day, same index")
	assert.GreaterOrEqual(t, a, 0)
	assert.Less(t, a, 100)
	assert.Equal(t, 0, WordIndex(day, "salt", 0))
}

func TestPick(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	c := fakeChallenges{"1": "maison", "2": "cheval", "3": "soleil", "2026-10-16": "mouton"}

	id, solution, err := Pick(ctx, c, day, "salt")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-16", id, "dated challenge wins")
	assert.Equal(t, "mouton", solution)

	next := day.AddDate(0, 0, 1)
	id, solution, err = Pick(ctx, c, next, "salt")
	require.NoError(t, err)
	assert.Contains(t, []string{"1", "2", "3"}, id)
	assert.Equal(t, c[id], solution)

	id2, _, err := Pick(ctx, c, next, "salt")
	require.NoError(t, err)
	assert.Equal(t, id, id2, "deterministic for a given date")

	_, _, err = Pick(ctx, fakeChallenges{}, next, "salt")
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()
	migrations, err := assets.Migrations()
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, migrations))

	st := NewStore(db)
	played, err := st.AlreadyPlayed(ctx, "u1", "2026-10-16")
	require.NoError(t, err)
	assert.False(t, played)

	require.NoError(t, st.InsertResult(ctx, Result{UserID: "u1", Date: "2026-10-16", ChallengeID: "3", Guesses: 4, ElapsedMs: 9000}))
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "u2", Date: "2026-10-16", ChallengeID: "3", Guesses: 2, ElapsedMs: 5000}))
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "u1", Date: "2026-10-16", ChallengeID: "3", Guesses: 1, ElapsedMs: 1}), "duplicate ignored")

	played, err = st.AlreadyPlayed(ctx, "u1", "2026-10-16")
	require.NoError(t, err)
	assert.True(t, played)

	rows, err := st.Leaderboard(ctx, "2026-10-16", 0)
	require.NoError(t, err)
	assert.Equal(t, []LBRow{
		{UserID: "u2", Guesses: 2, ElapsedMs: 5000},
		{UserID: "u1", Guesses: 4, ElapsedMs: 9000},
	}, rows)
}

package words

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/motus/internal/dictionary"
)

func compress(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedFastest))
	require.NoError(t, err)
	_, err = w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func testFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"dictionary/6m.txt":        {Data: []byte("maison\nrron\nouton\n")},
		"dictionary/6p.txt.zst":    {Data: compress(t, "poison\r\nmmes")},
		"challenge/1.txt":          {Data: []byte("  MAISON\n")},
		"challenge/2.txt":          {Data: []byte("pommes")},
		"challenge/bad.txt":        {Data: []byte("   \n")},
		"challenge/2026-10-16.txt": {Data: []byte("mouton")},
		"challenge-count.txt":      {Data: []byte("2\n")},
	}
}

// countingSource counts Open calls.
type countingSource struct {
	Source
	opens atomic.Int32
}

func (c *countingSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	c.opens.Add(1)
	return c.Source.Open(ctx, name)
}

func TestDictionary(t *testing.T) {
	lib := NewLibrary(FSSource{FS: testFS(t)})
	ctx := context.Background()

	set, err := lib.Dictionary(ctx, "6m")
	require.NoError(t, err)
	assert.Equal(t, []string{"maison", "marron", "mouton"}, set.Words())

	set, err = lib.Dictionary(ctx, "6p")
	require.NoError(t, err, "compressed partitions are decoded transparently")
	assert.Equal(t, []string{"poison", "pommes"}, set.Words())

	_, err = lib.Dictionary(ctx, "6")
	assert.ErrorIs(t, err, dictionary.ErrInvalidKey)

	_, err = lib.Dictionary(ctx, "6z")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	partitions, words := lib.Stats()
	assert.Equal(t, 2, partitions)
	assert.Equal(t, 5, words)
}

func TestDictionaryDecodedOnce(t *testing.T) {
	src := &countingSource{Source: FSSource{FS: testFS(t)}}
	lib := NewLibrary(src)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			set, err := lib.Dictionary(context.Background(), "6m")
			assert.NoError(t, err)
			assert.Equal(t, 3, set.Len())
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), src.opens.Load())
}

// gatedSource blocks every Open until gate is closed, signalling started first.
type gatedSource struct {
	Source
	started chan struct{}
	gate    chan struct{}
	opens   atomic.Int32
}

func (g *gatedSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	g.opens.Add(1)
	g.started <- struct{}{}
	<-g.gate
	return g.Source.Open(ctx, name)
}

func TestCancelledCallerDoesNotFailOthers(t *testing.T) {
	src := &gatedSource{
		Source:  FSSource{FS: testFS(t)},
		started: make(chan struct{}, 1),
		gate:    make(chan struct{}),
	}
	lib := NewLibrary(src)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := lib.Dictionary(ctx, "6m")
		firstErr <- err
	}()
	<-src.started

	waiter := make(chan error, 1)
	var got dictionary.Set
	go func() {
		set, err := lib.Dictionary(context.Background(), "6m")
		got = set
		waiter <- err
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(src.gate)
	require.NoError(t, <-waiter)
	assert.Equal(t, 3, got.Len())
	assert.Equal(t, int32(1), src.opens.Load())
}

func TestFailedLoadIsRetried(t *testing.T) {
	fsys := testFS(t)
	src := &countingSource{Source: FSSource{FS: fsys}}
	lib := NewLibrary(src)
	ctx := context.Background()

	_, err := lib.Dictionary(ctx, "7m")
	require.ErrorIs(t, err, fs.ErrNotExist)

	fsys["dictionary/7m.txt"] = &fstest.MapFile{Data: []byte("matelas")}
	set, err := lib.Dictionary(ctx, "7m")
	require.NoError(t, err)
	assert.True(t, set.Has("matelas"))
}

func TestIsWord(t *testing.T) {
	lib := NewLibrary(FSSource{FS: testFS(t)})
	ctx := context.Background()

	tests := []struct {
		word string
		want bool
	}{
		{"marron", true},
		{"MOUTON", true},
		{"pommes", true},
		{"mangue", false},
		{"zebres", false}, // no partition
		{"", false},
		{"1abc", false},
	}
	for _, tt := range tests {
		got, err := lib.IsWord(ctx, tt.word)
		require.NoError(t, err, tt.word)
		assert.Equal(t, tt.want, got, tt.word)
	}
}

func TestChallenges(t *testing.T) {
	lib := NewLibrary(FSSource{FS: testFS(t)})
	ctx := context.Background()

	got, err := lib.Challenge(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "maison", got)

	got, err = lib.Challenge(ctx, "2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, "mouton", got)

	_, err = lib.Challenge(ctx, "../challenge-count")
	assert.ErrorIs(t, err, ErrInvalidChallenge)

	_, err = lib.Challenge(ctx, "bad")
	assert.ErrorIs(t, err, ErrInvalidChallenge)

	_, err = lib.Challenge(ctx, "99")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	n, err := lib.ChallengeCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for i := 0; i < 10; i++ {
		id, solution, err := lib.RandomChallenge(ctx)
		require.NoError(t, err)
		assert.Contains(t, []string{"1", "2"}, id)
		assert.Contains(t, []string{"maison", "pommes"}, solution)
	}
}

func TestEmbeddedDefaults(t *testing.T) {
	t.Setenv("WORDS_DIR", "")
	src, err := SourceFromEnv()
	require.NoError(t, err)
	lib := NewLibrary(src)
	ctx := context.Background()

	n, err := lib.ChallengeCount(ctx)
	require.NoError(t, err)
	require.Positive(t, n)

	// every numbered challenge must be playable: its solution is in its partition
	for i := 1; i <= n; i++ {
		solution, err := lib.Challenge(ctx, strconv.Itoa(i))
		require.NoError(t, err)
		ok, err := lib.IsWord(ctx, solution)
		require.NoError(t, err)
		assert.True(t, ok, "challenge %d (%s) missing from its dictionary", i, solution)
	}
}

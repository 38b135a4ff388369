// internal/words/words.go
//
// Word library for the game server.
//
// Responsibilities:
//   - Load dictionary partitions ("<length><letter>") through a Source and
//     decode them with the front-coding decoder.
//   - Cache decoded partitions; each key is decoded at most once at a time,
//     independently of the callers waiting for it.
//   - Read challenges: solutions by ID, the challenge count, random picks.
//
// File layout (same for the embedded defaults and WORDS_DIR):
//
//	dictionary/{length}{letter}.txt   front-coded word partition
//	challenge/{id}.txt                solution of challenge {id}
//	challenge-count.txt               number of numbered challenges
//
// Any file may instead be stored as "<name>.zst".

package words

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/motus/internal/dictionary"
)

// ErrInvalidChallenge is returned for malformed challenge IDs or bodies.
var ErrInvalidChallenge = errors.New("words: invalid challenge")

var challengeIDPattern = regexp.MustCompile(`^[0-9a-z-]+$`)

// maxChallengeSize bounds challenge and count files.
const maxChallengeSize = 1024

// Library loads and caches dictionary partitions and challenges.
type Library struct {
	src Source

	mu    sync.Mutex
	dicts map[dictionary.Key]*partition
}

// partition is a cache slot; done is closed once set/err are final.
type partition struct {
	done chan struct{}
	set  dictionary.Set
	err  error
}

// NewLibrary constructs a Library on top of src.
func NewLibrary(src Source) *Library {
	return &Library{src: src, dicts: make(map[dictionary.Key]*partition)}
}

// Open implements dictionary.Opener.
func (l *Library) Open(ctx context.Context, k dictionary.Key) (io.ReadCloser, error) {
	return l.src.Open(ctx, "dictionary/"+k.String()+".txt")
}

// Dictionary returns the partition for key (e.g. "6v").
func (l *Library) Dictionary(ctx context.Context, key string) (dictionary.Set, error) {
	k, err := dictionary.ParseKey(key)
	if err != nil {
		return nil, err
	}
	return l.Partition(ctx, k)
}

// Partition returns the decoded partition for k, decoding it on first use.
// The decode is detached from any one caller: a caller whose ctx ends
// stops waiting, the others still get the result. Failed loads are not
// cached, so a later call tries again.
func (l *Library) Partition(ctx context.Context, k dictionary.Key) (dictionary.Set, error) {
	l.mu.Lock()
	p, ok := l.dicts[k]
	if !ok {
		p = &partition{done: make(chan struct{})}
		l.dicts[k] = p
		go l.load(context.WithoutCancel(ctx), k, p)
	}
	l.mu.Unlock()

	select {
	case <-p.done:
		return p.set, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Library) load(ctx context.Context, k dictionary.Key, p *partition) {
	p.set, p.err = dictionary.DecodeKey(ctx, k, l)
	if p.err != nil {
		l.mu.Lock()
		delete(l.dicts, k)
		l.mu.Unlock()
	} else {
		log.Debug().Str("key", k.String()).Int("words", p.set.Len()).Msg("dictionary decoded")
	}
	close(p.done)
}

// IsWord reports whether word is in its dictionary partition.
// A missing partition means the word is unknown, not an error.
func (l *Library) IsWord(ctx context.Context, word string) (bool, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	k, ok := dictionary.KeyOf(word)
	if !ok {
		return false, nil
	}
	set, err := l.Partition(ctx, k)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return set.Has(word), nil
}

// Stats returns the number of cached partitions and the words they hold.
func (l *Library) Stats() (partitions int, words int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.dicts {
		select {
		case <-p.done:
			if p.err == nil {
				partitions++
				words += p.set.Len()
			}
		default:
		}
	}
	return partitions, words
}

// Challenge returns the solution of challenge id (trimmed, lowercase).
func (l *Library) Challenge(ctx context.Context, id string) (string, error) {
	if !challengeIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: id %q", ErrInvalidChallenge, id)
	}
	solution, err := l.readText(ctx, "challenge/"+id+".txt")
	if err != nil {
		return "", err
	}
	if _, ok := dictionary.KeyOf(solution); !ok {
		return "", fmt.Errorf("%w: challenge %s", ErrInvalidChallenge, id)
	}
	return solution, nil
}

// ChallengeCount returns the number of numbered challenges (1..n).
func (l *Library) ChallengeCount(ctx context.Context) (int, error) {
	s, err := l.readText(ctx, "challenge-count.txt")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("challenge count: %w", err)
	}
	return n, nil
}

// RandomChallenge picks a numbered challenge uniformly at random.
func (l *Library) RandomChallenge(ctx context.Context) (id string, solution string, err error) {
	n, err := l.ChallengeCount(ctx)
	if err != nil {
		return "", "", err
	}
	if n <= 0 {
		return "", "", errors.New("words: no challenges")
	}
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return "", "", err
	}
	id = strconv.FormatInt(nBig.Int64()+1, 10)
	solution, err = l.Challenge(ctx, id)
	return id, solution, err
}

// readText reads a small text file, trimmed and lowercased.
func (l *Library) readText(ctx context.Context, name string) (string, error) {
	rc, err := l.src.Open(ctx, name)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	b, err := io.ReadAll(io.LimitReader(rc, maxChallengeSize))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return strings.ToLower(strings.TrimSpace(string(b))), nil
}

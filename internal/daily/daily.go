// internal/daily/daily.go
//
// Daily challenge selection.
// The challenge of the day is "challenge/{YYYY-MM-DD}.txt" when such a file
// exists. Otherwise a numbered challenge is picked deterministically from
// the date with HMAC(salt, date), so every player gets the same word.

package daily

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"
)

// Challenges is the part of the word library daily selection needs.
type Challenges interface {
	Challenge(ctx context.Context, id string) (string, error)
	ChallengeCount(ctx context.Context) (int, error)
}

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// take first 8 bytes to uint64 for modulus distribution
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Pick returns the challenge ID and solution for the day containing now.
func Pick(ctx context.Context, c Challenges, now time.Time, salt string) (id string, solution string, err error) {
	id = DateKey(now)
	solution, err = c.Challenge(ctx, id)
	if err == nil {
		return id, solution, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", "", err
	}

	n, err := c.ChallengeCount(ctx)
	if err != nil {
		return "", "", err
	}
	if n <= 0 {
		return "", "", fmt.Errorf("daily: no challenges for %s", id)
	}
	id = strconv.Itoa(WordIndex(now, salt, n) + 1)
	solution, err = c.Challenge(ctx, id)
	if err != nil {
		return "", "", err
	}
	return id, solution, nil
}

// internal/dictionary/decode.go
//
// Decoder for front-coded dictionary partitions.
//
// A partition holds every accepted word of one length starting with one
// letter. Each line stores only the suffix that differs from the previous
// word; the shared prefix is implied by the suffix length:
//
//	prefix = previous[:length-len(suffix)]
//	word   = prefix + suffix
//
// The previous word starts as the first letter alone, so the first record
// carries a whole word. Decoding is a strictly sequential fold.
//
// Precondition on the data source: every record decodes to a word of
// exactly Length letters starting with First. Malformed streams are not
// detected here.

package dictionary

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/robalobadob/motus/internal/lines"
)

// Opener opens the raw front-coded body of one partition.
// Transport (filesystem, embedded assets, HTTP) is up to the implementation.
type Opener interface {
	Open(ctx context.Context, key Key) (io.ReadCloser, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, key Key) (io.ReadCloser, error)

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, key Key) (io.ReadCloser, error) {
	return f(ctx, key)
}

// Set is a decoded partition.
type Set map[string]struct{}

// Has reports whether w is in the set.
func (s Set) Has(w string) bool {
	_, ok := s[w]
	return ok
}

// Len returns the number of words.
func (s Set) Len() int { return len(s) }

// Words returns the members in lexical order.
func (s Set) Words() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Decode validates key, opens its partition through o and decodes it.
// An invalid key fails with ErrInvalidKey before o is touched.
func Decode(ctx context.Context, key string, o Opener) (Set, error) {
	k, err := ParseKey(key)
	if err != nil {
		return nil, err
	}
	return DecodeKey(ctx, k, o)
}

// DecodeKey decodes the partition for an already parsed key.
func DecodeKey(ctx context.Context, k Key, o Opener) (Set, error) {
	body, err := o.Open(ctx, k)
	if err != nil {
		return nil, fmt.Errorf("open dictionary %s: %w", k, err)
	}
	r, err := lines.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("dictionary %s: %w", k, err)
	}
	defer r.Close()

	set := make(Set)
	word := string(rune(k.First))
	for r.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		word = expand(word, strings.TrimSpace(r.Text()), k.Length)
		set[word] = struct{}{}
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", k, err)
	}
	return set, nil
}

// expand rebuilds a word from the previous one and a suffix record.
func expand(prev, suffix string, length int) string {
	n := length - len(suffix)
	if n < 0 {
		n = 0
	}
	if n > len(prev) {
		n = len(prev)
	}
	return prev[:n] + suffix
}

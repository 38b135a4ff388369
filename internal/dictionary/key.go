package dictionary

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidKey is returned for keys that are not "<length><letter>".
var ErrInvalidKey = errors.New("dictionary: invalid key")

var keyPattern = regexp.MustCompile(`^([0-9]+)([a-z])$`)

// Key selects one partition of the dictionary: all words of Length
// letters starting with First.
type Key struct {
	Length int
	First  byte
}

// ParseKey parses keys such as "6v".
func ParseKey(s string) (Key, error) {
	m := keyPattern.FindStringSubmatch(s)
	if m == nil {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return Key{Length: n, First: m[2][0]}, nil
}

// KeyOf returns the partition key a word belongs to.
// ok is false for empty words or words not starting with a–z.
func KeyOf(word string) (k Key, ok bool) {
	if word == "" || word[0] < 'a' || word[0] > 'z' {
		return Key{}, false
	}
	return Key{Length: len(word), First: word[0]}, true
}

// String renders the key in its wire form, e.g. "6v".
func (k Key) String() string {
	return strconv.Itoa(k.Length) + string(rune(k.First))
}

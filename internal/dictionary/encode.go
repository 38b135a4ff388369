package dictionary

import (
	"bufio"
	"io"
	"sort"
)

// Encode writes words with front coding, one suffix per line and no
// newline after the last record. Words are sorted and deduplicated first;
// all of them are expected to share one length and first letter.
func Encode(w io.Writer, words []string) error {
	bw := bufio.NewWriter(w)
	prev := ""
	for i, cur := range sortDedup(words) {
		if i > 0 {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(cur[commonPrefixLen(prev, cur):]); err != nil {
			return err
		}
		prev = cur
	}
	return bw.Flush()
}

// Partition groups words by partition key. Words without a valid key
// are dropped.
func Partition(words []string) map[Key][]string {
	out := make(map[Key][]string)
	for _, w := range words {
		k, ok := KeyOf(w)
		if !ok {
			continue
		}
		out[k] = append(out[k], w)
	}
	return out
}

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func sortDedup(words []string) []string {
	out := append([]string(nil), words...)
	sort.Strings(out)
	j := 0
	for i, w := range out {
		if i > 0 && w == out[j-1] {
			continue
		}
		out[j] = w
		j++
	}
	return out[:j]
}

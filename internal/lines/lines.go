// internal/lines/lines.go
//
// Line-by-line reader for plain-text bodies (dictionary partitions,
// challenge files) coming from any chunked source.
//
// Wire rules:
//   - Lines end with "\n" or "\r\n".
//   - A final line without a terminator is still returned.
//   - A trailing terminator does not produce an extra empty line.
//   - Empty lines in the middle of the body are returned as "".
//
// Chunks may split a line, or a "\r\n" pair, at any byte. The undelimited
// tail of a chunk is kept and completed by the next read.
//
// A Reader owns the body it was built from and releases it on every exit
// path: exhaustion, read error, or an explicit Close by a caller that stops
// early. Readers are single-use and not safe for concurrent use.

package lines

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net/http"
)

// ErrEmptySource is returned when there is no body to read at all.
var ErrEmptySource = errors.New("lines: empty source")

// maxLineSize bounds a single buffered line.
const maxLineSize = 1 << 20

// Reader is a pull-based cursor over the lines of a body.
type Reader struct {
	body   io.ReadCloser
	sc     *bufio.Scanner
	line   string
	err    error
	closed bool
}

// Decode wraps body in a line Reader.
// A nil body (or http.NoBody) fails with ErrEmptySource before any read.
func Decode(body io.ReadCloser) (*Reader, error) {
	if body == nil || body == http.NoBody {
		return nil, ErrEmptySource
	}
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	sc.Split(splitLines)
	return &Reader{body: body, sc: sc}, nil
}

// Next advances to the next line. It returns false once the body is
// exhausted or a read fails; the body is closed at that point.
func (r *Reader) Next() bool {
	if r.closed {
		return false
	}
	if r.sc.Scan() {
		r.line = r.sc.Text()
		return true
	}
	r.line = ""
	r.err = r.sc.Err()
	if err := r.Close(); err != nil && r.err == nil {
		r.err = err
	}
	return false
}

// Text returns the line produced by the last successful Next.
func (r *Reader) Text() string { return r.line }

// Err returns the first read error, if any. Reaching the end of the body
// is not an error.
func (r *Reader) Err() error { return r.err }

// Close releases the underlying body. Safe to call more than once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.body.Close()
}

// Collect drains r into a slice and closes it.
func Collect(r *Reader) ([]string, error) {
	defer r.Close()
	var out []string
	for r.Next() {
		out = append(out, r.Text())
	}
	return out, r.Err()
}

// splitLines is a bufio.SplitFunc for "\n" / "\r\n" terminated lines.
// Unlike bufio.ScanLines, a lone "\r" at the end of the body is kept:
// only a carriage return directly before "\n" belongs to the delimiter.
func splitLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, bytes.TrimSuffix(data[:i], []byte{'\r'}), nil
	}
	if atEOF {
		return len(data), data, nil
	}
	// Request more data.
	return 0, nil, nil
}

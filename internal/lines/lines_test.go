package lines

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkSource hands out its chunks one Read at a time, then io.EOF.
type chunkSource struct {
	chunks []string
	err    error // returned instead of io.EOF once chunks run out
	reads  int
	closed int
}

func (c *chunkSource) Read(p []byte) (int, error) {
	c.reads++
	if len(c.chunks) == 0 {
		if c.err != nil {
			return 0, c.err
		}
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	if n < len(c.chunks[0]) {
		c.chunks[0] = c.chunks[0][n:]
	} else {
		c.chunks = c.chunks[1:]
	}
	return n, nil
}

func (c *chunkSource) Close() error {
	c.closed++
	return nil
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   []string
	}{
		{name: "line split across chunks", chunks: []string{"ab", "c\nd"}, want: []string{"abc", "d"}},
		{name: "trailing newline", chunks: []string{"x\n"}, want: []string{"x"}},
		{name: "crlf", chunks: []string{"a\r\nb\r\n"}, want: []string{"a", "b"}},
		{name: "crlf split across chunks", chunks: []string{"a\r", "\nb"}, want: []string{"a", "b"}},
		{name: "mixed delimiters", chunks: []string{"a\nb\r\nc"}, want: []string{"a", "b", "c"}},
		{name: "interior empty line", chunks: []string{"a\n\nb\n"}, want: []string{"a", "", "b"}},
		{name: "lone carriage return kept at end", chunks: []string{"a\nb\r"}, want: []string{"a", "b\r"}},
		{name: "many tiny chunks", chunks: []string{"h", "e", "l", "l", "o", "\n", "w", "o", "rld"}, want: []string{"hello", "world"}},
		{name: "empty body", chunks: nil, want: nil},
		{name: "only newline", chunks: []string{"\n"}, want: []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &chunkSource{chunks: append([]string(nil), tt.chunks...)}
			r, err := Decode(src)
			require.NoError(t, err)

			got, err := Collect(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, src.closed, "body must be closed exactly once")
		})
	}
}

func TestDecodeOneByteReads(t *testing.T) {
	body := io.NopCloser(iotest.OneByteReader(strings.NewReader("alpha\r\nbeta\ngamma")))
	r, err := Decode(body)
	require.NoError(t, err)

	got, err := Collect(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, got)
}

func TestDecodeEmptySource(t *testing.T) {
	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrEmptySource)

	_, err = Decode(http.NoBody)
	assert.ErrorIs(t, err, ErrEmptySource)
}

func TestEarlyCloseReleasesBody(t *testing.T) {
	src := &chunkSource{chunks: []string{"a\nb\nc\n"}}
	r, err := Decode(src)
	require.NoError(t, err)

	require.True(t, r.Next())
	assert.Equal(t, "a", r.Text())

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.Equal(t, 1, src.closed)
	assert.False(t, r.Next(), "a closed reader yields nothing")
}

func TestReadErrorIsSurfaced(t *testing.T) {
	boom := errors.New("connection reset")
	src := &chunkSource{chunks: []string{"a\nb"}, err: boom}
	r, err := Decode(src)
	require.NoError(t, err)

	var got []string
	for r.Next() {
		got = append(got, r.Text())
	}
	// The buffered tail is still handed out before the error surfaces.
	assert.Equal(t, []string{"a", "b"}, got)
	assert.ErrorIs(t, r.Err(), boom)
	assert.Equal(t, 1, src.closed, "body must be closed on error")
}

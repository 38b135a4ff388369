package words

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/robalobadob/motus/assets"
)

// Source opens word files by slash-separated name, e.g.
// "dictionary/6v.txt" or "challenge/12.txt".
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// FSSource serves files from an fs.FS. When name is missing but
// name+".zst" exists, the compressed file is decoded on the fly.
type FSSource struct {
	FS fs.FS
}

// NewDirSource serves files from a directory on disk.
func NewDirSource(dir string) FSSource {
	return FSSource{FS: os.DirFS(dir)}
}

// SourceFromEnv picks WORDS_DIR when set, otherwise the embedded defaults.
func SourceFromEnv() (Source, error) {
	if dir := os.Getenv("WORDS_DIR"); dir != "" {
		return NewDirSource(dir), nil
	}
	sub, err := assets.Public()
	if err != nil {
		return nil, err
	}
	return FSSource{FS: sub}, nil
}

func (s FSSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.FS.Open(name)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	zf, zerr := s.FS.Open(name + ".zst")
	if zerr != nil {
		// report the plain name as missing
		return nil, err
	}
	dec, zerr := zstd.NewReader(zf, zstd.WithDecoderConcurrency(1))
	if zerr != nil {
		_ = zf.Close()
		return nil, fmt.Errorf("zstd reader for %s: %w", name, zerr)
	}
	return &zstdFile{dec: dec, f: zf}, nil
}

// zstdFile closes both the decoder and the file underneath it.
type zstdFile struct {
	dec *zstd.Decoder
	f   fs.File
}

func (z *zstdFile) Read(p []byte) (int, error) { return z.dec.Read(p) }

func (z *zstdFile) Close() error {
	z.dec.Close()
	return z.f.Close()
}

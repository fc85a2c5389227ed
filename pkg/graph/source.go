package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/matzehuels/stationcover/pkg/errors"
)

// Open opens a graph file, transparently decompressing it based on the
// extension: .gz (gzip), .zst (zstandard) or .lz4. Other files are returned
// as-is. The path "-" reads standard input.
func Open(path string) (io.ReadCloser, error) {
	var f *os.File
	if path == "-" {
		f = os.Stdin
	} else {
		var err error
		if f, err = os.Open(path); err != nil {
			return nil, fileErr(path, err)
		}
	}

	rc, err := decompress(f, filepath.Ext(path))
	if err != nil {
		f.Close()
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "open %s", path)
	}
	return rc, nil
}

// LoadFile opens path with [Open] and parses it in the given layout. Files
// ending in .json (optionally compressed) are decoded with [ReadJSON].
func LoadFile(path string, format Format) (*Graph, error) {
	return LoadFileLimited(path, format, errors.Limits{})
}

// LoadFileLimited is [LoadFile] with the declared sizes checked against
// limits before allocation, as in [LoadLimited].
func LoadFileLimited(path string, format Format, limits errors.Limits) (*Graph, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	if isJSONPath(path) {
		return ReadJSONLimited(rc, limits)
	}
	g, err := LoadLimited(rc, format, limits)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func isJSONPath(path string) bool {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	switch filepath.Ext(path) {
	case ".json":
		return true
	case ".gz", ".zst", ".lz4":
		return filepath.Ext(base) == ".json"
	}
	return false
}

func decompress(f *os.File, ext string) (io.ReadCloser, error) {
	r := bufio.NewReader(f)
	switch strings.ToLower(ext) {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		rc := zr.IOReadCloser()
		return &stackedCloser{Reader: rc, closers: []io.Closer{rc, f}}, nil
	case ".lz4":
		return &stackedCloser{Reader: lz4.NewReader(r), closers: []io.Closer{f}}, nil
	}
	return &stackedCloser{Reader: r, closers: []io.Closer{f}}, nil
}

// stackedCloser closes the decoder before the underlying file.
type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if c == os.Stdin {
			continue
		}
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func fileErr(path string, err error) error {
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
}

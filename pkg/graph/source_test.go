package graph

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/matzehuels/stationcover/pkg/errors"
)

const triangle = "3 3\n0 1\n1 2\n0 2\n"

func writeCompressed(t *testing.T, path string, wrap func(io.Writer) (io.WriteCloser, error)) {
	t.Helper()
	var buf bytes.Buffer
	w, err := wrap(&buf)
	if err != nil {
		t.Fatalf("compressor: %v", err)
	}
	if _, err := io.WriteString(w, triangle); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadFileCompressed(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		file string
		wrap func(io.Writer) (io.WriteCloser, error)
	}{
		{
			name: "plain",
			file: "g.txt",
			wrap: func(w io.Writer) (io.WriteCloser, error) { return nopWriteCloser{w}, nil },
		},
		{
			name: "gzip",
			file: "g.txt.gz",
			wrap: func(w io.Writer) (io.WriteCloser, error) { return gzip.NewWriter(w), nil },
		},
		{
			name: "zstd",
			file: "g.txt.zst",
			wrap: func(w io.Writer) (io.WriteCloser, error) { return zstd.NewWriter(w) },
		},
		{
			name: "lz4",
			file: "g.txt.lz4",
			wrap: func(w io.Writer) (io.WriteCloser, error) { return lz4.NewWriter(w), nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			writeCompressed(t, path, tt.wrap)

			g, err := LoadFile(path, FormatAuto)
			if err != nil {
				t.Fatalf("LoadFile() error: %v", err)
			}
			if g.N() != 3 || g.M() != 3 {
				t.Errorf("LoadFile() = N %d, M %d, want 3, 3", g.N(), g.M())
			}
		})
	}
}

func TestLoadFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.json")
	if err := os.WriteFile(path, []byte(`{"vertices": 2, "edges": [[0, 1]]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := LoadFile(path, FormatAuto)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if g.M() != 1 {
		t.Errorf("M() = %d, want 1", g.M())
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.txt"), FormatAuto)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}

	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(bad, []byte("2 1\n0 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadFile(bad, FormatAuto)
	if !IsFormatError(err) {
		t.Errorf("bad file error = %v, want INVALID_FORMAT", err)
	}

	notGzip := filepath.Join(dir, "plain.gz")
	if err := os.WriteFile(notGzip, []byte(triangle), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadFile(notGzip, FormatAuto)
	if !IsFormatError(err) {
		t.Errorf("corrupt gzip error = %v, want INVALID_FORMAT", err)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

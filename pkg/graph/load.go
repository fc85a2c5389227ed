package graph

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/stationcover/pkg/errors"
)

// Format identifies one of the supported text layouts.
type Format string

const (
	// FormatAuto picks the layout from the number of integers on the first line.
	FormatAuto Format = "auto"
	// FormatEdgeList is "N M" followed by M lines "a b".
	FormatEdgeList Format = "edges"
	// FormatAdjacency is "N" followed by a count line and a neighbor line per vertex.
	FormatAdjacency Format = "adjacency"
)

// ParseFormat converts a user-supplied name into a Format.
// The empty string maps to FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "edges", "edgelist", "edge-list":
		return FormatEdgeList, nil
	case "adjacency", "adj":
		return FormatAdjacency, nil
	}
	return "", errors.New(errors.ErrCodeInvalidOption, "unknown graph format %q (want auto, edges or adjacency)", s)
}

// maxLineBytes bounds a single input line; adjacency lines of dense graphs
// can be long.
const maxLineBytes = 64 << 20

// Load reads a graph in either text layout, detecting which from the first
// non-blank line.
func Load(r io.Reader) (*Graph, error) {
	return LoadFormat(r, FormatAuto)
}

// LoadEdgeList reads the "N M" edge-list layout.
func LoadEdgeList(r io.Reader) (*Graph, error) {
	return LoadFormat(r, FormatEdgeList)
}

// LoadAdjacency reads the per-vertex adjacency-list layout.
func LoadAdjacency(r io.Reader) (*Graph, error) {
	return LoadFormat(r, FormatAdjacency)
}

// LoadFormat reads a graph in the given layout. Every failure is an
// INVALID_FORMAT error naming the offending line.
func LoadFormat(r io.Reader, format Format) (*Graph, error) {
	return LoadLimited(r, format, errors.Limits{})
}

// LoadLimited is [LoadFormat] for untrusted input. The declared vertex count,
// and the edge count of an edge list, are checked against limits as soon as
// the header is read, before any per-vertex storage is allocated. Exceeding
// a limit is a TOO_LARGE error.
func LoadLimited(r io.Reader, format Format, limits errors.Limits) (*Graph, error) {
	lr := newLineReader(r)
	header, ok, err := lr.nextNonBlank()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, formatErr(lr.line, "empty input: expected a vertex count")
	}

	switch format {
	case FormatAuto:
		if len(strings.Fields(header)) == 1 {
			return parseAdjacency(lr, header, limits)
		}
		return parseEdgeList(lr, header, limits)
	case FormatEdgeList:
		return parseEdgeList(lr, header, limits)
	case FormatAdjacency:
		return parseAdjacency(lr, header, limits)
	}
	return nil, errors.New(errors.ErrCodeInvalidOption, "unknown graph format %q", format)
}

// IsFormatError reports whether err was caused by malformed graph input.
func IsFormatError(err error) bool {
	return errors.Is(err, errors.ErrCodeInvalidFormat)
}

func parseEdgeList(lr *lineReader, header string, limits errors.Limits) (*Graph, error) {
	counts, err := parseInts(header, lr.line)
	if err != nil {
		return nil, err
	}
	if len(counts) != 2 {
		return nil, formatErr(lr.line, "expected \"N M\", got %d values", len(counts))
	}
	n, m := counts[0], counts[1]
	if n < 0 || m < 0 {
		return nil, formatErr(lr.line, "counts must not be negative (N=%d, M=%d)", n, m)
	}
	if err := limits.ValidateGraphSize(n, m); err != nil {
		return nil, err
	}

	b := NewBuilder(n)
	for i := 0; i < m; i++ {
		text, ok, err := lr.nextNonBlank()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, formatErr(lr.line, "declared %d edges but found %d", m, i)
		}
		ends, err := parseInts(text, lr.line)
		if err != nil {
			return nil, err
		}
		if len(ends) != 2 {
			return nil, formatErr(lr.line, "expected \"a b\", got %d values", len(ends))
		}
		if err := addEdge(b, ends[0], ends[1], n, lr.line); err != nil {
			return nil, err
		}
	}

	if err := lr.expectEOF(); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

func parseAdjacency(lr *lineReader, header string, limits errors.Limits) (*Graph, error) {
	counts, err := parseInts(header, lr.line)
	if err != nil {
		return nil, err
	}
	if len(counts) != 1 {
		return nil, formatErr(lr.line, "expected a single vertex count, got %d values", len(counts))
	}
	n := counts[0]
	if n < 0 {
		return nil, formatErr(lr.line, "vertex count must not be negative (N=%d)", n)
	}
	if err := limits.ValidateGraphSize(n, 0); err != nil {
		return nil, err
	}

	b := NewBuilder(n)
	for v := 0; v < n; v++ {
		text, ok, err := lr.nextNonBlank()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, formatErr(lr.line, "declared %d vertices but found %d", n, v)
		}
		cnt, err := parseInts(text, lr.line)
		if err != nil {
			return nil, err
		}
		if len(cnt) != 1 || cnt[0] < 0 {
			return nil, formatErr(lr.line, "vertex %d: expected a non-negative neighbor count", v)
		}

		// An isolated vertex may be followed by an empty neighbor line.
		if cnt[0] == 0 {
			if err := lr.skipBlank(); err != nil {
				return nil, err
			}
			continue
		}

		text, ok, err = lr.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, formatErr(lr.line, "vertex %d: missing neighbor line", v)
		}
		nbrs, err := parseInts(text, lr.line)
		if err != nil {
			return nil, err
		}
		if len(nbrs) != cnt[0] {
			return nil, formatErr(lr.line, "vertex %d: declared %d neighbors but found %d", v, cnt[0], len(nbrs))
		}
		for _, u := range nbrs {
			if err := addEdge(b, v, u, n, lr.line); err != nil {
				return nil, err
			}
		}
	}

	if err := lr.expectEOF(); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

func addEdge(b *Builder, a, c, n, line int) error {
	if a < 0 || a >= n || c < 0 || c >= n {
		return formatErr(line, "edge %d-%d references a vertex outside [0, %d)", a, c, n)
	}
	if a == c {
		return formatErr(line, "self-loop on vertex %d", a)
	}
	return b.AddEdge(a, c)
}

func parseInts(text string, line int) ([]int, error) {
	fields := strings.Fields(text)
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, formatErr(line, "%q is not an integer", f)
		}
		out[i] = v
	}
	return out, nil
}

func formatErr(line int, format string, args ...any) error {
	e := errors.New(errors.ErrCodeInvalidFormat, format, args...)
	e.Message = "line " + strconv.Itoa(line) + ": " + e.Message
	return e
}

// lineReader tracks line numbers and supports a single line of lookahead.
type lineReader struct {
	sc      *bufio.Scanner
	line    int
	pending *string
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &lineReader{sc: sc}
}

// next returns the next raw line. ok is false at end of input.
func (lr *lineReader) next() (string, bool, error) {
	if lr.pending != nil {
		s := *lr.pending
		lr.pending = nil
		lr.line++
		return s, true, nil
	}
	if !lr.sc.Scan() {
		if err := lr.sc.Err(); err != nil {
			return "", false, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: read", lr.line+1)
		}
		return "", false, nil
	}
	lr.line++
	return lr.sc.Text(), true, nil
}

func (lr *lineReader) unread(s string) {
	lr.pending = &s
	lr.line--
}

func (lr *lineReader) nextNonBlank() (string, bool, error) {
	for {
		s, ok, err := lr.next()
		if err != nil || !ok {
			return s, ok, err
		}
		if strings.TrimSpace(s) != "" {
			return s, true, nil
		}
	}
}

// skipBlank consumes at most one following blank line.
func (lr *lineReader) skipBlank() error {
	s, ok, err := lr.next()
	if err != nil || !ok {
		return err
	}
	if strings.TrimSpace(s) != "" {
		lr.unread(s)
	}
	return nil
}

func (lr *lineReader) expectEOF() error {
	s, ok, err := lr.nextNonBlank()
	if err != nil {
		return err
	}
	if ok {
		return formatErr(lr.line, "unexpected trailing data %q", truncate(s, 32))
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Package graph provides the immutable undirected graph that the cover
// solver runs on, together with its text and JSON encodings.
//
// # Overview
//
// Vertices are dense integer ids in [0, N). Each vertex carries a set of
// neighbor ids; adjacency is symmetric, duplicate edges collapse and
// self-loops are rejected. Once built, a [Graph] is never mutated, so it can
// be shared freely between goroutines and solver runs.
//
// # Building
//
// Use a [Builder] when the edges come from code:
//
//	b := graph.NewBuilder(4)
//	_ = b.AddEdge(0, 1)
//	_ = b.AddEdge(1, 2)
//	_ = b.AddEdge(2, 3)
//	g := b.Build()
//
// # Text Formats
//
// [Load] reads either of the two text layouts and picks one from the first
// line:
//
//	edge list            adjacency list
//	---------            --------------
//	4 3                  3
//	0 1                  1
//	1 2                  1
//	2 3                  2
//	                     0 2
//	                     1
//	                     1
//
// The edge list starts with "N M" followed by M lines "a b". The adjacency
// list starts with "N" followed, for each vertex in id order, by a count line
// and a line with that many neighbor ids. Malformed input yields an error
// coded [errors.ErrCodeInvalidFormat] carrying the offending line number;
// no partial graph is returned.
//
// [Open] and [LoadFile] transparently decompress .gz, .zst and .lz4 files.
//
// # JSON
//
// [MarshalGraph] and [ReadJSON] use a compact wire format shared with the
// HTTP API:
//
//	{"vertices": 3, "edges": [[0, 1], [1, 2]]}
//
// # Concurrency
//
// All read methods are safe for concurrent use. [Builder] is not.
package graph

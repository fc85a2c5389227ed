// Package pkg provides the core libraries for Stationcover station placement.
//
// # Overview
//
// Stationcover places monitoring stations on the vertices of a relay network
// so that every relay (edge) has a station on at least one end, using as few
// stations as possible. That is the minimum vertex cover problem, solved
// exactly by branch and bound.
//
// # Architecture
//
// The typical data flow through Stationcover:
//
//	Edge list / adjacency list / JSON (optionally compressed)
//	         ↓
//	    [graph] package (parse into an immutable adjacency store)
//	         ↓
//	    [cover] package (greedy seed + branch and bound)
//	         ↓
//	    [render] package (DOT, SVG, PNG, PDF with stations highlighted)
//
// [pipeline] strings the stages together for the CLI and the HTTP API.
//
// # Quick Start
//
//	g, _ := graph.LoadFile("relays.txt", graph.FormatAuto)
//	res, _ := cover.Solve(ctx, g, cover.DefaultOptions())
//	fmt.Println(res.Size, res.Cover)
//
// # Main Packages
//
// [graph] - Undirected graphs over vertices 0..N-1 backed by roaring bitmaps,
// with loaders for the text layouts, JSON, and gzip/zstd/lz4 sources.
//
// [cover] - The search: coverage state, greedy upper bounds, preprocessing,
// pruning bounds and the sequential and parallel engines.
//
// [render] - Graphviz drawings of a graph with its cover.
//
// [pipeline] - Load → solve → render shared by every entry point.
//
// [cache] - Stores exact results by graph and strategy (file, memory, null).
//
// [errors] - Coded errors and size limits.
//
// [observability] - Hooks for loading, search and HTTP events.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/cover/...      # The solver
//	go test -run Example ./...   # Examples only
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/stationcover/pkg/graph
// [cover]: https://pkg.go.dev/github.com/matzehuels/stationcover/pkg/cover
// [render]: https://pkg.go.dev/github.com/matzehuels/stationcover/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stationcover/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/stationcover/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/stationcover/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/stationcover/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/stationcover/pkg/buildinfo
package pkg

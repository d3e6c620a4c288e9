// Package mcp exposes the store's operations as Model Context Protocol
// tools over stdio, grounded on the teacher's SDK-based MCP server:
// same typed-handler registration style, generalized from code search
// tools to vector-library tools.
package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vecbase/vecbase/internal/snapshot"
	"github.com/vecbase/vecbase/internal/store"
	"github.com/vecbase/vecbase/internal/version"
)

// Server wraps the official MCP SDK server over a Store.
type Server struct {
	server      *sdkmcp.Server
	store       *store.Store
	snapshotter *snapshot.Snapshotter
}

// Config holds what the MCP layer needs.
type Config struct {
	Store       *store.Store
	Snapshotter *snapshot.Snapshotter
}

// NewServer builds an MCP Server with its tools registered.
func NewServer(cfg Config) *Server {
	s := &Server{
		store:       cfg.Store,
		snapshotter: cfg.Snapshotter,
	}

	s.server = sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "vecbase",
		Version: version.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: "vecbase provides a vector library store for semantic search over " +
			"embedded chunks of text. Use vecbase_create_library to start a library, " +
			"vecbase_index_library to build a search index for it, vecbase_search to " +
			"query it, and vecbase_get_library_stats to check its state.",
	})

	sdkmcp.AddTool(s.server, &sdkmcp.Tool{
		Name:        "vecbase_create_library",
		Description: "Create a new library to hold documents and their embedded chunks.",
	}, s.handleCreateLibrary)

	sdkmcp.AddTool(s.server, &sdkmcp.Tool{
		Name:        "vecbase_index_library",
		Description: "Build or rebuild the search index for a library, choosing between an exact brute-force index and an approximate LSH index.",
	}, s.handleIndexLibrary)

	sdkmcp.AddTool(s.server, &sdkmcp.Tool{
		Name:        "vecbase_search",
		Description: "Run a k-nearest-neighbor search against an indexed library using a query embedding, with an optional exact-match metadata filter.",
	}, s.handleSearch)

	sdkmcp.AddTool(s.server, &sdkmcp.Tool{
		Name:        "vecbase_get_library_stats",
		Description: "Get the current state of a library: whether it's indexed, which algorithm it uses, its embedding dimension, and its chunk count.",
	}, s.handleGetLibraryStats)

	return s
}

func (s *Server) markDirty() {
	if s.snapshotter != nil {
		s.snapshotter.MarkDirty()
	}
}

// Run starts the MCP server over stdio and blocks until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &sdkmcp.StdioTransport{})
}

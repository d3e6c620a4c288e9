package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vecbase/vecbase/internal/store"
)

// CreateLibraryInput is the input for vecbase_create_library.
type CreateLibraryInput struct {
	LibraryID string         `json:"library_id,omitempty" jsonschema:"Identifier for the new library. Left empty, a new id is generated."`
	Metadata  map[string]any `json:"metadata,omitempty" jsonschema:"Arbitrary key/value metadata to attach to the library."`
}

// IndexLibraryInput is the input for vecbase_index_library.
type IndexLibraryInput struct {
	LibraryID string `json:"library_id" jsonschema:"REQUIRED - Identifier of the library to index."`
	Algorithm string `json:"algorithm,omitempty" jsonschema:"Indexing algorithm: 'exact' or 'lsh'. Defaults to 'exact' if empty."`
}

// SearchInput is the input for vecbase_search.
type SearchInput struct {
	LibraryID      string         `json:"library_id" jsonschema:"REQUIRED - Identifier of the library to search."`
	Embedding      []float64      `json:"embedding" jsonschema:"REQUIRED - Query embedding vector."`
	K              int            `json:"k,omitempty" jsonschema:"Number of nearest neighbors to return. Defaults to 1."`
	MetadataFilter map[string]any `json:"metadata_filter,omitempty" jsonschema:"Exact-match metadata filter applied before truncating to k results."`
}

// GetLibraryStatsInput is the input for vecbase_get_library_stats.
type GetLibraryStatsInput struct {
	LibraryID string `json:"library_id" jsonschema:"REQUIRED - Identifier of the library to inspect."`
}

func errorResult(format string, args ...any) (*sdkmcp.CallToolResult, any, error) {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}, nil, nil
}

func textResult(format string, args ...any) (*sdkmcp.CallToolResult, any, error) {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: fmt.Sprintf(format, args...)}},
	}, nil, nil
}

func (s *Server) handleCreateLibrary(ctx context.Context, req *sdkmcp.CallToolRequest, input CreateLibraryInput) (*sdkmcp.CallToolResult, any, error) {
	lib, err := s.store.CreateLibrary(input.LibraryID, store.Metadata(input.Metadata))
	if err != nil {
		return errorResult("Failed to create library: %v", err)
	}
	s.markDirty()
	return textResult("Created library %q", lib.ID)
}

func (s *Server) handleIndexLibrary(ctx context.Context, req *sdkmcp.CallToolRequest, input IndexLibraryInput) (*sdkmcp.CallToolResult, any, error) {
	if input.LibraryID == "" {
		return errorResult("library_id is required")
	}
	if err := s.store.IndexLibrary(input.LibraryID, input.Algorithm); err != nil {
		return errorResult("Failed to index library %q: %v", input.LibraryID, err)
	}
	s.markDirty()
	lib, err := s.store.GetLibrary(input.LibraryID)
	if err != nil {
		return errorResult("Indexed library %q but failed to read it back: %v", input.LibraryID, err)
	}
	return textResult("Indexed library %q with algorithm %q (dimension %d)", lib.ID, lib.IndexAlgorithm, lib.Dimension)
}

func (s *Server) handleSearch(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchInput) (*sdkmcp.CallToolResult, any, error) {
	if input.LibraryID == "" {
		return errorResult("library_id is required")
	}
	k := input.K
	if k == 0 {
		k = 1
	}
	results, err := s.store.Search(input.LibraryID, input.Embedding, k, store.Metadata(input.MetadataFilter))
	if err != nil {
		return errorResult("Search failed: %v", err)
	}
	if len(results) == 0 {
		return textResult("No results found.")
	}

	text := fmt.Sprintf("Found %d results:\n\n", len(results))
	for i, r := range results {
		text += fmt.Sprintf("%d. chunk=%s distance=%.6f text=%q\n", i+1, r.Chunk.ID, r.Distance, r.Chunk.Text)
	}
	return textResult("%s", text)
}

func (s *Server) handleGetLibraryStats(ctx context.Context, req *sdkmcp.CallToolRequest, input GetLibraryStatsInput) (*sdkmcp.CallToolResult, any, error) {
	if input.LibraryID == "" {
		return errorResult("library_id is required")
	}
	lib, err := s.store.GetLibrary(input.LibraryID)
	if err != nil {
		return errorResult("Failed to get library %q: %v", input.LibraryID, err)
	}
	count, err := s.store.ChunkCount(input.LibraryID)
	if err != nil {
		return errorResult("Failed to count chunks in library %q: %v", input.LibraryID, err)
	}
	return textResult(
		"Library %q: indexed=%t algorithm=%q dimension=%d chunks=%d",
		lib.ID, lib.IsIndexed, lib.IndexAlgorithm, lib.Dimension, count,
	)
}

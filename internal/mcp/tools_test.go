package mcp

import (
	"context"
	"testing"

	"github.com/vecbase/vecbase/internal/index"
	"github.com/vecbase/vecbase/internal/store"
)

func newTestServer() *Server {
	st := store.NewStore(index.LSHParams{Tables: 4, Planes: 8, Seed: 42})
	return NewServer(Config{Store: st})
}

func TestHandleCreateLibrary(t *testing.T) {
	s := newTestServer()
	result, _, err := s.handleCreateLibrary(context.Background(), nil, CreateLibraryInput{LibraryID: "L"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error result: %v", result.Content)
	}
	if _, err := s.store.GetLibrary("L"); err != nil {
		t.Fatalf("library was not created: %v", err)
	}
}

func TestHandleCreateLibraryDuplicateIsError(t *testing.T) {
	s := newTestServer()
	s.handleCreateLibrary(context.Background(), nil, CreateLibraryInput{LibraryID: "L"})
	result, _, err := s.handleCreateLibrary(context.Background(), nil, CreateLibraryInput{LibraryID: "L"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatalf("expected tool error result for duplicate library")
	}
}

func TestHandleIndexAndSearch(t *testing.T) {
	s := newTestServer()
	s.handleCreateLibrary(context.Background(), nil, CreateLibraryInput{LibraryID: "L"})
	_, _, err := s.store.CreateDocument("L", "D", "doc", nil, []store.ChunkInput{
		{ID: "c1", Text: "a", Embedding: []float64{1, 0, 0}},
		{ID: "c2", Text: "b", Embedding: []float64{0, 1, 0}},
	})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	result, _, err := s.handleIndexLibrary(context.Background(), nil, IndexLibraryInput{LibraryID: "L", Algorithm: "exact"})
	if err != nil || result.IsError {
		t.Fatalf("index failed: err=%v result=%v", err, result)
	}

	result, _, err = s.handleSearch(context.Background(), nil, SearchInput{LibraryID: "L", Embedding: []float64{0.9, 0.1, 0}, K: 1})
	if err != nil || result.IsError {
		t.Fatalf("search failed: err=%v result=%v", err, result)
	}
}

func TestHandleGetLibraryStatsMissingLibraryIsError(t *testing.T) {
	s := newTestServer()
	result, _, err := s.handleGetLibraryStats(context.Background(), nil, GetLibraryStatsInput{LibraryID: "missing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatalf("expected tool error result for missing library")
	}
}

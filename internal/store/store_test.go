package store

import (
	"testing"

	"github.com/vecbase/vecbase/internal/index"
	"github.com/vecbase/vecbase/internal/vecerr"
)

func newTestStore() *Store {
	return NewStore(index.LSHParams{Tables: 4, Planes: 8, Seed: 42})
}

func TestCreateAndGetLibrary(t *testing.T) {
	s := newTestStore()
	lib, err := s.CreateLibrary("L", Metadata{"owner": "alice"})
	if err != nil {
		t.Fatalf("CreateLibrary failed: %v", err)
	}
	if lib.ID != "L" {
		t.Fatalf("expected id L, got %s", lib.ID)
	}
	got, err := s.GetLibrary("L")
	if err != nil {
		t.Fatalf("GetLibrary failed: %v", err)
	}
	if got.Metadata["owner"] != "alice" {
		t.Fatalf("unexpected metadata: %+v", got.Metadata)
	}
}

func TestCreateLibraryMintsID(t *testing.T) {
	s := newTestStore()
	lib, err := s.CreateLibrary("", nil)
	if err != nil {
		t.Fatalf("CreateLibrary failed: %v", err)
	}
	if lib.ID == "" {
		t.Fatalf("expected minted id")
	}
}

func TestCreateLibraryDuplicate(t *testing.T) {
	s := newTestStore()
	_, _ = s.CreateLibrary("L", nil)
	if _, err := s.CreateLibrary("L", nil); vecerr.KindOf(err) != vecerr.DuplicateId {
		t.Fatalf("expected DuplicateId, got %v", err)
	}
}

func TestCascadeDeleteLibrary(t *testing.T) {
	s := newTestStore()
	_, _ = s.CreateLibrary("L", nil)
	doc, _, err := s.CreateDocument("L", "D", "title", nil, []ChunkInput{
		{ID: "c1", Text: "hello", Embedding: []float64{1, 0, 0}},
	})
	if err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}
	if err := s.DeleteLibrary("L"); err != nil {
		t.Fatalf("DeleteLibrary failed: %v", err)
	}
	if _, err := s.GetLibrary("L"); vecerr.KindOf(err) != vecerr.NotFound {
		t.Fatalf("expected NotFound after delete, got %v", err)
	}
	if _, err := s.GetDocument("L", doc.ID); vecerr.KindOf(err) != vecerr.NotFound {
		t.Fatalf("expected descendant document gone after cascade")
	}
}

func TestCascadeDeleteDocument(t *testing.T) {
	s := newTestStore()
	_, _ = s.CreateLibrary("L", nil)
	doc, chunks, err := s.CreateDocument("L", "D", "title", nil, []ChunkInput{
		{ID: "c1", Text: "a", Embedding: []float64{1, 0}},
		{ID: "c2", Text: "b", Embedding: []float64{0, 1}},
	})
	if err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}
	if err := s.DeleteDocument("L", doc.ID); err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}
	for _, c := range chunks {
		if _, err := s.GetChunk("L", c.ID); vecerr.KindOf(err) != vecerr.NotFound {
			t.Fatalf("expected chunk %s gone after document cascade", c.ID)
		}
	}
}

func TestDimensionEnforcement(t *testing.T) {
	s := newTestStore()
	_, _ = s.CreateLibrary("L", nil)
	_, _, err := s.CreateDocument("L", "D", "title", nil, []ChunkInput{
		{ID: "c1", Text: "a", Embedding: []float64{1, 0, 0}},
	})
	if err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}
	if _, err := s.CreateChunk("L", "D", ChunkInput{ID: "c2", Text: "b", Embedding: []float64{1, 0, 0, 0}}); vecerr.KindOf(err) != vecerr.DimensionMismatch {
		t.Fatalf("expected DimensionMismatch, got %v", err)
	}
	count, _ := s.ChunkCount("L")
	if count != 1 {
		t.Fatalf("expected library unchanged after rejected insert, got count=%d", count)
	}
}

func TestBulkCreateAllOrNothing(t *testing.T) {
	s := newTestStore()
	_, _ = s.CreateLibrary("L", nil)
	doc, _, err := s.CreateDocument("L", "D", "title", nil, []ChunkInput{
		{ID: "existing", Text: "a", Embedding: []float64{1, 0}},
	})
	if err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}
	_, err = s.BulkCreateChunks("L", doc.ID, []ChunkInput{
		{ID: "c1", Text: "x", Embedding: []float64{1, 1}},
		{ID: "c2", Text: "y", Embedding: []float64{0, 1}},
		{ID: "existing", Text: "z", Embedding: []float64{1, 0}},
		{ID: "c3", Text: "w", Embedding: []float64{0, 0.5}},
		{ID: "c4", Text: "v", Embedding: []float64{0.5, 0}},
	})
	if vecerr.KindOf(err) != vecerr.DuplicateId {
		t.Fatalf("expected DuplicateId, got %v", err)
	}
	count, _ := s.ChunkCount("L")
	if count != 1 {
		t.Fatalf("expected no partial insert, got count=%d", count)
	}
}

func TestIndexAndSearch(t *testing.T) {
	s := newTestStore()
	_, _ = s.CreateLibrary("L", nil)
	_, _, err := s.CreateDocument("L", "D", "title", nil, []ChunkInput{
		{ID: "c1", Text: "a", Embedding: []float64{1, 0, 0}},
		{ID: "c2", Text: "b", Embedding: []float64{0, 1, 0}},
		{ID: "c3", Text: "c", Embedding: []float64{0, 0, 1}},
	})
	if err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}
	if err := s.IndexLibrary("L", "exact"); err != nil {
		t.Fatalf("IndexLibrary failed: %v", err)
	}
	results, err := s.Search("L", []float64{0.9, 0.1, 0}, 2, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 || results[0].Chunk.ID != "c1" {
		t.Fatalf("unexpected search results: %+v", results)
	}
}

func TestSearchNotIndexed(t *testing.T) {
	s := newTestStore()
	_, _ = s.CreateLibrary("L", nil)
	_, _, _ = s.CreateDocument("L", "D", "title", nil, []ChunkInput{
		{ID: "c1", Text: "a", Embedding: []float64{1, 0}},
	})
	if _, err := s.Search("L", []float64{1, 0}, 1, nil); vecerr.KindOf(err) != vecerr.NotIndexed {
		t.Fatalf("expected NotIndexed, got %v", err)
	}
}

func TestSearchMetadataFilterPreTruncation(t *testing.T) {
	s := newTestStore()
	_, _ = s.CreateLibrary("L", nil)
	_, _, err := s.CreateDocument("L", "D", "title", nil, []ChunkInput{
		{ID: "c1", Text: "a", Embedding: []float64{1, 0}, Metadata: Metadata{"tag": "x"}},
		{ID: "c2", Text: "b", Embedding: []float64{0.99, 0.01}, Metadata: Metadata{"tag": "y"}},
		{ID: "c3", Text: "c", Embedding: []float64{0.98, 0.02}, Metadata: Metadata{"tag": "x"}},
	})
	if err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}
	if err := s.IndexLibrary("L", "exact"); err != nil {
		t.Fatalf("IndexLibrary failed: %v", err)
	}
	results, err := s.Search("L", []float64{1, 0}, 2, Metadata{"tag": "x"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 filtered matches despite closer non-matching candidate, got %d", len(results))
	}
	for _, r := range results {
		if r.Chunk.Metadata["tag"] != "x" {
			t.Fatalf("filter leaked non-matching chunk: %+v", r.Chunk)
		}
	}
}

func TestReindexWithDifferentAlgorithmPreservesData(t *testing.T) {
	s := newTestStore()
	_, _ = s.CreateLibrary("L", nil)
	_, _, err := s.CreateDocument("L", "D", "title", nil, []ChunkInput{
		{ID: "c1", Text: "a", Embedding: []float64{1, 0, 0, 0}},
		{ID: "c2", Text: "b", Embedding: []float64{0, 1, 0, 0}},
	})
	if err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}
	if err := s.IndexLibrary("L", "exact"); err != nil {
		t.Fatalf("IndexLibrary failed: %v", err)
	}
	if err := s.IndexLibrary("L", "lsh"); err != nil {
		t.Fatalf("IndexLibrary (re-index) failed: %v", err)
	}
	lib, _ := s.GetLibrary("L")
	if lib.IndexAlgorithm != "lsh" {
		t.Fatalf("expected lsh algorithm recorded, got %s", lib.IndexAlgorithm)
	}
	count, _ := s.ChunkCount("L")
	if count != 2 {
		t.Fatalf("expected chunk count preserved across swap, got %d", count)
	}
}

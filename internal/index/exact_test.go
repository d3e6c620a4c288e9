package index

import (
	"testing"

	"github.com/vecbase/vecbase/internal/vecerr"
)

func TestExactIndexAddSearch(t *testing.T) {
	idx := NewExactIndex()
	if err := idx.Add("a", []float64{1, 0}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := idx.Add("b", []float64{0, 1}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	results, err := idx.Search([]float64{1, 0}, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 || results[0].ChunkID != "a" {
		t.Fatalf("expected a first, got %+v", results)
	}
}

func TestExactIndexDuplicateAdd(t *testing.T) {
	idx := NewExactIndex()
	_ = idx.Add("a", []float64{1, 0})
	if err := idx.Add("a", []float64{0, 1}); vecerr.KindOf(err) != vecerr.DuplicateId {
		t.Fatalf("expected DuplicateId, got %v", err)
	}
}

func TestExactIndexRemove(t *testing.T) {
	idx := NewExactIndex()
	_ = idx.Add("a", []float64{1, 0})
	_ = idx.Add("b", []float64{0, 1})
	_ = idx.Add("c", []float64{1, 1})
	if err := idx.Remove("a"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if idx.Len() != 2 {
		t.Fatalf("expected 2 remaining, got %d", idx.Len())
	}
	results, _ := idx.Search([]float64{1, 0}, 10)
	for _, r := range results {
		if r.ChunkID == "a" {
			t.Fatalf("removed id still present in results")
		}
	}
}

func TestExactIndexRemoveUnknown(t *testing.T) {
	idx := NewExactIndex()
	if err := idx.Remove("missing"); vecerr.KindOf(err) != vecerr.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestExactIndexUpdate(t *testing.T) {
	idx := NewExactIndex()
	_ = idx.Add("a", []float64{1, 0})
	if err := idx.Update("a", []float64{0, 1}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	results, _ := idx.Search([]float64{0, 1}, 1)
	if len(results) != 1 || results[0].Distance > 1e-9 {
		t.Fatalf("expected updated vector to match query exactly, got %+v", results)
	}
}

func TestExactIndexTieBreakAscendingID(t *testing.T) {
	idx := NewExactIndex()
	_ = idx.Add("z", []float64{1, 0})
	_ = idx.Add("a", []float64{1, 0})
	results, _ := idx.Search([]float64{1, 0}, 10)
	if results[0].ChunkID != "a" || results[1].ChunkID != "z" {
		t.Fatalf("expected ascending id tie-break, got %+v", results)
	}
}

func TestExactIndexKTruncation(t *testing.T) {
	idx := NewExactIndex()
	_ = idx.Add("a", []float64{1, 0})
	_ = idx.Add("b", []float64{0, 1})
	_ = idx.Add("c", []float64{-1, 0})
	results, _ := idx.Search([]float64{1, 0}, 1)
	if len(results) != 1 || results[0].ChunkID != "a" {
		t.Fatalf("expected single closest result, got %+v", results)
	}
}

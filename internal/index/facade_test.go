package index

import (
	"testing"

	"github.com/vecbase/vecbase/internal/vecerr"
)

func defaultLSHParams() LSHParams {
	return LSHParams{Tables: 4, Planes: 8, Seed: 42}
}

func TestFacadeSearchBeforeMaterializeFails(t *testing.T) {
	f := NewFacade(defaultLSHParams())
	if _, err := f.Search([]float64{1, 0}, 5); vecerr.KindOf(err) != vecerr.NotIndexed {
		t.Fatalf("expected NotIndexed, got %v", err)
	}
}

func TestFacadeMaterializeExactThenSearch(t *testing.T) {
	f := NewFacade(defaultLSHParams())
	chunks := []IDVector{{ID: "a", Vector: []float64{1, 0}}, {ID: "b", Vector: []float64{0, 1}}}
	if err := f.Materialize(AlgorithmExact, 2, chunks); err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	if !f.IsIndexed() || f.Algorithm() != AlgorithmExact {
		t.Fatalf("expected indexed with exact algorithm")
	}
	results, err := f.Search([]float64{1, 0}, 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].ChunkID != "a" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestFacadeMaterializeDimensionMismatchLeavesPriorIntact(t *testing.T) {
	f := NewFacade(defaultLSHParams())
	chunks := []IDVector{{ID: "a", Vector: []float64{1, 0}}}
	if err := f.Materialize(AlgorithmExact, 2, chunks); err != nil {
		t.Fatalf("initial Materialize failed: %v", err)
	}
	bad := []IDVector{{ID: "a", Vector: []float64{1, 0}}, {ID: "b", Vector: []float64{1, 0, 0}}}
	if err := f.Materialize(AlgorithmLSH, 2, bad); vecerr.KindOf(err) != vecerr.DimensionMismatch {
		t.Fatalf("expected DimensionMismatch, got %v", err)
	}
	if f.Algorithm() != AlgorithmExact {
		t.Fatalf("expected prior exact backend to remain active after failed re-materialize")
	}
	results, err := f.Search([]float64{1, 0}, 1)
	if err != nil || len(results) != 1 {
		t.Fatalf("expected prior backend still serving searches, got %+v err=%v", results, err)
	}
}

func TestFacadeRematerializeSwitchesToLSH(t *testing.T) {
	f := NewFacade(defaultLSHParams())
	chunks := []IDVector{{ID: "a", Vector: []float64{1, 0, 0, 0}}, {ID: "b", Vector: []float64{0, 1, 0, 0}}}
	if err := f.Materialize(AlgorithmExact, 4, chunks); err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	if err := f.Materialize(AlgorithmLSH, 4, chunks); err != nil {
		t.Fatalf("re-materialize failed: %v", err)
	}
	if f.Algorithm() != AlgorithmLSH {
		t.Fatalf("expected lsh algorithm active after re-materialize")
	}
}

func TestFacadeMaterializeEmptyDefersDimension(t *testing.T) {
	f := NewFacade(defaultLSHParams())
	if err := f.Materialize(AlgorithmLSH, 0, nil); err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	if !f.IsIndexed() || f.Algorithm() != AlgorithmLSH {
		t.Fatalf("expected indexed with lsh algorithm recorded before any vector seen")
	}
	if f.Dimension() != 0 {
		t.Fatalf("expected dimension 0 before any vector observed, got %d", f.Dimension())
	}
	if results, err := f.Search([]float64{1, 0, 0}, 5); err != nil || results != nil {
		t.Fatalf("expected nil results with no error on empty indexed library, got %+v err=%v", results, err)
	}
	if err := f.OnChunkAdded("a", []float64{1, 0, 0}); err != nil {
		t.Fatalf("OnChunkAdded failed: %v", err)
	}
	if f.Dimension() != 3 {
		t.Fatalf("expected dimension to be observed from first chunk, got %d", f.Dimension())
	}
	results, err := f.Search([]float64{1, 0, 0}, 1)
	if err != nil || len(results) != 1 || results[0].ChunkID != "a" {
		t.Fatalf("expected first chunk searchable after lazy materialize, got %+v err=%v", results, err)
	}
}

func TestFacadeOnChunkAddedNoOpWhenUnindexed(t *testing.T) {
	f := NewFacade(defaultLSHParams())
	if err := f.OnChunkAdded("a", []float64{1, 0}); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestFacadeOnChunkAddedForwardsWhenIndexed(t *testing.T) {
	f := NewFacade(defaultLSHParams())
	if err := f.Materialize(AlgorithmExact, 2, nil); err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	if err := f.OnChunkAdded("a", []float64{1, 0}); err != nil {
		t.Fatalf("OnChunkAdded failed: %v", err)
	}
	results, _ := f.Search([]float64{1, 0}, 1)
	if len(results) != 1 || results[0].ChunkID != "a" {
		t.Fatalf("expected forwarded add to be searchable, got %+v", results)
	}
}

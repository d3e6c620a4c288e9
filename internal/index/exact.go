package index

import (
	"github.com/vecbase/vecbase/internal/vecerr"
	"github.com/vecbase/vecbase/internal/vecmath"
)

// ExactIndex is the brute-force backend: every stored vector is scored
// against the query on every search. Grounded on the original
// VectorIndex's full linear scan — no shortcuts, exact by construction.
type ExactIndex struct {
	ids     []string
	vectors [][]float64
	pos     map[string]int
}

// NewExactIndex returns an empty exact backend.
func NewExactIndex() *ExactIndex {
	return &ExactIndex{pos: make(map[string]int)}
}

func (idx *ExactIndex) Add(id string, v []float64) error {
	const op = "ExactIndex.Add"
	if _, ok := idx.pos[id]; ok {
		return errDuplicate(op, id)
	}
	nv, err := vecmath.Normalize(v)
	if err != nil {
		return vecerr.Wrap(vecerr.DegenerateVector, op, err)
	}
	idx.pos[id] = len(idx.ids)
	idx.ids = append(idx.ids, id)
	idx.vectors = append(idx.vectors, nv)
	return nil
}

// Remove deletes id via swap-with-last, keeping removal O(1) at the cost
// of losing insertion order (search results are re-sorted anyway).
func (idx *ExactIndex) Remove(id string) error {
	const op = "ExactIndex.Remove"
	p, ok := idx.pos[id]
	if !ok {
		return errUnknown(op, id)
	}
	last := len(idx.ids) - 1
	idx.ids[p] = idx.ids[last]
	idx.vectors[p] = idx.vectors[last]
	idx.pos[idx.ids[p]] = p
	idx.ids = idx.ids[:last]
	idx.vectors = idx.vectors[:last]
	delete(idx.pos, id)
	return nil
}

func (idx *ExactIndex) Update(id string, v []float64) error {
	const op = "ExactIndex.Update"
	p, ok := idx.pos[id]
	if !ok {
		return errUnknown(op, id)
	}
	nv, err := vecmath.Normalize(v)
	if err != nil {
		return vecerr.Wrap(vecerr.DegenerateVector, op, err)
	}
	idx.vectors[p] = nv
	return nil
}

func (idx *ExactIndex) Search(query []float64, k int) ([]Result, error) {
	const op = "ExactIndex.Search"
	nq, err := vecmath.Normalize(query)
	if err != nil {
		return nil, vecerr.Wrap(vecerr.DegenerateVector, op, err)
	}
	results := make([]Result, len(idx.ids))
	for i, id := range idx.ids {
		results[i] = Result{ChunkID: id, Distance: 1 - vecmath.Dot(nq, idx.vectors[i])}
	}
	sortResults(results)
	if k >= 0 && k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Len reports how many vectors the backend currently holds.
func (idx *ExactIndex) Len() int {
	return len(idx.ids)
}

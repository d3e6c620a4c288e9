package index

import (
	"math/rand"

	"github.com/vecbase/vecbase/internal/vecerr"
	"github.com/vecbase/vecbase/internal/vecmath"
)

// LSHIndex is the random-hyperplane backend: T independent hash tables,
// each with P planes, bucket data by the sign pattern of its projections
// and only rescan the union of candidate buckets on search. Grounded on
// the original LSHIndex's table/plane/seed scheme (default T=4, P=8,
// seed=42), generalized from its string-signature hashing to packed bits.
type LSHIndex struct {
	dimension int
	tables    int
	planes    int
	seed      int64

	projections [][][]float64      // [table][plane][dimension]
	buckets     []map[uint32][]string // [table] signature -> ids
	vectors     map[string][]float64  // id -> normalized vector
	signatures  map[string][]uint32   // id -> per-table signature
}

// NewLSHIndex builds an empty LSH backend with freshly drawn projection
// planes. The same seed always yields the same planes, so two indices
// built with identical parameters bucket identical data identically.
func NewLSHIndex(dimension, tables, planes int, seed int64) *LSHIndex {
	idx := &LSHIndex{
		dimension:  dimension,
		tables:     tables,
		planes:     planes,
		seed:       seed,
		vectors:    make(map[string][]float64),
		signatures: make(map[string][]uint32),
	}
	idx.drawProjections()
	return idx
}

func (idx *LSHIndex) drawProjections() {
	rng := rand.New(rand.NewSource(idx.seed))
	idx.projections = make([][][]float64, idx.tables)
	idx.buckets = make([]map[uint32][]string, idx.tables)
	for t := 0; t < idx.tables; t++ {
		planes := make([][]float64, idx.planes)
		for p := 0; p < idx.planes; p++ {
			planes[p] = vecmath.RandomHyperplane(idx.dimension, rng)
		}
		idx.projections[t] = planes
		idx.buckets[t] = make(map[uint32][]string)
	}
}

// signature packs the sign pattern of v against one table's planes into
// a bitfield, plane 0 in the least significant bit. A zero dot product
// is treated as belonging to the non-negative half-space (bit set).
func (idx *LSHIndex) signature(table int, v []float64) uint32 {
	var sig uint32
	for p, plane := range idx.projections[table] {
		if vecmath.Dot(plane, v) >= 0 {
			sig |= 1 << uint(p)
		}
	}
	return sig
}

func (idx *LSHIndex) signaturesFor(v []float64) []uint32 {
	sigs := make([]uint32, idx.tables)
	for t := range sigs {
		sigs[t] = idx.signature(t, v)
	}
	return sigs
}

func (idx *LSHIndex) Add(id string, v []float64) error {
	const op = "LSHIndex.Add"
	if _, ok := idx.vectors[id]; ok {
		return errDuplicate(op, id)
	}
	nv, err := vecmath.Normalize(v)
	if err != nil {
		return vecerr.Wrap(vecerr.DegenerateVector, op, err)
	}
	idx.insert(id, nv)
	return nil
}

func (idx *LSHIndex) insert(id string, nv []float64) {
	sigs := idx.signaturesFor(nv)
	for t, sig := range sigs {
		idx.buckets[t][sig] = append(idx.buckets[t][sig], id)
	}
	idx.vectors[id] = nv
	idx.signatures[id] = sigs
}

func (idx *LSHIndex) Remove(id string) error {
	const op = "LSHIndex.Remove"
	sigs, ok := idx.signatures[id]
	if !ok {
		return errUnknown(op, id)
	}
	idx.evict(id, sigs)
	delete(idx.vectors, id)
	delete(idx.signatures, id)
	return nil
}

func (idx *LSHIndex) evict(id string, sigs []uint32) {
	for t, sig := range sigs {
		bucket := idx.buckets[t][sig]
		for i, bid := range bucket {
			if bid == id {
				bucket[i] = bucket[len(bucket)-1]
				bucket = bucket[:len(bucket)-1]
				break
			}
		}
		if len(bucket) == 0 {
			delete(idx.buckets[t], sig)
		} else {
			idx.buckets[t][sig] = bucket
		}
	}
}

// Update is remove-then-reinsert: a changed vector can land in an
// entirely different bucket, so there is no cheaper in-place path.
func (idx *LSHIndex) Update(id string, v []float64) error {
	const op = "LSHIndex.Update"
	sigs, ok := idx.signatures[id]
	if !ok {
		return errUnknown(op, id)
	}
	nv, err := vecmath.Normalize(v)
	if err != nil {
		return vecerr.Wrap(vecerr.DegenerateVector, op, err)
	}
	idx.evict(id, sigs)
	idx.insert(id, nv)
	return nil
}

func (idx *LSHIndex) Search(query []float64, k int) ([]Result, error) {
	const op = "LSHIndex.Search"
	nq, err := vecmath.Normalize(query)
	if err != nil {
		return nil, vecerr.Wrap(vecerr.DegenerateVector, op, err)
	}
	seen := make(map[string]bool)
	var candidates []string
	for t := range idx.buckets {
		sig := idx.signature(t, nq)
		for _, id := range idx.buckets[t][sig] {
			if !seen[id] {
				seen[id] = true
				candidates = append(candidates, id)
			}
		}
	}
	results := make([]Result, len(candidates))
	for i, id := range candidates {
		results[i] = Result{ChunkID: id, Distance: 1 - vecmath.Dot(nq, idx.vectors[id])}
	}
	sortResults(results)
	if k >= 0 && k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// RebuildFrom discards every bucket and reinserts pairs from scratch,
// redrawing the same projection planes from the stored seed. Callers
// pass pairs in ascending chunk_id order so repeated rebuilds from the
// same source data are fully deterministic.
func (idx *LSHIndex) RebuildFrom(pairs []IDVector) error {
	const op = "LSHIndex.RebuildFrom"
	idx.drawProjections()
	idx.vectors = make(map[string][]float64)
	idx.signatures = make(map[string][]uint32)
	for _, pair := range pairs {
		nv, err := vecmath.Normalize(pair.Vector)
		if err != nil {
			return vecerr.Wrap(vecerr.DegenerateVector, op, err)
		}
		idx.insert(pair.ID, nv)
	}
	return nil
}

// Len reports how many vectors the backend currently holds.
func (idx *LSHIndex) Len() int {
	return len(idx.vectors)
}

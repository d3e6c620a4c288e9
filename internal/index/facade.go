package index

import "github.com/vecbase/vecbase/internal/vecerr"

// Algorithm names a nearest-neighbor backend a library can be indexed
// with.
type Algorithm string

const (
	// AlgorithmNone means the library has never been indexed.
	AlgorithmNone Algorithm = ""
	AlgorithmExact Algorithm = "exact"
	AlgorithmLSH   Algorithm = "lsh"
)

// LSHParams carries the table/plane/seed triple an LSH backend is built
// with, so a facade can rebuild identically-parameterized backends
// across materialize and snapshot-driven rebuild calls.
type LSHParams struct {
	Tables int
	Planes int
	Seed   int64
}

// Facade is the per-library indirection a store holds instead of a
// concrete backend: it lets a library defer indexing until requested,
// and swap algorithms later without its callers ever seeing a concrete
// ExactIndex or LSHIndex. Grounded on the teacher's db.DB wrapping a
// swappable VectorBackend, generalized to support runtime swap instead
// of only construction-time selection.
type Facade struct {
	lshParams LSHParams
	algorithm Algorithm
	dimension int
	backend   backend
}

// NewFacade returns an un-materialized facade. lshParams is the default
// used whenever an LSH backend is built via Materialize.
func NewFacade(lshParams LSHParams) *Facade {
	return &Facade{lshParams: lshParams}
}

// IsIndexed reports whether index_library has been called for this
// library. A zero-chunk library can be indexed with no backend yet
// materialized — its dimension is still unobserved — so this checks
// the algorithm, not the backend.
func (f *Facade) IsIndexed() bool {
	return f.algorithm != AlgorithmNone
}

// Algorithm reports the currently active algorithm, or AlgorithmNone if
// the facade has never been materialized.
func (f *Facade) Algorithm() Algorithm {
	return f.algorithm
}

// Dimension reports the embedding dimension of the active backend. Only
// meaningful once IsIndexed is true.
func (f *Facade) Dimension() int {
	return f.dimension
}

func validAlgorithm(algo Algorithm) error {
	switch algo {
	case AlgorithmExact, AlgorithmLSH:
		return nil
	default:
		return vecerr.New(vecerr.InvalidArgument, "index.validAlgorithm", "unknown algorithm: "+string(algo))
	}
}

func newBackend(algo Algorithm, dimension int, lshParams LSHParams) (backend, error) {
	switch algo {
	case AlgorithmExact:
		return NewExactIndex(), nil
	default:
		return NewLSHIndex(dimension, lshParams.Tables, lshParams.Planes, lshParams.Seed), nil
	}
}

// Materialize builds a fresh backend of algo over chunks and activates
// it. Every chunk must have dimension-length embeddings; a mismatch
// aborts before anything is touched, leaving a prior backend (if any)
// untouched.
//
// A library with no chunks yet has no observed dimension. Rather than
// draw LSH projection planes against a dimension of zero, Materialize
// records the algorithm and leaves the backend nil; OnChunkAdded builds
// the real backend the first time it sees a vector.
func (f *Facade) Materialize(algo Algorithm, dimension int, chunks []IDVector) error {
	const op = "Facade.Materialize"
	if err := validAlgorithm(algo); err != nil {
		return err
	}
	if dimension == 0 {
		if len(chunks) != 0 {
			return vecerr.New(vecerr.Internal, op, "chunks present with unobserved dimension")
		}
		f.backend = nil
		f.algorithm = algo
		f.dimension = 0
		return nil
	}
	b, err := newBackend(algo, dimension, f.lshParams)
	if err != nil {
		return err
	}
	for _, c := range chunks {
		if len(c.Vector) != dimension {
			return vecerr.New(vecerr.DimensionMismatch, op, "chunk "+c.ID+" has wrong dimension")
		}
		if err := b.Add(c.ID, c.Vector); err != nil {
			return err
		}
	}
	f.backend = b
	f.algorithm = algo
	f.dimension = dimension
	return nil
}

// OnChunkAdded forwards an insertion to the active backend. It is a
// no-op if the facade has never been indexed. If the facade is indexed
// but its dimension is still unobserved, the first vector fixes the
// dimension and materializes the backend.
func (f *Facade) OnChunkAdded(id string, v []float64) error {
	const op = "Facade.OnChunkAdded"
	if f.algorithm == AlgorithmNone {
		return nil
	}
	if f.backend == nil {
		b, err := newBackend(f.algorithm, len(v), f.lshParams)
		if err != nil {
			return err
		}
		f.backend = b
		f.dimension = len(v)
		return f.backend.Add(id, v)
	}
	if len(v) != f.dimension {
		return vecerr.New(vecerr.Internal, op, "dimension invariant violated")
	}
	return f.backend.Add(id, v)
}

// OnChunkRemoved forwards a removal to the active backend, or no-ops if
// unindexed.
func (f *Facade) OnChunkRemoved(id string) error {
	if f.backend == nil {
		return nil
	}
	return f.backend.Remove(id)
}

// OnChunkUpdated forwards an in-place update to the active backend, or
// no-ops if unindexed.
func (f *Facade) OnChunkUpdated(id string, v []float64) error {
	if f.backend == nil {
		return nil
	}
	if len(v) != f.dimension {
		return vecerr.New(vecerr.Internal, "Facade.OnChunkUpdated", "dimension invariant violated")
	}
	return f.backend.Update(id, v)
}

// Search runs a k-nearest-neighbor query against the active backend. A
// library that has been indexed but never observed a chunk (an empty
// library indexed with nothing to build a backend from) has no results
// to give and no dimension to validate against, so it returns an empty
// result set rather than a NotIndexed error.
func (f *Facade) Search(query []float64, k int) ([]Result, error) {
	const op = "Facade.Search"
	if f.algorithm == AlgorithmNone {
		return nil, vecerr.New(vecerr.NotIndexed, op, "library has not been indexed")
	}
	if f.backend == nil {
		return nil, nil
	}
	if len(query) != f.dimension {
		return nil, vecerr.New(vecerr.DimensionMismatch, op, "query embedding has wrong dimension")
	}
	return f.backend.Search(query, k)
}

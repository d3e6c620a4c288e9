// Package index implements the nearest-neighbor indexing core: an exact
// brute-force backend, a random-projection LSH backend, and a facade that
// lets a library hot-swap between them without losing data. This mirrors
// the role the teacher's internal/db.VectorBackend interface played —
// one small capability set, multiple interchangeable implementations —
// generalized from "storage backend" to "nearest-neighbor backend."
package index

import (
	"sort"

	"github.com/vecbase/vecbase/internal/vecerr"
)

// IDVector pairs a chunk id with its embedding, the unit of work every
// backend operation and the facade's materialize/swap paths move around.
type IDVector struct {
	ID     string
	Vector []float64
}

// Result is one scored candidate from a search.
type Result struct {
	ChunkID  string
	Distance float64
}

// backend is the capability set both ExactIndex and LSHIndex implement.
// Avoiding a deeper inheritance hierarchy per the design notes: algorithm
// polymorphism is a tagged variant behind this one small interface.
type backend interface {
	Add(id string, v []float64) error
	Remove(id string) error
	Update(id string, v []float64) error
	Search(query []float64, k int) ([]Result, error)
}

// sortResults orders results by ascending distance, breaking ties by
// ascending chunk_id so results are deterministic across identical runs.
func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ChunkID < results[j].ChunkID
	})
}

func errDuplicate(op, id string) error {
	return vecerr.New(vecerr.DuplicateId, op, "id already present: "+id)
}

func errUnknown(op, id string) error {
	return vecerr.New(vecerr.NotFound, op, "unknown id: "+id)
}

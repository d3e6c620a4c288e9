package store

import (
	"reflect"

	"github.com/vecbase/vecbase/internal/vecerr"
)

// SearchResult pairs a matched chunk with its cosine distance from the
// query.
type SearchResult struct {
	Distance float64
	Chunk    Chunk
}

// Search runs a k-nearest-neighbor query against a library's active
// index. metadata_filter, if non-empty, is applied as an exact-match
// filter on every candidate before top-k truncation — the spec's fixed
// resolution of an otherwise ambiguous ordering, chosen because
// filtering after truncation can silently return fewer than k matches
// even when k matching chunks exist.
func (s *Store) Search(libraryID string, embedding []float64, k int, metadataFilter Metadata) ([]SearchResult, error) {
	const op = "Store.Search"
	if k <= 0 {
		return nil, vecerr.New(vecerr.InvalidArgument, op, "k must be positive")
	}
	s.mu.RLock()
	st, err := s.lookupLocked(libraryID)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	// -1 requests every candidate, sorted but not truncated: filtering
	// happens here, before we take the top k, not inside the backend.
	candidates, err := st.facade.Search(embedding, -1)
	if err != nil {
		return nil, err
	}

	out := make([]SearchResult, 0, k)
	for _, cand := range candidates {
		chunk, ok := st.chunks[cand.ChunkID]
		if !ok {
			continue
		}
		if len(metadataFilter) > 0 && !matchesFilter(chunk.Metadata, metadataFilter) {
			continue
		}
		out = append(out, SearchResult{Distance: cand.Distance, Chunk: chunk.clone()})
		if len(out) == k {
			break
		}
	}
	return out, nil
}

func matchesFilter(metadata, filter Metadata) bool {
	for key, want := range filter {
		got, ok := metadata[key]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

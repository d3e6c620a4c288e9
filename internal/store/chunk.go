package store

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vecbase/vecbase/internal/vecerr"
	"github.com/vecbase/vecbase/internal/vecmath"
)

// validateNewChunksLocked checks text/embedding well-formedness, fills
// in minted ids, and rejects duplicates against both the batch itself
// and the library's current chunk set — library-wide, not just within
// one document, since the index facade keys candidates by chunk_id
// alone and a collision across documents would silently corrupt it.
func (st *libraryState) validateNewChunksLocked(inputs []ChunkInput) ([]ChunkInput, error) {
	const op = "store.validateNewChunks"
	if len(inputs) == 0 {
		return nil, nil
	}
	dimension := st.lib.Dimension
	seen := make(map[string]bool, len(inputs))
	out := make([]ChunkInput, len(inputs))
	for i, in := range inputs {
		if in.Text == "" {
			return nil, vecerr.New(vecerr.InvalidArgument, op, "chunk text must be non-empty")
		}
		if len(in.Embedding) == 0 || !vecmath.Finite(in.Embedding) {
			return nil, vecerr.New(vecerr.InvalidArgument, op, "chunk embedding must be a non-empty finite vector")
		}
		if vecmath.Norm(in.Embedding) == 0 {
			return nil, vecerr.New(vecerr.DegenerateVector, op, "chunk embedding has zero norm")
		}
		if dimension == 0 {
			dimension = len(in.Embedding)
		} else if len(in.Embedding) != dimension {
			return nil, vecerr.New(vecerr.DimensionMismatch, op, "chunk embedding dimension disagrees with library dimension")
		}
		id := in.ID
		if id == "" {
			id = uuid.NewString()
		}
		if seen[id] {
			return nil, vecerr.New(vecerr.DuplicateId, op, "duplicate chunk id within batch: "+id)
		}
		if _, exists := st.chunks[id]; exists {
			return nil, vecerr.New(vecerr.DuplicateId, op, "chunk id already exists in library: "+id)
		}
		seen[id] = true
		in.ID = id
		out[i] = in
	}
	return out, nil
}

// insertChunksLocked installs already-validated chunks into the
// document and keeps the index facade in sync in the same critical
// section. Every input must have already passed validateNewChunksLocked.
func (st *libraryState) insertChunksLocked(documentID string, inputs []ChunkInput, now time.Time) ([]Chunk, error) {
	const op = "store.insertChunks"
	if len(inputs) == 0 {
		return nil, nil
	}
	if st.lib.Dimension == 0 {
		st.lib.Dimension = len(inputs[0].Embedding)
	}
	out := make([]Chunk, len(inputs))
	for i, in := range inputs {
		c := &Chunk{
			ID:         in.ID,
			DocumentID: documentID,
			LibraryID:  st.lib.ID,
			Text:       in.Text,
			Embedding:  cloneEmbedding(in.Embedding),
			Metadata:   cloneMetadata(in.Metadata),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		st.chunks[c.ID] = c
		st.docOrder[documentID] = append(st.docOrder[documentID], c.ID)
		if err := st.facade.OnChunkAdded(c.ID, c.Embedding); err != nil {
			return nil, vecerr.Wrap(vecerr.Internal, op, err)
		}
		out[i] = c.clone()
	}
	st.lib.UpdatedAt = now
	return out, nil
}

// CreateChunk creates a single chunk under an existing document.
func (s *Store) CreateChunk(libraryID, documentID string, input ChunkInput) (Chunk, error) {
	const op = "Store.CreateChunk"
	s.mu.RLock()
	st, err := s.lookupLocked(libraryID)
	s.mu.RUnlock()
	if err != nil {
		return Chunk{}, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.documents[documentID]; !ok {
		return Chunk{}, vecerr.New(vecerr.NotFound, op, "document not found: "+documentID)
	}
	validated, err := st.validateNewChunksLocked([]ChunkInput{input})
	if err != nil {
		return Chunk{}, err
	}
	created, err := st.insertChunksLocked(documentID, validated, s.now())
	if err != nil {
		return Chunk{}, err
	}
	return created[0], nil
}

// BulkCreateChunks creates every chunk in inputs under documentID,
// all-or-nothing: if any chunk fails validation, none is inserted and
// the library is left byte-identical to its pre-call state.
func (s *Store) BulkCreateChunks(libraryID, documentID string, inputs []ChunkInput) ([]Chunk, error) {
	const op = "Store.BulkCreateChunks"
	s.mu.RLock()
	st, err := s.lookupLocked(libraryID)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.documents[documentID]; !ok {
		return nil, vecerr.New(vecerr.NotFound, op, "document not found: "+documentID)
	}
	validated, err := st.validateNewChunksLocked(inputs)
	if err != nil {
		return nil, err
	}
	return st.insertChunksLocked(documentID, validated, s.now())
}

// GetChunk returns a snapshot of one chunk.
func (s *Store) GetChunk(libraryID, chunkID string) (Chunk, error) {
	const op = "Store.GetChunk"
	s.mu.RLock()
	st, err := s.lookupLocked(libraryID)
	s.mu.RUnlock()
	if err != nil {
		return Chunk{}, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	c, ok := st.chunks[chunkID]
	if !ok {
		return Chunk{}, vecerr.New(vecerr.NotFound, op, "chunk not found: "+chunkID)
	}
	return c.clone(), nil
}

// ListChunks returns every chunk in a library, or in one document of it
// if documentID is non-empty, ordered by ascending chunk_id.
func (s *Store) ListChunks(libraryID, documentID string) ([]Chunk, error) {
	const op = "Store.ListChunks"
	s.mu.RLock()
	st, err := s.lookupLocked(libraryID)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	var ids []string
	if documentID == "" {
		ids = make([]string, 0, len(st.chunks))
		for id := range st.chunks {
			ids = append(ids, id)
		}
	} else {
		if _, ok := st.documents[documentID]; !ok {
			return nil, vecerr.New(vecerr.NotFound, op, "document not found: "+documentID)
		}
		ids = append(ids, st.docOrder[documentID]...)
	}
	sort.Strings(ids)
	out := make([]Chunk, len(ids))
	for i, id := range ids {
		out[i] = st.chunks[id].clone()
	}
	return out, nil
}

// UpdateChunk replaces a chunk's text, embedding, and/or metadata.
// Passing a nil embedding leaves the existing embedding untouched;
// passing a non-nil one re-validates and reindexes it.
func (s *Store) UpdateChunk(libraryID, chunkID, text string, embedding []float64, metadata Metadata) (Chunk, error) {
	const op = "Store.UpdateChunk"
	s.mu.RLock()
	st, err := s.lookupLocked(libraryID)
	s.mu.RUnlock()
	if err != nil {
		return Chunk{}, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	c, ok := st.chunks[chunkID]
	if !ok {
		return Chunk{}, vecerr.New(vecerr.NotFound, op, "chunk not found: "+chunkID)
	}
	if embedding != nil {
		if !vecmath.Finite(embedding) {
			return Chunk{}, vecerr.New(vecerr.InvalidArgument, op, "chunk embedding must be finite")
		}
		if vecmath.Norm(embedding) == 0 {
			return Chunk{}, vecerr.New(vecerr.DegenerateVector, op, "chunk embedding has zero norm")
		}
		if len(embedding) != st.lib.Dimension {
			return Chunk{}, vecerr.New(vecerr.DimensionMismatch, op, "chunk embedding dimension disagrees with library dimension")
		}
		if err := st.facade.OnChunkUpdated(chunkID, embedding); err != nil {
			return Chunk{}, vecerr.Wrap(vecerr.Internal, op, err)
		}
		c.Embedding = cloneEmbedding(embedding)
	}
	if text != "" {
		c.Text = text
	}
	c.Metadata = cloneMetadata(metadata)
	c.UpdatedAt = s.now()
	return c.clone(), nil
}

// DeleteChunk removes a chunk and keeps the library's index in sync.
func (s *Store) DeleteChunk(libraryID, chunkID string) error {
	const op = "Store.DeleteChunk"
	s.mu.RLock()
	st, err := s.lookupLocked(libraryID)
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	c, ok := st.chunks[chunkID]
	if !ok {
		return vecerr.New(vecerr.NotFound, op, "chunk not found: "+chunkID)
	}
	if err := st.facade.OnChunkRemoved(chunkID); err != nil {
		return vecerr.Wrap(vecerr.Internal, op, err)
	}
	delete(st.chunks, chunkID)
	order := st.docOrder[c.DocumentID]
	for i, id := range order {
		if id == chunkID {
			st.docOrder[c.DocumentID] = append(order[:i], order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *Chunk) clone() Chunk {
	out := *c
	out.Metadata = cloneMetadata(c.Metadata)
	out.Embedding = cloneEmbedding(c.Embedding)
	return out
}

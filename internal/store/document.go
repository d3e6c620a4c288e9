package store

import (
	"sort"

	"github.com/google/uuid"

	"github.com/vecbase/vecbase/internal/vecerr"
)

// ChunkInput is a caller-supplied chunk awaiting an id, used both for
// inline document creation and standalone chunk creation.
type ChunkInput struct {
	ID        string
	Text      string
	Embedding []float64
	Metadata  Metadata
}

// CreateDocument creates a document in libraryID, optionally with an
// inline batch of chunks created atomically alongside it: if any chunk
// in chunks is invalid, neither the document nor any chunk is created.
func (s *Store) CreateDocument(libraryID, id, title string, metadata Metadata, chunks []ChunkInput) (Document, []Chunk, error) {
	const op = "Store.CreateDocument"
	s.mu.RLock()
	st, err := s.lookupLocked(libraryID)
	s.mu.RUnlock()
	if err != nil {
		return Document{}, nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := st.documents[id]; exists {
		return Document{}, nil, vecerr.New(vecerr.DuplicateId, op, "document already exists: "+id)
	}
	if title == "" {
		return Document{}, nil, vecerr.New(vecerr.InvalidArgument, op, "title must be non-empty")
	}

	validated, err := st.validateNewChunksLocked(chunks)
	if err != nil {
		return Document{}, nil, err
	}

	now := s.now()
	doc := &Document{
		ID:        id,
		LibraryID: libraryID,
		Title:     title,
		Metadata:  cloneMetadata(metadata),
		CreatedAt: now,
		UpdatedAt: now,
	}
	st.documents[id] = doc
	st.docOrder[id] = nil

	created, err := st.insertChunksLocked(id, validated, now)
	if err != nil {
		delete(st.documents, id)
		delete(st.docOrder, id)
		return Document{}, nil, err
	}
	return doc.clone(), created, nil
}

// GetDocument returns a snapshot of one document.
func (s *Store) GetDocument(libraryID, documentID string) (Document, error) {
	const op = "Store.GetDocument"
	s.mu.RLock()
	st, err := s.lookupLocked(libraryID)
	s.mu.RUnlock()
	if err != nil {
		return Document{}, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	doc, ok := st.documents[documentID]
	if !ok {
		return Document{}, vecerr.New(vecerr.NotFound, op, "document not found: "+documentID)
	}
	return doc.clone(), nil
}

// ListDocuments returns every document in a library, ordered by id.
func (s *Store) ListDocuments(libraryID string) ([]Document, error) {
	s.mu.RLock()
	st, err := s.lookupLocked(libraryID)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	ids := make([]string, 0, len(st.documents))
	for id := range st.documents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Document, len(ids))
	for i, id := range ids {
		out[i] = st.documents[id].clone()
	}
	return out, nil
}

// UpdateDocument replaces a document's title and/or metadata.
func (s *Store) UpdateDocument(libraryID, documentID, title string, metadata Metadata) (Document, error) {
	const op = "Store.UpdateDocument"
	s.mu.RLock()
	st, err := s.lookupLocked(libraryID)
	s.mu.RUnlock()
	if err != nil {
		return Document{}, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	doc, ok := st.documents[documentID]
	if !ok {
		return Document{}, vecerr.New(vecerr.NotFound, op, "document not found: "+documentID)
	}
	if title != "" {
		doc.Title = title
	}
	doc.Metadata = cloneMetadata(metadata)
	doc.UpdatedAt = s.now()
	return doc.clone(), nil
}

// DeleteDocument removes a document and cascades to every chunk it
// owns, keeping the library's index in sync in the same critical
// section.
func (s *Store) DeleteDocument(libraryID, documentID string) error {
	const op = "Store.DeleteDocument"
	s.mu.RLock()
	st, err := s.lookupLocked(libraryID)
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.documents[documentID]; !ok {
		return vecerr.New(vecerr.NotFound, op, "document not found: "+documentID)
	}
	for _, chunkID := range st.docOrder[documentID] {
		delete(st.chunks, chunkID)
		if err := st.facade.OnChunkRemoved(chunkID); err != nil {
			return vecerr.Wrap(vecerr.Internal, op, err)
		}
	}
	delete(st.docOrder, documentID)
	delete(st.documents, documentID)
	return nil
}

func (doc *Document) clone() Document {
	d := *doc
	d.Metadata = cloneMetadata(doc.Metadata)
	return d
}

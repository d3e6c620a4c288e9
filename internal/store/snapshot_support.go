package store

import "sort"

// LibraryExport is a consistent point-in-time copy of one library's
// entire contents, used by the snapshotter to serialize state off the
// hot path.
type LibraryExport struct {
	Library   Library
	Documents []Document
	Chunks    []Chunk
}

// ExportAll returns a consistent shallow copy of every library's
// entities. Per the concurrency design, it acquires the library-set
// lock, then every library lock in ascending id order, copies what it
// needs, and releases everything before returning — serialization
// itself happens off this critical section.
func (s *Store) ExportAll() []LibraryExport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.sortedLibraryIDs()
	states := make([]*libraryState, len(ids))
	for i, id := range ids {
		states[i] = s.libraries[id]
		states[i].mu.Lock()
	}

	out := make([]LibraryExport, len(states))
	for i, st := range states {
		out[i] = LibraryExport{
			Library:   st.lib.clone(),
			Documents: exportDocumentsLocked(st),
			Chunks:    exportChunksLocked(st),
		}
	}
	for _, st := range states {
		st.mu.Unlock()
	}
	return out
}

func exportDocumentsLocked(st *libraryState) []Document {
	ids := make([]string, 0, len(st.documents))
	for id := range st.documents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Document, len(ids))
	for i, id := range ids {
		out[i] = st.documents[id].clone()
	}
	return out
}

func exportChunksLocked(st *libraryState) []Chunk {
	ids := make([]string, 0, len(st.chunks))
	for id := range st.chunks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Chunk, len(ids))
	for i, id := range ids {
		out[i] = st.chunks[id].clone()
	}
	return out
}

// RestoreLibrary installs a library and its entities verbatim, bypassing
// the normal create-time validation: this is trusted data already
// validated when it was first written, read back from a snapshot or
// bootstrap seed file. If lib.IsIndexed, the caller is responsible for
// invoking IndexLibrary afterward — LSH state is never trusted from
// disk and must always be rebuilt from the restored chunks.
func (s *Store) RestoreLibrary(lib Library, documents []Document, chunks []Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := newLibraryState(lib, s.lshParams)
	st.lib.Metadata = cloneMetadata(lib.Metadata)
	for _, doc := range documents {
		d := doc
		d.Metadata = cloneMetadata(doc.Metadata)
		st.documents[d.ID] = &d
		st.docOrder[d.ID] = nil
	}
	for _, chunk := range chunks {
		c := chunk
		c.Metadata = cloneMetadata(chunk.Metadata)
		c.Embedding = cloneEmbedding(chunk.Embedding)
		st.chunks[c.ID] = &c
		st.docOrder[c.DocumentID] = append(st.docOrder[c.DocumentID], c.ID)
	}
	s.libraries[lib.ID] = st
}

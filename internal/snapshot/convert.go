package snapshot

import (
	"github.com/vecbase/vecbase/internal/store"
)

func toPersisted(exports []store.LibraryExport) persistedState {
	libs := make([]persistedLibrary, len(exports))
	for i, exp := range exports {
		docs := make(map[string]*persistedDocument, len(exp.Documents))
		ordered := make([]*persistedDocument, 0, len(exp.Documents))
		for _, d := range exp.Documents {
			pd := &persistedDocument{
				ID:        d.ID,
				Title:     d.Title,
				Metadata:  map[string]any(d.Metadata),
				CreatedAt: d.CreatedAt,
				UpdatedAt: d.UpdatedAt,
			}
			docs[d.ID] = pd
			ordered = append(ordered, pd)
		}
		for _, c := range exp.Chunks {
			pd, ok := docs[c.DocumentID]
			if !ok {
				continue
			}
			pd.Chunks = append(pd.Chunks, persistedChunk{
				ID:        c.ID,
				Text:      c.Text,
				Embedding: c.Embedding,
				Metadata:  map[string]any(c.Metadata),
				CreatedAt: c.CreatedAt,
				UpdatedAt: c.UpdatedAt,
			})
		}
		pdocs := make([]persistedDocument, len(ordered))
		for j, pd := range ordered {
			pdocs[j] = *pd
		}
		libs[i] = persistedLibrary{
			ID:        exp.Library.ID,
			Metadata:  map[string]any(exp.Library.Metadata),
			CreatedAt: exp.Library.CreatedAt,
			UpdatedAt: exp.Library.UpdatedAt,
			IsIndexed: exp.Library.IsIndexed,
			Algorithm: exp.Library.IndexAlgorithm,
			Dimension: exp.Library.Dimension,
			Documents: pdocs,
		}
	}
	return persistedState{SchemaVersion: schemaVersion, Libraries: libs}
}

// restoreInto installs every persisted library into s verbatim, then
// rebuilds each is_indexed library's backend from its restored chunks —
// LSH bucket layout is never trusted byte-for-byte from disk.
func restoreInto(s *store.Store, state persistedState) error {
	for _, pl := range state.Libraries {
		lib := store.Library{
			ID:             pl.ID,
			Metadata:       store.Metadata(pl.Metadata),
			CreatedAt:      pl.CreatedAt,
			UpdatedAt:      pl.UpdatedAt,
			IsIndexed:      pl.IsIndexed,
			IndexAlgorithm: pl.Algorithm,
			Dimension:      pl.Dimension,
		}
		docs := make([]store.Document, len(pl.Documents))
		var chunks []store.Chunk
		for i, pd := range pl.Documents {
			docs[i] = store.Document{
				ID:        pd.ID,
				LibraryID: pl.ID,
				Title:     pd.Title,
				Metadata:  store.Metadata(pd.Metadata),
				CreatedAt: pd.CreatedAt,
				UpdatedAt: pd.UpdatedAt,
			}
			for _, pc := range pd.Chunks {
				chunks = append(chunks, store.Chunk{
					ID:         pc.ID,
					DocumentID: pd.ID,
					LibraryID:  pl.ID,
					Text:       pc.Text,
					Embedding:  pc.Embedding,
					Metadata:   store.Metadata(pc.Metadata),
					CreatedAt:  pc.CreatedAt,
					UpdatedAt:  pc.UpdatedAt,
				})
			}
		}
		s.RestoreLibrary(lib, docs, chunks)
		if pl.IsIndexed {
			if err := s.IndexLibrary(pl.ID, pl.Algorithm); err != nil {
				return err
			}
		}
	}
	return nil
}

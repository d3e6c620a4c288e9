package snapshot

import (
	"encoding/json"
	"os"

	"github.com/vecbase/vecbase/internal/store"
	"github.com/vecbase/vecbase/internal/vecerr"
)

// defaultLibraryID names the library a sample-embeddings seed file is
// loaded into, matching the original bootstrap's "default_library".
const defaultLibraryID = "default_library"

type sampleItem struct {
	Text      string         `json:"text"`
	Embedding []float64      `json:"embedding"`
	Metadata  map[string]any `json:"metadata"`
}

// Bootstrap brings a freshly constructed Store to its startup state:
// adopt the canonical snapshot if it parses, else its backup. If neither
// file exists, seed from a sample-embeddings file if one is configured,
// else start empty. A snapshot file that exists but cannot be loaded,
// with no loadable backup, is returned as an error.
func Bootstrap(st *store.Store, snapshotPath, sampleEmbeddingsPath, defaultAlgorithm string) error {
	loaded, err := Load(st, snapshotPath)
	if err != nil {
		return err
	}
	if loaded {
		return nil
	}
	if sampleEmbeddingsPath == "" {
		return nil
	}
	return loadSampleEmbeddings(st, sampleEmbeddingsPath, defaultAlgorithm)
}

// loadSampleEmbeddings groups a flat list of {text, embedding, metadata}
// items by metadata.document_title into documents within one library,
// grounded on the original _initialize_from_embeddings_file's grouping
// pass over sample_embeddings/embeddings.txt.
func loadSampleEmbeddings(st *store.Store, path, algorithm string) error {
	const op = "snapshot.loadSampleEmbeddings"
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return vecerr.Wrap(vecerr.PersistenceError, op, err)
	}
	var items []sampleItem
	if err := json.Unmarshal(data, &items); err != nil {
		return vecerr.Wrap(vecerr.PersistenceError, op, err)
	}
	if len(items) == 0 {
		return nil
	}

	if _, err := st.CreateLibrary(defaultLibraryID, nil); err != nil {
		return err
	}

	byTitle := make(map[string][]sampleItem)
	var titleOrder []string
	for _, item := range items {
		title := "Untitled"
		if t, ok := item.Metadata["document_title"].(string); ok && t != "" {
			title = t
		}
		if _, seen := byTitle[title]; !seen {
			titleOrder = append(titleOrder, title)
		}
		byTitle[title] = append(byTitle[title], item)
	}

	for _, title := range titleOrder {
		group := byTitle[title]
		chunkInputs := make([]store.ChunkInput, len(group))
		for i, item := range group {
			chunkInputs[i] = store.ChunkInput{Text: item.Text, Embedding: item.Embedding, Metadata: store.Metadata(item.Metadata)}
		}
		if _, _, err := st.CreateDocument(defaultLibraryID, "", title, store.Metadata{"document_title": title}, chunkInputs); err != nil {
			return err
		}
	}

	return st.IndexLibrary(defaultLibraryID, algorithm)
}

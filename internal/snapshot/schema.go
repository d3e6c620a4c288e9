// Package snapshot persists and restores the store's entities to a
// single on-disk file. The format is private and versioned: LSH buckets
// are never trusted from disk, only entities and the algorithm
// selection that lets the facade rebuild them. Grounded on the original
// VectorDatabase's save_to_disk/_load_from_disk pickle-to-temp-then-
// rename pattern, translated to a JSON blob with an explicit schema
// version instead of a language-specific pickle format.
package snapshot

import "time"

// schemaVersion is bumped whenever the persisted shape changes
// incompatibly.
const schemaVersion = 1

type persistedState struct {
	SchemaVersion int                `json:"schema_version"`
	Libraries     []persistedLibrary `json:"libraries"`
}

// persistedLibrary carries no LSH table/plane/seed triple: those are a
// store-wide config value handed uniformly to every library's facade at
// startup, not a per-library setting, so there is nothing per-library to
// round-trip through a snapshot.
type persistedLibrary struct {
	ID        string              `json:"id"`
	Metadata  map[string]any      `json:"metadata"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	IsIndexed bool                `json:"is_indexed"`
	Algorithm string              `json:"algorithm,omitempty"`
	Dimension int                 `json:"dimension"`
	Documents []persistedDocument `json:"documents"`
}

type persistedDocument struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Metadata  map[string]any  `json:"metadata"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Chunks    []persistedChunk `json:"chunks"`
}

type persistedChunk struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	Embedding []float64      `json:"embedding"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

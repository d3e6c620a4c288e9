package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vecbase/vecbase/internal/index"
	"github.com/vecbase/vecbase/internal/vecerr"
)

// libraryState is everything protected by one library's lock: the
// library's own mutable fields, its documents and chunks, and its index
// facade. Go has no built-in reentrant mutex, so exported Store methods
// lock once and delegate to unexported *Locked helpers that assume the
// lock is already held — the same observable atomicity the spec's
// reentrant-lock model calls for, without a real reentrant primitive.
type libraryState struct {
	mu sync.Mutex

	lib Library

	documents map[string]*Document
	chunks    map[string]*Chunk // chunk_id -> chunk, scoped to the whole library
	docOrder  map[string][]string // document_id -> chunk ids in insertion order

	facade *index.Facade
}

func newLibraryState(lib Library, lshParams index.LSHParams) *libraryState {
	return &libraryState{
		lib:       lib,
		documents: make(map[string]*Document),
		chunks:    make(map[string]*Chunk),
		docOrder:  make(map[string][]string),
		facade:    index.NewFacade(lshParams),
	}
}

// Store is the authoritative in-memory state for every library, document,
// and chunk. The library-set lock guards map membership (create/delete
// library); each library's own lock guards everything inside it.
// Grounded on the original VectorDatabase's single RLock-protected
// dictionary-of-libraries shape, split into a two-tier lock per the
// concurrency design (library-set lock distinct from per-library locks,
// so unrelated libraries never contend with each other).
type Store struct {
	mu        sync.RWMutex
	libraries map[string]*libraryState
	lshParams index.LSHParams
	now       func() time.Time
}

// NewStore returns an empty store. lshParams is handed to every library's
// facade and used whenever a library is indexed with the lsh algorithm;
// there is no per-library override.
func NewStore(lshParams index.LSHParams) *Store {
	return &Store{
		libraries: make(map[string]*libraryState),
		lshParams: lshParams,
		now:       time.Now,
	}
}

// sortedLibraryIDs returns every library id in ascending order, the
// fixed traversal order the concurrency model requires whenever more
// than one library lock must be taken (snapshotting, bulk reporting).
func (s *Store) sortedLibraryIDs() []string {
	ids := make([]string, 0, len(s.libraries))
	for id := range s.libraries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) lookupLocked(id string) (*libraryState, error) {
	st, ok := s.libraries[id]
	if !ok {
		return nil, vecerr.New(vecerr.NotFound, "Store", "library not found: "+id)
	}
	return st, nil
}

// CreateLibrary registers a new, empty, unindexed library. If id is
// empty, the store mints a unique opaque id (the spec permits either).
func (s *Store) CreateLibrary(id string, metadata Metadata) (Library, error) {
	const op = "Store.CreateLibrary"
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := s.libraries[id]; exists {
		return Library{}, vecerr.New(vecerr.DuplicateId, op, "library already exists: "+id)
	}
	now := s.now()
	lib := Library{
		ID:        id,
		Metadata:  cloneMetadata(metadata),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.libraries[id] = newLibraryState(lib, s.lshParams)
	return lib.clone(), nil
}

// GetLibrary returns a snapshot of one library's metadata.
func (s *Store) GetLibrary(id string) (Library, error) {
	s.mu.RLock()
	st, err := s.lookupLocked(id)
	s.mu.RUnlock()
	if err != nil {
		return Library{}, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.lib.clone(), nil
}

// ListLibraries returns a snapshot of every library, ordered by id.
func (s *Store) ListLibraries() []Library {
	s.mu.RLock()
	ids := s.sortedLibraryIDs()
	states := make([]*libraryState, len(ids))
	for i, id := range ids {
		states[i] = s.libraries[id]
	}
	s.mu.RUnlock()

	out := make([]Library, len(states))
	for i, st := range states {
		st.mu.Lock()
		out[i] = st.lib.clone()
		st.mu.Unlock()
	}
	return out
}

// UpdateLibrary replaces a library's metadata.
func (s *Store) UpdateLibrary(id string, metadata Metadata) (Library, error) {
	s.mu.RLock()
	st, err := s.lookupLocked(id)
	s.mu.RUnlock()
	if err != nil {
		return Library{}, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.lib.Metadata = cloneMetadata(metadata)
	st.lib.UpdatedAt = s.now()
	return st.lib.clone(), nil
}

// DeleteLibrary removes a library and cascades to every document and
// chunk it owns. The cascade runs as a single critical section: it
// cannot partially succeed.
func (s *Store) DeleteLibrary(id string) error {
	const op = "Store.DeleteLibrary"
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.lookupLocked(id)
	if err != nil {
		return vecerr.Wrap(vecerr.NotFound, op, err)
	}
	st.mu.Lock()
	delete(s.libraries, id)
	st.mu.Unlock()
	return nil
}

// IndexLibrary materializes (or re-materializes) an index over every
// chunk currently in the library, using algorithm. Chunks are inserted
// in ascending chunk_id order for determinism.
func (s *Store) IndexLibrary(id, algorithm string) error {
	const op = "Store.IndexLibrary"
	algo, err := parseAlgorithm(algorithm)
	if err != nil {
		return vecerr.Wrap(vecerr.InvalidArgument, op, err)
	}
	s.mu.RLock()
	st, err := s.lookupLocked(id)
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.indexLocked(algo)
}

func (st *libraryState) indexLocked(algo index.Algorithm) error {
	pairs := st.chunkPairsLocked()
	dimension := st.lib.Dimension
	if err := st.facade.Materialize(algo, dimension, pairs); err != nil {
		return err
	}
	st.lib.IsIndexed = true
	st.lib.IndexAlgorithm = string(algo)
	return nil
}

func (st *libraryState) chunkPairsLocked() []index.IDVector {
	ids := make([]string, 0, len(st.chunks))
	for id := range st.chunks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	pairs := make([]index.IDVector, len(ids))
	for i, id := range ids {
		pairs[i] = index.IDVector{ID: id, Vector: cloneEmbedding(st.chunks[id].Embedding)}
	}
	return pairs
}

func parseAlgorithm(s string) (index.Algorithm, error) {
	switch s {
	case "", string(index.AlgorithmExact):
		return index.AlgorithmExact, nil
	case string(index.AlgorithmLSH):
		return index.AlgorithmLSH, nil
	default:
		return "", vecerr.New(vecerr.InvalidArgument, "store.parseAlgorithm", "unknown algorithm: "+s)
	}
}

// ChunkCount returns the total number of chunks in a library.
func (s *Store) ChunkCount(libraryID string) (int, error) {
	s.mu.RLock()
	st, err := s.lookupLocked(libraryID)
	s.mu.RUnlock()
	if err != nil {
		return 0, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.chunks), nil
}

func (l Library) clone() Library {
	l.Metadata = cloneMetadata(l.Metadata)
	return l
}

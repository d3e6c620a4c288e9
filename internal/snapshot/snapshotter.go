package snapshot

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vecbase/vecbase/internal/store"
	"github.com/vecbase/vecbase/internal/vecerr"
)

// Snapshotter periodically serializes a Store to disk and coalesces
// concurrent write requests into a single in-flight writer. Grounded on
// internal/index/watcher.go's debounce-ticker/select-loop shape for its
// background task, and on the original VectorDatabase's periodic save
// thread for the dirty-flag coalescing policy.
type Snapshotter struct {
	store *store.Store

	path     string
	interval time.Duration

	writeMu sync.Mutex // serializes actual disk writes; distinct from any library lock
	dirty   atomic.Bool
	writing atomic.Bool

	stop chan struct{}
	done chan struct{}
}

// New returns a Snapshotter that writes st to path every interval.
func New(st *store.Store, path string, interval time.Duration) *Snapshotter {
	return &Snapshotter{
		store:    st,
		path:     path,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// MarkDirty flags that state has changed since the last successful
// write, so the next tick (or in-flight writer) picks it up.
func (s *Snapshotter) MarkDirty() {
	s.dirty.Store(true)
}

// Run blocks until Stop is called, writing on each tick at which state
// is marked dirty. Intended to be launched in its own goroutine.
func (s *Snapshotter) Run() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if s.dirty.Load() {
				if err := s.Write(); err != nil {
					log.Printf("snapshot: periodic write failed: %v", err)
				}
			}
		}
	}
}

// Stop signals Run to exit and waits for it to do so.
func (s *Snapshotter) Stop() {
	close(s.stop)
	<-s.done
}

// Write serializes the current store state and atomically replaces the
// canonical snapshot file. Concurrent calls coalesce: if a write is
// already in flight, this call just marks dirty and returns, trusting
// the in-flight writer to pick up the latest state before it finishes.
func (s *Snapshotter) Write() error {
	if !s.writing.CompareAndSwap(false, true) {
		s.dirty.Store(true)
		return nil
	}
	defer s.writing.Store(false)

	for {
		s.dirty.Store(false)
		exports := s.store.ExportAll()
		state := toPersisted(exports)
		if err := s.writeAtomic(state); err != nil {
			s.dirty.Store(true)
			return vecerr.Wrap(vecerr.PersistenceError, "Snapshotter.Write", err)
		}
		if !s.dirty.Load() {
			return nil
		}
	}
}

func (s *Snapshotter) writeAtomic(state persistedState) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	tmpPath := s.path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if _, err := os.Stat(s.path); err == nil {
		if err := os.Rename(s.path, s.path+".bak"); err != nil {
			return err
		}
	}
	return os.Rename(tmpPath, s.path)
}

// Load reads the canonical snapshot at path, falling back to its backup
// if the canonical file is missing or fails to parse. It returns
// (false, nil) only if neither file exists, so the caller can fall
// further back to a seed file. A snapshot that exists but cannot be
// loaded, with no loadable backup, is a PersistenceError.
func Load(st *store.Store, path string) (loaded bool, err error) {
	ok, primaryErr := loadFile(st, path)
	if ok {
		return true, nil
	}
	if primaryErr != nil {
		log.Printf("snapshot: primary snapshot at %s unreadable (%v), trying backup", path, primaryErr)
	}

	backupPath := path + ".bak"
	if ok, err := loadFile(st, backupPath); ok {
		log.Printf("snapshot: loaded from backup %s after primary failure", backupPath)
		return true, nil
	} else if err != nil {
		return false, vecerr.Wrap(vecerr.PersistenceError, "snapshot.Load", err)
	}
	if primaryErr != nil {
		return false, vecerr.Wrap(vecerr.PersistenceError, "snapshot.Load", primaryErr)
	}
	return false, nil
}

func loadFile(st *store.Store, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		return false, err
	}
	if err := restoreInto(st, state); err != nil {
		return false, err
	}
	return true, nil
}

// EnsureDir creates the parent directory of path if it does not exist,
// so a first run with a nested snapshot_path does not fail to write.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

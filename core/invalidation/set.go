package invalidation

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var bucketInvalidated = []byte("invalidated")

// Set is the concurrency-safe set of local paths whose cached copy must be
// re-fetched. When opened with a journal, membership survives restarts so a
// persisted revision never hides an invalidation that was not yet repaired.
//
// Every Add stamps the path with a new generation. A fetcher captures the
// generation before downloading and clears the path with RemoveIf, which
// keeps any invalidation that arrived while the download was running.
type Set struct {
	mu     sync.RWMutex
	paths  map[string]uint64
	seq    uint64
	db     *bolt.DB
	logger *zap.Logger
}

// New creates a memory-only set.
func New() *Set {
	return &Set{paths: make(map[string]uint64), logger: zap.NewNop()}
}

// Open creates a set journaled in a bbolt file at path. An empty path yields a
// memory-only set.
func Open(path string, logger *zap.Logger) (*Set, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Set{paths: make(map[string]uint64), logger: logger}
	if path == "" {
		return s, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open invalidation journal: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketInvalidated)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, _ []byte) error {
			s.seq++
			s.paths[string(k)] = s.seq
			return nil
		})
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load invalidation journal: %w", err)
	}

	s.db = db
	return s, nil
}

// Add marks paths as invalidated. Adding a path twice keeps one entry but
// moves it to a new generation.
func (s *Set) Add(paths ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		_, existed := s.paths[p]
		s.seq++
		s.paths[p] = s.seq
		if !existed {
			added = append(added, p)
		}
	}
	if s.db == nil || len(added) == 0 {
		return
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketInvalidated)
		for _, p := range added {
			if err := b.Put([]byte(p), []byte(time.Now().UTC().Format(time.RFC3339))); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("Failed to journal invalidated paths", zap.Int("count", len(added)), zap.Error(err))
	}
}

// Generation returns the current generation of path, or 0 when it is not
// invalidated.
func (s *Set) Generation(path string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paths[path]
}

// Remove clears a path unconditionally.
func (s *Set) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.paths[path]; !ok {
		return
	}
	s.remove(path)
}

// RemoveIf clears path only while it is still at generation gen. It reports
// false when the path was invalidated again since gen was read.
func (s *Set) RemoveIf(path string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.paths[path]
	if !ok {
		return true
	}
	if current != gen {
		return false
	}
	s.remove(path)
	return true
}

func (s *Set) remove(path string) {
	delete(s.paths, path)
	if s.db == nil {
		return
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketInvalidated).Delete([]byte(path))
	})
	if err != nil {
		s.logger.Warn("Failed to clear journaled path", zap.String("path", path), zap.Error(err))
	}
}

// Contains reports whether path is invalidated.
func (s *Set) Contains(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.paths[path]
	return ok
}

// Len returns the number of invalidated paths.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.paths)
}

// Paths returns the invalidated paths in sorted order.
func (s *Set) Paths() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.paths))
	for p := range s.paths {
		out = append(out, p)
	}
	s.mu.RUnlock()

	sort.Strings(out)
	return out
}

// Close releases the journal, if any.
func (s *Set) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

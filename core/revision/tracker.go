package revision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"card-mirror/core/fetcher"
	"card-mirror/core/tree"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// Header carries the remote's current revision.
const Header = "X-Cache-Revision"

// manifestDepth is the nesting level of element keys inside a manifest.
const manifestDepth = 3

// ErrSyncInProgress is returned when another sync holds the lock.
var ErrSyncInProgress = errors.New("revision sync already in progress")

// AlwaysInvalidated lists the elements invalidated by every replayed revision.
var AlwaysInvalidated = []string{"cardinfo.json", "archetypes.json"}

// State is the phase of the tracker's sync state machine.
type State int

const (
	Idle State = iota
	Comparing
	Replaying
	Persisted
)

func (s State) String() string {
	switch s {
	case Comparing:
		return "comparing"
	case Replaying:
		return "replaying"
	case Persisted:
		return "persisted"
	default:
		return "idle"
	}
}

// Getter performs a GET and returns the body and headers.
type Getter interface {
	Get(ctx context.Context, url string) (*fetcher.Response, error)
}

// Invalidator marks an element stale. It reports false for unknown elements.
type Invalidator interface {
	Invalidate(name string) bool
}

// Options locates the tracker's files and the manifest endpoint.
type Options struct {
	// RevisionFile holds the last fully applied revision.
	RevisionFile string
	// ManifestURL is the endpoint serving {ManifestURL}/{revision}.
	ManifestURL string
	// LockFile serializes syncs across processes. Empty disables it.
	LockFile string
}

// Tracker replays remote manifests into the invalidated-path set.
type Tracker struct {
	opts        Options
	getter      Getter
	invalidator Invalidator
	logger      *zap.Logger
	lock        *flock.Flock

	running sync.Mutex
	stateMu sync.RWMutex
	state   State
}

// New creates a tracker.
func New(opts Options, getter Getter, invalidator Invalidator, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		opts:        opts,
		getter:      getter,
		invalidator: invalidator,
		logger:      logger,
	}
	if opts.LockFile != "" {
		t.lock = flock.New(opts.LockFile)
	}
	return t
}

// State returns the current phase.
func (t *Tracker) State() State {
	t.stateMu.RLock()
	defer t.stateMu.RUnlock()
	return t.state
}

func (t *Tracker) setState(s State) {
	t.stateMu.Lock()
	t.state = s
	t.stateMu.Unlock()
}

// Local returns the last fully applied revision. A missing file means 0.
func (t *Tracker) Local() (int, error) {
	data, err := os.ReadFile(t.opts.RevisionFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read revision file: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return 0, nil
	}
	rev, err := strconv.Atoi(text)
	if err != nil || rev < 0 {
		return 0, fmt.Errorf("invalid revision %q in %s", text, t.opts.RevisionFile)
	}
	return rev, nil
}

// Remote asks the manifest endpoint for the current revision.
func (t *Tracker) Remote(ctx context.Context) (int, error) {
	resp, err := t.getter.Get(ctx, t.manifestURL(0))
	if err != nil {
		return 0, fmt.Errorf("failed to query remote revision: %w", err)
	}
	value := strings.TrimSpace(resp.Header.Get(Header))
	if value == "" {
		return 0, fmt.Errorf("remote response has no %s header", Header)
	}
	rev, err := strconv.Atoi(value)
	if err != nil || rev < 0 {
		return 0, fmt.Errorf("invalid remote revision %q", value)
	}
	return rev, nil
}

// Sync replays every manifest from the local revision up to the remote one and
// persists the remote revision once all of them were applied. On failure the
// local revision is left untouched, so a retry replays the same manifests.
func (t *Tracker) Sync(ctx context.Context) (int, error) {
	if !t.running.TryLock() {
		return 0, ErrSyncInProgress
	}
	defer t.running.Unlock()

	if t.lock != nil {
		if err := os.MkdirAll(filepath.Dir(t.opts.LockFile), 0o755); err != nil {
			return 0, fmt.Errorf("failed to create lock directory: %w", err)
		}
		ok, err := t.lock.TryLock()
		if err != nil {
			return 0, fmt.Errorf("acquire sync lock: %w", err)
		}
		if !ok {
			return 0, ErrSyncInProgress
		}
		defer func() {
			if err := t.lock.Unlock(); err != nil {
				t.logger.Warn("Failed to release sync lock", zap.Error(err))
			}
		}()
	}
	defer t.setState(Idle)

	t.setState(Comparing)
	local, err := t.Local()
	if err != nil {
		return 0, err
	}
	remote, err := t.Remote(ctx)
	if err != nil {
		return local, err
	}
	if remote <= local {
		t.logger.Debug("Cache is up to date", zap.Int("revision", local))
		return local, nil
	}

	t.setState(Replaying)
	t.logger.Info("Replaying revisions", zap.Int("local", local), zap.Int("remote", remote))
	for k := local; k < remote; k++ {
		if err := t.replay(ctx, k); err != nil {
			return local, fmt.Errorf("replay revision %d: %w", k, err)
		}
	}

	if err := t.persist(remote); err != nil {
		return local, err
	}
	t.setState(Persisted)
	t.logger.Info("Revision persisted", zap.Int("revision", remote))
	return remote, nil
}

func (t *Tracker) replay(ctx context.Context, k int) error {
	resp, err := t.getter.Get(ctx, t.manifestURL(k))
	if err != nil {
		return err
	}
	root, err := tree.Parse(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to parse manifest: %w", err)
	}

	invalidated := 0
	tree.Walk(root, func(path []string, n *tree.Node) tree.Action {
		depth := len(path) + 1
		if depth < manifestDepth {
			if !n.IsBranch() {
				t.logger.Warn("Skipping malformed manifest fragment",
					zap.Int("revision", k),
					zap.Strings("path", append(path, n.Key)))
				return tree.Skip
			}
			return tree.Continue
		}
		if t.invalidate(n.Key) {
			invalidated++
		} else {
			t.logger.Debug("Manifest key is not a known element",
				zap.Int("revision", k),
				zap.String("key", n.Key))
		}
		return tree.Skip
	})

	for _, name := range AlwaysInvalidated {
		t.invalidator.Invalidate(name)
	}

	t.logger.Debug("Replayed manifest", zap.Int("revision", k), zap.Int("invalidated", invalidated))
	return nil
}

// invalidate resolves a manifest key directly, then as a JSON element.
func (t *Tracker) invalidate(key string) bool {
	if t.invalidator.Invalidate(key) {
		return true
	}
	if !strings.HasSuffix(key, ".json") {
		return t.invalidator.Invalidate(key + ".json")
	}
	return false
}

func (t *Tracker) persist(rev int) error {
	dir := filepath.Dir(t.opts.RevisionFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create revision directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".revision.*.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist revision: %w", err)
	}
	_, err = tmp.WriteString(strconv.Itoa(rev) + "\n")
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), t.opts.RevisionFile)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to persist revision: %w", err)
	}
	return nil
}

func (t *Tracker) manifestURL(k int) string {
	return strings.TrimSuffix(t.opts.ManifestURL, "/") + "/" + strconv.Itoa(k)
}

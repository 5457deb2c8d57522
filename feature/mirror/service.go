package mirror

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"card-mirror/core/address"
	"card-mirror/core/filestore"
	"card-mirror/core/identity"
	"card-mirror/core/invalidation"
	"card-mirror/core/revision"
	"card-mirror/core/storage"
	"card-mirror/feature/mirror/publish"

	"go.uber.org/zap"
)

// ErrNoBucket is returned by bucket operations when no storage client is configured.
var ErrNoBucket = errors.New("no storage bucket configured")

// Tracker is the revision side of the mirror.
type Tracker interface {
	Local() (int, error)
	Remote(ctx context.Context) (int, error)
	Sync(ctx context.Context) (int, error)
	State() revision.State
}

// Resolver owns the identity index.
type Resolver interface {
	Index(ctx context.Context) (*identity.Index, error)
	Reset()
}

// Store is the file store as seen by the mirror.
type Store interface {
	Table() *address.Table
	Invalidated() *invalidation.Set
	FetchAll(ctx context.Context, known filestore.Known) filestore.SweepReport
}

// Status describes the state of the local mirror.
type Status struct {
	LocalRevision  int      `json:"local_revision"`
	RemoteRevision int      `json:"remote_revision,omitempty"`
	RemoteError    string   `json:"remote_error,omitempty"`
	State          string   `json:"state"`
	Invalidated    int      `json:"invalidated"`
	Missing        []string `json:"missing"`
}

// SyncReport describes one revision sync.
type SyncReport struct {
	From    int  `json:"from"`
	To      int  `json:"to"`
	Changed bool `json:"changed"`
}

// Service coordinates revision syncs, sweeps and publication of the cache.
type Service struct {
	store    Store
	tracker  Tracker
	resolver Resolver
	client   storage.Client
	bucket   storage.Config
	cfg      filestore.Config
	logger   *zap.Logger
}

// NewService creates a mirror service. client may be nil when no bucket is used.
func NewService(store Store, tracker Tracker, resolver Resolver, client storage.Client, bucket storage.Config, cfg filestore.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		tracker:  tracker,
		resolver: resolver,
		client:   client,
		bucket:   bucket,
		cfg:      cfg,
		logger:   logger,
	}
}

// Status reports revisions, pending invalidations and literal elements with no
// local file. An unreachable remote is reported in the status, not as an error.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	local, err := s.tracker.Local()
	if err != nil {
		return nil, err
	}
	status := &Status{
		LocalRevision: local,
		State:         s.tracker.State().String(),
		Invalidated:   s.store.Invalidated().Len(),
		Missing:       []string{},
	}

	if remote, err := s.tracker.Remote(ctx); err != nil {
		status.RemoteError = err.Error()
	} else {
		status.RemoteRevision = remote
	}

	for _, addr := range s.store.Table().Literals() {
		if _, err := os.Stat(addr.LocalPath); err != nil {
			status.Missing = append(status.Missing, addr.Element)
		}
	}
	return status, nil
}

// Sync brings the local revision up to date. The identity index is dropped
// when the revision moved so the next lookup rebuilds it from fresh feeds.
func (s *Service) Sync(ctx context.Context) (*SyncReport, error) {
	from, err := s.tracker.Local()
	if err != nil {
		return nil, err
	}
	to, err := s.tracker.Sync(ctx)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{From: from, To: to, Changed: to != from}
	if report.Changed {
		s.resolver.Reset()
		s.logger.Info("Identity index reset", zap.Int("revision", to))
	}
	return report, nil
}

// Sweep resolves identities first, then materializes every artifact the index
// knows about.
func (s *Service) Sweep(ctx context.Context) (filestore.SweepReport, error) {
	idx, err := s.resolver.Index(ctx)
	if err != nil {
		return filestore.SweepReport{}, err
	}
	return s.store.FetchAll(ctx, idx.Known()), nil
}

// Publish uploads the cache directory to the bucket.
func (s *Service) Publish(ctx context.Context, prune bool) (*publish.Report, error) {
	if s.client == nil {
		return nil, ErrNoBucket
	}
	files, err := publish.CollectFiles(s.cfg.CacheDir, s.cfg.RevisionPath(), s.cfg.Journal())
	if err != nil {
		return nil, err
	}
	s.logger.Info("Publishing cache", zap.String("bucket", s.bucket.Bucket), zap.Int("files", len(files)))
	return publish.Publish(ctx, s.client, s.bucket, files, prune, s.logger)
}

// CheckBucket reports the literal elements missing from the bucket.
func (s *Service) CheckBucket(ctx context.Context) (*publish.BucketReport, error) {
	if s.client == nil {
		return nil, ErrNoBucket
	}
	keys, err := s.literalKeys()
	if err != nil {
		return nil, err
	}
	return publish.CheckBucket(ctx, s.client, s.bucket, keys)
}

func (s *Service) literalKeys() ([]string, error) {
	var keys []string
	for _, addr := range s.store.Table().Literals() {
		rel, err := filepath.Rel(s.cfg.CacheDir, addr.LocalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to relativize %s: %w", addr.LocalPath, err)
		}
		keys = append(keys, filepath.ToSlash(rel))
	}
	return keys, nil
}

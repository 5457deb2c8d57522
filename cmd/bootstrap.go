package cmd

import (
	"fmt"

	"card-mirror/core/address"
	"card-mirror/core/config"
	"card-mirror/core/fetcher"
	"card-mirror/core/filestore"
	"card-mirror/core/identity"
	"card-mirror/core/invalidation"
	"card-mirror/core/logger"
	"card-mirror/core/revision"

	"go.uber.org/zap"
)

// mirror bundles the components every command works on.
type mirror struct {
	cfg     *config.Config
	logger  *zap.Logger
	fetcher *fetcher.Fetcher
	invalid *invalidation.Set
	store   *filestore.Store
	tracker *revision.Tracker
	repo    *identity.Repository
}

// bootstrap loads configuration and wires the mirror components in dependency
// order: address table, invalidation journal, fetcher, file store, revision
// tracker, identity repository.
func bootstrap() (*mirror, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	table, err := address.Load(cfg.Mirror.RegistryPath, cfg.Mirror.CacheDir)
	if err != nil {
		return nil, err
	}

	invalid, err := invalidation.Open(cfg.Mirror.Journal(), logg)
	if err != nil {
		return nil, err
	}

	f := fetcher.New(cfg.Fetch, logg)
	store := filestore.New(table, f, invalid, logg)
	tracker := revision.New(revision.Options{
		RevisionFile: cfg.Mirror.RevisionPath(),
		ManifestURL:  cfg.Mirror.ManifestURL,
		LockFile:     cfg.Mirror.LockPath(),
	}, f, store, logg)

	return &mirror{
		cfg:     cfg,
		logger:  logg,
		fetcher: f,
		invalid: invalid,
		store:   store,
		tracker: tracker,
		repo:    identity.NewRepository(store, logg),
	}, nil
}

// Close flushes the journal and the logger.
func (m *mirror) Close() {
	if err := m.invalid.Close(); err != nil {
		m.logger.Warn("Failed to close invalidation journal", zap.Error(err))
	}
	_ = m.logger.Sync()
}

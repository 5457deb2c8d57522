package filestore

import "path/filepath"

// Config describes the on-disk layout of the mirror and its remote endpoints.
type Config struct {
	// CacheDir is the root every local artifact path is resolved against.
	CacheDir string `mapstructure:"cache_dir" default:"./data"`
	// RegistryPath is the JSON address registry.
	RegistryPath string `mapstructure:"registry_path" default:"./registry.json"`
	// RevisionFile holds the last applied revision. Relative paths live in CacheDir.
	RevisionFile string `mapstructure:"revision_file" default:"revision.txt"`
	// JournalPath persists the invalidated-path set. Relative paths live in CacheDir.
	// Empty keeps the set in memory only.
	JournalPath string `mapstructure:"journal_path" default:"invalidated.db"`
	// ManifestURL serves {ManifestURL}/{revision} manifests.
	ManifestURL string `mapstructure:"manifest_url" default:"https://db.ygoresources.com/manifest"`
}

// RevisionPath returns the revision file location.
func (c Config) RevisionPath() string {
	return c.inCache(c.RevisionFile)
}

// Journal returns the invalidation journal location, or "" when disabled.
func (c Config) Journal() string {
	if c.JournalPath == "" {
		return ""
	}
	return c.inCache(c.JournalPath)
}

// LockPath returns the file used to serialize revision syncs.
func (c Config) LockPath() string {
	return filepath.Join(c.CacheDir, ".sync.lock")
}

func (c Config) inCache(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.CacheDir, p)
}

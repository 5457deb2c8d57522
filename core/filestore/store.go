package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"card-mirror/core/address"
	"card-mirror/core/invalidation"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrUnknownElement means the element is not part of the known feed surface.
	ErrUnknownElement = errors.New("unknown element")
	// ErrFetchFailed means the element could not be materialized on this attempt.
	ErrFetchFailed = errors.New("fetch failed")
)

// sweepConcurrency bounds the goroutines spawned by FetchAll. The fetcher's
// permit pool still bounds the outbound requests.
const sweepConcurrency = 64

// Fetcher downloads a remote URL into a local path.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) (int64, error)
}

// Store is the load-or-fetch cache of feed artifacts keyed by logical element name.
type Store struct {
	table   *address.Table
	fetcher Fetcher
	invalid *invalidation.Set
	logger  *zap.Logger
	group   singleflight.Group
}

// New creates a store.
func New(table *address.Table, fetcher Fetcher, invalid *invalidation.Set, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if invalid == nil {
		invalid = invalidation.New()
	}
	return &Store{
		table:   table,
		fetcher: fetcher,
		invalid: invalid,
		logger:  logger,
	}
}

// Table returns the address table backing the store.
func (s *Store) Table() *address.Table {
	return s.table
}

// Invalidated returns the invalidated-path set shared with the revision tracker.
func (s *Store) Invalidated() *invalidation.Set {
	return s.invalid
}

// Invalidate marks an element for re-fetch. It reports false when the element is unknown.
func (s *Store) Invalidate(name string) bool {
	addr, ok := s.table.Resolve(name)
	if !ok {
		return false
	}
	s.invalid.Add(addr.LocalPath)
	return true
}

// IsValid reports whether the cached copy at addr can be used as is.
func (s *Store) IsValid(addr address.Address) bool {
	if s.invalid.Contains(addr.LocalPath) {
		return false
	}
	info, err := os.Stat(addr.LocalPath)
	return err == nil && !info.IsDir()
}

// Path materializes the element if needed and returns its local path.
func (s *Store) Path(ctx context.Context, name string) (string, error) {
	addr, ok := s.table.Resolve(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownElement, name)
	}
	if _, err := s.ensure(ctx, addr); err != nil {
		return "", err
	}
	return addr.LocalPath, nil
}

// Get returns the parsed content of an element, fetching it when the cached
// copy is missing or invalidated.
func (s *Store) Get(ctx context.Context, name string) (*Document, error) {
	path, err := s.Path(ctx, name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return parseDocument(name, path, data)
}

// CopyArtifact copies the element's cached file to destination.
func (s *Store) CopyArtifact(ctx context.Context, name, destination string) error {
	path, err := s.Path(ctx, name)
	if err != nil {
		return err
	}

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}
	dst, err := os.Create(destination)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destination, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("failed to copy %s: %w", name, err)
	}
	return dst.Close()
}

// Discover lists the variable parts of a parameterized family that are present on disk.
func (s *Store) Discover(token string) ([]string, error) {
	fam, ok := s.table.Family(token)
	if !ok {
		return nil, nil
	}

	entries, err := os.ReadDir(fam.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", fam.Dir, err)
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if v, ok := fam.Match(e.Name()); ok {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ensure makes sure the cached copy is valid. It reports whether a fetch happened.
// Concurrent callers for the same path share a single fetch, which is detached
// from the cancellation of whichever caller started it.
func (s *Store) ensure(ctx context.Context, addr address.Address) (bool, error) {
	if s.IsValid(addr) {
		return false, nil
	}

	v, err, _ := s.group.Do(addr.LocalPath, func() (any, error) {
		if s.IsValid(addr) {
			return false, nil
		}
		if s.fetcher == nil {
			return false, fmt.Errorf("%w: %s: no fetcher configured", ErrFetchFailed, addr.Element)
		}

		gen := s.invalid.Generation(addr.LocalPath)
		if _, err := s.fetcher.Fetch(context.WithoutCancel(ctx), addr.RemoteURL, addr.LocalPath); err != nil {
			s.logger.Warn("Element fetch failed",
				zap.String("element", addr.Element),
				zap.String("url", addr.RemoteURL),
				zap.Error(err))
			return false, fmt.Errorf("%w: %s: %w", ErrFetchFailed, addr.Element, err)
		}

		if !s.invalid.RemoveIf(addr.LocalPath, gen) {
			s.logger.Debug("Element invalidated during fetch", zap.String("element", addr.Element))
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Known lists the identifiers whose artifacts the bulk sweep should materialize.
type Known struct {
	// Passcodes selects one image per passcode.
	Passcodes []int
	// PrintSets selects one print table per set code.
	PrintSets []string
}

// SweepReport summarizes a FetchAll run.
type SweepReport struct {
	Total    int           `json:"total"`
	Fetched  int           `json:"fetched"`
	Cached   int           `json:"cached"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// FetchAll walks every literal element of the table plus the per-passcode images
// and per-set tables of known, fetching whatever is missing or invalidated.
// It is best effort: failures are counted, not returned. known normally comes
// from a previous identity resolution.
func (s *Store) FetchAll(ctx context.Context, known Known) SweepReport {
	start := time.Now()
	names := s.sweepElements(known)

	var fetched, cached, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)

	for _, name := range names {
		g.Go(func() error {
			addr, ok := s.table.Resolve(name)
			if !ok {
				failed.Add(1)
				return nil
			}
			didFetch, err := s.ensure(gctx, addr)
			switch {
			case err != nil:
				failed.Add(1)
			case didFetch:
				fetched.Add(1)
			default:
				cached.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	report := SweepReport{
		Total:    len(names),
		Fetched:  int(fetched.Load()),
		Cached:   int(cached.Load()),
		Failed:   int(failed.Load()),
		Duration: time.Since(start),
	}
	s.logger.Info("Sweep completed",
		zap.Int("total", report.Total),
		zap.Int("fetched", report.Fetched),
		zap.Int("cached", report.Cached),
		zap.Int("failed", report.Failed),
		zap.Duration("duration", report.Duration))
	return report
}

func (s *Store) sweepElements(known Known) []string {
	var names []string
	for _, addr := range s.table.Literals() {
		names = append(names, addr.Element)
	}

	if fam, ok := s.table.Family(address.TokenPasscode); ok {
		for _, p := range known.Passcodes {
			names = append(names, fam.Element(strconv.Itoa(p)))
		}
	}
	if fam, ok := s.table.Family(address.TokenPrintCode); ok {
		for _, set := range known.PrintSets {
			names = append(names, fam.Element(set))
		}
	}
	return names
}

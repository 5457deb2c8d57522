package catalog

import (
	"context"
	"errors"
	"fmt"

	"card-mirror/core/identity"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound means no card matches the requested identifier.
var ErrNotFound = errors.New("card not found")

// Resolver provides the identity index.
type Resolver interface {
	Index(ctx context.Context) (*identity.Index, error)
}

// Service answers card lookups against the identity index.
type Service struct {
	resolver Resolver
	logger   *zap.Logger
	db       *gorm.DB

	search searchCache
}

// NewService creates a new catalog service. db may be nil when no export
// database is configured.
func NewService(resolver Resolver, logger *zap.Logger, db *gorm.DB) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		resolver: resolver,
		logger:   logger,
		db:       db,
	}
}

// LookupPasscode returns the card printed with a passcode.
func (s *Service) LookupPasscode(ctx context.Context, passcode int) (identity.CardRecord, error) {
	idx, err := s.resolver.Index(ctx)
	if err != nil {
		return identity.CardRecord{}, err
	}
	rec, ok := idx.Record(passcode)
	if !ok {
		return identity.CardRecord{}, fmt.Errorf("%w: passcode %d", ErrNotFound, passcode)
	}
	return rec, nil
}

// LookupKonamiID returns the card with an internal identifier.
func (s *Service) LookupKonamiID(ctx context.Context, id int) (identity.CardRecord, error) {
	idx, err := s.resolver.Index(ctx)
	if err != nil {
		return identity.CardRecord{}, err
	}
	rec, ok := idx.RecordByID(id)
	if !ok {
		return identity.CardRecord{}, fmt.Errorf("%w: konami id %d", ErrNotFound, id)
	}
	return rec, nil
}

// LookupPrintCode returns the card of a print code such as "LOB-EN001".
func (s *Service) LookupPrintCode(ctx context.Context, code string) (identity.CardRecord, error) {
	idx, err := s.resolver.Index(ctx)
	if err != nil {
		return identity.CardRecord{}, err
	}
	id, ok := idx.LookupPrintCode(code)
	if !ok {
		return identity.CardRecord{}, fmt.Errorf("%w: print code %s", ErrNotFound, code)
	}
	rec, ok := idx.RecordByID(id)
	if !ok {
		return identity.CardRecord{KonamiID: id}, nil
	}
	return rec, nil
}

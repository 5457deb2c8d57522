package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLookups(t *testing.T) {
	svc := NewService(stubResolver{idx: testIndex()}, zap.NewNop(), nil)
	ctx := context.Background()

	t.Run("Passcode", func(t *testing.T) {
		rec, err := svc.LookupPasscode(ctx, 89631140)
		require.NoError(t, err)
		assert.Equal(t, 1, rec.KonamiID)
		assert.Equal(t, 89631140, rec.Passcode)
		assert.Equal(t, []int{89631139, 89631140}, rec.PrintVariants)
		assert.Equal(t, "Dragon Blanc aux Yeux Bleus", rec.Names["fr"])
	})

	t.Run("KonamiIDWithoutPasscode", func(t *testing.T) {
		rec, err := svc.LookupKonamiID(ctx, 2)
		require.NoError(t, err)
		assert.Zero(t, rec.Passcode)
		assert.Equal(t, []int{1}, rec.AlternateIDs)
		assert.Equal(t, "Dragon Blanc aux Yeux Bleus", rec.Names["fr"], "falls back to the co-named identifier")
	})

	t.Run("PrintCode", func(t *testing.T) {
		rec, err := svc.LookupPrintCode(ctx, "lob-en005")
		require.NoError(t, err)
		assert.Equal(t, 3, rec.KonamiID)
		assert.Equal(t, 46986414, rec.Passcode)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := svc.LookupPasscode(ctx, 1)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = svc.LookupKonamiID(ctx, 99)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = svc.LookupPrintCode(ctx, "LOB-EN999")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLookups_ResolverError(t *testing.T) {
	boom := errors.New("bootstrap")
	svc := NewService(stubResolver{err: boom}, nil, nil)

	_, err := svc.LookupPasscode(context.Background(), 89631139)
	assert.ErrorIs(t, err, boom)
	_, err = svc.Search(context.Background(), "blue", "en", 0)
	assert.ErrorIs(t, err, boom)
}

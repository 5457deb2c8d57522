package catalog

import (
	"context"
	"testing"

	"card-mirror/core/database"
	"card-mirror/feature/catalog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	return db
}

func TestExport(t *testing.T) {
	db := setupDB(t)
	svc := NewService(stubResolver{idx: testIndex()}, zap.NewNop(), db)
	ctx := context.Background()

	schema, err := svc.CheckSchema(ctx)
	require.NoError(t, err)
	assert.False(t, schema.Matched)
	assert.Contains(t, schema.Missing, "cards")

	report, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Cards)
	assert.Equal(t, 6, report.Names)
	assert.Equal(t, 2, report.Prints)

	var card models.Card
	require.NoError(t, db.First(&card, "passcode = ?", 89631140).Error)
	assert.Equal(t, 1, card.KonamiID)
	assert.Equal(t, 89631139, card.VariantOf)
	assert.Equal(t, "Blue-Eyes White Dragon", card.Name)
	require.NotNil(t, card.Atk)
	assert.Equal(t, 3000, *card.Atk)

	var name models.CardName
	require.NoError(t, db.First(&name, "konami_id = ? AND language = ?", 1, "fr").Error)
	assert.Equal(t, "Dragon Blanc aux Yeux Bleus", name.Name)

	var print models.CardPrint
	require.NoError(t, db.First(&print, "code = ?", "LOB-EN005").Error)
	assert.Equal(t, "LOB-EN", print.SetCode)
	assert.Equal(t, 3, print.KonamiID)

	// a second export overwrites rows instead of duplicating them
	_, err = svc.Export(ctx)
	require.NoError(t, err)
	var count int64
	require.NoError(t, db.Model(&models.Card{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	schema, err = svc.CheckSchema(ctx)
	require.NoError(t, err)
	assert.True(t, schema.Matched)
	assert.Empty(t, schema.Missing)
}

func TestExport_NoDatabase(t *testing.T) {
	svc := NewService(stubResolver{idx: testIndex()}, zap.NewNop(), nil)

	_, err := svc.Export(context.Background())
	assert.ErrorIs(t, err, ErrNoDatabase)
	_, err = svc.CheckSchema(context.Background())
	assert.ErrorIs(t, err, ErrNoDatabase)
}

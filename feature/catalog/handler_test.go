package catalog

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"card-mirror/core/identity"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(resolver Resolver) *fiber.App {
	app := fiber.New()
	svc := NewService(resolver, zap.NewNop(), nil)
	NewHandler(svc, "en").RegisterRoutes(app)
	return app
}

func TestHandleLookups(t *testing.T) {
	app := setupTestApp(stubResolver{idx: testIndex()})

	tests := []struct {
		name     string
		path     string
		status   int
		konamiID int
	}{
		{"Passcode", "/cards/passcode/89631140", fiber.StatusOK, 1},
		{"PasscodeNotNumeric", "/cards/passcode/abc", fiber.StatusBadRequest, 0},
		{"PasscodeUnknown", "/cards/passcode/999", fiber.StatusNotFound, 0},
		{"KonamiID", "/cards/konami/2", fiber.StatusOK, 2},
		{"KonamiIDInvalid", "/cards/konami/-4", fiber.StatusBadRequest, 0},
		{"PrintCode", "/cards/print/LOB-EN001", fiber.StatusOK, 1},
		{"PrintCodeUnknown", "/cards/print/XXX-EN001", fiber.StatusNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.status == fiber.StatusOK {
				var rec identity.CardRecord
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
				assert.Equal(t, tt.konamiID, rec.KonamiID)
			}
		})
	}
}

func TestHandleSearch(t *testing.T) {
	app := setupTestApp(stubResolver{idx: testIndex()})

	resp, err := app.Test(httptest.NewRequest("GET", "/cards/search?q=magicien&lang=fr", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var results []SearchResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&results))
	require.Len(t, results, 1)
	assert.Equal(t, "Magicien Sombre", results[0].Name)

	resp, err = app.Test(httptest.NewRequest("GET", "/cards/search?q=zzzz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&results))
	assert.Empty(t, results)

	resp, err = app.Test(httptest.NewRequest("GET", "/cards/search", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandle_ResolverFailure(t *testing.T) {
	app := setupTestApp(stubResolver{err: errors.New("catalog feed missing")})

	resp, err := app.Test(httptest.NewRequest("GET", "/cards/passcode/89631139", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/cards/search?q=blue", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestFeature(t *testing.T) {
	feature := NewFeature(NewService(stubResolver{idx: testIndex()}, zap.NewNop(), nil), "")

	assert.Equal(t, "catalog", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))
}

package catalog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const citiesJSON = `[
  {"cityKey": "phuket", "label": "Phuket", "hotelLat": 7.89, "hotelLng": 98.3, "defaultZoom": 14}
]`

const placesJSON = `[
  {"name": "Zuzu Grill", "cityKey": "phuket", "category": "restaurant", "lat": 7.8951, "lng": 98.3051},
  {"name": "Banana Walk Pharmacy", "cityKey": "phuket", "category": "shop", "address": "Banana Walk, Patong"}
]`

func TestFileRepository_LoadCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("loads cities and places", func(t *testing.T) {
		dir := t.TempDir()
		cities := writeFixture(t, dir, "cities.json", citiesJSON)
		places := writeFixture(t, dir, "places.json", placesJSON)

		repo := NewFileRepository(cities, places, testLogger())
		cat, err := repo.LoadCatalog(ctx)
		require.NoError(t, err)
		require.Len(t, cat.Cities, 1)
		require.Len(t, cat.Places, 2)

		assert.Equal(t, "phuket", cat.Cities[0].CityKey)
		assert.Equal(t, 14, cat.Cities[0].DefaultZoom)

		assert.True(t, cat.Places[0].HasPosition())
		assert.False(t, cat.Places[1].HasPosition())
		assert.Equal(t, "Banana Walk, Patong", cat.Places[1].Address)
	})

	t.Run("missing cities file", func(t *testing.T) {
		dir := t.TempDir()
		places := writeFixture(t, dir, "places.json", placesJSON)

		repo := NewFileRepository(filepath.Join(dir, "absent.json"), places, testLogger())
		cat, err := repo.LoadCatalog(ctx)
		assert.Nil(t, cat)
		assert.ErrorIs(t, err, ErrLoadFailure)
	})

	t.Run("malformed places JSON", func(t *testing.T) {
		dir := t.TempDir()
		cities := writeFixture(t, dir, "cities.json", citiesJSON)
		places := writeFixture(t, dir, "places.json", `{"not": "a list"`)

		repo := NewFileRepository(cities, places, testLogger())
		cat, err := repo.LoadCatalog(ctx)
		assert.Nil(t, cat)
		assert.ErrorIs(t, err, ErrLoadFailure)
	})

	t.Run("empty cities list is an error", func(t *testing.T) {
		dir := t.TempDir()
		cities := writeFixture(t, dir, "cities.json", `[]`)
		places := writeFixture(t, dir, "places.json", placesJSON)

		repo := NewFileRepository(cities, places, testLogger())
		cat, err := repo.LoadCatalog(ctx)
		assert.Nil(t, cat)
		assert.ErrorIs(t, err, ErrLoadFailure)
	})
}

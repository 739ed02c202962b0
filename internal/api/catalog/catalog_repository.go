package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/wandernear/nearby-places/internal/types"
)

// ErrLoadFailure wraps any failure to retrieve or parse the catalog files.
var ErrLoadFailure = errors.New("catalog load failure")

var _ Repository = (*FileRepository)(nil)

// Repository loads the immutable catalog for a session.
type Repository interface {
	LoadCatalog(ctx context.Context) (*types.Catalog, error)
}

// FileRepository reads the catalog from two JSON documents on disk,
// mirroring the data/cities.json + data/places.json layout the frontend
// consumes.
type FileRepository struct {
	logger     *slog.Logger
	citiesPath string
	placesPath string
}

func NewFileRepository(citiesPath, placesPath string, logger *slog.Logger) *FileRepository {
	return &FileRepository{
		logger:     logger,
		citiesPath: citiesPath,
		placesPath: placesPath,
	}
}

func (r *FileRepository) LoadCatalog(ctx context.Context) (*types.Catalog, error) {
	var cities []types.City
	if err := readJSONFile(r.citiesPath, &cities); err != nil {
		r.logger.ErrorContext(ctx, "Failed to load cities file", slog.String("path", r.citiesPath), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %s: %s", ErrLoadFailure, r.citiesPath, err)
	}
	if len(cities) == 0 {
		return nil, fmt.Errorf("%w: %s contains no cities", ErrLoadFailure, r.citiesPath)
	}

	var places []types.Place
	if err := readJSONFile(r.placesPath, &places); err != nil {
		r.logger.ErrorContext(ctx, "Failed to load places file", slog.String("path", r.placesPath), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %s: %s", ErrLoadFailure, r.placesPath, err)
	}

	r.logger.InfoContext(ctx, "Catalog loaded",
		slog.Int("cities", len(cities)),
		slog.Int("places", len(places)),
	)
	return &types.Catalog{Cities: cities, Places: places}, nil
}

func readJSONFile(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

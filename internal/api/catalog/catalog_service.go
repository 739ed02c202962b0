package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wandernear/nearby-places/app/observability/metrics"
	"github.com/wandernear/nearby-places/internal/types"
)

// ErrNotLoaded is returned when the catalog is queried before Load succeeded.
var ErrNotLoaded = errors.New("catalog not loaded")

var _ Service = (*ServiceImpl)(nil)

// Service exposes the loaded catalog and the visible-places projection.
// The catalog is read-only after Load, except for SetPlacePosition which
// the geocoder uses to fill in coordinates as lookups resolve.
type Service interface {
	Load(ctx context.Context) error
	Catalog() (*types.Catalog, error)
	GetCities(ctx context.Context) ([]types.City, error)
	GetPlaces(ctx context.Context) ([]types.Place, error)
	VisiblePlaces(ctx context.Context, view types.ViewState) ([]types.Place, error)
	SetPlacePosition(ctx context.Context, cityKey, name string, pos types.Position) bool
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository

	mu      sync.RWMutex
	catalog *types.Catalog
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// Load retrieves the catalog once at startup.
func (s *ServiceImpl) Load(ctx context.Context) error {
	ctx, span := otel.Tracer("CatalogService").Start(ctx, "Load")
	defer span.End()

	c, err := s.repo.LoadCatalog(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load catalog", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog load failed")
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	s.mu.Lock()
	s.catalog = c
	s.mu.Unlock()

	metrics.Get().CatalogPlacesLoaded.Add(ctx, int64(len(c.Places)))
	span.SetAttributes(
		attribute.Int("catalog.cities", len(c.Cities)),
		attribute.Int("catalog.places", len(c.Places)),
	)
	span.SetStatus(codes.Ok, "Catalog loaded")
	return nil
}

// Catalog returns a snapshot safe to read while the geocoder resolves
// coordinates in the background.
func (s *ServiceImpl) Catalog() (*types.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.catalog == nil {
		return nil, ErrNotLoaded
	}
	snap := &types.Catalog{
		Cities: s.catalog.Cities,
		Places: make([]types.Place, len(s.catalog.Places)),
	}
	copy(snap.Places, s.catalog.Places)
	return snap, nil
}

func (s *ServiceImpl) GetCities(ctx context.Context) ([]types.City, error) {
	c, err := s.Catalog()
	if err != nil {
		return nil, err
	}
	return c.Cities, nil
}

func (s *ServiceImpl) GetPlaces(ctx context.Context) ([]types.Place, error) {
	c, err := s.Catalog()
	if err != nil {
		return nil, err
	}
	return c.Places, nil
}

// VisiblePlaces applies the view-state predicates and sort order.
func (s *ServiceImpl) VisiblePlaces(ctx context.Context, view types.ViewState) ([]types.Place, error) {
	_, span := otel.Tracer("CatalogService").Start(ctx, "VisiblePlaces", trace.WithAttributes(
		attribute.String("view.city", view.ActiveCityKey),
		attribute.String("view.filter", string(view.Filter)),
	))
	defer span.End()

	c, err := s.Catalog()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	visible := VisiblePlaces(c, view)
	span.SetAttributes(attribute.Int("places.visible", len(visible)))
	span.SetStatus(codes.Ok, "Filtered")
	return visible, nil
}

// SetPlacePosition fills in a place's coordinates once a geocode lookup
// resolves. It reports whether the place was found and still unresolved.
func (s *ServiceImpl) SetPlacePosition(ctx context.Context, cityKey, name string, pos types.Position) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalog == nil {
		return false
	}
	for i := range s.catalog.Places {
		p := &s.catalog.Places[i]
		if p.CityKey != cityKey || p.Name != name {
			continue
		}
		if p.Lat != nil && p.Lng != nil {
			return false
		}
		lat, lng := pos.Lat, pos.Lng
		p.Lat = &lat
		p.Lng = &lng
		s.logger.DebugContext(ctx, "Place position resolved",
			slog.String("place", name),
			slog.String("city", cityKey),
		)
		return true
	}
	return false
}

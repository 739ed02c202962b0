package geocode

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/wandernear/nearby-places/app/observability/metrics"
	"github.com/wandernear/nearby-places/internal/api/catalog"
	"github.com/wandernear/nearby-places/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service resolves missing place coordinates in the background. Lookups
// are sequential with an enforced minimum inter-request delay; a failed
// lookup leaves that place's coordinates absent and moves on.
type Service interface {
	Run(ctx context.Context) error
	Resolve(ctx context.Context, address string) (*types.Position, error)
}

type ServiceImpl struct {
	logger      *slog.Logger
	client      Client
	repo        Repository // nil when no persistent cache is configured
	memCache    *gocache.Cache
	catalog     catalog.Service
	minInterval time.Duration
}

func NewServiceImpl(client Client, repo Repository, catalogService catalog.Service, minInterval time.Duration, logger *slog.Logger) *ServiceImpl {
	if minInterval < time.Second {
		// Provider rate-limit compliance floor.
		minInterval = time.Second
	}
	return &ServiceImpl{
		logger:      logger,
		client:      client,
		repo:        repo,
		memCache:    gocache.New(24*time.Hour, time.Hour),
		catalog:     catalogService,
		minInterval: minInterval,
	}
}

// Run walks the catalog and resolves every place that has an address but
// no coordinates, one lookup at a time. It returns when the queue drains
// or the context is cancelled; either way the shutdown is clean.
func (s *ServiceImpl) Run(ctx context.Context) error {
	c, err := s.catalog.Catalog()
	if err != nil {
		return err
	}

	var pending []types.Place
	for _, p := range c.Places {
		if !p.HasPosition() && p.Address != "" {
			pending = append(pending, p)
		}
	}
	if len(pending) == 0 {
		s.logger.InfoContext(ctx, "No places pending geocode")
		return nil
	}
	s.logger.InfoContext(ctx, "Geocode queue starting", slog.Int("pending", len(pending)))

	ticker := time.NewTicker(s.minInterval)
	defer ticker.Stop()

	for _, place := range pending {
		pos, err := s.Resolve(ctx, place.Address)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				s.logger.InfoContext(ctx, "Geocode queue stopping", slog.Any("error", err))
				return nil
			}
			// Individual failure: leave this place unresolved, keep going.
			s.logger.WarnContext(ctx, "Geocode lookup failed",
				slog.String("place", place.Name),
				slog.Any("error", err),
			)
			metrics.Get().GeocodeLookupErrorsTotal.Add(ctx, 1)
		} else {
			s.catalog.SetPlacePosition(ctx, place.CityKey, place.Name, *pos)
		}

		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "Geocode queue stopping")
			return nil
		case <-ticker.C:
		}
	}

	s.logger.InfoContext(ctx, "Geocode queue drained")
	return nil
}

// Resolve is a cache-aside lookup: memory cache, then the persistent
// key-value cache, then the provider.
func (s *ServiceImpl) Resolve(ctx context.Context, address string) (*types.Position, error) {
	ctx, span := otel.Tracer("GeocodeService").Start(ctx, "Resolve")
	defer span.End()

	key := NormalizeAddress(address)
	m := metrics.Get()

	if v, ok := s.memCache.Get(key); ok {
		pos := v.(types.Position)
		m.GeocodeCacheHitsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("layer", "memory")))
		span.SetStatus(codes.Ok, "Memory cache hit")
		return &pos, nil
	}

	if s.repo != nil {
		cached, err := s.repo.GetCached(ctx, key)
		if err != nil {
			s.logger.WarnContext(ctx, "Geocode cache read failed", slog.Any("error", err))
			span.RecordError(err)
		} else if cached != nil {
			s.memCache.SetDefault(key, *cached)
			m.GeocodeCacheHitsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("layer", "postgres")))
			span.SetStatus(codes.Ok, "Persistent cache hit")
			return cached, nil
		}
	}
	m.GeocodeCacheMissesTotal.Add(ctx, 1)

	pos, err := s.client.Lookup(ctx, address)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Lookup failed")
		return nil, err
	}

	s.memCache.SetDefault(key, *pos)
	if s.repo != nil {
		if err := s.repo.SaveCached(ctx, key, *pos); err != nil {
			// Cache write failure is not fatal; the position is still usable.
			s.logger.WarnContext(ctx, "Geocode cache write failed", slog.Any("error", err))
			span.RecordError(err)
		}
	}

	span.SetStatus(codes.Ok, "Resolved via provider")
	return pos, nil
}

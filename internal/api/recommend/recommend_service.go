package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/wandernear/nearby-places/app/observability/metrics"
	"github.com/wandernear/nearby-places/internal/api/catalog"
	"github.com/wandernear/nearby-places/internal/api/session"
	"github.com/wandernear/nearby-places/internal/types"
)

// ErrPlaceNotFound is returned when the named place does not exist in the
// session's active city.
var ErrPlaceNotFound = errors.New("place not found")

var _ Service = (*ServiceImpl)(nil)

// Service computes travel recommendations for places in a session's
// active city, from the city's hotel reference point.
type Service interface {
	RecommendForPlace(ctx context.Context, sessionID uuid.UUID, placeName string, at time.Time) (*types.Recommendation, error)
	Recommend(ctx context.Context, origin, dest types.Position, at time.Time, hotOverride bool) (*types.Recommendation, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	engine   EngineConfig
	catalog  catalog.Service
	sessions session.Service
}

func NewServiceImpl(engine EngineConfig, catalogService catalog.Service, sessionService session.Service, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		engine:   engine,
		catalog:  catalogService,
		sessions: sessionService,
	}
}

// Recommend evaluates the decision table for one origin/destination pair.
func (s *ServiceImpl) Recommend(ctx context.Context, origin, dest types.Position, at time.Time, hotOverride bool) (*types.Recommendation, error) {
	_, span := otel.Tracer("RecommendService").Start(ctx, "Recommend", trace.WithAttributes(
		attribute.Bool("hot_override", hotOverride),
	))
	defer span.End()

	start := time.Now()
	rec, err := s.engine.Recommend(origin, dest, at, hotOverride)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Recommendation failed")
		return nil, err
	}

	m := metrics.Get()
	m.RecommendationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", string(rec.Mode))))
	m.RecommendationDurationSeconds.Record(ctx, time.Since(start).Seconds())

	span.SetAttributes(
		attribute.String("recommendation.mode", string(rec.Mode)),
		attribute.Float64("recommendation.distance_km", rec.DistanceKm),
	)
	span.SetStatus(codes.Ok, "Recommendation computed")
	return rec, nil
}

// RecommendForPlace resolves the session's active city and the named place,
// then recommends from the hotel reference point. A place without usable
// coordinates yields ErrPositionUnavailable; callers degrade to a generic
// advisory rather than failing the request.
func (s *ServiceImpl) RecommendForPlace(ctx context.Context, sessionID uuid.UUID, placeName string, at time.Time) (*types.Recommendation, error) {
	ctx, span := otel.Tracer("RecommendService").Start(ctx, "RecommendForPlace", trace.WithAttributes(
		attribute.String("session.id", sessionID.String()),
		attribute.String("place.name", placeName),
	))
	defer span.End()

	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		span.SetStatus(codes.Error, "Session not found")
		return nil, err
	}

	c, err := s.catalog.Catalog()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to resolve catalog: %w", err)
	}

	city, ok := c.CityByKey(sess.State.ActiveCityKey)
	if !ok {
		span.SetStatus(codes.Error, "Active city missing from catalog")
		return nil, fmt.Errorf("active city %q missing from catalog", sess.State.ActiveCityKey)
	}

	place, ok := c.PlaceByName(city.CityKey, placeName)
	if !ok {
		span.SetStatus(codes.Error, "Place not found")
		return nil, fmt.Errorf("%w: %q in city %q", ErrPlaceNotFound, placeName, city.CityKey)
	}

	if !place.HasPosition() {
		s.logger.InfoContext(ctx, "Place has no resolved position, degrading to advisory",
			slog.String("place", placeName),
			slog.String("city", city.CityKey),
		)
		span.AddEvent("position unavailable")
		return nil, ErrPositionUnavailable
	}

	return s.Recommend(ctx, city.HotelPosition(), place.PositionOrZero(), at, sess.State.HotOverride)
}

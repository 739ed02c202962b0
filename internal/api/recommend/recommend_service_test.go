package recommend

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandernear/nearby-places/app/observability/metrics"
	"github.com/wandernear/nearby-places/internal/api/catalog"
	"github.com/wandernear/nearby-places/internal/api/session"
	"github.com/wandernear/nearby-places/internal/types"
)

type stubRepo struct {
	cat *types.Catalog
}

func (r *stubRepo) LoadCatalog(ctx context.Context) (*types.Catalog, error) {
	return r.cat, nil
}

func f64(v float64) *float64 { return &v }

func serviceFixtureCatalog() *types.Catalog {
	return &types.Catalog{
		Cities: []types.City{
			{CityKey: "phuket", Label: "Phuket", HotelLat: 7.89, HotelLng: 98.3, DefaultZoom: 14},
		},
		Places: []types.Place{
			{Name: "Zuzu Grill", CityKey: "phuket", Category: types.CategoryRestaurant, Lat: f64(7.8951), Lng: f64(98.3051)},
			{Name: "Banana Walk Pharmacy", CityKey: "phuket", Category: types.CategoryShop, Address: "Banana Walk, Patong"},
		},
	}
}

type recommendFixture struct {
	svc      *ServiceImpl
	sessions session.Service
}

func setupRecommendTest(t *testing.T) recommendFixture {
	t.Helper()
	metrics.InitAppMetrics()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	catalogSvc := catalog.NewServiceImpl(&stubRepo{cat: serviceFixtureCatalog()}, logger)
	require.NoError(t, catalogSvc.Load(context.Background()))
	sessionSvc := session.NewServiceImpl(catalogSvc, logger)

	return recommendFixture{
		svc:      NewServiceImpl(DefaultEngineConfig(), catalogSvc, sessionSvc, logger),
		sessions: sessionSvc,
	}
}

func TestServiceImpl_Recommend(t *testing.T) {
	ctx := context.Background()
	fix := setupRecommendTest(t)
	noon := at("2025-06-10", 10)

	rec, err := fix.svc.Recommend(ctx, types.Position{Lat: 7.89, Lng: 98.3}, types.Position{Lat: 7.8951, Lng: 98.3051}, noon, false)
	require.NoError(t, err)
	assert.Equal(t, types.ModeWalk, rec.Mode)
	assert.Positive(t, rec.WalkMinutes)
}

func TestServiceImpl_RecommendForPlace(t *testing.T) {
	ctx := context.Background()
	noon := at("2025-06-10", 10)

	t.Run("resolves place in the active city", func(t *testing.T) {
		fix := setupRecommendTest(t)
		sess, err := fix.sessions.CreateSession(ctx)
		require.NoError(t, err)

		rec, err := fix.svc.RecommendForPlace(ctx, sess.ID, "Zuzu Grill", noon)
		require.NoError(t, err)
		assert.Equal(t, types.ModeWalk, rec.Mode)
		assert.InDelta(t, 0.78, rec.DistanceKm, 0.05)
	})

	t.Run("session hot override escalates", func(t *testing.T) {
		fix := setupRecommendTest(t)
		sess, err := fix.sessions.CreateSession(ctx)
		require.NoError(t, err)

		hot := true
		_, err = fix.sessions.UpdateViewState(ctx, sess.ID, types.ViewStateUpdate{HotOverride: &hot})
		require.NoError(t, err)

		rec, err := fix.svc.RecommendForPlace(ctx, sess.ID, "Zuzu Grill", noon)
		require.NoError(t, err)
		assert.Equal(t, types.ModeWalkOrRide, rec.Mode)
	})

	t.Run("unresolved place position", func(t *testing.T) {
		fix := setupRecommendTest(t)
		sess, err := fix.sessions.CreateSession(ctx)
		require.NoError(t, err)

		_, err = fix.svc.RecommendForPlace(ctx, sess.ID, "Banana Walk Pharmacy", noon)
		assert.ErrorIs(t, err, ErrPositionUnavailable)
	})

	t.Run("unknown place", func(t *testing.T) {
		fix := setupRecommendTest(t)
		sess, err := fix.sessions.CreateSession(ctx)
		require.NoError(t, err)

		_, err = fix.svc.RecommendForPlace(ctx, sess.ID, "No Such Place", noon)
		assert.ErrorIs(t, err, ErrPlaceNotFound)
	})

	t.Run("unknown session", func(t *testing.T) {
		fix := setupRecommendTest(t)
		_, err := fix.svc.RecommendForPlace(ctx, uuid.New(), "Zuzu Grill", noon)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}

func TestFallbackAdvisory(t *testing.T) {
	adv := FallbackAdvisory()
	assert.NotEmpty(t, adv.Note)
}

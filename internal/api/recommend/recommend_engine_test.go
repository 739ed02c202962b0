package recommend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandernear/nearby-places/internal/types"
)

// eastOf returns a position approximately km east of origin on the equator.
func eastOf(km float64) types.Position {
	return types.Position{Lat: 0, Lng: km / 111.19492664455873}
}

var equator = types.Position{Lat: 0, Lng: 0}

func TestEngineConfig_baseMode(t *testing.T) {
	cfg := DefaultEngineConfig()

	tests := []struct {
		km   float64
		want types.TravelMode
	}{
		{0, types.ModeWalk},
		{0.5, types.ModeWalk},
		{0.79, types.ModeWalk},
		{0.8, types.ModeWalkOrRide}, // boundary belongs to the farther tier
		{1.2, types.ModeWalkOrRide},
		{1.49, types.ModeWalkOrRide},
		{1.5, types.ModeRide},
		{3.9, types.ModeRide},
		{4.0, types.ModeRide},
		{12, types.ModeRide},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.baseMode(tt.km), "km=%v", tt.km)
	}
}

func TestEngineConfig_Recommend(t *testing.T) {
	cfg := DefaultEngineConfig()
	quietMorning := at("2025-06-10", 10) // Tuesday, no flags set

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		dest := eastOf(2.3)
		first, err := cfg.Recommend(equator, dest, quietMorning, false)
		require.NoError(t, err)
		second, err := cfg.Recommend(equator, dest, quietMorning, false)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("short distance walks", func(t *testing.T) {
		rec, err := cfg.Recommend(equator, eastOf(0.4), quietMorning, false)
		require.NoError(t, err)
		assert.Equal(t, types.ModeWalk, rec.Mode)
		assert.Equal(t, 5, rec.WalkMinutes)
		assert.Nil(t, rec.FareLow)
		assert.Nil(t, rec.FareHigh)
		require.NotEmpty(t, rec.Reasons)
		assert.Contains(t, rec.Reasons[0], "km from the hotel")
	})

	t.Run("walk minutes floor", func(t *testing.T) {
		rec, err := cfg.Recommend(equator, eastOf(0.1), quietMorning, false)
		require.NoError(t, err)
		assert.Equal(t, 3, rec.WalkMinutes)
	})

	t.Run("origin equals destination", func(t *testing.T) {
		rec, err := cfg.Recommend(equator, equator, at("2025-06-10", 22), false)
		require.NoError(t, err)
		assert.Equal(t, types.ModeWalk, rec.Mode)
		assert.Zero(t, rec.WalkMinutes)
		assert.Zero(t, rec.RideMinutes)
		assert.Nil(t, rec.FareLow)
	})

	t.Run("night escalates walk_or_ride to ride", func(t *testing.T) {
		rec, err := cfg.Recommend(equator, eastOf(1.0), at("2025-06-10", 22), false)
		require.NoError(t, err)
		assert.True(t, rec.Flags.IsNight)
		assert.Equal(t, types.ModeRide, rec.Mode)
		assert.Contains(t, rec.Reasons, "Late hour, a taxi is the safer option")
		// True walking time stays visible despite the escalation.
		assert.Equal(t, 12, rec.WalkMinutes)
	})

	t.Run("midday heat escalates walk toward ride", func(t *testing.T) {
		// Hotel at {7.89, 98.30}, place ~0.78 km away, Tuesday 14:00.
		hotel := types.Position{Lat: 7.89, Lng: 98.3}
		place := types.Position{Lat: 7.895, Lng: 98.305}
		rec, err := cfg.Recommend(hotel, place, at("2025-06-10", 14), false)
		require.NoError(t, err)
		assert.True(t, rec.Flags.IsHot)
		assert.False(t, rec.Flags.IsNight)
		assert.False(t, rec.Flags.IsRushHour)
		assert.Equal(t, types.ModeWalkOrRide, rec.Mode)
		assert.Contains(t, rec.Reasons, "Very hot right now, a ride is more comfortable")
		assert.NotContains(t, rec.Reasons, "Late hour, a taxi is the safer option")
	})

	t.Run("hot override escalates without the heat flag", func(t *testing.T) {
		rec, err := cfg.Recommend(equator, eastOf(1.0), quietMorning, true)
		require.NoError(t, err)
		assert.False(t, rec.Flags.IsHot)
		assert.Equal(t, types.ModeRide, rec.Mode)
		assert.Contains(t, rec.Reasons, "Very hot right now, a ride is more comfortable")
	})

	t.Run("fare range emitted for ride modes", func(t *testing.T) {
		rec, err := cfg.Recommend(equator, eastOf(2.0), quietMorning, false)
		require.NoError(t, err)
		assert.Equal(t, types.ModeRide, rec.Mode)
		require.NotNil(t, rec.FareLow)
		require.NotNil(t, rec.FareHigh)
		assert.InDelta(t, rec.DistanceKm*40, *rec.FareLow, 0.01)
		assert.InDelta(t, rec.DistanceKm*60, *rec.FareHigh, 0.01)
		assert.Less(t, *rec.FareLow, *rec.FareHigh)
	})

	t.Run("rush hour inflates ride minutes multiplicatively", func(t *testing.T) {
		dest := eastOf(3.0)
		quiet, err := cfg.Recommend(equator, dest, quietMorning, false)
		require.NoError(t, err)
		rush, err := cfg.Recommend(equator, dest, at("2025-06-10", 18), false)
		require.NoError(t, err)
		assert.True(t, rush.Flags.IsRushHour)
		expected := int(math.Round(quiet.DistanceKm / cfg.ModerateRideSpeedKmh * 60 * cfg.RushHourMultiplier))
		assert.Equal(t, expected, rush.RideMinutes)
		assert.Greater(t, rush.RideMinutes, quiet.RideMinutes)
		assert.Contains(t, rush.Reasons, "Rush hour, expect slower traffic for a ride")
	})

	t.Run("long rides use the faster effective speed", func(t *testing.T) {
		rec, err := cfg.Recommend(equator, eastOf(10.0), quietMorning, false)
		require.NoError(t, err)
		assert.Equal(t, types.ModeRide, rec.Mode)
		expected := int(math.Round(rec.DistanceKm / cfg.LongRideSpeedKmh * 60))
		assert.Equal(t, expected, rec.RideMinutes)
	})

	t.Run("pre-sabbath advisory is appended but never changes the mode", func(t *testing.T) {
		rec, err := cfg.Recommend(equator, eastOf(0.4), at("2025-06-13", 18), false) // Friday evening
		require.NoError(t, err)
		assert.True(t, rec.Flags.IsPreSabbath)
		assert.Equal(t, types.ModeWalk, rec.Mode)
		assert.Contains(t, rec.Reasons, "Sabbath window, plan the return trip ahead")
	})

	t.Run("non-finite positions are rejected", func(t *testing.T) {
		bad := types.Position{Lat: math.NaN(), Lng: 98.3}
		_, err := cfg.Recommend(bad, eastOf(1), quietMorning, false)
		assert.ErrorIs(t, err, ErrPositionUnavailable)

		_, err = cfg.Recommend(equator, types.Position{Lat: 0, Lng: math.Inf(1)}, quietMorning, false)
		assert.ErrorIs(t, err, ErrPositionUnavailable)
	})
}

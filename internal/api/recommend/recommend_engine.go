package recommend

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/wandernear/nearby-places/internal/types"
)

// ErrPositionUnavailable is returned when a distance or recommendation is
// requested for coordinates that are missing or non-finite. Callers fall
// back to a generic advisory instead of surfacing a hard failure.
var ErrPositionUnavailable = errors.New("position unavailable")

// EngineConfig holds the decision-table thresholds. The tier bands are
// inclusive-exclusive: a distance exactly on a boundary belongs to the
// farther tier. Fare rates are illustrative heuristics, not live pricing.
type EngineConfig struct {
	WalkMaxKm            float64 // below this: base mode walk
	WalkOrRideMaxKm      float64 // below this: base mode walk_or_ride
	ModerateRideMaxKm    float64 // below this: moderate ride; above: long ride
	WalkSpeedKmh         float64
	ModerateRideSpeedKmh float64
	LongRideSpeedKmh     float64
	RushHourMultiplier   float64 // applied to ride minutes when isRushHour
	FareLowPerKm         float64
	FareHighPerKm        float64
	MinWalkMinutes       int
	Classifier           ClassifierConfig
}

// DefaultEngineConfig returns the stock thresholds.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		WalkMaxKm:            0.8,
		WalkOrRideMaxKm:      1.5,
		ModerateRideMaxKm:    4.0,
		WalkSpeedKmh:         5,
		ModerateRideSpeedKmh: 20,
		LongRideSpeedKmh:     25,
		RushHourMultiplier:   1.3,
		FareLowPerKm:         40,
		FareHighPerKm:        60,
		MinWalkMinutes:       3,
		Classifier:           DefaultClassifierConfig(),
	}
}

// Recommend runs the decision table for one origin/destination pair at one
// evaluation timestamp. It is a pure function: identical inputs always
// produce an identical Recommendation.
func (cfg EngineConfig) Recommend(origin, dest types.Position, now time.Time, hotOverride bool) (*types.Recommendation, error) {
	if !finitePosition(origin) || !finitePosition(dest) {
		return nil, ErrPositionUnavailable
	}

	km := DistanceKm(origin, dest)
	flags := cfg.Classifier.Classify(now)
	hot := flags.IsHot || hotOverride

	baseMode := cfg.baseMode(km)
	mode := baseMode
	// Night or heat overrides walking-only advice within the near tiers.
	// The walking estimate below still reflects the true walking time.
	if km > 0 && (flags.IsNight || hot) {
		switch baseMode {
		case types.ModeWalk:
			mode = types.ModeWalkOrRide
		case types.ModeWalkOrRide:
			mode = types.ModeRide
		}
	}

	rec := &types.Recommendation{
		Mode:        mode,
		DistanceKm:  km,
		Flags:       flags,
		EvaluatedAt: now,
	}

	if km > 0 {
		rec.WalkMinutes = int(math.Round(km / cfg.WalkSpeedKmh * 60))
		if rec.WalkMinutes < cfg.MinWalkMinutes {
			rec.WalkMinutes = cfg.MinWalkMinutes
		}

		rideSpeed := cfg.ModerateRideSpeedKmh
		if km >= cfg.ModerateRideMaxKm {
			rideSpeed = cfg.LongRideSpeedKmh
		}
		rideMin := km / rideSpeed * 60
		if flags.IsRushHour {
			rideMin *= cfg.RushHourMultiplier
		}
		rec.RideMinutes = int(math.Round(rideMin))
	}

	if mode != types.ModeWalk && km > 0 {
		low := km * cfg.FareLowPerKm
		high := km * cfg.FareHighPerKm
		rec.FareLow = &low
		rec.FareHigh = &high
	}

	rec.Reasons = append(rec.Reasons, fmt.Sprintf("Approx. %.2f km from the hotel", km))
	if flags.IsNight {
		rec.Reasons = append(rec.Reasons, "Late hour, a taxi is the safer option")
	}
	if hot {
		rec.Reasons = append(rec.Reasons, "Very hot right now, a ride is more comfortable")
	}
	if flags.IsRushHour {
		rec.Reasons = append(rec.Reasons, "Rush hour, expect slower traffic for a ride")
	}
	if flags.IsPreSabbath {
		rec.Reasons = append(rec.Reasons, "Sabbath window, plan the return trip ahead")
	}

	rec.Note = noteFor(mode)
	return rec, nil
}

// baseMode maps a distance onto its tier. Boundary distances belong to the
// farther tier.
func (cfg EngineConfig) baseMode(km float64) types.TravelMode {
	switch {
	case km < cfg.WalkMaxKm:
		return types.ModeWalk
	case km < cfg.WalkOrRideMaxKm:
		return types.ModeWalkOrRide
	default:
		return types.ModeRide
	}
}

func noteFor(mode types.TravelMode) string {
	switch mode {
	case types.ModeWalk:
		return "A reasonable walk if you are not carrying heavy gear. You can still open navigation in Google Maps."
	case types.ModeWalkOrRide:
		return "Walkable, but a short ride works too. Open navigation in Google Maps or order a ride."
	default:
		return "Open navigation in Google Maps, then order a ride to get there comfortably."
	}
}

// FallbackAdvisory is the degraded result used when the destination has no
// usable coordinates.
func FallbackAdvisory() types.Advisory {
	return types.Advisory{
		Note: "Location for this place is not resolved yet. Enable the maps provider for directions.",
	}
}

package recommend

import (
	"time"

	"github.com/wandernear/nearby-places/internal/types"
)

// ClassifierConfig holds the boundary hours for the time-of-day flags.
// Values are hours 0-23 in the timezone of the evaluated timestamp.
type ClassifierConfig struct {
	NightStartHour      int // isNight: hour >= NightStartHour OR hour < NightEndHour
	NightEndHour        int
	HotStartHour        int // isHot: HotStartHour <= hour <= HotEndHour
	HotEndHour          int
	MorningRushStart    int
	MorningRushEnd      int
	EveningRushStart    int
	EveningRushEnd      int
	PreSabbathFriHour   int // Friday from this hour onward
	SabbathEndsSatHour  int // Saturday until this hour
}

// DefaultClassifierConfig returns the stock boundary hours.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		NightStartHour:     20,
		NightEndHour:       6,
		HotStartHour:       11,
		HotEndHour:         16,
		MorningRushStart:   7,
		MorningRushEnd:     9,
		EveningRushStart:   17,
		EveningRushEnd:     19,
		PreSabbathFriHour:  14,
		SabbathEndsSatHour: 20,
	}
}

// Classify derives the context flags from a wall-clock timestamp. It is a
// pure function of the hour of day and day of week; it must be re-evaluated
// on every recommendation request, never cached.
func (c ClassifierConfig) Classify(now time.Time) types.ContextFlags {
	h := now.Hour()
	wd := now.Weekday()

	return types.ContextFlags{
		IsNight:    h >= c.NightStartHour || h < c.NightEndHour,
		IsHot:      h >= c.HotStartHour && h <= c.HotEndHour,
		IsRushHour: (h >= c.MorningRushStart && h <= c.MorningRushEnd) || (h >= c.EveningRushStart && h <= c.EveningRushEnd),
		IsPreSabbath: (wd == time.Friday && h >= c.PreSabbathFriHour) ||
			(wd == time.Saturday && h < c.SabbathEndsSatHour),
	}
}

package types

import "time"

// TravelMode is the recommended way of covering the distance to a place.
type TravelMode string

const (
	ModeWalk       TravelMode = "walk"
	ModeWalkOrRide TravelMode = "walk_or_ride"
	ModeRide       TravelMode = "ride"
)

// ContextFlags are the boolean time-of-day signals feeding the
// recommendation decision. They are derived from wall-clock time on
// every request and never cached.
type ContextFlags struct {
	IsNight      bool `json:"isNight"`
	IsHot        bool `json:"isHot"`
	IsRushHour   bool `json:"isRushHour"`
	IsPreSabbath bool `json:"isPreSabbath"`
}

// Recommendation is a transient value computed per detail-sheet open.
// Fare figures are illustrative heuristics, not live pricing.
type Recommendation struct {
	Mode        TravelMode   `json:"mode"`
	DistanceKm  float64      `json:"distanceKm"`
	WalkMinutes int          `json:"walkMinutes"`
	RideMinutes int          `json:"rideMinutes"`
	FareLow     *float64     `json:"fareLow,omitempty"`
	FareHigh    *float64     `json:"fareHigh,omitempty"`
	Reasons     []string     `json:"reasons"`
	Note        string       `json:"note"`
	Flags       ContextFlags `json:"flags"`
	EvaluatedAt time.Time    `json:"evaluatedAt"`
}

// Advisory is the degraded result returned when a place has no usable
// coordinates: no mode, just a generic hint for the user.
type Advisory struct {
	Note string `json:"note"`
}

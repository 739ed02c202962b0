// Package links builds the outbound URLs the detail sheet offers: maps
// search and directions, and a ride-hailing deep link. Pure string
// templating, no business logic.
package links

import (
	"fmt"
	"net/url"

	"github.com/wandernear/nearby-places/internal/types"
)

const (
	mapsSearchBase     = "https://www.google.com/maps/search/?api=1"
	mapsDirectionsBase = "https://www.google.com/maps/dir/?api=1"

	rideDeepLink        = "grab://open"
	rideFallbackURL     = "https://www.grab.com/"
	rideFallbackDelayMs = 900
)

// PlaceLinks is the bundle handed to the rendering layer for one place.
type PlaceLinks struct {
	MapsPlaceURL      string   `json:"mapsPlaceUrl"`
	MapsDirectionsURL string   `json:"mapsDirectionsUrl"`
	Website           string   `json:"website,omitempty"`
	Ride              RideLink `json:"ride"`
}

// RideLink carries the app deep link plus the HTTP fallback the client
// should open if the app does not take over within FallbackDelayMs.
type RideLink struct {
	DeepLink        string `json:"deepLink"`
	FallbackURL     string `json:"fallbackUrl"`
	FallbackDelayMs int    `json:"fallbackDelayMs"`
}

// MapsPlaceURL returns a maps search URL for the place. Coordinates are
// preferred for accuracy; the place name is the fallback while a geocode
// is still pending.
func MapsPlaceURL(place types.Place) string {
	query := place.Name
	if place.HasPosition() {
		query = fmt.Sprintf("%v,%v", *place.Lat, *place.Lng)
	}
	return mapsSearchBase + "&query=" + url.QueryEscape(query)
}

// MapsDirectionsURL returns a maps directions URL from origin to dest.
func MapsDirectionsURL(origin, dest types.Position, mode types.TravelMode) string {
	o := fmt.Sprintf("%v,%v", origin.Lat, origin.Lng)
	d := fmt.Sprintf("%v,%v", dest.Lat, dest.Lng)
	travel := "driving"
	if mode == types.ModeWalk {
		travel = "walking"
	}
	return mapsDirectionsBase +
		"&origin=" + url.QueryEscape(o) +
		"&destination=" + url.QueryEscape(d) +
		"&travelmode=" + travel
}

// Ride returns the ride-hailing deep link bundle.
func Ride() RideLink {
	return RideLink{
		DeepLink:        rideDeepLink,
		FallbackURL:     rideFallbackURL,
		FallbackDelayMs: rideFallbackDelayMs,
	}
}

// ForPlace assembles the full link bundle for a place relative to the
// city's hotel reference point.
func ForPlace(city types.City, place types.Place, mode types.TravelMode) PlaceLinks {
	pl := PlaceLinks{
		MapsPlaceURL: MapsPlaceURL(place),
		Website:      place.Website,
		Ride:         Ride(),
	}
	if place.HasPosition() {
		pl.MapsDirectionsURL = MapsDirectionsURL(city.HotelPosition(), place.PositionOrZero(), mode)
	}
	return pl
}

package links

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wandernear/nearby-places/internal/types"
)

func f64(v float64) *float64 { return &v }

var testCity = types.City{
	CityKey:  "phuket",
	Label:    "Phuket",
	HotelLat: 7.89,
	HotelLng: 98.3,
}

func TestMapsPlaceURL(t *testing.T) {
	t.Run("coordinates preferred", func(t *testing.T) {
		place := types.Place{Name: "Zuzu Grill", Lat: f64(7.8951), Lng: f64(98.3051)}
		got := MapsPlaceURL(place)
		assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=7.8951%2C98.3051", got)
	})

	t.Run("name fallback while geocode pending", func(t *testing.T) {
		place := types.Place{Name: "Banana Walk Pharmacy"}
		got := MapsPlaceURL(place)
		assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=Banana+Walk+Pharmacy", got)
	})
}

func TestMapsDirectionsURL(t *testing.T) {
	origin := types.Position{Lat: 7.89, Lng: 98.3}
	dest := types.Position{Lat: 7.8951, Lng: 98.3051}

	t.Run("walking mode", func(t *testing.T) {
		got := MapsDirectionsURL(origin, dest, types.ModeWalk)
		assert.Contains(t, got, "origin=7.89%2C98.3")
		assert.Contains(t, got, "destination=7.8951%2C98.3051")
		assert.Contains(t, got, "travelmode=walking")
	})

	t.Run("ride modes map to driving", func(t *testing.T) {
		for _, mode := range []types.TravelMode{types.ModeWalkOrRide, types.ModeRide} {
			got := MapsDirectionsURL(origin, dest, mode)
			assert.Contains(t, got, "travelmode=driving")
		}
	})
}

func TestRide(t *testing.T) {
	ride := Ride()
	assert.Equal(t, "grab://open", ride.DeepLink)
	assert.Equal(t, "https://www.grab.com/", ride.FallbackURL)
	assert.Equal(t, 900, ride.FallbackDelayMs)
}

func TestForPlace(t *testing.T) {
	t.Run("resolved place gets directions", func(t *testing.T) {
		place := types.Place{
			Name:    "Zuzu Grill",
			Lat:     f64(7.8951),
			Lng:     f64(98.3051),
			Website: "https://zuzu.example",
		}
		pl := ForPlace(testCity, place, types.ModeWalk)
		assert.NotEmpty(t, pl.MapsPlaceURL)
		assert.Contains(t, pl.MapsDirectionsURL, "travelmode=walking")
		assert.Equal(t, "https://zuzu.example", pl.Website)
		assert.Equal(t, Ride(), pl.Ride)
	})

	t.Run("unresolved place omits directions", func(t *testing.T) {
		place := types.Place{Name: "Banana Walk Pharmacy"}
		pl := ForPlace(testCity, place, types.ModeRide)
		assert.Contains(t, pl.MapsPlaceURL, "query=Banana+Walk+Pharmacy")
		assert.Empty(t, pl.MapsDirectionsURL)
		assert.Empty(t, pl.Website)
	})
}

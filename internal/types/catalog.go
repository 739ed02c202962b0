package types

// Category classifies a place for filtering and sort ranking.
type Category string

const (
	CategoryRestaurant Category = "restaurant"
	CategoryShop       Category = "shop"
	CategoryStay       Category = "stay"
	CategoryOther      Category = "other"
)

// Rank is the primary sort key used when ordering visible places.
// Unknown categories sort last.
func (c Category) Rank() int {
	switch c {
	case CategoryRestaurant:
		return 0
	case CategoryShop:
		return 1
	case CategoryStay:
		return 2
	default:
		return 9
	}
}

// Position is a pair of decimal-degree coordinates.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// City is a reference location, typically the traveller's lodging.
// The active city's hotel position is the origin for every distance
// computation in that city.
type City struct {
	CityKey     string  `json:"cityKey"`
	Label       string  `json:"label"`
	LabelLocal  string  `json:"labelLocal,omitempty"`
	HotelName   string  `json:"hotelName,omitempty"`
	HotelLat    float64 `json:"hotelLat"`
	HotelLng    float64 `json:"hotelLng"`
	DefaultZoom int     `json:"defaultZoom,omitempty"`
}

// HotelPosition returns the city's reference point.
func (c City) HotelPosition() Position {
	return Position{Lat: c.HotelLat, Lng: c.HotelLng}
}

// Place is one point of interest. Lat/Lng are pointers because a place
// may still be waiting on a geocode lookup; such places are kept out of
// any map or distance operation.
type Place struct {
	Name      string   `json:"name"`
	NameLocal string   `json:"nameLocal,omitempty"`
	CityKey   string   `json:"cityKey"`
	Category  Category `json:"category"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
	Address   string   `json:"address,omitempty"`
	Website   string   `json:"website,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Status    string   `json:"status,omitempty"`
	Kosher    string   `json:"kosher,omitempty"`
}

// HasPosition reports whether the place has usable coordinates.
func (p Place) HasPosition() bool {
	return p.Lat != nil && p.Lng != nil
}

// PositionOrZero returns the place coordinates. Callers must check
// HasPosition first; a zero Position is returned otherwise.
func (p Place) PositionOrZero() Position {
	if !p.HasPosition() {
		return Position{}
	}
	return Position{Lat: *p.Lat, Lng: *p.Lng}
}

// Catalog is the immutable set of cities and places loaded for a session.
type Catalog struct {
	Cities []City  `json:"cities"`
	Places []Place `json:"places"`
}

// CityByKey looks up a city, reporting whether the key is known.
func (c *Catalog) CityByKey(key string) (City, bool) {
	for _, city := range c.Cities {
		if city.CityKey == key {
			return city, true
		}
	}
	return City{}, false
}

// PlaceByName looks up a place by its name within one city.
func (c *Catalog) PlaceByName(cityKey, name string) (Place, bool) {
	for _, p := range c.Places {
		if p.CityKey == cityKey && p.Name == name {
			return p, true
		}
	}
	return Place{}, false
}

package types

// CategoryFilter is the active category selection. "all" passes every place.
type CategoryFilter string

const (
	FilterAll        CategoryFilter = "all"
	FilterRestaurant CategoryFilter = "restaurant"
	FilterShop       CategoryFilter = "shop"
	FilterStay       CategoryFilter = "stay"
)

// Matches reports whether a place category passes the filter.
func (f CategoryFilter) Matches(c Category) bool {
	return f == FilterAll || string(f) == string(c)
}

// Valid reports whether the filter value is one of the known selections.
func (f CategoryFilter) Valid() bool {
	switch f {
	case FilterAll, FilterRestaurant, FilterShop, FilterStay:
		return true
	}
	return false
}

// ViewState is the session-local UI selection. It never touches the
// catalog itself; rendering is a projection of (catalog, view state).
type ViewState struct {
	ActiveCityKey string         `json:"activeCityKey"`
	Filter        CategoryFilter `json:"filter"`
	SearchTerm    string         `json:"searchTerm"`
	HotOverride   bool           `json:"hotOverride"`
}

// ViewStateUpdate carries a partial mutation of a ViewState. Nil fields
// leave the current value untouched.
type ViewStateUpdate struct {
	ActiveCityKey *string         `json:"activeCityKey,omitempty"`
	Filter        *CategoryFilter `json:"filter,omitempty"`
	SearchTerm    *string         `json:"searchTerm,omitempty"`
	HotOverride   *bool           `json:"hotOverride,omitempty"`
}

// DerivedView is the pure projection the rendering layer consumes:
// the ordered visible places, where to center the map, and a status line.
type DerivedView struct {
	VisiblePlaces []Place  `json:"visiblePlaces"`
	MapCenter     Position `json:"mapCenter"`
	MapZoom       int      `json:"mapZoom"`
	StatusMessage string   `json:"statusMessage"`
}

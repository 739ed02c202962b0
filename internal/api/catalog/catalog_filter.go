package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/wandernear/nearby-places/internal/types"
)

// NormalizeTerm trims, lower-cases and collapses whitespace in a search term.
func NormalizeTerm(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// VisiblePlaces projects the catalog through the view state: city match,
// category filter, case-insensitive substring search over the place's
// display names. The result is a fresh slice ordered by category rank and
// then locale-aware name; the input catalog is never mutated. Identical
// inputs always produce an identical sequence.
func VisiblePlaces(catalog *types.Catalog, view types.ViewState) []types.Place {
	term := NormalizeTerm(view.SearchTerm)

	out := make([]types.Place, 0, len(catalog.Places))
	for _, p := range catalog.Places {
		if p.CityKey != view.ActiveCityKey {
			continue
		}
		if !view.Filter.Matches(p.Category) {
			continue
		}
		if term != "" {
			hay := NormalizeTerm(p.Name + " " + p.NameLocal)
			if !strings.Contains(hay, term) {
				continue
			}
		}
		out = append(out, p)
	}

	cl := collate.New(language.Und)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Category.Rank(), out[j].Category.Rank()
		if ri != rj {
			return ri < rj
		}
		return cl.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

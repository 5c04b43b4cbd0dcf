package mapper

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb/geojson"

	"wayfinding/internal/converter/models"
)

// ============================================================
// Uploaded collections
// ============================================================

var ErrInvalidCollection = errors.New("invalid feature collection")

// textProperties читаются через MustString в locate и renderer,
// поэтому допускаются только строки или null.
var textProperties = []string{"type", "name", "id", "layer", "instruction"}

// Decode разбирает готовый GeoJSON (например, с размеченными nav_node и nav_edge)
// и проверяет, что его можно сохранить как карту этажа.
func Decode(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCollection, err)
	}
	if err := Validate(fc); err != nil {
		return nil, err
	}
	return fc, nil
}

func Validate(fc *geojson.FeatureCollection) error {
	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			return fmt.Errorf("%w: feature %d has no geometry", ErrInvalidCollection, i)
		}
		for _, key := range textProperties {
			switch f.Properties[key].(type) {
			case nil, string:
			default:
				return fmt.Errorf("%w: feature %d property %q must be a string", ErrInvalidCollection, i, key)
			}
		}
	}
	return nil
}

// Summarize считает объекты коллекции по свойству type.
func Summarize(fc *geojson.FeatureCollection) Stats {
	var stats Stats
	for _, f := range fc.Features {
		kind, _ := f.Properties["type"].(string)
		switch kind {
		case models.FeatureWall:
			stats.Walls++
		case models.FeatureNavArea:
			stats.NavAreas++
		case models.FeatureNavNode:
			stats.NavNodes++
		case models.FeatureNavEdge:
			stats.NavEdges++
		}
	}
	return stats
}

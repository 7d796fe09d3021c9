package export

import (
	"encoding/json"
	"os"

	"github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/geo"
	"github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/sweep"

	"github.com/rs/zerolog/log"
)

// WriteGeoJSON writes the coverage log as a polygon FeatureCollection, one
// feature per leaf query with its result count and subdivision status, so
// the coverage can be inspected in any GIS viewer.
func WriteGeoJSON(path string, areaLog *sweep.AreaLog) error {
	fc := geo.GeoJSONFeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]geo.GeoJSONFeature, 0, areaLog.Len()),
	}

	for _, rec := range areaLog.Records() {
		fc.Features = append(fc.Features, geo.PolygonFeature(rec.Rect, map[string]interface{}{
			"results":    rec.Results,
			"subdivided": rec.Subdivided,
			"color":      DensityHex(rec.Results),
		}))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	if err := json.NewEncoder(f).Encode(fc); err != nil {
		return err
	}

	log.Info().Str("path", path).Int("features", len(fc.Features)).Msg("Coverage GeoJSON written")
	return nil
}

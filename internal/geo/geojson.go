// Package geo handles geographic data structures and coordinate math.
package geo

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type" yaml:"type"`
	Features []GeoJSONFeature `json:"features" yaml:"features"`
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
	Type       string                 `json:"type" yaml:"type"`
	Geometry   GeoJSONGeometry        `json:"geometry" yaml:"geometry"`
}

// GeoJSONGeometry represents a Polygon geometry. Coordinates hold linear
// rings of [Lon, Lat] pairs, the outer ring first.
type GeoJSONGeometry struct {
	Type        string         `json:"type" yaml:"type"`
	Coordinates [][][2]float64 `json:"coordinates" yaml:"coordinates"`
}

// PolygonFeature builds a closed rectangular polygon feature from a bounding
// box, winding counter-clockwise per the GeoJSON right-hand rule.
func PolygonFeature(r Rectangle, properties map[string]interface{}) GeoJSONFeature {
	ring := [][2]float64{
		{r.SWLon, r.SWLat},
		{r.NELon, r.SWLat},
		{r.NELon, r.NELat},
		{r.SWLon, r.NELat},
		{r.SWLon, r.SWLat},
	}

	return GeoJSONFeature{
		Type:       "Feature",
		Properties: properties,
		Geometry: GeoJSONGeometry{
			Type:        "Polygon",
			Coordinates: [][][2]float64{ring},
		},
	}
}

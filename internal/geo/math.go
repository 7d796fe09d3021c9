package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for all distance calculations.
const EarthRadiusKm = 6371.0

// Rectangle is a geographic bounding box. The south-west corner must not
// exceed the north-east corner on either axis; callers are responsible for
// passing sane bounds.
type Rectangle struct {
	SWLat float64 `yaml:"sw_lat" json:"sw_lat"`
	SWLon float64 `yaml:"sw_lon" json:"sw_lon"`
	NELat float64 `yaml:"ne_lat" json:"ne_lat"`
	NELon float64 `yaml:"ne_lon" json:"ne_lon"`
}

// Haversine returns the great-circle distance in kilometers between two
// points given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180.0
	lat1, lon1 = lat1*rad, lon1*rad
	lat2, lon2 = lat2*rad, lon2*rad

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return EarthRadiusKm * c
}

// Center returns the arithmetic midpoint of the rectangle. Not geodesically
// exact, but it matches what the provider expects as a circle center for the
// small rectangles we query.
func (r Rectangle) Center() (lat, lon float64) {
	return (r.SWLat + r.NELat) / 2, (r.SWLon + r.NELon) / 2
}

// WidthKm is the haversine length of the southern edge.
func (r Rectangle) WidthKm() float64 {
	return Haversine(r.SWLat, r.SWLon, r.SWLat, r.NELon)
}

// HeightKm is the haversine length of the western edge.
func (r Rectangle) HeightKm() float64 {
	return Haversine(r.SWLat, r.SWLon, r.NELat, r.SWLon)
}

// ApproxRadiusKm is half the Pythagorean diagonal built from the edge
// lengths. The search uses it to decide whether a rectangle fits inside the
// provider's maximum circular search radius.
func (r Rectangle) ApproxRadiusKm() float64 {
	w := r.WidthKm()
	h := r.HeightKm()
	return math.Sqrt(w*w+h*h) / 2
}

// CenterAndRadius returns the midpoint of the rectangle and half the
// corner-to-corner haversine distance in kilometers.
func CenterAndRadius(r Rectangle) (lat, lon, radiusKm float64) {
	lat, lon = r.Center()
	radiusKm = Haversine(r.SWLat, r.SWLon, r.NELat, r.NELon) / 2
	return lat, lon, radiusKm
}

// Subdivide splits the rectangle into a divisions×divisions grid of equal
// degree-width cells, row-major: latitude bands south to north, longitude
// bands west to east inside each band. The cells tile the original exactly.
func Subdivide(r Rectangle, divisions int) []Rectangle {
	latStep := (r.NELat - r.SWLat) / float64(divisions)
	lonStep := (r.NELon - r.SWLon) / float64(divisions)

	cells := make([]Rectangle, 0, divisions*divisions)
	for i := 0; i < divisions; i++ {
		for j := 0; j < divisions; j++ {
			cells = append(cells, Rectangle{
				SWLat: r.SWLat + float64(i)*latStep,
				SWLon: r.SWLon + float64(j)*lonStep,
				NELat: r.SWLat + float64(i+1)*latStep,
				NELon: r.SWLon + float64(j+1)*lonStep,
			})
		}
	}

	return cells
}

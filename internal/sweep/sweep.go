// Package sweep implements the adaptive recursive area search: it partitions
// a bounding box into a grid, queries each cell, and keeps subdividing cells
// that are either too large for the provider's search radius or dense enough
// to fill a full result page.
package sweep

import (
	"context"
	"fmt"

	"github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/geo"
	"github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/places"

	"github.com/rs/zerolog/log"
)

// MaxRadiusKm is the largest circle the provider supports, kept a little
// under the true limit for safety. Rectangles whose approximate radius
// exceeds it are subdivided before any query is made.
const MaxRadiusKm = 49

// radiusPad compensates for the circle approximation of a rectangle: the
// query circle is inflated by 10% so rectangle corners stay covered.
const radiusPad = 1.1

// DefaultMaxDepth bounds the density-trigger recursion. Pathologically dense
// areas would otherwise subdivide without limit.
const DefaultMaxDepth = 16

// DefaultDivisions is the edge size of the initial grid.
const DefaultDivisions = 3

// NearbySearcher is the single provider operation the sweep depends on.
// *places.Client satisfies it.
type NearbySearcher interface {
	SearchNearby(ctx context.Context, lat, lon, radiusMeters float64, includedTypes []string) ([]places.Place, error)
}

// Sweeper walks a bounding box depth-first and accumulates provider results
// and a coverage log. One Sweeper serves one sweep at a time.
type Sweeper struct {
	client NearbySearcher

	// MaxDepth caps the density-trigger recursion; at the cap the leaf
	// results are kept as-is.
	MaxDepth int
}

// New creates a Sweeper around the given searcher.
func New(client NearbySearcher) *Sweeper {
	return &Sweeper{client: client, MaxDepth: DefaultMaxDepth}
}

// Run sweeps the bounding box: it subdivides bounds into a divisions² grid,
// searches every cell recursively, and returns the deduplicated results
// together with the coverage log of every leaf query issued.
func (s *Sweeper) Run(ctx context.Context, bounds geo.Rectangle, includedTypes []string, divisions int) ([]places.Place, *AreaLog) {
	if divisions <= 0 {
		divisions = DefaultDivisions
	}

	areaLog := NewAreaLog()
	cells := geo.Subdivide(bounds, divisions)

	log.Info().
		Int("cells", len(cells)).
		Strs("types", includedTypes).
		Msg("Starting area sweep")

	var all []places.Place
	for i, cell := range cells {
		label := fmt.Sprintf("%d", i+1)
		results := s.search(ctx, cell, includedTypes, label, 0, areaLog)
		all = append(all, results...)
	}

	log.Info().Int("raw", len(all)).Msg("Sweep finished, deduplicating")

	deduped := DedupeByID(all)

	log.Info().
		Int("unique", len(deduped)).
		Int("leaf_queries", areaLog.Len()).
		Msg("Area sweep complete")

	return deduped, areaLog
}

// search handles one rectangle. It either descends without querying (the
// rectangle exceeds the provider radius), or queries the rectangle's
// bounding circle and, on a full result page, descends once more to surface
// the results the page cap hid.
func (s *Sweeper) search(ctx context.Context, rect geo.Rectangle, includedTypes []string, label string, depth int, areaLog *AreaLog) []places.Place {
	approxRadius := rect.ApproxRadiusKm()

	if approxRadius > MaxRadiusKm {
		log.Debug().
			Str("rect", label).
			Float64("radius_km", approxRadius).
			Msg("Rectangle too large for provider radius, subdividing")

		var all []places.Place
		for i, sub := range geo.Subdivide(rect, 2) {
			subLabel := fmt.Sprintf("%s.%d", label, i+1)
			if label == "" {
				subLabel = fmt.Sprintf("%d", i+1)
			}
			all = append(all, s.search(ctx, sub, includedTypes, subLabel, depth+1, areaLog)...)
		}
		return all
	}

	lat, lon, _ := geo.CenterAndRadius(rect)
	radiusMeters := approxRadius * radiusPad * 1000
	if radiusMeters > MaxRadiusKm*1000 {
		radiusMeters = MaxRadiusKm * 1000
	}

	log.Debug().
		Str("rect", label).
		Float64("lat", lat).
		Float64("lon", lon).
		Float64("radius_m", radiusMeters).
		Msg("Querying leaf rectangle")

	results, err := s.client.SearchNearby(ctx, lat, lon, radiusMeters, includedTypes)
	if err != nil {
		// Fail-soft: a broken leaf must not abort the traversal.
		log.Error().Err(err).Str("rect", label).Msg("Leaf query failed, treating as empty")
		results = nil
	}

	dense := len(results) == places.PageCap
	subdivide := dense && depth < s.MaxDepth
	areaLog.Add(rect, len(results), subdivide)

	log.Debug().Str("rect", label).Int("results", len(results)).Msg("Leaf query done")

	if dense && !subdivide {
		log.Warn().
			Str("rect", label).
			Int("depth", depth).
			Msg("Result page full but max depth reached, keeping truncated results")
	}

	if !subdivide {
		return results
	}

	log.Debug().Str("rect", label).Msg("Result page full, subdividing dense rectangle")

	all := results
	for i, sub := range geo.Subdivide(rect, 2) {
		subLabel := fmt.Sprintf("%s.%c", label, 'a'+i)
		all = append(all, s.search(ctx, sub, includedTypes, subLabel, depth+1, areaLog)...)
	}

	return all
}

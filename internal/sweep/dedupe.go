package sweep

import (
	"github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/places"

	"github.com/rs/zerolog/log"
)

// DedupeByID collapses the concatenated leaf results into one record per id.
// Overlapping query circles return the same place several times; when that
// happens the record keeps the slot of its first appearance but carries the
// value of its last appearance. Records without a string id are dropped with
// a warning, consistent with the fail-soft policy of the traversal.
func DedupeByID(in []places.Place) []places.Place {
	slot := make(map[string]int, len(in))
	out := make([]places.Place, 0, len(in))

	for _, p := range in {
		id, ok := p["id"].(string)
		if !ok || id == "" {
			log.Warn().Msg("Dropping place record without a string id")
			continue
		}

		if i, seen := slot[id]; seen {
			out[i] = p
			continue
		}

		slot[id] = len(out)
		out = append(out, p)
	}

	return out
}

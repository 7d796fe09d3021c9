// Package export turns sweep output into artifacts: CSV tables, an
// interactive HTML coverage map, a GeoJSON coverage layer, and a WebP
// coverage raster.
package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Flatten collapses a nested place record into a single-level map whose keys
// are underscore-joined paths. Arrays ending in a nested object serialize as
// JSON text; all other arrays comma-join their elements. Flattening a flat
// map is a no-op apart from value stringification.
func Flatten(m map[string]interface{}) map[string]string {
	out := make(map[string]string, len(m))
	flattenInto(out, m, "")
	return out
}

func flattenInto(out map[string]string, m map[string]interface{}, prefix string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "_" + k
		}

		switch val := v.(type) {
		case map[string]interface{}:
			flattenInto(out, val, key)
		case []interface{}:
			out[key] = flattenList(val)
		default:
			out[key] = formatScalar(v)
		}
	}
}

func flattenList(list []interface{}) string {
	if len(list) > 0 {
		if _, ok := list[len(list)-1].(map[string]interface{}); ok {
			data, err := json.Marshal(list)
			if err == nil {
				return string(data)
			}
		}
	}

	parts := make([]string, len(list))
	for i, v := range list {
		parts[i] = formatScalar(v)
	}
	return strings.Join(parts, ", ")
}

func formatScalar(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

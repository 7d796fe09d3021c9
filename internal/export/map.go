package export

import (
	"bytes"
	"encoding/json"
	"os"
	"text/template"

	"github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/geo"
	"github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/sweep"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// mapTemplate is the single-page Leaflet viewer. One rectangle overlay per
// leaf query, colored by result density, with a fixed legend.
const mapTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Search coverage</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
html, body, #map { height: 100%; margin: 0; }
.legend {
  background: white;
  padding: 6px 10px;
  font: 12px sans-serif;
  line-height: 18px;
  border-radius: 4px;
  box-shadow: 0 0 8px rgba(0,0,0,0.3);
}
.legend .bar {
  height: 10px;
  width: 120px;
  background: linear-gradient(to right, #008000, #ffff00, #ff0000);
}
</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], 8);
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  maxZoom: 19,
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

var cells = {{.Cells}};
cells.forEach(function (c) {
  L.rectangle(c.bounds, {
    color: c.color,
    weight: 1,
    opacity: 0.5,
    fillOpacity: 0.2
  }).bindPopup('Results: ' + c.count + '<br>' +
    (c.subdivided ? 'Subdivided' : 'Not subdivided')).addTo(map);
});

map.fitBounds({{.Bounds}});

var legend = L.control({position: 'bottomright'});
legend.onAdd = function () {
  var div = L.DomUtil.create('div', 'legend');
  div.innerHTML = 'Number of results found<div class="bar"></div>' +
    '<span>0</span><span style="float:right">60+</span>';
  return div;
};
legend.addTo(map);
</script>
</body>
</html>`

type mapCell struct {
	Bounds     [2][2]float64 `json:"bounds"`
	Color      string        `json:"color"`
	Count      int           `json:"count"`
	Subdivided bool          `json:"subdivided"`
}

type mapData struct {
	CenterLat float64
	CenterLon float64
	Bounds    string
	Cells     string
}

// WriteMap renders the interactive coverage map to an HTML file, centered on
// the original bounding box, with one overlay rectangle per logged leaf
// query. The page is minified before writing.
func WriteMap(path string, bounds geo.Rectangle, areaLog *sweep.AreaLog) error {
	cells := make([]mapCell, 0, areaLog.Len())
	for _, rec := range areaLog.Records() {
		cells = append(cells, mapCell{
			Bounds: [2][2]float64{
				{rec.Rect.SWLat, rec.Rect.SWLon},
				{rec.Rect.NELat, rec.Rect.NELon},
			},
			Color:      DensityHex(rec.Results),
			Count:      rec.Results,
			Subdivided: rec.Subdivided,
		})
	}

	cellsJSON, err := json.Marshal(cells)
	if err != nil {
		return err
	}

	boundsJSON, err := json.Marshal([2][2]float64{
		{bounds.SWLat, bounds.SWLon},
		{bounds.NELat, bounds.NELon},
	})
	if err != nil {
		return err
	}

	centerLat, centerLon := bounds.Center()

	tmpl, err := template.New("map").Parse(mapTemplate)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, mapData{
		CenterLat: centerLat,
		CenterLon: centerLon,
		Bounds:    string(boundsJSON),
		Cells:     string(cellsJSON),
	})
	if err != nil {
		return err
	}

	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)

	final, err := m.String("text/html", buf.String())
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(final), 0644); err != nil {
		return err
	}

	log.Info().Str("path", path).Int("cells", len(cells)).Msg("Coverage map written")
	return nil
}

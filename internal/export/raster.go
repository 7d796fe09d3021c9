package export

import (
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/geo"
	"github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/sweep"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
)

// supersample renders the raster at this multiple of the target size before
// downscaling, to smooth the rectangle edges.
const supersample = 2

// WriteCoverageWebP rasterizes the coverage log into a density image of the
// given pixel width (height follows the aspect ratio of the bounds) and
// encodes it as WebP.
func WriteCoverageWebP(path string, bounds geo.Rectangle, areaLog *sweep.AreaLog, width int) error {
	if width <= 0 {
		width = 1024
	}

	lonSpan := bounds.NELon - bounds.SWLon
	latSpan := bounds.NELat - bounds.SWLat
	if lonSpan <= 0 || latSpan <= 0 {
		log.Warn().Str("path", path).Msg("Degenerate bounds, skipping raster export")
		return nil
	}

	height := int(float64(width) * latSpan / lonSpan)
	if height <= 0 {
		height = 1
	}

	w, h := width*supersample, height*supersample
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	// lat grows north, image y grows south
	toPixel := func(lat, lon float64) (x, y int) {
		x = int((lon - bounds.SWLon) / lonSpan * float64(w))
		y = int((bounds.NELat - lat) / latSpan * float64(h))
		return x, y
	}

	for _, rec := range areaLog.Records() {
		x0, y1 := toPixel(rec.Rect.SWLat, rec.Rect.SWLon)
		x1, y0 := toPixel(rec.Rect.NELat, rec.Rect.NELon)

		cell := image.Rect(x0, y0, x1, y1).Intersect(canvas.Bounds())
		if cell.Empty() {
			continue
		}

		fill := DensityColor(rec.Results)
		fill.A = 0x60
		draw.Draw(canvas, cell, &image.Uniform{fill}, image.Point{}, draw.Over)

		border := DensityColor(rec.Results)
		edge := supersample
		draw.Draw(canvas, image.Rect(cell.Min.X, cell.Min.Y, cell.Max.X, cell.Min.Y+edge), &image.Uniform{border}, image.Point{}, draw.Src)
		draw.Draw(canvas, image.Rect(cell.Min.X, cell.Max.Y-edge, cell.Max.X, cell.Max.Y), &image.Uniform{border}, image.Point{}, draw.Src)
		draw.Draw(canvas, image.Rect(cell.Min.X, cell.Min.Y, cell.Min.X+edge, cell.Max.Y), &image.Uniform{border}, image.Point{}, draw.Src)
		draw.Draw(canvas, image.Rect(cell.Max.X-edge, cell.Min.Y, cell.Max.X, cell.Max.Y), &image.Uniform{border}, image.Point{}, draw.Src)
	}

	final := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(final, final.Bounds(), canvas, canvas.Bounds(), draw.Over, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	if err := webp.Encode(f, final, &webp.Options{Lossless: false, Quality: 90}); err != nil {
		return err
	}

	log.Info().
		Str("path", path).
		Int("width", width).
		Int("height", height).
		Msg("Coverage raster written")

	return nil
}

package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"time"

	"github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/config"
	"github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/export"
	"github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/geo"
	"github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/logger"
	"github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/places"
	"github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/sweep"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	APIKey    string   `short:"k" long:"api-key"    env:"PLACES_API_KEY" description:"Places API key" required:"true"`
	Config    string   `short:"c" long:"config"     env:"CONFIG_FILE"    description:"YAML file describing multiple search areas"`
	SWLat     float64  `long:"sw-lat"     description:"South-west latitude of the search area"`
	SWLon     float64  `long:"sw-lon"     description:"South-west longitude of the search area"`
	NELat     float64  `long:"ne-lat"     description:"North-east latitude of the search area"`
	NELon     float64  `long:"ne-lon"     description:"North-east longitude of the search area"`
	Types     []string `short:"t" long:"type"      description:"Included place type (repeatable)"`
	Divisions int      `short:"d" long:"divisions"  description:"Edge size of the initial grid" default:"3"`
	MaxDepth  int      `long:"max-depth"  description:"Maximum density subdivision depth" default:"16"`
	PageDelay int      `long:"page-delay" description:"Seconds to wait before each continuation page" default:"2"`
	CSV       string   `long:"csv"        description:"CSV output path"     default:"places.csv"`
	Map       string   `long:"map"        description:"HTML coverage map output path" default:"map.html"`
	GeoJSON   string   `long:"geojson"    description:"GeoJSON coverage output path"`
	Raster    string   `long:"raster"     description:"WebP coverage raster output path"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	httpClient := &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
		Timeout: 15 * time.Second,
	}

	client := places.NewClient(opts.APIKey, httpClient)
	if opts.PageDelay >= 0 {
		client.PageDelay = time.Duration(opts.PageDelay) * time.Second
	}

	sweeper := sweep.New(client)
	if opts.MaxDepth > 0 {
		sweeper.MaxDepth = opts.MaxDepth
	}

	areas, maxDepth, err := resolveAreas(&opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid search configuration")
	}
	if maxDepth > 0 {
		sweeper.MaxDepth = maxDepth
	}

	ctx := context.Background()

	for _, area := range areas {
		log.Info().
			Str("area", area.Name).
			Float64("sw_lat", area.Bounds.SWLat).
			Float64("sw_lon", area.Bounds.SWLon).
			Float64("ne_lat", area.Bounds.NELat).
			Float64("ne_lon", area.Bounds.NELon).
			Msg("Starting search")

		results, areaLog := sweeper.Run(ctx, area.Bounds, area.IncludedTypes, area.Divisions)

		if area.CSV != "" {
			if err := export.WriteCSV(area.CSV, results); err != nil {
				log.Fatal().Err(err).Str("path", area.CSV).Msg("CSV export failed")
			}
		}
		if area.Map != "" {
			if err := export.WriteMap(area.Map, area.Bounds, areaLog); err != nil {
				log.Fatal().Err(err).Str("path", area.Map).Msg("Map export failed")
			}
		}
		if area.GeoJSON != "" {
			if err := export.WriteGeoJSON(area.GeoJSON, areaLog); err != nil {
				log.Fatal().Err(err).Str("path", area.GeoJSON).Msg("GeoJSON export failed")
			}
		}
		if area.Raster != "" {
			if err := export.WriteCoverageWebP(area.Raster, area.Bounds, areaLog, 1024); err != nil {
				log.Fatal().Err(err).Str("path", area.Raster).Msg("Raster export failed")
			}
		}

		log.Info().
			Str("area", area.Name).
			Int("places", len(results)).
			Msg("Search finished")
	}
}

// resolveAreas builds the list of search jobs from either the YAML config or
// the single-area flags. The second return value is the config file's
// max-depth override, zero when unset.
func resolveAreas(opts *Options) ([]config.Area, int, error) {
	if opts.Config != "" {
		cfg, err := config.Load(opts.Config)
		if err != nil {
			return nil, 0, err
		}
		for i := range cfg.Areas {
			if cfg.Areas[i].Divisions <= 0 {
				cfg.Areas[i].Divisions = opts.Divisions
			}
		}
		return cfg.Areas, cfg.MaxDepth, nil
	}

	if len(opts.Types) == 0 {
		return nil, 0, &flags.Error{Type: flags.ErrRequired, Message: "at least one --type is required without --config"}
	}
	if opts.SWLat == 0 && opts.SWLon == 0 && opts.NELat == 0 && opts.NELon == 0 {
		return nil, 0, &flags.Error{Type: flags.ErrRequired, Message: "search area bounds are required without --config"}
	}

	return []config.Area{{
		Name: "area",
		Bounds: geo.Rectangle{
			SWLat: opts.SWLat,
			SWLon: opts.SWLon,
			NELat: opts.NELat,
			NELon: opts.NELon,
		},
		IncludedTypes: opts.Types,
		Divisions:     opts.Divisions,
		CSV:           opts.CSV,
		Map:           opts.Map,
		GeoJSON:       opts.GeoJSON,
		Raster:        opts.Raster,
	}}, 0, nil
}

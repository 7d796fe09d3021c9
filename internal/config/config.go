// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"

	"github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/geo"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Areas     []Area `yaml:"areas"`
	Divisions int    `yaml:"divisions,omitempty"`
	MaxDepth  int    `yaml:"max_depth,omitempty"`
}

// Area describes one named search job: where to look, what to look for and
// which artifacts to write.
type Area struct {
	Name          string        `yaml:"name"`
	Bounds        geo.Rectangle `yaml:"bounds"`
	IncludedTypes []string      `yaml:"included_types"`
	Divisions     int           `yaml:"divisions,omitempty"`
	CSV           string        `yaml:"csv,omitempty"`
	Map           string        `yaml:"map,omitempty"`
	GeoJSON       string        `yaml:"geojson,omitempty"`
	Raster        string        `yaml:"raster,omitempty"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	for i := range cfg.Areas {
		a := &cfg.Areas[i]
		if a.Name == "" {
			a.Name = fmt.Sprintf("area-%d", i+1)
		}
		if a.Divisions <= 0 {
			a.Divisions = cfg.Divisions
		}
		if len(a.IncludedTypes) == 0 {
			return nil, fmt.Errorf("area %q: included_types must not be empty", a.Name)
		}
	}

	return &cfg, nil
}

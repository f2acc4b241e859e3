// Package config provides configuration loading and management for
// fraccover. It handles loading configuration from YAML files and provides
// default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"fraccover/pkg/fractional"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Input describes the raw cube file fed to the pipeline.
	Input struct {
		// Path is the band-sequential little-endian int16 cube file.
		Path string `yaml:"path"`

		// Bands lists the band names in file order.
		Bands []string `yaml:"bands"`

		// Timesteps, Height and Width are the cube dimensions.
		Timesteps int `yaml:"timesteps"`
		Height    int `yaml:"height"`
		Width     int `yaml:"width"`

		// NoData is the sentinel recorded on every input band.
		NoData float64 `yaml:"nodata"`

		// CRS is the coordinate reference system attached to the cube.
		CRS string `yaml:"crs"`
	} `yaml:"input"`

	// Pipeline holds the fractional cover knobs.
	Pipeline struct {
		// RegressionCoefficients recalibrate input bands before unmixing.
		// Bands left unspecified get the identity pair.
		RegressionCoefficients fractional.Coefficients `yaml:"regressionCoefficients"`

		// C2Scaling enables USGS Collection-2 radiometric scaling.
		C2Scaling bool `yaml:"c2Scaling"`

		// TestMode crops the cube to a small spatial window for fast runs.
		TestMode bool `yaml:"testMode"`

		// Workers bounds concurrent per-timestep unmixing.
		Workers int `yaml:"workers"`
	} `yaml:"pipeline"`

	// Output controls what the CLI writes.
	Output struct {
		// QuicklookDir receives per-timestep RGB composite previews.
		// Empty disables quicklook rendering.
		QuicklookDir string `yaml:"quicklookDir"`

		// Verbose controls the level of logging output.
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Input.Bands = append([]string(nil), fractional.RequiredBands...)
	cfg.Input.NoData = -999
	cfg.Input.CRS = "EPSG:3577"

	cfg.Pipeline.RegressionCoefficients = fractional.DefaultCoefficients()
	cfg.Pipeline.C2Scaling = false
	cfg.Pipeline.TestMode = false
	cfg.Pipeline.Workers = runtime.NumCPU()

	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file. If the file doesn't
// exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

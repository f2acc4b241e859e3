package main

import (
	"flag"
	"os"
	"time"

	"gonum.org/v1/gonum/stat"

	"fraccover/internal/log"
	"fraccover/pkg/config"
	"fraccover/pkg/cube"
	"fraccover/pkg/fractional"
	"fraccover/pkg/quicklook"
)

func main() {
	configPath := flag.String("config", "fraccover.yaml", "Path to YAML configuration file")
	inputPath := flag.String("input", "", "Raw cube file (overrides config)")
	quicklookDir := flag.String("quicklook-dir", "", "Directory for quicklook composites (overrides config)")
	c2Scaling := flag.Bool("c2-scaling", false, "Enable USGS Collection-2 radiometric scaling")
	testMode := flag.Bool("test-mode", false, "Crop input to a small window for a fast verification run")
	workers := flag.Int("workers", 0, "Concurrent timestep unmixing (0 uses config value)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *inputPath != "" {
		cfg.Input.Path = *inputPath
	}
	if *quicklookDir != "" {
		cfg.Output.QuicklookDir = *quicklookDir
	}
	if *c2Scaling {
		cfg.Pipeline.C2Scaling = true
	}
	if *testMode {
		cfg.Pipeline.TestMode = true
	}
	if *workers > 0 {
		cfg.Pipeline.Workers = *workers
	}

	if err := log.Init(cfg.Output.Verbose); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Input.Path == "" {
		flag.Usage()
		log.Fatalf("no input cube given")
	}

	scene, err := loadScene(cfg)
	if err != nil {
		log.Fatalf("failed to load scene cube: %v", err)
	}
	log.Infof("loaded scene cube: %d bands, %d timesteps, %dx%d cells",
		len(scene.Bands), len(scene.Times), scene.Height, scene.Width)

	// The physical unmixing algorithm is supplied by the host framework in
	// production; the CLI runs the fast stand-in to verify plumbing and to
	// render previews.
	transform := fractional.NewTransform(&fractional.Params{
		Coefficients: cfg.Pipeline.RegressionCoefficients,
		C2Scaling:    cfg.Pipeline.C2Scaling,
		TestMode:     cfg.Pipeline.TestMode,
		Workers:      cfg.Pipeline.Workers,
		Unmix:        fractional.FakeUnmix,
	})

	meta := transform.AlgorithmMetadata()
	log.Infof("algorithm: %s %s", meta.Algorithm.Name, meta.Algorithm.Version)

	start := time.Now()
	fractions, err := transform.Compute(scene)
	if err != nil {
		log.Fatalf("fractional cover computation failed: %v", err)
	}
	log.Infof("computation finished in %.2fs", time.Since(start).Seconds())

	printSummary(fractions)

	if cfg.Output.QuicklookDir != "" {
		renderer := quicklook.NewRenderer(90)
		paths, err := renderer.SaveSequence(fractions, cfg.Output.QuicklookDir)
		if err != nil {
			log.Fatalf("failed to write quicklooks: %v", err)
		}
		log.Infof("wrote %d quicklook composites to %s", len(paths), cfg.Output.QuicklookDir)
	}
}

// loadScene reads the raw cube described by the config and attaches the
// configured CRS.
func loadScene(cfg *config.Config) (*cube.Cube, error) {
	file, err := os.Open(cfg.Input.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scene, err := cube.ReadRaw(file, cube.RawLayout{
		Bands:     cfg.Input.Bands,
		Timesteps: cfg.Input.Timesteps,
		Height:    cfg.Input.Height,
		Width:     cfg.Input.Width,
		NoData:    cfg.Input.NoData,
	})
	if err != nil {
		return nil, err
	}
	scene.Attrs[cube.AttrCRS] = cfg.Input.CRS
	return scene, nil
}

// printSummary logs per-band statistics over valid cells.
func printSummary(c *cube.Cube) {
	for _, b := range c.Bands {
		nodata, hasNoData := b.NoDataValue()
		valid := make([]float64, 0, len(b.Data))
		for _, v := range b.Data {
			if hasNoData && v == nodata {
				continue
			}
			valid = append(valid, v)
		}
		if len(valid) == 0 {
			log.Infof("band %-4s: no valid cells", b.Name)
			continue
		}
		mean := stat.Mean(valid, nil)
		sd := stat.StdDev(valid, nil)
		log.Infof("band %-4s: %d/%d valid cells, mean %.2f, stddev %.2f",
			b.Name, len(valid), len(b.Data), mean, sd)
	}
}

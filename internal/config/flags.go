package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagProfile     = flag.String("profile", "", "Terrain profile (desktop, web)")
	flagSize        = flag.Float64("size", 0, "Terrain edge length")
	flagResolution  = flag.Uint("resolution", 0, "Grid cells per edge")
	flagHeightScale = flag.Float64("height-scale", 0, "Height multiplier")
	flagSeed        = flag.Int64("seed", 0, "Noise seed")
	flagAltitude    = flag.String("altitude", "", "GRAT altitude table to use instead of noise")
	flagFlat        = flag.Bool("flat", false, "Use flat normals")
	flagNoTangents  = flag.Bool("no-tangents", false, "Skip tangent generation")
	flagWorkers     = flag.Int("workers", 0, "Parallel workers (0 = GOMAXPROCS)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagProfile != "" {
		if err := cfg.ApplyProfile(*flagProfile); err != nil {
			return err
		}
	}
	if *flagSize > 0 {
		cfg.Terrain.Size = float32(*flagSize)
	}
	if *flagResolution > 0 {
		cfg.Terrain.Resolution = uint32(*flagResolution)
	}
	if *flagHeightScale != 0 {
		cfg.Terrain.HeightScale = float32(*flagHeightScale)
	}
	if *flagSeed != 0 {
		cfg.Noise.Seed = *flagSeed
	}
	if *flagAltitude != "" {
		cfg.Terrain.AltitudeFile = *flagAltitude
	}
	if *flagFlat {
		cfg.Mesh.NormalMode = "flat"
	}
	if *flagNoTangents {
		cfg.Mesh.Tangents = false
	}
	if *flagWorkers > 0 {
		cfg.Mesh.Workers = *flagWorkers
	}
	return nil
}

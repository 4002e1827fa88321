// Package config handles terrain build configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-terrain/internal/projectile"
	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/heightfield"
	"github.com/Faultbox/midgard-terrain/pkg/meshopt"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all terrain build settings.
type Config struct {
	Terrain    TerrainConfig     `yaml:"terrain"`
	Noise      NoiseConfig       `yaml:"noise"`
	Mesh       MeshConfig        `yaml:"mesh"`
	Projectile projectile.Config `yaml:"projectile"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// TerrainConfig holds the grid dimensions.
type TerrainConfig struct {
	Profile     string  `yaml:"profile"` // desktop, web or empty for explicit values
	Size        float32 `yaml:"size"`
	Resolution  uint32  `yaml:"resolution"`
	HeightScale float32 `yaml:"height_scale"`

	// AltitudeFile replaces the noise with a GRAT altitude table when set.
	AltitudeFile string `yaml:"altitude_file"`
}

// NoiseConfig holds the Perlin sampler settings.
type NoiseConfig struct {
	Seed      int64   `yaml:"seed"`
	Frequency float64 `yaml:"frequency"`
	Alpha     float64 `yaml:"alpha"`
	Beta      float64 `yaml:"beta"`
	Octaves   int32   `yaml:"octaves"`
}

// MeshConfig holds mesh processing settings.
type MeshConfig struct {
	NormalMode string `yaml:"normal_mode"` // smooth or flat
	Tangents   bool   `yaml:"tangents"`
	Optimize   bool   `yaml:"optimize"`
	CacheSize  int    `yaml:"cache_size"`
	Workers    int    `yaml:"workers"` // 0 uses GOMAXPROCS
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Profiles maps profile names to their terrain dimensions.
var Profiles = map[string]TerrainConfig{
	"desktop": {Size: 1200000, Resolution: 750, HeightScale: 2300},
	"web":     {Size: 12000, Resolution: 300, HeightScale: 100},
}

// Default returns a Config with sensible default values.
func Default() *Config {
	noise := heightfield.DefaultPerlinConfig()
	return &Config{
		Terrain: TerrainConfig{
			Size:        12000,
			Resolution:  300,
			HeightScale: 100,
		},
		Noise: NoiseConfig{
			Seed:      noise.Seed,
			Frequency: noise.Frequency,
			Alpha:     noise.Alpha,
			Beta:      noise.Beta,
			Octaves:   noise.Octaves,
		},
		Mesh: MeshConfig{
			NormalMode: terrain.SmoothNormals.String(),
			Tangents:   true,
			Optimize:   true,
			CacheSize:  meshopt.DefaultCacheSize,
			Workers:    0,
		},
		Projectile: projectile.DefaultConfig(),
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ApplyProfile replaces the terrain dimensions with the named profile.
func (c *Config) ApplyProfile(name string) error {
	p, ok := Profiles[name]
	if !ok {
		return fmt.Errorf("%w: unknown profile %q", ErrInvalidConfig, name)
	}
	c.Terrain.Profile = name
	c.Terrain.Size = p.Size
	c.Terrain.Resolution = p.Resolution
	c.Terrain.HeightScale = p.HeightScale
	return nil
}

// Validate checks the config before a build.
func (c *Config) Validate() error {
	if p := c.Terrain.Profile; p != "" {
		if _, ok := Profiles[p]; !ok {
			return fmt.Errorf("%w: unknown profile %q", ErrInvalidConfig, p)
		}
	}
	if err := c.TerrainSpec().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := terrain.ParseNormalMode(c.Mesh.NormalMode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Mesh.CacheSize < 0 {
		return fmt.Errorf("%w: cache size must not be negative, got %d", ErrInvalidConfig, c.Mesh.CacheSize)
	}
	if c.Mesh.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Mesh.Workers)
	}
	if c.Noise.Octaves < 0 {
		return fmt.Errorf("%w: octaves must not be negative, got %d", ErrInvalidConfig, c.Noise.Octaves)
	}
	if c.Projectile.Radius < 0 {
		return fmt.Errorf("%w: projectile radius must not be negative, got %v", ErrInvalidConfig, c.Projectile.Radius)
	}
	return nil
}

// TerrainSpec returns the grid spec for a build.
func (c *Config) TerrainSpec() terrain.Spec {
	return terrain.Spec{
		Size:        c.Terrain.Size,
		Resolution:  c.Terrain.Resolution,
		HeightScale: c.Terrain.HeightScale,
	}
}

// PerlinConfig returns the noise sampler settings.
func (c *Config) PerlinConfig() heightfield.PerlinConfig {
	return heightfield.PerlinConfig{
		Seed:      c.Noise.Seed,
		Frequency: c.Noise.Frequency,
		Alpha:     c.Noise.Alpha,
		Beta:      c.Noise.Beta,
		Octaves:   c.Noise.Octaves,
	}
}

// Sampler returns the height source for a build: the altitude table
// stretched over the terrain when one is configured, Perlin noise otherwise.
func (c *Config) Sampler() (heightfield.Func, error) {
	if c.Terrain.AltitudeFile == "" {
		return heightfield.NewPerlin(c.PerlinConfig()), nil
	}
	table, err := heightfield.LoadAltitudeTable(c.Terrain.AltitudeFile)
	if err != nil {
		return nil, err
	}
	return table.Sampler(c.Terrain.Size), nil
}

// BuildOptions returns the mesh processing options. The logger is left nil
// so the build uses the package logger.
func (c *Config) BuildOptions() (terrain.Options, error) {
	mode, err := terrain.ParseNormalMode(c.Mesh.NormalMode)
	if err != nil {
		return terrain.Options{}, err
	}
	return terrain.Options{
		Normals:   mode,
		Tangents:  c.Mesh.Tangents,
		Optimize:  c.Mesh.Optimize,
		CacheSize: c.Mesh.CacheSize,
		Workers:   c.Mesh.Workers,
	}, nil
}

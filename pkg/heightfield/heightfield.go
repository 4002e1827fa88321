// Package heightfield provides deterministic 2D elevation samplers.
package heightfield

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// Func maps a planar coordinate to an elevation. Implementations must be pure:
// identical coordinates always yield identical heights. Builders may call a
// Func from several goroutines at once.
type Func func(x, z float32) float32

// Constant returns a flat field at height h.
func Constant(h float32) Func {
	return func(x, z float32) float32 {
		return h
	}
}

// Finite reports whether h is neither NaN nor infinite.
func Finite(h float32) bool {
	return !math.IsNaN(float64(h)) && !math.IsInf(float64(h), 0)
}

// PerlinConfig parameterizes a Perlin noise field.
type PerlinConfig struct {
	Seed      int64
	Frequency float64 // planar coordinates are multiplied by this before sampling
	Alpha     float64 // weight divisor between octaves
	Beta      float64 // frequency multiplier between octaves
	Octaves   int32
}

// DefaultPerlinConfig returns settings for smooth rolling hills at the scale
// of the default terrain.
func DefaultPerlinConfig() PerlinConfig {
	return PerlinConfig{
		Seed:      1,
		Frequency: 0.0005,
		Alpha:     2,
		Beta:      2,
		Octaves:   3,
	}
}

// NewPerlin returns a Perlin noise sampler. The permutation tables are built
// once here; the returned Func only reads them and is safe for concurrent use.
func NewPerlin(cfg PerlinConfig) Func {
	if cfg.Octaves < 1 {
		cfg.Octaves = 1
	}
	if cfg.Frequency == 0 {
		cfg.Frequency = 1
	}
	p := perlin.NewPerlin(cfg.Alpha, cfg.Beta, cfg.Octaves, cfg.Seed)
	freq := cfg.Frequency

	return func(x, z float32) float32 {
		return float32(p.Noise2D(float64(x)*freq, float64(z)*freq))
	}
}

// Scaled multiplies every sample of f by scale.
func Scaled(f Func, scale float32) Func {
	return func(x, z float32) float32 {
		return f(x, z) * scale
	}
}

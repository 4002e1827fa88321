// terrainbuild generates procedural terrain meshes and reports on them.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/internal/projectile"
	"github.com/Faultbox/midgard-terrain/internal/terrain"
)

func main() {
	flag.Usage = printUsage

	// Parse CLI flags first
	config.ParseFlags()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "build":
		cmdBuild(args)
	case "export":
		cmdExport(args)
	case "shoot":
		cmdShoot(args)
	case "config":
		cmdConfig(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terrainbuild - procedural terrain mesh generator

Usage:
  terrainbuild [flags] <command> [options]

Commands:
  build                     Build the terrain and print statistics
  export -o <file.obj>      Build the terrain and write a Wavefront OBJ
  shoot [-yaw D] [-pitch D] Launch a projectile from above the terrain center
  config [-o <file>]        Write the effective config as YAML

Flags:
  -config <file>      Config file (default ./terrain.yaml)
  -profile <name>     Terrain profile: desktop, web
  -size, -resolution, -height-scale, -seed
  -altitude <file.gat> Heights from a GRAT altitude table
  -flat               Flat normals
  -no-tangents        Skip tangents
  -workers <n>        Parallel workers
  -debug              Debug logging

Examples:
  terrainbuild -profile web build
  terrainbuild -resolution 64 -flat export -o terrain.obj
  terrainbuild shoot -yaw 45`)
}

// setup loads the config and starts logging. Callers must defer logger.Sync.
func setup() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	logger.Sugar.Debugf("Config: %+v", cfg)
	return cfg
}

func build(cfg *config.Config) *terrain.Terrain {
	opts, err := cfg.BuildOptions()
	if err != nil {
		logger.Error("invalid build options", zap.Error(err))
		os.Exit(1)
	}
	sample, err := cfg.Sampler()
	if err != nil {
		logger.Error("failed to load height source", zap.Error(err))
		os.Exit(1)
	}
	t, err := terrain.Build(cfg.TerrainSpec(), sample, opts)
	if err != nil {
		logger.Error("terrain build failed", zap.Error(err))
		os.Exit(1)
	}
	return t
}

func cmdBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	fs.Parse(args)

	cfg := setup()
	defer logger.Sync()

	t := build(cfg)
	printReport(t)
}

func printReport(t *terrain.Terrain) {
	r := t.Report
	b := t.Bounds()

	fmt.Printf("Size:        %.0f\n", t.Spec.Size)
	fmt.Printf("Resolution:  %d\n", t.Spec.Resolution)
	fmt.Printf("Vertices:    %d (render %d)\n", r.Vertices, len(t.Render.Vertices))
	fmt.Printf("Triangles:   %d\n", r.Triangles)
	fmt.Printf("Normals:     %s\n", t.Attributes.Mode)
	fmt.Printf("Height:      %.2f .. %.2f\n", b.Min.Y(), b.Max.Y())
	fmt.Printf("ACMR:        %.3f -> %.3f\n", r.CacheBefore.ACMR, r.CacheAfter.ACMR)
	fmt.Printf("ATVR:        %.3f -> %.3f\n", r.CacheBefore.ATVR, r.CacheAfter.ATVR)
	fmt.Printf("Merged:      %d duplicate vertices\n", r.MergedVertices)
	fmt.Println()
	fmt.Println("Timings:")
	fmt.Printf("  %-12s %v\n", "sample", r.Timings.Sample)
	fmt.Printf("  %-12s %v\n", "optimize", r.Timings.Optimize)
	fmt.Printf("  %-12s %v\n", "attributes", r.Timings.Attributes)
	fmt.Printf("  %-12s %v\n", "collider", r.Timings.Collider)
	fmt.Printf("  %-12s %v\n", "total", r.Timings.Total)

	if r.Degenerate() {
		fmt.Println()
		fmt.Println("Degenerate geometry:")
		fmt.Printf("  collapsed triangles   %d\n", r.CollapsedTriangles)
		fmt.Printf("  normal faces skipped  %d\n", r.SkippedNormalFaces)
		fmt.Printf("  tangent faces skipped %d\n", r.SkippedTangentFaces)
		fmt.Printf("  collider excluded     %d\n", r.ExcludedColliderTriangles)
	}
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("o", "terrain.obj", "Output OBJ file")
	fs.Parse(args)

	cfg := setup()
	defer logger.Sync()

	t := build(cfg)

	if err := exportOBJ(*output, t); err != nil {
		logger.Error("failed to export OBJ", zap.String("path", *output), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("exported terrain",
		zap.String("path", *output),
		zap.Int("vertices", len(t.Render.Vertices)),
		zap.Int("triangles", t.Render.TriangleCount()))
}

func cmdShoot(args []string) {
	fs := flag.NewFlagSet("shoot", flag.ExitOnError)
	yaw := fs.Float64("yaw", 0, "Yaw in degrees around +Y")
	pitch := fs.Float64("pitch", 0, "Pitch in degrees")
	eye := fs.Float64("eye", 10, "Height above the terrain surface")
	count := fs.Int("n", 1, "Number of shots")
	fs.Parse(args)

	cfg := setup()
	defer logger.Sync()

	t := build(cfg)
	ground, _ := t.HeightAt(0, 0)

	rotation := mgl32.QuatRotate(mgl32.DegToRad(float32(*yaw)), mgl32.Vec3{0, 1, 0}).
		Mul(mgl32.QuatRotate(mgl32.DegToRad(float32(*pitch)), mgl32.Vec3{1, 0, 0}))
	pose := projectile.Pose{
		Position: mgl32.Vec3{0, ground + float32(*eye), 0},
		Rotation: rotation,
	}

	q := projectile.NewQueue(cfg.Projectile)
	for range *count {
		q.Send(pose)
	}
	q.Drain(projectile.SpawnerFunc(func(p projectile.Projectile) {
		fmt.Printf("sphere r=%.2f at %v velocity %v\n", p.Radius, p.Position, p.LinearVelocity)
	}))
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	output := fs.String("o", "", "Output file (default: user config dir)")
	fs.Parse(args)

	cfg := setup()
	defer logger.Sync()

	var err error
	if *output == "" {
		err = cfg.Save()
	} else {
		err = cfg.SaveTo(*output)
	}
	if err != nil {
		logger.Error("failed to save config", zap.Error(err))
		os.Exit(1)
	}
}

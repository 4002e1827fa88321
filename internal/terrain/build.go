package terrain

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/pkg/heightfield"
)

// Build runs the whole pipeline: grid sampling, optimization, surface
// attributes and collider extraction. Invalid specs and structural errors
// abort the build; degenerate geometry is counted in the report.
//
// Given the same spec, sampler and options, Build returns bit-identical
// buffers.
func Build(spec Spec, sample heightfield.Func, opts Options) (*Terrain, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Named("terrain")
	}
	if !opts.Normals.valid() {
		return nil, fmt.Errorf("%w: %w: %d", ErrInvalidSpec, ErrUnknownNormalMode, int(opts.Normals))
	}

	var report Report
	start := time.Now()

	phase := time.Now()
	grid, err := BuildGrid(spec, sample, opts.Workers)
	if err != nil {
		return nil, err
	}
	heightmap := BuildHeightmap(spec, grid)
	report.Timings.Sample = time.Since(phase)
	log.Debug("grid sampled",
		zap.Int("vertices", len(grid.Vertices)),
		zap.Int("triangles", grid.TriangleCount()),
		zap.Duration("took", report.Timings.Sample))

	phase = time.Now()
	opt, err := Optimize(grid, opts.Optimize, opts.CacheSize)
	if err != nil {
		return nil, err
	}
	mesh := opt.Mesh
	report.MergedVertices = opt.MergedVertices
	report.CollapsedTriangles = opt.CollapsedTriangles
	report.CacheBefore = opt.CacheBefore
	report.CacheAfter = opt.CacheAfter
	report.Timings.Optimize = time.Since(phase)
	log.Debug("mesh optimized",
		zap.Bool("enabled", opts.Optimize),
		zap.Float32("acmr_before", opt.CacheBefore.ACMR),
		zap.Float32("acmr_after", opt.CacheAfter.ACMR),
		zap.Duration("took", report.Timings.Optimize))

	phase = time.Now()
	render, attrs, err := DeriveAttributes(mesh, opts.Normals, opts.Tangents, opts.Workers)
	if err != nil {
		return nil, err
	}
	report.SkippedNormalFaces = attrs.SkippedNormalFaces
	report.DegenerateNormalVertices = len(attrs.DegenerateNormals)
	report.SkippedTangentFaces = attrs.SkippedTangentFaces
	report.DegenerateTangentVertices = len(attrs.DegenerateTangents)
	report.Timings.Attributes = time.Since(phase)
	log.Debug("surface attributes derived",
		zap.Stringer("normals", opts.Normals),
		zap.Bool("tangents", opts.Tangents),
		zap.Int("render_vertices", len(render.Vertices)),
		zap.Duration("took", report.Timings.Attributes))

	phase = time.Now()
	collider, excluded, err := ExtractCollider(mesh)
	if err != nil {
		return nil, err
	}
	report.ExcludedColliderTriangles = excluded
	report.Timings.Collider = time.Since(phase)

	report.Vertices = len(mesh.Vertices)
	report.Triangles = mesh.TriangleCount()
	report.Timings.Total = time.Since(start)

	logReport(log, spec, report)

	return &Terrain{
		Spec:       spec,
		Mesh:       mesh,
		Render:     render,
		Attributes: attrs,
		Collider:   collider,
		Heightmap:  heightmap,
		Report:     report,
	}, nil
}

func logReport(log *zap.Logger, spec Spec, r Report) {
	log.Info("terrain built",
		zap.Float32("size", spec.Size),
		zap.Uint32("resolution", spec.Resolution),
		zap.Int("vertices", r.Vertices),
		zap.Int("triangles", r.Triangles),
		zap.Float32("acmr", r.CacheAfter.ACMR),
		zap.Duration("took", r.Timings.Total))

	warn := func(msg string, n int) {
		if n > 0 {
			log.Warn(msg, zap.Int("count", n))
		}
	}
	warn("merged duplicate vertices", r.MergedVertices)
	warn("dropped collapsed triangles", r.CollapsedTriangles)
	warn("skipped zero-area faces in normals", r.SkippedNormalFaces)
	warn("vertices without a usable normal", r.DegenerateNormalVertices)
	warn("skipped zero UV-area faces in tangents", r.SkippedTangentFaces)
	warn("vertices without a usable tangent", r.DegenerateTangentVertices)
	warn("excluded degenerate collider triangles", r.ExcludedColliderTriangles)
}

// RenderVertices interleaves the render mesh with its attributes.
func (t *Terrain) RenderVertices() []RenderVertex {
	out := make([]RenderVertex, len(t.Render.Vertices))
	for i, v := range t.Render.Vertices {
		rv := RenderVertex{
			Position: v.Position,
			Normal:   t.Attributes.Normals[i],
			TexCoord: v.TexCoord,
		}
		if t.Attributes.Tangents != nil {
			rv.Tangent = t.Attributes.Tangents[i]
		}
		out[i] = rv
	}
	return out
}

// HeightAt returns the terrain height at world (x, z).
func (t *Terrain) HeightAt(x, z float32) (float32, bool) {
	return t.Heightmap.HeightAt(x, z)
}

// Bounds returns the terrain's bounding box.
func (t *Terrain) Bounds() Bounds {
	return t.Mesh.Bounds
}

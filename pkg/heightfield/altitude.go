package heightfield

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
)

// Altitude table errors.
var (
	ErrInvalidAltitudeMagic       = errors.New("invalid altitude table magic: expected 'GRAT'")
	ErrUnsupportedAltitudeVersion = errors.New("unsupported altitude table version")
	ErrTruncatedAltitudeData      = errors.New("truncated altitude table data")
)

const (
	altitudeHeaderSize = 14
	maxAltitudeCells   = 4096
)

// altitudeCell is the on-disk cell record. Corners are ordered
// bottom-left, bottom-right, top-left, top-right; the cell type is unused.
type altitudeCell struct {
	Corners [4]float32
	Type    uint32
}

// AltitudeTable is a grid of cells with one altitude per cell corner, read
// from a GRAT ground altitude file. Stored altitudes grow downward.
type AltitudeTable struct {
	Width   int
	Depth   int
	corners [][4]float32
}

// ParseAltitudeTable parses a GRAT file from raw bytes.
func ParseAltitudeTable(data []byte) (*AltitudeTable, error) {
	if len(data) < altitudeHeaderSize {
		return nil, ErrTruncatedAltitudeData
	}
	if string(data[0:4]) != "GRAT" {
		return nil, ErrInvalidAltitudeMagic
	}

	// Version is stored as [minor, major]; the cell layout is the same for 1.x to 3.x.
	major, minor := data[5], data[4]
	if major < 1 || major > 3 {
		return nil, fmt.Errorf("%w: %d.%d", ErrUnsupportedAltitudeVersion, major, minor)
	}

	r := bytes.NewReader(data[6:])

	var dims [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return nil, fmt.Errorf("%w: reading dimensions", ErrTruncatedAltitudeData)
	}
	width, depth := dims[0], dims[1]
	if width == 0 || depth == 0 || width > maxAltitudeCells || depth > maxAltitudeCells {
		return nil, fmt.Errorf("invalid altitude table dimensions: %dx%d", width, depth)
	}

	cells := make([]altitudeCell, int(width)*int(depth))
	if err := binary.Read(r, binary.LittleEndian, cells); err != nil {
		return nil, fmt.Errorf("%w: reading %d cells", ErrTruncatedAltitudeData, len(cells))
	}

	t := &AltitudeTable{
		Width:   int(width),
		Depth:   int(depth),
		corners: make([][4]float32, len(cells)),
	}
	for i, c := range cells {
		for k, h := range c.Corners {
			if !Finite(h) {
				return nil, fmt.Errorf("cell %d corner %d: non-finite altitude %v", i, k, h)
			}
		}
		t.corners[i] = c.Corners
	}
	return t, nil
}

// LoadAltitudeTable parses a GRAT file from disk.
func LoadAltitudeTable(path string) (*AltitudeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading altitude table: %w", err)
	}
	return ParseAltitudeTable(data)
}

// Corners returns the four corner altitudes of cell (x, z).
func (t *AltitudeTable) Corners(x, z int) ([4]float32, bool) {
	if x < 0 || z < 0 || x >= t.Width || z >= t.Depth {
		return [4]float32{}, false
	}
	return t.corners[z*t.Width+x], true
}

// Range returns the lowest and highest stored altitude.
func (t *AltitudeTable) Range() (lo, hi float32) {
	if len(t.corners) == 0 {
		return 0, 0
	}
	lo, hi = t.corners[0][0], t.corners[0][0]
	for _, c := range t.corners {
		for _, h := range c {
			lo = min(lo, h)
			hi = max(hi, h)
		}
	}
	return lo, hi
}

// Sampler stretches the table over a square of edge extent centered at the
// origin and returns heights with +Y up. Each cell is interpolated bilinearly
// between its own corners; points outside the square clamp to the edge.
func (t *AltitudeTable) Sampler(extent float32) Func {
	w, d := float32(t.Width), float32(t.Depth)
	return func(x, z float32) float32 {
		u := (x/extent + 0.5) * w
		v := (z/extent + 0.5) * d
		cx, fx := cellOf(u, t.Width)
		cz, fz := cellOf(v, t.Depth)

		c := t.corners[cz*t.Width+cx]
		bottom := c[0] + (c[1]-c[0])*fx
		top := c[2] + (c[3]-c[2])*fx
		return -(bottom + (top-bottom)*fz)
	}
}

// cellOf splits a cell-space coordinate into a cell index in [0, n) and the
// fraction within it.
func cellOf(u float32, n int) (int, float32) {
	if !(u > 0) {
		return 0, 0
	}
	if u >= float32(n) {
		return n - 1, 1
	}
	i := int(math.Floor(float64(u)))
	if i >= n {
		i = n - 1
	}
	return i, u - float32(i)
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/midgard-terrain/internal/terrain"
)

// exportOBJ writes the render mesh to path. A failed close is reported like
// a failed write.
func exportOBJ(path string, t *terrain.Terrain) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := writeOBJ(file, t); err != nil {
		return errors.Join(fmt.Errorf("writing OBJ: %w", err), file.Close())
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}
	return nil
}

// writeOBJ writes the render mesh as Wavefront OBJ. Every render vertex gets
// one v, vt and vn record, so face triples share a single index.
func writeOBJ(w io.Writer, t *terrain.Terrain) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# terrain size %g resolution %d\n", t.Spec.Size, t.Spec.Resolution)
	fmt.Fprintf(bw, "o terrain\n")

	for _, v := range t.Render.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v.Position[0], v.Position[1], v.Position[2])
	}
	for _, v := range t.Render.Vertices {
		fmt.Fprintf(bw, "vt %g %g\n", v.TexCoord[0], v.TexCoord[1])
	}
	for _, n := range t.Attributes.Normals {
		fmt.Fprintf(bw, "vn %g %g %g\n", n[0], n[1], n[2])
	}

	idx := t.Render.Indices
	for i := 0; i+2 < len(idx); i += 3 {
		a, b, c := idx[i]+1, idx[i+1]+1, idx[i+2]+1
		fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
	}

	return bw.Flush()
}

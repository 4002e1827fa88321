package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/heightfield"
)

func TestWriteOBJ(t *testing.T) {
	opts := terrain.DefaultOptions()
	opts.Logger = zap.NewNop()
	terr, err := terrain.Build(terrain.Spec{Size: 10, Resolution: 2, HeightScale: 1}, heightfield.Constant(0), opts)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var buf bytes.Buffer
	if err := writeOBJ(&buf, terr); err != nil {
		t.Fatalf("writeOBJ failed: %v", err)
	}

	counts := make(map[string]int)
	for _, line := range strings.Split(buf.String(), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		counts[fields[0]]++
		if fields[0] == "vn" {
			if y, err := strconv.ParseFloat(fields[2], 32); err != nil || y < 0.9999 {
				t.Errorf("expected upward normal on flat terrain, got %q", line)
			}
		}
	}

	if counts["v"] != 9 || counts["vt"] != 9 || counts["vn"] != 9 {
		t.Errorf("expected 9 v/vt/vn records, got %d/%d/%d", counts["v"], counts["vt"], counts["vn"])
	}
	if counts["f"] != 8 {
		t.Errorf("expected 8 faces, got %d", counts["f"])
	}
	if strings.Contains(buf.String(), " 0/") {
		t.Error("expected 1-based face indices")
	}
}

func TestExportOBJ(t *testing.T) {
	opts := terrain.DefaultOptions()
	opts.Logger = zap.NewNop()
	terr, err := terrain.Build(terrain.Spec{Size: 4, Resolution: 1, HeightScale: 1}, heightfield.Constant(0), opts)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "terrain.obj")
	if err := exportOBJ(path, terr); err != nil {
		t.Fatalf("exportOBJ failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if n := strings.Count(string(data), "\nf "); n != 2 {
		t.Errorf("expected 2 faces in file, got %d", n)
	}

	missing := filepath.Join(t.TempDir(), "missing", "terrain.obj")
	if err := exportOBJ(missing, terr); err == nil {
		t.Error("expected error exporting into a missing directory")
	}
}

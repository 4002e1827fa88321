package heightfield

import (
	"math"
	"sync"
	"testing"
)

func TestConstant(t *testing.T) {
	f := Constant(3.5)
	for _, p := range [][2]float32{{0, 0}, {-100, 42}, {1e6, -1e6}} {
		if got := f(p[0], p[1]); got != 3.5 {
			t.Errorf("at %v: expected 3.5, got %f", p, got)
		}
	}
}

func TestFinite(t *testing.T) {
	tests := []struct {
		h    float32
		want bool
	}{
		{0, true},
		{-12.5, true},
		{float32(math.NaN()), false},
		{float32(math.Inf(1)), false},
		{float32(math.Inf(-1)), false},
	}
	for _, tt := range tests {
		if got := Finite(tt.h); got != tt.want {
			t.Errorf("Finite(%v): expected %v, got %v", tt.h, tt.want, got)
		}
	}
}

func TestPerlinDeterministic(t *testing.T) {
	cfg := DefaultPerlinConfig()
	a := NewPerlin(cfg)
	b := NewPerlin(cfg)

	for i := range 100 {
		x := float32(i) * 137.25
		z := float32(i) * -91.5
		ha, hb := a(x, z), b(x, z)
		if math.Float32bits(ha) != math.Float32bits(hb) {
			t.Fatalf("at (%f, %f): samplers disagree, %f vs %f", x, z, ha, hb)
		}
		if ha != a(x, z) {
			t.Fatalf("at (%f, %f): repeated sample differs", x, z)
		}
		if !Finite(ha) {
			t.Fatalf("at (%f, %f): non-finite height %f", x, z, ha)
		}
	}
}

func TestPerlinSeedsDiffer(t *testing.T) {
	cfg := DefaultPerlinConfig()
	a := NewPerlin(cfg)
	cfg.Seed = 99
	b := NewPerlin(cfg)

	differ := false
	for i := range 64 {
		x := float32(i)*311.7 + 13
		if a(x, x*0.5) != b(x, x*0.5) {
			differ = true
			break
		}
	}
	if !differ {
		t.Error("expected different seeds to produce different fields")
	}
}

func TestPerlinConcurrent(t *testing.T) {
	f := NewPerlin(DefaultPerlinConfig())
	want := make([]float32, 256)
	for i := range want {
		want[i] = f(float32(i)*50, float32(i)*-25)
	}

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range want {
				if got := f(float32(i)*50, float32(i)*-25); got != want[i] {
					t.Errorf("sample %d: expected %f, got %f", i, want[i], got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestScaled(t *testing.T) {
	f := Scaled(Constant(2), 10)
	if got := f(1, 1); got != 20 {
		t.Errorf("expected 20, got %f", got)
	}
}

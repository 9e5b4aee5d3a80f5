package geom

import (
	"math"
	"testing"
)

func TestLogSpacedEndpoints(t *testing.T) {
	xs := LogSpaced(50, 1e-3, 1e3)
	if xs[0] != 1e-3 || xs[49] != 1e3 {
		t.Errorf("endpoints not preserved: %g, %g", xs[0], xs[49])
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			t.Fatalf("not strictly increasing at %d", i)
		}
	}
	// Constant ratio between neighbors.
	r0 := xs[1] / xs[0]
	r1 := xs[25] / xs[24]
	if math.Abs(r1/r0-1) > 1e-10 {
		t.Errorf("ratio not constant: %g vs %g", r0, r1)
	}
}

func TestSinhSpacedRefinesOrigin(t *testing.T) {
	zs := SinhSpaced(20, 3.0, 0.1)
	if zs[0] != 0 || zs[19] != 3.0 {
		t.Errorf("endpoints: %g, %g", zs[0], zs[19])
	}
	first := zs[1] - zs[0]
	last := zs[19] - zs[18]
	if first >= last {
		t.Errorf("spacing should grow outwards: first=%g last=%g", first, last)
	}
}

func TestFromSpherical(t *testing.T) {
	v := FromSpherical(2, 0.5)
	if math.Abs(v.Norm()-2) > 1e-12 {
		t.Errorf("radius not preserved: %g", v.Norm())
	}
	if math.Abs(v[2]-1) > 1e-12 {
		t.Errorf("z = r*mu expected 1, got %g", v[2])
	}
}

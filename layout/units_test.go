package layout

import (
	"math"
	"testing"
)

func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 9, 12, 22, 72, 1000}
	for _, v := range samples {
		if diff := math.Abs(v*PtToMm*MmToPt - v); diff > 1e-9 {
			t.Fatalf("pt->mm->pt round trip off: in=%g diff=%g", v, diff)
		}
	}
	if got := pt(72); math.Abs(got-25.4) > 1e-3 {
		t.Fatalf("72pt should be one inch, got %gmm", got)
	}
}

func TestPageSize(t *testing.T) {
	g, err := PageSize("A4", 0)
	if err != nil {
		t.Fatalf("A4: %v", err)
	}
	if g != A4 {
		t.Fatalf("expected default A4 geometry, got %+v", g)
	}

	g, err = PageSize("letter", 12)
	if err != nil {
		t.Fatalf("letter: %v", err)
	}
	if g.Width != Letter.Width || g.Margin != 12 {
		t.Fatalf("unexpected letter geometry %+v", g)
	}

	if _, err := PageSize("B5", 0); err == nil {
		t.Fatalf("expected error for unknown size")
	}
}

func TestGeometryValidate(t *testing.T) {
	if err := A4.validate(); err != nil {
		t.Fatalf("A4 should be valid: %v", err)
	}
	bad := Geometry{Width: 100, Height: 100, Margin: 60}
	if err := bad.validate(); err == nil {
		t.Fatalf("margin wider than the page should fail")
	}
	if got := A4.ContentWidth(); got != 180 {
		t.Fatalf("A4 content width = %g, want 180", got)
	}
}

package layout

import (
	"fmt"
	"strings"
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// pt converts a font size in points to millimetres, the unit of every coordinate.
func pt(v float64) float64 { return v * PtToMm }

// Geometry is the fixed physical page: size and a uniform margin, all in mm.
type Geometry struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin float64 `json:"margin"`
}

// Standard portrait page sizes.
var (
	A4     = Geometry{Width: 210, Height: 297, Margin: 15}
	Letter = Geometry{Width: 215.9, Height: 279.4, Margin: 15}
)

// PageSize resolves a configured page name ("A4", "Letter") with the given margin.
func PageSize(name string, margin float64) (Geometry, error) {
	var g Geometry
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "a4":
		g = A4
	case "letter":
		g = Letter
	default:
		return Geometry{}, fmt.Errorf("layout: unknown page size %q", name)
	}
	if margin > 0 {
		g.Margin = margin
	}
	return g, nil
}

// ContentWidth is the page width minus both margins.
func (g Geometry) ContentWidth() float64 { return g.Width - 2*g.Margin }

// Right is the x coordinate of the right margin.
func (g Geometry) Right() float64 { return g.Width - g.Margin }

func (g Geometry) validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("layout: page size must be positive, got %gx%g", g.Width, g.Height)
	}
	if g.Margin < 0 || 2*g.Margin >= g.Width || 2*g.Margin >= g.Height {
		return fmt.Errorf("layout: margin %g does not fit page %gx%g", g.Margin, g.Width, g.Height)
	}
	return nil
}

package layout

import (
	"strings"
	"unicode/utf8"
)

const (
	titleThreshold   = 18
	titleBaseSize    = 22.0
	titleTwoLineSize = 16.0
	titleLineBudget  = 20
	titleLineOffset  = 3.5
	titleStepPerChar = 0.6
	titleMinSize     = 12.0
)

// titleFit is the chosen rendering of the header title. Offsets are the
// vertical distance of each line centre from the header band centre.
type titleFit struct {
	Lines   []string
	Size    float64
	Offsets []float64
}

// fitTitle picks a one-line, two-line or shrunk rendering for name + suffix.
// Thresholds count characters, not rendered widths.
func fitTitle(name, suffix string) titleFit {
	name = strings.TrimSpace(name)
	suffix = strings.TrimSpace(suffix)
	n := utf8.RuneCountInString(name)
	if n <= titleThreshold {
		return titleFit{Lines: []string{joinTitle(name, suffix)}, Size: titleBaseSize, Offsets: []float64{0}}
	}

	words := strings.Fields(name)
	mid := (len(words) + 1) / 2
	first := strings.Join(words[:mid], " ")
	second := joinTitle(strings.Join(words[mid:], " "), suffix)
	if utf8.RuneCountInString(first) <= titleLineBudget &&
		utf8.RuneCountInString(second) <= titleLineBudget {
		return titleFit{
			Lines:   []string{first, second},
			Size:    titleTwoLineSize,
			Offsets: []float64{-titleLineOffset, titleLineOffset},
		}
	}

	size := max(titleBaseSize-titleStepPerChar*float64(n-titleThreshold), titleMinSize)
	return titleFit{Lines: []string{joinTitle(name, suffix)}, Size: size, Offsets: []float64{0}}
}

func joinTitle(a, b string) string {
	return strings.TrimSpace(a + " " + b)
}

package layout

import "image"

// Mode selects between the on-screen preview and the full download.
type Mode int

const (
	// ModeDownload lays out every section, the photo gallery included.
	ModeDownload Mode = iota
	// ModePreview skips the gallery.
	ModePreview
)

func (m Mode) String() string {
	if m == ModePreview {
		return "preview"
	}
	return "download"
}

// Options configures a layout pass.
type Options struct {
	Mode       Mode
	Geometry   Geometry
	Style      Style
	Typesetter Typesetter
	// Images resolves prefetched logo, brand and gallery images by URL.
	// References it cannot resolve are treated as failed fetches.
	Images ImageSource
}

// Typesetter wraps text into lines no wider than width. Sizes are in mm.
type Typesetter interface {
	LayoutLines(content string, width float64, font string, fontSize float64) ([]TextLine, error)
}

// ImageSource looks up a decoded image by reference.
type ImageSource interface {
	Lookup(ref string) (image.Image, bool)
}

// ImageMap is the trivial ImageSource.
type ImageMap map[string]image.Image

func (m ImageMap) Lookup(ref string) (image.Image, bool) {
	img, ok := m[ref]
	return img, ok && img != nil
}

// Palette holds the brand colours of a style variant.
type Palette struct {
	Primary   Color `json:"primary"`
	OnPrimary Color `json:"onPrimary"`
	Text      Color `json:"text"`
	Muted     Color `json:"muted"`
	Rule      Color `json:"rule"`
	Stripe    Color `json:"stripe"`
	Link      Color `json:"link"`
}

// Style is a resolved visual variant.
type Style struct {
	Name             string  `json:"name"`
	Palette          Palette `json:"palette"`
	TitleSuffix      string  `json:"titleSuffix"`
	IncludeGallery   bool    `json:"includeGallery"`
	FooterBrandImage string  `json:"footerBrandImage,omitempty"`
	NotesTemplate    string  `json:"notesTemplate,omitempty"`
	Creator          string  `json:"creator,omitempty"`
}

// DefaultStyle is used when a caller leaves Options.Style empty.
func DefaultStyle() Style {
	return Style{
		Name: "default",
		Palette: Palette{
			Primary:   Color{R: 30, G: 58, B: 95},
			OnPrimary: Color{R: 255, G: 255, B: 255},
			Text:      Color{R: 33, G: 37, B: 41},
			Muted:     Color{R: 108, G: 117, B: 125},
			Rule:      Color{R: 206, G: 212, B: 218},
			Stripe:    Color{R: 244, G: 246, B: 249},
			Link:      Color{R: 30, G: 58, B: 95},
		},
		TitleSuffix:    "QUOTE",
		IncludeGallery: true,
	}
}

package layout

import "image"

// Document is the laid-out quote: ordered pages of positioned draw operations
// plus the resources those operations reference.
type Document struct {
	Pages     []Page         `json:"pages"`
	Resources Resources      `json:"resources"`
	Meta      DocumentMeta   `json:"meta"`
	Rows      []RowPlacement `json:"rows"`
	Gallery   *GalleryInfo   `json:"gallery,omitempty"`
}

// Resources holds the decoded images referenced by ImageBox.Ref.
type Resources struct {
	Images map[string]ImageResource `json:"images"`
}

// ImageResource is a decoded image; pixel data is not serialised to debug JSON.
type ImageResource struct {
	Ref         string      `json:"ref"`
	PixelWidth  int         `json:"pixelWidth"`
	PixelHeight int         `json:"pixelHeight"`
	Image       image.Image `json:"-"`
}

// DocumentMeta carries PDF info fields.
type DocumentMeta struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Subject string `json:"subject"`
	Creator string `json:"creator"`
}

// RowPlacement records which page a printed line item landed on.
type RowPlacement struct {
	ItemID string `json:"itemId"`
	Page   int    `json:"page"`
}

// GalleryInfo describes the grid used by the photo section.
type GalleryInfo struct {
	ContentTop  float64 `json:"contentTop"`
	Limit       float64 `json:"limit"`
	RowHeight   float64 `json:"rowHeight"`
	RowsPerPage int     `json:"rowsPerPage"`
	Rows        int     `json:"rows"`
	Images      int     `json:"images"`
	FirstPage   int     `json:"firstPage"`
	Pages       int     `json:"pages"`
}

// Section names the content stream a page belongs to.
type Section string

const (
	SectionMain    Section = "main"
	SectionGallery Section = "gallery"
)

// Page is one fixed-size page. Ops are drawn in order, later ops on top.
type Page struct {
	Number  int     `json:"number"`
	Section Section `json:"section"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Margin  float64 `json:"margin"`
	Ops     []Op    `json:"ops"`
	Links   []Link  `json:"links,omitempty"`
	Footer  bool    `json:"footer"`
}

// HasLink reports whether the page carries a link annotation.
func (p Page) HasLink() bool { return len(p.Links) > 0 }

// Texts returns the text runs of the page in draw order.
func (p Page) Texts() []TextBox {
	var out []TextBox
	for _, op := range p.Ops {
		if op.Text != nil {
			out = append(out, *op.Text)
		}
	}
	return out
}

// Images returns the image placements of the page in draw order.
func (p Page) Images() []ImageBox {
	var out []ImageBox
	for _, op := range p.Ops {
		if op.Image != nil {
			out = append(out, *op.Image)
		}
	}
	return out
}

// OpKind tags the populated field of an Op.
type OpKind string

const (
	OpText  OpKind = "text"
	OpLine  OpKind = "line"
	OpRect  OpKind = "rect"
	OpImage OpKind = "image"
)

// Op is a single draw operation; exactly one pointer matches Kind.
type Op struct {
	Kind  OpKind    `json:"kind"`
	Text  *TextBox  `json:"text,omitempty"`
	Line  *Line     `json:"line,omitempty"`
	Rect  *Rect     `json:"rect,omitempty"`
	Image *ImageBox `json:"image,omitempty"`
}

// Color uses 0-255 RGB components.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Font names understood by every renderer.
const (
	FontRegular = "regular"
	FontBold    = "bold"
)

// Text alignment within a TextBox.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// TextBox is a run of one or more lines. Y is the top of the first line;
// line i starts at Y + i*LineHeight. FontSize and LineHeight are in mm.
type TextBox struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	LineHeight float64    `json:"lineHeight"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"`
	Color      Color      `json:"color"`
	Align      string     `json:"align,omitempty"`
	Lines      []TextLine `json:"lines"`
}

// TextLine is one wrapped line with its measured width.
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Line is a stroked segment.
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}

// Rect is a rectangle, rounded when Radius > 0. A nil FillColor means no fill,
// a zero StrokeWidth means no stroke.
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Radius      float64 `json:"radius,omitempty"`
	FillColor   *Color  `json:"fillColor,omitempty"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

// ImageBox places a resource image scaled into Width x Height.
type ImageBox struct {
	Ref    string  `json:"ref"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Link is a clickable region pointing at URL.
type Link struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	URL    string  `json:"url"`
}

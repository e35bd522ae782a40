// Package style loads the quote visual variants (palette, title suffix,
// gallery toggle, footer brand image) from a small block DSL.
package style

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/sunnystate/quotes/binding"
	"github.com/sunnystate/quotes/layout"
	"github.com/sunnystate/quotes/quote"
)

//go:embed variants.style
var builtin string

// DefaultVariant is used when a request names no variant.
const DefaultVariant = "sunny"

// ErrUnknownVariant is returned by Lookup for names not in the catalog.
var ErrUnknownVariant = errors.New("unknown style variant")

// Catalog holds resolved variants by name.
type Catalog struct {
	styles map[string]layout.Style
}

// Builtin returns the catalog compiled into the binary.
func Builtin() (*Catalog, error) {
	f, err := ParseString(builtin)
	if err != nil {
		return nil, fmt.Errorf("style: builtin: %w", err)
	}
	return compile(f.Variants)
}

// Load returns the built-in variants merged with those defined in path.
// Variants in path may extend built-in ones and replace them by name.
func Load(path string) (*Catalog, error) {
	base, err := ParseString(builtin)
	if err != nil {
		return nil, fmt.Errorf("style: builtin: %w", err)
	}
	if path == "" {
		return compile(base.Variants)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("style: %w", err)
	}
	defer fh.Close()
	extra, err := Parse(path, fh)
	if err != nil {
		return nil, fmt.Errorf("style: %w", err)
	}
	return compile(append(base.Variants, extra.Variants...))
}

// Lookup returns the named variant. An empty name selects DefaultVariant.
func (c *Catalog) Lookup(name string) (layout.Style, error) {
	if name == "" {
		name = DefaultVariant
	}
	s, ok := c.styles[name]
	if !ok {
		return layout.Style{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return s, nil
}

// Names lists the variants in alphabetical order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.styles))
	for n := range c.styles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type setting struct {
	value string
	pos   lexer.Position
}

type rawVariant struct {
	name    string
	extends string
	props   map[string]setting
}

func compile(variants []*Variant) (*Catalog, error) {
	raw := map[string]rawVariant{}
	for _, v := range variants {
		rv := rawVariant{name: v.Name, extends: v.Extends, props: map[string]setting{}}
		for _, e := range v.Entries {
			switch {
			case e.Colors != nil:
				for _, a := range e.Colors.Entries {
					rv.props["colors."+a.Key] = setting{value: a.Value.Text(), pos: a.Pos}
				}
			case e.Assign != nil:
				rv.props[e.Assign.Key] = setting{value: e.Assign.Value.Text(), pos: e.Assign.Pos}
			}
		}
		raw[v.Name] = rv
	}

	resolved, err := resolveVariants(raw)
	if err != nil {
		return nil, err
	}
	c := &Catalog{styles: map[string]layout.Style{}}
	for name, rv := range resolved {
		s, err := toStyle(name, rv.props)
		if err != nil {
			return nil, err
		}
		c.styles[name] = s
	}
	return c, nil
}

func resolveVariants(variants map[string]rawVariant) (map[string]rawVariant, error) {
	resolved := map[string]rawVariant{}
	visiting := map[string]bool{}

	var dfs func(name string) (rawVariant, error)
	dfs = func(name string) (rawVariant, error) {
		if v, ok := resolved[name]; ok {
			return v, nil
		}
		v, ok := variants[name]
		if !ok {
			return rawVariant{}, fmt.Errorf("style: variant %s is not defined", name)
		}
		if visiting[name] {
			return rawVariant{}, fmt.Errorf("style: inheritance cycle at variant %s", name)
		}
		visiting[name] = true

		props := map[string]setting{}
		if v.extends != "" {
			parent, err := dfs(v.extends)
			if err != nil {
				return rawVariant{}, err
			}
			for k, s := range parent.props {
				props[k] = s
			}
		}
		for k, s := range v.props {
			props[k] = s
		}
		v.props = props
		resolved[name] = v
		delete(visiting, name)
		return v, nil
	}

	for name := range variants {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func toStyle(name string, props map[string]setting) (layout.Style, error) {
	s := layout.DefaultStyle()
	s.Name = name
	for key, set := range props {
		var err error
		switch key {
		case "title":
			s.TitleSuffix = set.value
		case "gallery":
			s.IncludeGallery, err = strconv.ParseBool(set.value)
		case "brand":
			s.FooterBrandImage = set.value
		case "creator":
			s.Creator = set.value
		case "notes":
			s.NotesTemplate = set.value
			err = checkNotes(set.value)
		default:
			colorKey, ok := strings.CutPrefix(key, "colors.")
			if !ok {
				return layout.Style{}, fmt.Errorf("style: %s: %s: unknown key %q", name, set.pos, key)
			}
			err = setColor(&s.Palette, colorKey, set.value)
		}
		if err != nil {
			return layout.Style{}, fmt.Errorf("style: %s: %s: %s: %w", name, set.pos, key, err)
		}
	}
	return s, nil
}

func checkNotes(template string) error {
	for _, name := range binding.Placeholders(template) {
		if !slices.Contains(quote.NotesPlaceholders, name) {
			return fmt.Errorf("unknown placeholder ${%s}", name)
		}
	}
	return nil
}

func setColor(p *layout.Palette, key, value string) error {
	c, err := ParseColor(value)
	if err != nil {
		return err
	}
	switch key {
	case "primary":
		p.Primary = c
	case "on-primary":
		p.OnPrimary = c
	case "text":
		p.Text = c
	case "muted":
		p.Muted = c
	case "rule":
		p.Rule = c
	case "stripe":
		p.Stripe = c
	case "link":
		p.Link = c
	default:
		return fmt.Errorf("unknown colour %q", key)
	}
	return nil
}

// ParseColor parses #RRGGBB or #RGB.
func ParseColor(s string) (layout.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return layout.Color{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return layout.Color{}, fmt.Errorf("invalid colour %q", s)
	}
	return layout.Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

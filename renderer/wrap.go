package renderer

import (
	"math"
	"strings"
	"unicode"

	"github.com/sunnystate/quotes/layout"
)

// Wrap breaks content into lines no wider than width using measure. Breaks
// happen at whitespace when possible; a single word wider than the limit is
// split between runes. Explicit newlines always start a new line.
func Wrap(content string, width float64, measure func(string) float64) []layout.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	var lines []layout.TextLine
	var b strings.Builder
	current := 0.0

	emit := func(force bool) {
		line := strings.TrimRightFunc(b.String(), unicode.IsSpace)
		b.Reset()
		current = 0
		if line == "" && !force {
			return
		}
		lines = append(lines, layout.TextLine{Content: line, Width: measure(line)})
	}
	add := func(tok string, w float64) {
		b.WriteString(tok)
		current += w
	}

	for _, tok := range tokenize(content) {
		if tok == "\n" {
			emit(true)
			continue
		}
		space := strings.TrimSpace(tok) == ""
		if space && current == 0 {
			continue
		}
		w := measure(tok)
		if current > 0 && current+w > limit {
			emit(false)
			if space {
				continue
			}
		}
		if w <= limit {
			add(tok, w)
			continue
		}
		for _, chunk := range splitByWidth(tok, limit, measure) {
			cw := measure(chunk)
			if current > 0 && current+cw > limit {
				emit(false)
			}
			add(chunk, cw)
		}
	}
	emit(true)
	return lines
}

// tokenize splits s into alternating runs of whitespace and non-whitespace,
// with each newline as its own token.
func tokenize(s string) []string {
	var tokens []string
	var b strings.Builder
	lastSpace := false
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '\r':
			continue
		case r == '\n':
			flush()
			tokens = append(tokens, "\n")
			lastSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if b.Len() > 0 && isSpace != lastSpace {
			flush()
		}
		lastSpace = isSpace
		b.WriteRune(r)
	}
	flush()
	return tokens
}

func splitByWidth(tok string, limit float64, measure func(string) float64) []string {
	var parts []string
	runes := []rune(tok)
	start := 0
	for i := 1; i <= len(runes); i++ {
		if i-start > 1 && measure(string(runes[start:i])) > limit {
			parts = append(parts, string(runes[start:i-1]))
			start = i - 1
		}
	}
	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}
	return parts
}

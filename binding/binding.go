// Package binding fills ${name} placeholders in document templates.
package binding

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholder = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate replaces ${path.to.value} in text with values from vars.
// Unknown paths keep their placeholder so a broken template stays visible.
func Interpolate(text string, vars map[string]any) string {
	if len(vars) == 0 {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		if val, ok := lookup(vars, path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// Placeholders lists the paths referenced by text, in order of appearance.
func Placeholders(text string) []string {
	var out []string
	for _, m := range placeholder.FindAllStringSubmatch(text, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

func lookup(vars map[string]any, path string) (any, bool) {
	var current any = vars
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

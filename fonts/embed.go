// Package fonts serves the built-in font faces shared by every renderer.
package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Names of the built-in faces.
const (
	Regular = "regular"
	Bold    = "bold"
)

// Load returns TTF bytes for a built-in face. Both "bold" and "embed:bold" are accepted.
func Load(name string) ([]byte, error) {
	switch strings.ToLower(strings.TrimPrefix(name, "embed:")) {
	case Regular, "":
		return goregular.TTF, nil
	case Bold:
		return gobold.TTF, nil
	default:
		return nil, fmt.Errorf("fonts: no built-in face %q", name)
	}
}

// MustLoad is Load for names known at compile time.
func MustLoad(name string) []byte {
	data, err := Load(name)
	if err != nil {
		panic(err)
	}
	return data
}

package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpolate(t *testing.T) {
	vars := map[string]any{
		"weeks":   3,
		"company": map[string]any{"name": "Sunny State Glass"},
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "done in ${weeks} weeks", "done in 3 weeks"},
		{"nested", "by ${ company.name }", "by Sunny State Glass"},
		{"unknown keeps placeholder", "in ${days} days", "in ${days} days"},
		{"no placeholders", "plain", "plain"},
		{"repeated", "${weeks}/${weeks}", "3/3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Interpolate(tt.in, vars))
		})
	}
}

func TestInterpolateWithoutVars(t *testing.T) {
	assert.Equal(t, "${weeks}", Interpolate("${weeks}", nil))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"weeks", "company.name"}, Placeholders("${weeks} and ${company.name}"))
	assert.Empty(t, Placeholders("none"))
}

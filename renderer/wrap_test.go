package renderer

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runeWidth(s string) float64 { return float64(utf8.RuneCountInString(s)) }

func contents(t *testing.T, content string, width float64) []string {
	t.Helper()
	var out []string
	for _, l := range Wrap(content, width, runeWidth) {
		out = append(out, l.Content)
		assert.LessOrEqual(t, l.Width, width, "line %q exceeds %g", l.Content, width)
	}
	return out
}

func TestWrapAtWhitespace(t *testing.T) {
	assert.Equal(t, []string{"hello", "world", "again"}, contents(t, "hello world again", 10))
	assert.Equal(t, []string{"hello world", "again"}, contents(t, "hello world again", 11))
}

func TestWrapHonorsNewlines(t *testing.T) {
	assert.Equal(t, []string{"foo", "", "bar"}, contents(t, "foo\n\nbar", 100))
}

func TestWrapSplitsLongWords(t *testing.T) {
	assert.Equal(t, []string{"aaaa", "aaaa", "aa"}, contents(t, "aaaaaaaaaa", 4))
}

func TestWrapEqualWidthThenNewline(t *testing.T) {
	assert.Equal(t, []string{"SAMPLE-A", "SAMPLE-B"}, contents(t, "SAMPLE-A\nSAMPLE-B", 8))
}

func TestWrapEmptyAndUnbounded(t *testing.T) {
	lines := Wrap("", 10, runeWidth)
	require.Len(t, lines, 1)
	assert.Empty(t, lines[0].Content)

	lines = Wrap("one two three", 0, runeWidth)
	require.Len(t, lines, 1)
	assert.Equal(t, 13.0, lines[0].Width)
}

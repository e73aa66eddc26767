package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorize_ReplacesAllMarks(t *testing.T) {
	got := Colorize("!rred!e and !ggreen!e")
	assert.Equal(t, Red+"red"+End+" and "+Green+"green"+End, got)
}

func TestColorize_UnmatchedTextPassesThrough(t *testing.T) {
	for _, in := range []string{"", "plain", "wow!", "!x not a mark", "100%!"} {
		assert.Equal(t, in, Colorize(in), "input %q", in)
	}
}

func TestStrip(t *testing.T) {
	assert.Equal(t, "Acor Tau", Strip("!yAcor Tau!e"))
	assert.Equal(t, "a!zb", Strip("!ua!zb"))
}

func TestVisibleWidth_IgnoresMarksAndEscapes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"!rabc!e", 3},
		{Red + "abc" + End, 3},
		{"!o" + Orange + "x" + End + "!e", 1},
		{"╔══╗", 4},
		{"宽字", 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VisibleWidth(tt.in), "input %q", tt.in)
	}
}

func TestCode(t *testing.T) {
	c, ok := Code(MarkYellow)
	assert.True(t, ok)
	assert.Equal(t, Yellow, c)

	_, ok = Code("!z")
	assert.False(t, ok)
	assert.Len(t, Marks(), 9)
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "!gok!e", Wrap(MarkGreen, "ok"))
}

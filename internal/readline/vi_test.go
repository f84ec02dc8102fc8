package readline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keyline/internal/input/keymap"
)

func TestViWordPositions(t *testing.T) {
	rs := []rune("foo.bar  baz")

	assert.Equal(t, 3, viNextWordPos(rs, 0, false))
	assert.Equal(t, 4, viNextWordPos(rs, 3, false))
	assert.Equal(t, 9, viNextWordPos(rs, 4, false))
	assert.Equal(t, 9, viNextWordPos(rs, 0, true))
	assert.Equal(t, 12, viNextWordPos(rs, 9, false))

	assert.Equal(t, 4, viPrevWordPos(rs, 9, false))
	assert.Equal(t, 0, viPrevWordPos(rs, 9, true))
	assert.Equal(t, 0, viPrevWordPos(rs, 2, false))

	assert.Equal(t, 2, viEndWordPos(rs, 0, false))
	assert.Equal(t, 3, viEndWordPos(rs, 2, false))
	assert.Equal(t, 6, viEndWordPos(rs, 0, true))
	assert.Equal(t, 11, viEndWordPos(rs, 6, false))
}

func viRead(t *testing.T, keys, initial string) string {
	t.Helper()
	h := newHarness(t, []string{keys})
	require.True(t, h.r.SetKeyMap(keymap.ViMove))
	line, err := h.r.ReadLineWithBuffer("", nil, initial)
	require.NoError(t, err)
	return line
}

func TestViCommands(t *testing.T) {
	tests := []struct {
		name    string
		keys    string
		initial string
		want    string
	}{
		{"delete to end of word", "0de\r", "foo bar", " bar"},
		{"change to end of word", "0cenew\x1b\r", "old text", "new text"},
		{"change line keeps other lines", "cchi\x1b\r", "a\nb", "a\nhi"},
		{"delete to eol", "0lD\r", "abc", "a"},
		{"change to eol", "0lCxy\x1b\r", "abc", "axy"},
		{"x with count", "03x\r", "abcdef", "def"},
		{"rubout", "$X\r", "abc", "ab"},
		{"change case", "0~~\r", "abc", "ABc"},
		{"replace char", "0rz\r", "abc", "zbc"},
		{"put after", "0xp\r", "abc", "bac"},
		{"append eol", "0Ad\x1b\r", "abc", "abcd"},
		{"insert beginning", "Ix\x1b\r", "abc", "xabc"},
		{"first printable", "^iy\x1b\r", "  abc", "  yabc"},
		{"column", "3|x\r", "abcd", "abd"},
		{"match bracket delete", "0d%\r", "(a)b", "b"},
		{"till char delete", "0dtc\r", "abcd", "cd"},
		{"back find", "$Fax\r", "xaxa", "xax"},
		{"mixed operators cancel", "0dcx\r", "abc", "bc"},
		{"undo", "0xu\r", "abc", "abc"},
		{"substitute line", "Snew\x1b\r", "old", "new"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, viRead(t, tt.keys, tt.initial))
		})
	}
}

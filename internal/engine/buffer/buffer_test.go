package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestWriteInsertsAtCursor(t *testing.T) {
	b := NewString("held")
	b.SetCursor(3)
	b.Write("lo wor")

	assert.Equal(t, "hello word", b.String())
	assert.Equal(t, 9, b.Cursor())
}

func TestWriteOvertyping(t *testing.T) {
	tests := []struct {
		name   string
		start  string
		cursor int
		write  string
		want   string
	}{
		{"replace middle", "abcdef", 2, "XY", "abXYef"},
		{"extends past end", "abc", 2, "XYZ", "abXYZ"},
		{"at end", "abc", 3, "de", "abcde"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewString(tt.start)
			b.SetOvertyping(true)
			b.SetCursor(tt.cursor)
			b.Write(tt.write)
			assert.Equal(t, tt.want, b.String())
			assert.Equal(t, tt.cursor+len([]rune(tt.write)), b.Cursor())
		})
	}
}

func TestDeleteAdjustsCursor(t *testing.T) {
	tests := []struct {
		name       string
		cursor     int
		start, end int
		wantText   string
		wantCursor int
		removed    string
	}{
		{"cursor after range", 6, 1, 3, "adefg", 4, "bc"},
		{"cursor inside range", 2, 1, 4, "aefg", 1, "bcd"},
		{"cursor before range", 0, 2, 4, "abefg", 0, "cd"},
		{"reversed range", 7, 4, 2, "abefg", 5, "cd"},
		{"out of bounds", 3, -5, 99, "", 0, "abcdefg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewString("abcdefg")
			b.SetCursor(tt.cursor)
			removed := b.Delete(tt.start, tt.end)
			assert.Equal(t, tt.removed, removed)
			assert.Equal(t, tt.wantText, b.String())
			assert.Equal(t, tt.wantCursor, b.Cursor())
		})
	}
}

func TestCurrentAndNextChar(t *testing.T) {
	b := NewString("ab")
	assert.Equal(t, 'b', b.Current())
	assert.Equal(t, rune(0), b.NextChar())

	b.SetCursor(0)
	assert.Equal(t, rune(0), b.Current())
	assert.Equal(t, 'a', b.NextChar())
}

func TestLineBounds(t *testing.T) {
	b := NewString("abc\ndef\nghi")

	b.SetCursor(1)
	start, end := b.LineBounds()
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)

	b.SetCursor(5)
	start, end = b.LineBounds()
	assert.Equal(t, 4, start)
	assert.Equal(t, 7, end)

	b.SetCursor(b.Len())
	start, end = b.LineBounds()
	assert.Equal(t, 8, start)
	assert.Equal(t, 11, end)
}

func TestCopyIsIndependent(t *testing.T) {
	b := NewString("abc")
	c := b.Copy()
	c.Write("d")
	c.SetRune(0, 'X')

	require.Equal(t, "abc", b.String())
	assert.Equal(t, "Xbcd", c.String())
}

func TestMoveReportsActualDistance(t *testing.T) {
	b := NewString("abc")
	assert.Equal(t, 0, b.Move(4))
	assert.Equal(t, -3, b.Move(-10))
	assert.Equal(t, 2, b.Move(2))
}

func TestIsDelimiter(t *testing.T) {
	for _, r := range "aZ9é" {
		assert.False(t, IsDelimiter(r), "%q", r)
	}
	for _, r := range " -_.!\t" {
		assert.True(t, IsDelimiter(r), "%q", r)
	}
}

// The cursor stays within [0, Len()] whatever sequence of mutations runs.
func TestCursorInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := NewString(rapid.StringN(0, 12, -1).Draw(t, "initial"))
		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 7).Draw(t, "op") {
			case 0:
				b.Write(rapid.StringN(0, 4, -1).Draw(t, "text"))
			case 1:
				b.Delete(rapid.IntRange(-3, 20).Draw(t, "start"), rapid.IntRange(-3, 20).Draw(t, "end"))
			case 2:
				b.Move(rapid.IntRange(-20, 20).Draw(t, "delta"))
			case 3:
				b.SetCursor(rapid.IntRange(-20, 40).Draw(t, "pos"))
			case 4:
				b.SetOvertyping(!b.IsOvertyping())
			case 5:
				b.Truncate(rapid.IntRange(-2, 20).Draw(t, "n"))
			case 6:
				b.Clear()
			case 7:
				b.Set(rapid.StringN(0, 8, -1).Draw(t, "set"), rapid.IntRange(-5, 15).Draw(t, "at"))
			}
			if b.Cursor() < 0 || b.Cursor() > b.Len() {
				t.Fatalf("cursor %d outside [0, %d]", b.Cursor(), b.Len())
			}
		}
	})
}

package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filled(lines ...string) *Memory {
	h := NewMemory()
	for _, l := range lines {
		h.Add(l)
	}
	return h
}

func TestNavigation(t *testing.T) {
	h := filled("one", "two", "three")

	assert.Equal(t, 3, h.Index())
	assert.Equal(t, "", h.Current())

	require.True(t, h.Previous())
	assert.Equal(t, "three", h.Current())
	require.True(t, h.Previous())
	require.True(t, h.Previous())
	assert.Equal(t, "one", h.Current())
	assert.False(t, h.Previous())

	assert.True(t, h.Next())
	assert.Equal(t, "two", h.Current())

	assert.True(t, h.MoveToLast())
	assert.False(t, h.MoveToLast())
	assert.True(t, h.MoveToFirst())
	assert.False(t, h.MoveToFirst())

	h.MoveToEnd()
	assert.False(t, h.Next())
	assert.Equal(t, "", h.Current())
}

func TestIgnoreDups(t *testing.T) {
	h := filled("a", "a", "b", "a")
	assert.Equal(t, []string{"a", "b", "a"}, h.Entries())

	h = NewMemory(WithIgnoreDups(false))
	h.Add("a")
	h.Add("a")
	assert.Equal(t, 2, h.Size())
}

func TestEvictionKeepsAbsoluteIndexes(t *testing.T) {
	h := NewMemory(WithMaxSize(2))
	h.Add("a")
	h.Add("b")
	h.Add("c")

	assert.Equal(t, 2, h.Size())
	assert.Equal(t, 1, h.First())
	assert.Equal(t, 3, h.Index())
	assert.Equal(t, "", h.Get(0))
	assert.Equal(t, "b", h.Get(1))
	assert.Equal(t, "c", h.Get(2))

	assert.False(t, h.MoveTo(0))
	require.True(t, h.MoveTo(2))
	assert.Equal(t, "c", h.Current())

	h.SetMaxSize(1)
	assert.Equal(t, []string{"c"}, h.Entries())
	assert.Equal(t, 2, h.First())
}

func TestSearch(t *testing.T) {
	h := filled("ls -la", "echo hi", "ls /tmp", "cat x")

	assert.Equal(t, 2, SearchBackward(h, "ls", h.Index(), false))
	assert.Equal(t, 0, SearchBackward(h, "ls", 2, false))
	assert.Equal(t, -1, SearchBackward(h, "ls", 0, false))
	assert.Equal(t, 1, SearchBackward(h, "echo", 99, true))
	assert.Equal(t, -1, SearchBackward(h, "hi", h.Index(), true))

	assert.Equal(t, 0, SearchForward(h, "ls", 0, false))
	assert.Equal(t, 2, SearchForward(h, "ls", 1, false))
	assert.Equal(t, -1, SearchForward(h, "ls", 3, false))
	assert.Equal(t, 3, SearchForward(h, "cat", -5, true))
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "history")

	f, err := NewFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Size())

	f.Add("first")
	f.Add(`echo \!`)
	require.NoError(t, f.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\necho \\!\n", string(data))

	g, err := NewFile(path, WithMaxSize(1))
	require.NoError(t, err)
	assert.Equal(t, []string{`echo \!`}, g.Entries())
	assert.Equal(t, g.First()+g.Size(), g.Index())
	assert.Equal(t, path, g.Path())
}

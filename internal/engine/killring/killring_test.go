package killring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestConsecutiveKillsMerge(t *testing.T) {
	k := New(0)
	k.Add("hello")
	k.Add(" world")

	require.Equal(t, 1, k.Len())
	got, ok := k.Yank()
	require.True(t, ok)
	assert.Equal(t, "hello world", got)
}

func TestBackwardKillsPrepend(t *testing.T) {
	k := New(0)
	k.AddBackwards("world")
	k.AddBackwards("hello ")

	got, _ := k.Yank()
	assert.Equal(t, "hello world", got)
}

func TestYankBetweenKillsPreventsMerge(t *testing.T) {
	k := New(0)
	k.Add("one")
	_, _ = k.Yank()
	k.Add("two")

	assert.Equal(t, []string{"two", "one"}, k.Entries())
}

func TestResetLastKillStartsNewEntry(t *testing.T) {
	k := New(0)
	k.Add("one")
	k.ResetLastKill()
	k.Add("two")

	assert.Equal(t, 2, k.Len())
}

func TestYankPopCycles(t *testing.T) {
	k := New(0)
	for _, s := range []string{"a", "b", "c"} {
		k.ResetLastKill()
		k.Add(s)
	}

	got, _ := k.Yank()
	assert.Equal(t, "c", got)

	var seq []string
	for i := 0; i < 4; i++ {
		s, ok := k.YankPop()
		require.True(t, ok)
		seq = append(seq, s)
	}
	assert.Equal(t, []string{"b", "a", "c", "b"}, seq)
}

func TestYankPopRequiresYank(t *testing.T) {
	k := New(0)
	k.Add("a")

	_, ok := k.YankPop()
	assert.False(t, ok)

	_, _ = k.Yank()
	k.ResetLastYank()
	_, ok = k.YankPop()
	assert.False(t, ok)
}

func TestEmptyRingYank(t *testing.T) {
	k := New(3)
	s, ok := k.Yank()
	assert.False(t, ok)
	assert.Empty(t, s)
}

func TestRingOverwritesOldest(t *testing.T) {
	k := New(3)
	for _, s := range []string{"a", "b", "c", "d"} {
		k.ResetLastKill()
		k.Add(s)
	}

	assert.Equal(t, []string{"d", "c", "b"}, k.Entries())
}

// Kills with no interruption between them always collapse into one entry
// whose text is the forward kills appended and the backward kills
// prepended.
func TestKillMergeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		k := New(0)
		n := rapid.IntRange(1, 20).Draw(t, "n")
		want := ""
		for i := 0; i < n; i++ {
			s := rapid.StringN(0, 5, -1).Draw(t, "s")
			if rapid.Bool().Draw(t, "backwards") {
				k.AddBackwards(s)
				want = s + want
			} else {
				k.Add(s)
				want += s
			}
		}
		if k.Len() != 1 {
			t.Fatalf("got %d entries, want 1", k.Len())
		}
		got, _ := k.Yank()
		if got != want {
			t.Fatalf("merged kill = %q, want %q", got, want)
		}
	})
}

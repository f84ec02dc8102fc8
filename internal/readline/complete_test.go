package readline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringsCompleter(t *testing.T) {
	c := NewStringsCompleter("help", "hello", "world", "help")

	cands, pos := c.Complete("say he", 6)
	assert.Equal(t, []string{"hello", "help"}, cands)
	assert.Equal(t, 4, pos)

	cands, pos = c.Complete("x wor y", 5)
	assert.Equal(t, []string{"world"}, cands)
	assert.Equal(t, 2, pos)

	cands, _ = c.Complete("zz", 2)
	assert.Empty(t, cands)

	cands, pos = c.Complete("", 0)
	assert.Len(t, cands, 3)
	assert.Equal(t, 0, pos)
}

func TestCommonPrefix(t *testing.T) {
	assert.Equal(t, "", commonPrefix(nil))
	assert.Equal(t, "abc", commonPrefix([]string{"abc"}))
	assert.Equal(t, "hel", commonPrefix([]string{"hello", "help", "helm"}))
	assert.Equal(t, "", commonPrefix([]string{"a", "b"}))
	assert.Equal(t, "é", commonPrefix([]string{"éa", "éb"}))
}

func TestCompleterFunc(t *testing.T) {
	var c Completer = CompleterFunc(func(buf string, cursor int) ([]string, int) {
		return []string{buf + "!"}, cursor
	})
	cands, pos := c.Complete("hi", 2)
	assert.Equal(t, []string{"hi!"}, cands)
	assert.Equal(t, 2, pos)
}

func TestMatchBracket(t *testing.T) {
	rs := []rune("f(a[b]{c})")
	assert.Equal(t, 1, matchBracket(rs, 9))
	assert.Equal(t, 3, matchBracket(rs, 5))
	assert.Equal(t, 9, matchBracket(rs, 1))
	assert.Equal(t, -1, matchBracket(rs, 0))
	assert.Equal(t, -1, matchBracket([]rune("a)"), 1))
}

package terminal

import (
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptInputChunksAreBursts(t *testing.T) {
	in := NewScriptInput("\x1b", "[A")

	r, err := in.ReadRune()
	require.NoError(t, err)
	assert.Equal(t, '\x1b', r)

	_, err = in.Peek(time.Millisecond)
	assert.ErrorIs(t, err, ErrReadExpired)

	r, err = in.Peek(time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, '[', r)

	r, _ = in.ReadRune()
	assert.Equal(t, '[', r)
	r, _ = in.ReadRune()
	assert.Equal(t, 'A', r)

	_, err = in.ReadRune()
	assert.ErrorIs(t, err, io.EOF)
	_, err = in.Peek(time.Millisecond)
	assert.ErrorIs(t, err, io.EOF)
}

func TestScriptInputAppendAndRemaining(t *testing.T) {
	in := NewScriptInput("ab", "")
	in.Append("c")
	assert.Equal(t, 3, in.Remaining())

	r, err := in.Peek(0)
	require.NoError(t, err)
	assert.Equal(t, 'a', r)
	assert.Equal(t, 3, in.Remaining())
}

func TestFileInputPeekDoesNotConsume(t *testing.T) {
	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pr.Close()
	defer pw.Close()

	in := NewFileInput(pr)

	_, err = in.Peek(10 * time.Millisecond)
	assert.True(t, errors.Is(err, ErrReadExpired))

	_, err = pw.WriteString("é!")
	require.NoError(t, err)

	r, err := in.Peek(time.Second)
	require.NoError(t, err)
	assert.Equal(t, 'é', r)

	r, err = in.ReadRune()
	require.NoError(t, err)
	assert.Equal(t, 'é', r)

	r, err = in.Peek(time.Second)
	require.NoError(t, err)
	assert.Equal(t, '!', r)
}

func TestLookupCaps(t *testing.T) {
	dumb := LookupCaps("dumb")
	assert.False(t, dumb.Ansi)
	assert.Empty(t, dumb.Clear)

	unknown := LookupCaps("no-such-terminal-type")
	assert.False(t, unknown.Ansi)
	assert.True(t, unknown.WeirdWrap)
	assert.Equal(t, DefaultClearScreen, unknown.Clear)

	xterm := LookupCaps("xterm-256color")
	assert.True(t, xterm.Ansi)
	assert.True(t, xterm.WeirdWrap)
	assert.NotEmpty(t, xterm.Clear)

	assert.False(t, SupportedName(""))
	assert.False(t, SupportedName("dumb"))
	assert.True(t, SupportedName("vt100"))
}

func TestNewForPipeIsUnsupported(t *testing.T) {
	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pr.Close()
	defer pw.Close()

	term := NewFor(pr, "xterm")
	assert.False(t, term.IsSupported())
	assert.True(t, term.IsEchoEnabled())
}

func TestStatic(t *testing.T) {
	s := NewStatic()
	require.NoError(t, s.Init())
	require.NoError(t, s.DisableInterruptCharacter())
	assert.Equal(t, 1, s.Inits)
	assert.True(t, s.InterruptDisabled)

	require.NoError(t, s.EnableInterruptCharacter())
	require.NoError(t, s.Restore())
	assert.Equal(t, 0, s.Inits)
	assert.False(t, s.InterruptDisabled)
}

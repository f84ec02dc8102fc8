package terminal

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sync"
	"time"
	"unicode/utf8"
)

// ErrReadExpired is returned by Peek when no input arrived in time.
var ErrReadExpired = errors.New("read expired")

// Input is a source of keystrokes.
type Input interface {
	// ReadRune blocks for the next rune. It returns io.EOF at end of
	// input.
	ReadRune() (rune, error)
	// Peek waits up to timeout for a rune without consuming it. It
	// returns ErrReadExpired if none arrived.
	Peek(timeout time.Duration) (rune, error)
}

// FileInput reads UTF-8 runes from a file, typically stdin.
type FileInput struct {
	mu sync.Mutex
	f  *os.File
	r  *bufio.Reader
}

// NewFileInput wraps f.
func NewFileInput(f *os.File) *FileInput {
	return &FileInput{f: f, r: bufio.NewReader(f)}
}

func (in *FileInput) ReadRune() (rune, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	r, _, err := in.r.ReadRune()
	return r, err
}

func (in *FileInput) Peek(timeout time.Duration) (rune, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.r.Buffered() == 0 {
		ready, err := waitReadable(in.f, timeout)
		if err != nil {
			return 0, err
		}
		if !ready {
			return 0, ErrReadExpired
		}
	}
	return peekRune(in.r)
}

func peekRune(r *bufio.Reader) (rune, error) {
	b, err := r.Peek(1)
	if err != nil {
		return 0, err
	}
	if b[0] < utf8.RuneSelf {
		return rune(b[0]), nil
	}
	n := r.Buffered()
	if n > utf8.UTFMax {
		n = utf8.UTFMax
	}
	b, _ = r.Peek(n)
	c, _ := utf8.DecodeRune(b)
	return c, nil
}

// ScriptInput replays canned input. Each chunk arrives as one burst;
// between chunks the input is silent, so a Peek at the end of a chunk
// expires.
type ScriptInput struct {
	mu     sync.Mutex
	chunks [][]rune
}

// NewScriptInput creates an input delivering chunks in order.
func NewScriptInput(chunks ...string) *ScriptInput {
	s := &ScriptInput{}
	for _, c := range chunks {
		if c != "" {
			s.chunks = append(s.chunks, []rune(c))
		}
	}
	return s
}

// Append queues more chunks.
func (s *ScriptInput) Append(chunks ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		if c != "" {
			s.chunks = append(s.chunks, []rune(c))
		}
	}
}

func (s *ScriptInput) ReadRune() (rune, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.chunks) > 0 && len(s.chunks[0]) == 0 {
		s.chunks = s.chunks[1:]
	}
	if len(s.chunks) == 0 {
		return 0, io.EOF
	}
	r := s.chunks[0][0]
	s.chunks[0] = s.chunks[0][1:]
	return r, nil
}

func (s *ScriptInput) Peek(time.Duration) (rune, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.chunks) == 0 {
		return 0, io.EOF
	}
	if len(s.chunks[0]) == 0 {
		s.chunks = s.chunks[1:]
		if len(s.chunks) == 0 {
			return 0, io.EOF
		}
		return 0, ErrReadExpired
	}
	return s.chunks[0][0], nil
}

// Remaining returns how many runes have not been read.
func (s *ScriptInput) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.chunks {
		n += len(c)
	}
	return n
}

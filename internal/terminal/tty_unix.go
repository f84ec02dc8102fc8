//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package terminal

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// TTY is a Unix terminal attached to a file descriptor.
type TTY struct {
	mu    sync.Mutex
	fd    int
	caps  Caps
	saved *term.State
	echo  bool

	intr     byte
	intrSave bool
}

// NewFor returns a Terminal for f. If f is not a tty or termName rules
// out editing, the result is unsupported.
func NewFor(f *os.File, termName string) Terminal {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) || !SupportedName(termName) {
		return Unsupported()
	}
	return &TTY{fd: fd, caps: LookupCaps(termName), echo: true}
}

func (t *TTY) Width() int {
	w, _, err := term.GetSize(t.fd)
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

func (t *TTY) Height() int {
	_, h, err := term.GetSize(t.fd)
	if err != nil || h <= 0 {
		return 24
	}
	return h
}

func (t *TTY) IsSupported() bool     { return true }
func (t *TTY) IsAnsiSupported() bool { return t.caps.Ansi }
func (t *TTY) HasWeirdWrap() bool    { return t.caps.WeirdWrap }
func (t *TTY) ClearScreen() string   { return t.caps.Clear }

func (t *TTY) IsEchoEnabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.echo
}

// Init switches to unbuffered input without echo. Signals stay enabled
// and output processing is untouched, so "\n" still starts a new line.
func (t *TTY) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.saved != nil {
		return nil
	}
	state, err := term.GetState(t.fd)
	if err != nil {
		return fmt.Errorf("saving terminal state: %w", err)
	}

	tio, err := unix.IoctlGetTermios(t.fd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("reading terminal attributes: %w", err)
	}
	tio.Lflag &^= unix.ICANON | unix.ECHO | unix.IEXTEN
	tio.Iflag &^= unix.ICRNL | unix.INLCR | unix.IXON
	tio.Cc[unix.VMIN] = 1
	tio.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, tio); err != nil {
		return fmt.Errorf("setting terminal attributes: %w", err)
	}

	t.saved = state
	t.echo = false
	return nil
}

// Restore puts back the attributes saved by Init.
func (t *TTY) Restore() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.saved == nil {
		return nil
	}
	if err := term.Restore(t.fd, t.saved); err != nil {
		return fmt.Errorf("restoring terminal state: %w", err)
	}
	t.saved = nil
	t.intrSave = false
	t.echo = true
	return nil
}

func (t *TTY) DisableInterruptCharacter() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	tio, err := unix.IoctlGetTermios(t.fd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("reading terminal attributes: %w", err)
	}
	if !t.intrSave {
		t.intr = tio.Cc[unix.VINTR]
		t.intrSave = true
	}
	tio.Cc[unix.VINTR] = vdisable
	return unix.IoctlSetTermios(t.fd, ioctlSetTermios, tio)
}

func (t *TTY) EnableInterruptCharacter() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.intrSave {
		return nil
	}
	tio, err := unix.IoctlGetTermios(t.fd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("reading terminal attributes: %w", err)
	}
	tio.Cc[unix.VINTR] = t.intr
	t.intrSave = false
	return unix.IoctlSetTermios(t.fd, ioctlSetTermios, tio)
}

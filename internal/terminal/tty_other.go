//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package terminal

import "os"

// NewFor returns an unsupported terminal; editing needs termios.
func NewFor(_ *os.File, _ string) Terminal {
	return Unsupported()
}

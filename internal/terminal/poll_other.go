//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package terminal

import (
	"os"
	"time"
)

// waitReadable cannot poll here; nothing is ever pending.
func waitReadable(_ *os.File, _ time.Duration) (bool, error) {
	return false, nil
}

package readline

import (
	"context"
	"strings"
	"sync"
	"time"
)

// maskInterval is how often a masked prompt is repainted on a terminal
// that echoes input.
const maskInterval = 3 * time.Millisecond

// maskBlank covers what the terminal echoed after the prompt.
var maskBlank = strings.Repeat(" ", 51)

// startMaskTask keeps repainting the prompt over echoed input while a
// masked line is read on an unsupported terminal. The returned stop
// function ends the task and waits for it.
func (r *Reader) startMaskTask(prompt string, mask *rune) func() {
	if mask == nil {
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(maskInterval)
		defer ticker.Stop()

		paint := "\r" + prompt + maskBlank + "\r" + prompt
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := r.out.PrintFlush(paint); err != nil {
					r.log.Debug("mask repaint: %v", err)
					return
				}
			}
		}
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}

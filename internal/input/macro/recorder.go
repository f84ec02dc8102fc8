// Package macro records typed input for keyboard-macro replay.
//
// There is a single keyboard macro, as in readline: start-kbd-macro
// begins recording, end-kbd-macro stores what was typed, and
// call-last-kbd-macro replays it as if typed again.
package macro

import (
	"errors"
	"sync"
)

// ErrAlreadyRecording is returned by Start while a recording is active.
var ErrAlreadyRecording = errors.New("already defining a keyboard macro")

// ErrNotRecording is returned by Stop when nothing is being recorded.
var ErrNotRecording = errors.New("not defining a keyboard macro")

// Recorder captures runes between Start and Stop.
type Recorder struct {
	mu        sync.Mutex
	recording bool
	runes     []rune
	last      []rune
}

// NewRecorder creates a new recorder with no stored macro.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Start begins a new recording.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return ErrAlreadyRecording
	}
	r.recording = true
	r.runes = nil
	return nil
}

// Stop ends the recording and stores it as the last macro. The final
// drop runes are discarded; they are the keys that invoked Stop.
func (r *Recorder) Stop(drop int) ([]rune, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return nil, ErrNotRecording
	}
	r.recording = false

	n := len(r.runes) - drop
	if n < 0 {
		n = 0
	}
	r.last = append([]rune(nil), r.runes[:n]...)
	r.runes = nil
	return r.copyLast(), nil
}

// Cancel abandons the current recording, keeping the previous macro.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = false
	r.runes = nil
}

// IsRecording returns true if currently recording.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Record adds a rune to the current recording.
// Does nothing if not recording.
func (r *Recorder) Record(c rune) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		r.runes = append(r.runes, c)
	}
}

// Last returns a copy of the stored macro.
func (r *Recorder) Last() []rune {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.copyLast()
}

func (r *Recorder) copyLast() []rune {
	out := make([]rune, len(r.last))
	copy(out, r.last)
	return out
}

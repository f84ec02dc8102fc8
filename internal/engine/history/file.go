package history

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File is a Memory history backed by a text file, one line per entry.
// Lines are loaded by Load and written back by Flush.
type File struct {
	*Memory
	path string
}

// NewFile creates a file-backed history and loads it. A missing file is
// not an error.
func NewFile(path string, opts ...Option) (*File, error) {
	f := &File{Memory: NewMemory(opts...), path: path}
	if err := f.Load(); err != nil {
		return nil, err
	}
	return f, nil
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Load replaces the in-memory lines with the file contents.
func (f *File) Load() error {
	fh, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer fh.Close()

	f.Clear()
	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		f.Add(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	f.MoveToEnd()
	return nil
}

// Flush writes the retained lines to the file, replacing it atomically.
func (f *File) Flush() error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*")
	if err != nil {
		return fmt.Errorf("creating history file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, line := range f.Entries() {
		if _, err := w.WriteString(line + "\n"); err != nil {
			tmp.Close()
			return fmt.Errorf("writing history: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("writing history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing history: %w", err)
	}
	return nil
}

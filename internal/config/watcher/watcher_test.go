package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func newWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func collect(w *Watcher) <-chan Event {
	ch := make(chan Event, 16)
	w.OnChange(func(e Event) { ch <- e })
	return ch
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("did not receive file change event")
		return Event{}
	}
}

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestCoalesce(t *testing.T) {
	tests := []struct {
		prev, next, want Operation
	}{
		{OpCreate, OpWrite, OpCreate},
		{OpWrite, OpWrite, OpWrite},
		{OpWrite, OpRemove, OpRemove},
		{OpRemove, OpCreate, OpCreate},
		{OpWrite, OpRename, OpRename},
	}
	for _, tt := range tests {
		if got := coalesce(tt.prev, tt.next); got != tt.want {
			t.Errorf("coalesce(%v, %v) = %v, want %v", tt.prev, tt.next, got, tt.want)
		}
	}
}

func TestConvertOp(t *testing.T) {
	if _, ok := convertOp(fsnotify.Chmod); ok {
		t.Error("chmod should be ignored")
	}
	if op, _ := convertOp(fsnotify.Create | fsnotify.Write); op != OpCreate {
		t.Errorf("create|write = %v, want create", op)
	}
	if op, _ := convertOp(fsnotify.Remove | fsnotify.Write); op != OpRemove {
		t.Errorf("remove|write = %v, want remove", op)
	}
}

func TestWatcher_WatchAndUnwatch(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")

	w := newWatcher(t)
	if err := w.Watch(a); err != nil {
		t.Fatalf("Watch(a) error = %v", err)
	}
	if err := w.Watch(b); err != nil {
		t.Fatalf("Watch(b) error = %v", err)
	}
	if err := w.Watch(a); err != nil {
		t.Fatalf("second Watch(a) error = %v", err)
	}
	if got := w.WatchedFiles(); len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("WatchedFiles() = %v", got)
	}
	if w.dirs[dir] != 2 {
		t.Errorf("dir refcount = %d, want 2", w.dirs[dir])
	}

	if err := w.Unwatch(a); err != nil {
		t.Fatalf("Unwatch(a) error = %v", err)
	}
	if err := w.Unwatch(b); err != nil {
		t.Fatalf("Unwatch(b) error = %v", err)
	}
	if len(w.WatchedFiles()) != 0 || len(w.dirs) != 0 {
		t.Errorf("expected nothing watched, got files %v dirs %v", w.WatchedFiles(), w.dirs)
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := newWatcher(t)
	if err := w.Watch(filepath.Join(t.TempDir(), "nope", "keys.toml")); err == nil {
		t.Error("expected error watching a file in a missing directory")
	}
}

func TestWatcher_DetectsFileModification(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.toml")
	if err := os.WriteFile(path, []byte("initial"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newWatcher(t, WithDebounce(20*time.Millisecond))
	events := collect(w)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("modified"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := waitEvent(t, events)
	if e.Op != OpWrite {
		t.Errorf("event.Op = %v, want write", e.Op)
	}
	if e.Path != path {
		t.Errorf("event.Path = %q, want %q", e.Path, path)
	}
}

func TestWatcher_CreationCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.yaml")

	w := newWatcher(t, WithDebounce(100*time.Millisecond))
	events := collect(w)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("bindings: {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if e := waitEvent(t, events); e.Op != OpCreate {
		t.Errorf("event.Op = %v, want create", e.Op)
	}
	select {
	case e := <-events:
		t.Errorf("unexpected second event %v", e.Op)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.toml")

	w := newWatcher(t, WithDebounce(10*time.Millisecond))
	events := collect(w)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case e := <-events:
		t.Errorf("unexpected event for %s", e.Path)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_HandlerPanicIsRecovered(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.toml")

	w := newWatcher(t, WithDebounce(10*time.Millisecond))
	w.OnChange(func(Event) { panic("boom") })
	events := collect(w)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitEvent(t, events)
}

func TestWatcher_Close(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := w.Watch(filepath.Join(t.TempDir(), "x")); err != ErrClosed {
		t.Errorf("Watch after Close = %v, want ErrClosed", err)
	}
}

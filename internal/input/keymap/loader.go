package keymap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/keyline/internal/input/key"
)

// Format is a key-binding file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the encoding from the file extension. Unknown
// extensions are read as TOML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatTOML
	}
}

// ErrUnknownOperation is wrapped by ParseError when a binding names an
// operation that does not exist.
var ErrUnknownOperation = errors.New("unknown operation")

// ParseError describes a bad entry in a key-binding file.
type ParseError struct {
	Path   string
	Keymap string
	Keys   string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	if e.Keymap != "" {
		fmt.Fprintf(&b, "[%s] ", e.Keymap)
	}
	if e.Keys != "" {
		fmt.Fprintf(&b, "%q: ", e.Keys)
	}
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// File is a decoded key-binding file.
type File struct {
	// EditingMode is "emacs", "vi" or empty to keep the current mode.
	EditingMode string

	// Bindings maps keymap name to the entries bound in it, in file
	// order where the encoding preserves it and sorted otherwise.
	Bindings map[string][]Entry
}

// Entry is one binding from a file.
type Entry struct {
	Keys string // raw notation from the file
	Seq  string // parsed key sequence
	Slot Slot
}

type fileConfig struct {
	EditingMode string                    `toml:"editing_mode" yaml:"editing_mode" json:"editing_mode"`
	Bindings    map[string]map[string]any `toml:"bindings" yaml:"bindings" json:"bindings"`
}

// Loader reads key-binding files.
type Loader struct {
	// searchPaths are directories to search for binding files.
	searchPaths []string
}

// NewLoader creates a new key-binding loader.
func NewLoader() *Loader {
	return &Loader{
		searchPaths: make([]string, 0),
	}
}

// AddSearchPath adds a directory to search for binding files.
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// LoadFile loads a binding file, choosing the decoder by extension.
func (l *Loader) LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening binding file: %w", err)
	}
	defer f.Close()

	file, err := l.LoadReader(f, FormatFromPath(path))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// LoadReader decodes a binding file from r.
func (l *Loader) LoadReader(r io.Reader, format Format) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading bindings: %w", err)
	}

	var cfg fileConfig
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	default:
		err = toml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding bindings: %w", err)
	}

	return convert(&cfg)
}

// LoadAll loads every binding file found in the search paths, in path
// order. A file that fails to load aborts with its error.
func (l *Loader) LoadAll() ([]*File, error) {
	files := make([]*File, 0)

	for _, dir := range l.searchPaths {
		var matches []string
		for _, pattern := range []string{"*.toml", "*.yaml", "*.yml", "*.json"} {
			m, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				continue
			}
			matches = append(matches, m...)
		}
		sort.Strings(matches)

		for _, path := range matches {
			f, err := l.LoadFile(path)
			if err != nil {
				return files, err
			}
			files = append(files, f)
		}
	}

	return files, nil
}

// LoadAndApply loads a binding file and applies it to the registry.
func (l *Loader) LoadAndApply(path string, reg *Registry) error {
	f, err := l.LoadFile(path)
	if err != nil {
		return err
	}
	return f.Apply(reg)
}

func convert(cfg *fileConfig) (*File, error) {
	switch cfg.EditingMode {
	case "", "emacs", "vi":
	default:
		return nil, &ParseError{Err: fmt.Errorf("invalid editing_mode %q", cfg.EditingMode)}
	}

	f := &File{
		EditingMode: cfg.EditingMode,
		Bindings:    make(map[string][]Entry, len(cfg.Bindings)),
	}

	for mapName, entries := range cfg.Bindings {
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			seq, err := key.ParseSequence(k)
			if err != nil {
				return nil, &ParseError{Keymap: mapName, Keys: k, Err: err}
			}
			slot, err := parseValue(entries[k])
			if err != nil {
				return nil, &ParseError{Keymap: mapName, Keys: k, Err: err}
			}
			f.Bindings[mapName] = append(f.Bindings[mapName], Entry{Keys: k, Seq: seq, Slot: slot})
		}
	}

	return f, nil
}

// parseValue converts a decoded value: an operation name, or a table
// with a "macro" (or "op") key.
func parseValue(v any) (Slot, error) {
	switch val := v.(type) {
	case string:
		op, ok := ParseOperation(val)
		if !ok {
			return Slot{}, fmt.Errorf("%w %q", ErrUnknownOperation, val)
		}
		return Op(op), nil
	case map[string]any:
		if m, ok := val["macro"]; ok {
			s, ok := m.(string)
			if !ok {
				return Slot{}, fmt.Errorf("macro must be a string, got %T", m)
			}
			seq, err := key.ParseSequence(s)
			if err != nil {
				return Slot{}, fmt.Errorf("macro: %w", err)
			}
			return Macro(seq), nil
		}
		if o, ok := val["op"]; ok {
			return parseValue(o)
		}
		return Slot{}, errors.New(`binding table needs a "macro" or "op" key`)
	case nil:
		return Slot{}, nil
	default:
		return Slot{}, fmt.Errorf("unsupported binding value of type %T", v)
	}
}

// Apply binds every entry into the registry and switches editing mode
// if the file asks for it. Keymaps named in the file must exist.
func (f *File) Apply(reg *Registry) error {
	names := make([]string, 0, len(f.Bindings))
	for name := range f.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if reg.Get(name) == nil {
			return &ParseError{Keymap: name, Err: fmt.Errorf("unknown keymap %q", name)}
		}
		for _, e := range f.Bindings[name] {
			if err := reg.Bind(name, e.Seq, e.Slot); err != nil {
				return err
			}
		}
	}

	switch f.EditingMode {
	case "vi":
		reg.SetKeyMap(ViInsert)
	case "emacs":
		reg.SetKeyMap(Emacs)
	}
	return nil
}

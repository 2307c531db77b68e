package persist

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnknownExtension reports a file name no codec is registered for.
var ErrUnknownExtension = errors.New("unknown file extension")

// Persister handles I/O for one state type stored as basename plus the
// codec's extension inside a directory. An optional check runs after
// building and after decoding.
type Persister[T any] struct {
	basename string
	codec    Codec
	check    func(*T) error
}

// NewPersister creates a persister with the given basename and codec.
func NewPersister[T any](basename string, codec Codec) *Persister[T] {
	return &Persister[T]{
		basename: basename,
		codec:    codec,
	}
}

// WithCheck sets a function that vets state before it is written and after
// it is read.
func (p *Persister[T]) WithCheck(check func(*T) error) *Persister[T] {
	p.check = check

	return p
}

// Path returns the file the persister reads and writes inside dir.
func (p *Persister[T]) Path(dir string) string {
	return filepath.Join(dir, p.basename+p.codec.Extension())
}

// Save writes state to the given directory using the provided build function.
func (p *Persister[T]) Save(dir string, buildState func() (*T, error)) error {
	state, err := buildState()
	if err != nil {
		return err
	}

	if p.check != nil {
		if err = p.check(state); err != nil {
			return err
		}
	}

	return SaveState(dir, p.basename, p.codec, state)
}

// Load restores state from the given directory using the provided restore
// function.
func (p *Persister[T]) Load(dir string, restoreState func(*T) error) error {
	var state T

	err := LoadState(dir, p.basename, p.codec, &state)
	if err != nil {
		return err
	}

	if p.check != nil {
		if err = p.check(&state); err != nil {
			return err
		}
	}

	return restoreState(&state)
}

// CodecFor picks a codec from a file name: .json, .yaml or .yml, .gob, each
// optionally followed by .lz4.
func CodecFor(path string) (Codec, error) {
	name := strings.ToLower(filepath.Base(path))

	compressed := strings.HasSuffix(name, lz4Extension)
	if compressed {
		name = strings.TrimSuffix(name, lz4Extension)
	}

	var codec Codec

	switch filepath.Ext(name) {
	case jsonExtension:
		codec = NewJSONCodec()
	case yamlExtension, ymlExtension:
		codec = NewYAMLCodec()
	case gobExtension:
		codec = NewGobCodec()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExtension, path)
	}

	if compressed {
		codec = NewLZ4Codec(codec)
	}

	return codec, nil
}

// SaveDocument validates doc and writes it to path with the codec matching
// the file name.
func SaveDocument(path string, doc *Document) error {
	p, dir, err := documentPersister(path)
	if err != nil {
		return err
	}

	return p.Save(dir, func() (*Document, error) { return doc, nil })
}

// LoadDocument reads and validates the document at path.
func LoadDocument(path string) (*Document, error) {
	p, dir, err := documentPersister(path)
	if err != nil {
		return nil, err
	}

	var doc *Document

	err = p.Load(dir, func(d *Document) error {
		doc = d

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return doc, nil
}

// documentPersister splits path into a directory and a basename for the
// codec its name selects. The file keeps the spelling of its extension.
func documentPersister(path string) (*Persister[Document], string, error) {
	codec, err := CodecFor(path)
	if err != nil {
		return nil, "", err
	}

	base := filepath.Base(path)
	stem := base
	suffix := ""

	if strings.HasSuffix(strings.ToLower(stem), lz4Extension) {
		suffix = stem[len(stem)-len(lz4Extension):]
		stem = stem[:len(stem)-len(lz4Extension)]
	}

	suffix = filepath.Ext(stem) + suffix
	basename := base[:len(base)-len(suffix)]

	p := NewPersister[Document](basename, namedCodec{Codec: codec, ext: suffix}).WithCheck(Validate)

	return p, filepath.Dir(path), nil
}

// namedCodec reports the extension a file was actually named with.
type namedCodec struct {
	Codec

	ext string
}

func (c namedCodec) Extension() string {
	return c.ext
}

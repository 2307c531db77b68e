package persist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// persisterState is a struct for persister round-trip testing.
type persisterState struct {
	Label string `json:"label" yaml:"label"`
	Value Value  `json:"value" yaml:"value"`
}

var errEmptyLabel = errors.New("empty label")

func checkLabel(s *persisterState) error {
	if s.Label == "" {
		return errEmptyLabel
	}

	return nil
}

func TestPersister_SaveLoad(t *testing.T) {
	t.Parallel()

	for _, codec := range []Codec{NewJSONCodec(), NewYAMLCodec(), NewGobCodec(), NewLZ4Codec(NewGobCodec())} {
		t.Run(codec.Extension(), func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			p := NewPersister[persisterState]("mystate", codec).WithCheck(checkLabel)

			original := persisterState{Label: "hello", Value: Value{Float: 42, Valid: true}}

			require.NoError(t, p.Save(dir, func() (*persisterState, error) { return &original, nil }))

			_, err := os.Stat(p.Path(dir))
			require.NoError(t, err)

			var restored persisterState

			require.NoError(t, p.Load(dir, func(s *persisterState) error {
				restored = *s

				return nil
			}))

			assert.Equal(t, original, restored)
		})
	}
}

func TestPersister_CheckRejectsBeforeWriting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := NewPersister[persisterState]("state", NewJSONCodec()).WithCheck(checkLabel)

	err := p.Save(dir, func() (*persisterState, error) { return &persisterState{}, nil })
	require.ErrorIs(t, err, errEmptyLabel)

	_, statErr := os.Stat(p.Path(dir))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPersister_CheckRunsOnLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, SaveState(dir, "state", NewJSONCodec(), persisterState{}))

	p := NewPersister[persisterState]("state", NewJSONCodec()).WithCheck(checkLabel)

	err := p.Load(dir, func(*persisterState) error { return nil })
	require.ErrorIs(t, err, errEmptyLabel)
}

func TestPersister_LoadMissingFile(t *testing.T) {
	t.Parallel()

	p := NewPersister[persisterState]("missing", NewJSONCodec())

	err := p.Load(t.TempDir(), func(*persisterState) error { return nil })

	assert.Error(t, err)
}

func TestPersister_SaveInvalidDir(t *testing.T) {
	t.Parallel()

	p := NewPersister[persisterState]("state", NewJSONCodec())

	err := p.Save("/nonexistent/path", func() (*persisterState, error) {
		return &persisterState{Label: "x"}, nil
	})

	assert.Error(t, err)
}

func TestCodecFor(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"a.json":          ".json",
		"dir/b.yaml":      ".yaml",
		"c.yml":           ".yaml",
		"d.gob":           ".gob",
		"e.json.lz4":      ".json.lz4",
		"f.YAML.LZ4":      ".yaml.lz4",
		"/abs/g.gob.lz4":  ".gob.lz4",
		"h.with.dots.yml": ".yaml",
	}

	for path, ext := range tests {
		codec, err := CodecFor(path)
		require.NoError(t, err, path)
		assert.Equal(t, ext, codec.Extension(), path)
	}

	for _, path := range []string{"a.txt", "b", "c.lz4", "d.csv.lz4"} {
		_, err := CodecFor(path)
		require.ErrorIs(t, err, ErrUnknownExtension, path)
	}
}

func TestSaveDocument_RejectsInvalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")

	err := SaveDocument(path, &Document{Kind: "scatter"})
	require.ErrorIs(t, err, ErrSchemaViolation)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadDocument_RejectsSchemaViolation(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kind: pie\npie:\n  - key: a\n    value: 1\ntime_series: []\n"), 0o600))

	_, err := LoadDocument(path)
	require.NoError(t, err, "empty sections are omitted")

	require.NoError(t, os.WriteFile(path, []byte("kind: pie\nanchor: sideways\n"), 0o600))

	_, err = LoadDocument(path)
	require.ErrorIs(t, err, ErrSchemaViolation)
}

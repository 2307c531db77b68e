// Package persist stores datasets as structural documents through pluggable
// codecs: JSON, YAML, gob and LZ4-compressed wrappers around any of them.
package persist

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/chartdata/pkg/safeconv"
)

// File extensions for supported codecs.
const (
	jsonExtension = ".json"
	yamlExtension = ".yaml"
	ymlExtension  = ".yml"
	gobExtension  = ".gob"
	lz4Extension  = ".lz4"
)

// Default indentation for pretty-printed JSON and YAML.
const (
	defaultIndent = "  "
	yamlIndent    = 2
)

// Codec defines how state is serialized and deserialized.
type Codec interface {
	// Encode writes the state to the writer.
	Encode(w io.Writer, state any) error
	// Decode reads the state from the reader.
	Decode(r io.Reader, state any) error
	// Extension returns the file extension for this codec (e.g., ".json", ".json.lz4").
	Extension() string
}

// JSONCodec implements Codec using JSON encoding with optional indentation.
type JSONCodec struct {
	// Indent specifies the indentation string. Empty string means compact JSON.
	Indent string
}

// NewJSONCodec creates a JSON codec with pretty-printing (2-space indent).
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: defaultIndent}
}

// Encode implements Codec.Encode using JSON encoding.
func (c *JSONCodec) Encode(w io.Writer, state any) error {
	encoder := json.NewEncoder(w)
	if c.Indent != "" {
		encoder.SetIndent("", c.Indent)
	}

	err := encoder.Encode(state)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode using JSON decoding.
func (c *JSONCodec) Decode(r io.Reader, state any) error {
	decoder := json.NewDecoder(r)

	err := decoder.Decode(state)
	if err != nil {
		return fmt.Errorf("json decode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for JSON files.
func (c *JSONCodec) Extension() string {
	return jsonExtension
}

// GobCodec implements Codec using gob encoding.
type GobCodec struct{}

// NewGobCodec creates a gob codec.
func NewGobCodec() *GobCodec {
	return &GobCodec{}
}

// Encode implements Codec.Encode using gob encoding.
func (c *GobCodec) Encode(w io.Writer, state any) error {
	encoder := gob.NewEncoder(w)

	err := encoder.Encode(state)
	if err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode using gob decoding.
func (c *GobCodec) Decode(r io.Reader, state any) error {
	decoder := gob.NewDecoder(r)

	err := decoder.Decode(state)
	if err != nil {
		return fmt.Errorf("gob decode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for gob files.
func (c *GobCodec) Extension() string {
	return gobExtension
}

// YAMLCodec implements Codec using YAML.
type YAMLCodec struct{}

// NewYAMLCodec creates a YAML codec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Encode implements Codec.Encode using YAML encoding.
func (c *YAMLCodec) Encode(w io.Writer, state any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(yamlIndent)

	err := encoder.Encode(state)
	if err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode using YAML decoding.
func (c *YAMLCodec) Decode(r io.Reader, state any) error {
	err := yaml.NewDecoder(r).Decode(state)
	if err != nil {
		return fmt.Errorf("yaml decode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for YAML files.
func (c *YAMLCodec) Extension() string {
	return yamlExtension
}

// LZ4 frame layout: one mode byte, the uncompressed length as a little-endian
// uint32, then the payload.
const (
	lz4ModeRaw        byte = 0
	lz4ModeCompressed byte = 1
	lz4HeaderSize          = 5
)

// ErrCorruptPayload reports an LZ4 payload that cannot be decoded.
var ErrCorruptPayload = errors.New("corrupt compressed payload")

// LZ4Codec compresses the output of another codec with LZ4 block
// compression.
type LZ4Codec struct {
	Inner Codec
}

// NewLZ4Codec wraps inner.
func NewLZ4Codec(inner Codec) *LZ4Codec {
	return &LZ4Codec{Inner: inner}
}

// Encode implements Codec.Encode.
func (c *LZ4Codec) Encode(w io.Writer, state any) error {
	var plain bytes.Buffer

	err := c.Inner.Encode(&plain, state)
	if err != nil {
		return err
	}

	header := make([]byte, lz4HeaderSize, lz4HeaderSize+lz4.CompressBlockBound(plain.Len()))
	binary.LittleEndian.PutUint32(header[1:], safeconv.MustIntToUint32(plain.Len()))

	compressed := header[lz4HeaderSize:cap(header)]

	written, err := lz4.CompressBlock(plain.Bytes(), compressed, nil)
	if err != nil {
		return fmt.Errorf("lz4 compress: %w", err)
	}

	frame := header[:lz4HeaderSize+written]
	if written == 0 {
		// Incompressible input is stored as is.
		header[0] = lz4ModeRaw
		frame = append(header, plain.Bytes()...)
	} else {
		frame[0] = lz4ModeCompressed
	}

	_, err = w.Write(frame)
	if err != nil {
		return fmt.Errorf("lz4 write: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode.
func (c *LZ4Codec) Decode(r io.Reader, state any) error {
	frame, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("lz4 read: %w", err)
	}

	if len(frame) < lz4HeaderSize {
		return fmt.Errorf("%w: short frame of %d bytes", ErrCorruptPayload, len(frame))
	}

	size := int(binary.LittleEndian.Uint32(frame[1:lz4HeaderSize]))
	payload := frame[lz4HeaderSize:]

	switch frame[0] {
	case lz4ModeRaw:
		if len(payload) != size {
			return fmt.Errorf("%w: raw payload is %d bytes, header says %d", ErrCorruptPayload, len(payload), size)
		}
	case lz4ModeCompressed:
		plain := make([]byte, size)

		n, uncompressErr := lz4.UncompressBlock(payload, plain)
		if uncompressErr != nil {
			return fmt.Errorf("%w: lz4 uncompress: %w", ErrCorruptPayload, uncompressErr)
		}

		if n != size {
			return fmt.Errorf("%w: got %d bytes, header says %d", ErrCorruptPayload, n, size)
		}

		payload = plain
	default:
		return fmt.Errorf("%w: unknown mode %d", ErrCorruptPayload, frame[0])
	}

	return c.Inner.Decode(bytes.NewReader(payload), state)
}

// Extension implements Codec.Extension as the inner extension plus ".lz4".
func (c *LZ4Codec) Extension() string {
	return c.Inner.Extension() + lz4Extension
}

// SaveState saves the given state to a file in the specified directory.
// The filename is constructed from the basename and the codec's extension.
func SaveState(dir, basename string, codec Codec, state any) error {
	filename := basename + codec.Extension()
	path := filepath.Join(dir, filename)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create state file: %w", err)
	}
	defer file.Close()

	err = codec.Encode(file, state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	return nil
}

// LoadState loads state from a file in the specified directory.
// The filename is constructed from the basename and the codec's extension.
// The state parameter must be a pointer to the target struct.
func LoadState(dir, basename string, codec Codec, state any) error {
	filename := basename + codec.Extension()
	path := filepath.Join(dir, filename)

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open state file: %w", err)
	}
	defer file.Close()

	err = codec.Decode(file, state)
	if err != nil {
		return fmt.Errorf("decode state: %w", err)
	}

	return nil
}

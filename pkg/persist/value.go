package persist

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
)

// Non-finite values are spelled as strings in JSON, which has no literal
// for them.
const (
	nanLiteral    = "NaN"
	posInfLiteral = "+Inf"
	negInfLiteral = "-Inf"
)

var jsonNull = []byte("null")

// Value is the stored form of a nullable number. Null encodes as null in
// JSON and YAML; NaN and infinities survive every codec.
type Value dataset.Number

// ValueOf converts a dataset number.
func ValueOf(n dataset.Number) Value { return Value(n) }

// Number converts back to a dataset number.
func (v Value) Number() dataset.Number { return dataset.Number(v) }

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return jsonNull, nil
	}

	switch {
	case math.IsNaN(v.Float):
		return []byte(strconv.Quote(nanLiteral)), nil
	case math.IsInf(v.Float, 1):
		return []byte(strconv.Quote(posInfLiteral)), nil
	case math.IsInf(v.Float, -1):
		return []byte(strconv.Quote(negInfLiteral)), nil
	default:
		return strconv.AppendFloat(nil, v.Float, 'g', -1, 64), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if bytes.Equal(data, jsonNull) {
		*v = Value(dataset.Null)

		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		literal, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("value %s: %w", data, err)
		}

		return v.setLiteral(literal)
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("value %s: %w", data, err)
	}

	*v = Value(dataset.Num(f))

	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (any, error) {
	if !v.Valid {
		return nil, nil //nolint:nilnil // YAML null
	}

	return v.Float, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*v = Value(dataset.Null)

		return nil
	}

	if node.Tag == "!!str" {
		return v.setLiteral(node.Value)
	}

	var f float64

	if err := node.Decode(&f); err != nil {
		return fmt.Errorf("value %q: %w", node.Value, err)
	}

	*v = Value(dataset.Num(f))

	return nil
}

func (v *Value) setLiteral(literal string) error {
	switch literal {
	case nanLiteral:
		*v = Value(dataset.Num(math.NaN()))
	case posInfLiteral:
		*v = Value(dataset.Num(math.Inf(1)))
	case negInfLiteral:
		*v = Value(dataset.Num(math.Inf(-1)))
	default:
		return fmt.Errorf("%w: unrecognised value literal %q", ErrSchemaViolation, literal)
	}

	return nil
}

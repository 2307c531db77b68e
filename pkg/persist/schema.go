package persist

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is the JSON schema every stored document satisfies.
//
//go:embed schema.json
var Schema []byte

// Violation is one schema violation, located by its field path.
type Violation struct {
	Field       string
	Description string
}

func (v Violation) String() string {
	return v.Field + ": " + v.Description
}

// ValidateJSON checks a JSON document against Schema. Malformed JSON is an
// error; a well-formed document that breaks the schema yields violations.
func ValidateJSON(data []byte) ([]Violation, error) {
	return validate(gojsonschema.NewBytesLoader(data))
}

// Validate checks a decoded document against Schema and returns
// ErrSchemaViolation listing every violation.
func Validate(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", ErrSchemaViolation)
	}

	violations, err := validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return err
	}

	if len(violations) == 0 {
		return nil
	}

	lines := make([]string, 0, len(violations))
	for _, v := range violations {
		lines = append(lines, v.String())
	}

	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(lines, "; "))
}

var errSchemaLoad = errors.New("schema validation")

func validate(document gojsonschema.JSONLoader) ([]Violation, error) {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(Schema), document)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errSchemaLoad, err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]Violation, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		violations = append(violations, Violation{Field: verr.Field(), Description: verr.Description()})
	}

	return violations, nil
}

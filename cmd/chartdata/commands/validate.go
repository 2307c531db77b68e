package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/chartdata/pkg/observability"
	"github.com/Sumatoshi-tech/chartdata/pkg/persist"
)

const opValidate = "validate"

// ErrValidationFailed is returned when at least one document is invalid.
var ErrValidationFailed = errors.New("validation failed")

func newValidateCommand(root *rootOptions) *cobra.Command {
	var colorize, nocolor bool

	cmd := &cobra.Command{
		Use:   "validate <document>...",
		Short: "Check documents against the document schema",
		Long: `Validate documents against the embedded JSON schema and check that
they restore into their dataset. JSON files are checked as written; other
formats are decoded first.

Examples:
  chartdata validate sales.json
  chartdata validate --no-color data/*.yaml.lz4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if nocolor {
				color.NoColor = true //nolint:reassign // flag overrides terminal detection
			} else if colorize {
				color.NoColor = false //nolint:reassign // flag overrides terminal detection
			}

			rt, err := setup(cmd, root, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer rt.close(context.WithoutCancel(cmd.Context()))

			return rt.ops.Track(cmd.Context(), opValidate, func(ctx context.Context) error {
				failed := 0

				for _, path := range args {
					if !validateFile(cmd.OutOrStdout(), rt, path) {
						failed++
					}
				}

				rt.logger().InfoContext(ctx, "validated documents", "total", len(args), "failed", failed)

				if failed > 0 {
					return fmt.Errorf("%w: %d of %d documents", ErrValidationFailed, failed, len(args))
				}

				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&colorize, "color", false, "force colored output")
	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")

	return cmd
}

// validateFile prints the outcome for one file and reports whether it is
// valid.
func validateFile(w io.Writer, rt *runtime, path string) bool {
	violations, err := documentViolations(path)
	if err != nil {
		color.New(color.FgRed).Fprintf(w, "%s: %v\n", path, err)

		return false
	}

	if len(violations) > 0 {
		color.New(color.FgRed).Fprintf(w, "%s: %d schema violations\n", path, len(violations))

		for _, v := range violations {
			color.New(color.FgYellow).Fprintf(w, "  - %s\n", v)
		}

		return false
	}

	doc, err := persist.LoadDocument(path)
	if err == nil {
		_, err = restore(doc, rt.cfg)
	}

	if err != nil {
		color.New(color.FgRed).Fprintf(w, "%s: %v\n", path, err)

		return false
	}

	color.New(color.FgGreen).Fprintf(w, "%s: valid %s document\n", path, doc.Kind)

	return true
}

// documentViolations checks the schema. JSON is validated byte for byte;
// other codecs are decoded and re-encoded as JSON first.
func documentViolations(path string) ([]persist.Violation, error) {
	codec, err := persist.CodecFor(path)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return persist.ValidateJSON(raw)
	}

	var doc persist.Document

	if err = codec.Decode(bytes.NewReader(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	data, err := json.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	return persist.ValidateJSON(data)
}

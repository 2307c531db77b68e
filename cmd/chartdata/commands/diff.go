package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/chartdata/pkg/observability"
	"github.com/Sumatoshi-tech/chartdata/pkg/persist"
)

const opDiff = "diff"

// ErrDocumentsDiffer is returned with --exit-code when documents differ.
var ErrDocumentsDiffer = errors.New("documents differ")

func newDiffCommand(root *rootOptions) *cobra.Command {
	var exitCode bool

	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Compare two documents line by line",
		Long: `Compare two documents through their canonical YAML form, so files in
different formats compare by content.`,
		Args: cobra.ExactArgs(2), //nolint:mnd // old and new
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, root, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer rt.close(context.WithoutCancel(cmd.Context()))

			return rt.ops.Track(cmd.Context(), opDiff, func(context.Context) error {
				changed, diffErr := diffFiles(cmd.OutOrStdout(), args[0], args[1])
				if diffErr != nil {
					return diffErr
				}

				if changed && exitCode {
					return ErrDocumentsDiffer
				}

				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "fail when the documents differ")

	return cmd
}

func diffFiles(w io.Writer, oldPath, newPath string) (bool, error) {
	oldText, err := canonicalText(oldPath)
	if err != nil {
		return false, err
	}

	newText, err := canonicalText(newPath)
	if err != nil {
		return false, err
	}

	if oldText == newText {
		fmt.Fprintf(w, "%s and %s are identical\n", oldPath, newPath)

		return false, nil
	}

	fmt.Fprintf(w, "--- %s\n+++ %s\n", oldPath, newPath)
	writeDiff(w, lineDiff(oldText, newText))

	return true, nil
}

// canonicalText loads a document and renders it as YAML.
func canonicalText(path string) (string, error) {
	doc, err := persist.LoadDocument(path)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}

	return string(data), nil
}

func lineDiff(oldText, newText string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(src, dst, false)

	return dmp.DiffCharsToLines(diffs, lines)
}

func writeDiff(w io.Writer, diffs []diffmatchpatch.Diff) {
	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}

			line = strings.TrimSuffix(line, "\n")

			switch d.Type {
			case diffmatchpatch.DiffDelete:
				removed.Fprintf(w, "-%s\n", line)
			case diffmatchpatch.DiffInsert:
				added.Fprintf(w, "+%s\n", line)
			case diffmatchpatch.DiffEqual:
				fmt.Fprintf(w, " %s\n", line)
			}
		}
	}
}

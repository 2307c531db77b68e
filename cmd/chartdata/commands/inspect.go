package commands

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/chartdata/pkg/observability"
	"github.com/Sumatoshi-tech/chartdata/pkg/persist"
	"github.com/Sumatoshi-tech/chartdata/pkg/safeconv"
	"github.com/Sumatoshi-tech/chartdata/pkg/timeseries"
)

const (
	opInspect   = "inspect"
	emptyBound  = "-"
	boundFormat = 'g'
)

func newInspectCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <document>...",
		Short: "Summarize the series of documents",
		Long: `Print, for every document, its kind and file size followed by a table
of its series (rows for category datasets) with item counts and value bounds.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, root, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer rt.close(context.WithoutCancel(cmd.Context()))

			return rt.ops.Track(cmd.Context(), opInspect, func(ctx context.Context) error {
				for _, path := range args {
					if inspectErr := inspectFile(ctx, cmd, rt, path); inspectErr != nil {
						return inspectErr
					}
				}

				return nil
			})
		},
	}
}

func inspectFile(ctx context.Context, cmd *cobra.Command, rt *runtime, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}

	doc, err := persist.LoadDocument(path)
	if err != nil {
		return err
	}

	ld, err := restore(doc, rt.cfg, timeseries.WithLogger(rt.logger()))
	if err != nil {
		return fmt.Errorf("restore %s: %w", path, err)
	}

	summaries := ld.summaries()
	total := 0

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Series", "Period", "Items", "Min", "Max", "Mean", "Median"})

	for _, s := range summaries {
		st := s.stats
		total += st.Count
		tbl.AppendRow(table.Row{
			s.key, s.kind, humanize.Comma(int64(st.Count)),
			formatBound(st.Min), formatBound(st.Max), formatBound(st.Mean), formatBound(st.Median),
		})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("%d series", len(summaries)), "", humanize.Comma(int64(total)), "", "", "", ""})

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s: %s, %s\n", path, doc.Kind, humanize.Bytes(safeconv.MustInt64ToUint64(info.Size())))
	fmt.Fprintln(w, tbl.Render())

	rt.logger().DebugContext(ctx, "inspected document", "path", path, "kind", doc.Kind, "series", len(summaries))

	return nil
}

func formatBound(v float64) string {
	if math.IsNaN(v) {
		return emptyBound
	}

	return strconv.FormatFloat(v, boundFormat, -1, 64)
}

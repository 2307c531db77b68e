package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/chartdata/pkg/chartexport"
	"github.com/Sumatoshi-tech/chartdata/pkg/observability"
	"github.com/Sumatoshi-tech/chartdata/pkg/persist"
)

const (
	renderDirPerm  = 0o750
	renderFilePerm = 0o600
	opRender       = "render"
)

// ErrNoOutputDir is returned when --output is empty.
var ErrNoOutputDir = errors.New("output directory is required (use --output)")

type renderOptions struct {
	outputDir string
	format    string
	theme     string
	title     string
	width     int
	height    int
}

func newRenderCommand(root *rootOptions) *cobra.Command {
	var ro renderOptions

	cmd := &cobra.Command{
		Use:   "render <document>...",
		Short: "Render documents as HTML pages or PNG images",
		Long: `Render every document into the output directory, one file per
document named after it: sales.yaml.lz4 becomes sales.html or sales.png.

Unset flags fall back to the render section of the configuration.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ro.outputDir == "" {
				return ErrNoOutputDir
			}

			rt, err := setup(cmd, root, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer rt.close(context.WithoutCancel(cmd.Context()))

			ro.fillDefaults(cmd, rt)

			return rt.ops.Track(cmd.Context(), opRender, func(ctx context.Context) error {
				return runRender(ctx, rt, ro, args)
			})
		},
	}

	cmd.Flags().StringVarP(&ro.outputDir, "output", "o", ".", "output directory")
	cmd.Flags().StringVarP(&ro.format, "format", "f", "", "output format: html or png")
	cmd.Flags().StringVar(&ro.theme, "theme", "", "color theme: light or dark")
	cmd.Flags().StringVar(&ro.title, "title", "", "chart title (default: document name)")
	cmd.Flags().IntVar(&ro.width, "width", 0, "image width in points")
	cmd.Flags().IntVar(&ro.height, "height", 0, "chart height in points or pixels")

	return cmd
}

func (ro *renderOptions) fillDefaults(cmd *cobra.Command, rt *runtime) {
	if !cmd.Flags().Changed("format") {
		ro.format = rt.cfg.Render.Format
	}

	if !cmd.Flags().Changed("theme") {
		ro.theme = rt.cfg.Render.Theme
	}

	if !cmd.Flags().Changed("width") {
		ro.width = rt.cfg.Render.Width
	}

	if !cmd.Flags().Changed("height") {
		ro.height = rt.cfg.Render.Height
	}
}

func runRender(ctx context.Context, rt *runtime, ro renderOptions, paths []string) error {
	format, err := chartexport.ParseFormat(ro.format)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(ro.outputDir, renderDirPerm); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(goruntime.GOMAXPROCS(0))

	for _, path := range paths {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			target, renderErr := renderFile(path, format, ro)
			if renderErr != nil {
				return fmt.Errorf("render %s: %w", path, renderErr)
			}

			rt.logger().InfoContext(ctx, "rendered document", "source", path, "target", target)

			return nil
		})
	}

	return g.Wait()
}

func renderFile(path string, format chartexport.Format, ro renderOptions) (string, error) {
	doc, err := persist.LoadDocument(path)
	if err != nil {
		return "", err
	}

	name := documentName(path)

	title := ro.title
	if title == "" {
		title = name
	}

	target := filepath.Join(ro.outputDir, name+"."+string(format))

	f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, renderFilePerm)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", target, err)
	}

	renderErr := chartexport.RenderDocument(f, doc, format, chartexport.Options{
		Title:  title,
		Theme:  chartexport.Theme(strings.ToLower(ro.theme)),
		Width:  ro.width,
		Height: ro.height,
	})

	return target, errors.Join(renderErr, f.Close())
}

// documentName strips every extension: data/sales.json.lz4 is "sales".
func documentName(path string) string {
	base := filepath.Base(path)

	if i := strings.IndexByte(base, '.'); i > 0 {
		return base[:i]
	}

	return base
}

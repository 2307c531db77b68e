package chartexport

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/Sumatoshi-tech/chartdata/pkg/category"
	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
)

const (
	millisPerSecond = 1000
	timeTickFormat  = "2006-01-02"
	barWidth        = vg.Length(12)
	markerRadius    = vg.Length(2.5)
)

// PlotOptions label a raster plot.
type PlotOptions struct {
	Title  string
	XLabel string
	YLabel string
	Theme  Theme
	// TimeAxis reads x-values as Unix milliseconds and labels them as dates.
	TimeAxis bool
}

// LinePlot draws every series of src as a line. Null, NaN and infinite
// values split a line into separate runs; a run of one point is drawn as a
// marker.
func LinePlot(src XYSource, o PlotOptions) (*plot.Plot, error) {
	p, err := newPlot(o)
	if err != nil {
		return nil, err
	}

	if o.TimeAxis {
		p.X.Tick.Marker = plot.TimeTicks{Format: timeTickFormat}
	}

	theme := GetThemeConfig(o.Theme)
	keys := src.SeriesKeys()

	for s := range src.SeriesCount() {
		points, pointsErr := seriesPoints(src, s)
		if pointsErr != nil {
			return nil, pointsErr
		}

		if o.TimeAxis {
			for i := range points {
				points[i].x /= millisPerSecond
			}
		}

		col := RGBA(theme.SeriesColor(s))
		legend := true

		for _, run := range plottableRuns(points) {
			thumb, addErr := addRun(p, run, col)
			if addErr != nil {
				return nil, fmt.Errorf("series %q: %w", keys[s], addErr)
			}

			if legend {
				p.Legend.Add(keys[s], thumb)
				legend = false
			}
		}
	}

	return p, nil
}

// BarPlot draws a grouped bar plot: one group per column, one bar per row.
// Null cells are drawn as zero.
func BarPlot(ds *category.Dataset[string, string], o PlotOptions) (*plot.Plot, error) {
	p, err := newPlot(o)
	if err != nil {
		return nil, err
	}

	if ds.ColumnCount() == 0 || ds.RowCount() == 0 {
		return p, nil
	}

	p.NominalX(ds.ColumnKeys()...)

	theme := GetThemeConfig(o.Theme)
	rows := ds.RowCount()

	for r, rowKey := range ds.RowKeys() {
		values := make(plotter.Values, ds.ColumnCount())

		for c := range values {
			if v, _ := ds.ValueAt(r, c); plottable(v) {
				values[c] = v.Float
			}
		}

		bars, barErr := plotter.NewBarChart(values, barWidth)
		if barErr != nil {
			return nil, fmt.Errorf("row %q: %w", rowKey, barErr)
		}

		bars.Color = RGBA(theme.SeriesColor(r))
		bars.LineStyle.Width = 0
		bars.Offset = barWidth * vg.Length(2*r-rows+1) / 2

		p.Add(bars)
		p.Legend.Add(rowKey, bars)
	}

	return p, nil
}

// WritePNG draws p onto a width by height canvas, in points, and writes it
// as PNG.
func WritePNG(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	img := vgimg.New(width, height)
	dc := draw.New(img)

	p.Draw(dc)

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}

	return nil
}

func newPlot(o PlotOptions) (*plot.Plot, error) {
	p, err := plot.New()
	if err != nil {
		return nil, fmt.Errorf("new plot: %w", err)
	}

	p.Title.Text = o.Title
	p.X.Label.Text = o.XLabel
	p.Y.Label.Text = o.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	return p, nil
}

// plottableRuns splits points into maximal runs of finite coordinates.
func plottableRuns(points []point) []plotter.XYs {
	var (
		runs    []plotter.XYs
		current plotter.XYs
	)

	for _, pt := range points {
		if !plottable(pt.y) || !plottable(dataset.Num(pt.x)) {
			if len(current) > 0 {
				runs = append(runs, current)
				current = nil
			}

			continue
		}

		current = append(current, plotter.XY{X: pt.x, Y: pt.y.Float})
	}

	if len(current) > 0 {
		runs = append(runs, current)
	}

	return runs
}

func addRun(p *plot.Plot, run plotter.XYs, c color.Color) (plot.Thumbnailer, error) {
	if len(run) == 1 {
		scatter, err := plotter.NewScatter(run)
		if err != nil {
			return nil, err
		}

		scatter.GlyphStyle.Color = c
		scatter.GlyphStyle.Radius = markerRadius
		p.Add(scatter)

		return scatter, nil
	}

	line, err := plotter.NewLine(run)
	if err != nil {
		return nil, err
	}

	line.Color = c
	p.Add(line)

	return line, nil
}

// Package chartexport renders datasets for people: ECharts HTML pages and
// gonum/plot PNG images, built only from the read side of each dataset.
package chartexport

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/Sumatoshi-tech/chartdata/pkg/persist"
)

// Format is an output format.
type Format string

// Output formats.
const (
	FormatHTML Format = "html"
	FormatPNG  Format = "png"
)

// ErrUnsupportedFormat reports a format a dataset kind cannot be drawn in.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// ParseFormat reads a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatHTML, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Options control document rendering.
type Options struct {
	Title  string
	Theme  Theme
	Width  int
	Height int
}

// RenderDocument draws the dataset held by doc in the given format.
func RenderDocument(w io.Writer, doc *persist.Document, format Format, o Options) error {
	switch format {
	case FormatHTML:
		section, err := htmlSection(doc, o)
		if err != nil {
			return err
		}

		page := NewPage(o.Title, string(doc.Kind), o.Theme)
		page.Add(section)

		return page.Render(w)
	case FormatPNG:
		p, err := documentPlot(doc, o)
		if err != nil {
			return err
		}

		return WritePNG(w, p, vg.Length(o.Width), vg.Length(o.Height))
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func htmlSection(doc *persist.Document, o Options) (Section, error) {
	co := NewChartOpts(o.Theme, "100%", fmt.Sprintf("%dpx", o.Height))
	section := Section{Title: o.Title}

	var err error

	switch doc.Kind {
	case persist.KindTimeSeries:
		c, restoreErr := doc.TimeSeriesCollection()
		if restoreErr != nil {
			return section, restoreErr
		}

		section.Chart, err = LineChart(co, "", TimeSeriesSource(c), AxisTime, rangeLabel(doc))
	case persist.KindXY:
		c, restoreErr := doc.XYCollection()
		if restoreErr != nil {
			return section, restoreErr
		}

		section.Chart, err = LineChart(co, "", c, AxisValue, "")
	case persist.KindXYTable:
		t, restoreErr := doc.Table()
		if restoreErr != nil {
			return section, restoreErr
		}

		section.Chart, err = StackedAreaChart(co, "", t, "")
	case persist.KindCategory:
		ds, restoreErr := doc.CategoryDataset()
		if restoreErr != nil {
			return section, restoreErr
		}

		section.Chart = BarChart(co, "", ds, "")
	case persist.KindPie:
		ds, restoreErr := doc.PieDataset()
		if restoreErr != nil {
			return section, restoreErr
		}

		section.Chart = PieChart(co, "", ds)
	case persist.KindGroup:
		return section, fmt.Errorf("%w: %s as %s", ErrUnsupportedFormat, doc.Kind, FormatHTML)
	default:
		return section, fmt.Errorf("%w: %q", persist.ErrUnknownDocumentKind, doc.Kind)
	}

	return section, err
}

func documentPlot(doc *persist.Document, o Options) (*plot.Plot, error) {
	po := PlotOptions{Title: o.Title, Theme: o.Theme}

	switch doc.Kind {
	case persist.KindTimeSeries:
		c, err := doc.TimeSeriesCollection()
		if err != nil {
			return nil, err
		}

		po.TimeAxis = true
		po.XLabel = domainLabel(doc)
		po.YLabel = rangeLabel(doc)

		return LinePlot(TimeSeriesSource(c), po)
	case persist.KindXY:
		c, err := doc.XYCollection()
		if err != nil {
			return nil, err
		}

		return LinePlot(c, po)
	case persist.KindXYTable:
		t, err := doc.Table()
		if err != nil {
			return nil, err
		}

		return LinePlot(t, po)
	case persist.KindCategory:
		ds, err := doc.CategoryDataset()
		if err != nil {
			return nil, err
		}

		return BarPlot(ds, po)
	case persist.KindPie, persist.KindGroup:
		return nil, fmt.Errorf("%w: %s as %s", ErrUnsupportedFormat, doc.Kind, FormatPNG)
	default:
		return nil, fmt.Errorf("%w: %q", persist.ErrUnknownDocumentKind, doc.Kind)
	}
}

// domainLabel and rangeLabel use the first series' axis descriptions.
func domainLabel(doc *persist.Document) string {
	if len(doc.TimeSeries) == 0 {
		return ""
	}

	return doc.TimeSeries[0].DomainDescription
}

func rangeLabel(doc *persist.Document) string {
	if len(doc.TimeSeries) == 0 {
		return ""
	}

	return doc.TimeSeries[0].RangeDescription
}

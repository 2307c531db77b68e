package chartexport

import (
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/chartdata/pkg/category"
	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
	"github.com/Sumatoshi-tech/chartdata/pkg/pie"
	"github.com/Sumatoshi-tech/chartdata/pkg/xy"
)

// Axis types understood by ECharts.
const (
	AxisCategory = "category"
	AxisValue    = "value"
	AxisTime     = "time"
)

// gap is the ECharts placeholder for a missing value.
const gap = "-"

const (
	stackName       = "total"
	stackedOpacity  = 0.6
	pieInnerRadius  = "35%"
	pieOuterRadius  = "70%"
	pieLabelPattern = "{b}: {c} ({d}%)"
)

// LineChart builds a line chart with one line per series, plotted as
// (x, y) pairs on a value or time x-axis. Null and NaN values leave gaps.
// If co is nil, DefaultChartOpts() is used.
func LineChart(co *ChartOpts, title string, src XYSource, xAxisType, yAxisName string) (*charts.Line, error) {
	if co == nil {
		co = DefaultChartOpts()
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init()),
		charts.WithTitleOpts(co.Title(title, "")),
		charts.WithTooltipOpts(co.Tooltip("axis")),
		charts.WithDataZoomOpts(co.DataZoom()...),
		charts.WithXAxisOpts(co.XAxis("", xAxisType)),
		charts.WithYAxisOpts(co.YAxis(yAxisName)),
		charts.WithLegendOpts(co.Legend()),
		charts.WithGridOpts(co.Grid()),
	)

	keys := src.SeriesKeys()

	for s := range src.SeriesCount() {
		points, err := seriesPoints(src, s)
		if err != nil {
			return nil, err
		}

		data := make([]opts.LineData, 0, len(points))

		for _, p := range points {
			if plottable(dataset.Num(p.x)) {
				data = append(data, opts.LineData{Value: []any{p.x, chartValue(p.y)}})
			}
		}

		color := co.Theme().SeriesColor(s)
		line.AddSeries(keys[s], data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: color}),
		)
	}

	return line, nil
}

// StackedAreaChart builds a stacked area chart from a table dataset, whose
// series share one set of x-values.
func StackedAreaChart(co *ChartOpts, title string, table *xy.TableDataset, yAxisName string) (*charts.Line, error) {
	if co == nil {
		co = DefaultChartOpts()
	}

	xPoints := table.XPoints()
	labels := make([]string, len(xPoints))

	for i, x := range xPoints {
		labels[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init()),
		charts.WithTitleOpts(co.Title(title, "")),
		charts.WithTooltipOpts(co.Tooltip("axis")),
		charts.WithXAxisOpts(co.XAxis("", AxisCategory)),
		charts.WithYAxisOpts(co.YAxis(yAxisName)),
		charts.WithLegendOpts(co.Legend()),
		charts.WithGridOpts(co.Grid()),
	)
	line.SetXAxis(labels)

	keys := table.SeriesKeys()

	for s := range table.SeriesCount() {
		points, err := seriesPoints(table, s)
		if err != nil {
			return nil, err
		}

		data := make([]opts.LineData, len(points))
		for i, p := range points {
			data[i] = opts.LineData{Value: chartValue(p.y)}
		}

		color := co.Theme().SeriesColor(s)
		line.AddSeries(keys[s], data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: color}),
			charts.WithLineChartOpts(opts.LineChart{Stack: stackName}),
			charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(stackedOpacity)}),
		)
	}

	return line, nil
}

// BarChart builds a grouped bar chart: columns are the categories along
// the x-axis and each row is one bar series.
func BarChart(co *ChartOpts, title string, ds *category.Dataset[string, string], yAxisName string) *charts.Bar {
	if co == nil {
		co = DefaultChartOpts()
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init()),
		charts.WithTitleOpts(co.Title(title, "")),
		charts.WithTooltipOpts(co.Tooltip("axis")),
		charts.WithXAxisOpts(co.XAxis("", AxisCategory)),
		charts.WithYAxisOpts(co.YAxis(yAxisName)),
		charts.WithLegendOpts(co.Legend()),
		charts.WithGridOpts(co.Grid()),
	)
	bar.SetXAxis(ds.ColumnKeys())

	for r, rowKey := range ds.RowKeys() {
		data := make([]opts.BarData, ds.ColumnCount())

		for c := range data {
			v, _ := ds.ValueAt(r, c)
			data[c] = opts.BarData{Value: chartValue(v)}
		}

		bar.AddSeries(rowKey, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: co.Theme().SeriesColor(r)}))
	}

	return bar
}

// PieChart builds a ring chart of the positive finite sections.
func PieChart(co *ChartOpts, title string, ds *pie.Dataset[string]) *charts.Pie {
	if co == nil {
		co = DefaultChartOpts()
	}

	ring := charts.NewPie()
	ring.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init()),
		charts.WithTitleOpts(co.Title(title, "")),
		charts.WithTooltipOpts(co.Tooltip("item")),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Top:       "bottom",
			TextStyle: &opts.TextStyle{Color: co.Theme().ChartTextMuted},
		}),
	)

	data := make([]opts.PieData, 0, ds.ItemCount())
	i := 0

	for key, v := range ds.All() {
		if plottable(v) && v.Float > 0 {
			data = append(data, opts.PieData{
				Name:      key,
				Value:     v.Float,
				ItemStyle: &opts.ItemStyle{Color: co.Theme().SeriesColor(i)},
			})
		}

		i++
	}

	ring.AddSeries(title, data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: pieLabelPattern,
				Color:     co.Theme().ChartTextMuted,
			}),
			charts.WithPieChartOpts(opts.PieChart{
				Radius: []string{pieInnerRadius, pieOuterRadius},
			}),
		)

	return ring
}

// chartValue maps a dataset number to an ECharts datum. JSON has no
// literal for infinities, so they become gaps like null and NaN.
func chartValue(n dataset.Number) any {
	if !plottable(n) {
		return gap
	}

	return n.Float
}

func plottable(n dataset.Number) bool {
	return n.Finite() && !math.IsInf(n.Float, 0)
}

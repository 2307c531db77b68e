package chartexport

import (
	"fmt"

	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
	"github.com/Sumatoshi-tech/chartdata/pkg/timeseries"
)

// XYSource is the read side of an XY dataset. xy.Collection and
// xy.TableDataset satisfy it; TimeSeriesSource adapts a time series
// collection.
type XYSource interface {
	SeriesCount() int
	SeriesKeys() []string
	ItemCount(series int) (int, error)
	X(series, item int) (float64, error)
	Y(series, item int) (dataset.Number, error)
}

type timeSeriesSource struct {
	*timeseries.Collection
}

// TimeSeriesSource presents a time series collection with x-values in Unix
// milliseconds.
func TimeSeriesSource(c *timeseries.Collection) XYSource {
	return timeSeriesSource{Collection: c}
}

func (s timeSeriesSource) X(series, item int) (float64, error) {
	millis, err := s.Collection.X(series, item)

	return float64(millis), err
}

type point struct {
	x float64
	y dataset.Number
}

func seriesPoints(src XYSource, series int) ([]point, error) {
	n, err := src.ItemCount(series)
	if err != nil {
		return nil, fmt.Errorf("series %d: %w", series, err)
	}

	points := make([]point, n)

	for i := range n {
		x, xErr := src.X(series, i)
		if xErr != nil {
			return nil, fmt.Errorf("series %d item %d: %w", series, i, xErr)
		}

		y, yErr := src.Y(series, i)
		if yErr != nil {
			return nil, fmt.Errorf("series %d item %d: %w", series, i, yErr)
		}

		points[i] = point{x: x, y: y}
	}

	return points, nil
}

package commands

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/chartdata/pkg/category"
	"github.com/Sumatoshi-tech/chartdata/pkg/config"
	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
	"github.com/Sumatoshi-tech/chartdata/pkg/group"
	"github.com/Sumatoshi-tech/chartdata/pkg/period"
	"github.com/Sumatoshi-tech/chartdata/pkg/persist"
	"github.com/Sumatoshi-tech/chartdata/pkg/pie"
	"github.com/Sumatoshi-tech/chartdata/pkg/stats"
	"github.com/Sumatoshi-tech/chartdata/pkg/timeseries"
	"github.com/Sumatoshi-tech/chartdata/pkg/xy"
)

// ErrBadItem reports an item that does not fit the dataset it targets.
var ErrBadItem = errors.New("bad item")

// liveDataset is a document restored into its dataset so it can be
// summarized, mutated and snapshotted. Exactly one dataset field is set.
type liveDataset struct {
	kind       persist.Kind
	timeSeries *timeseries.Collection
	xy         *xy.Collection
	table      *xy.TableDataset
	category   *category.Dataset[string, string]
	pie        *pie.Dataset[string]
	groups     *group.Map[string, string]
}

// restore rebuilds doc. Configuration fills in what the document leaves
// open: the x anchor, series limits and the table interval.
func restore(doc *persist.Document, cfg *config.Config, opts ...timeseries.Option) (*liveDataset, error) {
	ld := &liveDataset{kind: doc.Kind}

	var err error

	switch doc.Kind {
	case persist.KindTimeSeries:
		ld.timeSeries, err = restoreTimeSeries(doc, cfg, opts)
	case persist.KindXY:
		ld.xy, err = doc.XYCollection()
	case persist.KindXYTable:
		ld.table, err = doc.Table()
		if err == nil && doc.Interval == nil {
			err = applyTableDefaults(ld.table, cfg)
		}
	case persist.KindCategory:
		ld.category, err = doc.CategoryDataset()
	case persist.KindPie:
		ld.pie, err = doc.PieDataset()
	case persist.KindGroup:
		ld.groups, err = doc.GroupMap()
	default:
		err = fmt.Errorf("%w: %q", persist.ErrUnknownDocumentKind, doc.Kind)
	}

	if err != nil {
		return nil, err
	}

	return ld, nil
}

func restoreTimeSeries(doc *persist.Document, cfg *config.Config, opts []timeseries.Option) (*timeseries.Collection, error) {
	c, err := doc.TimeSeriesCollection(opts...)
	if err != nil {
		return nil, err
	}

	if doc.Anchor == "" {
		anchor, anchorErr := cfg.Anchor()
		if anchorErr != nil {
			return nil, anchorErr
		}

		c.SetXPosition(anchor)
	}

	for i := range doc.TimeSeries {
		sd := &doc.TimeSeries[i]

		s, seriesErr := c.SeriesByKey(sd.Key)
		if seriesErr != nil {
			return nil, seriesErr
		}

		if sd.MaxItemCount == nil && cfg.Series.MaxItemCount > 0 {
			if limitErr := s.SetMaximumItemCount(cfg.Series.MaxItemCount); limitErr != nil {
				return nil, limitErr
			}
		}

		if sd.MaxItemAge == nil && cfg.Series.MaxItemAge > 0 {
			if limitErr := s.SetMaximumItemAge(cfg.Series.MaxItemAge); limitErr != nil {
				return nil, limitErr
			}
		}
	}

	return c, nil
}

func applyTableDefaults(t *xy.TableDataset, cfg *config.Config) error {
	interval := t.Interval()

	if err := interval.SetPositionFactor(cfg.Table.IntervalPosition); err != nil {
		return err
	}

	if cfg.Table.IntervalWidth > 0 {
		if err := interval.SetFixedWidth(cfg.Table.IntervalWidth); err != nil {
			return err
		}
	}

	t.SetAutoPrune(cfg.Table.AutoPrune)

	return nil
}

// notifier returns the dataset that fires change events, nil for a group
// mapping, which fires none.
func (ld *liveDataset) notifier() interface{ AddChangeListener(dataset.Listener) } {
	switch ld.kind {
	case persist.KindGroup:
		return nil
	case persist.KindTimeSeries:
		return ld.timeSeries
	case persist.KindXY:
		return ld.xy
	case persist.KindXYTable:
		return ld.table
	case persist.KindCategory:
		return ld.category
	default:
		return ld.pie
	}
}

// document snapshots the current contents.
func (ld *liveDataset) document() *persist.Document {
	switch ld.kind {
	case persist.KindTimeSeries:
		return persist.TimeSeriesDocument(ld.timeSeries)
	case persist.KindXY:
		return persist.XYCollectionDocument(ld.xy)
	case persist.KindXYTable:
		return persist.TableDocument(ld.table)
	case persist.KindCategory:
		return persist.CategoryDocument(ld.category)
	case persist.KindGroup:
		return persist.GroupDocument(ld.groups)
	default:
		return persist.PieDocument(ld.pie)
	}
}

// itemRequest adds or updates one item. Which fields apply depends on the
// dataset kind: series with period or x, row with column, or key. For a
// group mapping, key moves to group and an empty group unmaps it.
type itemRequest struct {
	Series     string        `json:"series,omitempty"`
	Period     string        `json:"period,omitempty"`
	PeriodKind string        `json:"period_kind,omitempty"`
	X          *float64      `json:"x,omitempty"`
	Row        string        `json:"row,omitempty"`
	Column     string        `json:"column,omitempty"`
	Key        string        `json:"key,omitempty"`
	Group      string        `json:"group,omitempty"`
	Value      persist.Value `json:"value"`
}

// apply adds or updates the item described by req.
func (ld *liveDataset) apply(req itemRequest) error {
	value := req.Value.Number()

	switch ld.kind {
	case persist.KindTimeSeries:
		return ld.applyTimeSeries(req, value)
	case persist.KindXY:
		return applyXY(req, value, ld.xy.SeriesByKey)
	case persist.KindXYTable:
		return applyXY(req, value, ld.table.SeriesByKey)
	case persist.KindCategory:
		if req.Row == "" || req.Column == "" {
			return fmt.Errorf("%w: row and column are required", ErrBadItem)
		}

		ld.category.Set(value, req.Row, req.Column)

		return nil
	case persist.KindGroup:
		return ld.applyGroup(req)
	default:
		if req.Key == "" {
			return fmt.Errorf("%w: key is required", ErrBadItem)
		}

		ld.pie.Set(req.Key, value)

		return nil
	}
}

func (ld *liveDataset) applyTimeSeries(req itemRequest, value dataset.Number) error {
	s, err := ld.timeSeries.SeriesByKey(req.Series)
	if err != nil {
		return err
	}

	kind := s.Kind()
	if req.PeriodKind != "" {
		if kind, err = period.ParseKind(req.PeriodKind); err != nil {
			return fmt.Errorf("%w: %w", ErrBadItem, err)
		}
	}

	if !kind.Valid() {
		return fmt.Errorf("%w: period_kind is required for an empty series", ErrBadItem)
	}

	p, err := period.Parse(kind, req.Period)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadItem, err)
	}

	_, err = s.AddOrUpdate(p, value)

	return err
}

func (ld *liveDataset) applyGroup(req itemRequest) error {
	if req.Key == "" {
		return fmt.Errorf("%w: key is required", ErrBadItem)
	}

	if req.Group == "" {
		ld.groups.UnmapKey(req.Key)

		return nil
	}

	return ld.groups.MapKeyToGroup(req.Key, req.Group)
}

func applyXY(req itemRequest, value dataset.Number, lookup func(string) (*xy.Series, error)) error {
	if req.X == nil {
		return fmt.Errorf("%w: x is required", ErrBadItem)
	}

	s, err := lookup(req.Series)
	if err != nil {
		return err
	}

	_, err = s.AddOrUpdate(*req.X, value)

	return err
}

// seriesSummary is one line of an inspection.
type seriesSummary struct {
	key   string
	kind  string
	stats stats.Summary
}

// summaries lists every series (rows for category datasets, all sections
// for a pie) with its value statistics. Category rows count only the cells
// they hold. A group mapping lists its groups in index order with the count
// of keys mapped to each.
func (ld *liveDataset) summaries() []seriesSummary {
	var out []seriesSummary

	switch ld.kind {
	case persist.KindTimeSeries:
		for _, key := range ld.timeSeries.SeriesKeys() {
			s, _ := ld.timeSeries.SeriesByKey(key)

			values := make([]dataset.Number, 0, s.ItemCount())
			for _, item := range s.Items() {
				values = append(values, item.Value)
			}

			out = append(out, seriesSummary{key, kindName(s.Kind()), stats.Summarize(values)})
		}
	case persist.KindXY:
		out = xySummaries(ld.xy.SeriesKeys(), ld.xy.SeriesByKey)
	case persist.KindXYTable:
		out = xySummaries(ld.table.SeriesKeys(), ld.table.SeriesByKey)
	case persist.KindCategory:
		out = ld.categorySummaries()
	case persist.KindGroup:
		for _, g := range ld.groups.Groups() {
			out = append(out, seriesSummary{g, "", stats.Summary{Count: ld.groups.KeyCount(g)}})
		}
	default:
		values := make([]dataset.Number, 0, ld.pie.ItemCount())
		for _, v := range ld.pie.All() {
			values = append(values, v)
		}

		out = append(out, seriesSummary{"sections", "", stats.Summarize(values)})
	}

	return out
}

func xySummaries(keys []string, lookup func(string) (*xy.Series, error)) []seriesSummary {
	out := make([]seriesSummary, 0, len(keys))

	for _, key := range keys {
		s, _ := lookup(key)

		values := make([]dataset.Number, 0, s.ItemCount())
		for _, item := range s.Items() {
			values = append(values, item.Y)
		}

		out = append(out, seriesSummary{key, "", stats.Summarize(values)})
	}

	return out
}

func (ld *liveDataset) categorySummaries() []seriesSummary {
	out := make([]seriesSummary, 0, ld.category.RowCount())

	for r, key := range ld.category.RowKeys() {
		values := make([]dataset.Number, 0, ld.category.ColumnCount())

		for c := range ld.category.ColumnCount() {
			v, _ := ld.category.ValueAt(r, c)
			if v.Valid {
				values = append(values, v)
			}
		}

		out = append(out, seriesSummary{key, "", stats.Summarize(values)})
	}

	return out
}

func kindName(k period.Kind) string {
	if !k.Valid() {
		return ""
	}

	return k.String()
}

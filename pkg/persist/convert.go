package persist

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/Sumatoshi-tech/chartdata/pkg/category"
	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
	"github.com/Sumatoshi-tech/chartdata/pkg/group"
	"github.com/Sumatoshi-tech/chartdata/pkg/keyed"
	"github.com/Sumatoshi-tech/chartdata/pkg/period"
	"github.com/Sumatoshi-tech/chartdata/pkg/pie"
	"github.com/Sumatoshi-tech/chartdata/pkg/timeseries"
	"github.com/Sumatoshi-tech/chartdata/pkg/xy"
)

// TimeSeriesDocument captures a time series collection.
func TimeSeriesDocument(c *timeseries.Collection) *Document {
	doc := &Document{
		Kind:       KindTimeSeries,
		TimeZone:   c.Location().String(),
		Anchor:     c.XPosition().String(),
		TimeSeries: make([]TimeSeriesDoc, 0, c.SeriesCount()),
	}

	for i := range c.SeriesCount() {
		s, err := c.Series(i)
		if err != nil {
			continue
		}

		doc.TimeSeries = append(doc.TimeSeries, timeSeriesDoc(s))
	}

	return doc
}

func timeSeriesDoc(s *timeseries.Series) TimeSeriesDoc {
	sd := TimeSeriesDoc{
		Key:               s.Key(),
		Description:       s.Description(),
		DomainDescription: s.DomainDescription(),
		RangeDescription:  s.RangeDescription(),
		TimeZone:          s.Location().String(),
		Items:             make([]TimeItemDoc, 0, s.ItemCount()),
	}

	if s.Kind().Valid() {
		sd.PeriodKind = s.Kind().String()
	}

	if limit := s.MaximumItemCount(); limit != math.MaxInt {
		sd.MaxItemCount = &limit
	}

	if age := s.MaximumItemAge(); age != math.MaxInt64 {
		sd.MaxItemAge = &age
	}

	for _, item := range s.Items() {
		sd.Items = append(sd.Items, TimeItemDoc{Period: item.Period.String(), Value: ValueOf(item.Value)})
	}

	return sd
}

// TimeSeriesCollection rebuilds a time series collection. opts apply to
// every series before the stored settings.
func (d *Document) TimeSeriesCollection(opts ...timeseries.Option) (*timeseries.Collection, error) {
	if err := d.expect(KindTimeSeries); err != nil {
		return nil, err
	}

	loc, err := loadLocation(d.TimeZone)
	if err != nil {
		return nil, err
	}

	c := timeseries.NewCollection(loc)

	if d.Anchor != "" {
		anchor, anchorErr := period.ParseAnchor(d.Anchor)
		if anchorErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchemaViolation, anchorErr)
		}

		c.SetXPosition(anchor)
	}

	for i := range d.TimeSeries {
		s, seriesErr := d.TimeSeries[i].series(opts)
		if seriesErr != nil {
			return nil, fmt.Errorf("series %q: %w", d.TimeSeries[i].Key, seriesErr)
		}

		if addErr := c.AddSeries(s); addErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchemaViolation, addErr)
		}
	}

	return c, nil
}

func (sd *TimeSeriesDoc) series(opts []timeseries.Option) (*timeseries.Series, error) {
	loc, err := loadLocation(sd.TimeZone)
	if err != nil {
		return nil, err
	}

	opts = append(opts, timeseries.WithLocation(loc), timeseries.WithDescription(sd.Description))
	s := timeseries.New(sd.Key, opts...)

	if sd.DomainDescription != "" {
		s.SetDomainDescription(sd.DomainDescription)
	}

	if sd.RangeDescription != "" {
		s.SetRangeDescription(sd.RangeDescription)
	}

	if err = sd.applyLimits(s); err != nil {
		return nil, err
	}

	if len(sd.Items) == 0 {
		return s, nil
	}

	if sd.PeriodKind == "" {
		return nil, fmt.Errorf("%w: items without a period kind", ErrSchemaViolation)
	}

	kind, err := period.ParseKind(sd.PeriodKind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}

	for _, item := range sd.Items {
		p, parseErr := period.Parse(kind, item.Period)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchemaViolation, parseErr)
		}

		if addErr := s.Add(p, item.Value.Number()); addErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchemaViolation, addErr)
		}
	}

	return s, nil
}

func (sd *TimeSeriesDoc) applyLimits(s *timeseries.Series) error {
	if sd.MaxItemCount != nil {
		if err := s.SetMaximumItemCount(*sd.MaxItemCount); err != nil {
			return fmt.Errorf("%w: %w", ErrSchemaViolation, err)
		}
	}

	if sd.MaxItemAge != nil {
		if err := s.SetMaximumItemAge(*sd.MaxItemAge); err != nil {
			return fmt.Errorf("%w: %w", ErrSchemaViolation, err)
		}
	}

	return nil
}

// XYCollectionDocument captures an XY collection.
func XYCollectionDocument(c *xy.Collection) *Document {
	doc := &Document{
		Kind:     KindXY,
		Interval: intervalDoc(c.Interval()),
		XYSeries: make([]XYSeriesDoc, 0, c.SeriesCount()),
	}

	for i := range c.SeriesCount() {
		if s, err := c.Series(i); err == nil {
			doc.XYSeries = append(doc.XYSeries, xySeriesDoc(s))
		}
	}

	return doc
}

// TableDocument captures an aligned XY table dataset.
func TableDocument(t *xy.TableDataset) *Document {
	doc := &Document{
		Kind:      KindXYTable,
		AutoPrune: t.AutoPrune(),
		Interval:  intervalDoc(t.Interval()),
		XYSeries:  make([]XYSeriesDoc, 0, t.SeriesCount()),
	}

	for i := range t.SeriesCount() {
		if s, err := t.Series(i); err == nil {
			doc.XYSeries = append(doc.XYSeries, xySeriesDoc(s))
		}
	}

	return doc
}

func intervalDoc(d *xy.IntervalDelegate) *IntervalDoc {
	return &IntervalDoc{
		AutoWidth:      d.AutoWidth(),
		PositionFactor: d.PositionFactor(),
		FixedWidth:     d.FixedWidth(),
	}
}

func xySeriesDoc(s *xy.Series) XYSeriesDoc {
	sd := XYSeriesDoc{
		Key:             s.Key(),
		Description:     s.Description(),
		AutoSort:        s.AutoSort(),
		AllowDuplicateX: s.AllowsDuplicateX(),
		Items:           make([]XYItemDoc, 0, s.ItemCount()),
	}

	if limit := s.MaximumItemCount(); limit != math.MaxInt {
		sd.MaxItemCount = &limit
	}

	for _, item := range s.Items() {
		sd.Items = append(sd.Items, XYItemDoc{X: ValueOf(dataset.Num(item.X)), Y: ValueOf(item.Y)})
	}

	return sd
}

// XYCollection rebuilds an XY collection.
func (d *Document) XYCollection() (*xy.Collection, error) {
	if err := d.expect(KindXY); err != nil {
		return nil, err
	}

	c := xy.NewCollection()

	if err := d.Interval.apply(c.Interval()); err != nil {
		return nil, err
	}

	for i := range d.XYSeries {
		s, err := d.XYSeries[i].series()
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", d.XYSeries[i].Key, err)
		}

		if err = c.AddSeries(s); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchemaViolation, err)
		}
	}

	return c, nil
}

// Table rebuilds an aligned XY table dataset.
func (d *Document) Table() (*xy.TableDataset, error) {
	if err := d.expect(KindXYTable); err != nil {
		return nil, err
	}

	t := xy.NewTableDataset(d.AutoPrune)

	if err := d.Interval.apply(t.Interval()); err != nil {
		return nil, err
	}

	for i := range d.XYSeries {
		s, err := d.XYSeries[i].series()
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", d.XYSeries[i].Key, err)
		}

		if err = t.AddSeries(s); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchemaViolation, err)
		}
	}

	return t, nil
}

func (id *IntervalDoc) apply(d *xy.IntervalDelegate) error {
	if id == nil {
		return nil
	}

	if err := d.SetPositionFactor(id.PositionFactor); err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}

	if err := d.SetFixedWidth(id.FixedWidth); err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}

	d.SetAutoWidth(id.AutoWidth)

	return nil
}

func (sd *XYSeriesDoc) series() (*xy.Series, error) {
	s := xy.NewSeries(sd.Key, xy.WithAutoSort(sd.AutoSort), xy.WithDuplicateX(sd.AllowDuplicateX))
	s.SetDescription(sd.Description)

	if sd.MaxItemCount != nil {
		if err := s.SetMaximumItemCount(*sd.MaxItemCount); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchemaViolation, err)
		}
	}

	for i, item := range sd.Items {
		if !item.X.Valid {
			return nil, fmt.Errorf("%w: item %d has a null x-value", ErrSchemaViolation, i)
		}

		if err := s.Add(item.X.Float, item.Y.Number()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchemaViolation, err)
		}
	}

	return s, nil
}

// CategoryDocument captures a category dataset with string keys.
func CategoryDocument(c *category.Dataset[string, string]) *Document {
	t := c.Table()
	cd := &CategoryDoc{
		SortedRows: t.SortedRowKeys(),
		Columns:    append([]string{}, t.ColumnKeys()...),
		Rows:       make([]RowDoc, 0, t.RowCount()),
	}

	for i := range t.RowCount() {
		key, _ := t.RowKey(i)

		row, err := t.Row(i)
		if err != nil {
			continue
		}

		rd := RowDoc{Key: key, Cells: make([]EntryDoc, 0, row.Len())}
		for column, v := range row.All() {
			rd.Cells = append(rd.Cells, EntryDoc{Key: column, Value: ValueOf(v)})
		}

		cd.Rows = append(cd.Rows, rd)
	}

	return &Document{Kind: KindCategory, Category: cd}
}

// CategoryDataset rebuilds a category dataset.
func (d *Document) CategoryDataset() (*category.Dataset[string, string], error) {
	if err := d.expect(KindCategory); err != nil {
		return nil, err
	}

	if d.Category == nil {
		return category.New[string, string](), nil
	}

	t := keyed.NewTable[string, string]()
	if d.Category.SortedRows {
		t = keyed.NewSortedTable[string, string]()
	}

	for _, column := range d.Category.Columns {
		t.AddColumn(column)
	}

	for _, row := range d.Category.Rows {
		if t.RowIndex(row.Key) >= 0 {
			return nil, fmt.Errorf("%w: duplicate row %q", ErrSchemaViolation, row.Key)
		}

		t.AddRow(row.Key)

		for _, cell := range row.Cells {
			if t.ColumnIndex(cell.Key) < 0 {
				return nil, fmt.Errorf("%w: row %q uses undeclared column %q", ErrSchemaViolation, row.Key, cell.Key)
			}

			t.Set(cell.Value.Number(), row.Key, cell.Key)
		}
	}

	return category.FromTable(t), nil
}

// PieDocument captures a pie dataset with string keys.
func PieDocument(p *pie.Dataset[string]) *Document {
	doc := &Document{Kind: KindPie, Pie: make([]EntryDoc, 0, p.ItemCount())}

	for key, v := range p.All() {
		doc.Pie = append(doc.Pie, EntryDoc{Key: key, Value: ValueOf(v)})
	}

	return doc
}

// PieDataset rebuilds a pie dataset.
func (d *Document) PieDataset() (*pie.Dataset[string], error) {
	if err := d.expect(KindPie); err != nil {
		return nil, err
	}

	p := pie.New[string]()

	for _, entry := range d.Pie {
		if p.Index(entry.Key) >= 0 {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrSchemaViolation, entry.Key)
		}

		p.Set(entry.Key, entry.Value.Number())
	}

	return p, nil
}

// GroupDocument captures a key to group mapping with string keys and groups.
func GroupDocument(m *group.Map[string, string]) *Document {
	groups := m.Groups()[1:]
	gd := &GroupDoc{Default: m.DefaultGroup(), Groups: groups, Mappings: make([]MappingDoc, 0)}

	// Explicit default mappings rank after every group in use.
	rank := func(g string) int {
		if i := slices.Index(groups, g); i >= 0 {
			return i
		}

		return len(groups)
	}

	for key, g := range m.Mappings() {
		gd.Mappings = append(gd.Mappings, MappingDoc{Key: key, Group: g})
	}

	slices.SortFunc(gd.Mappings, func(a, b MappingDoc) int {
		return cmp.Or(cmp.Compare(rank(a.Group), rank(b.Group)), cmp.Compare(a.Key, b.Key))
	})

	return &Document{Kind: KindGroup, Group: gd}
}

// GroupMap rebuilds a key to group mapping. Mappings are replayed group by
// group in the stored order, which reproduces the group indices exactly.
func (d *Document) GroupMap() (*group.Map[string, string], error) {
	if err := d.expect(KindGroup); err != nil {
		return nil, err
	}

	if d.Group == nil {
		return nil, fmt.Errorf("%w: missing group section", ErrSchemaViolation)
	}

	gd := d.Group

	m, err := group.New[string, string](gd.Default)
	if err != nil {
		return nil, err
	}

	members := make(map[string][]string, len(gd.Groups)+1)
	seen := make(map[string]bool, len(gd.Mappings))

	for _, mapping := range gd.Mappings {
		if seen[mapping.Key] {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrSchemaViolation, mapping.Key)
		}

		seen[mapping.Key] = true
		members[mapping.Group] = append(members[mapping.Group], mapping.Key)
	}

	for i, g := range gd.Groups {
		switch {
		case g == gd.Default:
			return nil, fmt.Errorf("%w: default group %q listed as a group in use", ErrSchemaViolation, g)
		case slices.Contains(gd.Groups[:i], g):
			return nil, fmt.Errorf("%w: duplicate group %q", ErrSchemaViolation, g)
		case len(members[g]) == 0:
			return nil, fmt.Errorf("%w: group %q has no keys", ErrSchemaViolation, g)
		}
	}

	for g := range members {
		if g != gd.Default && !slices.Contains(gd.Groups, g) {
			return nil, fmt.Errorf("%w: key %q maps to unlisted group %q", ErrSchemaViolation, members[g][0], g)
		}
	}

	for _, g := range append(slices.Clone(gd.Groups), gd.Default) {
		for _, key := range members[g] {
			if err := m.MapKeyToGroup(key, g); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: time zone %q: %w", ErrSchemaViolation, name, err)
	}

	return loc, nil
}

package persist

import (
	"errors"
	"fmt"
)

// ErrUnknownDocumentKind reports a document kind this package cannot read.
var ErrUnknownDocumentKind = errors.New("unknown document kind")

// ErrSchemaViolation reports a document that is structurally invalid.
var ErrSchemaViolation = errors.New("document violates schema")

// Kind names the dataset a document holds.
type Kind string

// Document kinds.
const (
	KindTimeSeries Kind = "timeseries"
	KindXY         Kind = "xy"
	KindXYTable    Kind = "xy_table"
	KindCategory   Kind = "category"
	KindPie        Kind = "pie"
	KindGroup      Kind = "group"
)

// Kinds lists every readable kind.
func Kinds() []Kind {
	return []Kind{KindTimeSeries, KindXY, KindXYTable, KindCategory, KindPie, KindGroup}
}

// ParseKind checks a kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownDocumentKind, s)
}

// Document is the structural, codec-neutral form of one dataset. Only the
// sections matching Kind are populated. Cached aggregates are not stored;
// they are recomputed when a dataset is rebuilt.
type Document struct {
	Kind Kind `json:"kind" yaml:"kind"`

	// Time series collections.
	TimeZone   string          `json:"time_zone,omitempty"   yaml:"time_zone,omitempty"`
	Anchor     string          `json:"anchor,omitempty"      yaml:"anchor,omitempty"`
	TimeSeries []TimeSeriesDoc `json:"time_series,omitempty" yaml:"time_series,omitempty"`

	// XY collections and table datasets.
	AutoPrune bool          `json:"auto_prune,omitempty" yaml:"auto_prune,omitempty"`
	Interval  *IntervalDoc  `json:"interval,omitempty"   yaml:"interval,omitempty"`
	XYSeries  []XYSeriesDoc `json:"xy_series,omitempty"  yaml:"xy_series,omitempty"`

	Category *CategoryDoc `json:"category,omitempty" yaml:"category,omitempty"`
	Pie      []EntryDoc   `json:"pie,omitempty"      yaml:"pie,omitempty"`
	Group    *GroupDoc    `json:"group,omitempty"    yaml:"group,omitempty"`
}

// TimeSeriesDoc stores one time series.
type TimeSeriesDoc struct {
	Key               string        `json:"key"                          yaml:"key"`
	Description       string        `json:"description,omitempty"        yaml:"description,omitempty"`
	DomainDescription string        `json:"domain_description,omitempty" yaml:"domain_description,omitempty"`
	RangeDescription  string        `json:"range_description,omitempty"  yaml:"range_description,omitempty"`
	PeriodKind        string        `json:"period_kind"                  yaml:"period_kind"`
	TimeZone          string        `json:"time_zone,omitempty"          yaml:"time_zone,omitempty"`
	MaxItemCount      *int          `json:"max_item_count,omitempty"     yaml:"max_item_count,omitempty"`
	MaxItemAge        *int64        `json:"max_item_age,omitempty"       yaml:"max_item_age,omitempty"`
	Items             []TimeItemDoc `json:"items"                        yaml:"items"`
}

// TimeItemDoc stores one (period, value) item. Period uses the period's
// string form for the series kind.
type TimeItemDoc struct {
	Period string `json:"period" yaml:"period"`
	Value  Value  `json:"value"  yaml:"value"`
}

// XYSeriesDoc stores one XY series.
type XYSeriesDoc struct {
	Key             string      `json:"key"                      yaml:"key"`
	Description     string      `json:"description,omitempty"    yaml:"description,omitempty"`
	AutoSort        bool        `json:"auto_sort"                yaml:"auto_sort"`
	AllowDuplicateX bool        `json:"allow_duplicate_x"        yaml:"allow_duplicate_x"`
	MaxItemCount    *int        `json:"max_item_count,omitempty" yaml:"max_item_count,omitempty"`
	Items           []XYItemDoc `json:"items"                    yaml:"items"`
}

// XYItemDoc stores one (x, y) item.
type XYItemDoc struct {
	X Value `json:"x" yaml:"x"`
	Y Value `json:"y" yaml:"y"`
}

// IntervalDoc stores interval settings of an XY dataset.
type IntervalDoc struct {
	AutoWidth      bool    `json:"auto_width"      yaml:"auto_width"`
	PositionFactor float64 `json:"position_factor" yaml:"position_factor"`
	FixedWidth     float64 `json:"fixed_width"     yaml:"fixed_width"`
}

// CategoryDoc stores a category table. Columns keeps the table's column
// order, including columns no row holds a value for; each row lists only
// the cells it holds, so a missing cell stays distinct from a null one.
type CategoryDoc struct {
	SortedRows bool     `json:"sorted_rows,omitempty" yaml:"sorted_rows,omitempty"`
	Columns    []string `json:"columns"               yaml:"columns"`
	Rows       []RowDoc `json:"rows"                  yaml:"rows"`
}

// RowDoc stores one category row.
type RowDoc struct {
	Key   string     `json:"key"   yaml:"key"`
	Cells []EntryDoc `json:"cells" yaml:"cells"`
}

// EntryDoc stores one keyed value.
type EntryDoc struct {
	Key   string `json:"key"   yaml:"key"`
	Value Value  `json:"value" yaml:"value"`
}

// GroupDoc stores a key to group mapping. Groups lists the groups in use in
// their index order, the default group excluded; mappings are listed group
// by group in that order, explicit default mappings last.
type GroupDoc struct {
	Default  string       `json:"default"  yaml:"default"`
	Groups   []string     `json:"groups"   yaml:"groups"`
	Mappings []MappingDoc `json:"mappings" yaml:"mappings"`
}

// MappingDoc stores one explicit key mapping.
type MappingDoc struct {
	Key   string `json:"key"   yaml:"key"`
	Group string `json:"group" yaml:"group"`
}

func (d *Document) expect(kind Kind) error {
	if d.Kind != kind {
		return fmt.Errorf("%w: document holds %q, want %q", ErrSchemaViolation, d.Kind, kind)
	}

	return nil
}

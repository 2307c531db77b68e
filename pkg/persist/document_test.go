package persist_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chartdata/pkg/category"
	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
	"github.com/Sumatoshi-tech/chartdata/pkg/group"
	"github.com/Sumatoshi-tech/chartdata/pkg/period"
	"github.com/Sumatoshi-tech/chartdata/pkg/persist"
	"github.com/Sumatoshi-tech/chartdata/pkg/pie"
	"github.com/Sumatoshi-tech/chartdata/pkg/timeseries"
	"github.com/Sumatoshi-tech/chartdata/pkg/xy"
)

var fileNames = []string{
	"doc.json",
	"doc.yaml",
	"doc.yml",
	"doc.gob",
	"doc.json.lz4",
	"doc.yaml.lz4",
	"doc.gob.lz4",
	"DOC.JSON",
}

// roundTrip saves doc under every supported file name and yields each
// loaded copy.
func roundTrip(t *testing.T, doc *persist.Document, check func(t *testing.T, loaded *persist.Document)) {
	t.Helper()

	for _, name := range fileNames {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), name)

			require.NoError(t, persist.SaveDocument(path, doc))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := persist.LoadDocument(path)
			require.NoError(t, err)

			check(t, loaded)
		})
	}
}

func timeSeriesFixture(t *testing.T) *timeseries.Collection {
	t.Helper()

	s := timeseries.New("load", timeseries.WithDescription("grid load"))
	s.SetRangeDescription("MW")
	require.NoError(t, s.SetMaximumItemCount(10))
	require.NoError(t, s.SetMaximumItemAge(30))

	values := []dataset.Number{dataset.Num(4), dataset.Null, dataset.Num(math.NaN()), dataset.Num(-2)}
	for i, v := range values {
		p, err := period.NewDay(2024, time.March, i+1)
		require.NoError(t, err)
		require.NoError(t, s.Add(p, v))
	}

	c := timeseries.NewCollection(nil)
	c.SetXPosition(period.Middle)
	require.NoError(t, c.AddSeries(s))
	require.NoError(t, c.AddSeries(timeseries.New("empty")))

	return c
}

func TestTimeSeriesDocument_RoundTrip(t *testing.T) {
	t.Parallel()

	original := timeSeriesFixture(t)
	doc := persist.TimeSeriesDocument(original)

	require.NoError(t, persist.Validate(doc))
	assert.Equal(t, "Day", doc.TimeSeries[0].PeriodKind)
	assert.Empty(t, doc.TimeSeries[1].PeriodKind)

	roundTrip(t, doc, func(t *testing.T, loaded *persist.Document) {
		t.Helper()

		restored, err := loaded.TimeSeriesCollection()
		require.NoError(t, err)

		assert.Equal(t, period.Middle, restored.XPosition())
		assert.Equal(t, time.UTC, restored.Location())
		require.Equal(t, []string{"load", "empty"}, restored.SeriesKeys())

		for i := range original.SeriesCount() {
			want, _ := original.Series(i)
			got, _ := restored.Series(i)

			assert.True(t, want.Equal(got), "series %s", want.Key())
		}

		load, err := restored.SeriesByKey("load")
		require.NoError(t, err)
		assert.InDelta(t, -2.0, load.MinY(), 0)
		assert.InDelta(t, 4.0, load.MaxY(), 0)
	})
}

func TestXYCollectionDocument_RoundTrip(t *testing.T) {
	t.Parallel()

	sorted := xy.NewSeries("sorted")
	require.NoError(t, sorted.Add(1, dataset.Num(2)))
	require.NoError(t, sorted.Add(3, dataset.Null))
	require.NoError(t, sorted.Add(2, dataset.Num(math.Inf(1))))
	require.NoError(t, sorted.Add(2, dataset.Num(7)))

	raw := xy.NewSeries("raw", xy.WithAutoSort(false), xy.WithDuplicateX(false))
	raw.SetDescription("insertion order")
	require.NoError(t, raw.SetMaximumItemCount(5))
	require.NoError(t, raw.Add(5, dataset.Num(1)))
	require.NoError(t, raw.Add(4, dataset.Num(2)))

	original := xy.NewCollection()
	require.NoError(t, original.AddSeries(sorted))
	require.NoError(t, original.AddSeries(raw))
	require.NoError(t, original.Interval().SetPositionFactor(0.25))
	require.NoError(t, original.Interval().SetFixedWidth(3))

	roundTrip(t, persist.XYCollectionDocument(original), func(t *testing.T, loaded *persist.Document) {
		t.Helper()

		restored, err := loaded.XYCollection()
		require.NoError(t, err)
		require.Equal(t, 2, restored.SeriesCount())

		for i := range original.SeriesCount() {
			want, _ := original.Series(i)
			got, _ := restored.Series(i)

			assert.True(t, want.Equal(got), "series %s", want.Key())
		}

		assert.False(t, restored.Interval().AutoWidth())
		assert.InDelta(t, 0.25, restored.Interval().PositionFactor(), 0)
		assert.InDelta(t, 3.0, restored.Interval().Width(), 0)
	})
}

func TestTableDocument_RoundTrip(t *testing.T) {
	t.Parallel()

	a := xy.NewSeries("a", xy.WithDuplicateX(false))
	require.NoError(t, a.Add(1, dataset.Num(1)))
	require.NoError(t, a.Add(2, dataset.Num(2)))

	b := xy.NewSeries("b", xy.WithDuplicateX(false))
	require.NoError(t, b.Add(2, dataset.Num(5)))
	require.NoError(t, b.Add(3, dataset.Num(6)))

	original := xy.NewTableDataset(true)
	require.NoError(t, original.AddSeries(a))
	require.NoError(t, original.AddSeries(b))

	roundTrip(t, persist.TableDocument(original), func(t *testing.T, loaded *persist.Document) {
		t.Helper()

		restored, err := loaded.Table()
		require.NoError(t, err)

		assert.True(t, restored.AutoPrune())
		assert.Equal(t, []float64{1, 2, 3}, restored.XPoints())

		for i := range original.SeriesCount() {
			want, _ := original.Series(i)
			got, _ := restored.Series(i)

			assert.True(t, want.Equal(got), "series %s", want.Key())
		}
	})
}

func TestCategoryDocument_RoundTrip(t *testing.T) {
	t.Parallel()

	original := category.NewSorted[string, string]()
	original.Set(dataset.Num(1), "r2", "c1")
	original.Set(dataset.Null, "r2", "c2")
	original.Set(dataset.Num(3), "r1", "c1")
	original.Set(dataset.Num(5), "r3", "c3")
	require.NoError(t, original.RemoveColumn("c3"))

	require.Equal(t, []string{"r1", "r2", "r3"}, original.RowKeys())

	roundTrip(t, persist.CategoryDocument(original), func(t *testing.T, loaded *persist.Document) {
		t.Helper()

		restored, err := loaded.CategoryDataset()
		require.NoError(t, err)

		assert.True(t, original.Equal(restored))
		assert.Equal(t, []string{"c1", "c2"}, restored.ColumnKeys())

		v, err := restored.Value("r2", "c2")
		require.NoError(t, err)
		assert.False(t, v.Valid)
	})
}

func TestPieDocument_RoundTrip(t *testing.T) {
	t.Parallel()

	original := pie.New[string]()
	original.Set("b", dataset.Num(2))
	original.Set("a", dataset.Null)
	original.Set("c", dataset.Num(math.NaN()))

	roundTrip(t, persist.PieDocument(original), func(t *testing.T, loaded *persist.Document) {
		t.Helper()

		restored, err := loaded.PieDataset()
		require.NoError(t, err)

		assert.True(t, original.Equal(restored))
		assert.Equal(t, []string{"b", "a", "c"}, restored.Keys())
	})
}

func TestGroupDocument_RoundTrip(t *testing.T) {
	t.Parallel()

	original, err := group.New[string, string]("Other")
	require.NoError(t, err)

	require.NoError(t, original.MapKeyToGroup("apples", "Fruit"))
	require.NoError(t, original.MapKeyToGroup("kale", "Greens"))
	require.NoError(t, original.MapKeyToGroup("carrots", "Roots"))
	require.NoError(t, original.MapKeyToGroup("stones", "Other"))

	// Fruit leaves the order with its last key and rejoins at the end.
	original.UnmapKey("apples")
	require.NoError(t, original.MapKeyToGroup("pears", "Fruit"))
	require.NoError(t, original.MapKeyToGroup("plums", "Fruit"))
	require.Equal(t, []string{"Other", "Greens", "Roots", "Fruit"}, original.Groups())

	doc := persist.GroupDocument(original)
	require.NoError(t, persist.Validate(doc))
	assert.Equal(t, []string{"Greens", "Roots", "Fruit"}, doc.Group.Groups)
	assert.Equal(t, []persist.MappingDoc{
		{Key: "kale", Group: "Greens"},
		{Key: "carrots", Group: "Roots"},
		{Key: "pears", Group: "Fruit"},
		{Key: "plums", Group: "Fruit"},
		{Key: "stones", Group: "Other"},
	}, doc.Group.Mappings)

	roundTrip(t, doc, func(t *testing.T, loaded *persist.Document) {
		t.Helper()

		restored, restoreErr := loaded.GroupMap()
		require.NoError(t, restoreErr)

		assert.True(t, original.Equal(restored))
		assert.Equal(t, original.Groups(), restored.Groups())
		assert.Equal(t, 3, restored.GroupIndex("Fruit"))
		assert.Equal(t, "Other", restored.Group("apples"))
		assert.Equal(t, 1, restored.KeyCount("Other"))
	})
}

func TestGroupDocument_EmptyMap(t *testing.T) {
	t.Parallel()

	original, err := group.New[string, string]("Default")
	require.NoError(t, err)

	doc := persist.GroupDocument(original)
	require.NoError(t, persist.Validate(doc))

	roundTrip(t, doc, func(t *testing.T, loaded *persist.Document) {
		t.Helper()

		restored, restoreErr := loaded.GroupMap()
		require.NoError(t, restoreErr)

		assert.Equal(t, []string{"Default"}, restored.Groups())
	})
}

func TestGroupMap_RejectsBrokenContent(t *testing.T) {
	t.Parallel()

	tests := map[string]*persist.GroupDoc{
		"default listed": {
			Default: "D", Groups: []string{"D"}, Mappings: []persist.MappingDoc{{Key: "k", Group: "D"}},
		},
		"duplicate group": {
			Default: "D", Groups: []string{"G", "G"}, Mappings: []persist.MappingDoc{{Key: "k", Group: "G"}},
		},
		"group without keys": {
			Default: "D", Groups: []string{"G"},
		},
		"unlisted group": {
			Default: "D", Mappings: []persist.MappingDoc{{Key: "k", Group: "G"}},
		},
		"duplicate key": {
			Default: "D", Groups: []string{"G"},
			Mappings: []persist.MappingDoc{{Key: "k", Group: "G"}, {Key: "k", Group: "D"}},
		},
	}

	for name, gd := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc := &persist.Document{Kind: persist.KindGroup, Group: gd}

			_, err := doc.GroupMap()
			require.ErrorIs(t, err, persist.ErrSchemaViolation)
		})
	}

	_, err := (&persist.Document{Kind: persist.KindGroup}).GroupMap()
	require.ErrorIs(t, err, persist.ErrSchemaViolation)
}

func TestGroupDocument_SchemaRejectsMixedSections(t *testing.T) {
	t.Parallel()

	violations, err := persist.ValidateJSON([]byte(`{"kind": "group"}`))
	require.NoError(t, err)
	assert.NotEmpty(t, violations)

	violations, err = persist.ValidateJSON([]byte(
		`{"kind": "group", "group": {"default": "D", "groups": [], "mappings": []}, "pie": []}`))
	require.NoError(t, err)
	assert.NotEmpty(t, violations)

	violations, err = persist.ValidateJSON([]byte(
		`{"kind": "pie", "pie": [], "group": {"default": "D", "groups": [], "mappings": []}}`))
	require.NoError(t, err)
	assert.NotEmpty(t, violations)

	violations, err = persist.ValidateJSON([]byte(
		`{"kind": "group", "group": {"default": "D", "groups": ["G"], "mappings": [{"key": "k", "group": "G"}]}}`))
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestDocument_KindMismatch(t *testing.T) {
	t.Parallel()

	doc := persist.PieDocument(pie.New[string]())

	_, err := doc.TimeSeriesCollection()
	require.ErrorIs(t, err, persist.ErrSchemaViolation)

	_, err = doc.Table()
	require.ErrorIs(t, err, persist.ErrSchemaViolation)

	_, err = doc.GroupMap()
	require.ErrorIs(t, err, persist.ErrSchemaViolation)
}

func TestDocument_RestoreRejectsBrokenContent(t *testing.T) {
	t.Parallel()

	tests := map[string]*persist.Document{
		"items without kind": {
			Kind:       persist.KindTimeSeries,
			TimeSeries: []persist.TimeSeriesDoc{{Key: "s", Items: []persist.TimeItemDoc{{Period: "2024-01-01"}}}},
		},
		"unparsable period": {
			Kind: persist.KindTimeSeries,
			TimeSeries: []persist.TimeSeriesDoc{{
				Key: "s", PeriodKind: "Month", Items: []persist.TimeItemDoc{{Period: "2024-01-01"}},
			}},
		},
		"duplicate period": {
			Kind: persist.KindTimeSeries,
			TimeSeries: []persist.TimeSeriesDoc{{
				Key: "s", PeriodKind: "Year", Items: []persist.TimeItemDoc{{Period: "2024"}, {Period: "2024"}},
			}},
		},
		"unknown zone": {
			Kind:     persist.KindTimeSeries,
			TimeZone: "Nowhere/Special",
		},
		"null x": {
			Kind:     persist.KindXY,
			XYSeries: []persist.XYSeriesDoc{{Key: "s", AutoSort: true, Items: []persist.XYItemDoc{{}}}},
		},
		"duplicate series": {
			Kind:     persist.KindXY,
			XYSeries: []persist.XYSeriesDoc{{Key: "s"}, {Key: "s"}},
		},
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var err error

			if doc.Kind == persist.KindTimeSeries {
				_, err = doc.TimeSeriesCollection()
			} else {
				_, err = doc.XYCollection()
			}

			require.ErrorIs(t, err, persist.ErrSchemaViolation)
		})
	}
}

func TestCategoryDataset_UndeclaredColumn(t *testing.T) {
	t.Parallel()

	doc := &persist.Document{
		Kind: persist.KindCategory,
		Category: &persist.CategoryDoc{
			Rows: []persist.RowDoc{{Key: "r", Cells: []persist.EntryDoc{{Key: "c"}}}},
		},
	}

	_, err := doc.CategoryDataset()
	require.ErrorIs(t, err, persist.ErrSchemaViolation)
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, kind := range persist.Kinds() {
		parsed, err := persist.ParseKind(string(kind))
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := persist.ParseKind("scatter")
	require.ErrorIs(t, err, persist.ErrUnknownDocumentKind)
}

package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/chartdata/pkg/category"
	"github.com/Sumatoshi-tech/chartdata/pkg/config"
	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
	"github.com/Sumatoshi-tech/chartdata/pkg/group"
	"github.com/Sumatoshi-tech/chartdata/pkg/observability"
	"github.com/Sumatoshi-tech/chartdata/pkg/period"
	"github.com/Sumatoshi-tech/chartdata/pkg/persist"
	"github.com/Sumatoshi-tech/chartdata/pkg/pie"
	"github.com/Sumatoshi-tech/chartdata/pkg/timeseries"
)

const quietConfig = "logging:\n  level: error\n"

// runCommand executes the root command with a quiet config and returns
// what it printed to stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "chartdata.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(quietConfig), 0o600))

	var stdout, stderr bytes.Buffer

	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := root.ExecuteContext(context.Background())

	return stdout.String(), err
}

func testRuntime() *runtime {
	return &runtime{
		cfg: config.Default(),
		providers: observability.Providers{
			Tracer:   nooptrace.NewTracerProvider().Tracer("test"),
			Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
			Shutdown: func(context.Context) error { return nil },
		},
	}
}

func month(t *testing.T, year int, m time.Month) period.Period {
	t.Helper()

	p, err := period.NewMonth(year, m)
	require.NoError(t, err)

	return p
}

// salesDocument holds one monthly series with two values.
func salesDocument(t *testing.T) *persist.Document {
	t.Helper()

	s := timeseries.New("sales")
	require.NoError(t, s.Add(month(t, 2024, time.January), dataset.Num(10)))
	require.NoError(t, s.Add(month(t, 2024, time.February), dataset.Num(12.5)))

	c := timeseries.NewCollection(time.UTC)
	require.NoError(t, c.AddSeries(s))

	return persist.TimeSeriesDocument(c)
}

func sharesDocument() *persist.Document {
	p := pie.New[string]()
	p.Set("go", dataset.Num(60))
	p.Set("rust", dataset.Num(30))
	p.Set("other", dataset.Null)

	return persist.PieDocument(p)
}

func regionsDocument() *persist.Document {
	c := category.New[string, string]()
	c.Set(dataset.Num(1), "north", "q1")
	c.Set(dataset.Num(4), "north", "q2")
	c.Set(dataset.Num(2), "south", "q1")

	return persist.CategoryDocument(c)
}

// teamsDocument maps three services onto two teams; billing is left on the
// default team.
func teamsDocument(t *testing.T) *persist.Document {
	t.Helper()

	m, err := group.New[string, string]("unowned")
	require.NoError(t, err)
	require.NoError(t, m.MapKeyToGroup("api", "core"))
	require.NoError(t, m.MapKeyToGroup("web", "frontend"))
	require.NoError(t, m.MapKeyToGroup("auth", "core"))

	return persist.GroupDocument(m)
}

func saveDocument(t *testing.T, dir, name string, doc *persist.Document) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, persist.SaveDocument(path, doc))

	return path
}

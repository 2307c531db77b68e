package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chartdata/pkg/config"
	"github.com/Sumatoshi-tech/chartdata/pkg/period"
)

func TestValidate_Default(t *testing.T) {
	t.Parallel()

	require.NoError(t, config.Default().Validate())
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"negative count", func(c *config.Config) { c.Series.MaxItemCount = -1 }, config.ErrInvalidMaxItemCount},
		{"negative age", func(c *config.Config) { c.Series.MaxItemAge = -1 }, config.ErrInvalidMaxItemAge},
		{"bad zone", func(c *config.Config) { c.Series.TimeZone = "Mars/Olympus" }, config.ErrInvalidTimeZone},
		{"bad anchor", func(c *config.Config) { c.Series.Anchor = "sideways" }, config.ErrInvalidAnchor},
		{"negative width", func(c *config.Config) { c.Table.IntervalWidth = -1 }, config.ErrInvalidIntervalWidth},
		{"position above one", func(c *config.Config) { c.Table.IntervalPosition = 1.5 }, config.ErrInvalidIntervalPosition},
		{"bad theme", func(c *config.Config) { c.Render.Theme = "neon" }, config.ErrInvalidTheme},
		{"bad format", func(c *config.Config) { c.Render.Format = "svg" }, config.ErrInvalidFormat},
		{"zero height", func(c *config.Config) { c.Render.Height = 0 }, config.ErrInvalidSize},
		{"bad level", func(c *config.Config) { c.Logging.Level = "loud" }, config.ErrInvalidLogLevel},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, config.ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tt.mutate(cfg)

			require.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestLocation(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Series.TimeZone = ""

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	cfg.Series.TimeZone = "UTC"

	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestAnchorAndLogLevel(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Series.Anchor = "End"
	cfg.Logging.Level = "warn"

	anchor, err := cfg.Anchor()
	require.NoError(t, err)
	assert.Equal(t, period.End, anchor)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}

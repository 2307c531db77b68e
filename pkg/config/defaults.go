// Package config loads and validates chartdata settings from defaults, an
// optional YAML file and CHARTDATA_ environment variables.
package config

// Series defaults. Zero limits mean unlimited.
const (
	DefaultSeriesMaxItemCount = 0
	DefaultSeriesMaxItemAge   = 0
	DefaultSeriesTimeZone     = "UTC"
	DefaultSeriesAnchor       = "start"
)

// Table defaults.
const (
	DefaultTableAutoPrune        = false
	DefaultTableIntervalWidth    = 0.0
	DefaultTableIntervalPosition = 0.5
)

// Render defaults.
const (
	DefaultRenderTheme  = "light"
	DefaultRenderWidth  = 960
	DefaultRenderHeight = 500
	DefaultRenderFormat = "html"
)

// Logging defaults.
const (
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"
)

// Observability defaults. An empty OTLP endpoint disables export.
const (
	DefaultOTLPEndpoint = ""
	DefaultOTLPInsecure = false
	DefaultEnvironment  = "development"
	DefaultMetricsAddr  = ":9464"
)

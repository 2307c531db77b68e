package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chartdata/pkg/chartexport"
)

const pngSignature = "\x89PNG\r\n\x1a\n"

func TestRenderCommand_WritesOneFilePerDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sales := saveDocument(t, dir, "sales.json", salesDocument(t))
	shares := saveDocument(t, dir, "shares.yaml.lz4", sharesDocument())
	outDir := filepath.Join(t.TempDir(), "out")

	_, err := runCommand(t, "render", "-o", outDir, "--format", "html", sales, shares)
	require.NoError(t, err)

	for _, name := range []string{"sales.html", "shares.html"} {
		data, readErr := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, readErr)
		assert.Contains(t, string(data), "echarts")
	}
}

func TestRenderCommand_PNG(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sales := saveDocument(t, dir, "sales.gob", salesDocument(t))

	_, err := runCommand(t, "render", "-o", dir, "--format", "png", "--width", "320", "--height", "200", sales)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "sales.png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), pngSignature))
}

func TestRenderCommand_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	shares := saveDocument(t, dir, "shares.json", sharesDocument())

	_, err := runCommand(t, "render", "-o", "", shares)
	require.ErrorIs(t, err, ErrNoOutputDir)

	_, err = runCommand(t, "render", "-o", dir, "--format", "png", shares)
	require.ErrorIs(t, err, chartexport.ErrUnsupportedFormat)

	_, err = runCommand(t, "render", "-o", dir, "--format", "svg", shares)
	require.ErrorIs(t, err, chartexport.ErrUnsupportedFormat)

	_, err = runCommand(t, "render", "-o", dir, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestInspectCommand_PrintsSeriesTable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sales := saveDocument(t, dir, "sales.yaml", salesDocument(t))
	regions := saveDocument(t, dir, "regions.json", regionsDocument())

	out, err := runCommand(t, "inspect", sales, regions)
	require.NoError(t, err)

	assert.Contains(t, out, sales+": timeseries")
	assert.Contains(t, out, "sales")
	assert.Contains(t, out, "Month")
	assert.Contains(t, out, "12.5")

	assert.Contains(t, out, regions+": category")
	assert.Contains(t, out, "north")
	assert.Contains(t, strings.ToLower(out), "2 series")
	assert.Contains(t, strings.ToLower(out), "median")
}

func TestValidateCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	valid := saveDocument(t, dir, "sales.json", salesDocument(t))
	validYAML := saveDocument(t, dir, "shares.yml", sharesDocument())

	out, err := runCommand(t, "validate", valid, validYAML)
	require.NoError(t, err)
	assert.Contains(t, out, valid+": valid timeseries document")
	assert.Contains(t, out, validYAML+": valid pie document")

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"kind":"pie","anchor":"sideways"}`), 0o600))

	out, err = runCommand(t, "validate", valid, broken)
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, out, "schema violations")
	assert.Contains(t, err.Error(), "1 of 2")
}

func TestValidateCommand_UnknownExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	out, err := runCommand(t, "validate", path)
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, out, "unknown file extension")
}

func TestDiffCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	asJSON := saveDocument(t, dir, "a.json", sharesDocument())
	asYAML := saveDocument(t, dir, "b.yaml", sharesDocument())

	out, err := runCommand(t, "diff", asJSON, asYAML)
	require.NoError(t, err)
	assert.Contains(t, out, "are identical")

	other := saveDocument(t, dir, "c.json", regionsDocument())

	out, err = runCommand(t, "diff", asJSON, other)
	require.NoError(t, err)
	assert.Contains(t, out, "-kind: pie")
	assert.Contains(t, out, "+kind: category")

	_, err = runCommand(t, "diff", "--exit-code", asJSON, other)
	require.ErrorIs(t, err, ErrDocumentsDiffer)
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "chartdata "))
}

func TestDocumentName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "sales", documentName("data/sales.json.lz4"))
	assert.Equal(t, "sales", documentName("sales"))
	assert.Equal(t, ".hidden", documentName(".hidden"))
}

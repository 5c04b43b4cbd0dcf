package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfinding/internal/converter/dxftest"
	"wayfinding/internal/converter/mapper"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConvertAndRender(t *testing.T) {
	src := dxftest.New().
		Line("A", 0, 0, 1, 1).
		LWPolyline("PISO", true, [2]float64{0, 0}, [2]float64{1, 0}, [2]float64{1, 1}).
		WriteFile(t, "plan.dxf")
	dir := t.TempDir()
	out := filepath.Join(dir, "map.geojson")

	stdout, err := execute(t, "convert", src, out, "--scale", "15", "--floor-layer", "PISO")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Saved "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, orb.LineString{{0, 0}, {15, 15}}, fc.Features[0].Geometry)
	assert.Equal(t, "nav_area", fc.Features[1].Properties.MustString("type"))

	svg := filepath.Join(dir, "map.svg")
	stdout, err = execute(t, "render", out, svg)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Rendered")
	rendered, err := os.ReadFile(svg)
	require.NoError(t, err)
	assert.Contains(t, string(rendered), "<svg")
}

func TestConvert_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "convert", filepath.Join(dir, "missing.dxf"), filepath.Join(dir, "out.geojson"), "--scale", "20")
	assert.ErrorIs(t, err, mapper.ErrSourceNotFound)

	src := dxftest.New().Line("A", 0, 0, 1, 1).WriteFile(t, "plan.dxf")
	_, err = execute(t, "convert", src, filepath.Join(dir, "out.geojson"), "--scale=-1")
	assert.ErrorContains(t, err, "scale must be a positive")

	_, err = execute(t, "convert", src, filepath.Join(dir, "out.geojson"), "--scale=NaN")
	assert.ErrorContains(t, err, "scale must be a positive")

	_, err = execute(t, "convert", src, filepath.Join(dir, "out.geojson"), "--scale=20", "--simplify=+Inf")
	assert.ErrorContains(t, err, "simplify must be a non-negative")

	_, err = execute(t, "convert", src)
	assert.Error(t, err)
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.dxf"), dxftest.New().Line("A", 0, 0, 1, 0).Bytes(), 0o644))
	manifestPath := filepath.Join(dir, "floors.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`scale: 10
floors:
  - name: andar1
    source: a.dxf
    output: andar1.geojson
  - name: andar2
    source: missing.dxf
    output: andar2.geojson
`), 0o644))

	stdout, err := execute(t, "batch", "--manifest", manifestPath)

	assert.ErrorContains(t, err, "1 of 2 floors failed")
	assert.Contains(t, stdout, "✓ andar1")
	assert.Contains(t, stdout, "✗ andar2")
	assert.FileExists(t, filepath.Join(dir, "andar1.geojson"))
}

func TestVersion(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dxf2geojson dev\n", stdout)
}

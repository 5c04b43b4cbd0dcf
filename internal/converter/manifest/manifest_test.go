package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfinding/internal/converter/dxftest"
	"wayfinding/internal/converter/mapper"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "floors.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
scale: 20
floor_layers: [PISO]
floors:
  - name: andar6
    source: plans/hc6.dxf
    output: maps/andar6.geojson
    scale: 15
  - name: terreo
    source: plans/terreo.dxf
    output: maps/terreo.geojson
    floor_layers: [CHAO, PISO_T]
`)

	m, err := Load(path)
	require.NoError(t, err)
	require.Len(t, m.Floors, 2)

	opts := m.Options(m.Floors[0])
	assert.Equal(t, 15.0, opts.Scale)
	assert.True(t, opts.FloorLayers.Has("PISO"))

	opts = m.Options(m.Floors[1])
	assert.Equal(t, 20.0, opts.Scale)
	assert.False(t, opts.FloorLayers.Has("PISO"))
	assert.True(t, opts.FloorLayers.Has("CHAO"))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "no floors", body: "scale: 20\n", want: "no floors"},
		{name: "missing name", body: "floors:\n  - source: a.dxf\n    output: a.geojson\n", want: "has no name"},
		{name: "duplicate", body: "floors:\n  - {name: a, source: a.dxf, output: a.geojson}\n  - {name: a, source: b.dxf, output: b.geojson}\n", want: "duplicate"},
		{name: "missing output", body: "floors:\n  - {name: a, source: a.dxf}\n", want: "needs source and output"},
		{name: "negative scale", body: "floors:\n  - {name: a, source: a.dxf, output: a.geojson, scale: -1}\n", want: "negative scale"},
		{name: "bad yaml", body: "floors: [", want: "parse manifest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeManifest(t, t.TempDir(), tt.body))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "plans"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plans", "hc6.dxf"), dxftest.New().Line("A", 0, 0, 1, 1).Bytes(), 0o644))

	path := writeManifest(t, dir, `
floors:
  - {name: andar6, source: plans/hc6.dxf, output: andar6.geojson, scale: 15}
  - {name: andar7, source: plans/hc7.dxf, output: andar7.geojson}
`)
	m, err := Load(path)
	require.NoError(t, err)

	results := m.Run()
	require.Len(t, results, 2)

	assert.NoError(t, results[0].Err)
	assert.FileExists(t, filepath.Join(dir, "andar6.geojson"))

	assert.ErrorIs(t, results[1].Err, mapper.ErrSourceNotFound)
	assert.NoFileExists(t, filepath.Join(dir, "andar7.geojson"))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := LoadWithPort("3001")

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 10, cfg.ReadTimeout)
	assert.Equal(t, 20.0, cfg.Scale)
	assert.Empty(t, cfg.FloorLayers)
	assert.Equal(t, "csv", cfg.PatientsProvider)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SCALE", "15")
	t.Setenv("FLOOR_LAYERS", "PISO, ANDAR6 ,,")
	t.Setenv("PATIENTS_PROVIDER", "SQLite")

	cfg := LoadWithPort("3001")

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15.0, cfg.Scale)
	assert.Equal(t, []string{"PISO", "ANDAR6"}, cfg.FloorLayers)
	assert.Equal(t, "sqlite", cfg.PatientsProvider)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wayfinding.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maps_dir: /srv/maps\nscale: 12.5\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SCALE", "30")

	cfg := Load()

	assert.Equal(t, "/srv/maps", cfg.MapsDir)
	assert.Equal(t, 30.0, cfg.Scale, "environment wins over file")
	assert.Equal(t, "3000", cfg.Port)
}

func TestLoad_ListsFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wayfinding.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"floor_layers: [PISO, \"ANDAR 6\"]\n"+
			"cors_origins:\n  - https://recepcao.example\n  - \"https://totem.example, https://app.example\"\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg := Load()

	assert.Equal(t, []string{"PISO", "ANDAR 6"}, cfg.FloorLayers)
	assert.Equal(t, []string{"https://recepcao.example", "https://totem.example", "https://app.example"}, cfg.CORSOrigins)
}

func TestLoad_ListEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wayfinding.yaml")
	require.NoError(t, os.WriteFile(path, []byte("floor_layers: [PISO]\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("FLOOR_LAYERS", "SALA A, ANDAR6")

	cfg := Load()

	assert.Equal(t, []string{"SALA A", "ANDAR6"}, cfg.FloorLayers)
}

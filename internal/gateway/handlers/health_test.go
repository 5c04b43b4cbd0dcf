package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfinding/internal/gateway/proxy"
)

func get(t *testing.T, app *fiber.App, target string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestReadinessProbe(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	app := fiber.New()
	app.Get("/ready", ReadinessProbe(proxy.New("converter", up.URL)))
	app.Get("/degraded", ReadinessProbe(proxy.New("converter", up.URL), proxy.New("patients", down.URL)))

	status, body := get(t, app, "/ready")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ready","services":{"converter":"up"}}`, body)

	status, body = get(t, app, "/degraded")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.JSONEq(t, `{"status":"degraded","services":{"converter":"up","patients":"down"}}`, body)
}

func TestDocs(t *testing.T) {
	docs, err := LoadDocs("../../../docs/openapi.yaml")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/docs", docs.UI)
	app.Get("/docs/openapi.yaml", docs.YAML)

	status, body := get(t, app, "/docs")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<title>Wayfinding API</title>")

	status, body = get(t, app, "/docs/openapi.yaml")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "/pacientes/{codigo}/destinos")
}

func TestLoadDocs_Invalid(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("info: [unclosed"), 0o644))
	noVersion := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(noVersion, []byte("info:\n  title: x\n"), 0o644))

	_, err := LoadDocs(bad)
	assert.Error(t, err)
	_, err = LoadDocs(noVersion)
	assert.Error(t, err)
	_, err = LoadDocs(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

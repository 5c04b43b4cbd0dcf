package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfinding/internal/common/middleware"
)

type echo struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Query       string `json:"query"`
	ContentType string `json:"content_type"`
	RequestID   string `json:"request_id"`
	Body        string `json:"body"`
}

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health/live" {
			w.WriteHeader(http.StatusOK)
			return
		}
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Upstream", "yes")
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusCreated)
		}
		json.NewEncoder(w).Encode(echo{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			RequestID:   r.Header.Get(middleware.RequestIDHeader),
			Body:        string(body),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func send(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, echo) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var got echo
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &got), string(data))
	return resp, got
}

func TestTarget(t *testing.T) {
	u := New("patients", "http://patients:3002/").Rewrite("/api/v1", "/api")

	assert.Equal(t, "http://patients:3002/api/pacientes/7", u.target("/api/v1/pacientes/7", ""))
	assert.Equal(t, "http://patients:3002/api/pacientes?x=1", u.target("/api/v1/pacientes", "x=1"))
}

func TestHandler_ForwardsRequest(t *testing.T) {
	srv := newUpstream(t)
	app := fiber.New()
	app.Use(middleware.RequestID())
	h := New("converter", srv.URL).Rewrite("/api/v1", "").Handler()
	app.Put("/api/v1/maps/:floor", h)
	app.Get("/api/v1/maps/:floor/locate", h)

	req := httptest.NewRequest("PUT", "/api/v1/maps/andar6", strings.NewReader("--b\r\nbody\r\n--b--\r\n"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=b")
	req.Header.Set(middleware.RequestIDHeader, "req-42")

	resp, got := send(t, app, req)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "yes", resp.Header.Get("X-Upstream"))
	assert.Equal(t, echo{
		Method:      "PUT",
		Path:        "/maps/andar6",
		ContentType: "multipart/form-data; boundary=b",
		RequestID:   "req-42",
		Body:        "--b\r\nbody\r\n--b--\r\n",
	}, got)

	resp, got = send(t, app, httptest.NewRequest("GET", "/api/v1/maps/andar6/locate?q=UTI", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/maps/andar6/locate", got.Path)
	assert.Equal(t, "q=UTI", got.Query)
	assert.NotEmpty(t, got.RequestID, "gateway generates an id when the client sent none")
}

func TestHandler_UpstreamDown(t *testing.T) {
	srv := newUpstream(t)
	u := New("patients", srv.URL)
	srv.Close()

	app := fiber.New()
	app.Get("/api/pacientes", u.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/pacientes", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.JSONEq(t, `{"error":"failed to reach patients service"}`, string(body))
}

func TestPing(t *testing.T) {
	srv := newUpstream(t)
	u := New("converter", srv.URL)

	assert.NoError(t, u.Ping(t.Context()))

	srv.Close()
	assert.Error(t, u.Ping(t.Context()))
}

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fdg312/meal-planner/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Env:         "test",
		Port:        8080,
		StorageMode: config.StorageModeMemory,
		DataDir:     dir,
		Blob: config.BlobConfig{
			Mode:     config.BlobModeLocal,
			LocalDir: filepath.Join(dir, "exports"),
		},
		ExportTTLSeconds: 900,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	srv, err := New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func call(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	w := call(srv.Handler(), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	w := call(srv.Handler(), http.MethodPost, "/healthz", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestS3ModeWithoutConfigFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Blob.Mode = config.BlobModeS3

	_, err := New(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestWeekFlow(t *testing.T) {
	srv := newTestServer(t, testConfig(t))
	h := srv.Handler()

	require.Equal(t, http.StatusCreated, call(h, http.MethodPost, "/v1/meals", `{"name":"Pasta","ingredients":["tomato","pasta"]}`).Code)
	require.Equal(t, http.StatusCreated, call(h, http.MethodPost, "/v1/meals", `{"name":"Salad","ingredients_text":"lettuce\ntomato"}`).Code)
	require.Equal(t, http.StatusOK, call(h, http.MethodPut, "/v1/plan/monday", `{"meal_name":"Pasta"}`).Code)
	require.Equal(t, http.StatusOK, call(h, http.MethodPut, "/v1/plan/tue", `{"meal_name":"salad"}`).Code)

	w := call(h, http.MethodPost, "/v1/shopping-list/generate", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Lines []string `json:"lines"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	assert.Equal(t, []string{"tomato (2x)", "pasta", "lettuce"}, list.Lines)

	w = call(h, http.MethodPost, "/v1/shopping-list/export", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var export struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&export))
	require.True(t, strings.HasPrefix(export.URL, "/v1/exports/"))

	w = call(h, http.MethodGet, export.URL, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}

func TestUnknownRouteIs404(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	w := call(srv.Handler(), http.MethodGet, "/v1/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpointCountsRequests(t *testing.T) {
	srv := newTestServer(t, testConfig(t))
	h := srv.Handler()

	call(h, http.MethodGet, "/v1/meals", "")
	call(h, http.MethodPost, "/v1/meals", `{"name":""}`)

	w := call(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `mealplanner_http_requests_total{method="GET",route="GET /v1/meals",status="200"} 1`)
	assert.Contains(t, body, `mealplanner_http_requests_total{method="POST",route="POST /v1/meals",status="400"} 1`)
	assert.Contains(t, body, `mealplanner_operations_total{op="add_meal",result="error"} 1`)
}

func TestRemoteCatalogMergedOnStartup(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"name":"Curry","ingredients":["rice","chicken"]}]`))
	}))
	defer remote.Close()

	cfg := testConfig(t)
	cfg.RemoteCatalogURL = remote.URL
	cfg.RemoteCatalogTimeoutSeconds = 2
	srv := newTestServer(t, cfg)

	meals := srv.Planner().ListMeals()
	require.Len(t, meals, 1)
	assert.Equal(t, "Curry", meals[0].Name)
}

func TestRemoteCatalogDownIsNotFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.RemoteCatalogURL = "http://127.0.0.1:1"
	cfg.RemoteCatalogTimeoutSeconds = 1

	srv := newTestServer(t, cfg)
	assert.Empty(t, srv.Planner().ListMeals())
}

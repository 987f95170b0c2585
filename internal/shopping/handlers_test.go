package shopping

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fdg312/meal-planner/internal/blob"
	"github.com/fdg312/meal-planner/internal/mealplan"
	"github.com/fdg312/meal-planner/internal/planner"
	"github.com/fdg312/meal-planner/internal/storage/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *planner.Service {
	t.Helper()
	ctx := context.Background()
	svc := planner.NewService(memory.New(), zerolog.Nop())
	svc.Load(ctx)

	_, err := svc.AddMeal(ctx, "Pasta", "tomato\npasta")
	require.NoError(t, err)
	_, err = svc.AddMeal(ctx, "Salad", "Lettuce\n tomato ")
	require.NoError(t, err)
	return svc
}

func newMux(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/shopping-list/generate", h.HandleGenerate)
	mux.HandleFunc("GET /v1/shopping-list", h.HandleGet)
	mux.HandleFunc("DELETE /v1/shopping-list", h.HandleClear)
	mux.HandleFunc("POST /v1/shopping-list/items/{id}/check", h.HandleCheck)
	mux.HandleFunc("POST /v1/shopping-list/items/{id}/uncheck", h.HandleUncheck)
	mux.HandleFunc("POST /v1/shopping-list/positions/{index}/check", h.HandleCheckPosition(true))
	mux.HandleFunc("POST /v1/shopping-list/positions/{index}/uncheck", h.HandleCheckPosition(false))
	mux.HandleFunc("POST /v1/shopping-list/clear-checked", h.HandleClearChecked)
	mux.HandleFunc("GET /v1/shopping-list/print", h.HandlePrint)
	mux.HandleFunc("POST /v1/shopping-list/export", h.HandleExport)
	mux.HandleFunc("GET /v1/exports/{key...}", h.HandleDownloadExport)
	return mux
}

func request(mux http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) ListResponse {
	t.Helper()
	var resp ListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestGenerateEmptyPlan(t *testing.T) {
	mux := newMux(NewHandler(newService(t)))

	w := request(mux, http.MethodPost, "/v1/shopping-list/generate")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeList(t, w)
	assert.True(t, resp.Empty)
	assert.Equal(t, "No meals planned for this week", resp.Message)
	assert.Empty(t, resp.Items)
	assert.NotNil(t, resp.Lines)
}

func TestGenerateAggregates(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, err := svc.Assign(ctx, mealplan.Monday, "Pasta")
	require.NoError(t, err)
	_, err = svc.Assign(ctx, mealplan.Tuesday, "Salad")
	require.NoError(t, err)
	mux := newMux(NewHandler(svc))

	w := request(mux, http.MethodPost, "/v1/shopping-list/generate")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeList(t, w)
	assert.False(t, resp.Empty)
	assert.Equal(t, []string{"tomato (2x)", "pasta", "Lettuce"}, resp.Lines)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, "lettuce", resp.Items[2].ID)
	assert.Equal(t, 2, resp.Items[0].Count)
}

func TestCheckUncheckAndClearChecked(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, err := svc.Assign(ctx, mealplan.Monday, "Pasta")
	require.NoError(t, err)
	mux := newMux(NewHandler(svc))
	require.Equal(t, http.StatusOK, request(mux, http.MethodPost, "/v1/shopping-list/generate").Code)

	w := request(mux, http.MethodPost, "/v1/shopping-list/items/pasta/check")
	require.Equal(t, http.StatusOK, w.Code)
	var item ItemDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&item))
	assert.True(t, item.Checked)

	w = request(mux, http.MethodPost, "/v1/shopping-list/items/bread/check")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(mux, http.MethodPost, "/v1/shopping-list/positions/0/check")
	require.Equal(t, http.StatusOK, w.Code)
	w = request(mux, http.MethodPost, "/v1/shopping-list/positions/0/uncheck")
	require.Equal(t, http.StatusOK, w.Code)
	w = request(mux, http.MethodPost, "/v1/shopping-list/positions/9/check")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = request(mux, http.MethodPost, "/v1/shopping-list/positions/x/check")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeList(t, request(mux, http.MethodGet, "/v1/shopping-list"))
	assert.Equal(t, 1, resp.CheckedCount)

	w = request(mux, http.MethodPost, "/v1/shopping-list/clear-checked")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cleared":1}`, w.Body.String())

	w = request(mux, http.MethodPost, "/v1/shopping-list/clear-checked")
	assert.JSONEq(t, `{"cleared":0}`, w.Body.String())

	resp = decodeList(t, request(mux, http.MethodGet, "/v1/shopping-list"))
	assert.Equal(t, []string{"tomato"}, resp.Lines)

	w = request(mux, http.MethodDelete, "/v1/shopping-list")
	assert.Equal(t, http.StatusNoContent, w.Code)
	resp = decodeList(t, request(mux, http.MethodGet, "/v1/shopping-list"))
	assert.True(t, resp.Empty)
	assert.Equal(t, ClearedMessage, resp.Message)
}

func TestClearingEveryItemKeepsPlanMessage(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, err := svc.Assign(ctx, mealplan.Monday, "Pasta")
	require.NoError(t, err)
	mux := newMux(NewHandler(svc))
	resp := decodeList(t, request(mux, http.MethodPost, "/v1/shopping-list/generate"))
	for _, item := range resp.Items {
		require.Equal(t, http.StatusOK, request(mux, http.MethodPost, "/v1/shopping-list/items/"+item.ID+"/check").Code)
	}
	require.Equal(t, http.StatusOK, request(mux, http.MethodPost, "/v1/shopping-list/clear-checked").Code)

	resp = decodeList(t, request(mux, http.MethodGet, "/v1/shopping-list"))
	assert.True(t, resp.Empty)
	assert.Equal(t, "Shopping list is empty", resp.Message)

	require.NoError(t, svc.Unassign(ctx, mealplan.Monday))
	resp = decodeList(t, request(mux, http.MethodGet, "/v1/shopping-list"))
	assert.Equal(t, EmptyMessage, resp.Message)
}

func TestItemIDWithSpaces(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, err := svc.AddMeal(ctx, "Toast", "Olive Oil\nbread")
	require.NoError(t, err)
	_, err = svc.Assign(ctx, mealplan.Sunday, "Toast")
	require.NoError(t, err)
	svc.GenerateShoppingList(ctx)
	mux := newMux(NewHandler(svc))

	w := request(mux, http.MethodPost, "/v1/shopping-list/items/olive%20oil/check")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"olive oil"}, svc.ShoppingList().CheckedIDs())
}

func TestPrint(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, err := svc.Assign(ctx, mealplan.Monday, "Pasta")
	require.NoError(t, err)
	svc.GenerateShoppingList(ctx)
	mux := newMux(NewHandler(svc))

	w := request(mux, http.MethodGet, "/v1/shopping-list/print")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = request(mux, http.MethodGet, "/v1/shopping-list/print?format=csv")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "ingredient,count,checked,display\ntomato,1,false,tomato\npasta,1,false,pasta\n", w.Body.String())

	w = request(mux, http.MethodGet, "/v1/shopping-list/print?format=docx")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportWithoutStore(t *testing.T) {
	mux := newMux(NewHandler(newService(t)))

	w := request(mux, http.MethodPost, "/v1/shopping-list/export")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestExportToLocalStoreAndDownload(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, err := svc.Assign(ctx, mealplan.Monday, "Salad")
	require.NoError(t, err)
	svc.GenerateShoppingList(ctx)

	store, err := blob.NewLocalStore(t.TempDir(), blob.LocalURLBase)
	require.NoError(t, err)
	h := NewHandler(svc).WithExporter(NewExporter(store, NewPrinter(), 600))
	mux := newMux(h)

	w := request(mux, http.MethodPost, "/v1/shopping-list/export?format=csv")
	require.Equal(t, http.StatusCreated, w.Code)
	var resp ExportResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "csv", resp.Format)
	assert.Equal(t, 600, resp.ExpiresInSeconds)
	assert.True(t, strings.HasPrefix(resp.Key, "shopping-lists/"))
	assert.Equal(t, blob.LocalURLBase+"/"+resp.Key, resp.URL)
	assert.Positive(t, resp.SizeBytes)

	w = request(mux, http.MethodGet, resp.URL)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Lettuce,1,false,Lettuce")

	w = request(mux, http.MethodGet, blob.LocalURLBase+"/shopping-lists/missing.pdf")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

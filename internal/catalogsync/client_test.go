package catalogsync

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchMealsAcceptsListAndText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/meals", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"name":"Pasta","ingredients":["tomato"," pasta ",""],"category":"dinner"},
			{"name":"Soup","ingredients":"water\r\nsalt\n"},
			{"name":"Broken","ingredients":42},
			{"name":"Bare"}
		]`))
	}))
	defer srv.Close()

	meals, err := NewClient(srv.URL+"/", time.Second).FetchMeals(context.Background())
	require.NoError(t, err)
	require.Len(t, meals, 3)

	assert.Equal(t, "Pasta", meals[0].Name)
	assert.Equal(t, []string{"tomato", "pasta"}, meals[0].Ingredients)
	assert.Equal(t, "dinner", meals[0].Category)
	assert.Equal(t, []string{"water", "salt"}, meals[1].Ingredients)
	assert.Empty(t, meals[2].Ingredients)
}

func TestFetchMealsNotConfigured(t *testing.T) {
	_, err := NewClient("", time.Second).FetchMeals(context.Background())
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestFetchMealsBreakerOpensAfterFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	for i := 0; i < 3; i++ {
		_, err := c.FetchMeals(context.Background())
		require.Error(t, err)
	}
	assert.Equal(t, "open", c.State())

	_, err := c.FetchMeals(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestFetchMealsUsesGivenHTTPClient(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, time.Minute).WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.FetchMeals(context.Background())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

// Package catalogsync fetches meals from a remote catalog service so they can
// be merged into the local catalog at startup.
package catalogsync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fdg312/meal-planner/internal/mealplan"
	"github.com/sony/gobreaker"
)

// ErrNotConfigured is returned when no base URL was given.
var ErrNotConfigured = errors.New("remote catalog URL is not configured")

const maxBodyBytes = 4 << 20

// Client calls GET {baseURL}/api/meals through a circuit breaker.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient returns a client with the given per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	st := gobreaker.Settings{
		Name:     "remote-catalog",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    gobreaker.NewCircuitBreaker(st),
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// State reports the breaker state, e.g. "closed" or "open".
func (c *Client) State() string {
	return c.breaker.State().String()
}

// remoteMeal accepts ingredients either as a list or as newline separated
// text.
type remoteMeal struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Ingredients  json.RawMessage `json:"ingredients"`
	Category     string          `json:"category"`
	Instructions string          `json:"instructions"`
	PrepTime     string          `json:"prepTime"`
	Servings     int             `json:"servings"`
}

func (m remoteMeal) toMeal() (mealplan.Meal, error) {
	meal := mealplan.Meal{
		ID:           m.ID,
		Name:         m.Name,
		Category:     m.Category,
		Instructions: m.Instructions,
		PrepTime:     m.PrepTime,
		Servings:     m.Servings,
	}
	raw := bytes.TrimSpace(m.Ingredients)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
	case raw[0] == '[':
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return mealplan.Meal{}, fmt.Errorf("meal %q: ingredients: %w", m.Name, err)
		}
		meal.Ingredients = mealplan.CleanIngredients(list)
	case raw[0] == '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return mealplan.Meal{}, fmt.Errorf("meal %q: ingredients: %w", m.Name, err)
		}
		meal.Ingredients = mealplan.ParseIngredients(text)
	default:
		return mealplan.Meal{}, fmt.Errorf("meal %q: unsupported ingredients format", m.Name)
	}
	return meal, nil
}

// FetchMeals returns the remote catalog. Records with unreadable ingredients
// are skipped; validation of the rest is left to the merge.
func (c *Client) FetchMeals(ctx context.Context) ([]mealplan.Meal, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch remote catalog: %w", err)
	}

	records := result.([]remoteMeal)
	meals := make([]mealplan.Meal, 0, len(records))
	for _, r := range records {
		meal, err := r.toMeal()
		if err != nil {
			continue
		}
		meals = append(meals, meal)
	}
	return meals, nil
}

func (c *Client) fetch(ctx context.Context) ([]remoteMeal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/meals", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var records []remoteMeal
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return records, nil
}

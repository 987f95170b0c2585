package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase  string
	client   = &http.Client{Timeout: 30 * time.Second}
	suffix   string
	mealIDs  = make(map[string]string) // name -> id, deleted at the end
	savedDay = "saturday"
	exportTo string
)

func main() {
	fmt.Println("=== Meal Planner E2E Smoke Test ===")
	fmt.Println()

	apiBase = strings.TrimRight(getEnv("API_BASE_URL", defaultAPIBase), "/")
	suffix = time.Now().Format("150405")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Println()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Create Meals", testCreateMeals},
		{"Find Meal By Name", testFindByName},
		{"Assign Plan", testAssignPlan},
		{"Generate Shopping List", testGenerateList},
		{"Check Item", testCheckItem},
		{"Print PDF", testPrintPDF},
		{"Export", testExport},
		{"Download Export", testDownloadExport},
		{"Delete Meals", testDeleteMeals},
		{"Metrics", testMetrics},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	if failed {
		// Best effort: do not leave smoke meals behind.
		_ = testDeleteMeals()
		fmt.Println()
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	return doJSON(http.MethodGet, "/healthz", nil, http.StatusOK, nil)
}

func smokeName(base string) string {
	return fmt.Sprintf("Smoke %s %s", base, suffix)
}

func testCreateMeals() error {
	meals := []map[string]interface{}{
		{"name": smokeName("Pasta"), "ingredients": []string{"tomato", "pasta"}},
		{"name": smokeName("Salad"), "ingredients_text": "lettuce\nTomato\n"},
	}
	for _, m := range meals {
		var created struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		if err := doJSON(http.MethodPost, "/v1/meals", m, http.StatusCreated, &created); err != nil {
			return err
		}
		mealIDs[created.Name] = created.ID
	}

	// Same name in another case must be rejected.
	dup := map[string]interface{}{"name": strings.ToUpper(smokeName("Pasta")), "ingredients": []string{"x"}}
	return doJSON(http.MethodPost, "/v1/meals", dup, http.StatusBadRequest, nil)
}

func testFindByName() error {
	name := strings.ToLower(smokeName("Salad"))
	var meal struct {
		ID string `json:"id"`
	}
	if err := doJSON(http.MethodGet, "/v1/meals/by-name/"+url.PathEscape(name), nil, http.StatusOK, &meal); err != nil {
		return err
	}
	if meal.ID != mealIDs[smokeName("Salad")] {
		return fmt.Errorf("by-name returned id %s", meal.ID)
	}
	return nil
}

func testAssignPlan() error {
	if err := doJSON(http.MethodDelete, "/v1/plan", nil, http.StatusNoContent, nil); err != nil {
		return err
	}
	if err := doJSON(http.MethodPut, "/v1/plan/monday", map[string]string{"meal_name": smokeName("Pasta")}, http.StatusOK, nil); err != nil {
		return err
	}
	body := map[string]string{"meal_id": mealIDs[smokeName("Salad")]}
	return doJSON(http.MethodPut, "/v1/plan/"+savedDay, body, http.StatusOK, nil)
}

func testGenerateList() error {
	var list struct {
		Lines []string `json:"lines"`
	}
	if err := doJSON(http.MethodPost, "/v1/shopping-list/generate", nil, http.StatusOK, &list); err != nil {
		return err
	}
	want := []string{"tomato (2x)", "pasta", "lettuce"}
	if strings.Join(list.Lines, "|") != strings.Join(want, "|") {
		return fmt.Errorf("lines=%v want=%v", list.Lines, want)
	}
	return nil
}

func testCheckItem() error {
	if err := doJSON(http.MethodPost, "/v1/shopping-list/items/pasta/check", nil, http.StatusOK, nil); err != nil {
		return err
	}
	var list struct {
		CheckedCount int `json:"checked_count"`
	}
	if err := doJSON(http.MethodPost, "/v1/shopping-list/generate", nil, http.StatusOK, &list); err != nil {
		return err
	}
	if list.CheckedCount != 1 {
		return fmt.Errorf("checked_count=%d after regeneration, want 1", list.CheckedCount)
	}
	return nil
}

func testPrintPDF() error {
	data, err := getRaw(apiBase + "/v1/shopping-list/print")
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return fmt.Errorf("response is not a PDF")
	}
	return nil
}

func testExport() error {
	var resp struct {
		URL string `json:"url"`
	}
	if err := doJSON(http.MethodPost, "/v1/shopping-list/export?format=csv", nil, http.StatusCreated, &resp); err != nil {
		return err
	}
	if resp.URL == "" {
		return fmt.Errorf("empty export url")
	}
	exportTo = resp.URL
	return nil
}

func testDownloadExport() error {
	target := exportTo
	if strings.HasPrefix(target, "/") {
		target = apiBase + target
	}
	data, err := getRaw(target)
	if err != nil {
		return err
	}
	if !strings.Contains(string(data), "tomato,2,false,tomato (2x)") {
		return fmt.Errorf("unexpected export body: %.200s", data)
	}
	return nil
}

func testDeleteMeals() error {
	for name, id := range mealIDs {
		if err := doJSON(http.MethodDelete, "/v1/meals/"+id, nil, http.StatusOK, nil); err != nil {
			return fmt.Errorf("delete %s: %w", name, err)
		}
		delete(mealIDs, name)
	}

	var day struct {
		MealID string `json:"meal_id"`
	}
	if err := doJSON(http.MethodGet, "/v1/plan/"+savedDay, nil, http.StatusOK, &day); err != nil {
		return err
	}
	if day.MealID != "" {
		return fmt.Errorf("%s still planned after delete", savedDay)
	}
	return nil
}

func testMetrics() error {
	data, err := getRaw(apiBase + "/metrics")
	if err != nil {
		return err
	}
	if !strings.Contains(string(data), "mealplanner_operations_total") {
		return fmt.Errorf("planner metrics missing")
	}
	return nil
}

// doJSON sends payload as JSON and decodes the response into out when it
// is not nil.
func doJSON(method, path string, payload interface{}, wantStatus int, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status=%d want=%d body=%s", method, path, resp.StatusCode, wantStatus, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}
	}
	return nil
}

func getRaw(target string) ([]byte, error) {
	resp, err := client.Get(target)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status=%d body=%.300s", resp.StatusCode, data)
	}
	return data, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

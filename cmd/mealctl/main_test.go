package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--storage", "file", "--data-dir", dataDir}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, dataDir string, args ...string) string {
	t.Helper()
	out, err := run(t, dataDir, args...)
	require.NoError(t, err, "mealctl %v", args)
	return out
}

func TestWeekAcrossInvocations(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, dir, "meals", "add", "Pasta", "-i", "tomato", "-i", "pasta")
	mustRun(t, dir, "meals", "add", "Salad", "--text", "lettuce\ntomato")
	assert.Contains(t, mustRun(t, dir, "meals", "list"), "Salad")

	assert.Equal(t, "Monday: Pasta\n", mustRun(t, dir, "plan", "assign", "mon", "pasta"))
	mustRun(t, dir, "plan", "assign", "tuesday", "Salad")

	out := mustRun(t, dir, "shopping", "generate")
	assert.Equal(t, " 1. [ ] tomato (2x)\n 2. [ ] pasta\n 3. [ ] lettuce\n", out)

	assert.Equal(t, "[x] pasta\n", mustRun(t, dir, "shopping", "check", "2"))
	assert.Contains(t, mustRun(t, dir, "shopping", "show"), " 2. [x] pasta")
	assert.Equal(t, "Removed 1 item(s)\n", mustRun(t, dir, "shopping", "clear-checked"))

	out = mustRun(t, dir, "meals", "delete", "salad")
	assert.Contains(t, out, "Tuesday is now empty")
	assert.Regexp(t, `(?m)^Tuesday\s+-$`, mustRun(t, dir, "plan", "show"))
}

func TestRenameKeepsPlannedDays(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "meals", "add", "Pasta", "-i", "tomato")
	mustRun(t, dir, "meals", "add", "Salad", "-i", "lettuce")
	mustRun(t, dir, "plan", "assign", "wed", "Pasta")

	assert.Equal(t, "Renamed Pasta to Spaghetti\n", mustRun(t, dir, "meals", "rename", "pasta", "Spaghetti"))
	assert.Regexp(t, `(?m)^Wednesday\s+Spaghetti$`, mustRun(t, dir, "plan", "show"))

	_, err := run(t, dir, "meals", "rename", "Spaghetti", "salad")
	assert.Error(t, err)
	_, err = run(t, dir, "meals", "rename", "Pizza", "Calzone")
	assert.Error(t, err)
}

func TestAddRejectsDuplicate(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "meals", "add", "Pasta", "-i", "tomato")

	_, err := run(t, dir, "meals", "add", "PASTA", "-i", "flour")
	assert.Error(t, err)
}

func TestAssignUnknownMealEmptiesDay(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "meals", "add", "Pasta", "-i", "tomato")
	mustRun(t, dir, "plan", "assign", "friday", "Pasta")

	out := mustRun(t, dir, "plan", "assign", "friday", "Pizza")
	assert.Contains(t, out, "Friday is now empty")

	_, err := run(t, dir, "plan", "assign", "someday", "Pasta")
	assert.Error(t, err)
}

func TestShoppingEmptyAndPrint(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "No meals planned for this week\n", mustRun(t, dir, "shopping", "generate"))

	mustRun(t, dir, "meals", "add", "Soup", "-i", "water")
	mustRun(t, dir, "plan", "assign", "sun", "Soup")
	mustRun(t, dir, "shopping", "generate")

	target := filepath.Join(t.TempDir(), "list.csv")
	mustRun(t, dir, "shopping", "print", "--format", "csv", "-o", target)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "water,1,false,water")

	_, err = run(t, dir, "shopping", "check", "9")
	assert.Error(t, err)

	mustRun(t, dir, "shopping", "check", "1")
	mustRun(t, dir, "shopping", "clear-checked")
	assert.Equal(t, "Shopping list is empty\n", mustRun(t, dir, "shopping", "show"))
}

package task

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskmaster/internal/model"
	"taskmaster/internal/storage"
)

var testNow = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return newTestManagerAt(t, filepath.Join(t.TempDir(), "tasks.json"))
}

func newTestManagerAt(t *testing.T, path string) *Manager {
	t.Helper()
	manager := NewManager(storage.NewStore(path))
	manager.now = func() time.Time { return testNow }
	return manager
}

func date(value string) *time.Time {
	parsed, err := time.Parse(model.DeadlineLayout, value)
	if err != nil {
		panic(err)
	}
	return &parsed
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	manager := newTestManager(t)

	for i, title := range []string{"first", "second", "third"} {
		created, err := manager.Add(title, "", nil)
		require.NoError(t, err)
		require.Equal(t, i+1, created.ID)
	}
	require.Len(t, manager.Tasks(), 3)
}

func TestAddEmptyTitleLeavesCollectionUnchanged(t *testing.T) {
	manager := newTestManager(t)
	_, err := manager.Add("keep me", "", nil)
	require.NoError(t, err)

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := manager.Add(title, "desc", nil)
		require.ErrorIs(t, err, ErrEmptyTitle)
		require.Len(t, manager.Tasks(), 1)
	}
}

func TestAddTrimsTitleWhitespace(t *testing.T) {
	manager := newTestManager(t)

	created, err := manager.Add("  Buy milk  ", "", nil)
	require.NoError(t, err)
	require.Equal(t, "Buy milk", created.Title)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	manager := newTestManagerAt(t, path)

	_, err := manager.Add("Buy milk", "two liters", date("2024-04-01"))
	require.NoError(t, err)
	_, err = manager.Add("Call mom", "", nil)
	require.NoError(t, err)
	require.NoError(t, manager.ToggleCompletion(2))

	reloaded := newTestManagerAt(t, path)
	reloaded.Load()

	require.Equal(t, manager.Tasks(), reloaded.Tasks())
}

func TestLoadIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	manager := newTestManagerAt(t, path)
	_, err := manager.Add("Buy milk", "", date("2024-04-01"))
	require.NoError(t, err)

	manager.Load()
	first := append([]model.Task(nil), manager.Tasks()...)
	manager.Load()
	require.Equal(t, first, manager.Tasks())
}

func TestMalformedDeadlineLoadsAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	content := `[{"id":1,"title":"Buy milk","description":"","deadline":"not-a-date","completed":false,"created_date":"2020-01-01 10:00"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	manager := newTestManagerAt(t, path)
	manager.Load()

	require.Len(t, manager.Tasks(), 1)
	require.Nil(t, manager.Tasks()[0].Deadline)
	require.Equal(t, "Buy milk", manager.Tasks()[0].Title)
}

func TestFilteredOverdueScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	content := `[{"id":1,"title":"Buy milk","description":"","deadline":"2020-01-01","completed":false,"created_date":"2020-01-01 10:00"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	manager := newTestManagerAt(t, path)
	manager.Load()

	overdue := manager.Filtered(model.ViewOverdue)
	require.Len(t, overdue, 1)
	require.Equal(t, "Buy milk", overdue[0].Title)

	require.Empty(t, manager.Filtered(model.ViewActive))
}

func TestFilteredViews(t *testing.T) {
	manager := newTestManager(t)

	_, err := manager.Add("overdue task", "", date("2020-01-01"))
	require.NoError(t, err)
	_, err = manager.Add("active task", "", date("2030-01-01"))
	require.NoError(t, err)
	done, err := manager.Add("done task", "", date("2020-01-01"))
	require.NoError(t, err)
	require.NoError(t, manager.ToggleCompletion(done.ID))

	require.Len(t, manager.Filtered(model.ViewAll), 3)

	active := manager.Filtered(model.ViewActive)
	require.Len(t, active, 1)
	require.Equal(t, "active task", active[0].Title)

	overdue := manager.Filtered(model.ViewOverdue)
	require.Len(t, overdue, 1)
	require.Equal(t, "overdue task", overdue[0].Title)

	completed := manager.Filtered(model.ViewCompleted)
	require.Len(t, completed, 1)
	require.Equal(t, "done task", completed[0].Title)
}

func TestCompletedNeverActiveOrOverdue(t *testing.T) {
	manager := newTestManager(t)

	created, err := manager.Add("past deadline", "", date("2020-01-01"))
	require.NoError(t, err)
	require.NoError(t, manager.ToggleCompletion(created.ID))

	require.Empty(t, manager.Filtered(model.ViewActive))
	require.Empty(t, manager.Filtered(model.ViewOverdue))
	require.Equal(t, model.StatusCompleted, manager.StatusOf(manager.Tasks()[0]))
}

func TestRemoveByTitleRemovesAllMatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	manager := newTestManagerAt(t, path)

	_, err := manager.Add("duplicate", "first", nil)
	require.NoError(t, err)
	_, err = manager.Add("keeper", "", nil)
	require.NoError(t, err)
	_, err = manager.Add("duplicate", "second", nil)
	require.NoError(t, err)

	removed := manager.RemoveByTitle("duplicate")
	require.Equal(t, 2, removed)
	require.Len(t, manager.Tasks(), 1)
	require.Equal(t, "keeper", manager.Tasks()[0].Title)

	reloaded := newTestManagerAt(t, path)
	reloaded.Load()
	require.Len(t, reloaded.Tasks(), 1)
}

func TestRemoveByID(t *testing.T) {
	manager := newTestManager(t)

	_, err := manager.Add("duplicate", "first", nil)
	require.NoError(t, err)
	second, err := manager.Add("duplicate", "second", nil)
	require.NoError(t, err)

	require.NoError(t, manager.RemoveByID(second.ID))
	require.Len(t, manager.Tasks(), 1)
	require.Equal(t, "first", manager.Tasks()[0].Description)

	require.ErrorIs(t, manager.RemoveByID(99), ErrTaskNotFound)
}

func TestToggleCompletionFlipsAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	manager := newTestManagerAt(t, path)

	created, err := manager.Add("toggle me", "", nil)
	require.NoError(t, err)

	require.NoError(t, manager.ToggleCompletion(created.ID))
	require.True(t, manager.Tasks()[0].Completed)

	reloaded := newTestManagerAt(t, path)
	reloaded.Load()
	require.True(t, reloaded.Tasks()[0].Completed)

	require.NoError(t, manager.ToggleCompletion(created.ID))
	require.False(t, manager.Tasks()[0].Completed)

	require.ErrorIs(t, manager.ToggleCompletion(99), ErrTaskNotFound)
}

func TestUpdatePreservesIdentity(t *testing.T) {
	manager := newTestManager(t)

	created, err := manager.Add("original", "desc", nil)
	require.NoError(t, err)

	require.NoError(t, manager.Update(created.ID, "renamed", "new desc", date("2030-06-01")))

	updated, ok := manager.Get(created.ID)
	require.True(t, ok)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.Equal(t, "renamed", updated.Title)
	require.Equal(t, "new desc", updated.Description)
	require.NotNil(t, updated.Deadline)

	require.ErrorIs(t, manager.Update(created.ID, "  ", "", nil), ErrEmptyTitle)
	require.ErrorIs(t, manager.Update(99, "title", "", nil), ErrTaskNotFound)
}

func TestCreatedDatePreservedAcrossRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	manager := newTestManagerAt(t, path)

	created, err := manager.Add("keep my timestamp", "", nil)
	require.NoError(t, err)
	require.Equal(t, testNow.Truncate(time.Minute), created.CreatedAt)

	reloaded := newTestManagerAt(t, path)
	reloaded.Load()
	require.Equal(t, created.CreatedAt.Format(model.CreatedLayout), reloaded.Tasks()[0].CreatedAt.Format(model.CreatedLayout))
}

package task

import (
	"errors"
	"strings"
	"time"

	"taskmaster/internal/model"
	"taskmaster/internal/storage"
)

var (
	ErrEmptyTitle   = errors.New("task title is required")
	ErrTaskNotFound = errors.New("task not found")
)

// Manager owns the authoritative in-memory task collection. It mediates
// between stored records and tasks, assigns identity and computes derived
// status. All mutating operations persist through the store before
// returning.
type Manager struct {
	store *storage.Store
	tasks []model.Task
	now   func() time.Time
}

func NewManager(store *storage.Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// Load replaces the collection with the store's contents. Records with
// malformed deadlines load with no deadline; a bad record never fails the
// whole load.
func (m *Manager) Load() {
	records := m.store.Load()
	tasks := make([]model.Task, 0, len(records))
	for _, rec := range records {
		tasks = append(tasks, model.TaskFromRecord(rec, m.now()))
	}
	m.tasks = tasks
}

// Save writes the full collection through the store.
func (m *Manager) Save() bool {
	records := make([]model.Record, 0, len(m.tasks))
	for _, t := range m.tasks {
		records = append(records, t.ToRecord())
	}
	return m.store.Save(records)
}

// Add validates the title, assigns the next id and appends the task.
// The id is the current collection length plus one; after deletions this
// is positional and can collide with a surviving task's id.
func (m *Manager) Add(title, description string, deadline *time.Time) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}

	created := model.Task{
		ID:          len(m.tasks) + 1,
		Title:       title,
		Description: description,
		Deadline:    deadline,
		CreatedAt:   m.now().Truncate(time.Minute),
	}
	m.tasks = append(m.tasks, created)
	m.Save()
	return created, nil
}

// Update mutates title, description and deadline in place. ID and creation
// time never change.
func (m *Manager) Update(id int, title, description string, deadline *time.Time) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Title = title
			m.tasks[i].Description = description
			m.tasks[i].Deadline = deadline
			m.Save()
			return nil
		}
	}
	return ErrTaskNotFound
}

// RemoveByTitle drops every task whose title matches. Duplicate titles all
// go at once; callers that need precision should use RemoveByID. Returns
// how many tasks were removed.
func (m *Manager) RemoveByTitle(title string) int {
	kept := m.tasks[:0]
	removed := 0
	for _, t := range m.tasks {
		if t.Title == title {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	m.tasks = kept
	if removed > 0 {
		m.Save()
	}
	return removed
}

// RemoveByID drops the single task with the given id.
func (m *Manager) RemoveByID(id int) error {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			m.Save()
			return nil
		}
	}
	return ErrTaskNotFound
}

// ToggleCompletion flips the completed flag and persists.
func (m *Manager) ToggleCompletion(id int) error {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Completed = !m.tasks[i].Completed
			m.Save()
			return nil
		}
	}
	return ErrTaskNotFound
}

// Tasks returns the collection in insertion order.
func (m *Manager) Tasks() []model.Task {
	return m.tasks
}

// Get looks a task up by id.
func (m *Manager) Get(id int) (model.Task, bool) {
	for _, t := range m.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Filtered returns the subsequence of the collection matching the view,
// evaluated against the current date. The result is derived, insertion
// order is preserved and the collection itself is untouched.
func (m *Manager) Filtered(view model.View) []model.Task {
	now := m.now()
	result := make([]model.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if view.Matches(t, now) {
			result = append(result, t)
		}
	}
	return result
}

// StatusOf derives the display status of a task at the current date.
func (m *Manager) StatusOf(t model.Task) model.Status {
	return t.StatusAt(m.now())
}

// Backup asks the store for an on-demand timestamped backup and returns
// its name.
func (m *Manager) Backup() (string, error) {
	return m.store.Backup()
}

// Stats reports size and modification time of the backing data file.
func (m *Manager) Stats() (storage.FileStats, bool) {
	return m.store.Stats()
}

package model

import (
	"strings"
	"time"
)

const (
	// DeadlineLayout is the wire format for deadlines, date only.
	DeadlineLayout = "2006-01-02"
	// CreatedLayout is the wire format for creation timestamps, minute precision.
	CreatedLayout = "2006-01-02 15:04"
)

// Task is the in-memory representation owned by the collection manager.
// Status is never stored; it is derived from Completed and Deadline.
type Task struct {
	ID          int
	Title       string
	Description string
	Deadline    *time.Time
	Completed   bool
	CreatedAt   time.Time
}

// Record is the flat projection of a Task used for file storage.
type Record struct {
	ID          *int    `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Deadline    *string `json:"deadline"`
	Completed   bool    `json:"completed"`
	CreatedDate string  `json:"created_date"`
}

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

// StatusAt derives the display status at the given moment. Completed wins
// over overdue regardless of deadline.
func (t Task) StatusAt(now time.Time) Status {
	if t.Completed {
		return StatusCompleted
	}
	if t.OverdueAt(now) {
		return StatusOverdue
	}
	return StatusActive
}

// OverdueAt reports whether the task is not completed, has a deadline, and
// that deadline falls strictly before the current date.
func (t Task) OverdueAt(now time.Time) bool {
	if t.Completed || t.Deadline == nil {
		return false
	}
	return t.Deadline.Before(startOfDay(now))
}

func startOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

type View string

const (
	ViewAll       View = "all"
	ViewActive    View = "active"
	ViewCompleted View = "completed"
	ViewOverdue   View = "overdue"
)

// Views lists the selectable filters in presentation order.
func Views() []View {
	return []View{ViewAll, ViewActive, ViewCompleted, ViewOverdue}
}

// Matches reports whether the task belongs to the view at the given moment.
// The active view excludes overdue tasks: overdue takes priority even
// though both are technically not-completed.
func (v View) Matches(t Task, now time.Time) bool {
	switch v {
	case ViewActive:
		return !t.Completed && !t.OverdueAt(now)
	case ViewCompleted:
		return t.Completed
	case ViewOverdue:
		return t.OverdueAt(now)
	default:
		return true
	}
}

// ToRecord flattens a task into its stored form.
func (t Task) ToRecord() Record {
	id := t.ID
	rec := Record{
		ID:          &id,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedDate: t.CreatedAt.Format(CreatedLayout),
	}
	if t.Deadline != nil {
		deadline := t.Deadline.Format(DeadlineLayout)
		rec.Deadline = &deadline
	}
	return rec
}

// TaskFromRecord rebuilds a task from its stored form. A malformed deadline
// string becomes a nil deadline and a malformed created_date falls back to
// now; neither ever fails the load.
func TaskFromRecord(rec Record, now time.Time) Task {
	task := Task{
		Title:       rec.Title,
		Description: rec.Description,
		Completed:   rec.Completed,
		CreatedAt:   now.Truncate(time.Minute),
	}
	if rec.ID != nil {
		task.ID = *rec.ID
	}
	if rec.Deadline != nil {
		if parsed, err := time.Parse(DeadlineLayout, strings.TrimSpace(*rec.Deadline)); err == nil {
			task.Deadline = &parsed
		}
	}
	if created, err := time.Parse(CreatedLayout, strings.TrimSpace(rec.CreatedDate)); err == nil {
		task.CreatedAt = created
	}
	return task
}

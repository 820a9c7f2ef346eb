package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmaster/internal/model"
)

func testTasks() []model.Task {
	deadline := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	return []model.Task{
		{
			ID:          1,
			Title:       "Buy milk",
			Description: "two liters",
			Deadline:    &deadline,
			CreatedAt:   time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
		},
		{
			ID:        2,
			Title:     "Call mom",
			Completed: true,
			CreatedAt: time.Date(2024, 3, 15, 14, 31, 0, 0, time.UTC),
		},
	}
}

func newTestExporter() *Exporter {
	e := NewExporter()
	e.now = func() time.Time {
		return time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	}
	return e
}

func TestExportJSON(t *testing.T) {
	data, err := newTestExporter().Export(testTasks(), "json")
	require.NoError(t, err)

	var records []model.Record
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "Buy milk", records[0].Title)
	require.NotNil(t, records[0].Deadline)
	assert.Equal(t, "2020-01-01", *records[0].Deadline)
}

func TestExportCSV(t *testing.T) {
	data, err := newTestExporter().Export(testTasks(), "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,title,description,deadline,status,created_date", lines[0])
	assert.Contains(t, lines[1], "overdue")
	assert.Contains(t, lines[2], "completed")
}

func TestExportPDF(t *testing.T) {
	data, err := newTestExporter().Export(testTasks(), "pdf")
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := newTestExporter().Export(testTasks(), "xml")
	require.Error(t, err)
}

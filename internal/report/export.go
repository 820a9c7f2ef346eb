package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"taskmaster/internal/model"
)

// Exporter renders a snapshot of the task collection in one of the
// supported formats. JSON output reuses the persisted record shape.
type Exporter struct {
	now func() time.Time
}

func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

func (e *Exporter) Export(tasks []model.Task, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		records := make([]model.Record, 0, len(tasks))
		for _, t := range tasks {
			records = append(records, t.ToRecord())
		}
		return json.MarshalIndent(records, "", "  ")
	case "csv":
		var b strings.Builder
		w := csv.NewWriter(&b)
		_ = w.Write([]string{"id", "title", "description", "deadline", "status", "created_date"})
		now := e.now()
		for _, t := range tasks {
			_ = w.Write([]string{
				strconv.Itoa(t.ID),
				t.Title,
				t.Description,
				formatDeadline(t.Deadline),
				string(t.StatusAt(now)),
				t.CreatedAt.Format(model.CreatedLayout),
			})
		}
		w.Flush()
		return []byte(b.String()), nil
	case "pdf":
		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(40, 10, "Task Report")
		pdf.Ln(12)
		pdf.SetFont("Arial", "", 10)
		now := e.now()
		for _, t := range tasks {
			line := fmt.Sprintf("#%d [%s] %s (deadline: %s)", t.ID, t.StatusAt(now), t.Title, formatDeadline(t.Deadline))
			pdf.MultiCell(0, 6, line, "0", "L", false)
			if t.Description != "" {
				pdf.MultiCell(0, 5, "    "+t.Description, "0", "L", false)
			}
		}
		var buf bytes.Buffer
		if err := pdf.Output(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown format %s", format)
	}
}

func formatDeadline(deadline *time.Time) string {
	if deadline == nil {
		return ""
	}
	return deadline.Format(model.DeadlineLayout)
}

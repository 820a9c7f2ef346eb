package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"taskmaster/internal/i18n"
	"taskmaster/internal/model"
	"taskmaster/internal/task"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.tmpl"))
	taskTemplate  = template.Must(template.ParseFS(templateFS, "templates/task.tmpl"))
)

// Server exposes a read-only local view over the task collection. All
// mutation stays in the TUI; the web surface only lists and inspects.
type Server struct {
	manager *task.Manager
	loc     *i18n.Localizer
}

type taskRow struct {
	ID       int
	Title    string
	Deadline string
	Status   string
	Created  string
}

func NewServer(manager *task.Manager, loc *i18n.Localizer) *Server {
	return &Server{manager: manager, loc: loc}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.indexHandler)
	mux.HandleFunc("/tasks/", s.taskHandler)
	mux.HandleFunc("/api/tasks", s.apiTasksHandler)
	mux.HandleFunc("/api/tasks/", s.apiTaskHandler)
	return mux
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	view := viewFromRequest(r)
	tasks := s.manager.Filtered(view)

	rows := make([]taskRow, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, s.buildRow(t))
	}

	data := struct {
		Title string
		View  string
		Total int
		Rows  []taskRow
	}{Title: s.loc.T("appTitle"), View: string(view), Total: len(rows), Rows: rows}

	if err := indexTemplate.Execute(w, data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
}

func (s *Server) taskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.URL.Path, "/tasks/")
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	t, ok := s.manager.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, task.ErrTaskNotFound)
		return
	}

	data := struct {
		Title       string
		Row         taskRow
		Description string
	}{Title: s.loc.T("appTitle"), Row: s.buildRow(t), Description: t.Description}

	if err := taskTemplate.Execute(w, data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
}

func (s *Server) apiTasksHandler(w http.ResponseWriter, r *http.Request) {
	view := viewFromRequest(r)
	tasks := s.manager.Filtered(view)

	records := make([]model.Record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, t.ToRecord())
	}
	writeJSON(w, records)
}

func (s *Server) apiTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.URL.Path, "/api/tasks/")
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	t, ok := s.manager.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, task.ErrTaskNotFound)
		return
	}

	payload := struct {
		Task   model.Record `json:"task"`
		Status model.Status `json:"status"`
	}{Task: t.ToRecord(), Status: s.manager.StatusOf(t)}

	writeJSON(w, payload)
}

func (s *Server) buildRow(t model.Task) taskRow {
	deadline := ""
	if t.Deadline != nil {
		deadline = t.Deadline.Format(model.DeadlineLayout)
	}
	status := s.loc.T("statusActive")
	switch s.manager.StatusOf(t) {
	case model.StatusCompleted:
		status = s.loc.T("statusCompleted")
	case model.StatusOverdue:
		status = s.loc.T("statusOverdue")
	}
	return taskRow{
		ID:       t.ID,
		Title:    t.Title,
		Deadline: deadline,
		Status:   status,
		Created:  t.CreatedAt.Format(model.CreatedLayout),
	}
}

func viewFromRequest(r *http.Request) model.View {
	value := model.View(strings.TrimSpace(r.URL.Query().Get("view")))
	switch value {
	case model.ViewActive, model.ViewCompleted, model.ViewOverdue:
		return value
	default:
		return model.ViewAll
	}
}

func parseID(path, prefix string) (int, error) {
	if !strings.HasPrefix(path, prefix) {
		return 0, fmt.Errorf("invalid path")
	}
	value := strings.TrimPrefix(path, prefix)
	value = strings.Trim(value, "/")
	if value == "" {
		return 0, fmt.Errorf("missing id")
	}
	return strconv.Atoi(value)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(err.Error()))
}

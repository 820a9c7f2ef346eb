package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"taskmaster/internal/i18n"
	"taskmaster/internal/model"
	"taskmaster/internal/task"
)

type formField struct {
	Label string
	Value string
}

const (
	fieldTitle = iota
	fieldDescription
	fieldDeadline
)

var errBadDeadline = errors.New("invalid deadline")

func buildFormFields(loc *i18n.Localizer, t *model.Task) []formField {
	fields := []formField{
		{Label: loc.T("formTitle")},
		{Label: loc.T("formDescription")},
		{Label: loc.T("formDeadline")},
	}

	if t == nil {
		return fields
	}

	fields[fieldTitle].Value = t.Title
	fields[fieldDescription].Value = t.Description
	if t.Deadline != nil {
		fields[fieldDeadline].Value = t.Deadline.Format(model.DeadlineLayout)
	}

	return fields
}

func parseFormFields(fields []formField) (title, description string, deadline *time.Time, err error) {
	title = strings.TrimSpace(fields[fieldTitle].Value)
	description = strings.TrimSpace(fields[fieldDescription].Value)

	raw := strings.TrimSpace(fields[fieldDeadline].Value)
	if raw != "" {
		parsed, parseErr := time.Parse(model.DeadlineLayout, raw)
		if parseErr != nil {
			return "", "", nil, errBadDeadline
		}
		deadline = &parsed
	}
	return title, description, deadline, nil
}

func (u *UI) showForm(gui *gocui.Gui) error {
	if u.form == nil {
		return nil
	}

	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := min(8, max(6, maxY/2))
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	x1 := x0 + width
	y1 := y0 + height

	view, err := gui.SetView(viewForm, x0, y0, x1, y1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Wrap = true
	}
	if u.form.taskID != 0 {
		view.Title = u.loc.T("formEditTask")
	} else {
		view.Title = u.loc.T("formNewTask")
	}
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = u.formEditor
	u.renderForm(view)
	_, _ = gui.SetCurrentView(viewForm)
	return nil
}

func (u *UI) renderForm(view *gocui.View) {
	if u.form == nil || view == nil {
		return
	}
	view.Clear()
	for index, field := range u.form.fields {
		prefix := "  "
		if index == u.form.index {
			prefix = "> "
		}
		fmt.Fprintf(view, "%s%s: %s\n", prefix, field.Label, field.Value)
	}
	label := u.form.fields[u.form.index].Label + ": "
	cursorX := len([]rune(label)) + len([]rune(u.form.fields[u.form.index].Value)) + 2
	view.SetCursor(cursorX, u.form.index)
}

func (u *UI) submitForm(gui *gocui.Gui, _ *gocui.View) error {
	if u.form == nil {
		return nil
	}

	title, description, deadline, err := parseFormFields(u.form.fields)
	if err != nil {
		u.status = u.loc.T("errBadDeadline")
		return nil
	}

	if u.form.taskID == 0 {
		if _, err := u.manager.Add(title, description, deadline); err != nil {
			u.status = u.formError(err)
			return nil
		}
		u.status = u.loc.T("msgTaskAdded")
	} else {
		if err := u.manager.Update(u.form.taskID, title, description, deadline); err != nil {
			u.status = u.formError(err)
			return nil
		}
		u.status = u.loc.T("msgTaskUpdated")
	}

	u.form = nil
	if gui != nil {
		_ = gui.DeleteView(viewForm)
		_, _ = gui.SetCurrentView(u.focus)
	}
	u.refresh()
	return nil
}

func (u *UI) formError(err error) string {
	if errors.Is(err, task.ErrEmptyTitle) {
		return u.loc.T("errEmptyTitle")
	}
	return err.Error()
}

func (u *UI) cancelForm(gui *gocui.Gui, _ *gocui.View) error {
	u.form = nil
	_ = gui.DeleteView(viewForm)
	_, _ = gui.SetCurrentView(u.focus)
	return nil
}

func (u *UI) nextFormField(_ *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index < len(u.form.fields)-1 {
		u.form.index++
	}
	u.renderForm(view)
	return nil
}

func (u *UI) prevFormField(_ *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index > 0 {
		u.form.index--
	}
	u.renderForm(view)
	return nil
}

func (e *formEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || ui.form == nil || view == nil {
		return false
	}
	field := &ui.form.fields[ui.form.index]

	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(field.Value)
		if len(runes) > 0 {
			field.Value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		field.Value += " "
	case gocui.KeyCtrlU:
		field.Value = ""
	}

	if ch != 0 && ch != '\n' && ch != '\r' && mod == 0 {
		field.Value += string(ch)
	}

	ui.renderForm(view)
	return true
}

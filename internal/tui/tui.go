package tui

import (
	"fmt"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"taskmaster/internal/i18n"
	"taskmaster/internal/model"
	"taskmaster/internal/task"
)

const (
	viewHeader  = "header"
	viewFooter  = "footer"
	viewList    = "list"
	viewDetails = "details"
	viewForm    = "form"
	viewHelp    = "help"
)

type UI struct {
	manager *task.Manager
	loc     *i18n.Localizer
	gui     *gocui.Gui

	view     model.View
	tasks    []model.Task
	selected int
	focus    string

	form       *formState
	formEditor *formEditor
	helpActive bool
	status     string
}

type formState struct {
	taskID int
	fields []formField
	index  int
}

type formEditor struct {
	ui *UI
}

func Run(manager *task.Manager, loc *i18n.Localizer) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := &UI{
		manager: manager,
		loc:     loc,
		gui:     gui,
		view:    model.ViewAll,
		focus:   viewList,
	}
	gui.Mouse = true
	ui.formEditor = &formEditor{ui: ui}

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	ui.refresh()

	if err := gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}

	return nil
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	if err := gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'q', gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'r', gocui.ModNone, u.reload); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'a', gocui.ModNone, u.addTask); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'e', gocui.ModNone, u.editTask); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'd', gocui.ModNone, u.deleteTask); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'x', gocui.ModNone, u.toggleCompletion); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'b', gocui.ModNone, u.takeBackup); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'f', gocui.ModNone, u.cycleView); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", gocui.KeyTab, gocui.ModNone, u.cycleView); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '?', gocui.ModNone, u.toggleHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '1', gocui.ModNone, u.selectView(model.ViewAll)); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '2', gocui.ModNone, u.selectView(model.ViewActive)); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '3', gocui.ModNone, u.selectView(model.ViewCompleted)); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '4', gocui.ModNone, u.selectView(model.ViewOverdue)); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewList, gocui.KeyArrowDown, gocui.ModNone, u.moveDown); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewList, 'j', gocui.ModNone, u.moveDown); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewList, gocui.KeyArrowUp, gocui.ModNone, u.moveUp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewList, 'k', gocui.ModNone, u.moveUp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEnter, gocui.ModNone, u.submitForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyCtrlJ, gocui.ModNone, u.submitForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyTab, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyBacktab, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowDown, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowUp, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEsc, gocui.ModNone, u.cancelForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, gocui.KeyEsc, gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, 'q', gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, '?', gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	if err := gui.SetViewClickBinding(&gocui.ViewMouseBinding{ViewName: viewList, Key: gocui.MouseLeft, Handler: func(opts gocui.ViewMouseBindingOpts) error {
		return u.onListClick(gui, opts)
	}}); err != nil {
		return err
	}
	for _, name := range []string{viewList, viewDetails} {
		if err := gui.SetKeybinding(name, gocui.MouseWheelUp, gocui.ModNone, u.scrollUp); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, gocui.MouseWheelDown, gocui.ModNone, u.scrollDown); err != nil {
			return err
		}
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.Wrap = true
	headerView.FgColor = gocui.ColorDefault
	u.renderHeader(headerView)

	footerY1 := maxY - 2
	if footerY1 < 1 {
		footerY1 = 1
	}
	footerY0 := footerY1 - 2
	if footerY0 < 1 {
		footerY0 = 1
	}
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	footerView.BgColor = gocui.ColorDefault
	u.renderFooter(footerView)

	bodyTop := 1
	bodyBottom := footerY0 - 1
	if bodyBottom < bodyTop {
		return nil
	}

	listWidth := listPaneWidth(maxX)
	listView, err := gui.SetView(viewList, 0, bodyTop, listWidth-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	listView.Title = u.listTitle()
	applyViewStyle(listView, u.focus == viewList, true)
	u.renderList(listView)

	detailsX0 := listWidth
	if detailsX0 >= maxX {
		detailsX0 = listWidth - 1
	}
	detailsView, err := gui.SetView(viewDetails, detailsX0, bodyTop, maxX-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	detailsView.Title = u.loc.T("paneDetails")
	detailsView.Wrap = true
	applyViewStyle(detailsView, u.focus == viewDetails, false)
	u.renderDetails(detailsView)

	_, _ = gui.SetViewOnTop(viewHeader)
	_, _ = gui.SetViewOnTop(viewFooter)

	if u.form != nil {
		if err := u.showForm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewForm)
	}

	if u.helpActive {
		if err := u.showHelp(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewHelp)
	}

	if gui.CurrentView() == nil {
		_, _ = gui.SetCurrentView(u.focus)
	}

	gui.Cursor = u.form != nil

	return nil
}

func listPaneWidth(width int) int {
	safeWidth := max(width-2, 20)
	listWidth := safeWidth * 3 / 5
	if listWidth < 30 {
		listWidth = min(30, safeWidth)
	}
	return listWidth
}

// refresh recomputes the filtered list from the manager without touching
// the store.
func (u *UI) refresh() {
	u.tasks = u.manager.Filtered(u.view)
	if u.selected >= len(u.tasks) {
		u.selected = max(len(u.tasks)-1, 0)
	}
}

func (u *UI) listTitle() string {
	return fmt.Sprintf("%s [%s]", u.loc.T("paneTasks"), u.viewLabel(u.view))
}

func (u *UI) viewLabel(view model.View) string {
	switch view {
	case model.ViewActive:
		return u.loc.T("viewActive")
	case model.ViewCompleted:
		return u.loc.T("viewCompleted")
	case model.ViewOverdue:
		return u.loc.T("viewOverdue")
	default:
		return u.loc.T("viewAll")
	}
}

func (u *UI) statusLabel(t model.Task) string {
	switch u.manager.StatusOf(t) {
	case model.StatusCompleted:
		return u.loc.T("statusCompleted")
	case model.StatusOverdue:
		return u.loc.T("statusOverdue")
	default:
		return u.loc.T("statusActive")
	}
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	counts := fmt.Sprintf("%d/%d", len(u.tasks), len(u.manager.Tasks()))
	fmt.Fprintf(view, "%s | %s: %s | %s", u.loc.T("appTitle"), u.viewLabel(u.view), counts, "1-4 views")
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	view.SetOrigin(0, 0)
	view.SetCursor(0, 0)

	fmt.Fprintln(view, "a add | e edit | d delete | x toggle | b backup | enter save (form)")
	fmt.Fprintln(view, "f/tab cycle view | 1-4 views | j/k move | r reload | ? help | q quit")
	if u.status != "" {
		fmt.Fprint(view, u.status)
	}
}

func (u *UI) renderList(view *gocui.View) {
	view.Clear()
	for i, t := range u.tasks {
		prefix := " "
		if i == u.selected {
			if u.focus == viewList {
				prefix = ">"
			} else {
				prefix = "*"
			}
		}
		fmt.Fprintf(view, "%s %s\n", prefix, u.formatTaskLine(t))
	}
	if u.focus == viewList {
		view.SetCursor(0, min(u.selected, len(u.tasks)-1))
	}
}

func (u *UI) formatTaskLine(t model.Task) string {
	marker := "[ ]"
	if t.Completed {
		marker = "[x]"
	}
	deadline := u.loc.T("noDeadline")
	if t.Deadline != nil {
		deadline = t.Deadline.Format(model.DeadlineLayout)
	}
	return fmt.Sprintf("%s %s | %s | %s", marker, t.Title, deadline, u.statusLabel(t))
}

func (u *UI) renderDetails(view *gocui.View) {
	view.Clear()
	selected := u.selectedTask()
	if selected == nil {
		fmt.Fprint(view, u.loc.T("noTaskSelected"))
		return
	}

	deadline := u.loc.T("noDeadline")
	if selected.Deadline != nil {
		deadline = selected.Deadline.Format(model.DeadlineLayout)
	}
	description := selected.Description
	if strings.TrimSpace(description) == "" {
		description = u.loc.T("noDescription")
	}

	lines := []string{
		fmt.Sprintf("%s: %s", u.loc.T("detailTitle"), selected.Title),
		fmt.Sprintf("%s: %s", u.loc.T("detailStatus"), u.statusLabel(*selected)),
		fmt.Sprintf("%s: %s", u.loc.T("detailDeadline"), deadline),
		fmt.Sprintf("%s: %s", u.loc.T("detailCreated"), selected.CreatedAt.Format(model.CreatedLayout)),
		"",
		fmt.Sprintf("%s:", u.loc.T("detailDescription")),
		description,
	}
	fmt.Fprint(view, strings.Join(lines, "\n"))
}

func (u *UI) selectedTask() *model.Task {
	if u.selected >= 0 && u.selected < len(u.tasks) {
		return &u.tasks[u.selected]
	}
	return nil
}

func (u *UI) onListClick(gui *gocui.Gui, opts gocui.ViewMouseBindingOpts) error {
	if u.inputActive() {
		return nil
	}
	view, err := gui.View(viewList)
	if err != nil {
		return nil
	}

	_, y0, _, _ := view.Dimensions()
	_, oy := view.Origin()
	row := opts.Y - y0 - 1 + oy
	if row < 0 {
		row = 0
	}
	u.selected = min(row, len(u.tasks)-1)
	u.focus = viewList
	_, _ = gui.SetCurrentView(viewList)
	return nil
}

func (u *UI) scrollUp(gui *gocui.Gui, view *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if view == nil {
		view = gui.CurrentView()
	}
	if view == nil {
		return nil
	}
	view.ScrollUp(1)
	return nil
}

func (u *UI) scrollDown(gui *gocui.Gui, view *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if view == nil {
		view = gui.CurrentView()
	}
	if view == nil {
		return nil
	}
	view.ScrollDown(1)
	return nil
}

func (u *UI) moveDown(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.selected < len(u.tasks)-1 {
		u.selected++
	}
	return nil
}

func (u *UI) moveUp(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.selected > 0 {
		u.selected--
	}
	return nil
}

func (u *UI) reload(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.status = ""
	u.manager.Load()
	u.refresh()
	return nil
}

func (u *UI) cycleView(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	views := model.Views()
	for i, view := range views {
		if view == u.view {
			u.view = views[(i+1)%len(views)]
			break
		}
	}
	u.selected = 0
	u.refresh()
	return nil
}

func (u *UI) selectView(view model.View) func(*gocui.Gui, *gocui.View) error {
	return func(_ *gocui.Gui, _ *gocui.View) error {
		if u.inputActive() {
			return nil
		}
		u.view = view
		u.selected = 0
		u.refresh()
		return nil
	}
}

func (u *UI) addTask(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.form = &formState{fields: buildFormFields(u.loc, nil)}
	return nil
}

func (u *UI) editTask(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	u.form = &formState{taskID: selected.ID, fields: buildFormFields(u.loc, selected)}
	return nil
}

func (u *UI) deleteTask(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	if err := u.manager.RemoveByID(selected.ID); err != nil {
		u.status = err.Error()
		return nil
	}
	u.status = u.loc.T("msgTaskDeleted")
	u.refresh()
	return nil
}

func (u *UI) toggleCompletion(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	wasCompleted := selected.Completed
	if err := u.manager.ToggleCompletion(selected.ID); err != nil {
		u.status = err.Error()
		return nil
	}
	if wasCompleted {
		u.status = u.loc.T("msgTaskReopened")
	} else {
		u.status = u.loc.T("msgTaskCompleted")
	}
	u.refresh()
	return nil
}

func (u *UI) takeBackup(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	name, err := u.manager.Backup()
	if err != nil {
		u.status = u.loc.T("msgBackupFailed")
		return nil
	}
	u.status = fmt.Sprintf("%s %s", u.loc.T("msgBackupCreated"), name)
	return nil
}

func (u *UI) toggleHelp(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() && !u.helpActive {
		return nil
	}
	u.helpActive = !u.helpActive
	return nil
}

func (u *UI) closeHelp(gui *gocui.Gui, _ *gocui.View) error {
	u.helpActive = false
	_ = gui.DeleteView(viewHelp)
	_, _ = gui.SetCurrentView(u.focus)
	return nil
}

func (u *UI) showHelp(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := 12
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	x1 := x0 + width
	y1 := y0 + height

	view, err := gui.SetView(viewHelp, x0, y0, x1, y1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Help"
		view.Wrap = true
	}
	view.Clear()
	fmt.Fprint(view, helpText())
	_, _ = gui.SetCurrentView(viewHelp)
	return nil
}

func (u *UI) inputActive() bool {
	return u.form != nil || u.helpActive
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}

func helpText() string {
	return strings.Join([]string{
		"Navigation:",
		"  j/k or arrows move selection",
		"  f or tab cycle view filter",
		"  1 All | 2 Active | 3 Completed | 4 Overdue",
		"  mouse click to select, wheel scrolls",
		"",
		"Actions:",
		"  a add task | e edit task | d delete task",
		"  x toggle completion | b backup data file",
		"  enter save (form) | tab next field | esc cancel",
		"",
		"Other:",
		"  r reload from disk | ? help | q quit",
	}, "\n")
}

func applyViewStyle(view *gocui.View, focused bool, highlight bool) {
	view.Frame = true
	view.Highlight = focused && highlight
	view.HighlightInactive = false
	view.SelBgColor = gocui.ColorBlue
	view.SelFgColor = gocui.ColorBlack
	view.InactiveViewSelBgColor = gocui.ColorDefault
	if focused {
		view.FrameColor = gocui.ColorCyan
		view.TitleColor = gocui.ColorCyan
	} else {
		view.FrameColor = gocui.ColorDefault
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

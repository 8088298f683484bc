// Package tui is the interactive board: three status columns side by side,
// a form for creating and editing tasks, and keyboard moves in place of drag
// and drop.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/taskflow/internal/board"
	"github.com/Makepad-fr/taskflow/internal/model"
)

type Model struct {
	ctx    context.Context
	ctrl   *board.Controller
	logger *log.Logger

	columns [model.ColumnCount]list.Model
	active  int
	form    *form

	keys   boardKeys
	help   help.Model
	width  int
	height int

	status string // last error, cleared on the next key
	notice string // load warning, shown until quit
}

type Option func(*Model)

// WithNotice shows msg in the status line for the whole session.
func WithNotice(msg string) Option {
	return func(m *Model) { m.notice = msg }
}

func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

func New(ctx context.Context, ctrl *board.Controller, opts ...Option) Model {
	m := Model{
		ctx:    ctx,
		ctrl:   ctrl,
		logger: log.New(io.Discard),
		keys:   newBoardKeys(),
		help:   help.New(),
		width:  80,
		height: 24,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.help.Styles.ShortKey = helpStyle
	m.help.Styles.ShortDesc = helpStyle
	m.help.Styles.FullKey = helpStyle
	m.help.Styles.FullDesc = helpStyle

	for i := range m.columns {
		l := list.New(nil, cardDelegate{focused: i == m.active}, 0, 0)
		l.SetShowTitle(false)
		l.SetShowHelp(false)
		l.SetShowStatusBar(false)
		l.SetFilteringEnabled(false)
		l.SetShowPagination(true)
		l.Styles.PaginationStyle = helpStyle
		l.DisableQuitKeybindings()
		m.columns[i] = l
	}
	m.resize()
	m.reload()
	return m
}

// Run starts the board and blocks until the user quits or ctx ends.
func Run(ctx context.Context, ctrl *board.Controller, opts ...Option) error {
	p := tea.NewProgram(New(ctx, ctrl, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}
	if m.form != nil {
		return m.updateForm(msg)
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.status = ""
	switch {
	case key.Matches(k, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(k, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	case key.Matches(k, m.keys.Left):
		m.focus(m.active - 1)
	case key.Matches(k, m.keys.Right):
		m.focus(m.active + 1)
	case key.Matches(k, m.keys.Up):
		m.columns[m.active].CursorUp()
	case key.Matches(k, m.keys.Down):
		m.columns[m.active].CursorDown()
	case key.Matches(k, m.keys.Add):
		m.ctrl.BeginCreate()
		return m, m.openForm()
	case key.Matches(k, m.keys.Edit):
		if t, ok := m.selected(); ok {
			m.ctrl.BeginEdit(t)
			return m, m.openForm()
		}
	case key.Matches(k, m.keys.Delete):
		if t, ok := m.selected(); ok {
			m.report(m.ctrl.Delete(m.ctx, t.ID))
			m.reload()
		}
	case key.Matches(k, m.keys.MoveLeft):
		m.moveAcross(-1)
	case key.Matches(k, m.keys.MoveRight):
		m.moveAcross(+1)
	case key.Matches(k, m.keys.MoveUp):
		m.moveWithin(-1)
	case key.Matches(k, m.keys.MoveDown):
		m.moveWithin(+1)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	f, cmd, action := m.form.update(msg)
	m.form = &f
	switch action {
	case formCancel:
		m.ctrl.Cancel()
		m.form = nil
		return m, nil
	case formSubmit:
		d, err := m.submit()
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		m.form = nil
		m.reload()
		if col := d.Status.Column(); col >= 0 {
			m.focus(col)
			m.selectID(d.ID, d.Status)
		}
	}
	return m, cmd
}

// submit copies the widgets into the draft and saves it. Blank title or
// description never reaches the store.
func (m *Model) submit() (board.Draft, error) {
	values := m.form.values()
	for _, field := range []board.Field{board.FieldTitle, board.FieldDescription, board.FieldStatus, board.FieldPriority} {
		if err := m.ctrl.SetField(field, values[field]); err != nil {
			return board.Draft{}, err
		}
	}
	d, _ := m.ctrl.Draft()
	if err := d.Validate(); err != nil {
		return d, err
	}
	if err := m.ctrl.Submit(m.ctx); err != nil {
		m.logger.Error("save failed", "err", err)
		return d, fmt.Errorf("save failed: %w", err)
	}
	return d, nil
}

func (m *Model) openForm() tea.Cmd {
	d, _ := m.ctrl.Draft()
	f, cmd := newForm(d, m.ctrl.Mode())
	f.setWidth(m.width)
	m.form = &f
	return cmd
}

// moveAcross sends the selected card to the neighbouring column at the same
// row. Past the first or last column there is no drop target.
func (m *Model) moveAcross(delta int) {
	t, ok := m.selected()
	if !ok {
		return
	}
	to := m.active + delta
	if to < 0 || to >= model.ColumnCount {
		m.report(m.ctrl.MoveTask(m.ctx, t.ID, nil))
		return
	}
	row := m.columns[m.active].Index()
	dest, err := m.ctrl.DropTarget(t.ID, to, row)
	if err == nil {
		err = m.ctrl.MoveTask(m.ctx, t.ID, dest)
	}
	if m.report(err) {
		return
	}
	m.reload()
	m.focus(to)
	m.selectID(t.ID, model.Columns[to])
}

// moveWithin shifts the selected card one row up or down in its column.
func (m *Model) moveWithin(delta int) {
	t, ok := m.selected()
	if !ok {
		return
	}
	row := m.columns[m.active].Index() + delta
	if row < 0 || row >= len(m.columns[m.active].Items()) {
		return
	}
	dest, err := m.ctrl.DropTarget(t.ID, m.active, row)
	if err == nil {
		err = m.ctrl.MoveTask(m.ctx, t.ID, dest)
	}
	if m.report(err) {
		return
	}
	m.reload()
	m.columns[m.active].Select(row)
}

// report shows err in the status line and tells whether there was one.
func (m *Model) report(err error) bool {
	if err == nil {
		return false
	}
	m.status = err.Error()
	m.logger.Warn("board action failed", "err", err)
	return true
}

func (m Model) selected() (model.Task, bool) {
	c, ok := m.columns[m.active].SelectedItem().(card)
	return c.task, ok
}

func (m *Model) focus(col int) {
	if col < 0 || col >= model.ColumnCount {
		return
	}
	m.active = col
	for i := range m.columns {
		m.columns[i].SetDelegate(cardDelegate{focused: i == col})
	}
}

// selectID puts the cursor on id. An empty id, as after a create, selects
// the last card of the column.
func (m *Model) selectID(id string, status model.Status) {
	col := status.Column()
	if col < 0 {
		return
	}
	items := m.columns[col].Items()
	for i, it := range items {
		if c, ok := it.(card); ok && c.task.ID == id {
			m.columns[col].Select(i)
			return
		}
	}
	if id == "" && len(items) > 0 {
		m.columns[col].Select(len(items) - 1)
	}
}

// reload rebuilds the columns from the controller snapshot, keeping the
// cursor rows where they were.
func (m *Model) reload() {
	for i, tasks := range m.ctrl.Columns() {
		items := make([]list.Item, len(tasks))
		for j, t := range tasks {
			items[j] = card{task: t}
		}
		row := m.columns[i].Index()
		m.columns[i].SetItems(items)
		if len(items) > 0 {
			m.columns[i].Select(min(row, len(items)-1))
		}
	}
}

func (m *Model) resize() {
	colWidth := max(m.width/model.ColumnCount, 16)
	chrome := 6 // header, column title, borders, status line
	chrome += lipgloss.Height(m.help.View(m.keys))
	h := max(m.height-chrome, 4)
	for i := range m.columns {
		m.columns[i].SetSize(colWidth-4, h)
	}
	m.help.Width = m.width
	if m.form != nil {
		m.form.setWidth(m.width)
	}
}

func (m Model) View() string {
	counts := m.ctrl.Counts()
	total := counts[0] + counts[1] + counts[2]
	header := fmt.Sprintf("%s   %s %d  %s %d/%d",
		titleStyle.Render("Board"),
		accentStyle.Render("Total"), total,
		statusStyle(model.StatusCompleted).Render("✔"), counts[2], total,
	)

	if m.form != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			m.form.view(m.width),
			helpStyle.Render(m.help.ShortHelpView(m.form.keys.ShortHelp())),
		)
	}

	colWidth := max(m.width/model.ColumnCount, 16)
	cols := make([]string, model.ColumnCount)
	for i := range m.columns {
		status := model.Columns[i]
		title := statusStyle(status).Bold(true).Render(fmt.Sprintf("%s (%d)", status.Label(), counts[i]))
		body := m.columns[i].View()
		if counts[i] == 0 {
			body = mutedStyle.Render("no tasks")
		}
		style := columnStyle
		if i == m.active {
			style = activeColumnStyle
		}
		cols[i] = style.Width(colWidth - 2).Render(title + "\n" + body)
	}

	var statusLine []string
	if m.notice != "" {
		statusLine = append(statusLine, warnStyle.Render("! "+m.notice))
	}
	if m.status != "" {
		statusLine = append(statusLine, errorStyle.Render("✖ "+m.status))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
		strings.Join(statusLine, "  "),
		m.help.View(m.keys),
	)
}

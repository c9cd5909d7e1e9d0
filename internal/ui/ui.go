package ui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"myday/internal/config"
	"myday/internal/todo"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeMetadata
	modeSearch
	modeNewList
	modeAttach
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmTodo
	confirmList
)

// recurrenceMsg asks the model to materialize due recurrences. rearm is set
// for the midnight timer, which schedules the next one.
type recurrenceMsg struct {
	rearm bool
}

type attachedMsg struct {
	id    todo.ID
	files []todo.AttachedFile
	err   error
}

type Model struct {
	store   *todo.Store
	cfg     config.Config
	status  *StatusLine
	opts    todo.ViewOptions
	pending []todo.Todo
	done    []todo.Todo
	cursor  int
	mode    mode
	input   textinput.Model
	confirm confirmKind
	target  todo.ID
	meta    *metaState
	width   int
	now     func() time.Time
}

// New builds the model over store. status should be the notifier the store
// was created with, so store notices reach the status bar.
func New(store *todo.Store, cfg config.Config, status *StatusLine) Model {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = todo.MaxTextLength
	ti.Width = 40

	if status == nil {
		status = NewStatusLine()
	}
	m := Model{
		store:  store,
		cfg:    cfg,
		status: status,
		opts:   store.DefaultView(),
		input:  ti,
		mode:   modeList,
		now:    time.Now,
	}
	if n, _ := status.Latest(); n.Message == "" {
		status.Set(todo.NoticeInfo, fmt.Sprintf("Press '%s' to add, '%s' to toggle, '%s' to search.",
			cfg.Keys.Add, keyLabel(cfg.Keys.Toggle), cfg.Keys.Search))
	}
	m.refresh()
	return m
}

func Run(store *todo.Store, cfg config.Config, status *StatusLine) error {
	program := tea.NewProgram(New(store, cfg, status), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return recurrenceMsg{} },
		m.scheduleMidnight(),
	)
}

func (m Model) scheduleMidnight() tea.Cmd {
	return tea.Tick(todo.UntilMidnight(m.now()), func(time.Time) tea.Msg {
		return recurrenceMsg{rearm: true}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirm != confirmNone {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
	case recurrenceMsg:
		m.store.CheckRecurrencesNow()
		m.refresh()
		if msg.rearm {
			return m, m.scheduleMidnight()
		}
	case attachedMsg:
		if len(msg.files) > 0 {
			if err := m.store.AddAttachments(msg.id, msg.files...); err == nil {
				m.status.Set(todo.NoticeSuccess, fmt.Sprintf("Attached %d file(s)", len(msg.files)))
			}
		}
		if msg.err != nil {
			m.status.Set(todo.NoticeWarning, fmt.Sprintf("Some files were skipped: %v", msg.err))
		}
		m.refresh()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.mode {
	case modeAdd:
		return m.updateAddMode(key, msg)
	case modeMetadata:
		return m.updateMetadataMode(key, msg)
	case modeSearch:
		return m.updateSearchMode(key, msg)
	case modeNewList:
		return m.updateNewListMode(key, msg)
	case modeAttach:
		return m.updateAttachMode(key, msg)
	}
	return m.updateListMode(key)
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m = m.leaveInput()
		m.status.Set(todo.NoticeInfo, "Cancelled")
		return m, nil
	case m.cfg.Keys.Confirm:
		in := todo.NewTodo{Text: m.input.Value()}
		switch m.opts.Filter {
		case todo.FilterToday:
			in.IsMyDay = true
		case todo.FilterImportant:
			in.IsImportant = true
		}
		created, err := m.store.AddTodo(in)
		if err != nil {
			return m, nil
		}
		m = m.leaveInput()
		m.refresh()
		m.cursor = m.indexOf(created.ID)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.opts.Query = ""
		m = m.leaveInput()
		m.refresh()
		return m, nil
	case m.cfg.Keys.Confirm:
		m = m.leaveInput()
		if m.opts.Query != "" {
			m.status.Set(todo.NoticeInfo, fmt.Sprintf("Search %q: %d result(s)", m.opts.Query, len(m.pending)))
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.opts.Query = m.input.Value()
		m.refresh()
		return m, cmd
	}
}

func (m Model) updateNewListMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m = m.leaveInput()
		return m, nil
	case m.cfg.Keys.Confirm:
		l, err := m.store.AddList(todo.NewList{Name: m.input.Value()})
		if err != nil {
			return m, nil
		}
		m = m.leaveInput()
		m.store.SelectList(l.ID)
		m.opts.ListID = l.ID
		m.refresh()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateAttachMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m = m.leaveInput()
		return m, nil
	case m.cfg.Keys.Confirm:
		var paths []string
		for _, p := range strings.Split(m.input.Value(), ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		id := m.target
		m = m.leaveInput()
		if len(paths) == 0 {
			return m, nil
		}
		m.status.Set(todo.NoticeInfo, fmt.Sprintf("Reading %d file(s)...", len(paths)))
		return m, loadAttachments(id, paths)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func loadAttachments(id todo.ID, paths []string) tea.Cmd {
	return func() tea.Msg {
		var files []todo.AttachedFile
		err := todo.ReadAttachments(context.Background(), paths, func(f todo.AttachedFile) {
			files = append(files, f)
		})
		return attachedMsg{id: id, files: files, err: err}
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	n := m.rowCount()
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.Down, "down":
		m.cursor = clampCursor(m.cursor+1, n)
	case k.Up, "up":
		m.cursor = clampCursor(m.cursor-1, n)
	case k.Add:
		return m.enterInput(modeAdd, "Task title", "", todo.MaxTextLength)
	case k.Search:
		return m.enterInput(modeSearch, "Search text, memo, priority or date", m.opts.Query, todo.MaxTextLength)
	case k.NewList:
		return m.enterInput(modeNewList, "List name", "", todo.MaxListNameLength)
	case k.Toggle:
		if t, ok := m.selected(); ok {
			m.store.ToggleCompleted(t.ID)
			m.refresh()
		}
	case k.Important:
		if t, ok := m.selected(); ok {
			m.store.ToggleImportant(t.ID)
			m.refresh()
		}
	case k.MyDay:
		if t, ok := m.selected(); ok {
			m.store.ToggleMyDay(t.ID)
			m.refresh()
		}
	case k.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirm = confirmTodo
		m.target = t.ID
		m.status.Set(todo.NoticeWarning, fmt.Sprintf("Delete %q? y/n", t.Text))
	case k.DeleteList:
		id := m.store.CurrentListID()
		if id == 0 {
			m.status.Set(todo.NoticeInfo, "Select a list first")
			return m, nil
		}
		if id == todo.DefaultListID {
			// the store refuses and reports it
			m.store.DeleteList(id)
			return m, nil
		}
		l, _ := m.store.List(id)
		m.confirm = confirmList
		m.target = id
		m.status.Set(todo.NoticeWarning, fmt.Sprintf("Delete list %q? Its tasks move to %s. y/n", l.Name, todo.DefaultListName))
	case k.Edit:
		t, ok := m.selected()
		if !ok {
			m.status.Set(todo.NoticeInfo, "No tasks to edit")
			return m, nil
		}
		return m.startMetadataEdit(t)
	case k.Attach:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.target = t.ID
		return m.enterInput(modeAttach, "File paths, comma separated", "", 4096)
	case k.Filter:
		f := cycle(todo.ValidFilters(), m.opts.Filter, 1)
		m.opts.Filter = f
		m.store.UpdateSettings(todo.SettingsPatch{Filter: &f})
		m.status.Set(todo.NoticeInfo, "Filter: "+string(f))
		m.refresh()
	case k.PriorityFilter:
		p := m.opts.Priority
		if p == "" {
			p = todo.AllPriorities
		}
		m.opts.Priority = cycle(priorityCycle(), p, 1)
		m.status.Set(todo.NoticeInfo, "Priority: "+string(m.opts.Priority))
		m.refresh()
	case k.Sort:
		s := cycle(todo.ValidSortKeys(), m.opts.Sort, 1)
		m.opts.Sort = s
		m.store.UpdateSettings(todo.SettingsPatch{SortBy: &s})
		m.status.Set(todo.NoticeInfo, "Sort: "+string(s))
		m.refresh()
	case k.SortOrder:
		o := m.opts.Order.Toggle()
		m.opts.Order = o
		m.store.UpdateSettings(todo.SettingsPatch{SortOrder: &o})
		m.status.Set(todo.NoticeInfo, "Order: "+string(o))
		m.refresh()
	case k.NextList:
		m = m.cycleList(1)
	case k.PrevList:
		m = m.cycleList(-1)
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		switch m.confirm {
		case confirmTodo:
			m.store.DeleteTodo(m.target)
		case confirmList:
			if err := m.store.DeleteList(m.target); err == nil {
				m.opts.ListID = m.store.CurrentListID()
			}
		}
		m.confirm = confirmNone
		m.refresh()
	case "n", "N", m.cfg.Keys.Cancel:
		m.confirm = confirmNone
		m.status.Set(todo.NoticeInfo, "Delete cancelled")
	}
	return m, nil
}

func (m Model) enterInput(md mode, placeholder, value string, limit int) (tea.Model, tea.Cmd) {
	m.mode = md
	m.input.Placeholder = placeholder
	m.input.CharLimit = limit
	m.input.SetValue(value)
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) leaveInput() Model {
	m.mode = modeList
	m.meta = nil
	m.input.SetValue("")
	m.input.Blur()
	return m
}

// cycleList steps the selection through "all lists" followed by each list.
func (m Model) cycleList(step int) Model {
	ids := []todo.ID{0}
	for _, l := range m.store.Lists() {
		ids = append(ids, l.ID)
	}
	next := cycle(ids, m.store.CurrentListID(), step)
	m.store.SelectList(next)
	m.opts.ListID = next
	m.cursor = 0
	m.refresh()
	m.status.Set(todo.NoticeInfo, "List: "+m.listName(next))
	return m
}

func (m Model) listName(id todo.ID) string {
	if id == 0 {
		return "All lists"
	}
	if l, ok := m.store.List(id); ok {
		return l.Name
	}
	return "?"
}

func (m *Model) refresh() {
	sections := m.store.Sections(m.opts)
	m.pending = sections.Pending
	m.done = sections.Completed
	m.cursor = clampCursor(m.cursor, m.rowCount())
}

func (m Model) rowCount() int {
	return len(m.pending) + len(m.done)
}

func (m Model) row(i int) todo.Todo {
	if i < len(m.pending) {
		return m.pending[i]
	}
	return m.done[i-len(m.pending)]
}

func (m Model) selected() (todo.Todo, bool) {
	n := m.rowCount()
	if n == 0 {
		return todo.Todo{}, false
	}
	return m.row(clampCursor(m.cursor, n)), true
}

func (m Model) indexOf(id todo.ID) int {
	for i := range m.rowCount() {
		if m.row(i).ID == id {
			return i
		}
	}
	return clampCursor(m.cursor, m.rowCount())
}

func priorityCycle() []todo.Priority {
	return []todo.Priority{todo.AllPriorities, todo.PriorityHigh, todo.PriorityMedium, todo.PriorityLow}
}

// cycle returns the element step positions after cur, wrapping around. An
// unknown cur starts from the first element.
func cycle[T comparable](items []T, cur T, step int) T {
	i := slices.Index(items, cur)
	if i < 0 {
		return items[0]
	}
	return items[wrapIndex(i+step, len(items))]
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

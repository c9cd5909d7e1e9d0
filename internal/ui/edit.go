package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"myday/internal/todo"
)

const (
	fieldText = iota
	fieldPriority
	fieldDue
	fieldStart
	fieldRepeat
	fieldMemo
	fieldTags
	fieldCalendar
)

type metaState struct {
	todoID todo.ID
	values []string
	index  int
}

func metaFields() []string {
	return []string{
		"text",
		"priority (low/medium/high)",
		"due date (YYYY-MM-DD)",
		"start date (YYYY-MM-DD)",
		"repeat (none/daily/weekly/monthly/yearly)",
		"memo",
		"tags (comma separated)",
		"show in calendar (y/n)",
	}
}

func (m Model) startMetadataEdit(t todo.Todo) (tea.Model, tea.Cmd) {
	values := make([]string, len(metaFields()))
	values[fieldText] = t.Text
	values[fieldPriority] = string(t.Priority)
	values[fieldDue] = formatDate(t.DueDate)
	values[fieldStart] = formatDate(t.StartDate)
	values[fieldRepeat] = string(t.Repeat)
	values[fieldMemo] = strings.ReplaceAll(t.Memo, "\n", " / ")
	values[fieldTags] = strings.Join(t.Tags, ", ")
	values[fieldCalendar] = boolToYN(t.ShowInCalendar)

	m.meta = &metaState{todoID: t.ID, values: values}
	m.mode = modeMetadata
	m.input.CharLimit = todo.MaxMemoLength
	m = m.loadField()
	m.status.Set(todo.NoticeInfo, "Edit: tab to move, enter to save/next, esc to cancel")
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) updateMetadataMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.meta == nil {
		m.mode = modeList
		return m, nil
	}
	switch key {
	case m.cfg.Keys.Cancel:
		m = m.leaveInput()
		m.status.Set(todo.NoticeInfo, "Edit cancelled")
		return m, nil
	case "tab", "down":
		m.meta.setCurrentValue(m.input.Value())
		m.meta.index = wrapIndex(m.meta.index+1, len(metaFields()))
		m = m.loadField()
		return m, nil
	case "shift+tab", "up":
		m.meta.setCurrentValue(m.input.Value())
		m.meta.index = wrapIndex(m.meta.index-1, len(metaFields()))
		m = m.loadField()
		return m, nil
	case m.cfg.Keys.Confirm:
		m.meta.setCurrentValue(m.input.Value())
		if m.meta.index >= len(metaFields())-1 {
			return m.saveMetadata()
		}
		m.meta.index++
		m = m.loadField()
		m.status.Set(todo.NoticeInfo, m.metaPrompt())
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) saveMetadata() (tea.Model, tea.Cmd) {
	v := m.meta.values
	priority, err := todo.ParsePriority(v[fieldPriority])
	if err != nil {
		m.status.Set(todo.NoticeError, fmt.Sprintf("priority invalid: %v", err))
		return m, nil
	}
	repeat, err := todo.ParseRepeat(v[fieldRepeat])
	if err != nil {
		m.status.Set(todo.NoticeError, fmt.Sprintf("repeat invalid: %v", err))
		return m, nil
	}
	due, err := parseDate(v[fieldDue])
	if err != nil {
		m.status.Set(todo.NoticeError, fmt.Sprintf("due date invalid: %v", err))
		return m, nil
	}
	start, err := parseDate(v[fieldStart])
	if err != nil {
		m.status.Set(todo.NoticeError, fmt.Sprintf("start date invalid: %v", err))
		return m, nil
	}
	text := v[fieldText]
	memo := strings.ReplaceAll(v[fieldMemo], " / ", "\n")
	tags := splitTags(v[fieldTags])
	calendar := parseYN(v[fieldCalendar])

	patch := todo.TodoPatch{
		Text:           &text,
		Priority:       &priority,
		DueDate:        due,
		ClearDueDate:   due == nil,
		StartDate:      start,
		ClearStartDate: start == nil,
		Repeat:         &repeat,
		Memo:           &memo,
		Tags:           &tags,
		ShowInCalendar: &calendar,
	}
	id := m.meta.todoID
	if err := m.store.UpdateTodo(id, patch); err != nil {
		return m, nil
	}
	m = m.leaveInput()
	m.refresh()
	m.cursor = m.indexOf(id)
	return m, nil
}

// loadField shows the current field in the input with the cursor at the end.
func (m Model) loadField() Model {
	m.input.SetValue(m.meta.currentValue())
	m.input.CursorEnd()
	m.input.Placeholder = m.meta.currentLabel()
	return m
}

func (ms metaState) currentLabel() string {
	return metaFields()[ms.index]
}

func (ms metaState) currentValue() string {
	return ms.values[ms.index]
}

func (ms *metaState) setCurrentValue(v string) {
	ms.values[ms.index] = v
}

func (m Model) metaPrompt() string {
	if m.meta == nil {
		return ""
	}
	return fmt.Sprintf("Editing %s (field %d of %d). Enter to advance, Esc to cancel, tab to move.",
		m.meta.currentLabel(), m.meta.index+1, len(metaFields()))
}

func parseDate(v string) (*todo.Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	d, err := todo.ParseDate(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func formatDate(d *todo.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func splitTags(v string) []string {
	var tags []string
	for _, tag := range strings.Split(v, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func parseYN(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "y" || v == "yes" || v == "true" || v == "1"
}

func boolToYN(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

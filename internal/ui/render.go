package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"myday/internal/config"
	"myday/internal/todo"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	sectionStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Strikethrough(true)
	overdueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	importantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)

	priorityStyles = map[todo.Priority]lipgloss.Style{
		todo.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		todo.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		todo.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}

	statusStyles = map[todo.NoticeLevel]lipgloss.Style{
		todo.NoticeInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		todo.NoticeSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		todo.NoticeWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		todo.NoticeError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

func (m Model) View() string {
	settings := m.store.Settings()
	accent := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(settings.AccentColor))

	var b strings.Builder
	b.WriteString(accent.Render("My Day"))
	b.WriteString(mutedStyle.Render(" · " + m.listName(m.opts.ListID)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.viewSummary(settings)))
	b.WriteString("\n\n")

	if m.rowCount() == 0 {
		b.WriteString(fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderRows(settings, accent))
	}

	b.WriteString("\n")
	switch m.mode {
	case modeMetadata:
		b.WriteString(panelStyle.Render(m.renderMetaBox()))
		b.WriteString("\n")
		b.WriteString(m.input.View())
	case modeAdd, modeSearch, modeNewList, modeAttach:
		b.WriteString(m.input.View())
	default:
		b.WriteString(panelStyle.Render(m.renderDetail(settings)))
	}

	b.WriteString("\n\n")
	notice, _ := m.status.Latest()
	b.WriteString(statusStyles[notice.Level].Render(notice.Message))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(renderHelp(m.cfg.Keys)))
	return b.String()
}

func (m Model) viewSummary(settings todo.Settings) string {
	parts := []string{
		"filter:" + string(m.opts.Filter),
		"sort:" + string(m.opts.Sort) + " " + string(m.opts.Order),
	}
	if m.opts.Priority != "" && m.opts.Priority != todo.AllPriorities {
		parts = append(parts, "priority:"+todo.PriorityLabel(m.opts.Priority, settings.Locale))
	}
	if m.opts.Query != "" {
		parts = append(parts, fmt.Sprintf("search:%q", m.opts.Query))
	}
	if settings.ShowCompletedCount {
		st := m.store.Stats()
		parts = append(parts, fmt.Sprintf("%d pending, %d done", st.Pending, st.Completed))
	}
	if at, ok := m.store.LastSaved(); ok {
		parts = append(parts, "saved "+humanize.RelTime(at, m.now(), "ago", "from now"))
	}
	return strings.Join(parts, " · ")
}

func (m Model) renderRows(settings todo.Settings, accent lipgloss.Style) string {
	var b strings.Builder
	today := m.store.Today()
	for i := range m.rowCount() {
		if i == len(m.pending) {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(sectionStyle.Render(fmt.Sprintf("Completed (%d)", len(m.done))))
			b.WriteString("\n")
		}
		cursor := "  "
		if m.cursor == i && m.mode == modeList {
			cursor = accent.Render("> ")
		}
		b.WriteString(cursor)
		b.WriteString(renderRow(m.row(i), settings, today))
		b.WriteString("\n")
	}
	return b.String()
}

func renderRow(t todo.Todo, settings todo.Settings, today todo.Date) string {
	checkbox := "[ ]"
	text := t.Text
	if t.Completed {
		checkbox = "[x]"
		text = completedStyle.Render(text)
	}
	parts := []string{checkbox}
	if settings.ShowPriority {
		parts = append(parts, priorityStyles[t.Priority].Render(priorityMarker(t.Priority)))
	}
	parts = append(parts, text)
	if t.IsImportant {
		parts = append(parts, importantStyle.Render("★"))
	}
	if t.IsMyDay {
		parts = append(parts, "☀")
	}
	if t.Repeat != todo.RepeatNone {
		parts = append(parts, mutedStyle.Render("↻ "+todo.RepeatLabel(t.Repeat, settings.Locale)))
	}
	if settings.ShowDueDates && t.DueDate != nil {
		due := "due " + t.DueDate.String()
		if !t.Completed && t.DueDate.Before(today) {
			parts = append(parts, overdueStyle.Render(due))
		} else {
			parts = append(parts, mutedStyle.Render(due))
		}
	}
	if len(t.Files) > 0 {
		parts = append(parts, mutedStyle.Render(fmt.Sprintf("📎%d", len(t.Files))))
	}
	return strings.Join(parts, " ")
}

func priorityMarker(p todo.Priority) string {
	switch p {
	case todo.PriorityHigh:
		return "!!!"
	case todo.PriorityMedium:
		return "!! "
	default:
		return "!  "
	}
}

func (m Model) renderDetail(settings todo.Settings) string {
	t, ok := m.selected()
	if !ok {
		return "No task selected"
	}
	loc := settings.Locale
	var b strings.Builder
	b.WriteString(headerStyle.Render(t.Text))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("List      : %s\n", m.listName(t.ListID)))
	b.WriteString(fmt.Sprintf("Status    : %s\n", humanDone(t)))
	b.WriteString(fmt.Sprintf("Priority  : %s\n", todo.PriorityLabel(t.Priority, loc)))
	b.WriteString(fmt.Sprintf("Due       : %s\n", emptyPlaceholder(formatDate(t.DueDate))))
	b.WriteString(fmt.Sprintf("Start     : %s\n", emptyPlaceholder(formatDate(t.StartDate))))
	b.WriteString(fmt.Sprintf("Repeat    : %s\n", todo.RepeatLabel(t.Repeat, loc)))
	if t.NextRecurrenceDate != nil {
		b.WriteString(fmt.Sprintf("Next      : %s\n", t.NextRecurrenceDate))
	}
	b.WriteString(fmt.Sprintf("Tags      : %s\n", emptyPlaceholder(strings.Join(t.Tags, ", "))))
	b.WriteString(fmt.Sprintf("Memo      : %s\n", emptyPlaceholder(t.Memo)))
	for _, f := range t.Files {
		b.WriteString(fmt.Sprintf("File      : %s (%s, %s)\n", f.Name, humanize.Bytes(uint64(f.Size)), f.Type))
	}
	b.WriteString(mutedStyle.Render("Created " + humanize.Time(t.CreatedAt)))
	return b.String()
}

func (m Model) renderMetaBox() string {
	if m.meta == nil {
		return ""
	}
	var b strings.Builder
	for i, name := range metaFields() {
		prefix := " "
		if i == m.meta.index {
			prefix = ">"
		}
		val := m.meta.values[i]
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-42s : %s\n", prefix, name, val))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s edit • %s delete • %s important • %s my day • %s search • %s filter • %s priority • %s sort • %s order • %s/%s list • %s new list • %s attach • %s quit",
		k.Up, k.Down, k.Add, keyLabel(k.Toggle), k.Edit, k.Delete, k.Important, k.MyDay, k.Search,
		k.Filter, k.PriorityFilter, k.Sort, k.SortOrder, k.NextList, k.PrevList, k.NewList, k.Attach, k.Quit)
}

func humanDone(t todo.Todo) string {
	if !t.Completed {
		return "pending"
	}
	if t.CompletedAt != nil {
		return "done " + humanize.Time(*t.CompletedAt)
	}
	return "done"
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}

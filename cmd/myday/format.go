package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"myday/internal/todo"
)

func pendingOnly(todos []todo.Todo) []todo.Todo {
	return slices.DeleteFunc(todos, func(t todo.Todo) bool { return t.Completed })
}

// printTodos writes one line per todo: id, checkbox, flags, priority, text,
// then list, due date and repeat when present.
func printTodos(w io.Writer, store *todo.Store, todos []todo.Todo) {
	if len(todos) == 0 {
		fmt.Fprintln(w, "No tasks")
		return
	}
	settings := store.Settings()
	today := store.Today()
	for _, t := range todos {
		fmt.Fprintln(w, formatTodo(t, store, settings.Locale, today))
	}
}

func formatTodo(t todo.Todo, store *todo.Store, locale todo.Locale, today todo.Date) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	flags := []rune("  ")
	if t.IsImportant {
		flags[0] = '*'
	}
	if t.IsMyDay {
		flags[1] = '@'
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%4d %s %s %-6s %s", t.ID, check, string(flags), todo.PriorityLabel(t.Priority, locale), t.Text)

	var extra []string
	if l, ok := store.List(t.ListID); ok && t.ListID != todo.DefaultListID {
		extra = append(extra, "list:"+l.Name)
	}
	if t.DueDate != nil {
		extra = append(extra, "due "+t.DueDate.String()+" ("+relativeDay(*t.DueDate, today)+")")
	}
	if t.Repeat != todo.RepeatNone {
		extra = append(extra, "repeats "+todo.RepeatLabel(t.Repeat, locale))
	}
	if len(t.Tags) > 0 {
		extra = append(extra, "#"+strings.Join(t.Tags, " #"))
	}
	if len(extra) > 0 {
		b.WriteString("  ")
		b.WriteString(strings.Join(extra, ", "))
	}
	return b.String()
}

// relativeDay describes d relative to today, such as "tomorrow" or "3 days ago".
func relativeDay(d, today todo.Date) string {
	switch {
	case d.Equal(today):
		return "today"
	case d.Equal(today.AddDays(1)):
		return "tomorrow"
	case d.Equal(today.AddDays(-1)):
		return "yesterday"
	}
	return humanize.RelTime(d.Time(time.UTC), today.Time(time.UTC), "ago", "from now")
}

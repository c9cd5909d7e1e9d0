package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"myday/internal/todo"
)

func newAddCmd(open appOpener) *cobra.Command {
	var (
		priority  string
		due       string
		start     string
		repeat    string
		memo      string
		tags      []string
		listID    int64
		important bool
		myDay     bool
		calendar  bool
	)

	cmd := &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := todo.NewTodo{
				Text:           strings.Join(args, " "),
				ListID:         todo.ID(listID),
				Memo:           memo,
				Tags:           tags,
				IsImportant:    important,
				IsMyDay:        myDay,
				ShowInCalendar: calendar,
			}
			var err error
			if priority != "" {
				if in.Priority, err = todo.ParsePriority(priority); err != nil {
					return err
				}
			}
			if in.Repeat, err = todo.ParseRepeat(repeat); err != nil {
				return err
			}
			if in.DueDate, err = parseDateFlag("due", due); err != nil {
				return err
			}
			if in.StartDate, err = parseDateFlag("start", start); err != nil {
				return err
			}

			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			created, err := a.store.AddTodo(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added #%d %s\n", created.ID, created.Text)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&priority, "priority", "p", "", "priority: low, medium or high")
	f.StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	f.StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	f.StringVarP(&repeat, "repeat", "r", "", "repeat: none, daily, weekly, monthly or yearly")
	f.StringVar(&memo, "memo", "", "free-form note")
	f.StringSliceVarP(&tags, "tag", "t", nil, "tag (repeatable or comma separated)")
	f.Int64Var(&listID, "list", 0, "list id (default: the selected list)")
	f.BoolVarP(&important, "important", "i", false, "mark as important")
	f.BoolVarP(&myDay, "myday", "m", false, "add to My Day")
	f.BoolVar(&calendar, "calendar", false, "show in calendar")
	return cmd
}

func newListCmd(open appOpener) *cobra.Command {
	var (
		filter    string
		priority  string
		search    string
		sortKey   string
		order     string
		listID    int64
		completed bool
	)

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := a.store.DefaultView()
			opts.ListID = todo.ID(listID)
			opts.Query = search
			if filter != "" {
				if opts.Filter, err = todo.ParseFilter(filter); err != nil {
					return err
				}
			}
			if sortKey != "" {
				if opts.Sort, err = todo.ParseSortKey(sortKey); err != nil {
					return err
				}
			}
			if order != "" {
				if opts.Order, err = todo.ParseSortOrder(order); err != nil {
					return err
				}
			}
			if priority != "" && !strings.EqualFold(priority, string(todo.AllPriorities)) {
				if opts.Priority, err = todo.ParsePriority(priority); err != nil {
					return err
				}
			}

			rows := a.store.View(opts)
			if !completed && opts.Filter != todo.FilterCompleted {
				rows = pendingOnly(rows)
			}
			printTodos(cmd.OutOrStdout(), a.store, rows)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&filter, "filter", "f", "", "all, active, completed, today, important or scheduled")
	f.StringVarP(&priority, "priority", "p", "", "only this priority")
	f.StringVarP(&search, "search", "s", "", "search text, memo, priority and dates")
	f.StringVar(&sortKey, "sort", "", "newest, oldest, priority, dueDate, alphabetical or completed")
	f.StringVar(&order, "order", "", "asc or desc")
	f.Int64Var(&listID, "list", 0, "list id (default: every list)")
	f.BoolVarP(&completed, "completed", "c", false, "include completed tasks")
	return cmd
}

func newDoneCmd(open appOpener) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done <id>...",
		Short: "Mark tasks as completed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			for _, id := range ids {
				t, ok := a.store.Todo(id)
				if !ok {
					return fmt.Errorf("task #%d not found", id)
				}
				if t.Completed != undo {
					fmt.Fprintf(out, "#%d is already %s\n", id, doneWord(t.Completed))
					continue
				}
				a.store.ToggleCompleted(id)
				t, _ = a.store.Todo(id)
				fmt.Fprintf(out, "#%d %s: %s\n", id, doneWord(t.Completed), t.Text)
				if t.NextRecurrenceDate != nil {
					fmt.Fprintf(out, "  repeats on %s\n", t.NextRecurrenceDate)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "mark as not completed instead")
	return cmd
}

func newRemoveCmd(open appOpener) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			in := bufio.NewReader(cmd.InOrStdin())
			for _, id := range ids {
				t, ok := a.store.Todo(id)
				if !ok {
					return fmt.Errorf("task #%d not found", id)
				}
				if !yes && !confirm(in, out, fmt.Sprintf("Delete #%d %q?", id, t.Text)) {
					fmt.Fprintf(out, "Kept #%d\n", id)
					continue
				}
				a.store.DeleteTodo(id)
				fmt.Fprintf(out, "Deleted #%d\n", id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newCheckCmd(open appOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Create the next occurrence of recurring tasks that are due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			spawned := a.store.CheckRecurrencesNow()
			out := cmd.OutOrStdout()
			if len(spawned) == 0 {
				fmt.Fprintln(out, "No recurring tasks due")
				return nil
			}
			for _, t := range spawned {
				fmt.Fprintf(out, "Created #%d %s (due %s)\n", t.ID, t.Text, t.DueDate)
			}
			return nil
		},
	}
}

func newExportCmd(open appOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write every task, list and setting to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			doc := a.store.Export()
			data, err := todo.MarshalDocument(doc)
			if err != nil {
				return err
			}
			if err := atomic.WriteFile(args[0], bytes.NewReader(data)); err != nil {
				return fmt.Errorf("write %s: %w", args[0], err)
			}
			a.logger.Info("exported", "path", args[0], "todos", len(doc.Todos))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d task(s) and %d list(s) to %s\n", len(doc.Todos), len(doc.Lists), args[0])
			return nil
		},
	}
}

func newImportCmd(open appOpener) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with the contents of an exported file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			doc, err := todo.ParseDocument(data)
			if err != nil {
				return err
			}

			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			prompt := fmt.Sprintf("Replace %d existing task(s) with %d from %s?", len(a.store.Todos()), len(doc.Todos), args[0])
			if !yes && !confirm(bufio.NewReader(cmd.InOrStdin()), out, prompt) {
				fmt.Fprintln(out, "Import cancelled")
				return nil
			}
			if err := a.store.Import(doc); err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported %d task(s) and %d list(s)\n", len(a.store.Todos()), len(a.store.Lists()))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func parseDateFlag(name, v string) (*todo.Date, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	d, err := todo.ParseDate(strings.TrimSpace(v))
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &d, nil
}

func parseIDs(args []string) ([]todo.ID, error) {
	ids := make([]todo.ID, 0, len(args))
	for _, arg := range args {
		n, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid task id %q", arg)
		}
		ids = append(ids, todo.ID(n))
	}
	return ids, nil
}

// confirm asks a yes/no question on out and reads the answer from in.
// Anything but y or yes, including EOF, is a no.
func confirm(in *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, _ := in.ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func doneWord(completed bool) string {
	if completed {
		return "done"
	}
	return "not done"
}

// Command myday is a terminal to-do manager with lists, My Day and
// recurring tasks.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"myday/internal/config"
	"myday/internal/logging"
	"myday/internal/storage"
	"myday/internal/todo"
	"myday/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "myday",
		Short:         "A to-do list with My Day, lists and recurring tasks",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status := ui.NewStatusLine()
			a, err := openApp(configPath, status)
			if err != nil {
				return err
			}
			defer a.Close()
			return ui.Run(a.store, a.cfg, status)
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", config.ResolveConfigPath(), "path to config file")

	openRaw := func(cmd *cobra.Command) (*app, error) {
		return openApp(configPath, cliNotifier(cmd.ErrOrStderr()))
	}
	// every command but check sees recurrences that came due while closed
	open := func(cmd *cobra.Command) (*app, error) {
		a, err := openRaw(cmd)
		if err != nil {
			return nil, err
		}
		if spawned := a.store.CheckRecurrencesNow(); len(spawned) > 0 {
			a.logger.Info("materialized recurrences at startup", "count", len(spawned))
		}
		return a, nil
	}
	cmd.AddCommand(
		newAddCmd(open),
		newListCmd(open),
		newDoneCmd(open),
		newRemoveCmd(open),
		newCheckCmd(openRaw),
		newExportCmd(open),
		newImportCmd(open),
	)
	return cmd
}

// app bundles everything a command works against.
type app struct {
	cfg    config.Config
	logger *log.Logger
	db     *storage.Store
	store  *todo.Store
	logs   io.Closer
}

type appOpener func(cmd *cobra.Command) (*app, error)

// openApp loads config, opens the log and database, and loads the store
// with config overrides applied.
func openApp(configPath string, notifier todo.Notifier) (*app, error) {
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, logs, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := todo.New(db,
		todo.WithLogger(logger),
		todo.WithNotifier(notifier),
		todo.WithLocation(time.Local),
	)
	if err := store.Load(); err != nil {
		var parseErr *todo.ParseError
		if errors.As(err, &parseErr) {
			notifier.Notify(todo.Notice{Level: todo.NoticeWarning, Message: "Some saved data was unreadable and has been reset"})
		} else {
			notifier.Notify(todo.Notice{Level: todo.NoticeWarning, Message: fmt.Sprintf("Could not load saved data: %v", err)})
		}
	}
	applyConfig(store, cfg, logger)

	logger.Debug("started", "db", cfg.DBPath, "todos", len(store.Todos()))
	return &app{cfg: cfg, logger: logger, db: db, store: store, logs: logs}, nil
}

func (a *app) Close() error {
	return errors.Join(a.db.Close(), a.logs.Close())
}

// applyConfig writes the non-empty view preferences from cfg into the
// stored settings. Invalid values are logged and ignored.
func applyConfig(store *todo.Store, cfg config.Config, logger *log.Logger) {
	cur := store.Settings()
	var patch todo.SettingsPatch
	changed := false

	if cfg.DefaultFilter != "" {
		if f, err := todo.ParseFilter(cfg.DefaultFilter); err != nil {
			logger.Warn("ignoring config value", "key", "default_filter", "err", err)
		} else if f != cur.Filter {
			patch.Filter = &f
			changed = true
		}
	}
	if cfg.DefaultSort != "" {
		if k, err := todo.ParseSortKey(cfg.DefaultSort); err != nil {
			logger.Warn("ignoring config value", "key", "default_sort", "err", err)
		} else if k != cur.SortBy {
			patch.SortBy = &k
			changed = true
		}
	}
	if cfg.SortOrder != "" {
		if o, err := todo.ParseSortOrder(cfg.SortOrder); err != nil {
			logger.Warn("ignoring config value", "key", "sort_order", "err", err)
		} else if o != cur.SortOrder {
			patch.SortOrder = &o
			changed = true
		}
	}
	if cfg.Locale != "" {
		if l, err := todo.ParseLocale(cfg.Locale); err != nil {
			logger.Warn("ignoring config value", "key", "locale", "err", err)
		} else if l != cur.Locale {
			patch.Locale = &l
			changed = true
		}
	}
	if changed {
		store.UpdateSettings(patch)
	}
}

// cliNotifier prints warnings to w. Errors come back as return values and
// success is reported by each command.
func cliNotifier(w io.Writer) todo.Notifier {
	return todo.NotifierFunc(func(n todo.Notice) {
		if n.Level == todo.NoticeWarning {
			fmt.Fprintln(w, "warning:", n.Message)
		}
	})
}

package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "myday.db"
	DefaultLogName        = "myday.log"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "MYDAY_CONFIG"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	Edit           string `toml:"edit"`
	Search         string `toml:"search"`
	Important      string `toml:"important"`
	MyDay          string `toml:"my_day"`
	Filter         string `toml:"filter"`
	PriorityFilter string `toml:"priority_filter"`
	Sort           string `toml:"sort"`
	SortOrder      string `toml:"sort_order"`
	NextList       string `toml:"next_list"`
	PrevList       string `toml:"prev_list"`
	NewList        string `toml:"new_list"`
	DeleteList     string `toml:"delete_list"`
	Attach         string `toml:"attach"`
}

// Config is the on-disk configuration. Empty view fields (default_filter,
// default_sort, sort_order, locale) leave the stored preferences alone.
type Config struct {
	DBPath        string `toml:"db_path"`
	LogFile       string `toml:"log_file"`
	LogLevel      string `toml:"log_level"`
	DefaultFilter string `toml:"default_filter"`
	DefaultSort   string `toml:"default_sort"`
	SortOrder     string `toml:"sort_order"`
	Locale        string `toml:"locale"`
	Keys          Keymap `toml:"keys"`
}

// ResolveConfigPath returns $MYDAY_CONFIG if set, otherwise config.toml in
// the user's config directory.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "myday", DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// if the file does not exist. Relative db and log paths are resolved
// against the config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(path), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	cfg.Keys = cfg.Keys.withDefaults(DefaultKeymap())
	return cfg.resolve(path), nil
}

func (c Config) resolve(configPath string) Config {
	dir := filepath.Dir(configPath)
	if !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if c.LogFile != "" && !filepath.IsAbs(c.LogFile) {
		c.LogFile = filepath.Join(dir, c.LogFile)
	}
	return c
}

// withDefaults fills unset bindings from def.
func (k Keymap) withDefaults(def Keymap) Keymap {
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&k.Quit, def.Quit)
	fill(&k.Add, def.Add)
	fill(&k.Up, def.Up)
	fill(&k.Down, def.Down)
	fill(&k.Toggle, def.Toggle)
	fill(&k.Delete, def.Delete)
	fill(&k.Confirm, def.Confirm)
	fill(&k.Cancel, def.Cancel)
	fill(&k.Edit, def.Edit)
	fill(&k.Search, def.Search)
	fill(&k.Important, def.Important)
	fill(&k.MyDay, def.MyDay)
	fill(&k.Filter, def.Filter)
	fill(&k.PriorityFilter, def.PriorityFilter)
	fill(&k.Sort, def.Sort)
	fill(&k.SortOrder, def.SortOrder)
	fill(&k.NextList, def.NextList)
	fill(&k.PrevList, def.PrevList)
	fill(&k.NewList, def.NewList)
	fill(&k.DeleteList, def.DeleteList)
	fill(&k.Attach, def.Attach)
	return k
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:   DefaultDBName,
		LogFile:  DefaultLogName,
		LogLevel: "info",
		Keys:     DefaultKeymap(),
	}
}

// DefaultKeymap returns the built-in key bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		Quit:           "q",
		Add:            "a",
		Up:             "k",
		Down:           "j",
		Toggle:         " ",
		Delete:         "d",
		Confirm:        "enter",
		Cancel:         "esc",
		Edit:           "e",
		Search:         "/",
		Important:      "i",
		MyDay:          "m",
		Filter:         "f",
		PriorityFilter: "p",
		Sort:           "s",
		SortOrder:      "o",
		NextList:       "tab",
		PrevList:       "shift+tab",
		NewList:        "L",
		DeleteList:     "X",
		Attach:         "A",
	}
}

package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Keys of the three persisted documents.
const (
	KeyTodos    = "todos"
	KeyLists    = "lists"
	KeySettings = "settings"
)

// Backend is flat key-value persistence for JSON documents.
type Backend interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
}

// StampedBackend is a Backend that records when each key was last written.
type StampedBackend interface {
	Backend
	UpdatedAt(key string) (time.Time, bool, error)
}

// Store owns the authoritative todo and list collections.
type Store struct {
	backend  Backend
	todos    []Todo
	lists    []TodoList
	settings Settings
	current  ID

	// highest ids handed out this session; never reissued
	lastTodoID ID
	lastListID ID

	// when the documents were last written; zero if unknown
	savedAt time.Time

	now      func() time.Time
	loc      *time.Location
	logger   *log.Logger
	notifier Notifier
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the time zone that defines "today". Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithNotifier sets where user-facing notices go.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// New returns an empty store holding only the default list. Call Load to
// read persisted state.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:  backend,
		settings: DefaultSettings(),
		now:      time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.notifier == nil {
		s.notifier = NotifierFunc(func(Notice) {})
	}
	s.lists = []TodoList{defaultList(s.clock())}
	return s
}

func (s *Store) clock() time.Time {
	return s.now().In(s.loc)
}

// Today is the current calendar date in the store's location.
func (s *Store) Today() Date {
	return DateOf(s.clock())
}

// Load replaces in-memory state with the persisted documents. A missing
// document yields an empty collection; an unreadable or malformed one
// falls back the same way and is reported in the returned error. The store
// is usable whatever Load returns.
func (s *Store) Load() error {
	now := s.clock()
	var errs []error

	var rawLists []rawList
	if _, err := s.read(KeyLists, &rawLists); err != nil {
		errs = append(errs, err)
		rawLists = nil
	}
	lists, listTokens := normalizeLists(rawLists, now)

	var rawTodos []rawTodo
	if _, err := s.read(KeyTodos, &rawTodos); err != nil {
		errs = append(errs, err)
		rawTodos = nil
	}
	todos := normalizeTodos(rawTodos, listTokens, now)

	settings := DefaultSettings()
	if _, err := s.read(KeySettings, &settings); err != nil {
		errs = append(errs, err)
		settings = DefaultSettings()
	}

	s.lists = ensureDefaultList(lists, now)
	s.todos = todos
	s.settings = settings.normalize()
	s.repairListRefs()
	if _, ok := s.List(s.current); !ok {
		s.current = 0
	}
	s.bumpHighWater()
	s.savedAt = s.storedAt()

	err := errors.Join(errs...)
	if err != nil {
		s.logger.Warn("load degraded to defaults", "err", err)
	} else {
		s.logger.Debug("loaded", "todos", len(s.todos), "lists", len(s.lists))
	}
	return err
}

// storedAt returns the latest write time the backend has on record for
// the persisted documents.
func (s *Store) storedAt() time.Time {
	stamped, ok := s.backend.(StampedBackend)
	if !ok {
		return time.Time{}
	}
	var latest time.Time
	for _, key := range []string{KeyTodos, KeyLists, KeySettings} {
		at, found, err := stamped.UpdatedAt(key)
		if err != nil {
			s.logger.Debug("reading write time failed", "key", key, "err", err)
			continue
		}
		if found && at.After(latest) {
			latest = at
		}
	}
	return latest
}

// LastSaved reports when the store last reached the backend, either through
// Save or as recorded by the backend at Load.
func (s *Store) LastSaved() (time.Time, bool) {
	return s.savedAt, !s.savedAt.IsZero()
}

func (s *Store) read(key string, v any) (bool, error) {
	data, ok, err := s.backend.Get(key)
	if err != nil {
		return false, &PersistenceError{Op: "read", Key: key, Err: err}
	}
	if !ok || len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, &ParseError{Key: key, Err: err}
	}
	return true, nil
}

// Save writes all three documents. Every document is attempted even when an
// earlier one fails.
func (s *Store) Save() error {
	var errs []error
	for _, doc := range []struct {
		key string
		v   any
	}{
		{KeyTodos, s.todos},
		{KeyLists, s.lists},
		{KeySettings, s.settings},
	} {
		data, err := json.Marshal(doc.v)
		if err != nil {
			errs = append(errs, &PersistenceError{Op: "encode", Key: doc.key, Err: err})
			continue
		}
		if err := s.backend.Put(doc.key, data); err != nil {
			errs = append(errs, &PersistenceError{Op: "write", Key: doc.key, Err: err})
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	s.savedAt = s.clock()
	return nil
}

// flush persists after a mutation. A failed save leaves memory as is and
// only warns; memory and storage converge on the next successful save.
func (s *Store) flush() {
	if err := s.Save(); err != nil {
		s.logger.Error("save failed", "err", err)
		s.notify(NoticeWarning, "Could not save changes: %v", err)
	}
}

func ensureDefaultList(lists []TodoList, now time.Time) []TodoList {
	for _, l := range lists {
		if l.ID == DefaultListID {
			return lists
		}
	}
	return append([]TodoList{defaultList(now)}, lists...)
}

// repairListRefs points todos of vanished lists at the default list.
func (s *Store) repairListRefs() {
	known := make(map[ID]struct{}, len(s.lists))
	for _, l := range s.lists {
		known[l.ID] = struct{}{}
	}
	for i := range s.todos {
		if _, ok := known[s.todos[i].ListID]; !ok {
			s.logger.Debug("reassigning orphaned todo", "id", s.todos[i].ID, "list", s.todos[i].ListID)
			s.todos[i].ListID = DefaultListID
		}
	}
}

// Todos returns a copy of every todo, newest first.
func (s *Store) Todos() []Todo {
	out := make([]Todo, len(s.todos))
	for i, t := range s.todos {
		out[i] = t.clone()
	}
	return out
}

// Todo looks up a todo by id.
func (s *Store) Todo(id ID) (Todo, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.todos[i].clone(), true
	}
	return Todo{}, false
}

func (s *Store) indexOf(id ID) int {
	for i := range s.todos {
		if s.todos[i].ID == id {
			return i
		}
	}
	return -1
}

// Lists returns a copy of every list; the default list is always present.
func (s *Store) Lists() []TodoList {
	return append([]TodoList{}, s.lists...)
}

// List looks up a list by id.
func (s *Store) List(id ID) (TodoList, bool) {
	if i := s.listIndex(id); i >= 0 {
		return s.lists[i], true
	}
	return TodoList{}, false
}

func (s *Store) listIndex(id ID) int {
	for i := range s.lists {
		if s.lists[i].ID == id {
			return i
		}
	}
	return -1
}

// CurrentListID is the selected list, or 0 when every list is in view.
func (s *Store) CurrentListID() ID {
	return s.current
}

// Settings returns the current preferences.
func (s *Store) Settings() Settings {
	return s.settings
}

// UpdateSettings merges p into the settings and persists them.
func (s *Store) UpdateSettings(p SettingsPatch) {
	s.settings = s.settings.apply(p)
	s.flush()
}

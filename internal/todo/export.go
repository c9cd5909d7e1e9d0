package todo

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tailscale/hujson"
)

// ExportVersion tags exported documents.
const ExportVersion = "3"

// Document is the export/import format: every collection in one file.
type Document struct {
	Todos      []Todo     `json:"todos"`
	Lists      []TodoList `json:"lists"`
	Settings   Settings   `json:"settings"`
	ExportDate time.Time  `json:"exportDate"`
	Version    string     `json:"version"`
}

type rawDocument struct {
	Todos      []rawTodo       `json:"todos"`
	Lists      []rawList       `json:"lists"`
	Settings   json.RawMessage `json:"settings"`
	ExportDate string          `json:"exportDate"`
	Version    json.RawMessage `json:"version"`
}

// Export snapshots the store.
func (s *Store) Export() Document {
	return Document{
		Todos:      s.Todos(),
		Lists:      s.Lists(),
		Settings:   s.settings,
		ExportDate: s.clock(),
		Version:    ExportVersion,
	}
}

// MarshalDocument renders doc as indented JSON.
func MarshalDocument(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// ParseDocument decodes an exported document. Comments and trailing commas
// are tolerated, and records from any earlier schema are normalized.
func ParseDocument(data []byte) (Document, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return Document{}, &ParseError{Key: "document", Err: err}
	}
	var raw rawDocument
	if err := json.Unmarshal(std, &raw); err != nil {
		return Document{}, &ParseError{Key: "document", Err: err}
	}

	now := time.Now()
	exported := parseTimestamp(raw.ExportDate, time.Time{})
	if !exported.IsZero() {
		now = exported
	}
	lists, tokens := normalizeLists(raw.Lists, now)
	doc := Document{
		Todos:      normalizeTodos(raw.Todos, tokens, now),
		Lists:      lists,
		Settings:   DefaultSettings(),
		ExportDate: exported,
	}
	if len(raw.Settings) > 0 {
		if err := json.Unmarshal(raw.Settings, &doc.Settings); err != nil {
			return Document{}, &ParseError{Key: KeySettings, Err: err}
		}
	}
	doc.Settings = doc.Settings.normalize()
	if _, token, _ := rawID(raw.Version); token != "" {
		doc.Version = token
	}
	return doc, nil
}

// Import replaces every collection with doc's and persists the result.
// Asking the user first is the caller's job. The returned error is a save
// failure; the imported state is kept in memory either way.
func (s *Store) Import(doc Document) error {
	now := s.clock()
	todos := make([]Todo, len(doc.Todos))
	for i, t := range doc.Todos {
		todos[i] = t.clone()
	}
	s.todos = todos
	s.lists = ensureDefaultList(append([]TodoList{}, doc.Lists...), now)
	s.settings = doc.Settings.normalize()
	s.repairListRefs()
	if _, ok := s.List(s.current); !ok {
		s.current = 0
	}
	s.bumpHighWater()

	if err := s.Save(); err != nil {
		s.logger.Error("save after import failed", "err", err)
		s.notify(NoticeWarning, "Imported, but could not save: %v", err)
		return err
	}
	s.logger.Info("imported", "todos", len(s.todos), "lists", len(s.lists), "version", doc.Version)
	s.notify(NoticeSuccess, "Imported %s", pluralize(len(s.todos), "task"))
	return nil
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

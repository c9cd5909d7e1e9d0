package todo

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Stored documents come from three generations of the application:
//
//	v1: integer ids, no lists, no isImportant/showInCalendar/tags, files
//	    carry their content under "data" and a float id.
//	v2: random string ids for todos and lists, files carry "url".
//	v3: integer ids (this package), every field present.
//
// rawTodo and rawList accept all of them; normalizeTodos and normalizeLists
// turn them into current records. Running them on their own output is a
// no-op.

type rawTodo struct {
	ID                 json.RawMessage `json:"id"`
	Text               string          `json:"text"`
	ListID             json.RawMessage `json:"listId"`
	Priority           string          `json:"priority"`
	Completed          bool            `json:"completed"`
	CompletedAt        *string         `json:"completedAt"`
	DueDate            *string         `json:"dueDate"`
	StartDate          *string         `json:"startDate"`
	Repeat             string          `json:"repeat"`
	NextRecurrenceDate *string         `json:"nextRecurrenceDate"`
	IsImportant        bool            `json:"isImportant"`
	IsMyDay            bool            `json:"isMyDay"`
	ShowInCalendar     bool            `json:"showInCalendar"`
	Memo               *string         `json:"memo"`
	Tags               []string        `json:"tags"`
	Files              []rawFile       `json:"files"`
	CreatedAt          string          `json:"createdAt"`
	UpdatedAt          *string         `json:"updatedAt"`
}

type rawFile struct {
	ID   json.RawMessage `json:"id"`
	Name string          `json:"name"`
	Size int64           `json:"size"`
	Type string          `json:"type"`
	URL  string          `json:"url"`
	Data string          `json:"data"`
}

type rawList struct {
	ID        json.RawMessage `json:"id"`
	Name      string          `json:"name"`
	Icon      string          `json:"icon"`
	Color     string          `json:"color"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt *string         `json:"updatedAt"`
}

// rawID decodes an id that may be a JSON number or string. Numeric values
// in 1..MaxID come back as n with ok set; anything else comes back as a
// token.
func rawID(msg json.RawMessage) (n ID, token string, ok bool) {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 || bytes.Equal(msg, []byte("null")) {
		return 0, "", false
	}
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		s = string(msg)
	}
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		if v > 0 && ID(v) <= MaxID {
			return ID(v), s, true
		}
		return 0, s, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 1 && f <= float64(MaxID) && f == float64(int64(f)) {
		return ID(int64(f)), s, true
	}
	return 0, s, false
}

// assignIDs gives every record a unique positive id. Records with a usable
// numeric id keep it; duplicates, tokens and missing ids are re-keyed above
// both the highest kept id and reserved, in document order. The returned
// map resolves old tokens to their new ids.
func assignIDs(raw []json.RawMessage, reserved ID) ([]ID, map[string]ID) {
	ids := make([]ID, len(raw))
	tokens := make(map[string]ID)
	used := make(map[ID]struct{}, len(raw))
	max := reserved
	for i, msg := range raw {
		n, token, ok := rawID(msg)
		if !ok {
			continue
		}
		if _, dup := used[n]; dup {
			continue
		}
		used[n] = struct{}{}
		ids[i] = n
		tokens[token] = n
		if n > max {
			max = n
		}
	}
	for i, msg := range raw {
		if ids[i] != 0 {
			continue
		}
		max++
		ids[i] = max
		if _, token, _ := rawID(msg); token != "" {
			if _, seen := tokens[token]; !seen {
				tokens[token] = max
			}
		}
	}
	return ids, tokens
}

func normalizeLists(raw []rawList, now time.Time) ([]TodoList, map[string]ID) {
	msgs := make([]json.RawMessage, len(raw))
	for i, r := range raw {
		msgs[i] = r.ID
	}
	// a re-keyed list must never become the default list
	ids, tokens := assignIDs(msgs, DefaultListID)

	lists := make([]TodoList, 0, len(raw))
	for i, r := range raw {
		name := truncateRunes(Sanitize(r.Name), MaxListNameLength)
		if name == "" {
			name = DefaultListName
		}
		icon := r.Icon
		if icon == "" {
			icon = DefaultListIcon
		}
		color := r.Color
		if color == "" {
			color = DefaultListColor
		}
		created := parseTimestamp(r.CreatedAt, now)
		updated := created
		if r.UpdatedAt != nil {
			updated = parseTimestamp(*r.UpdatedAt, created)
		}
		lists = append(lists, TodoList{
			ID:        ids[i],
			Name:      name,
			Icon:      icon,
			Color:     color,
			CreatedAt: created,
			UpdatedAt: updated,
		})
	}
	return lists, tokens
}

func normalizeTodos(raw []rawTodo, listTokens map[string]ID, now time.Time) []Todo {
	kept := raw[:0:0]
	for _, r := range raw {
		if Sanitize(r.Text) == "" {
			continue
		}
		kept = append(kept, r)
	}
	msgs := make([]json.RawMessage, len(kept))
	for i, r := range kept {
		msgs[i] = r.ID
	}
	ids, _ := assignIDs(msgs, 0)

	todos := make([]Todo, 0, len(kept))
	for i, r := range kept {
		todos = append(todos, normalizeTodo(r, ids[i], listTokens, now))
	}
	return todos
}

func normalizeTodo(r rawTodo, id ID, listTokens map[string]ID, now time.Time) Todo {
	t := Todo{
		ID:             id,
		Text:           truncateRunes(Sanitize(r.Text), MaxTextLength),
		ListID:         resolveListID(r.ListID, listTokens),
		Priority:       Priority(strings.ToLower(r.Priority)),
		Completed:      r.Completed,
		Repeat:         Repeat(strings.ToLower(r.Repeat)),
		IsImportant:    r.IsImportant,
		IsMyDay:        r.IsMyDay,
		ShowInCalendar: r.ShowInCalendar,
		Tags:           normalizeTags(r.Tags),
		Files:          normalizeFiles(r.Files),
	}
	if !t.Priority.IsValid() {
		t.Priority = PriorityMedium
	}
	if !t.Repeat.IsValid() {
		t.Repeat = RepeatNone
	}
	if r.Memo != nil {
		t.Memo = truncateRunes(sanitizeMemo(*r.Memo), MaxMemoLength)
	}
	t.DueDate = parseOptionalDate(r.DueDate)
	t.StartDate = parseOptionalDate(r.StartDate)
	if validateRange(t.StartDate, t.DueDate) != nil {
		t.StartDate = nil
	}

	t.CreatedAt = parseTimestamp(r.CreatedAt, now)
	t.UpdatedAt = t.CreatedAt
	if r.UpdatedAt != nil {
		t.UpdatedAt = parseTimestamp(*r.UpdatedAt, t.CreatedAt)
	}

	if t.Completed {
		if r.CompletedAt != nil {
			if at, err := time.Parse(time.RFC3339Nano, *r.CompletedAt); err == nil {
				t.CompletedAt = &at
			}
		}
		if t.Repeat != RepeatNone {
			t.NextRecurrenceDate = parseOptionalDate(r.NextRecurrenceDate)
		}
	}
	return t
}

func normalizeFiles(raw []rawFile) []AttachedFile {
	files := make([]AttachedFile, 0, len(raw))
	for _, f := range raw {
		_, id, _ := rawID(f.ID)
		if id == "" {
			id = uuid.NewString()
		}
		url := f.URL
		if url == "" {
			url = f.Data
		}
		files = append(files, AttachedFile{
			ID:   id,
			Name: f.Name,
			Size: f.Size,
			Type: f.Type,
			URL:  url,
		})
	}
	return files
}

func resolveListID(msg json.RawMessage, tokens map[string]ID) ID {
	n, token, ok := rawID(msg)
	if id, found := tokens[token]; found && token != "" {
		return id
	}
	if ok {
		return n
	}
	return DefaultListID
}

func parseOptionalDate(s *string) *Date {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	d, err := parseLooseDate(strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &d
}

func parseTimestamp(s string, fallback time.Time) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s)); err == nil {
		return t
	}
	return fallback
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}

// Package todo holds the to-do state and recurrence engine: the entity
// store, the mutation operations that keep todo fields consistent, the
// recurrence scheduler and the filter/sort pipeline that derives what a
// UI shows.
//
// The store is not safe for concurrent use. Callers drive it from a single
// goroutine (the UI event loop or a CLI command).
package todo

import "time"

// ID identifies a todo or a list. Todo and list ids are separate sequences.
type ID int64

// DefaultListID is the permanent, non-deletable list.
const DefaultListID ID = 1

// Priority ranks a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriorities returns all priorities, lowest first.
func ValidPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities: high sorts before medium before low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Repeat is the recurrence rule of a todo.
type Repeat string

const (
	RepeatNone    Repeat = "none"
	RepeatDaily   Repeat = "daily"
	RepeatWeekly  Repeat = "weekly"
	RepeatMonthly Repeat = "monthly"
	RepeatYearly  Repeat = "yearly"
)

// ValidRepeats returns all recurrence rules.
func ValidRepeats() []Repeat {
	return []Repeat{RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly}
}

// IsValid returns true if the rule is a known value.
func (r Repeat) IsValid() bool {
	for _, valid := range ValidRepeats() {
		if r == valid {
			return true
		}
	}
	return false
}

// Todo is a single to-do item.
type Todo struct {
	ID                 ID             `json:"id"`
	Text               string         `json:"text"`
	ListID             ID             `json:"listId"`
	Priority           Priority       `json:"priority"`
	Completed          bool           `json:"completed"`
	CompletedAt        *time.Time     `json:"completedAt"`
	DueDate            *Date          `json:"dueDate"`
	StartDate          *Date          `json:"startDate"`
	Repeat             Repeat         `json:"repeat"`
	NextRecurrenceDate *Date          `json:"nextRecurrenceDate"`
	IsImportant        bool           `json:"isImportant"`
	IsMyDay            bool           `json:"isMyDay"`
	ShowInCalendar     bool           `json:"showInCalendar"`
	Memo               string         `json:"memo"`
	Tags               []string       `json:"tags"`
	Files              []AttachedFile `json:"files"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// clone returns a deep copy so callers cannot alias store state.
func (t Todo) clone() Todo {
	c := t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	if t.DueDate != nil {
		c.DueDate = DatePtr(*t.DueDate)
	}
	if t.StartDate != nil {
		c.StartDate = DatePtr(*t.StartDate)
	}
	if t.NextRecurrenceDate != nil {
		c.NextRecurrenceDate = DatePtr(*t.NextRecurrenceDate)
	}
	c.Tags = append([]string{}, t.Tags...)
	c.Files = append([]AttachedFile{}, t.Files...)
	return c
}

// TodoList groups todos.
type TodoList struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Default list display attributes.
const (
	DefaultListName  = "My Tasks"
	DefaultListIcon  = "📋"
	DefaultListColor = "#0078d4"
)

func defaultList(now time.Time) TodoList {
	return TodoList{
		ID:        DefaultListID,
		Name:      DefaultListName,
		Icon:      DefaultListIcon,
		Color:     DefaultListColor,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AttachedFile describes a file carried inline on a todo.
type AttachedFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
	// URL is a base64 data URI holding the file content.
	URL string `json:"url"`
}

// Limits on user-entered text, counted in runes.
const (
	MaxTextLength     = 200
	MaxMemoLength     = 500
	MaxListNameLength = 50
)

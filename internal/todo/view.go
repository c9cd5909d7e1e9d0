package todo

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filter is the status/category filter of a view.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
	FilterToday     Filter = "today"
	FilterImportant Filter = "important"
	FilterScheduled Filter = "scheduled"
)

// ValidFilters returns every filter in display order.
func ValidFilters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted, FilterToday, FilterImportant, FilterScheduled}
}

// ParseFilter normalizes a filter name. "pending" is accepted for active.
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "all":
		return FilterAll, nil
	case "pending":
		return FilterActive, nil
	}
	f := Filter(s)
	if !slices.Contains(ValidFilters(), f) {
		return "", fmt.Errorf("unknown filter %q", s)
	}
	return f, nil
}

// SortKey selects the comparator of a view.
type SortKey string

const (
	SortNewest       SortKey = "newest"
	SortOldest       SortKey = "oldest"
	SortPriority     SortKey = "priority"
	SortDueDate      SortKey = "dueDate"
	SortAlphabetical SortKey = "alphabetical"
	SortCompleted    SortKey = "completed"
)

// ValidSortKeys returns every sort key in display order.
func ValidSortKeys() []SortKey {
	return []SortKey{SortNewest, SortOldest, SortPriority, SortDueDate, SortAlphabetical, SortCompleted}
}

// ParseSortKey normalizes a sort key, ignoring case.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortNewest, nil
	}
	for _, k := range ValidSortKeys() {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	switch strings.ToLower(s) {
	case "due":
		return SortDueDate, nil
	case "completedstatus", "status":
		return SortCompleted, nil
	case "alpha", "text":
		return SortAlphabetical, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ParseSortOrder normalizes a sort order.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return OrderAsc, nil
	case "desc":
		return OrderDesc, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// Toggle returns the opposite order.
func (o SortOrder) Toggle() SortOrder {
	if o == OrderDesc {
		return OrderAsc
	}
	return OrderDesc
}

// AllPriorities disables the priority filter of a view.
const AllPriorities Priority = "all"

// ViewOptions are the parameters of the view pipeline.
type ViewOptions struct {
	// ListID scopes the view to one list; zero means every list.
	ListID ID
	Filter Filter
	// Priority keeps only one priority; empty or AllPriorities keeps all.
	Priority Priority
	// Query, when non-empty after sanitizing, replaces every filter above.
	Query string
	Sort  SortKey
	Order SortOrder
}

// Derive runs the view pipeline over todos: list scope, status filter,
// priority filter, search override, then sort. A search query discards the
// first three stages and matches against all of todos. The input slice is
// not modified.
func Derive(todos []Todo, opts ViewOptions, today Date, locale Locale) []Todo {
	out := slices.Clone(todos)

	if opts.ListID != 0 {
		out = slices.DeleteFunc(out, func(t Todo) bool { return t.ListID != opts.ListID })
	}
	out = slices.DeleteFunc(out, func(t Todo) bool { return !matchesFilter(t, opts.Filter, today) })
	if opts.Priority != "" && opts.Priority != AllPriorities {
		out = slices.DeleteFunc(out, func(t Todo) bool { return t.Priority != opts.Priority })
	}

	if q := strings.ToLower(Sanitize(opts.Query)); q != "" {
		out = slices.Clone(todos)
		out = slices.DeleteFunc(out, func(t Todo) bool { return !matchesQuery(t, q, locale) })
	}

	slices.SortStableFunc(out, comparator(opts.Sort, opts.Order, locale))
	return out
}

func matchesFilter(t Todo, f Filter, today Date) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	case FilterToday:
		return !t.Completed && (t.IsMyDay || (t.DueDate != nil && t.DueDate.Equal(today)))
	case FilterImportant:
		return !t.Completed && t.IsImportant
	case FilterScheduled:
		if t.Completed || t.DueDate == nil {
			return false
		}
		return !t.DueDate.Before(today) && !t.DueDate.After(today.AddDays(7))
	default:
		return true
	}
}

func matchesQuery(t Todo, q string, locale Locale) bool {
	if strings.Contains(strings.ToLower(t.Text), q) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Memo), q) {
		return true
	}
	if strings.Contains(strings.ToLower(PriorityLabel(t.Priority, locale)), q) {
		return true
	}
	return t.DueDate != nil && strings.Contains(t.DueDate.String(), q)
}

// comparator returns the sort function for key. Each key has a natural
// order (newest first, oldest first, high priority first, earliest due
// first, collation order, pending first) and desc reverses it, with two
// exceptions: the completed sort never reverses, and todos without a due
// date stay last under the dueDate sort.
func comparator(key SortKey, order SortOrder, locale Locale) func(a, b Todo) int {
	desc := order == OrderDesc
	flip := func(c int) int {
		if desc {
			return -c
		}
		return c
	}
	switch key {
	case SortOldest:
		return func(a, b Todo) int { return flip(a.CreatedAt.Compare(b.CreatedAt)) }
	case SortPriority:
		return func(a, b Todo) int { return flip(a.Priority.Rank() - b.Priority.Rank()) }
	case SortDueDate:
		return func(a, b Todo) int {
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return 0
			case a.DueDate == nil:
				return 1
			case b.DueDate == nil:
				return -1
			}
			return flip(a.DueDate.Compare(*b.DueDate))
		}
	case SortAlphabetical:
		col := collate.New(collationTag(locale), collate.IgnoreCase)
		return func(a, b Todo) int { return flip(col.CompareString(a.Text, b.Text)) }
	case SortCompleted:
		return func(a, b Todo) int {
			switch {
			case a.Completed == b.Completed:
				return 0
			case a.Completed:
				return 1
			default:
				return -1
			}
		}
	default:
		return func(a, b Todo) int { return flip(b.CreatedAt.Compare(a.CreatedAt)) }
	}
}

func collationTag(locale Locale) language.Tag {
	if locale == LocaleKorean {
		return language.Korean
	}
	return language.English
}

// PriorityLabel is the display label of p in locale. Search matches it.
func PriorityLabel(p Priority, locale Locale) string {
	if locale == LocaleKorean {
		switch p {
		case PriorityHigh:
			return "높음"
		case PriorityMedium:
			return "보통"
		case PriorityLow:
			return "낮음"
		}
		return string(p)
	}
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	}
	return string(p)
}

// RepeatLabel is the display label of r in locale.
func RepeatLabel(r Repeat, locale Locale) string {
	if locale == LocaleKorean {
		switch r {
		case RepeatDaily:
			return "매일"
		case RepeatWeekly:
			return "매주"
		case RepeatMonthly:
			return "매월"
		case RepeatYearly:
			return "매년"
		}
		return "반복 안함"
	}
	switch r {
	case RepeatDaily:
		return "Daily"
	case RepeatWeekly:
		return "Weekly"
	case RepeatMonthly:
		return "Monthly"
	case RepeatYearly:
		return "Yearly"
	}
	return "Never"
}

// DefaultView returns view options from the stored preferences and the
// selected list.
func (s *Store) DefaultView() ViewOptions {
	return ViewOptions{
		ListID: s.current,
		Filter: s.settings.Filter,
		Sort:   s.settings.SortBy,
		Order:  s.settings.SortOrder,
	}
}

// View runs Derive over the whole collection.
func (s *Store) View(opts ViewOptions) []Todo {
	return Derive(s.Todos(), opts, s.Today(), s.settings.Locale)
}

// Sections splits what a UI shows into the filtered pending items and the
// always-visible completed section.
type Sections struct {
	Pending   []Todo
	Completed []Todo
}

// Sections returns the pipeline output without completed items, and every
// completed todo of the collection regardless of opts, most recently
// completed first.
func (s *Store) Sections(opts ViewOptions) Sections {
	pending := slices.DeleteFunc(s.View(opts), func(t Todo) bool { return t.Completed })
	completed := slices.DeleteFunc(s.Todos(), func(t Todo) bool { return !t.Completed })
	slices.SortStableFunc(completed, func(a, b Todo) int {
		switch {
		case a.CompletedAt == nil && b.CompletedAt == nil:
			return 0
		case a.CompletedAt == nil:
			return 1
		case b.CompletedAt == nil:
			return -1
		}
		return b.CompletedAt.Compare(*a.CompletedAt)
	})
	return Sections{Pending: pending, Completed: completed}
}

// Stats counts todos across the whole collection.
type Stats struct {
	Total     int
	Pending   int
	Completed int
}

// Stats counts every todo by completion.
func (s *Store) Stats() Stats {
	st := Stats{Total: len(s.todos)}
	for _, t := range s.todos {
		if t.Completed {
			st.Completed++
		}
	}
	st.Pending = st.Total - st.Completed
	return st
}

// CalendarDay returns the todos shown on day d of the calendar: those
// flagged ShowInCalendar whose start..due range covers d, or whose due
// date is d when there is no start date.
func (s *Store) CalendarDay(d Date) []Todo {
	var out []Todo
	for _, t := range s.todos {
		if !t.ShowInCalendar || t.DueDate == nil {
			continue
		}
		start := *t.DueDate
		if t.StartDate != nil {
			start = *t.StartDate
		}
		if d.Before(start) || d.After(*t.DueDate) {
			continue
		}
		out = append(out, t.clone())
	}
	return out
}

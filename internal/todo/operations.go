package todo

import (
	"slices"
	"time"
)

// NewTodo configures a todo to create.
type NewTodo struct {
	Text string

	// ListID is the owning list. Zero means the selected list, or the
	// default list when none is selected.
	ListID ID

	// Priority defaults to PriorityMedium when empty.
	Priority Priority

	DueDate   *Date
	StartDate *Date

	// Repeat defaults to RepeatNone when empty.
	Repeat Repeat

	Memo           string
	Tags           []string
	Files          []AttachedFile
	IsImportant    bool
	IsMyDay        bool
	ShowInCalendar bool
}

// AddTodo validates in and inserts the new todo at the head of the
// collection. On a validation failure nothing changes.
func (s *Store) AddTodo(in NewTodo) (Todo, error) {
	t, err := s.buildTodo(in)
	if err != nil {
		s.notify(NoticeError, "%v", err)
		return Todo{}, err
	}
	s.todos = slices.Insert(s.todos, 0, t)
	s.flush()
	s.logger.Debug("added todo", "id", t.ID, "list", t.ListID)
	s.notify(NoticeSuccess, "Task added")
	return t.clone(), nil
}

func (s *Store) buildTodo(in NewTodo) (Todo, error) {
	text, err := ValidateText(in.Text)
	if err != nil {
		return Todo{}, err
	}
	memo, err := ValidateMemo(in.Memo)
	if err != nil {
		return Todo{}, err
	}
	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.IsValid() {
		return Todo{}, invalid("priority", ErrInvalidPriority)
	}
	repeat := in.Repeat
	if repeat == "" {
		repeat = RepeatNone
	}
	if !repeat.IsValid() {
		return Todo{}, invalid("repeat", ErrInvalidRepeat)
	}
	for _, f := range in.Files {
		if f.Size > MaxFileSize {
			return Todo{}, invalid("files", ErrFileTooLarge)
		}
	}

	due := copyDate(in.DueDate)
	if in.IsMyDay && due == nil {
		due = DatePtr(s.Today())
	}
	start := copyDate(in.StartDate)
	if err := validateRange(start, due); err != nil {
		return Todo{}, err
	}

	now := s.clock()
	return Todo{
		ID:             s.nextTodoID(),
		Text:           text,
		ListID:         s.resolveList(in.ListID),
		Priority:       priority,
		DueDate:        due,
		StartDate:      start,
		Repeat:         repeat,
		IsImportant:    in.IsImportant,
		IsMyDay:        in.IsMyDay,
		ShowInCalendar: in.ShowInCalendar,
		Memo:           memo,
		Tags:           normalizeTags(in.Tags),
		Files:          append([]AttachedFile{}, in.Files...),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// resolveList maps a requested list id onto an existing list.
func (s *Store) resolveList(id ID) ID {
	if id == 0 {
		id = s.current
	}
	if id == 0 {
		return DefaultListID
	}
	if s.listIndex(id) < 0 {
		s.logger.Debug("unknown list, using default", "list", id)
		return DefaultListID
	}
	return id
}

// TodoPatch updates a todo. Nil fields are left unchanged.
type TodoPatch struct {
	Text     *string
	ListID   *ID
	Priority *Priority

	DueDate      *Date
	ClearDueDate bool

	StartDate      *Date
	ClearStartDate bool

	Repeat         *Repeat
	Memo           *string
	Tags           *[]string
	IsImportant    *bool
	IsMyDay        *bool
	ShowInCalendar *bool
}

// UpdateTodo merges p into the todo with the given id. An unknown id is a
// silent no-op: the todo may have been deleted while it was being edited.
func (s *Store) UpdateTodo(id ID, p TodoPatch) error {
	i := s.indexOf(id)
	if i < 0 {
		s.logger.Debug("update of missing todo ignored", "id", id)
		return nil
	}
	t, err := s.patched(s.todos[i].clone(), p)
	if err != nil {
		s.notify(NoticeError, "%v", err)
		return err
	}
	t.UpdatedAt = s.clock()
	s.todos[i] = t
	s.flush()
	s.notify(NoticeSuccess, "Task updated")
	return nil
}

func (s *Store) patched(t Todo, p TodoPatch) (Todo, error) {
	if p.Text != nil {
		text, err := ValidateText(*p.Text)
		if err != nil {
			return t, err
		}
		t.Text = text
	}
	if p.Memo != nil {
		memo, err := ValidateMemo(*p.Memo)
		if err != nil {
			return t, err
		}
		t.Memo = memo
	}
	if p.Priority != nil {
		if !p.Priority.IsValid() {
			return t, invalid("priority", ErrInvalidPriority)
		}
		t.Priority = *p.Priority
	}
	if p.Repeat != nil {
		if !p.Repeat.IsValid() {
			return t, invalid("repeat", ErrInvalidRepeat)
		}
		t.Repeat = *p.Repeat
		if t.Repeat == RepeatNone {
			t.NextRecurrenceDate = nil
		}
	}
	if p.ListID != nil {
		t.ListID = s.resolveList(*p.ListID)
	}
	switch {
	case p.ClearDueDate:
		t.DueDate = nil
	case p.DueDate != nil:
		t.DueDate = DatePtr(*p.DueDate)
	}
	switch {
	case p.ClearStartDate:
		t.StartDate = nil
	case p.StartDate != nil:
		t.StartDate = DatePtr(*p.StartDate)
	}
	if err := validateRange(t.StartDate, t.DueDate); err != nil {
		return t, err
	}
	if p.Tags != nil {
		t.Tags = normalizeTags(*p.Tags)
	}
	if p.IsImportant != nil {
		t.IsImportant = *p.IsImportant
	}
	if p.IsMyDay != nil {
		t.IsMyDay = *p.IsMyDay
	}
	if p.ShowInCalendar != nil {
		t.ShowInCalendar = *p.ShowInCalendar
	}
	return t, nil
}

// ToggleCompleted flips a todo's completion. Completing a repeating todo
// schedules its next occurrence; un-completing cancels a pending one.
// It reports whether the todo exists.
func (s *Store) ToggleCompleted(id ID) bool {
	i := s.indexOf(id)
	if i < 0 {
		s.logger.Debug("toggle of missing todo ignored", "id", id)
		return false
	}
	now := s.clock()
	t := &s.todos[i]
	t.Completed = !t.Completed
	if t.Completed {
		at := now
		t.CompletedAt = &at
		if next, ok := NextDate(recurrenceBase(*t, now), t.Repeat); ok {
			t.NextRecurrenceDate = &next
		}
	} else {
		t.CompletedAt = nil
		t.NextRecurrenceDate = nil
	}
	t.UpdatedAt = now
	s.flush()

	switch {
	case !t.Completed:
		s.notify(NoticeSuccess, "Task marked as not completed")
	case t.NextRecurrenceDate != nil:
		s.notify(NoticeSuccess, "Task completed, repeats on %s", t.NextRecurrenceDate)
	default:
		s.notify(NoticeSuccess, "Task completed")
	}
	return true
}

// ToggleImportant flips the important flag. It reports whether the todo exists.
func (s *Store) ToggleImportant(id ID) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	t := &s.todos[i]
	t.IsImportant = !t.IsImportant
	t.UpdatedAt = s.clock()
	s.flush()
	if t.IsImportant {
		s.notify(NoticeSuccess, "Marked as important")
	} else {
		s.notify(NoticeSuccess, "Removed from important")
	}
	return true
}

// ToggleMyDay flips the My Day flag. Turning it on moves the due date to
// today; turning it off leaves the due date alone. A start date later than
// today is dropped so the range stays valid. It reports whether the todo
// exists.
func (s *Store) ToggleMyDay(id ID) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	t := &s.todos[i]
	t.IsMyDay = !t.IsMyDay
	if t.IsMyDay {
		today := s.Today()
		t.DueDate = DatePtr(today)
		if t.StartDate != nil && t.StartDate.After(today) {
			t.StartDate = nil
		}
	}
	t.UpdatedAt = s.clock()
	s.flush()
	if t.IsMyDay {
		s.notify(NoticeSuccess, "Added to My Day")
	} else {
		s.notify(NoticeSuccess, "Removed from My Day")
	}
	return true
}

// DeleteTodo removes a todo. Asking the user first is the caller's job.
// It reports whether the todo existed.
func (s *Store) DeleteTodo(id ID) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.todos = slices.Delete(s.todos, i, i+1)
	s.flush()
	s.notify(NoticeSuccess, "Task deleted")
	return true
}

// ClearAll removes every todo and returns how many were removed.
func (s *Store) ClearAll() int {
	n := len(s.todos)
	if n == 0 {
		s.notify(NoticeInfo, "Nothing to delete")
		return 0
	}
	s.todos = nil
	s.flush()
	s.notify(NoticeSuccess, "All tasks deleted")
	return n
}

// AddAttachments appends files to a todo. Nothing is attached when any file
// is over MaxFileSize. An unknown id is a no-op.
func (s *Store) AddAttachments(id ID, files ...AttachedFile) error {
	i := s.indexOf(id)
	if i < 0 || len(files) == 0 {
		return nil
	}
	for _, f := range files {
		if f.Size > MaxFileSize {
			err := invalid("files", ErrFileTooLarge)
			s.notify(NoticeError, "File too large: %s", f.Name)
			return err
		}
	}
	t := &s.todos[i]
	t.Files = append(t.Files, files...)
	t.UpdatedAt = s.clock()
	s.flush()
	return nil
}

// RemoveAttachment detaches a file. It reports whether anything was removed.
func (s *Store) RemoveAttachment(id ID, fileID string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	t := &s.todos[i]
	j := slices.IndexFunc(t.Files, func(f AttachedFile) bool { return f.ID == fileID })
	if j < 0 {
		return false
	}
	t.Files = slices.Delete(t.Files, j, j+1)
	t.UpdatedAt = s.clock()
	s.flush()
	s.notify(NoticeSuccess, "File removed")
	return true
}

func copyDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	return DatePtr(*d)
}

// recurrenceBase is the date the next occurrence counts from: the due date
// when there is one, otherwise the day the todo was completed.
func recurrenceBase(t Todo, completedAt time.Time) Date {
	if t.DueDate != nil {
		return *t.DueDate
	}
	return DateOf(completedAt)
}

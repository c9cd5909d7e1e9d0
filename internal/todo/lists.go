package todo

import "slices"

// NewList configures a list to create.
type NewList struct {
	Name  string
	Icon  string
	Color string
}

// AddList validates in and appends a new list.
func (s *Store) AddList(in NewList) (TodoList, error) {
	name, err := ValidateListName(in.Name)
	if err != nil {
		s.notify(NoticeError, "%v", err)
		return TodoList{}, err
	}
	icon := in.Icon
	if icon == "" {
		icon = DefaultListIcon
	}
	color := in.Color
	if color == "" {
		color = DefaultListColor
	}
	now := s.clock()
	l := TodoList{
		ID:        s.nextListID(),
		Name:      name,
		Icon:      icon,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.lists = append(s.lists, l)
	s.flush()
	s.notify(NoticeSuccess, "List %q created", l.Name)
	return l, nil
}

// ListPatch updates a list. Nil fields are left unchanged.
type ListPatch struct {
	Name  *string
	Icon  *string
	Color *string
}

// UpdateList merges p into a list. An unknown id is a silent no-op.
func (s *Store) UpdateList(id ID, p ListPatch) error {
	i := s.listIndex(id)
	if i < 0 {
		s.logger.Debug("update of missing list ignored", "id", id)
		return nil
	}
	l := s.lists[i]
	if p.Name != nil {
		name, err := ValidateListName(*p.Name)
		if err != nil {
			s.notify(NoticeError, "%v", err)
			return err
		}
		l.Name = name
	}
	if p.Icon != nil && *p.Icon != "" {
		l.Icon = *p.Icon
	}
	if p.Color != nil && *p.Color != "" {
		l.Color = *p.Color
	}
	l.UpdatedAt = s.clock()
	s.lists[i] = l
	s.flush()
	return nil
}

// DeleteList removes a list and moves its todos to the default list. If the
// list was selected, the default list becomes selected. Deleting the
// default list changes nothing and returns ErrDefaultListProtected; an
// unknown id is a silent no-op.
func (s *Store) DeleteList(id ID) error {
	if id == DefaultListID {
		s.notify(NoticeError, "The default list cannot be deleted")
		return ErrDefaultListProtected
	}
	i := s.listIndex(id)
	if i < 0 {
		s.logger.Debug("delete of missing list ignored", "id", id)
		return nil
	}
	name := s.lists[i].Name
	s.lists = slices.Delete(s.lists, i, i+1)

	now := s.clock()
	moved := 0
	for j := range s.todos {
		if s.todos[j].ListID == id {
			s.todos[j].ListID = DefaultListID
			s.todos[j].UpdatedAt = now
			moved++
		}
	}
	if s.current == id {
		s.current = DefaultListID
	}
	s.flush()
	s.logger.Debug("deleted list", "id", id, "moved", moved)
	s.notify(NoticeSuccess, "List %q deleted", name)
	return nil
}

// SelectList scopes the view to a list; zero selects every list. It reports
// whether the selection changed to a known list.
func (s *Store) SelectList(id ID) bool {
	if id != 0 && s.listIndex(id) < 0 {
		return false
	}
	s.current = id
	return true
}

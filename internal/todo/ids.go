package todo

// MaxID is the largest id a record can carry. It is the largest integer a
// JSON number survives exactly as a float64, so ids round-trip through any
// reader of the stored documents. Loaded ids above it are re-keyed.
const MaxID ID = 1<<53 - 1

// nextTodoID returns one past the highest todo id either present in the
// collection or issued earlier this session, so deleting the newest todo
// never frees its id for reuse.
func (s *Store) nextTodoID() ID {
	next := s.lastTodoID
	for _, t := range s.todos {
		next = max(next, t.ID)
	}
	if next >= MaxID {
		next = lowestFreeID(len(s.todos), func(yield func(ID)) {
			for _, t := range s.todos {
				yield(t.ID)
			}
		})
		s.logger.Warn("todo ids exhausted, reusing a free id", "id", next)
		return next
	}
	next++
	s.lastTodoID = next
	return next
}

// nextListID is nextTodoID for lists.
func (s *Store) nextListID() ID {
	next := s.lastListID
	for _, l := range s.lists {
		next = max(next, l.ID)
	}
	if next >= MaxID {
		next = lowestFreeID(len(s.lists), func(yield func(ID)) {
			for _, l := range s.lists {
				yield(l.ID)
			}
		})
		s.logger.Warn("list ids exhausted, reusing a free id", "id", next)
		return next
	}
	next++
	s.lastListID = next
	return next
}

// lowestFreeID returns the smallest positive id not among the n ids that
// each yields. One of 1..n+1 is always free.
func lowestFreeID(n int, each func(yield func(ID))) ID {
	used := make(map[ID]struct{}, n)
	each(func(id ID) { used[id] = struct{}{} })
	for id := ID(1); ; id++ {
		if _, taken := used[id]; !taken {
			return id
		}
	}
}

// bumpHighWater raises the issued-id marks to cover freshly loaded records.
func (s *Store) bumpHighWater() {
	for _, t := range s.todos {
		s.lastTodoID = max(s.lastTodoID, t.ID)
	}
	for _, l := range s.lists {
		s.lastListID = max(s.lastListID, l.ID)
	}
}

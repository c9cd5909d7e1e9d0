package todo

import (
	"slices"
	"time"
)

// NextDate returns the occurrence after base for rule r. Monthly and yearly
// steps clamp to the end of a shorter month: 2024-01-31 monthly is
// 2024-02-29 and 2024-02-29 yearly is 2025-02-28. ok is false for
// RepeatNone or an unknown rule.
func NextDate(base Date, r Repeat) (next Date, ok bool) {
	switch r {
	case RepeatDaily:
		return base.AddDays(1), true
	case RepeatWeekly:
		return base.AddDays(7), true
	case RepeatMonthly:
		return base.AddMonths(1), true
	case RepeatYearly:
		return base.AddYears(1), true
	default:
		return Date{}, false
	}
}

// CheckRecurrences materializes the pending occurrence of every completed
// repeating todo whose next recurrence date is on or before today, and
// returns the new todos.
//
// Each source todo yields at most one new todo per call no matter how long
// ago its date passed; missed periods are not backfilled. The source's
// pending date is consumed, so calling again with the same today creates
// nothing.
func (s *Store) CheckRecurrences(today Date) []Todo {
	now := s.clock()
	var spawned []Todo
	for i := range s.todos {
		src := &s.todos[i]
		if src.NextRecurrenceDate == nil || today.Before(*src.NextRecurrenceDate) {
			continue
		}
		due := *src.NextRecurrenceDate
		src.NextRecurrenceDate = nil
		src.UpdatedAt = now
		if !src.Completed || src.Repeat == RepeatNone {
			continue
		}
		t := s.occurrence(*src, due, now)
		s.logger.Info("recurring todo materialized", "source", src.ID, "id", t.ID, "due", due)
		spawned = append(spawned, t)
	}
	if len(spawned) == 0 {
		return nil
	}

	// newest first: the last one spawned ends up at the head, as if each
	// had been added in turn
	head := slices.Clone(spawned)
	slices.Reverse(head)
	s.todos = append(head, s.todos...)
	s.flush()

	if len(spawned) == 1 {
		s.notify(NoticeInfo, "Recurring task created: %s", spawned[0].Text)
	} else {
		s.notify(NoticeInfo, "%d recurring tasks created", len(spawned))
	}

	out := make([]Todo, len(spawned))
	for i, t := range spawned {
		out[i] = t.clone()
	}
	return out
}

// CheckRecurrencesNow runs CheckRecurrences for the store's current date.
func (s *Store) CheckRecurrencesNow() []Todo {
	return s.CheckRecurrences(s.Today())
}

func (s *Store) occurrence(src Todo, due Date, now time.Time) Todo {
	return Todo{
		ID:        s.nextTodoID(),
		Text:      src.Text,
		ListID:    src.ListID,
		Priority:  src.Priority,
		DueDate:   DatePtr(due),
		Repeat:    src.Repeat,
		Memo:      src.Memo,
		Tags:      append([]string{}, src.Tags...),
		Files:     []AttachedFile{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UntilMidnight is the delay from now to the next local midnight in now's
// location. Callers re-arm a one-shot timer with it after every firing.
func UntilMidnight(now time.Time) time.Duration {
	y, m, d := now.Date()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	return next.Sub(now)
}

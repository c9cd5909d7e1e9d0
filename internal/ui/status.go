package ui

import (
	"sync"

	"myday/internal/todo"
)

// StatusLine collects store notices for the status bar. Pass it to the
// store with todo.WithNotifier and to Run.
type StatusLine struct {
	mu     sync.Mutex
	notice todo.Notice
	seq    int
}

func NewStatusLine() *StatusLine {
	return &StatusLine{}
}

func (s *StatusLine) Notify(n todo.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = n
	s.seq++
}

// Latest returns the most recent notice and a counter that changes with
// every new one.
func (s *StatusLine) Latest() (todo.Notice, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice, s.seq
}

// Set replaces the current notice with a local message.
func (s *StatusLine) Set(level todo.NoticeLevel, msg string) {
	s.Notify(todo.Notice{Level: level, Message: msg})
}

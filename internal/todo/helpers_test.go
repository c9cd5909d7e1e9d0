package todo_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"myday/internal/todo"
)

var errDiskFull = errors.New("disk full")

// fakeBackend is an in-memory Backend that can be told to fail.
type fakeBackend struct {
	docs   map[string][]byte
	putErr error
	getErr error
	writes int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{docs: map[string][]byte{}}
}

func (b *fakeBackend) Get(key string) ([]byte, bool, error) {
	if b.getErr != nil {
		return nil, false, b.getErr
	}
	v, ok := b.docs[key]
	return v, ok, nil
}

func (b *fakeBackend) Put(key string, value []byte) error {
	if b.putErr != nil {
		return b.putErr
	}
	b.writes++
	b.docs[key] = append([]byte(nil), value...)
	return nil
}

// stampedBackend also reports per-key write times.
type stampedBackend struct {
	*fakeBackend
	stamps map[string]time.Time
}

func (b *stampedBackend) UpdatedAt(key string) (time.Time, bool, error) {
	at, ok := b.stamps[key]
	return at, ok, nil
}

// fakeClock returns a settable time.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Set(year int, month time.Month, day int) {
	c.now = time.Date(year, month, day, 9, 0, 0, 0, time.UTC)
}

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type noticeRecorder struct {
	notices []todo.Notice
}

func (r *noticeRecorder) Notify(n todo.Notice) { r.notices = append(r.notices, n) }

func (r *noticeRecorder) last() todo.Notice {
	if len(r.notices) == 0 {
		return todo.Notice{}
	}
	return r.notices[len(r.notices)-1]
}

type harness struct {
	store   *todo.Store
	backend *fakeBackend
	clock   *fakeClock
	notices *noticeRecorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	return newHarnessWith(t, newFakeBackend())
}

func newHarnessWith(t *testing.T, backend *fakeBackend) *harness {
	t.Helper()

	return newHarnessOver(t, backend, backend)
}

// newHarnessOver builds the store on outer, which wraps fake.
func newHarnessOver(t *testing.T, outer todo.Backend, fake *fakeBackend) *harness {
	t.Helper()

	clock := &fakeClock{}
	clock.Set(2024, time.January, 1)
	notices := &noticeRecorder{}
	store := todo.New(outer,
		todo.WithClock(clock.Now),
		todo.WithLocation(time.UTC),
		todo.WithNotifier(notices),
	)
	return &harness{store: store, backend: fake, clock: clock, notices: notices}
}

func (h *harness) add(t *testing.T, in todo.NewTodo) todo.Todo {
	t.Helper()

	created, err := h.store.AddTodo(in)
	require.NoError(t, err, "AddTodo(%q)", in.Text)
	return created
}

func (h *harness) get(t *testing.T, id todo.ID) todo.Todo {
	t.Helper()

	got, ok := h.store.Todo(id)
	require.True(t, ok, "todo %d should exist", id)
	return got
}

func date(year int, month time.Month, day int) todo.Date {
	return todo.NewDate(year, month, day)
}

func datePtr(year int, month time.Month, day int) *todo.Date {
	return todo.DatePtr(todo.NewDate(year, month, day))
}

func ptr[T any](v T) *T { return &v }

func texts(todos []todo.Todo) []string {
	out := make([]string, len(todos))
	for i, t := range todos {
		out[i] = t.Text
	}
	return out
}

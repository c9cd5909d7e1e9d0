package todo_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myday/internal/todo"
)

func Test_Export_Import_Round_Trip(t *testing.T) {
	t.Parallel()

	src := newHarness(t)
	work, err := src.store.AddList(todo.NewList{Name: "Work"})
	require.NoError(t, err)
	src.add(t, todo.NewTodo{Text: "a", ListID: work.ID, Memo: "first\nsecond"})
	src.add(t, todo.NewTodo{Text: "b", Priority: todo.PriorityHigh, DueDate: datePtr(2024, 2, 2)})

	doc := src.store.Export()
	assert.Equal(t, todo.ExportVersion, doc.Version)
	assert.Equal(t, src.clock.Now(), doc.ExportDate)

	data, err := todo.MarshalDocument(doc)
	require.NoError(t, err)
	parsed, err := todo.ParseDocument(data)
	require.NoError(t, err)

	dst := newHarness(t)
	dst.add(t, todo.NewTodo{Text: "to be replaced"})
	require.NoError(t, dst.store.Import(parsed))

	if diff := cmp.Diff(src.store.Todos(), dst.store.Todos()); diff != "" {
		t.Fatalf("todos mismatch (-exported +imported):\n%s", diff)
	}
	if diff := cmp.Diff(src.store.Lists(), dst.store.Lists()); diff != "" {
		t.Fatalf("lists mismatch (-exported +imported):\n%s", diff)
	}
	assert.Equal(t, todo.NoticeSuccess, dst.notices.last().Level)

	next := dst.add(t, todo.NewTodo{Text: "after import"})
	assert.Equal(t, todo.ID(3), next.ID)
}

func Test_ParseDocument_Accepts_Comments_And_Trailing_Commas(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		// hand-edited backup
		"todos": [
			{"id": "x1", "text": "from backup", "listId": "1", "createdAt": "2024-01-01T00:00:00Z",},
		],
		"lists": [{"id": "1", "name": "Inbox"}],
		"settings": {"theme": "light", "locale": "en"},
		"exportDate": "2024-01-10T12:00:00Z",
		"version": 2,
	}`)

	doc, err := todo.ParseDocument(data)
	require.NoError(t, err)
	require.Len(t, doc.Todos, 1)
	assert.Equal(t, todo.ID(1), doc.Todos[0].ID)
	assert.Equal(t, "from backup", doc.Todos[0].Text)
	assert.Equal(t, todo.ThemeLight, doc.Settings.Theme)
	assert.Equal(t, todo.LocaleEnglish, doc.Settings.Locale)
	assert.Equal(t, todo.SortNewest, doc.Settings.SortBy, "missing settings take defaults")
	assert.Equal(t, "2", doc.Version)
	assert.Equal(t, 2024, doc.ExportDate.Year())
}

func Test_ParseDocument_Rejects_Garbage(t *testing.T) {
	t.Parallel()

	_, err := todo.ParseDocument([]byte(`todos: nope`))
	var perr *todo.ParseError
	require.ErrorAs(t, err, &perr)
}

func Test_Import_Keeps_State_When_Save_Fails(t *testing.T) {
	t.Parallel()

	doc, err := todo.ParseDocument([]byte(`{"todos": [{"id": 4, "text": "imported", "listId": 1}]}`))
	require.NoError(t, err)

	h := newHarness(t)
	h.backend.putErr = errDiskFull
	err = h.store.Import(doc)

	var perr *todo.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []string{"imported"}, texts(h.store.Todos()))
	assert.Equal(t, todo.NoticeWarning, h.notices.last().Level)
}

func Test_Import_Resets_Unknown_Selection(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	work, err := h.store.AddList(todo.NewList{Name: "Work"})
	require.NoError(t, err)
	require.True(t, h.store.SelectList(work.ID))

	doc, err := todo.ParseDocument([]byte(`{"todos": [], "lists": []}`))
	require.NoError(t, err)
	require.NoError(t, h.store.Import(doc))

	assert.Equal(t, todo.ID(0), h.store.CurrentListID())
	assert.Len(t, h.store.Lists(), 1, "the default list is restored")
}

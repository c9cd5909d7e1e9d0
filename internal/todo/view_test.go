package todo_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myday/internal/todo"
)

var viewToday = date(2024, 3, 10)

// viewFixture returns todos created one minute apart, newest first, the
// way the store keeps them.
func viewFixture() []todo.Todo {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	fixtures := []todo.Todo{
		{Text: "buy milk", ListID: 1, Priority: todo.PriorityLow, Memo: "2 liters"},
		{Text: "Write report", ListID: 2, Priority: todo.PriorityHigh, DueDate: datePtr(2024, 3, 10), IsImportant: true},
		{Text: "call mom", ListID: 1, Priority: todo.PriorityMedium, IsMyDay: true, DueDate: datePtr(2024, 3, 9)},
		{Text: "file taxes", ListID: 2, Priority: todo.PriorityHigh, DueDate: datePtr(2024, 3, 15)},
		{Text: "archive photos", ListID: 1, Priority: todo.PriorityLow, Completed: true, IsImportant: true, DueDate: datePtr(2024, 3, 10)},
		{Text: "Book flights", ListID: 2, Priority: todo.PriorityMedium, DueDate: datePtr(2024, 4, 1)},
	}
	out := make([]todo.Todo, len(fixtures))
	for i, fx := range fixtures {
		fx.ID = todo.ID(len(fixtures) - i)
		fx.CreatedAt = base.Add(time.Duration(len(fixtures)-i) * time.Minute)
		fx.Repeat = todo.RepeatNone
		out[i] = fx
	}
	return out
}

func derive(opts todo.ViewOptions) []string {
	return texts(todo.Derive(viewFixture(), opts, viewToday, todo.LocaleEnglish))
}

func Test_Derive_Status_Filters(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		filter todo.Filter
		want   []string
	}{
		{filter: todo.FilterAll, want: []string{"buy milk", "Write report", "call mom", "file taxes", "archive photos", "Book flights"}},
		{filter: todo.FilterActive, want: []string{"buy milk", "Write report", "call mom", "file taxes", "Book flights"}},
		{filter: todo.FilterCompleted, want: []string{"archive photos"}},
		{filter: todo.FilterToday, want: []string{"Write report", "call mom"}},
		{filter: todo.FilterImportant, want: []string{"Write report"}},
		{filter: todo.FilterScheduled, want: []string{"Write report", "file taxes"}},
	}

	for _, testCase := range testCases {
		t.Run(string(testCase.filter), func(t *testing.T) {
			t.Parallel()

			got := derive(todo.ViewOptions{Filter: testCase.filter})
			if diff := cmp.Diff(testCase.want, got); diff != "" {
				t.Fatalf("Derive mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_Derive_List_And_Priority_Scope(t *testing.T) {
	t.Parallel()

	got := derive(todo.ViewOptions{ListID: 2, Priority: todo.PriorityHigh})
	assert.Equal(t, []string{"Write report", "file taxes"}, got)

	got = derive(todo.ViewOptions{ListID: 1, Priority: todo.AllPriorities, Filter: todo.FilterActive})
	assert.Equal(t, []string{"buy milk", "call mom"}, got)
}

func Test_Derive_Search_Overrides_Every_Filter(t *testing.T) {
	t.Parallel()

	got := derive(todo.ViewOptions{
		ListID:   2,
		Filter:   todo.FilterCompleted,
		Priority: todo.PriorityHigh,
		Query:    "MILK",
	})
	assert.Equal(t, []string{"buy milk"}, got, "a todo from another list, status and priority still matches")
}

func Test_Derive_Search_Fields(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		query  string
		locale todo.Locale
		want   []string
	}{
		{name: "Memo", query: "liters", locale: todo.LocaleEnglish, want: []string{"buy milk"}},
		{name: "PriorityLabelEnglish", query: "high", locale: todo.LocaleEnglish, want: []string{"Write report", "file taxes"}},
		{name: "PriorityLabelKorean", query: "높음", locale: todo.LocaleKorean, want: []string{"Write report", "file taxes"}},
		{name: "DueDate", query: "2024-04", locale: todo.LocaleEnglish, want: []string{"Book flights"}},
		{name: "Completed", query: "archive", locale: todo.LocaleEnglish, want: []string{"archive photos"}},
		{name: "BlankIsNoSearch", query: "   ", locale: todo.LocaleEnglish, want: []string{"buy milk", "call mom", "archive photos"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			opts := todo.ViewOptions{Query: testCase.query}
			if testCase.name == "BlankIsNoSearch" {
				opts.ListID = 1
			}
			got := texts(todo.Derive(viewFixture(), opts, viewToday, testCase.locale))
			assert.Equal(t, testCase.want, got)
		})
	}
}

func Test_Derive_Sorts(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		sort  todo.SortKey
		order todo.SortOrder
		want  []string
	}{
		{
			name: "NewestAsc", sort: todo.SortNewest, order: todo.OrderAsc,
			want: []string{"buy milk", "Write report", "call mom", "file taxes", "archive photos", "Book flights"},
		},
		{
			name: "NewestDesc", sort: todo.SortNewest, order: todo.OrderDesc,
			want: []string{"Book flights", "archive photos", "file taxes", "call mom", "Write report", "buy milk"},
		},
		{
			name: "Oldest", sort: todo.SortOldest, order: todo.OrderAsc,
			want: []string{"Book flights", "archive photos", "file taxes", "call mom", "Write report", "buy milk"},
		},
		{
			name: "PriorityIsStable", sort: todo.SortPriority, order: todo.OrderAsc,
			want: []string{"Write report", "file taxes", "call mom", "Book flights", "buy milk", "archive photos"},
		},
		{
			name: "PriorityDesc", sort: todo.SortPriority, order: todo.OrderDesc,
			want: []string{"buy milk", "archive photos", "call mom", "Book flights", "Write report", "file taxes"},
		},
		{
			name: "AlphabeticalIgnoresCase", sort: todo.SortAlphabetical, order: todo.OrderAsc,
			want: []string{"archive photos", "Book flights", "buy milk", "call mom", "file taxes", "Write report"},
		},
		{
			name: "CompletedIgnoresOrder", sort: todo.SortCompleted, order: todo.OrderDesc,
			want: []string{"buy milk", "Write report", "call mom", "file taxes", "Book flights", "archive photos"},
		},
		{
			name: "DueDateAsc", sort: todo.SortDueDate, order: todo.OrderAsc,
			want: []string{"call mom", "Write report", "archive photos", "file taxes", "Book flights", "buy milk"},
		},
		{
			name: "DueDateDesc", sort: todo.SortDueDate, order: todo.OrderDesc,
			want: []string{"Book flights", "file taxes", "Write report", "archive photos", "call mom", "buy milk"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := derive(todo.ViewOptions{Sort: testCase.sort, Order: testCase.order})
			if diff := cmp.Diff(testCase.want, got); diff != "" {
				t.Fatalf("sort mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_Derive_Due_Date_Nulls_Stay_Last(t *testing.T) {
	t.Parallel()

	todos := []todo.Todo{
		{ID: 1, Text: "none-a"},
		{ID: 2, Text: "late", DueDate: datePtr(2024, 5, 1)},
		{ID: 3, Text: "none-b"},
		{ID: 4, Text: "early", DueDate: datePtr(2024, 1, 1)},
	}
	for _, order := range []todo.SortOrder{todo.OrderAsc, todo.OrderDesc} {
		got := texts(todo.Derive(todos, todo.ViewOptions{Sort: todo.SortDueDate, Order: order}, viewToday, todo.LocaleEnglish))
		require.Len(t, got, 4)
		assert.Equal(t, []string{"none-a", "none-b"}, got[2:], "order %s", order)
	}
}

func Test_Derive_Does_Not_Modify_Input(t *testing.T) {
	t.Parallel()

	in := viewFixture()
	want := texts(in)
	todo.Derive(in, todo.ViewOptions{Sort: todo.SortAlphabetical, Filter: todo.FilterActive}, viewToday, todo.LocaleEnglish)
	assert.Equal(t, want, texts(in))
}

func Test_ParseFilter_And_Sort(t *testing.T) {
	t.Parallel()

	f, err := todo.ParseFilter("Pending")
	require.NoError(t, err)
	assert.Equal(t, todo.FilterActive, f)
	_, err = todo.ParseFilter("someday")
	require.Error(t, err)

	k, err := todo.ParseSortKey("due")
	require.NoError(t, err)
	assert.Equal(t, todo.SortDueDate, k)
	k, err = todo.ParseSortKey("DUEDATE")
	require.NoError(t, err)
	assert.Equal(t, todo.SortDueDate, k)
	_, err = todo.ParseSortKey("random")
	require.Error(t, err)

	o, err := todo.ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, todo.OrderAsc, o)
	assert.Equal(t, todo.OrderDesc, o.Toggle())
}

func Test_Store_Sections_Split_Pending_And_Completed(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	a := h.add(t, todo.NewTodo{Text: "a", Priority: todo.PriorityHigh})
	b := h.add(t, todo.NewTodo{Text: "b", Priority: todo.PriorityLow})
	c := h.add(t, todo.NewTodo{Text: "c", Priority: todo.PriorityLow})
	h.add(t, todo.NewTodo{Text: "d", Priority: todo.PriorityHigh})

	require.True(t, h.store.ToggleCompleted(a.ID))
	h.clock.Advance(time.Minute)
	require.True(t, h.store.ToggleCompleted(b.ID))

	sections := h.store.Sections(todo.ViewOptions{Priority: todo.PriorityLow})
	assert.Equal(t, []string{c.Text}, texts(sections.Pending))
	assert.Equal(t, []string{"b", "a"}, texts(sections.Completed), "completed ignores the priority filter, most recent first")

	assert.Equal(t, todo.Stats{Total: 4, Pending: 2, Completed: 2}, h.store.Stats())
}

func Test_Store_DefaultView_Follows_Settings_And_Selection(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	work, err := h.store.AddList(todo.NewList{Name: "Work"})
	require.NoError(t, err)
	require.True(t, h.store.SelectList(work.ID))
	h.store.UpdateSettings(todo.SettingsPatch{SortBy: ptr(todo.SortPriority), Filter: ptr(todo.FilterImportant)})

	assert.Equal(t, todo.ViewOptions{
		ListID: work.ID,
		Filter: todo.FilterImportant,
		Sort:   todo.SortPriority,
		Order:  todo.OrderAsc,
	}, h.store.DefaultView())
}

func Test_Store_CalendarDay(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.add(t, todo.NewTodo{Text: "range", ShowInCalendar: true, StartDate: datePtr(2024, 1, 3), DueDate: datePtr(2024, 1, 5)})
	h.add(t, todo.NewTodo{Text: "single", ShowInCalendar: true, DueDate: datePtr(2024, 1, 4)})
	h.add(t, todo.NewTodo{Text: "hidden", DueDate: datePtr(2024, 1, 4)})

	assert.Equal(t, []string{"single", "range"}, texts(h.store.CalendarDay(date(2024, 1, 4))))
	assert.Equal(t, []string{"range"}, texts(h.store.CalendarDay(date(2024, 1, 3))))
	assert.Empty(t, h.store.CalendarDay(date(2024, 1, 6)))
}

func Test_Labels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "높음", todo.PriorityLabel(todo.PriorityHigh, todo.LocaleKorean))
	assert.Equal(t, "Medium", todo.PriorityLabel(todo.PriorityMedium, todo.LocaleEnglish))
	assert.Equal(t, "매월", todo.RepeatLabel(todo.RepeatMonthly, todo.LocaleKorean))
	assert.Equal(t, "Never", todo.RepeatLabel(todo.RepeatNone, todo.LocaleEnglish))
}

package board_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/taskflow/internal/board"
	"github.com/Makepad-fr/taskflow/internal/model"
	"github.com/Makepad-fr/taskflow/internal/store/memstore"
	"github.com/Makepad-fr/taskflow/internal/tasks"
)

// MockStore lets tests fail store calls.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) List() []model.Task {
	args := m.Called()
	return args.Get(0).([]model.Task)
}

func (m *MockStore) Create(ctx context.Context, f model.Fields) (model.Task, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockStore) Update(ctx context.Context, t model.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) ReplaceAll(ctx context.Context, list []model.Task) error {
	return m.Called(ctx, list).Error(0)
}

func task(id string, status model.Status) model.Task {
	return model.Task{ID: id, Title: "t" + id, Description: "d" + id, Status: status, Priority: model.PriorityMedium}
}

// seeded returns a controller over a store holding list.
func seeded(t *testing.T, list ...model.Task) (*board.Controller, *tasks.Store, *memstore.Store) {
	t.Helper()
	kv := memstore.New()
	ms := time.UnixMilli(5000)
	st, err := tasks.Open(context.Background(), kv, tasks.WithClock(func() time.Time {
		ms = ms.Add(time.Millisecond)
		return ms
	}))
	require.NoError(t, err)
	if len(list) > 0 {
		require.NoError(t, st.ReplaceAll(context.Background(), list))
	}
	return board.New(st), st, kv
}

func ids(list []model.Task) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.ID
	}
	return out
}

func TestEditingContextTransitions(t *testing.T) {
	c, _, _ := seeded(t)
	assert.Equal(t, board.ModeClosed, c.Mode())
	_, open := c.Draft()
	assert.False(t, open)

	c.BeginCreate()
	d, open := c.Draft()
	require.True(t, open)
	assert.Equal(t, board.ModeCreate, c.Mode())
	assert.Equal(t, board.Draft{Status: model.StatusPending, Priority: model.PriorityMedium}, d)

	existing := task("7", model.StatusCompleted)
	c.BeginEdit(existing)
	d, _ = c.Draft()
	assert.Equal(t, board.ModeEdit, c.Mode())
	assert.Equal(t, existing, d.Task())

	c.Cancel()
	assert.Equal(t, board.ModeClosed, c.Mode())
}

func TestSubmitCreates(t *testing.T) {
	ctx := context.Background()
	c, st, _ := seeded(t)

	c.BeginCreate()
	require.NoError(t, c.SetField(board.FieldTitle, "Buy milk"))
	require.NoError(t, c.SetField(board.FieldDescription, "2%"))
	require.NoError(t, c.SetField(board.FieldStatus, "doing"))
	require.NoError(t, c.SetField(board.FieldPriority, "High"))
	require.NoError(t, c.Submit(ctx))

	assert.Equal(t, board.ModeClosed, c.Mode())
	snap := c.Snapshot()
	require.Len(t, snap, 1)
	assert.NotEmpty(t, snap[0].ID)
	assert.Equal(t, model.Fields{
		Title:       "Buy milk",
		Description: "2%",
		Status:      model.StatusInProgress,
		Priority:    model.PriorityHigh,
	}, snap[0].Fields())
	assert.Equal(t, st.List(), snap)
}

func TestSubmitUpdates(t *testing.T) {
	ctx := context.Background()
	c, st, _ := seeded(t, task("1", model.StatusPending), task("2", model.StatusPending))

	c.BeginEdit(c.Snapshot()[1])
	require.NoError(t, c.SetField(board.FieldTitle, "renamed"))
	require.NoError(t, c.SetField(board.FieldStatus, "Completado"))
	require.NoError(t, c.Submit(ctx))

	list := st.List()
	require.Len(t, list, 2)
	assert.Equal(t, "2", list[1].ID)
	assert.Equal(t, "renamed", list[1].Title)
	assert.Equal(t, model.StatusCompleted, list[1].Status)
	assert.Equal(t, list, c.Snapshot())
}

func TestSubmitWithoutContext(t *testing.T) {
	c, _, kv := seeded(t)
	assert.ErrorIs(t, c.Submit(context.Background()), board.ErrNotEditing)
	assert.ErrorIs(t, c.SetField(board.FieldTitle, "x"), board.ErrNotEditing)
	assert.Zero(t, kv.Writes())
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("write failed")
	st := new(MockStore)
	st.On("List").Return([]model.Task{})
	st.On("Create", mock.Anything, mock.Anything).Return(model.Task{}, boom)

	c := board.New(st)
	c.BeginCreate()
	require.NoError(t, c.SetField(board.FieldTitle, "keep me"))

	assert.ErrorIs(t, c.Submit(ctx), boom)
	d, open := c.Draft()
	assert.True(t, open)
	assert.Equal(t, board.ModeCreate, c.Mode())
	assert.Equal(t, "keep me", d.Title)
	st.AssertExpectations(t)
}

func TestSubmitUnknownIDKeepsDraft(t *testing.T) {
	c, _, _ := seeded(t, task("1", model.StatusPending))
	c.BeginEdit(task("gone", model.StatusPending))
	assert.ErrorIs(t, c.Submit(context.Background()), tasks.ErrNotFound)
	assert.Equal(t, board.ModeEdit, c.Mode())
}

func TestCancelPersistsNothing(t *testing.T) {
	c, st, kv := seeded(t, task("1", model.StatusPending))
	writes := kv.Writes()
	before := st.List()

	c.BeginEdit(before[0])
	require.NoError(t, c.SetField(board.FieldTitle, "discarded"))
	c.Cancel()

	assert.Equal(t, before, st.List())
	assert.Equal(t, writes, kv.Writes())
}

func TestSetFieldRejectsBadEnums(t *testing.T) {
	c, _, _ := seeded(t)
	c.BeginCreate()
	assert.ErrorIs(t, c.SetField(board.FieldStatus, "Done!"), model.ErrInvalidStatus)
	assert.ErrorIs(t, c.SetField(board.FieldPriority, "urgent"), model.ErrInvalidPriority)
	d, _ := c.Draft()
	assert.Equal(t, model.StatusPending, d.Status)
	assert.Equal(t, model.PriorityMedium, d.Priority)
}

func TestDraftValidate(t *testing.T) {
	assert.NoError(t, board.Draft{Title: "a", Description: "b"}.Validate())

	err := board.Draft{Title: "  ", Description: ""}.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, board.ErrRequired)
	assert.Contains(t, err.Error(), "title")
	assert.Contains(t, err.Error(), "description")
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c, _, _ := seeded(t, task("1", model.StatusPending), task("2", model.StatusInProgress))

	require.NoError(t, c.Delete(ctx, "1"))
	assert.Equal(t, []string{"2"}, ids(c.Snapshot()))
	assert.ErrorIs(t, c.Delete(ctx, "1"), tasks.ErrNotFound)
}

func TestMoveNilDestinationIsNoOp(t *testing.T) {
	c, st, kv := seeded(t, task("1", model.StatusPending), task("2", model.StatusInProgress))
	writes := kv.Writes()
	raw, _, _ := kv.Get(context.Background(), tasks.DefaultKey)
	before := c.Snapshot()

	require.NoError(t, c.Move(context.Background(), 0, nil))

	assert.Equal(t, before, c.Snapshot())
	assert.Equal(t, before, st.List())
	assert.Equal(t, writes, kv.Writes())
	after, _, _ := kv.Get(context.Background(), tasks.DefaultKey)
	assert.Equal(t, raw, after)
}

func TestMove(t *testing.T) {
	tests := []struct {
		name       string
		source     int
		dest       board.Destination
		wantOrder  []string
		wantStatus model.Status
	}{
		{
			name:       "to next column at end",
			source:     0,
			dest:       board.Destination{Column: 1, Index: 3},
			wantOrder:  []string{"b", "c", "a"},
			wantStatus: model.StatusInProgress,
		},
		{
			name:       "to front",
			source:     2,
			dest:       board.Destination{Column: 2, Index: 0},
			wantOrder:  []string{"c", "a", "b"},
			wantStatus: model.StatusCompleted,
		},
		{
			name:       "index past end is clamped",
			source:     1,
			dest:       board.Destination{Column: 0, Index: 99},
			wantOrder:  []string{"a", "c", "b"},
			wantStatus: model.StatusPending,
		},
		{
			name:       "same place",
			source:     1,
			dest:       board.Destination{Column: 1, Index: 1},
			wantOrder:  []string{"a", "b", "c"},
			wantStatus: model.StatusInProgress,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, st, _ := seeded(t,
				task("a", model.StatusPending),
				task("b", model.StatusInProgress),
				task("c", model.StatusCompleted),
			)
			moved := c.Snapshot()[tt.source].ID
			dest := tt.dest

			require.NoError(t, c.Move(context.Background(), tt.source, &dest))

			assert.Equal(t, tt.wantOrder, ids(c.Snapshot()))
			assert.Equal(t, c.Snapshot(), st.List())
			got, err := st.Get(moved)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestMoveRejectsBadPositions(t *testing.T) {
	ctx := context.Background()
	c, st, kv := seeded(t, task("a", model.StatusPending), task("b", model.StatusPending))
	writes := kv.Writes()
	before := st.List()

	assert.ErrorIs(t, c.Move(ctx, 0, &board.Destination{Column: 3}), model.ErrInvalidColumn)
	assert.ErrorIs(t, c.Move(ctx, 0, &board.Destination{Column: -1}), model.ErrInvalidColumn)
	assert.ErrorIs(t, c.Move(ctx, 2, &board.Destination{Column: 1}), board.ErrInvalidPosition)
	assert.ErrorIs(t, c.Move(ctx, -1, &board.Destination{Column: 1}), board.ErrInvalidPosition)
	assert.ErrorIs(t, c.Move(ctx, 0, &board.Destination{Column: 1, Index: -1}), board.ErrInvalidPosition)

	assert.Equal(t, before, st.List())
	assert.Equal(t, writes, kv.Writes())
}

func TestMoveTask(t *testing.T) {
	ctx := context.Background()
	c, st, _ := seeded(t, task("a", model.StatusPending), task("b", model.StatusPending))

	require.NoError(t, c.MoveTask(ctx, "b", &board.Destination{Column: 2, Index: 0}))
	assert.Equal(t, []string{"b", "a"}, ids(st.List()))
	assert.Equal(t, model.StatusCompleted, st.List()[0].Status)

	assert.ErrorIs(t, c.MoveTask(ctx, "zzz", &board.Destination{Column: 0}), tasks.ErrNotFound)
}

func TestMoveStoreFailure(t *testing.T) {
	boom := errors.New("write failed")
	list := []model.Task{task("a", model.StatusPending)}
	st := new(MockStore)
	st.On("List").Return(list)
	st.On("ReplaceAll", mock.Anything, mock.Anything).Return(boom)

	c := board.New(st)
	assert.ErrorIs(t, c.Move(context.Background(), 0, &board.Destination{Column: 2}), boom)
	assert.Equal(t, list, c.Snapshot())
}

func TestColumnsAndCounts(t *testing.T) {
	c, _, _ := seeded(t,
		task("1", model.StatusCompleted),
		task("2", model.StatusPending),
		task("3", model.StatusCompleted),
		task("4", model.Status("Archivado")),
		task("5", model.StatusInProgress),
	)
	cols := c.Columns()
	assert.Equal(t, []string{"2"}, ids(cols[0]))
	assert.Equal(t, []string{"5"}, ids(cols[1]))
	assert.Equal(t, []string{"1", "3"}, ids(cols[2]))
	assert.Equal(t, [3]int{1, 1, 2}, c.Counts())

	found, ok := c.Find("4")
	assert.True(t, ok)
	assert.Equal(t, model.Status("Archivado"), found.Status)
}

func TestRefreshPicksUpExternalChanges(t *testing.T) {
	c, st, _ := seeded(t)
	_, err := st.Create(context.Background(), model.Fields{Title: "x", Description: "y"})
	require.NoError(t, err)

	assert.Empty(t, c.Snapshot())
	c.Refresh()
	assert.Len(t, c.Snapshot(), 1)
}

func TestDropTarget(t *testing.T) {
	ctx := context.Background()
	// Column 0: a c e, column 1: b d.
	seed := []model.Task{
		task("a", model.StatusPending),
		task("b", model.StatusInProgress),
		task("c", model.StatusPending),
		task("d", model.StatusInProgress),
		task("e", model.StatusPending),
	}
	tests := []struct {
		name     string
		id       string
		column   int
		row      int
		wantCols [3][]string
	}{
		{
			name:     "into middle of other column",
			id:       "c",
			column:   1,
			row:      1,
			wantCols: [3][]string{{"a", "e"}, {"b", "c", "d"}, nil},
		},
		{
			name:     "row past end",
			id:       "a",
			column:   1,
			row:      10,
			wantCols: [3][]string{{"c", "e"}, {"b", "d", "a"}, nil},
		},
		{
			name:     "empty column",
			id:       "b",
			column:   2,
			row:      0,
			wantCols: [3][]string{{"a", "c", "e"}, {"d"}, {"b"}},
		},
		{
			name:     "down within column",
			id:       "a",
			column:   0,
			row:      1,
			wantCols: [3][]string{{"c", "a", "e"}, {"b", "d"}, nil},
		},
		{
			name:     "up within column",
			id:       "e",
			column:   0,
			row:      0,
			wantCols: [3][]string{{"e", "a", "c"}, {"b", "d"}, nil},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := seeded(t, seed...)
			dest, err := c.DropTarget(tt.id, tt.column, tt.row)
			require.NoError(t, err)
			require.NoError(t, c.MoveTask(ctx, tt.id, dest))

			cols := c.Columns()
			for i := range cols {
				if tt.wantCols[i] == nil {
					assert.Empty(t, cols[i])
					continue
				}
				assert.Equal(t, tt.wantCols[i], ids(cols[i]), "column %d", i)
			}
		})
	}
}

func TestDropTargetErrors(t *testing.T) {
	c, _, _ := seeded(t, task("a", model.StatusPending))
	_, err := c.DropTarget("a", 5, 0)
	assert.ErrorIs(t, err, model.ErrInvalidColumn)
	_, err = c.DropTarget("a", 0, -1)
	assert.ErrorIs(t, err, board.ErrInvalidPosition)
	_, err = c.DropTarget("zz", 0, 0)
	assert.ErrorIs(t, err, tasks.ErrNotFound)
}

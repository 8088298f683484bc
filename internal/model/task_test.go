package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/taskflow/internal/model"
)

func TestStatusForColumn(t *testing.T) {
	for i, want := range model.Columns {
		got, err := model.StatusForColumn(i)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, i, got.Column())
	}

	for _, col := range []int{-1, 3, 42} {
		_, err := model.StatusForColumn(col)
		assert.ErrorIs(t, err, model.ErrInvalidColumn, "column %d", col)
	}
}

func TestStatusColumnUnknown(t *testing.T) {
	assert.Equal(t, -1, model.Status("Done").Column())
	assert.False(t, model.Status("Done").Valid())
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want model.Status
	}{
		{"Pendiente", model.StatusPending},
		{"pending", model.StatusPending},
		{"0", model.StatusPending},
		{"En Progreso", model.StatusInProgress},
		{"in-progress", model.StatusInProgress},
		{" doing ", model.StatusInProgress},
		{"1", model.StatusInProgress},
		{"Completado", model.StatusCompleted},
		{"done", model.StatusCompleted},
		{"2", model.StatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := model.ParseStatus(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := model.ParseStatus("blocked")
	assert.ErrorIs(t, err, model.ErrInvalidStatus)
	_, err = model.ParseStatus("3")
	assert.ErrorIs(t, err, model.ErrInvalidColumn)
}

func TestParsePriority(t *testing.T) {
	got, err := model.ParsePriority("high")
	require.NoError(t, err)
	assert.Equal(t, model.PriorityHigh, got)

	got, err = model.ParsePriority("Baja")
	require.NoError(t, err)
	assert.Equal(t, model.PriorityLow, got)

	_, err = model.ParsePriority("urgent")
	assert.ErrorIs(t, err, model.ErrInvalidPriority)
}

func TestCycling(t *testing.T) {
	assert.Equal(t, model.StatusInProgress, model.StatusPending.Next())
	assert.Equal(t, model.StatusPending, model.StatusCompleted.Next())
	assert.Equal(t, model.StatusCompleted, model.StatusPending.Prev())
	assert.Equal(t, model.PriorityHigh, model.PriorityMedium.Next())
	assert.Equal(t, model.PriorityLow, model.PriorityHigh.Next())
	assert.Equal(t, model.PriorityHigh, model.PriorityLow.Prev())
}

func TestFieldsWithDefaults(t *testing.T) {
	f := model.Fields{Title: "Buy milk"}.WithDefaults()
	assert.Equal(t, model.StatusPending, f.Status)
	assert.Equal(t, model.PriorityMedium, f.Priority)

	f = model.Fields{Status: model.StatusCompleted, Priority: model.PriorityHigh}.WithDefaults()
	assert.Equal(t, model.StatusCompleted, f.Status)
	assert.Equal(t, model.PriorityHigh, f.Priority)
}

func TestTaskWireFormat(t *testing.T) {
	task := model.Task{
		ID:          "1700000000000",
		Title:       "Buy milk",
		Description: "2%",
		Status:      model.StatusInProgress,
		Priority:    model.PriorityMedium,
	}
	b, err := json.Marshal(task)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":"1700000000000","title":"Buy milk","description":"2%","status":"En Progreso","priority":"Media"}`,
		string(b))
}

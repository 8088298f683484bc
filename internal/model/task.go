package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Task is the domain model for a board card.
// Field names and enum literals are the persisted wire format; keep them stable.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
}

// Fields is a Task without its identity, the input of a create.
type Fields struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
}

// Fields returns the task without its id.
func (t Task) Fields() Fields {
	return Fields{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
	}
}

// WithDefaults fills an empty status or priority with Pending / Medium.
func (f Fields) WithDefaults() Fields {
	if f.Status == "" {
		f.Status = StatusPending
	}
	if f.Priority == "" {
		f.Priority = PriorityMedium
	}
	return f
}

var (
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidColumn   = errors.New("invalid column")
)

// Status is both the task state and the board column it lives in.
type Status string

const (
	StatusPending    Status = "Pendiente"
	StatusInProgress Status = "En Progreso"
	StatusCompleted  Status = "Completado"
)

// Columns lists the statuses in board order. The ordinal of a status in
// this array is its column index.
var Columns = [3]Status{StatusPending, StatusInProgress, StatusCompleted}

// ColumnCount is the fixed number of board columns.
const ColumnCount = len(Columns)

// StatusForColumn maps a column ordinal to its status.
func StatusForColumn(col int) (Status, error) {
	if col < 0 || col >= ColumnCount {
		return "", fmt.Errorf("%w: %d (want 0..%d)", ErrInvalidColumn, col, ColumnCount-1)
	}
	return Columns[col], nil
}

// Column returns the ordinal of s, or -1 for an unknown status.
func (s Status) Column() int {
	for i, c := range Columns {
		if c == s {
			return i
		}
	}
	return -1
}

func (s Status) Valid() bool { return s.Column() >= 0 }

// Label is the English display name.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	}
	return string(s)
}

// Next and Prev cycle through the columns, wrapping around.
func (s Status) Next() Status { return Columns[(max(s.Column(), 0)+1)%ColumnCount] }
func (s Status) Prev() Status {
	return Columns[(max(s.Column(), 0)+ColumnCount-1)%ColumnCount]
}

// ParseStatus accepts the stored literal, the English label, a short alias
// or a column ordinal.
func ParseStatus(in string) (Status, error) {
	v := strings.ToLower(strings.TrimSpace(in))
	if n, err := strconv.Atoi(v); err == nil {
		return StatusForColumn(n)
	}
	switch v {
	case "pendiente", "pending", "todo":
		return StatusPending, nil
	case "en progreso", "in progress", "in-progress", "inprogress", "doing":
		return StatusInProgress, nil
	case "completado", "completed", "done":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, in)
}

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "Baja"
	PriorityMedium Priority = "Media"
	PriorityHigh   Priority = "Alta"
)

// Priorities in ascending order.
var Priorities = [3]Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	}
	return string(p)
}

func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	}
	return PriorityLow
}

func (p Priority) Prev() Priority {
	switch p {
	case PriorityHigh:
		return PriorityMedium
	case PriorityMedium:
		return PriorityLow
	}
	return PriorityHigh
}

// ParsePriority accepts the stored literal, the English label or a short alias.
func ParsePriority(in string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(in)) {
	case "baja", "low", "l":
		return PriorityLow, nil
	case "media", "medium", "med", "m":
		return PriorityMedium, nil
	case "alta", "high", "h":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, in)
}

// Package board drives the task store on behalf of a board view.
package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/taskflow/internal/model"
	"github.com/Makepad-fr/taskflow/internal/tasks"
)

var (
	ErrNotEditing      = errors.New("no task is being edited")
	ErrInvalidPosition = errors.New("invalid position")
	ErrRequired        = errors.New("required")
)

// Store is the part of the task store the controller drives.
type Store interface {
	List() []model.Task
	Create(ctx context.Context, f model.Fields) (model.Task, error)
	Update(ctx context.Context, t model.Task) error
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, list []model.Task) error
}

// Mode of the editing context.
type Mode int

const (
	ModeClosed Mode = iota
	ModeCreate
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	}
	return "closed"
}

// Draft is the unsaved content of the form. An empty ID means a new task.
type Draft struct {
	ID          string
	Title       string
	Description string
	Status      model.Status
	Priority    model.Priority
}

func (d Draft) Fields() model.Fields {
	return model.Fields{
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		Priority:    d.Priority,
	}
}

func (d Draft) Task() model.Task {
	return model.Task{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		Priority:    d.Priority,
	}
}

// Validate applies the form rules: title and description are required.
func (d Draft) Validate() error {
	var errs []error
	if strings.TrimSpace(d.Title) == "" {
		errs = append(errs, fmt.Errorf("title: %w", ErrRequired))
	}
	if strings.TrimSpace(d.Description) == "" {
		errs = append(errs, fmt.Errorf("description: %w", ErrRequired))
	}
	return errors.Join(errs...)
}

// Field names a draft field for SetField.
type Field int

const (
	FieldTitle Field = iota
	FieldDescription
	FieldStatus
	FieldPriority
)

// Destination is where a dragged card was dropped. Index is the position
// the drop target reported.
type Destination struct {
	Column int
	Index  int
}

// Controller is single-owner, like the store it drives.
type Controller struct {
	store    Store
	logger   *log.Logger
	snapshot []model.Task
	mode     Mode
	draft    Draft
}

type Option func(*Controller)

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(store Store, opts ...Option) *Controller {
	c := &Controller{store: store, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(c)
	}
	c.Refresh()
	return c
}

// Refresh reloads the snapshot from the store.
func (c *Controller) Refresh() {
	c.snapshot = c.store.List()
}

// ------ editing context ------

func (c *Controller) Mode() Mode { return c.mode }

// Draft returns the open draft, false when no form is open.
func (c *Controller) Draft() (Draft, bool) {
	return c.draft, c.mode != ModeClosed
}

// BeginCreate opens an empty draft, replacing any open one.
func (c *Controller) BeginCreate() {
	c.draft = Draft{Status: model.StatusPending, Priority: model.PriorityMedium}
	c.mode = ModeCreate
}

// BeginEdit opens a draft holding a copy of t, replacing any open one.
func (c *Controller) BeginEdit(t model.Task) {
	c.draft = Draft{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
	}
	c.mode = ModeEdit
}

// SetField changes one field of the open draft. Status and priority values
// go through the model parsers, so labels and aliases are accepted.
func (c *Controller) SetField(f Field, value string) error {
	if c.mode == ModeClosed {
		return ErrNotEditing
	}
	switch f {
	case FieldTitle:
		c.draft.Title = value
	case FieldDescription:
		c.draft.Description = value
	case FieldStatus:
		s, err := model.ParseStatus(value)
		if err != nil {
			return err
		}
		c.draft.Status = s
	case FieldPriority:
		p, err := model.ParsePriority(value)
		if err != nil {
			return err
		}
		c.draft.Priority = p
	default:
		return fmt.Errorf("unknown field %d", f)
	}
	return nil
}

// Submit saves the draft: a create when it has no id, an update otherwise.
// On success the context closes. On failure the draft stays open so the
// user can retry or cancel.
func (c *Controller) Submit(ctx context.Context) error {
	if c.mode == ModeClosed {
		return ErrNotEditing
	}
	var err error
	if c.draft.ID == "" {
		var t model.Task
		t, err = c.store.Create(ctx, c.draft.Fields())
		if err == nil {
			c.logger.Debug("submit created", "id", t.ID)
		}
	} else {
		err = c.store.Update(ctx, c.draft.Task())
		if err == nil {
			c.logger.Debug("submit updated", "id", c.draft.ID)
		}
	}
	c.Refresh()
	if err != nil {
		return err
	}
	c.Cancel()
	return nil
}

// Cancel discards the draft. Nothing is persisted.
func (c *Controller) Cancel() {
	c.draft = Draft{}
	c.mode = ModeClosed
}

// ------ board actions ------

func (c *Controller) Delete(ctx context.Context, id string) error {
	err := c.store.Delete(ctx, id)
	c.Refresh()
	return err
}

// Move handles a drop. A nil destination means the card was dropped
// outside every column and nothing happens. Otherwise the task at source,
// a position in the full sequence, takes the status of the destination
// column and is reinserted at dest.Index of the full sequence.
func (c *Controller) Move(ctx context.Context, source int, dest *Destination) error {
	if dest == nil {
		return nil
	}
	status, err := model.StatusForColumn(dest.Column)
	if err != nil {
		return err
	}
	list := slices.Clone(c.store.List())
	if source < 0 || source >= len(list) {
		return fmt.Errorf("%w: source %d of %d", ErrInvalidPosition, source, len(list))
	}
	if dest.Index < 0 {
		return fmt.Errorf("%w: destination %d", ErrInvalidPosition, dest.Index)
	}

	moved := list[source]
	list = slices.Delete(list, source, source+1)
	moved.Status = status
	at := min(dest.Index, len(list))
	list = slices.Insert(list, at, moved)

	err = c.store.ReplaceAll(ctx, list)
	c.Refresh()
	if err != nil {
		return err
	}
	c.logger.Debug("task moved", "id", moved.ID, "status", status, "index", at)
	return nil
}

// MoveTask is Move for a task known by id.
func (c *Controller) MoveTask(ctx context.Context, id string, dest *Destination) error {
	for i, t := range c.store.List() {
		if t.ID == id {
			return c.Move(ctx, i, dest)
		}
	}
	return fmt.Errorf("%w: %s", tasks.ErrNotFound, id)
}

// DropTarget translates "row of column", counted among the cards already in
// that column, into the full-sequence destination Move expects for the task
// with id. A row past the last card lands after it.
func (c *Controller) DropTarget(id string, column, row int) (*Destination, error) {
	status, err := model.StatusForColumn(column)
	if err != nil {
		return nil, err
	}
	if row < 0 {
		return nil, fmt.Errorf("%w: row %d", ErrInvalidPosition, row)
	}
	list := slices.Clone(c.store.List())
	src := slices.IndexFunc(list, func(t model.Task) bool { return t.ID == id })
	if src < 0 {
		return nil, fmt.Errorf("%w: %s", tasks.ErrNotFound, id)
	}
	rest := slices.Delete(list, src, src+1)

	var rows []int
	for i, t := range rest {
		if t.Status == status {
			rows = append(rows, i)
		}
	}
	dest := &Destination{Column: column}
	switch {
	case len(rows) == 0:
		dest.Index = len(rest)
	case row < len(rows):
		dest.Index = rows[row]
	default:
		dest.Index = rows[len(rows)-1] + 1
	}
	return dest, nil
}

// ------ view ------

// Snapshot is a copy of the collection as of the last refresh.
func (c *Controller) Snapshot() []model.Task {
	out := make([]model.Task, len(c.snapshot))
	copy(out, c.snapshot)
	return out
}

// Columns groups the snapshot by status, keeping sequence order. Tasks with
// an unknown status appear in no column.
func (c *Controller) Columns() [model.ColumnCount][]model.Task {
	var cols [model.ColumnCount][]model.Task
	for _, t := range c.snapshot {
		if i := t.Status.Column(); i >= 0 {
			cols[i] = append(cols[i], t)
		}
	}
	return cols
}

func (c *Controller) Counts() [model.ColumnCount]int {
	var n [model.ColumnCount]int
	for i, col := range c.Columns() {
		n[i] = len(col)
	}
	return n
}

// Find returns the snapshot task with id.
func (c *Controller) Find(id string) (model.Task, bool) {
	for _, t := range c.snapshot {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Package tasks owns the ordered task collection and mirrors it into a
// key-value store after every mutation.
//
// A Store is not safe for concurrent use. The board runs it from a single
// event loop.
package tasks

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/taskflow/internal/model"
	"github.com/Makepad-fr/taskflow/internal/store"
)

// DefaultKey is the storage key the collection is written under.
const DefaultKey = "tasks"

// BackupSuffix is appended to the key when a corrupt value is set aside.
const BackupSuffix = ".corrupt"

type Store struct {
	kv     store.KV
	key    string
	now    func() time.Time
	logger *log.Logger
	mode   Mode

	tasks     []model.Task
	recovered *CorruptError
	issues    []error
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock replaces time.Now as the id source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithValidation(m Mode) Option {
	return func(s *Store) { s.mode = m }
}

// Open reads the collection once from kv. An absent key is an empty
// collection. A value that does not decode, or that violates the schema in
// strict mode, is copied to <key>.corrupt and replaced by an empty
// collection; Recovered reports it. Only a failing Get is returned as an error.
func Open(ctx context.Context, kv store.KV, opts ...Option) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("tasks: nil storage")
	}
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		now:    time.Now,
		logger: log.New(io.Discard),
		mode:   ModeWarn,
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, found, err := kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", s.key, err)
	}
	if !found {
		s.logger.Debug("no stored tasks", "key", s.key)
		return s, nil
	}
	s.load(ctx, raw)
	return s, nil
}

func (s *Store) load(ctx context.Context, raw string) {
	var list []model.Task
	if err := sonic.ConfigStd.UnmarshalFromString(raw, &list); err != nil {
		s.quarantine(ctx, raw, &CorruptError{Key: s.key, Err: fmt.Errorf("json unmarshal: %w", err)})
		return
	}

	if s.mode != ModeOff {
		s.issues = validate(raw)
		if len(s.issues) > 0 && s.mode == ModeStrict {
			s.quarantine(ctx, raw, &CorruptError{Key: s.key, Issues: s.issues})
			return
		}
		for _, issue := range s.issues {
			s.logger.Warn("stored task does not match schema", "key", s.key, "err", issue)
		}
	}

	s.tasks = list
	s.logger.Debug("loaded tasks", "key", s.key, "count", len(list))
}

func (s *Store) quarantine(ctx context.Context, raw string, cerr *CorruptError) {
	backup := s.key + BackupSuffix
	if err := s.kv.Set(ctx, backup, raw); err != nil {
		s.logger.Error("could not keep corrupt value", "key", backup, "err", err)
	} else {
		cerr.BackupKey = backup
	}
	s.tasks = nil
	s.recovered = cerr
	s.logger.Warn("starting with an empty board", "err", cerr)
}

// Recovered returns the *CorruptError that caused Open to start empty, or nil.
func (s *Store) Recovered() error {
	if s.recovered == nil {
		return nil
	}
	return s.recovered
}

// Issues lists the schema violations found on load.
func (s *Store) Issues() []error { return slices.Clone(s.issues) }

func (s *Store) Key() string { return s.key }

// List returns a copy of the collection in order.
func (s *Store) List() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the first task with id.
func (s *Store) Get(id string) (model.Task, error) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Create appends a task built from f. The id is the current time in
// milliseconds; two creates in the same millisecond share an id.
func (s *Store) Create(ctx context.Context, f model.Fields) (model.Task, error) {
	f = f.WithDefaults()
	t := model.Task{
		ID:          strconv.FormatInt(s.now().UnixMilli(), 10),
		Title:       f.Title,
		Description: f.Description,
		Status:      f.Status,
		Priority:    f.Priority,
	}
	next := append(s.List(), t)
	if err := s.commit(ctx, next); err != nil {
		return model.Task{}, err
	}
	s.logger.Debug("task created", "id", t.ID, "status", t.Status)
	return t, nil
}

// Update replaces every task whose id matches t.ID.
func (s *Store) Update(ctx context.Context, t model.Task) error {
	next := s.List()
	n := 0
	for i := range next {
		if next[i].ID == t.ID {
			next[i] = t
			n++
		}
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, t.ID)
	}
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.logger.Debug("task updated", "id", t.ID, "matches", n)
	return nil
}

// Delete removes every task with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	next := slices.DeleteFunc(s.List(), func(t model.Task) bool { return t.ID == id })
	if len(next) == len(s.tasks) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.logger.Debug("task deleted", "id", id, "removed", len(s.tasks)-len(next))
	return nil
}

// ReplaceAll substitutes a copy of list for the collection.
func (s *Store) ReplaceAll(ctx context.Context, list []model.Task) error {
	next := make([]model.Task, len(list))
	copy(next, list)
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.logger.Debug("tasks replaced", "count", len(next))
	return nil
}

// commit writes next and adopts it only when the write succeeds.
func (s *Store) commit(ctx context.Context, next []model.Task) error {
	raw, err := Encode(next)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("save %q: %w", s.key, err)
	}
	s.tasks = next
	return nil
}

// Encode serializes a collection the way it is stored: a compact JSON
// array, [] when empty.
func Encode(list []model.Task) (string, error) {
	if list == nil {
		list = []model.Task{}
	}
	raw, err := sonic.ConfigStd.MarshalToString(list)
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return raw, nil
}

package jsonstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/Makepad-fr/taskflow/internal/store"
)

// JSON-backed key-value storage. Single file, human-readable, portable.
// The file holds one object of string values, like a browser's local storage.
// No locking; fine for a local single-user board.

const DefaultFileName = "taskflow.json"

var _ store.KV = (*Store)(nil)

type Store struct {
	path string
}

// New opens the store at path. An empty path means DefaultFileName in the
// working directory. The file is created on the first Set.
func New(path string) (*Store, error) {
	if path == "" {
		p, err := dataPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	return &Store{path: abs}, nil
}

func dataPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(wd, DefaultFileName), nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

func (s *Store) Close() error { return nil }

func (s *Store) load() (map[string]string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	values := map[string]string{}
	if len(bytes.TrimSpace(b)) == 0 {
		return values, nil
	}
	if err := sonic.ConfigStd.Unmarshal(b, &values); err != nil {
		return nil, fmt.Errorf("json unmarshal %s: %w", s.path, err)
	}
	return values, nil
}

func (s *Store) save(values map[string]string) error {
	b, err := sonic.ConfigStd.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	b = append(b, '\n')
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Package redisstore keeps board values in Redis so several terminals of
// one user can share a board.
package redisstore

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/Makepad-fr/taskflow/internal/store"
)

// DefaultPrefix namespaces keys inside a shared Redis database.
const DefaultPrefix = "taskflow:"

var _ store.KV = (*Store)(nil)

type Store struct {
	client *redis.Client
	prefix string
	owned  bool
}

// New wraps an existing client. The caller keeps ownership of it.
func New(client *redis.Client, prefix string) *Store {
	if client == nil {
		panic("redisstore.New: client is nil")
	}
	return &Store{client: client, prefix: prefix}
}

// Dial connects using either a redis:// URL or the "host:port,password=...,ssl=true"
// connection string form, and pings the server.
func Dial(ctx context.Context, conn, prefix string) (*Store, error) {
	opts, err := ParseOptions(conn)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return &Store{client: client, prefix: prefix, owned: true}, nil
}

// ParseOptions turns a connection string into client options.
func ParseOptions(conn string) (*redis.Options, error) {
	conn = strings.TrimSpace(conn)
	if conn == "" {
		return nil, errors.New("redis: empty connection string")
	}
	if opts, err := redis.ParseURL(conn); err == nil {
		return opts, nil
	}
	parts := strings.Split(conn, ",")
	opts := &redis.Options{Addr: parts[0]}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(kv[0])) {
		case "password":
			opts.Password = kv[1]
		case "ssl":
			if strings.EqualFold(kv[1], "true") {
				opts.TLSConfig = &tls.Config{}
			}
		}
	}
	return opts, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the client if Dial created it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}

// Package redis keeps view snapshots in Redis so a short-lived process (a
// CLI, a server-side renderer) can reuse views fetched by a previous run.
// Revisions framed into each entry are per-process; an entry written by
// another process self-heals into a miss on first read.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pr "github.com/unkn0wn-root/taskview/provider"
)

var ErrNilClient = errors.New("redis provider: nil client")

type Store struct {
	rdb  goredis.UniversalClient
	owns bool
}

var _ pr.Provider = (*Store)(nil)

// New wraps an existing client. The store closes the client on Close only
// when closeClient is true; share a client across consumers with false.
func New(client goredis.UniversalClient, closeClient bool) (*Store, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	return &Store{rdb: client, owns: closeClient}, nil
}

// NewFromAddr dials a single Redis node and owns the resulting client.
func NewFromAddr(addr string) *Store {
	return &Store{rdb: goredis.NewClient(&goredis.Options{Addr: addr}), owns: true}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == goredis.Nil:
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return b, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		ttl = 0 // no expiry
	}
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Del(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// Close releases the client only when this store owns it. Repeated calls
// are no-ops.
func (s *Store) Close(context.Context) error {
	if !s.owns {
		return nil
	}
	if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
		return err
	}
	return nil
}

// Package ristretto stores view snapshots in an in-process Ristretto
// cache. Set cost is the framed snapshot length supplied by the caller, so
// MaxBytes bounds the real memory spent on cached views.
package ristretto

import (
	"context"
	"time"

	rc "github.com/dgraph-io/ristretto"
)

type Store struct {
	c *rc.Cache
}

// Config sizes the cache. MaxBytes is the admission budget in bytes;
// MaxViews is a rough upper bound on distinct cached views used to size the
// frequency counters. Zero fields take the defaults below.
type Config struct {
	MaxBytes int64
	MaxViews int64
	Metrics  bool
}

const (
	defaultMaxBytes = 64 << 20
	defaultMaxViews = 4096
)

func New(cfg Config) (*Store, error) {
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	maxViews := cfg.MaxViews
	if maxViews <= 0 {
		maxViews = defaultMaxViews
	}
	c, err := rc.NewCache(&rc.Config{
		// 10x counters per expected entry, per the Ristretto docs.
		NumCounters: maxViews * 10,
		MaxCost:     maxBytes,
		BufferItems: 64,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// foreign entry shape; drop it
		s.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

// Set reports ok=false when admission declines the entry; the caller treats
// that as backpressure, not an error.
func (s *Store) Set(_ context.Context, key string, value []byte, cost int64, ttl time.Duration) (bool, error) {
	if cost <= 0 {
		cost = int64(len(value))
	}
	return s.c.SetWithTTL(key, value, cost, ttl), nil
}

func (s *Store) Del(_ context.Context, key string) error {
	s.c.Del(key)
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes the underlying cache counters when Config.Metrics was
// set. Not part of the provider contract.
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }

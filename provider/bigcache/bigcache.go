// Package bigcache stores view snapshots in BigCache. BigCache has no
// per-entry TTL; the global LifeWindow ages views out instead, so the
// per-Set TTL is ignored here.
package bigcache

import (
	"context"
	"errors"
	"time"

	bc "github.com/allegro/bigcache/v3"
)

type Store struct {
	c *bc.BigCache
}

// Config wraps the handful of BigCache knobs that matter for view
// snapshots. LifeWindow is the cache-wide view age limit; MaxSizeMB caps
// total memory (0 = unlimited).
type Config struct {
	LifeWindow  time.Duration // 0 => 10m, matching the client's default view TTL
	CleanWindow time.Duration
	MaxSizeMB   int
}

func New(cfg Config) (*Store, error) {
	life := cfg.LifeWindow
	if life <= 0 {
		life = 10 * time.Minute
	}
	conf := bc.DefaultConfig(life)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.MaxSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := s.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, _ int64, _ time.Duration) (bool, error) {
	if err := s.c.Set(key, value); err != nil {
		return false, err
	}
	return true, nil
}

// Del tolerates missing keys: deleting an already-evicted view is not an
// error for the caller.
func (s *Store) Del(_ context.Context, key string) error {
	if err := s.c.Delete(key); err != nil && !errors.Is(err, bc.ErrEntryNotFound) {
		return err
	}
	return nil
}

func (s *Store) Close(_ context.Context) error {
	return s.c.Close()
}

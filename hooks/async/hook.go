// Package asynchook wraps a taskview.Hooks implementation so events are
// delivered off the caller's goroutine. Events are dropped, not queued
// unboundedly, when the sink falls behind.
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/taskview"
)

type Hooks struct {
	inner taskview.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ taskview.Hooks = (*Hooks)(nil)

func New(inner taskview.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) SelfHeal(k, r string)       { h.try(func() { h.inner.SelfHeal(k, r) }) }
func (h *Hooks) StaleFetchDropped(k string) { h.try(func() { h.inner.StaleFetchDropped(k) }) }
func (h *Hooks) Rollback(scope string, n int) {
	h.try(func() { h.inner.Rollback(scope, n) })
}
func (h *Hooks) ProviderSetRejected(k string) {
	h.try(func() { h.inner.ProviderSetRejected(k) })
}
func (h *Hooks) ScopeInvalidated(scope string, n int) {
	h.try(func() { h.inner.ScopeInvalidated(scope, n) })
}

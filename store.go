package taskview

import (
	"context"
	"sync"
	"time"

	"github.com/unkn0wn-root/taskview/codec"
	"github.com/unkn0wn-root/taskview/internal/wire"
	pr "github.com/unkn0wn-root/taskview/provider"
)

// store maps (identity scope, normalized filter) to a ListView snapshot.
// Snapshot bytes live in the Provider, framed with a per-key revision; the
// in-memory side keeps a per-scope index of which views exist (the Provider
// cannot enumerate) and the revision counter for each storage key.
//
// The single mutex makes every multi-view patch atomic with respect to all
// other cache writers: an optimistic application, a rollback, or a
// reconciliation is observed either fully applied or not at all. Provider
// calls happen under the lock; a frame whose revision no longer matches the
// counter self-heals on read, so even a write that raced a crash cannot
// surface stale data.
type store struct {
	ns       string
	provider pr.Provider
	codec    codec.Codec[ListView]
	log      Logger
	hooks    Hooks
	ttl      time.Duration

	mu      sync.Mutex
	scopes  map[string]map[string]Filter // scope -> storageKey -> normalized filter
	revs    map[string]uint64
	stale   map[string]bool // invalidated; miss on read until refetched
	subs    map[string]map[int]Listener
	nextSub int
}

// touchedView records one view's exact pre-mutation snapshot so rollback
// can restore it wholesale, never as a partial undo.
type touchedView struct {
	filter Filter
	key    string
	prev   ListView
}

func newStore(ns string, p pr.Provider, c codec.Codec[ListView], ttl time.Duration, log Logger, hooks Hooks) *store {
	return &store{
		ns:       ns,
		provider: p,
		codec:    c,
		log:      log,
		hooks:    hooks,
		ttl:      ttl,
		scopes:   make(map[string]map[string]Filter),
		revs:     make(map[string]uint64),
		stale:    make(map[string]bool),
		subs:     make(map[string]map[int]Listener),
	}
}

func (s *store) key(scope string, f Filter) string {
	return f.storageKey(s.ns, scope)
}

// rev snapshots the revision counter for a view; missing => 0. The fetch
// path records this before suspending on the network and hands it back to
// setWithRev, which is how a fetch that lost the race to a newer optimistic
// patch is prevented from clobbering it.
func (s *store) rev(scope string, f Filter) uint64 {
	k := s.key(scope, f)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revs[k]
}

// get returns the cached snapshot for (scope, filter). Corrupt and
// revision-stale entries self-heal into a miss; invalidated views read as
// a miss too, which is what forces the refetch, but their snapshot stays
// available to the mutation path until fresh data lands.
func (s *store) get(ctx context.Context, scope string, f Filter) (ListView, bool) {
	k := s.key(scope, f)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale[k] {
		return ListView{}, false
	}
	v, ok := s.load(ctx, k)
	return v, ok
}

// peek reads a snapshot regardless of invalidation state.
func (s *store) peek(ctx context.Context, scope string, f Filter) (ListView, bool) {
	k := s.key(scope, f)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, k)
}

// load reads and decodes one storage key. Caller holds s.mu.
func (s *store) load(ctx context.Context, k string) (ListView, bool) {
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil || !ok {
		return ListView{}, false
	}
	rev, payload, err := wire.DecodeView(raw)
	if err != nil {
		_ = s.provider.Del(ctx, k)
		s.hooks.SelfHeal(k, "corrupt")
		return ListView{}, false
	}
	if rev != s.revs[k] {
		_ = s.provider.Del(ctx, k)
		s.hooks.SelfHeal(k, "rev_mismatch")
		return ListView{}, false
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		_ = s.provider.Del(ctx, k)
		s.hooks.SelfHeal(k, "decode")
		return ListView{}, false
	}
	return v, true
}

// commit encodes and writes one view at the given revision and registers it
// in the scope index. Caller holds s.mu.
func (s *store) commit(ctx context.Context, scope, k string, f Filter, v ListView, rev uint64) error {
	payload, err := s.codec.Encode(v)
	if err != nil {
		return err
	}
	framed := wire.EncodeView(rev, payload)
	ok, err := s.provider.Set(ctx, k, framed, int64(len(framed)), s.ttl)
	if err != nil {
		return err
	}
	if !ok {
		s.hooks.ProviderSetRejected(k)
		s.log.Debug("provider rejected set", Fields{"key": k})
	}
	idx, okScope := s.scopes[scope]
	if !okScope {
		idx = make(map[string]Filter)
		s.scopes[scope] = idx
	}
	idx[k] = f.Normalize()
	return nil
}

// setWithRev commits a fetched view only if the revision is still the one
// observed before the fetch suspended. Returns false when a newer write
// superseded the fetch; the stale result is dropped, not applied.
func (s *store) setWithRev(ctx context.Context, scope string, f Filter, v ListView, obsRev uint64) (bool, error) {
	k := s.key(scope, f)
	s.mu.Lock()
	if s.revs[k] != obsRev {
		s.mu.Unlock()
		s.hooks.StaleFetchDropped(k)
		s.log.Debug("stale fetch dropped", Fields{"key": k, "obs": obsRev})
		return false, nil
	}
	err := s.commit(ctx, scope, k, f, v, obsRev)
	if err == nil {
		delete(s.stale, k)
	}
	ns := s.notification(k, v)
	s.mu.Unlock()
	if err != nil {
		return false, err
	}
	ns.deliver(ViewStatus{})
	return true, nil
}

// update atomically applies visit to every cached view in the scope. The
// visitor returns the replacement view and whether the view changed; every
// changed view's prior snapshot is captured and returned for rollback. Each
// change bumps the view's revision, which also fences out in-flight fetches
// for that view.
func (s *store) update(ctx context.Context, scope string, visit func(f Filter, v ListView) (ListView, bool)) []touchedView {
	s.mu.Lock()
	idx := s.scopes[scope]
	keys := make([]string, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}

	var touched []touchedView
	var pending []notification
	for _, k := range keys {
		f := idx[k]
		v, ok := s.load(ctx, k)
		if !ok {
			continue
		}
		next, changed := visit(f, v.clone())
		if !changed {
			continue
		}
		touched = append(touched, touchedView{filter: f, key: k, prev: v})
		s.revs[k]++
		if err := s.commit(ctx, scope, k, f, next, s.revs[k]); err != nil {
			s.log.Warn("view commit failed", Fields{"key": k, "err": err})
			continue
		}
		pending = append(pending, s.notification(k, next))
	}
	s.mu.Unlock()

	for _, n := range pending {
		n.deliver(ViewStatus{})
	}
	return touched
}

// restore writes back the exact snapshots captured by update. Used only for
// rollback after a failed mutation.
func (s *store) restore(ctx context.Context, scope string, touched []touchedView) {
	if len(touched) == 0 {
		return
	}
	s.mu.Lock()
	var pending []notification
	for _, t := range touched {
		s.revs[t.key]++
		if err := s.commit(ctx, scope, t.key, t.filter, t.prev, s.revs[t.key]); err != nil {
			s.log.Warn("rollback commit failed", Fields{"key": t.key, "err": err})
			continue
		}
		pending = append(pending, s.notification(t.key, t.prev))
	}
	s.mu.Unlock()

	s.hooks.Rollback(scope, len(touched))
	for _, n := range pending {
		n.deliver(ViewStatus{})
	}
}

// invalidateScope marks every cached view in the scope stale: reads miss
// until a fresh fetch lands, but the snapshot and index entry survive so
// later mutations can still patch and roll back the view.
func (s *store) invalidateScope(ctx context.Context, scope string) int {
	s.mu.Lock()
	idx := s.scopes[scope]
	n := len(idx)
	for k := range idx {
		s.stale[k] = true
	}
	s.mu.Unlock()

	if n > 0 {
		s.hooks.ScopeInvalidated(scope, n)
		s.log.Debug("scope invalidated", Fields{"scope": scope, "views": n})
	}
	return n
}

// dropScope makes a scope's views unreachable, including its listeners.
// Used on identity switch so the old principal's data cannot be served.
func (s *store) dropScope(ctx context.Context, scope string) {
	s.mu.Lock()
	idx := s.scopes[scope]
	for k := range idx {
		s.revs[k]++
		_ = s.provider.Del(ctx, k)
		delete(s.stale, k)
		delete(s.subs, k)
	}
	delete(s.scopes, scope)
	s.mu.Unlock()
}

// forEach visits every cached view in the scope read-only.
func (s *store) forEach(ctx context.Context, scope string, visit func(f Filter, v ListView)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, f := range s.scopes[scope] {
		if v, ok := s.load(ctx, k); ok {
			visit(f, v)
		}
	}
}

// subscribe registers a listener for one view. The returned cancel is
// idempotent. Listeners fire synchronously after each committed write.
func (s *store) subscribe(scope string, f Filter, l Listener) func() {
	k := s.key(scope, f)
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	m, ok := s.subs[k]
	if !ok {
		m = make(map[int]Listener)
		s.subs[k] = m
	}
	m[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if m, ok := s.subs[k]; ok {
				delete(m, id)
				if len(m) == 0 {
					delete(s.subs, k)
				}
			}
			s.mu.Unlock()
		})
	}
}

// notification is a snapshot of the listeners to call once the lock is
// released, so a listener re-entering the client cannot deadlock.
type notification struct {
	view      ListView
	listeners []Listener
}

func (s *store) notification(k string, v ListView) notification {
	m := s.subs[k]
	if len(m) == 0 {
		return notification{}
	}
	ls := make([]Listener, 0, len(m))
	for _, l := range m {
		ls = append(ls, l)
	}
	return notification{view: v, listeners: ls}
}

func (n notification) deliver(st ViewStatus) {
	for _, l := range n.listeners {
		l(n.view, st)
	}
}

// notifyStatus publishes a status-only event (fetch started, fetch failed)
// to a view's listeners without touching the cached snapshot.
func (s *store) notifyStatus(scope string, f Filter, v ListView, st ViewStatus) {
	k := s.key(scope, f)
	s.mu.Lock()
	n := s.notification(k, v)
	s.mu.Unlock()
	n.deliver(st)
}

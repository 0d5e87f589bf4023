package taskview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	c "github.com/unkn0wn-root/taskview/codec"
)

type client struct {
	store   *store
	tr      *transport
	log     Logger
	hooks   Hooks
	retries int
	enabled bool

	// injectable for tests
	now   func() time.Time
	newID func() string

	mu    sync.Mutex
	scope string

	bg sync.WaitGroup // background invalidations in flight
}

func newClient(opts Options) (*client, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("taskview: provider is required")
	}
	if opts.Credentials == nil {
		return nil, fmt.Errorf("taskview: credential provider is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("taskview: namespace is required")
	}

	log := coalesce[Logger](opts.Logger, NopLogger{})
	hooks := coalesce[Hooks](opts.Hooks, NopHooks{})
	codec := opts.Codec
	if codec == nil {
		codec = c.JSON[ListView]{}
	}

	tr, err := newTransport(opts.BaseURL, opts.HTTPClient, opts.Credentials, log)
	if err != nil {
		return nil, err
	}

	retries := opts.NetworkRetries
	switch {
	case retries == 0:
		retries = 2
	case retries < 0:
		retries = 0
	}

	ttl := opts.ViewTTL
	switch {
	case ttl == 0:
		ttl = 10 * time.Minute
	case ttl < 0:
		ttl = 0 // no provider-side expiry
	}

	return &client{
		store:   newStore(opts.Namespace, opts.Provider, codec, ttl, log, hooks),
		tr:      tr,
		log:     log,
		hooks:   hooks,
		retries: retries,
		enabled: !opts.Disabled,
		now:     time.Now,
		newID:   uuid.NewString,
		scope:   coalesce(opts.Identity, AnonymousScope),
	}, nil
}

func (cl *client) activeScope() string {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.scope
}

func (cl *client) Query(ctx context.Context, f Filter) (ListView, error) {
	f = f.Normalize()
	scope := cl.activeScope()

	if cl.enabled {
		if v, ok := cl.store.get(ctx, scope, f); ok {
			return v, nil
		}
	}
	return cl.fetch(ctx, scope, f, true)
}

func (cl *client) Refetch(ctx context.Context, f Filter) (ListView, error) {
	f = f.Normalize()
	return cl.fetch(ctx, cl.activeScope(), f, false)
}

// fetch performs a list round trip and commits the result unless a newer
// write superseded the observed revision while the call was suspended.
// A cancelled fetch applies no cache write: the transport surfaces the
// cancellation before any commit is attempted.
func (cl *client) fetch(ctx context.Context, scope string, f Filter, loading bool) (ListView, error) {
	obs := cl.store.rev(scope, f)
	cl.store.notifyStatus(scope, f, ListView{}, ViewStatus{Loading: loading, Fetching: true})

	v, err := cl.listWithRetry(ctx, f)
	if err != nil {
		terr := Coerce(err)
		cl.store.notifyStatus(scope, f, ListView{}, ViewStatus{Loading: loading, Err: terr})
		return ListView{}, terr
	}

	if cl.enabled && ctx.Err() == nil {
		if _, err := cl.store.setWithRev(ctx, scope, f, v, obs); err != nil {
			cl.log.Warn("fetched view not cached", Fields{"err": err})
		}
	}
	return v, nil
}

// listWithRetry retries network-kind failures a bounded number of times.
// validation and http failures are never retried: the request was rejected
// on its merits.
func (cl *client) listWithRetry(ctx context.Context, f Filter) (ListView, error) {
	var last error
	for attempt := 0; ; attempt++ {
		v, err := cl.tr.list(ctx, f)
		if err == nil {
			return v, nil
		}
		last = err
		terr := Coerce(err)
		if !terr.Retryable() || attempt >= cl.retries || ctx.Err() != nil {
			return ListView{}, last
		}
		cl.log.Debug("retrying fetch", Fields{"attempt": attempt + 1})
	}
}

func (cl *client) Subscribe(f Filter, l Listener) func() {
	return cl.store.subscribe(cl.activeScope(), f.Normalize(), l)
}

func (cl *client) SwitchIdentity(ctx context.Context, scope string) error {
	scope = coalesce(scope, AnonymousScope)
	cl.mu.Lock()
	old := cl.scope
	cl.scope = scope
	cl.mu.Unlock()
	if old != scope {
		cl.store.dropScope(ctx, old)
	}
	return nil
}

func (cl *client) Invalidate(ctx context.Context) error {
	cl.store.invalidateScope(ctx, cl.activeScope())
	return nil
}

// scheduleInvalidate queues the post-settlement scope invalidation without
// blocking the mutation's completion signal to the caller.
func (cl *client) scheduleInvalidate(scope string) {
	cl.bg.Add(1)
	go func() {
		defer cl.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		cl.store.invalidateScope(ctx, scope)
	}()
}

// waitBackground blocks until queued invalidations drain. Test seam.
func (cl *client) waitBackground() { cl.bg.Wait() }

func (cl *client) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		cl.bg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if cl.store.provider != nil {
		return cl.store.provider.Close(ctx)
	}
	return nil
}

package taskview

import (
	"context"
	"net/http"
	"time"

	c "github.com/unkn0wn-root/taskview/codec"
	pr "github.com/unkn0wn-root/taskview/provider"
)

const (
	// DefaultPageSize mirrors the server default for GET /tasks.
	DefaultPageSize = 20
	// MaxPageSize mirrors the server cap; larger requests are clamped.
	MaxPageSize = 100

	// AnonymousScope is the identity scope used before sign-in.
	AnonymousScope = "anon"
)

// ViewStatus carries the transient flags published alongside a view.
type ViewStatus struct {
	Loading  bool // no cached snapshot exists yet
	Fetching bool // a fetch for this view is in flight
	Err      *Error
}

// Listener observes one view: it fires synchronously after every committed
// cache write for the view and on fetch status changes.
type Listener func(view ListView, status ViewStatus)

// Client is the UI-facing surface of the task data layer: cached,
// subscribable views plus optimistic create/update/delete.
type Client interface {
	// Query returns the cached view for the filter, fetching on a miss.
	Query(ctx context.Context, f Filter) (ListView, error)
	// Refetch bypasses the cache and fetches fresh from the server.
	Refetch(ctx context.Context, f Filter) (ListView, error)
	// Subscribe registers a listener for the filter's view in the active
	// identity scope. The returned cancel is idempotent.
	Subscribe(f Filter, l Listener) (cancel func())

	Create(ctx context.Context, in CreateInput) (Task, error)
	Update(ctx context.Context, id string, p Patch) (Task, error)
	Delete(ctx context.Context, id string) error

	// SwitchIdentity changes the active scope and makes the previous
	// scope's views unreachable.
	SwitchIdentity(ctx context.Context, scope string) error
	// Invalidate drops every cached view in the active scope.
	Invalidate(ctx context.Context) error

	Close(ctx context.Context) error
}

// Options tune the client. BaseURL, Credentials, Provider and Namespace are
// required; the rest default sensibly.
type Options struct {
	// Required
	BaseURL     string
	Credentials CredentialProvider
	Provider    pr.Provider
	Namespace   string // logical namespace to avoid collisions, e.g. "tasks"

	HTTPClient     *http.Client    // nil => 30s-timeout client
	Codec          c.Codec[ListView] // nil => JSON
	Logger         Logger          // nil => NopLogger
	Hooks          Hooks           // nil => NopHooks
	Identity       string          // initial scope; "" => AnonymousScope
	ViewTTL        time.Duration   // provider TTL per view; 0 => 10m, negative => no expiry
	NetworkRetries int             // network-kind retries per fetch; 0 => 2, negative => none
	Disabled       bool            // bypass the cache entirely; every Query fetches
}

func New(opts Options) (Client, error) {
	return newClient(opts)
}

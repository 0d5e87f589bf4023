package taskview

// Hooks are lightweight callbacks for high-signal cache and mutation
// events. Implementations MUST be cheap and non-blocking; the client calls
// them on hot paths. Wrap with hooks/async to offload slow sinks.
type Hooks interface {
	// A cached view was deleted on read.
	// reason ∈ {"corrupt", "rev_mismatch", "decode"}
	SelfHeal(storageKey, reason string)

	// A settled fetch was discarded because a newer optimistic patch had
	// moved the view's revision while the fetch was in flight.
	StaleFetchDropped(storageKey string)

	// A failed mutation restored n views to their pre-mutation snapshots.
	Rollback(scope string, views int)

	// Provider returned ok=false on Set (backpressure/eviction).
	ProviderSetRejected(storageKey string)

	// All views in a scope were invalidated after a mutation settled.
	ScopeInvalidated(scope string, views int)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) SelfHeal(string, string)        {}
func (NopHooks) StaleFetchDropped(string)       {}
func (NopHooks) Rollback(string, int)           {}
func (NopHooks) ProviderSetRejected(string)     {}
func (NopHooks) ScopeInvalidated(string, int)   {}

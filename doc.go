// Package taskview is a client-side data-access layer for a paginated,
// filterable, owner-scoped "tasks" REST resource. It validates every
// payload crossing the process boundary, keeps one cached view per
// distinct (identity, filter, page) combination, and keeps all of those
// views consistent when optimistic create/update/delete mutations race
// against network round-trips.
//
// Components:
//   - Provider: byte store with TTL holding view snapshots (e.g. Ristretto,
//     BigCache, Redis).
//   - Codec[ListView]: (de)serializes snapshots <-> []byte.
//   - transport: HTTP adapter mapping every failure into a closed taxonomy
//     (validation, network, http, serialization, unknown).
//   - store: per-scope view index with per-key revisions; optimistic
//     patches bump a view's revision, which fences out any fetch that was
//     in flight when the patch landed.
//
// Keys:
//
//	view:<ns>:<scope>:<hash16> - one cached view per normalized filter
//
// Fetch pattern:
//
//	obs := rev(key)                    // before the network call
//	v   := GET /tasks?...             // suspension point
//	setWithRev(key, v, obs)           // commit iff rev still == obs
//
// Mutations apply their optimistic patch atomically across every cached
// view in the active scope, run the real request to settlement, then
// either reconcile with the server-confirmed record or restore the exact
// pre-mutation snapshots. Every settlement schedules a non-blocking
// invalidation of the whole scope so untouched views converge.
package taskview

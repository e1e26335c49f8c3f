// Package cacheaside implements a resilient cache-aside read-through
// loader: one Fetch operation that returns a value from a cache store or,
// on a miss, from an origin loader, with the failure-handling machinery a
// production read path needs wrapped around the origin call.
//
// # What Fetch does
//
// On every call the loader:
//
//  1. Queries the store. A live entry is returned immediately; the origin
//     is never contacted.
//  2. On a miss, routes the key through the request coalescer: concurrent
//     callers for the same key collapse onto a single origin fetch and all
//     receive the identical value or error.
//  3. The driver of that fetch runs the retry policy wrapping the circuit
//     breaker wrapping the origin call.
//  4. On success, writes the value back to the store with the configured
//     TTL (best-effort; a failed write is logged, not surfaced) and
//     publishes it to every waiter.
//  5. On failure, publishes the error to every waiter and caches nothing.
//
// # Failure semantics
//
// Retries apply only to genuine origin failures; a breaker rejection
// (resilient.ErrCircuitOpen) propagates immediately and is never retried.
// After the final attempt the caller receives a *resilient.OriginError
// wrapping the last origin error.
//
// The breaker is shared across all keys of one loader instance: repeated
// failures on one key will short-circuit fetches for every key, because the
// breaker models origin health rather than per-key health. It opens after a
// run of consecutive failures, stays open for the reset timeout, then lets
// a single probe through; the probe's outcome decides between closing and
// re-opening.
//
// A waiter whose context is cancelled while a coalesced fetch is in flight
// detaches and gets its context error; the fetch keeps running for the
// remaining waiters.
//
// # Usage
//
//	store := resilient.NewMemoryStore(nil)
//	origin := resilient.OriginFunc(func(ctx context.Context, key string) (any, error) {
//		return db.LookupUser(ctx, key)
//	})
//
//	loader, err := cacheaside.New(store, origin, resilient.DefaultConfig())
//	if err != nil {
//		// invalid configuration
//	}
//
//	user, err := cacheaside.Fetch[User](ctx, loader, "user::42")
//
// The loader is a library-level component meant to sit behind an HTTP
// handler, RPC handler or job consumer; it prescribes no fallback policy.
// Callers should treat both error kinds as "value currently unavailable"
// and decide their own degradation.
package cacheaside

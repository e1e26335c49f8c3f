// Package coalesce merges concurrent identical fetches into one upstream
// call. The first caller for a key becomes the driver and executes the
// fetch; everyone else attaches as a waiter and receives the same value or
// error. The in-flight ledger is keyed by cache key and an entry is removed
// as soon as its result has been published, so at most one fetch per key is
// ever running system-wide.
package coalesce

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Group coalesces concurrent calls per key. The zero value is ready to use.
type Group struct {
	sf singleflight.Group
}

// Do executes fn for key, collapsing concurrent callers onto a single
// execution. The shared return value reports whether the result was also
// delivered to other callers.
//
// Cancellation is per waiter: when ctx is done the caller detaches and
// receives the context error while the driver keeps running on behalf of
// the remaining waiters. fn itself is driven to completion regardless of
// any single waiter's context.
func (g *Group) Do(ctx context.Context, key string, fn func() (any, error)) (v any, shared bool, err error) {
	ch := g.sf.DoChan(key, fn)
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		return res.Val, res.Shared, res.Err
	}
}

// Forget drops the in-flight entry for key so the next caller starts a
// fresh fetch instead of attaching to an old one. Used after explicit
// invalidation.
func (g *Group) Forget(key string) {
	g.sf.Forget(key)
}

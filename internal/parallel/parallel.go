// Package parallel provides the small set of collection operations the
// orchestrator's two passes need, backed by golang.org/x/sync/errgroup
// rather than a hand-rolled worker pool.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEach runs fn once per item of items concurrently, returning the
// first error any invocation produced (others are discarded once ctx is
// canceled, per errgroup semantics). Used by PROCESS PASS to drain the
// scheduled-methods set and by UPDATE PASS to walk sibling subtrees
// independently.
func ForEach[T any](ctx context.Context, items []T, fn func(context.Context, T) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, item := range items {
		item := item
		g.Go(func() error { return fn(gctx, item) })
	}
	return g.Wait()
}

// Map runs fn once per item of items concurrently and collects the
// results in input order. The first error fn returns cancels the
// context passed to the other invocations and is returned.
func Map[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			r, err := fn(gctx, item)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Filter runs keep once per item of items concurrently and returns the
// items for which it reported true, in input order.
func Filter[T any](ctx context.Context, items []T, keep func(context.Context, T) (bool, error)) ([]T, error) {
	flags := make([]bool, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			ok, err := keep(gctx, item)
			if err != nil {
				return err
			}
			flags[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		if flags[i] {
			out = append(out, item)
		}
	}
	return out, nil
}

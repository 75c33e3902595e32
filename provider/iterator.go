package provider

import (
	"context"
	"errors"
	"sync"
)

// Iterator provides pull-based sequential access to a stream of values.
// Close must be called when done and is safe to call more than once.
type Iterator[T any] interface {
	// Next returns the next value, or (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	Close() error
}

// FuncIterator adapts a next function and an optional close function.
type FuncIterator[T any] struct {
	next  func(ctx context.Context) (T, bool, error)
	close func() error
	once  sync.Once
	err   error
}

// NewFuncIterator creates an Iterator from plain functions.
func NewFuncIterator[T any](next func(ctx context.Context) (T, bool, error), closeFn func() error) *FuncIterator[T] {
	return &FuncIterator[T]{next: next, close: closeFn}
}

func (it *FuncIterator[T]) Next(ctx context.Context) (T, bool, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, false, err
	}
	return it.next(ctx)
}

func (it *FuncIterator[T]) Close() error {
	it.once.Do(func() {
		if it.close != nil {
			it.err = it.close()
		}
	})
	return it.err
}

// SliceIterator yields the items of a slice, then an optional terminal error.
type SliceIterator[T any] struct {
	items []T
	err   error
	pos   int
}

// FromSlice returns an iterator over items.
func FromSlice[T any](items ...T) *SliceIterator[T] {
	return &SliceIterator[T]{items: items}
}

// FailAfter returns an iterator that yields items and then fails with err.
func FailAfter[T any](err error, items ...T) *SliceIterator[T] {
	return &SliceIterator[T]{items: items, err: err}
}

func (it *SliceIterator[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if it.pos < len(it.items) {
		v := it.items[it.pos]
		it.pos++
		return v, true, nil
	}
	return zero, false, it.err
}

func (it *SliceIterator[T]) Close() error { return nil }

// Collect drains it into a slice and closes it.
func Collect[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	var out []T
	for {
		v, ok, err := it.Next(ctx)
		if err != nil {
			return out, errors.Join(err, it.Close())
		}
		if !ok {
			return out, it.Close()
		}
		out = append(out, v)
	}
}

// Package future provides a small promise primitive used to hand build
// results between the orchestrator and its asynchronous collaborators.
package future

import (
	"context"
	"sync"
)

// Future holds the eventual result of an asynchronous operation.
// It is completed exactly once; further completions are ignored.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

// New returns an incomplete future and the function that completes it.
// The completer is safe to call from any goroutine; only the first call wins.
func New[T any]() (*Future[T], func(T, error)) {
	f := &Future[T]{done: make(chan struct{})}
	return f, f.complete
}

// Go runs fn in a new goroutine and returns a future for its result.
func Go[T any](fn func() (T, error)) *Future[T] {
	f, complete := New[T]()
	go func() {
		complete(fn())
	}()
	return f
}

// Resolve returns a future already completed with val.
func Resolve[T any](val T) *Future[T] {
	f, complete := New[T]()
	complete(val, nil)
	return f
}

// Fail returns a future already completed with err.
func Fail[T any](err error) *Future[T] {
	f, complete := New[T]()
	var zero T
	complete(zero, err)
	return f
}

func (f *Future[T]) complete(val T, err error) {
	f.once.Do(func() {
		f.val = val
		f.err = err
		close(f.done)
	})
}

// Done returns a channel that is closed once the future is complete.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsDone reports whether the future has completed.
func (f *Future[T]) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the future completes or ctx is cancelled.
// On cancellation it returns ctx.Err(); the underlying operation keeps running.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result returns the completed value and error.
// It must only be called once the future is done; it blocks otherwise.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	return f.val, f.err
}

// Transform derives a new future that applies fn to f's successful result.
// A failure of f propagates unchanged; fn runs on a fresh goroutine once f
// completes.
func Transform[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	out, complete := New[U]()
	go func() {
		val, err := f.Result()
		if err != nil {
			var zero U
			complete(zero, err)
			return
		}
		complete(fn(val))
	}()
	return out
}

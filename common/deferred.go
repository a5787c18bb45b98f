package common

import (
	"context"
	"fmt"
)

// Deferred is the pending outcome of an operation. It resolves exactly once.
//
// A caller that stops waiting (Wait returns ctx.Err()) does not stop the operation:
// it still runs to completion and its side effects still apply.
type Deferred struct {
	done chan struct{}
	err  error
}

// Go runs fn in its own goroutine and returns its deferred result.
// A panic inside fn resolves the result with an untyped error instead of crashing the process.
func Go(fn func() error) *Deferred {
	d := &Deferred{done: make(chan struct{})}
	go func() {
		defer close(d.done)
		defer func() {
			if r := recover(); r != nil {
				d.err = fmt.Errorf("operation panicked: %v", r)
			}
		}()
		d.err = fn()
	}()
	return d
}

// Resolved returns an already completed result.
func Resolved(err error) *Deferred {
	d := &Deferred{done: make(chan struct{}), err: err}
	close(d.done)
	return d
}

// Done is closed once the operation finished.
func (d *Deferred) Done() <-chan struct{} {
	return d.done
}

// Err returns the outcome. Only meaningful after Done is closed.
func (d *Deferred) Err() error {
	select {
	case <-d.done:
		return d.err
	default:
		return nil
	}
}

// Wait blocks until the operation resolves or ctx is done, whichever comes first.
func (d *Deferred) Wait(ctx context.Context) error {
	select {
	case <-d.done:
		return d.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Package player plays a decoded track alongside the live animation.
package player

import (
	"context"
	"sync"
)

// Task is a handle on background playback. The animation never blocks on
// it; callers choose whether to Wait for it or Cancel it.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// Start runs fn on its own goroutine and returns a handle to it. fn must
// return promptly once its context is cancelled.
func Start(ctx context.Context, fn func(ctx context.Context) error) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		defer cancel()

		err := fn(ctx)
		t.mu.Lock()
		t.err = err
		t.mu.Unlock()
	}()

	return t
}

// Done is closed when playback has finished or been cancelled.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until playback ends and returns its error. A cancelled
// playback returns context.Canceled.
func (t *Task) Wait() error {
	<-t.done
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Cancel stops playback. It does not wait for the goroutine to exit.
func (t *Task) Cancel() {
	t.cancel()
}

// Stop cancels playback and waits for it to wind down.
func (t *Task) Stop() error {
	t.Cancel()
	return t.Wait()
}

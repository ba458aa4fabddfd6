package web

import "context"

// Future is the pending result of an asynchronous acquisition.
type Future[D any] struct {
	done chan struct{}
	doc  D
	err  error
}

// Done is closed once the acquisition has settled.
func (f *Future[D]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the acquisition settles and returns its outcome.
func (f *Future[D]) Wait() (D, error) {
	<-f.done
	return f.doc, f.err
}

// AcquireAsync starts Acquire in its own goroutine and returns immediately.
// Validation errors settle the future like any other failure.
func (a *Acquirer[D]) AcquireAsync(ctx context.Context, rawURL string, opts *FetchOptions) *Future[D] {
	f := &Future[D]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		f.doc, f.err = a.Acquire(ctx, rawURL, opts)
	}()

	return f
}

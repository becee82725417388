package resilience

import "sync"

// Flight collapses concurrent calls that share a key into one execution.
// Followers block until the leader finishes and receive its result.
type Flight struct {
	mu       sync.Mutex
	inflight map[string]*flightCall
}

type flightCall struct {
	done chan struct{}
	val  any
	err  error
}

// Do runs fn once per key at a time. The shared return reports whether the
// caller received a leader's result instead of running fn itself.
func (f *Flight) Do(key string, fn func() (any, error)) (val any, err error, shared bool) {
	f.mu.Lock()
	if f.inflight == nil {
		f.inflight = make(map[string]*flightCall)
	}

	if c, ok := f.inflight[key]; ok {
		f.mu.Unlock()
		<-c.done
		return c.val, c.err, true
	}

	c := &flightCall{done: make(chan struct{})}
	f.inflight[key] = c
	f.mu.Unlock()

	c.val, c.err = fn()
	close(c.done)

	f.mu.Lock()
	delete(f.inflight, key)
	f.mu.Unlock()

	return c.val, c.err, false
}

package resilience

import "sync"

// SingleFlight collapses concurrent calls that share a key into one
// execution. The startkit token fetch and cache loads run behind it so a
// burst of requests costs one upstream round trip per key.
type SingleFlight struct {
	mu       sync.Mutex
	inFlight map[string]*flight
}

type flight struct {
	done chan struct{}
	val  any
	err  error
}

// Do executes fn unless a call with the same key is already running, in
// which case it waits for that call and returns its result. shared reports
// whether the result came from another caller's execution.
func (f *SingleFlight) Do(key string, fn func() (any, error)) (val any, err error, shared bool) {
	f.mu.Lock()
	if f.inFlight == nil {
		f.inFlight = make(map[string]*flight)
	}
	if fl, ok := f.inFlight[key]; ok {
		f.mu.Unlock()
		<-fl.done
		return fl.val, fl.err, true
	}

	fl := &flight{done: make(chan struct{})}
	f.inFlight[key] = fl
	f.mu.Unlock()

	fl.val, fl.err = fn()

	f.mu.Lock()
	delete(f.inFlight, key)
	f.mu.Unlock()
	close(fl.done)

	return fl.val, fl.err, false
}

package grove

import "sync"

// Ready is a single-fire readiness signal. Fire may be called any number of
// times from any goroutine; only the first call has an effect.
type Ready struct {
	once sync.Once
	done chan struct{}
}

// NewReady creates an unfired signal.
func NewReady() *Ready {
	return &Ready{done: make(chan struct{})}
}

// Fire marks the signal fired and reports whether this call was the one that
// fired it.
func (r *Ready) Fire() bool {
	fired := false
	r.once.Do(func() {
		close(r.done)
		fired = true
	})
	return fired
}

// Fired reports whether Fire has been called.
func (r *Ready) Fired() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the signal fires.
func (r *Ready) Done() <-chan struct{} {
	return r.done
}

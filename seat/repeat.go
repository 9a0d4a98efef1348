package seat

import (
	"sync"
	"time"
)

// repeater drives key repeat for a single keyboard. At most one repeat
// goroutine runs at a time, starting a new key cancels the previous one
// before the new goroutine spawns.
type repeater struct {
	mu   sync.Mutex
	stop chan struct{}
}

// start begins repeating. fire runs on the repeater goroutine after
// delay and then once per interval until cancel.
func (r *repeater) start(delay, interval time.Duration, fire func()) {
	r.cancel()

	stop := make(chan struct{})
	r.mu.Lock()
	r.stop = stop
	r.mu.Unlock()

	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-stop:
			stop <- struct{}{}
			return
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			fire()
			select {
			case <-ticker.C:
			case <-stop:
				stop <- struct{}{}
				return
			}
		}
	}()
}

// cancel stops any running repeat goroutine and waits for it to
// acknowledge, so no fire call can land after cancel returns.
func (r *repeater) cancel() {
	r.mu.Lock()
	stop := r.stop
	r.stop = nil
	r.mu.Unlock()
	if stop == nil {
		return
	}
	stop <- struct{}{}
	<-stop
}

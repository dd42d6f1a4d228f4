package router

import "time"

// DefaultSpawner is the production DelayedTaskSpawner: one goroutine per
// delayed call, fire-and-forget. Delayed calls are low-frequency enough
// that one goroutine per call is cheaper than a worker pool. It does not
// observe process shutdown; a delayed action scheduled before shutdown
// still fires after the process is told to stop.
func DefaultSpawner() DelayedTaskSpawner {
	return func(d time.Duration, fn func()) {
		go func() {
			time.Sleep(d)
			fn()
		}()
	}
}

package rollover

import (
	"log"
	"time"
)

// Start launches the recurring rollover check: once at process start, then
// every interval. Each tick is independent and idempotent, so a missed or
// doubled tick is harmless.
func (r *Runner) Start(interval time.Duration) {
	go func() {
		for {
			if _, err := r.Tick(); err != nil {
				log.Printf("[rollover] tick failed: %v", err)
			}
			time.Sleep(interval)
		}
	}()
}

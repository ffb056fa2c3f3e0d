package safe

import (
	"SProject/logger"
)

// Go starts a new goroutine that recovers from panic, so a misbehaving
// handler cannot crash the shared process.
func Go(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("[safe.Go] panic recovered: %v", r)
			}
		}()
		f()
	}()
}

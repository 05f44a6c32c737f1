package sandbox

import "context"

// slotLimiter caps how many sandbox runs execute at once.
type slotLimiter struct {
	tokens chan struct{}
}

func newSlotLimiter(size int) *slotLimiter {
	if size <= 0 {
		size = 1
	}
	tokens := make(chan struct{}, size)
	for i := 0; i < size; i++ {
		tokens <- struct{}{}
	}
	return &slotLimiter{tokens: tokens}
}

// acquire blocks until a slot is available or ctx is canceled.
func (l *slotLimiter) acquire(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.tokens:
		return nil
	}
}

// release returns a slot to the limiter.
func (l *slotLimiter) release() {
	select {
	case l.tokens <- struct{}{}:
	default:
	}
}

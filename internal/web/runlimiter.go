package web

// runlimiter.go bounds concurrent estimate runs. A batch run is CPU work
// proportional to its room count, so the per-IP rate limiter alone cannot
// stop several clients from piling heavy runs onto the box at once. A
// semaphore caps parallel runs; overflow waits a bounded time for a slot
// and is shed with 503 when none frees up.

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

// ErrTooManyRuns is returned when every run slot stays occupied for the
// full wait window. Clients should retry after a short delay.
var ErrTooManyRuns = errors.New("too many concurrent estimate runs, please try again later")

const (
	defaultMaxConcurrentRuns = 5
	defaultRunWait           = 30 * time.Second
)

// runLimiter restricts how many estimate runs execute at once.
type runLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

func newRunLimiter(maxConcurrent int, maxWait time.Duration) *runLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentRuns
	}
	if maxWait <= 0 {
		maxWait = defaultRunWait
	}

	return &runLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// acquire claims a run slot, waiting up to maxWait for one to free. It
// returns ErrTooManyRuns on timeout and the context error if the caller
// went away while waiting. Every successful acquire needs a release.
func (l *runLimiter) acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyRuns
	}
}

// release frees a slot claimed by acquire. Must be called exactly once
// per successful acquire.
func (l *runLimiter) release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// activeRuns reports how many runs currently hold a slot.
func (l *runLimiter) activeRuns() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// middleware gates the wrapped routes behind the semaphore.
func (l *runLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := l.acquire(r.Context()); err != nil {
			if errors.Is(err, ErrTooManyRuns) {
				w.Header().Set("Retry-After", "5")
				writeError(w, http.StatusServiceUnavailable, codeServerBusy, err.Error())
			}
			// The client cancelled while queued; nothing left to write.
			return
		}
		defer l.release()

		next.ServeHTTP(w, r)
	})
}

package http

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	// writesPerWindow is how many entry mutations one client may send per
	// window. Reads are not limited.
	writesPerWindow = 60
	window          = time.Minute
	staleAfter      = 10 * time.Minute
)

// rateLimiter counts writes per client IP in fixed one-minute windows.
type rateLimiter struct {
	mu       sync.Mutex
	windows  map[string]*clientWindow
	done     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

type clientWindow struct {
	start  time.Time
	writes int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		windows: make(map[string]*clientWindow),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	go rl.sweepLoop(5 * time.Minute)
	return rl
}

func (rl *rateLimiter) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.done:
			return
		}
	}
}

// sweep forgets clients idle for staleAfter and returns how many it dropped.
func (rl *rateLimiter) sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-staleAfter)
	dropped := 0
	for ip, w := range rl.windows {
		if w.start.Before(cutoff) {
			delete(rl.windows, ip)
			dropped++
		}
	}
	return dropped
}

func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

// allow records a write from clientIP. When the window is used up it returns
// false and the time left until the next window opens.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[clientIP]
	if !ok || now.Sub(w.start) >= window {
		rl.windows[clientIP] = &clientWindow{start: now, writes: 1}
		return true, 0
	}

	w.writes++
	if w.writes <= writesPerWindow {
		return true, 0
	}
	if metrics != nil {
		atomic.AddInt64(&metrics.rateLimitHits, 1)
	}
	return false, w.start.Add(window).Sub(now)
}

package orders

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultPollInterval is how often the customer view refreshes its orders.
const DefaultPollInterval = 5 * time.Second

// Poller runs a refresh function on a fixed interval for as long as the
// owning view (or server) lives. A tick that arrives while the previous
// refresh is still in flight is skipped rather than stacked; poll latency
// above the interval must not pile up overlapping fetches.
type Poller struct {
	interval time.Duration
	refresh  func(context.Context) error

	inFlight atomic.Bool
	stop     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

func NewPoller(interval time.Duration, refresh func(context.Context) error) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		interval: interval,
		refresh:  refresh,
		stop:     make(chan struct{}),
	}
}

// Start launches the polling loop. It returns immediately; the loop ends
// when ctx is cancelled or Stop is called. Refresh errors are logged and
// the loop keeps going; a flaky backend must not kill the refresh.
func (p *Poller) Start(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-p.stop:
				return
			case <-ticker.C:
				p.tick(ctx)
			}
		}
	}()
}

func (p *Poller) tick(ctx context.Context) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer p.inFlight.Store(false)
	if err := p.refresh(ctx); err != nil {
		log.Printf("poller: refresh failed: %v", err)
	}
}

// Stop ends the loop and waits for an in-flight refresh to finish.
func (p *Poller) Stop() {
	p.once.Do(func() { close(p.stop) })
	p.wg.Wait()
}

package timer

import (
	"context"
	"sync"
	"time"

	"github.com/studyhub-app/backend/internal/logging"
)

// Driver ticks a Timer on a wall-clock interval. It is the only part
// of the package that owns a goroutine; the state machine itself is
// driven purely by Tick calls and stays trivially testable.
type Driver struct {
	timer    *Timer
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

// NewDriver wires a driver to t. interval defaults to one second.
func NewDriver(t *Timer, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = time.Second
	}
	return &Driver{timer: t, interval: interval}
}

// Start launches the tick loop. Starting a running driver is a no-op.
func (d *Driver) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return
	}
	d.running = true
	d.stopCh = make(chan struct{})

	d.wg.Add(1)
	go d.loop(ctx)
	logging.Info("timer driver started")
}

// Stop halts the tick loop and waits for it to exit.
func (d *Driver) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	close(d.stopCh)
	d.mu.Unlock()

	d.wg.Wait()
	logging.Info("timer driver stopped")
}

func (d *Driver) loop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stopCh:
			return
		case <-ticker.C:
			d.timer.Tick(ctx)
		}
	}
}

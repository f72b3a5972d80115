package watcher

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid filesystem events so a burst of writes to the
// same environment path triggers a single re-validation. Paths seen within
// the window are merged into one batch.
type Debouncer struct {
	window time.Duration

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	output  chan []string
	stopped bool
}

// NewDebouncer creates a debouncer with the given window duration.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window:  window,
		pending: make(map[string]struct{}),
		output:  make(chan []string, 10),
	}
}

// Add queues a path for the next batch.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending[path] = struct{}{}

	if d.timer == nil {
		d.timer = time.AfterFunc(d.window, d.flush)
	}
}

// Batches returns the channel of coalesced path batches.
// The channel is closed when the debouncer stops.
func (d *Debouncer) Batches() <-chan []string {
	return d.output
}

// Stop flushes nothing further and closes the output channel.
// Safe to call multiple times.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	close(d.output)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.timer = nil
	if d.stopped || len(d.pending) == 0 {
		return
	}

	batch := make([]string, 0, len(d.pending))
	for path := range d.pending {
		batch = append(batch, path)
	}
	d.pending = make(map[string]struct{})

	// Never block the timer goroutine: if the consumer is behind, drop the
	// batch; the paths will reappear on the next event.
	select {
	case d.output <- batch:
	default:
	}
}

package preview

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a rebuild runs.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer runs fn once after calls to Trigger have stopped for delay.
// Runs never overlap: a quiet period that ends while fn is still running
// queues a single follow-up run.
type Debouncer struct {
	delay   time.Duration
	fn      func()
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	pending chan struct{}
	done    chan struct{}
}

// NewDebouncer creates a Debouncer and starts its worker. Call Stop to release it.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	d := &Debouncer{
		delay:   delay,
		fn:      fn,
		pending: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Debouncer) run() {
	for {
		select {
		case <-d.done:
			return
		case <-d.pending:
			select {
			case <-d.done:
				return
			default:
			}
			d.fn()
		}
	}
}

func (d *Debouncer) enqueue() {
	select {
	case d.pending <- struct{}{}:
	default:
	}
}

// Trigger restarts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.enqueue)
}

// Stop cancels a pending run. A run already in progress completes; later
// triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.done)
}

package debounce

import (
	"sync"
	"time"
)

type Options struct {
	Delay time.Duration
}

// Debouncer coalesces bursts of work per key: only the last function added
// for a key runs, once the key has been quiet for Delay.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]*pendingCall
}

type pendingCall struct {
	fn    func()
	timer *time.Timer
}

func New(opts Options) *Debouncer {
	delay := opts.Delay
	if delay <= 0 {
		delay = 400 * time.Millisecond
	}

	return &Debouncer{
		delay:   delay,
		pending: make(map[string]*pendingCall),
	}
}

func (d *Debouncer) Add(key string, fn func()) {
	if fn == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	pc, ok := d.pending[key]
	if !ok {
		pc = &pendingCall{}
		d.pending[key] = pc
	}
	pc.fn = fn

	if pc.timer != nil {
		pc.timer.Stop()
	}
	pc.timer = time.AfterFunc(d.delay, func() {
		d.flush(key)
	})
}

// Flush runs every pending call immediately.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	keys := make([]string, 0, len(d.pending))
	for key := range d.pending {
		keys = append(keys, key)
	}
	d.mu.Unlock()

	for _, key := range keys {
		d.flush(key)
	}
}

func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

func (d *Debouncer) flush(key string) {
	d.mu.Lock()
	pc, ok := d.pending[key]
	if !ok {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	pc.timer.Stop()
	fn := pc.fn
	d.mu.Unlock()

	fn()
}

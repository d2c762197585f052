// Package keepalive is the Keepalive Driver (C7): a background
// goroutine that round-robins a liveness ping across mounted units
// (spec.md §4.7).
package keepalive

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Interval between ticks (spec.md §4.7).
const Interval = 30 * time.Second

// Pinger is the subset of mount.Manager the keepalive goroutine needs:
// enough to pick the next unit round-robin and ping it if mounted.
type Pinger interface {
	// Ping issues a no-op protocol ping against unit u if it is
	// mounted. It is called with the driver's global mutex held by
	// Driver, mirroring spec.md §5's "Keepalive takes it for each ping".
	Ping(u int) error
	NumUnits() int
}

// Driver runs the single cooperative background task.
type Driver struct {
	pinger Pinger
	mu     *sync.Mutex // the dispatcher's global mutex (spec.md §5)
	log    *logrus.Entry

	cancel context.CancelFunc
	done   chan struct{}
	next   int
}

// New builds a Keepalive Driver sharing the dispatcher's global mutex.
func New(pinger Pinger, mu *sync.Mutex, log *logrus.Entry) *Driver {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Driver{pinger: pinger, mu: mu, log: log}
}

// Start spawns the background goroutine (spec.md §4.8 step 7).
func (d *Driver) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	go d.run(ctx)
}

func (d *Driver) run(ctx context.Context) {
	defer close(d.done)
	ticker := time.NewTicker(Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.tick()
		}
	}
}

func (d *Driver) tick() {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.pinger.NumUnits()
	if n == 0 {
		return
	}
	u := d.next
	d.next = (d.next + 1) % n
	if err := d.pinger.Ping(u); err != nil {
		d.log.WithError(err).WithField("unit", u).Debug("keepalive ping failed")
	}
}

// Stop cancels the background goroutine and joins it (spec.md §4.8
// Remove step 3, §5 cancellation: "aborted, at-most-once semantics, no
// retries").
func (d *Driver) Stop() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
}

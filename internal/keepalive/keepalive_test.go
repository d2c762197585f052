package keepalive

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingPinger struct {
	n     int
	pings int32
	last  int32
}

func (p *countingPinger) NumUnits() int { return p.n }
func (p *countingPinger) Ping(u int) error {
	atomic.AddInt32(&p.pings, 1)
	atomic.StoreInt32(&p.last, int32(u))
	return nil
}

func TestTickRoundRobins(t *testing.T) {
	pinger := &countingPinger{n: 2}
	var mu sync.Mutex
	d := New(pinger, &mu, nil)

	d.tick()
	assert.EqualValues(t, 0, pinger.last)
	d.tick()
	assert.EqualValues(t, 1, pinger.last)
	d.tick()
	assert.EqualValues(t, 0, pinger.last)
	assert.EqualValues(t, 3, pinger.pings)
}

func TestTickSkipsWhenNoUnits(t *testing.T) {
	pinger := &countingPinger{n: 0}
	var mu sync.Mutex
	d := New(pinger, &mu, nil)
	d.tick()
	assert.EqualValues(t, 0, pinger.pings)
}

func TestStartStopLifecycle(t *testing.T) {
	pinger := &countingPinger{n: 1}
	var mu sync.Mutex
	d := New(pinger, &mu, nil)

	d.Start(context.Background())
	time.Sleep(10 * time.Millisecond)
	d.Stop()
	// Stop must join cleanly; a second Stop on a driver that never
	// started again would be a no-op, but this driver already started.
}

func TestStopBeforeStartIsNoOp(t *testing.T) {
	pinger := &countingPinger{n: 1}
	var mu sync.Mutex
	d := New(pinger, &mu, nil)
	d.Stop()
}

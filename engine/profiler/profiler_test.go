package profiler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type collector struct {
	mu      sync.Mutex
	reports []Report
}

func (c *collector) report(r Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = append(c.reports, r)
}

func (c *collector) all() []Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Report(nil), c.reports...)
}

func TestTickReportsAfterInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	c := &collector{}
	p := NewProfiler(WithClock(clock.now), WithReporter(c.report), WithInterval(time.Second))

	for range 3 {
		p.Record(2, 320, 48)
		clock.advance(250 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	p.Record(4, 640, 96)
	clock.advance(250 * time.Millisecond)
	assert.True(t, p.Tick())

	p.Stop()

	reports := c.all()
	require.Len(t, reports, 1)
	r := reports[0]
	assert.Equal(t, 4, r.Frames)
	assert.Equal(t, time.Second, r.Elapsed)
	assert.InDelta(t, 4.0, r.FPS, 1e-9)
	assert.InDelta(t, 2.5, r.Primitives, 1e-9)
	assert.InDelta(t, 400.0, r.VertexBytes, 1e-9)
	assert.InDelta(t, 60.0, r.IndexBytes, 1e-9)
	assert.Greater(t, r.SysMB, 0.0)
}

func TestIntervalResetsCounters(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	c := &collector{}
	p := NewProfiler(WithClock(clock.now), WithReporter(c.report), WithInterval(time.Second))

	p.Record(10, 0, 0)
	clock.advance(time.Second)
	require.True(t, p.Tick())

	clock.advance(2 * time.Second)
	require.True(t, p.Tick())
	p.Stop()

	reports := c.all()
	require.Len(t, reports, 2)
	assert.InDelta(t, 10.0, reports[0].Primitives, 1e-9)
	assert.InDelta(t, 0.0, reports[1].Primitives, 1e-9)
	assert.InDelta(t, 0.5, reports[1].FPS, 1e-9)
}

func TestStopIsIdempotent(t *testing.T) {
	p := NewProfiler(WithReporter(func(Report) {}))

	p.Stop()
	p.Stop()

	assert.False(t, p.Tick())
}

func TestOptionsIgnoreInvalidValues(t *testing.T) {
	p := NewProfiler(WithInterval(0), WithReporter(nil), WithClock(nil))
	defer p.Stop()

	assert.Equal(t, time.Second, p.updateInterval)
	assert.NotNil(t, p.reporter)
	assert.NotNil(t, p.now)
}

package profiler

import (
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Report is one interval of frame and packing statistics.
type Report struct {
	Elapsed time.Duration
	Frames  int
	FPS     float64

	// Per-frame averages over the interval.
	Primitives  float64
	VertexBytes float64
	IndexBytes  float64

	HeapMB      float64
	SysMB       float64
	AllocRateMB float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
}

// Profiler tracks frame rate, packed geometry and memory statistics for performance monitoring.
// Reports are assembled and delivered on a single background worker so the frame loop
// never blocks on runtime.ReadMemStats or logging.
type Profiler struct {
	mu *sync.Mutex

	frameCount     int
	primitives     int
	vertexBytes    int
	indexBytes     int
	lastTime       time.Time
	updateInterval time.Duration

	// Owned by the report worker.
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	now      func() time.Time
	reporter func(Report)

	pool    worker.DynamicWorkerPool
	pending *sync.WaitGroup
	taskID  int
	stopped bool
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second and reports are logged.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		mu:             &sync.Mutex{},
		updateInterval: time.Second,
		now:            time.Now,
		reporter:       logReport,
		pending:        &sync.WaitGroup{},
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	// One worker keeps reports in submission order.
	p.pool = worker.NewDynamicWorkerPool(1, 4, time.Second)
	return p
}

// Record adds the geometry packed by one frame to the current interval.
//
// Parameters:
//   - primitives: the number of primitives packed
//   - vertexBytes: the vertex bytes uploaded
//   - indexBytes: the index bytes uploaded
func (p *Profiler) Record(primitives, vertexBytes, indexBytes int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.primitives += primitives
	p.vertexBytes += vertexBytes
	p.indexBytes += indexBytes
}

// Tick should be called once per frame to track frame timing.
// When the update interval has elapsed the interval's statistics are handed to the
// report worker. Statistics include: FPS, packed geometry per frame, heap usage,
// allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if a report was scheduled this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return false
	}

	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	frames := float64(p.frameCount)
	r := Report{
		Elapsed:     elapsed,
		Frames:      p.frameCount,
		FPS:         frames / elapsed.Seconds(),
		Primitives:  float64(p.primitives) / frames,
		VertexBytes: float64(p.vertexBytes) / frames,
		IndexBytes:  float64(p.indexBytes) / frames,
	}
	p.frameCount, p.primitives, p.vertexBytes, p.indexBytes = 0, 0, 0, 0
	p.lastTime = currentTime

	p.pending.Add(1)
	p.taskID++
	p.pool.SubmitTask(worker.Task{
		ID:      p.taskID,
		Payload: r,
		Do: func() (any, error) {
			defer p.pending.Done()
			p.addMemStats(&r)
			p.reporter(r)
			return r, nil
		},
	})
	return true
}

// addMemStats fills the memory fields of r. Only the report worker calls it.
func (p *Profiler) addMemStats(r *Report) {
	runtime.ReadMemStats(&p.memStats)
	// Alloc: Bytes of allocated heap objects (live memory)
	// TotalAlloc: Cumulative bytes allocated for heap objects (increases forever, tracks churn)
	// Sys: Total bytes of memory obtained from the OS (actual process footprint)
	r.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	r.SysMB = float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	r.AllocRateMB = float64(allocDelta) / 1024 / 1024 / r.Elapsed.Seconds()

	gcCount := p.memStats.NumGC
	r.GCCount = gcCount
	if gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		r.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > r.MaxPauseUs {
				r.MaxPauseUs = pause
			}
		}
	}

	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
}

// Stop waits for scheduled reports to be delivered and stops the report worker.
// Safe to call more than once.
func (p *Profiler) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	p.pending.Wait()
	p.pool.Stop()
}

func logReport(r Report) {
	log.Printf("[Profiler] FPS: %.2f | Prims/frame: %.1f | VB: %.1f KB | IB: %.1f KB | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		r.FPS, r.Primitives, r.VertexBytes/1024, r.IndexBytes/1024, r.HeapMB, r.AllocRateMB, r.GCCount, r.LastPauseUs, r.MaxPauseUs, r.SysMB)
}

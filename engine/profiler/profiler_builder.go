package profiler

import "time"

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often a report is produced. Non-positive values are ignored.
//
// Parameters:
//   - interval: the reporting interval
//
// Returns:
//   - ProfilerOption: functional option to set the interval
func WithInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithReporter replaces the default log output. The reporter runs on the report worker.
//
// Parameters:
//   - reporter: called once per interval with the assembled report
//
// Returns:
//   - ProfilerOption: functional option to set the reporter
func WithReporter(reporter func(Report)) ProfilerOption {
	return func(p *Profiler) {
		if reporter != nil {
			p.reporter = reporter
		}
	}
}

// WithClock sets the time source used to measure intervals.
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

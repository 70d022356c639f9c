package sim

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Clock is the read-only view of the simulated clock used by observers.
type Clock interface {
	Now() int64
}

// ClockReporter periodically logs elapsed wall time next to the simulated clock.
// It only reads the clock; it never mutates scheduler state.
type ClockReporter struct {
	clock    Clock
	interval time.Duration
	log      func(elapsed time.Duration, tick int64)

	stopped atomic.Bool
	wake    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	start   time.Time
}

// DefaultReportInterval is the wall-clock period of the ClockReporter.
const DefaultReportInterval = 2 * time.Second

// NewClockReporter creates a reporter logging every interval (DefaultReportInterval when
// interval is not positive). Start must be called to run it.
func NewClockReporter(clock Clock, interval time.Duration) *ClockReporter {
	if interval <= 0 {
		interval = DefaultReportInterval
	}
	return &ClockReporter{
		clock:    clock,
		interval: interval,
		wake:     make(chan struct{}),
		log: func(elapsed time.Duration, tick int64) {
			logrus.Infof("Time elapsed: %.1f seconds, CPU currentTime: %d", elapsed.Seconds(), tick)
		},
	}
}

// Start launches the reporter goroutine.
func (r *ClockReporter) Start() {
	r.start = time.Now()
	r.wg.Add(1)
	go r.loop()
}

func (r *ClockReporter) loop() {
	defer r.wg.Done()
	for !r.stopped.Load() {
		r.log(time.Since(r.start), r.clock.Now())

		timer := time.NewTimer(r.interval)
		select {
		case <-r.wake:
		case <-timer.C:
		}
		timer.Stop()
	}
	logrus.Info("Timer stopped.")
}

// Stop raises the stop flag and wakes the goroutine from its sleep.
// Safe to call more than once.
func (r *ClockReporter) Stop() {
	r.once.Do(func() {
		r.stopped.Store(true)
		close(r.wake)
	})
}

// Join blocks until the reporter goroutine has exited.
func (r *ClockReporter) Join() {
	r.wg.Wait()
}

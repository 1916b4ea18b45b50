// internal/engine/debounce.go
package engine

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/screenfit/api/schemas"
)

// Debouncer collapses bursts of raw resize events into a single callback
// invocation once the stream has stayed quiet for a full interval. The
// callback runs on the debouncer's own goroutine.
type Debouncer struct {
	interval time.Duration
	logger   *zap.Logger
	fire     func(schemas.Size)

	events   chan schemas.Size
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewDebouncer starts a debouncer that invokes fire with the latest size
// observed in a burst, interval after the last event of that burst.
func NewDebouncer(interval time.Duration, fire func(schemas.Size), logger *zap.Logger) *Debouncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	d := &Debouncer{
		interval: interval,
		logger:   logger.Named("debounce"),
		fire:     fire,
		events:   make(chan schemas.Size, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go d.loop()
	return d
}

// Signal records a raw event without ever blocking the caller. Within a
// window the latest size wins; intermediate sizes are dropped.
func (d *Debouncer) Signal(s schemas.Size) {
	select {
	case d.events <- s:
	default:
		// Slot is taken by a stale event. Swap it for the newer one.
		select {
		case <-d.events:
		default:
		}
		select {
		case d.events <- s:
		default:
		}
	}
}

// Stop terminates the loop and waits for it to exit. Safe to call more than
// once.
func (d *Debouncer) Stop() {
	d.stopOnce.Do(func() { close(d.quit) })
	<-d.done
}

// loop is a reset-on-event quiescence timer. The timer starts drained and
// only arms when an event arrives; each further event pushes the deadline
// out by a full interval.
func (d *Debouncer) loop() {
	defer close(d.done)

	timer := time.NewTimer(d.interval)
	if !timer.Stop() {
		<-timer.C
	}

	var pending schemas.Size
	armed := false

	for {
		select {
		case <-d.quit:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			return

		case s := <-d.events:
			pending = s
			armed = true
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(d.interval)

		case <-timer.C:
			if armed {
				armed = false
				d.logger.Debug("quiescence window closed",
					zap.Float64("width", pending.Width),
					zap.Float64("height", pending.Height))
				d.fire(pending)
			}
		}
	}
}

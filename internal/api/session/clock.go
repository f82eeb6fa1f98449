package session

import (
	"sync"
	"time"
)

// invalidTimezoneDisplay is shown instead of a time when the zone cannot be
// loaded; an invalid timezone must never panic or leak a ticker.
const invalidTimezoneDisplay = "Invalid Timezone"

// Clock is the repeating one-second local-time display for the selected
// city's timezone. It is the only long-lived resource a session owns;
// acquisition and release are paired, so a new clock is created only after
// the prior one is stopped.
type Clock struct {
	mu      sync.Mutex
	display string
	done    chan struct{}
	stop    sync.Once
}

// StartClock begins ticking in the given timezone. An invalid timezone
// yields a clock pinned to an error token with no running goroutine.
func StartClock(timezone string) *Clock {
	loc, err := time.LoadLocation(timezone)
	if timezone == "" || err != nil {
		return &Clock{display: invalidTimezoneDisplay}
	}

	c := &Clock{
		display: formatLocalTime(time.Now(), loc),
		done:    make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-c.done:
				return
			case now := <-ticker.C:
				c.mu.Lock()
				c.display = formatLocalTime(now, loc)
				c.mu.Unlock()
			}
		}
	}()
	return c
}

// Display returns the current formatted local time (or the error token).
func (c *Clock) Display() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.display
}

// Stop releases the ticker goroutine. Safe to call more than once.
func (c *Clock) Stop() {
	if c.done == nil {
		return
	}
	c.stop.Do(func() { close(c.done) })
}

func formatLocalTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("3:04 PM")
}

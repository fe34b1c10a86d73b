package service

import (
	"time"

	"github.com/alexanderramin/taktplan/internal/domain"
)

// Clock abstracts "now" so scheduling and delay classification are
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// nowFrom prefers an explicit request time over the clock.
func nowFrom(clock Clock, override *time.Time) time.Time {
	if override != nil {
		return override.UTC()
	}
	return clock.Now().UTC()
}

// todayFrom is nowFrom truncated to a calendar date.
func todayFrom(clock Clock, override *time.Time) time.Time {
	return domain.DateOf(nowFrom(clock, override))
}

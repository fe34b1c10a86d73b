package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/taktplan/internal/domain"
)

// WindowDays returns the inclusive day length of [start, end].
func WindowDays(start, end time.Time) (int, error) {
	start, end = domain.DateOf(start), domain.DateOf(end)
	if end.Before(start) {
		return 0, fmt.Errorf("window %s..%s: %w",
			start.Format(domain.DateLayout), end.Format(domain.DateLayout), domain.ErrInvalidRange)
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// Overlaps reports whether [aStart, aEnd] and [bStart, bEnd] share at least one day.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !domain.DateOf(aStart).After(domain.DateOf(bEnd)) &&
		!domain.DateOf(aEnd).Before(domain.DateOf(bStart))
}

// ShiftDate adds days calendar days to d, snapping weekends to Monday when asked.
func ShiftDate(d time.Time, days int, skipWeekends bool) time.Time {
	shifted := domain.DateOf(d).AddDate(0, 0, days)
	if skipWeekends {
		return SnapToMonday(shifted)
	}
	return shifted
}

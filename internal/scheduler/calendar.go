package scheduler

import (
	"time"

	"github.com/alexanderramin/taktplan/internal/domain"
)

// IsWeekend reports whether d falls on a Saturday or Sunday.
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// NextWorkday returns d unchanged if it is a working day, else the first
// working day after it.
func NextWorkday(d time.Time) time.Time {
	d = domain.DateOf(d)
	for IsWeekend(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// AddWorkdays treats start (advanced to the next working day) as day 1 and
// returns the date of the days-th working day. days below 1 count as 1.
func AddWorkdays(start time.Time, days int) time.Time {
	if days < 1 {
		days = 1
	}
	d := NextWorkday(start)
	counted := 1
	for counted < days {
		d = d.AddDate(0, 0, 1)
		if !IsWeekend(d) {
			counted++
		}
	}
	return d
}

// SnapToMonday moves Saturday and Sunday forward to the following Monday.
func SnapToMonday(d time.Time) time.Time {
	d = domain.DateOf(d)
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, 2)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	default:
		return d
	}
}

// CountWorkdays counts working days in [from, to] inclusive.
func CountWorkdays(from, to time.Time) int {
	from, to = domain.DateOf(from), domain.DateOf(to)
	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !IsWeekend(d) {
			n++
		}
	}
	return n
}

package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestIsWeekend(t *testing.T) {
	assert.True(t, IsWeekend(date("2024-03-02")))  // Sat
	assert.True(t, IsWeekend(date("2024-03-03")))  // Sun
	assert.False(t, IsWeekend(date("2024-03-04"))) // Mon
	assert.False(t, IsWeekend(date("2024-03-08"))) // Fri
}

func TestNextWorkday(t *testing.T) {
	assert.Equal(t, date("2024-03-04"), NextWorkday(date("2024-03-02")))
	assert.Equal(t, date("2024-03-04"), NextWorkday(date("2024-03-03")))
	assert.Equal(t, date("2024-03-05"), NextWorkday(date("2024-03-05")))
}

func TestNextWorkday_TruncatesTime(t *testing.T) {
	in := time.Date(2024, 3, 5, 17, 30, 0, 0, time.UTC)
	assert.Equal(t, date("2024-03-05"), NextWorkday(in))
}

func TestAddWorkdays(t *testing.T) {
	mon := date("2024-03-04")
	assert.Equal(t, mon, AddWorkdays(mon, 1))
	assert.Equal(t, date("2024-03-06"), AddWorkdays(mon, 3))
	assert.Equal(t, date("2024-03-08"), AddWorkdays(mon, 5))
	assert.Equal(t, date("2024-03-11"), AddWorkdays(mon, 6), "crosses weekend")
	assert.Equal(t, mon, AddWorkdays(mon, 0), "minimum one day")
	assert.Equal(t, mon, AddWorkdays(date("2024-03-02"), 1), "weekend start advances")
}

func TestSnapToMonday(t *testing.T) {
	assert.Equal(t, date("2024-03-11"), SnapToMonday(date("2024-03-09")))
	assert.Equal(t, date("2024-03-11"), SnapToMonday(date("2024-03-10")))
	assert.Equal(t, date("2024-03-07"), SnapToMonday(date("2024-03-07")))
}

// TestNextWorkday_Property checks that the result is never a weekend and
// never before the input.
func TestNextWorkday_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := date("2020-01-01")

	for trial := 0; trial < 500; trial++ {
		d := base.AddDate(0, 0, rng.Intn(3650))
		got := NextWorkday(d)
		assert.False(t, IsWeekend(got), "trial %d: %s", trial, got)
		assert.False(t, got.Before(d), "trial %d: %s before %s", trial, got, d)
		assert.LessOrEqual(t, got.Sub(d), 48*time.Hour, "trial %d", trial)
	}
}

// TestAddWorkdays_Property checks that the span contains exactly days working
// days and ends on a working day.
func TestAddWorkdays_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := date("2020-01-01")

	for trial := 0; trial < 500; trial++ {
		s := NextWorkday(base.AddDate(0, 0, rng.Intn(3650)))
		days := rng.Intn(40) + 1
		end := AddWorkdays(s, days)
		assert.False(t, IsWeekend(end), "trial %d", trial)
		assert.Equal(t, days, CountWorkdays(s, end), "trial %d: start %s days %d", trial, s, days)
	}
}

func TestSnapToMonday_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := date("2020-01-01")

	for trial := 0; trial < 300; trial++ {
		d := base.AddDate(0, 0, rng.Intn(3650))
		got := SnapToMonday(d)
		assert.False(t, IsWeekend(got))
		if !IsWeekend(d) {
			assert.Equal(t, d, got, "weekday must not move")
		}
	}
}

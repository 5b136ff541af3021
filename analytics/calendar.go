package analytics

import (
	"time"

	"ifore/models"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Calendar places timestamps on calendar days of one location and lays out
// the daily buckets that start at Epoch.
type Calendar struct {
	Epoch    time.Time
	Location *time.Location
}

// NewCalendar truncates epoch to its day in loc. A nil loc means time.Local.
func NewCalendar(epoch time.Time, loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	c := Calendar{Location: loc}
	c.Epoch = c.Day(epoch)
	return c
}

// Day truncates t to midnight of its calendar day.
func (c Calendar) Day(t time.Time) time.Time {
	t = t.In(c.Location)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.Location)
}

// DaysBetween returns the number of calendar days from a to b.
func (c Calendar) DaysBetween(a, b time.Time) int {
	ay, am, ad := a.In(c.Location).Date()
	by, bm, bd := b.In(c.Location).Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from) / (24 * time.Hour))
}

// SameDay reports whether a and b fall on the same calendar day.
func (c Calendar) SameDay(a, b time.Time) bool {
	return c.DaysBetween(a, b) == 0
}

// InRange reports whether t falls on a day within [start, end], both inclusive.
func (c Calendar) InRange(t, start, end time.Time) bool {
	return c.DaysBetween(start, t) >= 0 && c.DaysBetween(t, end) >= 0
}

// BucketCount is the length of every daily series: the days from the epoch
// to today plus two. The extra day at each end is kept as is; the prediction
// slices depend on it.
func (c Calendar) BucketCount(today time.Time) int {
	n := c.DaysBetween(c.Epoch, today) + 2
	if n < 0 {
		return 0
	}
	return n
}

// BucketDays lists the bucket days from today back to the day before the
// epoch, newest first.
func (c Calendar) BucketDays(today time.Time) []time.Time {
	today = c.Day(today)
	n := c.BucketCount(today)
	days := make([]time.Time, n)
	for i := 0; i < n; i++ {
		days[i] = today.AddDate(0, 0, -i)
	}
	return days
}

// Bucket holds the completed transactions of one calendar day.
type Bucket struct {
	Day          time.Time
	Transactions []models.Transaction
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

func (c Calendar) key(t time.Time) dayKey {
	y, m, d := t.In(c.Location).Date()
	return dayKey{y, m, d}
}

// Buckets partitions the completed transactions of txs into the daily
// buckets ending today. Days without transactions yield empty buckets and
// transactions outside the bucket range are ignored.
func (c Calendar) Buckets(txs []models.Transaction, today time.Time) []Bucket {
	byDay := make(map[dayKey][]models.Transaction)
	for _, tx := range txs {
		if !tx.IsCompleted() {
			continue
		}
		k := c.key(tx.CreatedAt)
		byDay[k] = append(byDay[k], tx)
	}

	days := c.BucketDays(today)
	buckets := make([]Bucket, len(days))
	for i, day := range days {
		buckets[i] = Bucket{Day: day, Transactions: byDay[c.key(day)]}
	}
	return buckets
}

// Completed returns the completed transactions whose day lies in [start, end].
func (c Calendar) Completed(txs []models.Transaction, start, end time.Time) []models.Transaction {
	out := make([]models.Transaction, 0)
	for _, tx := range txs {
		if tx.IsCompleted() && c.InRange(tx.CreatedAt, start, end) {
			out = append(out, tx)
		}
	}
	return out
}

package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ifore/models"
)

func TestBucketCountIncludesBothEdges(t *testing.T) {
	c := NewCalendar(day(2024, 1, 1), time.UTC)

	tests := []struct {
		today time.Time
		want  int
	}{
		{day(2024, 1, 1), 2},
		{day(2024, 1, 10), 11},
		{time.Date(2024, 1, 10, 23, 59, 0, 0, time.UTC), 11},
		{day(2024, 3, 1), 62},
		{day(2023, 12, 31), 1},
		{day(2023, 12, 1), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.BucketCount(tt.today), tt.today.String())
		assert.Len(t, c.BucketDays(tt.today), tt.want)
	}
}

func TestBucketDaysNewestFirst(t *testing.T) {
	c := NewCalendar(day(2024, 1, 1), time.UTC)
	days := c.BucketDays(time.Date(2024, 1, 5, 15, 30, 0, 0, time.UTC))

	require.Len(t, days, 6)
	assert.Equal(t, day(2024, 1, 5), days[0])
	assert.Equal(t, day(2023, 12, 31), days[len(days)-1])
	for i := 1; i < len(days); i++ {
		assert.Equal(t, days[i-1].AddDate(0, 0, -1), days[i])
	}
}

func TestBucketsKeepOnlyCompletedOfEachDay(t *testing.T) {
	c := NewCalendar(day(2024, 1, 1), time.UTC)
	txs := []models.Transaction{
		txAt(1, models.StatusCompleted, time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC), "10", "1"),
		txAt(2, models.StatusCompleted, time.Date(2024, 1, 3, 23, 59, 59, 0, time.UTC), "20", "2"),
		txAt(3, "pending", time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC), "30", "3"),
		txAt(4, models.StatusCompleted, time.Date(2023, 12, 31, 8, 0, 0, 0, time.UTC), "5", "1"),
		txAt(5, models.StatusCompleted, time.Date(2023, 12, 20, 8, 0, 0, 0, time.UTC), "99", "9"),
	}

	buckets := c.Buckets(txs, day(2024, 1, 4))
	require.Len(t, buckets, 5)

	assert.Empty(t, buckets[0].Transactions)
	require.Len(t, buckets[1].Transactions, 2)
	assert.Equal(t, day(2024, 1, 3), buckets[1].Day)
	require.Len(t, buckets[4].Transactions, 1)
	assert.Equal(t, int64(4), buckets[4].Transactions[0].ID)
}

func TestCalendarUsesLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	c := NewCalendar(day(2024, 1, 1), jakarta)

	// 20:00 UTC on the 2nd is already the 3rd in Jakarta.
	at := time.Date(2024, 1, 2, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, jakarta), c.Day(at))
	assert.True(t, c.SameDay(at, time.Date(2024, 1, 3, 6, 0, 0, 0, jakarta)))
}

func TestCompletedIsInclusive(t *testing.T) {
	c := NewCalendar(day(2024, 1, 1), time.UTC)
	txs := []models.Transaction{
		txAt(1, models.StatusCompleted, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), "1", "1"),
		txAt(2, models.StatusCompleted, time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC), "1", "1"),
		txAt(3, models.StatusCompleted, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "1", "1"),
		txAt(4, "cancelled", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), "1", "1"),
	}

	got := c.Completed(txs, day(2024, 1, 8), day(2024, 1, 14))
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
}

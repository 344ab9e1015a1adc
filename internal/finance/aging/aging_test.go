package aging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func TestClassifySameDay(t *testing.T) {
	c := Classify(today, today)
	require.Equal(t, 0, c.DaysOverdue)
	require.Equal(t, BucketDueSoon, c.Bucket)
}

func TestClassifyFortyFiveDaysDefaultTerm(t *testing.T) {
	origin := today.AddDate(0, 0, -45)
	c := Classify(origin, today)
	require.Equal(t, 15, c.DaysOverdue)
	require.Equal(t, BucketOverdue, c.Bucket)
}

func TestClassifyInsideWindow(t *testing.T) {
	origin := today.AddDate(0, 0, -10)
	c := Classify(origin, today)
	require.Equal(t, 0, c.DaysOverdue)
	require.Equal(t, BucketDueSoon, c.Bucket)
}

func TestClassifyFutureDatedDocument(t *testing.T) {
	origin := today.AddDate(0, 0, 5)
	c := Classify(origin, today)
	require.Equal(t, 0, c.DaysOverdue)
	require.Equal(t, BucketCurrent, c.Bucket)
}

func TestFlatTermPolicyIgnoresDueDate(t *testing.T) {
	origin := today.AddDate(0, 0, -45)
	// A 90-day due date would make this item current, but the flat policy
	// keeps assuming 30 days.
	due := origin.AddDate(0, 0, 90)
	c := FlatTermPolicy{}.Classify(origin, due, today)
	require.Equal(t, 15, c.DaysOverdue)
	require.Equal(t, BucketOverdue, c.Bucket)
}

func TestFlatTermPolicyCustomCreditDays(t *testing.T) {
	origin := today.AddDate(0, 0, -45)
	c := FlatTermPolicy{AssumedCreditDays: 60}.Classify(origin, time.Time{}, today)
	require.Equal(t, 0, c.DaysOverdue)
	require.Equal(t, BucketDueSoon, c.Bucket)
}

func TestResolvedTermPolicyUsesDueDate(t *testing.T) {
	origin := today.AddDate(0, 0, -45)

	pastDue := ResolvedTermPolicy{}.Classify(origin, origin.AddDate(0, 0, 15), today)
	require.Equal(t, 30, pastDue.DaysOverdue)
	require.Equal(t, BucketOverdue, pastDue.Bucket)

	openItem := ResolvedTermPolicy{}.Classify(origin, origin.AddDate(0, 0, 90), today)
	require.Equal(t, 0, openItem.DaysOverdue)
	require.Equal(t, BucketDueSoon, openItem.Bucket)
}

func TestPoliciesDivergeOnTheSameItem(t *testing.T) {
	// 45-day-old invoice carrying a genuine 60-day term: flat aging flags
	// it overdue, resolved aging does not. Both readings are shipped.
	origin := today.AddDate(0, 0, -45)
	due := origin.AddDate(0, 0, 60)

	flat := FlatTermPolicy{}.Classify(origin, due, today)
	resolved := ResolvedTermPolicy{}.Classify(origin, due, today)

	require.Equal(t, BucketOverdue, flat.Bucket)
	require.Equal(t, BucketDueSoon, resolved.Bucket)
}

func TestClassifyIsIdempotent(t *testing.T) {
	origin := today.AddDate(0, 0, -45)
	require.Equal(t, Classify(origin, today), Classify(origin, today))
}

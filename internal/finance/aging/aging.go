// Package aging classifies financial exposure by how far past its credit
// window it has drifted.
//
// Receivables and payables age differently in this system and the
// difference is deliberate: the receivables screen has always assumed a
// flat 30-day term no matter what the sale actually carries, while the
// payables screen measures from the real resolved due date. The two
// policies are kept as separate named types so neither behavior can drift
// while the divergence is pending review with finance stakeholders.
package aging

import (
	"time"

	"github.com/meridian-erp/meridian-erp/internal/finance/terms"
)

// Bucket is the three-way aging classification of an exposure item.
type Bucket string

const (
	BucketOverdue Bucket = "overdue"
	BucketDueSoon Bucket = "due_soon"
	BucketCurrent Bucket = "current"
)

// Classification is the result of aging a single item.
type Classification struct {
	DaysOverdue int
	Bucket      Bucket
}

// Policy ages one item relative to a reference date. Implementations are
// pure: no clock reads, no panics.
type Policy interface {
	Classify(origin, due, today time.Time) Classification
}

// FlatTermPolicy ignores the resolved due date and assumes a fixed credit
// window counted from the origin date.
type FlatTermPolicy struct {
	// AssumedCreditDays defaults to terms.DefaultCreditDays when zero.
	AssumedCreditDays int
}

// Classify ages an item as if it carried the assumed flat term.
func (p FlatTermPolicy) Classify(origin, _, today time.Time) Classification {
	credit := p.AssumedCreditDays
	if credit <= 0 {
		credit = terms.DefaultCreditDays
	}
	overdue := daysBetween(origin, today) - credit
	if overdue < 0 {
		overdue = 0
	}
	return Classification{DaysOverdue: overdue, Bucket: bucketFor(overdue, origin, today)}
}

// ResolvedTermPolicy measures days overdue from the actual due date.
type ResolvedTermPolicy struct{}

// Classify ages an item against its resolved due date.
func (ResolvedTermPolicy) Classify(origin, due, today time.Time) Classification {
	overdue := daysBetween(due, today)
	if overdue < 0 {
		overdue = 0
	}
	return Classification{DaysOverdue: overdue, Bucket: bucketFor(overdue, origin, today)}
}

// Classify ages an item under the default flat 30-day assumption.
func Classify(origin, today time.Time) Classification {
	return FlatTermPolicy{}.Classify(origin, time.Time{}, today)
}

// bucketFor places an item: overdue once any day has been missed, due_soon
// while the item sits inside its term window, current only for documents
// dated in the future.
func bucketFor(daysOverdue int, origin, today time.Time) Bucket {
	switch {
	case daysOverdue > 0:
		return BucketOverdue
	case !today.Before(origin):
		return BucketDueSoon
	default:
		return BucketCurrent
	}
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// Package aging classifies ledger records into time-since-due buckets and
// aggregates them into per-group and portfolio reports.
package aging

import (
	"fmt"
	"time"

	"github.com/JeanZorzetti/orion-analytics/internal/model"
)

// DaysPastDue returns the number of whole calendar days between the due
// date and the reference date. Time-of-day is stripped from both sides
// before subtracting so partial days never shift a record across a bucket
// boundary. Negative means not yet due.
func DaysPastDue(due, reference time.Time) int {
	d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	r := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)
	return int(r.Sub(d) / (24 * time.Hour))
}

// ClassifyBucket places a due date into exactly one of the six aging
// buckets relative to the reference date. A zero date is an error, never
// defaulted: silently treating a missing due date as "today" would corrupt
// bucket assignment.
func ClassifyBucket(due, reference time.Time) (model.Bucket, error) {
	if due.IsZero() {
		return 0, fmt.Errorf("classify bucket: %w", model.ErrMissingDate)
	}
	if reference.IsZero() {
		return 0, fmt.Errorf("classify bucket: reference date is zero: %w", model.ErrMissingDate)
	}

	days := DaysPastDue(due, reference)
	switch {
	case days < 0:
		return model.BucketNotYetDue, nil
	case days == 0:
		return model.BucketDueToday, nil
	case days <= 7:
		return model.BucketOverdue1To7, nil
	case days <= 15:
		return model.BucketOverdue8To15, nil
	case days <= 30:
		return model.BucketOverdue16To30, nil
	default:
		return model.BucketOverdue30Plus, nil
	}
}

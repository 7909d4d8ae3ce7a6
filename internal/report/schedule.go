package report

import "time"

// revisionOffsets lists the date-tracked disciplines and their follow-up
// offsets in whole calendar days from report creation. Ordered by id so that
// equal due dates resolve to the lowest discipline.
var revisionOffsets = []struct {
	id   string
	days int
}{
	{D3, 1},
	{D6, 7},
	{D8, 30},
}

// NextRevision computes the next date the report must be revisited: the
// earliest due date among incomplete date-tracked disciplines, or nil when
// nothing is pending. A completed discipline never contributes, even when
// its due date is already past. The function is pure; callers store the
// result into NextRevisionDate on every save.
func NextRevision(r Report) *time.Time {
	if r.CreatedAt.IsZero() {
		return nil
	}
	var next *time.Time
	for _, off := range revisionOffsets {
		d := r.Discipline(off.id)
		if d == nil || d.Completed {
			continue
		}
		due := addDays(r.CreatedAt, off.days)
		if next == nil || due.Before(*next) {
			next = &due
		}
	}
	return next
}

// addDays advances the day-of-month field and lets time.Date normalize the
// rollover. Unlike adding a 24h multiple this keeps the wall-clock time
// stable across daylight-saving transitions.
func addDays(t time.Time, days int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+days,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

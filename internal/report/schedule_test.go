package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportCreatedAt(t *testing.T, created time.Time) Report {
	t.Helper()
	r := New()
	r.CreatedAt = created
	return r
}

func TestNextRevisionAllTrackedCompleted(t *testing.T) {
	r := reportCreatedAt(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	for _, id := range []string{D3, D6, D8} {
		require.True(t, r.SetCompleted(id, true))
	}
	assert.Nil(t, NextRevision(r))
}

func TestNextRevisionOnlyD3Incomplete(t *testing.T) {
	created := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	r := reportCreatedAt(t, created)
	r.SetCompleted(D6, true)
	r.SetCompleted(D8, true)

	due := NextRevision(r)
	require.NotNil(t, due)
	assert.Equal(t, created.AddDate(0, 0, 1), *due)
}

func TestNextRevisionEarliestWins(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := reportCreatedAt(t, created)
	// D3 and D6 both incomplete: the one-day offset must win.
	r.SetCompleted(D8, true)

	due := NextRevision(r)
	require.NotNil(t, due)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), *due)
}

func TestNextRevisionD3CompletedLeavesD6(t *testing.T) {
	r := reportCreatedAt(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	r.SetCompleted(D3, true)

	due := NextRevision(r)
	require.NotNil(t, due)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), *due)
}

func TestNextRevisionOnlyD8Incomplete(t *testing.T) {
	r := reportCreatedAt(t, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	r.SetCompleted(D3, true)
	r.SetCompleted(D6, true)

	due := NextRevision(r)
	require.NotNil(t, due)
	assert.Equal(t, time.Date(2024, 2, 14, 12, 0, 0, 0, time.UTC), *due)
}

func TestNextRevisionZeroCreatedAt(t *testing.T) {
	r := New()
	r.CreatedAt = time.Time{}
	assert.Nil(t, NextRevision(r))
}

func TestNextRevisionIdempotent(t *testing.T) {
	r := reportCreatedAt(t, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	first := NextRevision(r)
	second := NextRevision(r)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.True(t, first.Equal(*second))
}

func TestNextRevisionOtherDisciplinesNeverContribute(t *testing.T) {
	r := reportCreatedAt(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	r.SetCompleted(D3, true)
	r.SetCompleted(D6, true)
	r.SetCompleted(D8, true)
	// Everything else stays incomplete and must not produce a date.
	assert.Nil(t, NextRevision(r))
}

func TestNextRevisionMonthRollover(t *testing.T) {
	r := reportCreatedAt(t, time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC))
	r.SetCompleted(D6, true)
	r.SetCompleted(D8, true)

	due := NextRevision(r)
	require.NotNil(t, due)
	assert.Equal(t, time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC), *due)
}

func TestNextRevisionAcrossDaylightSaving(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// DST starts 2024-03-31 in Berlin; the wall-clock time must survive it.
	r := reportCreatedAt(t, time.Date(2024, 3, 30, 9, 0, 0, 0, berlin))
	r.SetCompleted(D6, true)
	r.SetCompleted(D8, true)

	due := NextRevision(r)
	require.NotNil(t, due)
	assert.Equal(t, 9, due.Hour())
	assert.Equal(t, 31, due.Day())
}

func TestNextRevisionMissingTrackedDiscipline(t *testing.T) {
	r := reportCreatedAt(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	r.SetCompleted(D3, true)
	r.SetCompleted(D8, true)
	// Drop D6 entirely: a tracked discipline that is absent contributes
	// nothing rather than crashing.
	kept := r.Disciplines[:0]
	for _, d := range r.Disciplines {
		if d.ID != D6 {
			kept = append(kept, d)
		}
	}
	r.Disciplines = kept
	assert.Nil(t, NextRevision(r))
}

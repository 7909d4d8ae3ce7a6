package collection

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/report"
	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/store"
)

// fakeStore records saves and can be told to fail.
type fakeStore struct {
	saved   [][]report.Report
	initial []report.Report
	saveErr error
}

func (f *fakeStore) Load(string) ([]report.Report, error) { return f.initial, nil }
func (f *fakeStore) Save(_ string, reports []report.Report) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	out := make([]report.Report, len(reports))
	copy(out, reports)
	f.saved = append(f.saved, out)
	return nil
}
func (f *fakeStore) Close() error { return nil }

var _ store.Store = (*fakeStore)(nil)

func newManager(t *testing.T, st store.Store) *Manager {
	t.Helper()
	m, err := NewManager(st, nil)
	require.NoError(t, err)
	return m
}

func reportAt(created time.Time) report.Report {
	r := report.New()
	r.CreatedAt = created
	return r
}

func TestUpsertAppendsAndReplaces(t *testing.T) {
	st := &fakeStore{}
	m := newManager(t, st)

	a := report.New()
	b := report.New()
	require.NoError(t, m.Upsert(a))
	require.NoError(t, m.Upsert(b))
	assert.Equal(t, 2, m.Len())

	a.Title = "updated"
	require.NoError(t, m.Upsert(a))
	assert.Equal(t, 2, m.Len())

	got, err := m.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Title)

	// Replacement keeps the stored position.
	last := st.saved[len(st.saved)-1]
	require.Len(t, last, 2)
	assert.Equal(t, a.ID, last[0].ID)
	assert.Equal(t, b.ID, last[1].ID)
}

func TestUpsertRefreshesRevisionDate(t *testing.T) {
	st := &fakeStore{}
	m := newManager(t, st)

	r := reportAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	bogus := time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC)
	r.NextRevisionDate = &bogus

	require.NoError(t, m.Upsert(r))
	got, err := m.Get(r.ID)
	require.NoError(t, err)
	require.NotNil(t, got.NextRevisionDate)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), *got.NextRevisionDate)
}

func TestUpsertPersistsEveryMutation(t *testing.T) {
	st := &fakeStore{}
	m := newManager(t, st)

	r := report.New()
	require.NoError(t, m.Upsert(r))
	r.Title = "second pass"
	require.NoError(t, m.Upsert(r))
	assert.Len(t, st.saved, 2)
}

func TestDeleteUnknownIDIsNoOp(t *testing.T) {
	st := &fakeStore{}
	m := newManager(t, st)
	for range 3 {
		require.NoError(t, m.Upsert(report.New()))
	}
	writes := len(st.saved)

	require.NoError(t, m.Delete("no-such-id"))
	assert.Equal(t, 3, m.Len())
	assert.Len(t, st.saved, writes)
}

func TestDeleteRemovesAndPersists(t *testing.T) {
	st := &fakeStore{}
	m := newManager(t, st)
	r := report.New()
	require.NoError(t, m.Upsert(r))

	require.NoError(t, m.Delete(r.ID))
	assert.Equal(t, 0, m.Len())
	_, err := m.Get(r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	st := &fakeStore{saveErr: errors.New("disk full")}
	m := newManager(t, st)

	r := report.New()
	r.Title = "must survive"
	err := m.Upsert(r)
	require.Error(t, err)

	got, getErr := m.Get(r.ID)
	require.NoError(t, getErr)
	assert.Equal(t, "must survive", got.Title)
}

func TestListAllOrder(t *testing.T) {
	st := &fakeStore{}
	m := newManager(t, st)

	// Incomplete D3 → due tomorrow; everything completed → no date.
	soon := reportAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	later := reportAt(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	done := reportAt(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	for _, id := range []string{report.D3, report.D6, report.D8} {
		done.SetCompleted(id, true)
	}
	require.NoError(t, m.Upsert(done))
	require.NoError(t, m.Upsert(later))
	require.NoError(t, m.Upsert(soon))

	got := m.ListAll()
	require.Len(t, got, 3)
	assert.Equal(t, soon.ID, got[0].ID)
	assert.Equal(t, later.ID, got[1].ID)
	assert.Equal(t, done.ID, got[2].ID)
	assert.Nil(t, got[2].NextRevisionDate)
}

func TestNewManagerLoadsExisting(t *testing.T) {
	seeded := report.New()
	seeded.Title = "from disk"
	st := &fakeStore{initial: []report.Report{seeded}}

	m := newManager(t, st)
	assert.Equal(t, 1, m.Len())
	got, err := m.Get(seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "from disk", got.Title)
}

// internal/report/report.go
//
// Core data shapes for 8D problem-solving reports: the report itself, its
// nine disciplines, and inline file attachments. A report always carries the
// nine canonical disciplines in fixed order; disciplines are never added or
// removed, only their content and completion flags change.

package report

import (
	"time"

	"github.com/google/uuid"
)

// FileAttachment is a user-supplied file stored inline with the report.
// Content holds the raw bytes base64-encoded. Attachments are immutable once
// created; they are replaced wholesale, never patched.
type FileAttachment struct {
	Name     string
	MimeType string
	Content  string
}

// Discipline is one fixed section of an 8D report. ID, Title, and
// Description come from the canonical catalog and are not user-editable;
// only Content and Completed change.
type Discipline struct {
	ID          string
	Title       string
	Description string
	Content     string
	Completed   bool
}

// Report is one 8D problem-solving report. CreatedAt is set once at creation
// and never changes. NextRevisionDate is derived from the disciplines'
// completion state (see NextRevision) and is refreshed on every save rather
// than edited directly.
type Report struct {
	ID               string
	Title            string
	CreatedAt        time.Time
	OKSample         *FileAttachment
	NOKSample        *FileAttachment
	Evidences        []FileAttachment
	Disciplines      []Discipline
	NextRevisionDate *time.Time
}

// New creates an empty report: fresh id, creation time now, the canonical
// discipline set with nothing filled in, and no revision date yet.
func New() Report {
	return Report{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now(),
		Disciplines: Disciplines(),
	}
}

// Clone returns a deep copy of the report. Mutating the copy never touches
// the original's disciplines, evidences, or samples.
func (r Report) Clone() Report {
	out := r
	out.Disciplines = make([]Discipline, len(r.Disciplines))
	copy(out.Disciplines, r.Disciplines)
	if len(r.Evidences) > 0 {
		out.Evidences = make([]FileAttachment, len(r.Evidences))
		copy(out.Evidences, r.Evidences)
	}
	if r.OKSample != nil {
		ok := *r.OKSample
		out.OKSample = &ok
	}
	if r.NOKSample != nil {
		nok := *r.NOKSample
		out.NOKSample = &nok
	}
	if r.NextRevisionDate != nil {
		due := *r.NextRevisionDate
		out.NextRevisionDate = &due
	}
	return out
}

// Discipline returns a pointer to the discipline with the given id, or nil
// when the report does not carry it.
func (r *Report) Discipline(id string) *Discipline {
	for i := range r.Disciplines {
		if r.Disciplines[i].ID == id {
			return &r.Disciplines[i]
		}
	}
	return nil
}

// SetContent replaces one discipline's content in place, leaving the other
// disciplines untouched. Returns false when the id is unknown.
func (r *Report) SetContent(id, content string) bool {
	d := r.Discipline(id)
	if d == nil {
		return false
	}
	d.Content = content
	return true
}

// SetCompleted flips one discipline's completion flag in place. Completing a
// discipline does not clear its content.
func (r *Report) SetCompleted(id string, completed bool) bool {
	d := r.Discipline(id)
	if d == nil {
		return false
	}
	d.Completed = completed
	return true
}

// AddEvidence appends a new empty evidence slot and returns its index.
func (r *Report) AddEvidence() int {
	r.Evidences = append(r.Evidences, FileAttachment{})
	return len(r.Evidences) - 1
}

// SetEvidence replaces the evidence at the given position wholesale.
// Out-of-range positions are ignored.
func (r *Report) SetEvidence(i int, f FileAttachment) {
	if i < 0 || i >= len(r.Evidences) {
		return
	}
	r.Evidences[i] = f
}

// RemoveEvidence deletes the evidence at the given position, shifting
// subsequent entries down. Out-of-range positions are ignored.
func (r *Report) RemoveEvidence(i int) {
	if i < 0 || i >= len(r.Evidences) {
		return
	}
	r.Evidences = append(r.Evidences[:i], r.Evidences[i+1:]...)
}

package store

import (
	"encoding/json"
	"time"

	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/report"
)

// Wire layout of the persisted collection. Field names match the JSON the
// application has always written, so existing payloads keep loading.

type storedAttachment struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Content  string `json:"content"`
}

type storedDiscipline struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Completed   bool   `json:"completed"`
}

type storedReport struct {
	ID               string             `json:"id"`
	Title            string             `json:"title"`
	CreatedAt        string             `json:"createdAt"`
	OKSample         *storedAttachment  `json:"okSample,omitempty"`
	NOKSample        *storedAttachment  `json:"nokSample,omitempty"`
	Evidences        []storedAttachment `json:"evidences"`
	Disciplines      []storedDiscipline `json:"disciplines"`
	NextRevisionDate *string            `json:"nextRevisionDate"`
}

func encode(reports []report.Report) ([]byte, error) {
	out := make([]storedReport, 0, len(reports))
	for _, r := range reports {
		out = append(out, toStored(r))
	}
	return json.Marshal(out)
}

func decode(data []byte) ([]report.Report, error) {
	var stored []storedReport
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	out := make([]report.Report, 0, len(stored))
	for _, s := range stored {
		out = append(out, fromStored(s))
	}
	return out, nil
}

func toStored(r report.Report) storedReport {
	s := storedReport{
		ID:          r.ID,
		Title:       r.Title,
		Evidences:   make([]storedAttachment, 0, len(r.Evidences)),
		Disciplines: make([]storedDiscipline, 0, len(r.Disciplines)),
	}
	if !r.CreatedAt.IsZero() {
		s.CreatedAt = r.CreatedAt.Format(time.RFC3339Nano)
	}
	if r.NextRevisionDate != nil {
		due := r.NextRevisionDate.Format(time.RFC3339Nano)
		s.NextRevisionDate = &due
	}
	s.OKSample = attachmentToStored(r.OKSample)
	s.NOKSample = attachmentToStored(r.NOKSample)
	for _, e := range r.Evidences {
		s.Evidences = append(s.Evidences, storedAttachment(e))
	}
	for _, d := range r.Disciplines {
		s.Disciplines = append(s.Disciplines, storedDiscipline(d))
	}
	return s
}

func fromStored(s storedReport) report.Report {
	r := report.Report{
		ID:        s.ID,
		Title:     s.Title,
		CreatedAt: parseTime(s.CreatedAt),
	}
	if s.NextRevisionDate != nil {
		if due := parseTime(*s.NextRevisionDate); !due.IsZero() {
			r.NextRevisionDate = &due
		}
	}
	r.OKSample = attachmentFromStored(s.OKSample)
	r.NOKSample = attachmentFromStored(s.NOKSample)
	if len(s.Evidences) > 0 {
		r.Evidences = make([]report.FileAttachment, 0, len(s.Evidences))
		for _, e := range s.Evidences {
			r.Evidences = append(r.Evidences, report.FileAttachment(e))
		}
	}
	r.Disciplines = make([]report.Discipline, 0, len(s.Disciplines))
	for _, d := range s.Disciplines {
		r.Disciplines = append(r.Disciplines, report.Discipline(d))
	}
	return r
}

func attachmentToStored(f *report.FileAttachment) *storedAttachment {
	if f == nil {
		return nil
	}
	out := storedAttachment(*f)
	return &out
}

func attachmentFromStored(s *storedAttachment) *report.FileAttachment {
	if s == nil {
		return nil
	}
	out := report.FileAttachment(*s)
	return &out
}

// parseTime reads an RFC3339 timestamp, returning the zero time for empty or
// unparsable input. A report with an unreadable creation time stays loadable;
// the scheduler simply yields no revision date for it.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

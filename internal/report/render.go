package report

import (
	"fmt"
	"strings"
	"time"
)

// RenderText produces a plain-text rendering of the report, used by the
// export command as the terminal stand-in for the printable view.
func RenderText(r Report) string {
	var b strings.Builder

	title := r.Title
	if title == "" {
		title = "(untitled report)"
	}
	fmt.Fprintf(&b, "8D REPORT: %s\n", title)
	fmt.Fprintf(&b, "Created:       %s\n", formatDate(r.CreatedAt))
	if r.NextRevisionDate != nil {
		fmt.Fprintf(&b, "Next revision: %s\n", formatDate(*r.NextRevisionDate))
	} else {
		b.WriteString("Next revision: none pending\n")
	}
	b.WriteString(strings.Repeat("=", 60) + "\n")

	if r.OKSample != nil || r.NOKSample != nil {
		b.WriteString("\nProblem Samples (D2)\n")
		if r.OKSample != nil {
			fmt.Fprintf(&b, "  OK sample:  %s (%s)\n", r.OKSample.Name, r.OKSample.MimeType)
		}
		if r.NOKSample != nil {
			fmt.Fprintf(&b, "  NOK sample: %s (%s)\n", r.NOKSample.Name, r.NOKSample.MimeType)
		}
	}

	for _, d := range r.Disciplines {
		mark := "[ ]"
		if d.Completed {
			mark = "[x]"
		}
		fmt.Fprintf(&b, "\n%s %s\n", mark, d.Title)
		if d.Content != "" {
			for _, line := range strings.Split(d.Content, "\n") {
				b.WriteString("    " + line + "\n")
			}
		}
	}

	if len(r.Evidences) > 0 {
		b.WriteString("\nEvidence Files\n")
		for i, e := range r.Evidences {
			name := e.Name
			if name == "" {
				name = "(empty slot)"
			}
			fmt.Fprintf(&b, "  %d. %s\n", i+1, name)
		}
	}
	return b.String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format("Mon, 02 Jan 2006")
}

// internal/assist/assist.go
//
// Authoring assistance for discipline sections. A Generator turns the
// report/discipline context into a stream of text fragments the caller
// appends to the section as they arrive. The stream is cancellable through
// the context; a failure mid-stream leaves already-delivered fragments in
// place and is surfaced as the stream's final chunk.

package assist

import (
	"context"
	"fmt"
)

// Request carries everything the generator needs about the section being
// written.
type Request struct {
	ReportTitle           string
	DisciplineTitle       string
	DisciplineDescription string
	CurrentContent        string
}

// Chunk is one element of the generated stream: either a text fragment or a
// terminal error. The channel closes after the last chunk.
type Chunk struct {
	Text string
	Err  error
}

// Generator produces authoring guidance as an ordered fragment stream.
type Generator interface {
	Generate(ctx context.Context, req Request) (<-chan Chunk, error)
}

// Prompt renders the instruction sent to the model.
func Prompt(req Request) string {
	title := req.ReportTitle
	if title == "" {
		title = "Untitled Report"
	}
	content := req.CurrentContent
	if content == "" {
		content = "(empty)"
	}
	return fmt.Sprintf(`You are an expert in the 8D problem-solving methodology.
For a problem titled %q, provide guidance for the following discipline:

**Discipline:** %s
**Description:** %s

The user has already written:
---
%s
---

Based on this, generate a concise, actionable, and helpful text to continue or start writing this section.
If the current content is empty, generate a starting point. If there is existing content, improve or expand upon it.
Provide the response as clear, well-structured text. Use bullet points or numbered lists for clarity where appropriate.
Do not repeat the discipline title, description, or the user's existing text. Only provide the new content.`,
		title, req.DisciplineTitle, req.DisciplineDescription, content)
}

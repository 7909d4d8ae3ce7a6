package assist_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/assist"
	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/report"
	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/session"
)

// scriptedGenerator replays a fixed fragment sequence, optionally ending in
// an error, the way a real stream would.
type scriptedGenerator struct {
	fragments []string
	err       error
}

func (g *scriptedGenerator) Generate(ctx context.Context, _ assist.Request) (<-chan assist.Chunk, error) {
	out := make(chan assist.Chunk)
	go func() {
		defer close(out)
		for _, f := range g.fragments {
			select {
			case out <- assist.Chunk{Text: f}:
			case <-ctx.Done():
				return
			}
		}
		if g.err != nil {
			select {
			case out <- assist.Chunk{Err: g.err}:
			case <-ctx.Done():
			}
		}
	}()
	return out, nil
}

type discardCommitter struct{}

func (discardCommitter) Upsert(report.Report) error { return nil }

func TestPromptIncludesContext(t *testing.T) {
	p := assist.Prompt(assist.Request{
		ReportTitle:           "Leaking valve",
		DisciplineTitle:       "D3: Develop a Containment Plan",
		DisciplineDescription: "Define and implement containment actions.",
		CurrentContent:        "Quarantined lot 7.",
	})
	assert.Contains(t, p, `"Leaking valve"`)
	assert.Contains(t, p, "D3: Develop a Containment Plan")
	assert.Contains(t, p, "Quarantined lot 7.")
}

func TestPromptDefaults(t *testing.T) {
	p := assist.Prompt(assist.Request{})
	assert.Contains(t, p, "Untitled Report")
	assert.Contains(t, p, "(empty)")
}

func TestStreamAppendsIntoSession(t *testing.T) {
	gen := &scriptedGenerator{fragments: []string{"Contain the ", "affected batch."}}
	ctrl := session.New(discardCommitter{})
	defer ctrl.Close()

	chunks, err := gen.Generate(context.Background(), assist.Request{})
	require.NoError(t, err)
	for chunk := range chunks {
		require.NoError(t, chunk.Err)
		ctrl.AppendContent(report.D3, chunk.Text)
	}
	rep := ctrl.Report()
	assert.Equal(t, "Contain the affected batch.", rep.Discipline(report.D3).Content)
}

func TestStreamFailureKeepsAppliedFragments(t *testing.T) {
	gen := &scriptedGenerator{
		fragments: []string{"Partial guidance "},
		err:       errors.New("network failure"),
	}
	ctrl := session.New(discardCommitter{})
	defer ctrl.Close()

	chunks, err := gen.Generate(context.Background(), assist.Request{})
	require.NoError(t, err)

	var streamErr error
	for chunk := range chunks {
		if chunk.Err != nil {
			streamErr = chunk.Err
			continue
		}
		ctrl.AppendContent(report.D6, chunk.Text)
	}
	require.Error(t, streamErr)
	// Fragments applied before the failure stay applied.
	rep := ctrl.Report()
	assert.Equal(t, "Partial guidance ", rep.Discipline(report.D6).Content)
}

func TestStreamCancellation(t *testing.T) {
	gen := &scriptedGenerator{fragments: []string{"a", "b", "c", "d"}}
	ctx, cancel := context.WithCancel(context.Background())

	chunks, err := gen.Generate(ctx, assist.Request{})
	require.NoError(t, err)

	first := <-chunks
	require.NoError(t, first.Err)
	cancel()

	// The stream must terminate rather than leak; drain whatever is left.
	for range chunks {
	}
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := assist.NewGemini(context.Background(), "", "")
	assert.ErrorIs(t, err, assist.ErrNoAPIKey)
}

package assist

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when the configuration names none.
const DefaultModel = "gemini-2.5-flash"

// ErrNoAPIKey is returned when no Gemini credential is available.
var ErrNoAPIKey = errors.New("assist: API key is missing; set GEMINI_API_KEY")

// Gemini implements Generator on Google's Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini builds a Gemini-backed generator.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("assist: create client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Generate streams model output. Fragments are delivered in order on the
// returned channel; cancelling ctx abandons the underlying request.
func (g *Gemini) Generate(ctx context.Context, req Request) (<-chan Chunk, error) {
	contents := genai.Text(Prompt(req))
	out := make(chan Chunk)
	go func() {
		defer close(out)
		for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, contents, nil) {
			if err != nil {
				select {
				case out <- Chunk{Err: fmt.Errorf("assist: stream: %w", err)}:
				case <-ctx.Done():
				}
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			select {
			case out <- Chunk{Text: text}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lightningnetwork/lnd/fn/v2"
	"google.golang.org/api/option"
)

// GenerationOptions are the sampling parameters sent with a prompt.
type GenerationOptions struct {
	Temperature float32
	MaxTokens   int32
}

// TextGenerator is a single-shot text completion endpoint.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
}

type GeminiGenerator struct {
	client    *genai.Client
	modelName string
}

func NewGeminiGenerator(ctx context.Context, apiKey, modelName string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, modelName: modelName}, nil
}

func (g *GeminiGenerator) Close() {
	g.client.Close()
}

// Generate builds a model handle per call so concurrent callers can use
// different sampling settings.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(opts.Temperature)
	model.SetTopP(0.95)
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(opts.MaxTokens)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			log.Printf("WARNING: Gemini candidate %d stopped due to %s", i, cand.FinishReason)
		}
	}

	return extractText(resp), nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

// attempt runs one bounded provider call. Errors, deadline expiry and blank
// output all come back as a *ProviderError inside the Result.
func attempt(ctx context.Context, gen TextGenerator, op, prompt string, opts GenerationOptions) fn.Result[string] {
	text, err := gen.Generate(ctx, prompt, opts)
	switch {
	case ctx.Err() != nil:
		return fn.Err[string](&ProviderError{Op: op, Reason: "timed out", Err: ctx.Err()})
	case err != nil:
		return fn.Err[string](&ProviderError{Op: op, Reason: "request failed", Err: err})
	case strings.TrimSpace(text) == "":
		return fn.Err[string](&ProviderError{Op: op, Reason: "empty response"})
	}
	return fn.Ok[string](text)
}

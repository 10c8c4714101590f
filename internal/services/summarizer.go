package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"notenexus-backend/internal/models"
	"notenexus-backend/internal/ratelimit"
)

// SummaryResult is the summary text and which path produced it.
type SummaryResult struct {
	Text   string
	Source string
}

// Summarizer turns transcript text into prose. The provider is optional; when
// nil every call is served by BasicSummarization.
type Summarizer struct {
	gen     TextGenerator
	limiter *ratelimit.Window
	timeout time.Duration
}

func NewSummarizer(gen TextGenerator, limiter *ratelimit.Window, timeout time.Duration) *Summarizer {
	return &Summarizer{gen: gen, limiter: limiter, timeout: timeout}
}

// Summarize never degrades a rate-limit denial into the extractive path: the
// caller gets a *RateLimitError and may retry later. Every other provider
// failure is absorbed by BasicSummarization.
func (s *Summarizer) Summarize(ctx context.Context, text string) (SummaryResult, error) {
	if s.gen == nil {
		return SummaryResult{Text: BasicSummarization(text), Source: models.SourceExtractive}, nil
	}

	ok, wait := s.limiter.TryAcquire()
	if !ok {
		log.Printf("⚠ Summary rate limit reached, next slot in %s", wait)
		return SummaryResult{}, &RateLimitError{Message: rateLimitMessage, RetryAfter: wait}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	summary, err := attempt(callCtx, s.gen, "summarize", buildSummaryPrompt(text), GenerationOptions{
		Temperature: 0.3,
		MaxTokens:   1024,
	}).Unpack()
	if err != nil {
		log.Printf("✗ %v; falling back to extractive summary", err)
		return SummaryResult{Text: BasicSummarization(text), Source: models.SourceExtractive}, nil
	}

	return SummaryResult{Text: summary, Source: models.SourceAI}, nil
}

func buildSummaryPrompt(transcript string) string {
	return fmt.Sprintf(`Please provide a comprehensive summary of the following video transcript. Include:
1. The main topic and purpose
2. Key points and important details
3. Practical applications or examples
4. Recommendations or conclusions
5. The overall value proposition for the viewer

Write plain prose without markdown headings.

Transcript:
%s`, transcript)
}

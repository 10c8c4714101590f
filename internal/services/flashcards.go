package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"notenexus-backend/internal/models"
	"notenexus-backend/internal/ratelimit"
)

const maxFlashcards = 10

// FlashcardResult holds generated cards. Source is "ai" or "fallback".
type FlashcardResult struct {
	Cards  []models.Flashcard
	Source string
}

type FlashcardGenerator struct {
	gen     TextGenerator
	limiter *ratelimit.Window
	timeout time.Duration
}

func NewFlashcardGenerator(gen TextGenerator, limiter *ratelimit.Window, timeout time.Duration) *FlashcardGenerator {
	return &FlashcardGenerator{gen: gen, limiter: limiter, timeout: timeout}
}

// Generate always returns a usable card set. Any failure on the AI path,
// including a limiter denial, yields the two placeholder cards.
func (g *FlashcardGenerator) Generate(ctx context.Context, summary string) FlashcardResult {
	if g.gen == nil {
		return fallbackFlashcards()
	}
	if ok, _ := g.limiter.TryAcquire(); !ok {
		log.Println("⚠ Flashcard rate limit reached, using placeholder cards")
		return fallbackFlashcards()
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := attempt(callCtx, g.gen, "flashcards", buildFlashcardPrompt(summary), GenerationOptions{
		Temperature: 0.7,
		MaxTokens:   2048,
	}).Unpack()
	if err != nil {
		log.Printf("✗ %v; using placeholder cards", err)
		return fallbackFlashcards()
	}

	cards, err := parseFlashcards(raw)
	if err != nil {
		log.Printf("✗ flashcards: %v; using placeholder cards", err)
		return fallbackFlashcards()
	}
	return FlashcardResult{Cards: cards, Source: models.SourceAI}
}

type flashcardJSON struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

// parseFlashcards accepts a JSON array, fenced or bare. Cards missing a
// question or answer are dropped and the rest are capped at maxFlashcards.
func parseFlashcards(raw string) ([]models.Flashcard, error) {
	var items []flashcardJSON
	if err := decodeModelJSON(raw, &items, "[", "]"); err != nil {
		return nil, fmt.Errorf("malformed flashcard JSON: %w", err)
	}

	cards := make([]models.Flashcard, 0, len(items))
	for _, it := range items {
		q, a := strings.TrimSpace(it.Question), strings.TrimSpace(it.Answer)
		if q == "" || a == "" {
			continue
		}
		category := strings.TrimSpace(it.Category)
		if category == "" {
			category = models.DefaultFlashcardCategory
		}
		cards = append(cards, models.Flashcard{Question: q, Answer: a, Category: category})
		if len(cards) == maxFlashcards {
			break
		}
	}

	if len(cards) == 0 {
		return nil, fmt.Errorf("no usable flashcards in response")
	}
	return cards, nil
}

func fallbackFlashcards() FlashcardResult {
	return FlashcardResult{
		Cards: []models.Flashcard{
			{Question: "What is the main topic of the summary?", Answer: "Not specified", Category: models.DefaultFlashcardCategory},
			{Question: "What is a key point from the summary?", Answer: "Not specified", Category: models.DefaultFlashcardCategory},
		},
		Source: models.SourceFallback,
	}
}

func buildFlashcardPrompt(content string) string {
	return fmt.Sprintf(`Create between 5 and 10 flashcards based on this content. Each flashcard should:
1. Have a clear question that tests understanding of the content
2. Have a concise and accurate answer
3. Include a category that describes the topic area

Format your response exactly like this:
[
  {
    "question": "What is the main topic of the content?",
    "answer": "The answer to the question",
    "category": "Main Concepts"
  }
]

IMPORTANT: Return ONLY the JSON array. Do not include any additional text or markdown.

Content:
%s`, content)
}

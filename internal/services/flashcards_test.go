package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"notenexus-backend/internal/models"
)

func TestFlashcardGenerator_AIPath(t *testing.T) {
	gen := &stubGenerator{reply: "```json\n" + `[
		{"question": "What is an LRU cache?", "answer": "A cache evicting the least recently used entry.", "category": "Caching"},
		{"question": "Lookup cost?", "answer": "O(1)"},
		{"question": "", "answer": "dropped"}
	]` + "\n```"}
	limiter := testLimiter(5)

	got := NewFlashcardGenerator(gen, limiter, time.Second).Generate(context.Background(), "summary text")

	require.Equal(t, models.SourceAI, got.Source)
	require.Len(t, got.Cards, 2)
	require.Equal(t, "Caching", got.Cards[0].Category)
	require.Equal(t, models.DefaultFlashcardCategory, got.Cards[1].Category)
	require.Contains(t, gen.prompts[0], "summary text")
	require.Equal(t, 4, limiter.Remaining())
}

func TestFlashcardGenerator_CapsAtTen(t *testing.T) {
	var items []string
	for i := 0; i < 14; i++ {
		items = append(items, fmt.Sprintf(`{"question":"q%d","answer":"a%d","category":"c"}`, i, i))
	}
	gen := &stubGenerator{reply: "[" + strings.Join(items, ",") + "]"}

	got := NewFlashcardGenerator(gen, testLimiter(5), time.Second).Generate(context.Background(), "s")
	require.Len(t, got.Cards, maxFlashcards)
	require.Equal(t, "q9", got.Cards[9].Question)
}

func TestFlashcardGenerator_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		gen  *stubGenerator
	}{
		{name: "provider error", gen: failingGenerator()},
		{name: "not json", gen: &stubGenerator{reply: "I cannot help with that."}},
		{name: "empty array", gen: &stubGenerator{reply: "[]"}},
		{name: "object instead of array", gen: &stubGenerator{reply: `{"question":"x","answer":"y"}`}},
		{name: "blank response", gen: &stubGenerator{reply: "   "}},
		{name: "no provider", gen: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A nil *stubGenerator must not become a non-nil interface.
			var gen TextGenerator
			if tt.gen != nil {
				gen = tt.gen
			}
			got := NewFlashcardGenerator(gen, testLimiter(5), time.Second).Generate(context.Background(), "s")
			requireFallbackFlashcards(t, got)
		})
	}
}

func TestFlashcardGenerator_RateLimitedDegradesSilently(t *testing.T) {
	gen := &stubGenerator{reply: `[{"question":"q","answer":"a"}]`}

	got := NewFlashcardGenerator(gen, exhaustedLimiter(), time.Second).Generate(context.Background(), "s")

	requireFallbackFlashcards(t, got)
	require.Zero(t, gen.calls())
}

func TestFlashcardGenerator_Timeout(t *testing.T) {
	gen := &stubGenerator{reply: `[{"question":"q","answer":"a"}]`, delay: time.Second}

	got := NewFlashcardGenerator(gen, testLimiter(5), 20*time.Millisecond).Generate(context.Background(), "s")
	requireFallbackFlashcards(t, got)
}

func requireFallbackFlashcards(t *testing.T, got FlashcardResult) {
	t.Helper()
	require.Equal(t, models.SourceFallback, got.Source)
	require.Len(t, got.Cards, 2)
	for _, c := range got.Cards {
		require.NotEmpty(t, c.Question)
		require.Equal(t, "Not specified", c.Answer)
		require.Equal(t, models.DefaultFlashcardCategory, c.Category)
	}
}

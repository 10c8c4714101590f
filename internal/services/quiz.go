package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"notenexus-backend/internal/models"
	"notenexus-backend/internal/ratelimit"
)

const (
	maxQuizQuestions = 5
	quizOptionCount  = 4
)

// QuizResult holds a generated quiz. Source is "ai" or "fallback".
type QuizResult struct {
	Quiz   models.Quiz
	Source string
}

type QuizGenerator struct {
	gen     TextGenerator
	limiter *ratelimit.Window
	timeout time.Duration
}

func NewQuizGenerator(gen TextGenerator, limiter *ratelimit.Window, timeout time.Duration) *QuizGenerator {
	return &QuizGenerator{gen: gen, limiter: limiter, timeout: timeout}
}

// Generate always returns a quiz whose every question has its correct answer
// among its options. Failures on the AI path yield the placeholder quiz.
func (g *QuizGenerator) Generate(ctx context.Context, summary, title string) QuizResult {
	if g.gen == nil {
		return fallbackQuiz(title)
	}
	if ok, _ := g.limiter.TryAcquire(); !ok {
		log.Println("⚠ Quiz rate limit reached, using placeholder quiz")
		return fallbackQuiz(title)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := attempt(callCtx, g.gen, "quiz", buildQuizPrompt(summary, title), GenerationOptions{
		Temperature: 0.5,
		MaxTokens:   2048,
	}).Unpack()
	if err != nil {
		log.Printf("✗ %v; using placeholder quiz", err)
		return fallbackQuiz(title)
	}

	questions, err := parseQuizQuestions(raw)
	if err != nil {
		log.Printf("✗ quiz: %v; using placeholder quiz", err)
		return fallbackQuiz(title)
	}

	return QuizResult{
		Quiz: models.Quiz{
			Title:     "Quiz for: " + title,
			Questions: questions,
			Source:    models.SourceAI,
		},
		Source: models.SourceAI,
	}
}

// parseQuizQuestions accepts either a bare array of questions or an object
// with a "questions" field.
func parseQuizQuestions(raw string) ([]models.QuizQuestion, error) {
	text := stripCodeFences(raw)

	var questions []models.QuizQuestion
	if strings.HasPrefix(text, "{") {
		var wrapped struct {
			Questions []models.QuizQuestion `json:"questions"`
		}
		if err := json.Unmarshal([]byte(text), &wrapped); err != nil {
			return nil, fmt.Errorf("malformed quiz JSON: %w", err)
		}
		questions = wrapped.Questions
	} else if err := decodeModelJSON(text, &questions, "[", "]"); err != nil {
		return nil, fmt.Errorf("malformed quiz JSON: %w", err)
	}

	valid := validateQuizQuestions(questions)
	if len(valid) == 0 {
		return nil, fmt.Errorf("no valid questions in response")
	}
	return valid, nil
}

func validateQuizQuestions(questions []models.QuizQuestion) []models.QuizQuestion {
	var valid []models.QuizQuestion
	for _, q := range questions {
		q.Question = strings.TrimSpace(q.Question)
		if q.Question == "" || len(q.Options) != quizOptionCount {
			continue
		}
		if !containsOption(q.Options, q.CorrectAnswer) {
			continue
		}
		valid = append(valid, q)
		if len(valid) == maxQuizQuestions {
			break
		}
	}
	return valid
}

func containsOption(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}

func fallbackQuiz(title string) QuizResult {
	return QuizResult{
		Quiz: models.Quiz{
			Title: "Basic Quiz for: " + title,
			Questions: []models.QuizQuestion{
				{
					Question:      "What is the main topic of the summary?",
					Options:       []string{"Content Analysis", "Data Processing", "AI Capabilities", "Not Specified"},
					CorrectAnswer: "Not Specified",
					Explanation:   "This is a basic, fallback quiz. The AI-powered generation failed.",
				},
				{
					Question:      "Which of these is a placeholder question?",
					Options:       []string{"This one", "The first one", "All of them", "None of them"},
					CorrectAnswer: "All of them",
					Explanation:   "This quiz indicates a problem with the AI service.",
				},
			},
			Source: models.SourceFallback,
		},
		Source: models.SourceFallback,
	}
}

func buildQuizPrompt(summary, title string) string {
	return fmt.Sprintf(`Based on the following summary of the video "%s", generate a challenging quiz with 3 to 5 multiple-choice questions that test understanding of the key concepts, facts and nuances in the text.

For each question, provide:
1. A unique and insightful question.
2. An array of 4 distinct and plausible options. One option must be the correct answer.
3. The correct answer, which must exactly match one of the options.
4. A brief explanation for why the answer is correct, based on the text.

Return a single valid JSON array where each object has the structure:
{ "question": "...", "options": ["...", "...", "...", "..."], "correctAnswer": "...", "explanation": "..." }

Do not include any text, markdown, or formatting outside of the JSON array.

Summary: "%s"`, title, summary)
}

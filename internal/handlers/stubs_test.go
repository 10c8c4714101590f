package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"notenexus-backend/internal/middleware"
	"notenexus-backend/internal/models"
)

func newRequest(method, target, body string, userID uuid.UUID, params map[string]string) *http.Request {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
	return req
}

type stubStudy struct {
	summary  *models.Summary
	pack     *models.StudyPack
	cards    []models.Flashcard
	quiz     *models.Quiz
	created  bool
	err      error
	lastURL  string
	lastUser uuid.UUID
}

func (s *stubStudy) CreateSummary(ctx context.Context, userID uuid.UUID, rawURL string) (*models.Summary, error) {
	s.lastURL, s.lastUser = rawURL, userID
	return s.summary, s.err
}

func (s *stubStudy) BuildStudyPack(ctx context.Context, userID uuid.UUID, rawURL string) (*models.StudyPack, error) {
	s.lastURL, s.lastUser = rawURL, userID
	return s.pack, s.err
}

func (s *stubStudy) GenerateFlashcards(ctx context.Context, userID, summaryID uuid.UUID) ([]models.Flashcard, error) {
	s.lastUser = userID
	return s.cards, s.err
}

func (s *stubStudy) GenerateQuiz(ctx context.Context, userID, summaryID uuid.UUID) (*models.Quiz, bool, error) {
	s.lastUser = userID
	return s.quiz, s.created, s.err
}

type stubSummaryRepo struct {
	summary   *models.Summary
	deleted   bool
	deleteErr error
}

func (s *stubSummaryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Summary, error) {
	if s.summary == nil || s.summary.ID != id {
		return nil, pgx.ErrNoRows
	}
	return s.summary, nil
}

func (s *stubSummaryRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Summary, int, error) {
	if s.summary == nil || s.summary.UserID != userID {
		return []*models.Summary{}, 0, nil
	}
	return []*models.Summary{s.summary}, 1, nil
}

func (s *stubSummaryRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if s.summary == nil || s.summary.ID != id || s.summary.UserID != userID {
		return pgx.ErrNoRows
	}
	s.deleted = true
	return nil
}

type stubFlashcardRepo struct {
	cards []models.Flashcard
}

func (s *stubFlashcardRepo) ListBySummary(ctx context.Context, userID, summaryID uuid.UUID) ([]models.Flashcard, error) {
	var out []models.Flashcard
	for _, c := range s.cards {
		if c.UserID == userID && c.SummaryID == summaryID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubFlashcardRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	for i, c := range s.cards {
		if c.ID == id && c.UserID == userID {
			s.cards = append(s.cards[:i], s.cards[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (s *stubFlashcardRepo) DeleteBySummary(ctx context.Context, userID, summaryID uuid.UUID) (int64, error) {
	var kept []models.Flashcard
	var n int64
	for _, c := range s.cards {
		if c.UserID == userID && c.SummaryID == summaryID {
			n++
			continue
		}
		kept = append(kept, c)
	}
	s.cards = kept
	return n, nil
}

type stubQuizRepo struct {
	quiz *models.Quiz
}

func (s *stubQuizRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	if s.quiz == nil || s.quiz.ID != id {
		return nil, pgx.ErrNoRows
	}
	return s.quiz, nil
}

func (s *stubQuizRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Quiz, error) {
	if s.quiz == nil || s.quiz.UserID != userID {
		return []*models.Quiz{}, nil
	}
	return []*models.Quiz{s.quiz}, nil
}

func (s *stubQuizRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if s.quiz == nil || s.quiz.ID != id || s.quiz.UserID != userID {
		return pgx.ErrNoRows
	}
	s.quiz = nil
	return nil
}

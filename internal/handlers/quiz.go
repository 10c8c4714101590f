package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"notenexus-backend/internal/middleware"
	"notenexus-backend/internal/models"
)

type quizPipeline interface {
	GenerateQuiz(ctx context.Context, userID, summaryID uuid.UUID) (*models.Quiz, bool, error)
}

type quizRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Quiz, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type QuizHandler struct {
	study    quizPipeline
	quizRepo quizRepository
}

func NewQuizHandler(study quizPipeline, quizRepo quizRepository) *QuizHandler {
	return &QuizHandler{study: study, quizRepo: quizRepo}
}

// Generate answers 201 for a new quiz and 200 when the summary already had one.
func (h *QuizHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.SummaryID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "summary_id is required", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	quiz, created, err := h.study.GenerateQuiz(r.Context(), userID, req.SummaryID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, quiz)
}

func (h *QuizHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	quizzes, err := h.quizRepo.ListByUser(r.Context(), userID)
	if err != nil {
		log.Printf("failed to list quizzes for %s: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch quizzes", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"quizzes": quizzes})
}

func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "Invalid quiz ID")
	if !ok {
		return
	}

	quiz, ok := loadOwnedQuiz(w, r, h.quizRepo, id)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, quiz)
}

func (h *QuizHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "Invalid quiz ID")
	if !ok {
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.quizRepo.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz not found", r))
			return
		}
		log.Printf("failed to delete quiz %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete quiz", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Quiz deleted"})
}

func loadOwnedQuiz(w http.ResponseWriter, r *http.Request, repo quizRepository, id uuid.UUID) (*models.Quiz, bool) {
	quiz, err := repo.GetByID(r.Context(), id)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("failed to load quiz %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch quiz", r))
		return nil, false
	}
	if err != nil || quiz.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz not found", r))
		return nil, false
	}
	return quiz, true
}

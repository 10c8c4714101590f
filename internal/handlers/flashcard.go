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

type flashcardPipeline interface {
	GenerateFlashcards(ctx context.Context, userID, summaryID uuid.UUID) ([]models.Flashcard, error)
}

type flashcardRepository interface {
	ListBySummary(ctx context.Context, userID, summaryID uuid.UUID) ([]models.Flashcard, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	DeleteBySummary(ctx context.Context, userID, summaryID uuid.UUID) (int64, error)
}

type FlashcardHandler struct {
	study     flashcardPipeline
	flashRepo flashcardRepository
}

func NewFlashcardHandler(study flashcardPipeline, flashRepo flashcardRepository) *FlashcardHandler {
	return &FlashcardHandler{study: study, flashRepo: flashRepo}
}

func (h *FlashcardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateFlashcardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.SummaryID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "summary_id is required", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	cards, err := h.study.GenerateFlashcards(r.Context(), userID, req.SummaryID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"summary_id": req.SummaryID,
		"flashcards": cards,
	})
}

func (h *FlashcardHandler) ListBySummary(w http.ResponseWriter, r *http.Request) {
	summaryID, ok := uuidParam(w, r, "summaryId", "Invalid summary ID")
	if !ok {
		return
	}

	userID := middleware.GetUserID(r.Context())
	cards, err := h.flashRepo.ListBySummary(r.Context(), userID, summaryID)
	if err != nil {
		log.Printf("failed to list flashcards for summary %s: %v", summaryID, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch flashcards", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary_id": summaryID,
		"flashcards": cards,
	})
}

func (h *FlashcardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "Invalid flashcard ID")
	if !ok {
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.flashRepo.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard not found", r))
			return
		}
		log.Printf("failed to delete flashcard %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete flashcard", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Flashcard deleted"})
}

func (h *FlashcardHandler) DeleteBySummary(w http.ResponseWriter, r *http.Request) {
	summaryID, ok := uuidParam(w, r, "summaryId", "Invalid summary ID")
	if !ok {
		return
	}

	userID := middleware.GetUserID(r.Context())
	n, err := h.flashRepo.DeleteBySummary(r.Context(), userID, summaryID)
	if err != nil {
		log.Printf("failed to delete flashcards for summary %s: %v", summaryID, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete flashcards", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Flashcards deleted",
		"deleted": n,
	})
}

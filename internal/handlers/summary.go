package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"notenexus-backend/internal/middleware"
	"notenexus-backend/internal/models"
)

type studyPipeline interface {
	CreateSummary(ctx context.Context, userID uuid.UUID, rawURL string) (*models.Summary, error)
	BuildStudyPack(ctx context.Context, userID uuid.UUID, rawURL string) (*models.StudyPack, error)
}

type summaryRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Summary, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Summary, int, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type SummaryHandler struct {
	study       studyPipeline
	summaryRepo summaryRepository
}

func NewSummaryHandler(study studyPipeline, summaryRepo summaryRepository) *SummaryHandler {
	return &SummaryHandler{study: study, summaryRepo: summaryRepo}
}

func (h *SummaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	summary, err := h.study.CreateSummary(r.Context(), userID, req.YouTubeURL)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, summary)
}

// StudyPack runs the whole pipeline in one request: summary, then flashcards
// and quiz side by side.
func (h *SummaryHandler) StudyPack(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	pack, err := h.study.BuildStudyPack(r.Context(), userID, req.YouTubeURL)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, pack)
}

func (h *SummaryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	summaries, total, err := h.summaryRepo.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("failed to list summaries for %s: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch summaries", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summaries": summaries,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "Invalid summary ID")
	if !ok {
		return
	}

	summary, ok := loadOwnedSummary(w, r, h.summaryRepo, id)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *SummaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "Invalid summary ID")
	if !ok {
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.summaryRepo.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Summary not found", r))
			return
		}
		log.Printf("failed to delete summary %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete summary", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Summary deleted"})
}

func uuidParam(w http.ResponseWriter, r *http.Request, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", message, r))
		return uuid.Nil, false
	}
	return id, true
}

// loadOwnedSummary answers 404 for summaries owned by someone else so their
// existence is not revealed.
func loadOwnedSummary(w http.ResponseWriter, r *http.Request, repo summaryRepository, id uuid.UUID) (*models.Summary, bool) {
	summary, err := repo.GetByID(r.Context(), id)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("failed to load summary %s: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch summary", r))
			return nil, false
		}
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Summary not found", r))
		return nil, false
	}

	if summary.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Summary not found", r))
		return nil, false
	}
	return summary, true
}

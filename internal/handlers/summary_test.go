package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"notenexus-backend/internal/models"
	"notenexus-backend/internal/services"
)

func TestSummaryHandler_Create(t *testing.T) {
	userID := uuid.New()
	study := &stubStudy{summary: &models.Summary{ID: uuid.New(), UserID: userID, Title: "Lecture", Source: models.SourceAI}}
	h := NewSummaryHandler(study, &stubSummaryRepo{})

	rr := httptest.NewRecorder()
	h.Create(rr, newRequest(http.MethodPost, "/api/v1/summaries", `{"youtube_url":"https://youtu.be/dQw4w9WgXcQ"}`, userID, nil))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rr.Code)
	}
	if study.lastURL != "https://youtu.be/dQw4w9WgXcQ" || study.lastUser != userID {
		t.Fatalf("unexpected pipeline call: url=%q user=%s", study.lastURL, study.lastUser)
	}

	var got models.Summary
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Source != models.SourceAI {
		t.Fatalf("unexpected source %q", got.Source)
	}
}

func TestSummaryHandler_CreateErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     int
		code       string
		retryAfter string
	}{
		{"invalid url", fmt.Errorf("%w: invalid YouTube URL", services.ErrInvalidInput), http.StatusBadRequest, "INVALID_INPUT", ""},
		{"video not found", fmt.Errorf("%w: private", services.ErrVideoNotFound), http.StatusBadRequest, "VIDEO_NOT_FOUND", ""},
		{"no transcript", services.ErrNoTranscript, http.StatusUnprocessableEntity, "NO_TRANSCRIPT", ""},
		{"upstream", fmt.Errorf("video: %w", services.ErrUpstreamUnavailable), http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", ""},
		{"rate limited", &services.RateLimitError{Message: "slow down", RetryAfter: 1500 * time.Millisecond}, http.StatusTooManyRequests, "RATE_LIMITED", "2"},
		{"persistence", fmt.Errorf("%w: insert summary", services.ErrPersistence), http.StatusInternalServerError, "INTERNAL_ERROR", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewSummaryHandler(&stubStudy{err: tc.err}, &stubSummaryRepo{})
			rr := httptest.NewRecorder()
			h.Create(rr, newRequest(http.MethodPost, "/api/v1/summaries", `{"youtube_url":"x"}`, uuid.New(), nil))

			if rr.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rr.Code)
			}
			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Error.Code != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, resp.Error.Code)
			}
			if got := rr.Header().Get("Retry-After"); got != tc.retryAfter {
				t.Fatalf("expected Retry-After %q, got %q", tc.retryAfter, got)
			}
		})
	}
}

func TestSummaryHandler_CreateRejectsBadBody(t *testing.T) {
	study := &stubStudy{}
	h := NewSummaryHandler(study, &stubSummaryRepo{})

	rr := httptest.NewRecorder()
	h.Create(rr, newRequest(http.MethodPost, "/api/v1/summaries", `{not json`, uuid.New(), nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if study.lastURL != "" {
		t.Fatalf("pipeline should not run for a malformed body")
	}
}

func TestSummaryHandler_GetHidesOtherUsersSummaries(t *testing.T) {
	ownerID := uuid.New()
	summary := &models.Summary{ID: uuid.New(), UserID: ownerID}
	h := NewSummaryHandler(&stubStudy{}, &stubSummaryRepo{summary: summary})
	params := map[string]string{"id": summary.ID.String()}

	rr := httptest.NewRecorder()
	h.Get(rr, newRequest(http.MethodGet, "/api/v1/summaries/"+summary.ID.String(), "", uuid.New(), params))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d for non-owner, got %d", http.StatusNotFound, rr.Code)
	}

	rr = httptest.NewRecorder()
	h.Get(rr, newRequest(http.MethodGet, "/api/v1/summaries/"+summary.ID.String(), "", ownerID, params))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d for owner, got %d", http.StatusOK, rr.Code)
	}
}

func TestSummaryHandler_GetInvalidID(t *testing.T) {
	h := NewSummaryHandler(&stubStudy{}, &stubSummaryRepo{})

	rr := httptest.NewRecorder()
	h.Get(rr, newRequest(http.MethodGet, "/api/v1/summaries/nope", "", uuid.New(), map[string]string{"id": "nope"}))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestSummaryHandler_Delete(t *testing.T) {
	ownerID := uuid.New()
	summary := &models.Summary{ID: uuid.New(), UserID: ownerID}
	repo := &stubSummaryRepo{summary: summary}
	h := NewSummaryHandler(&stubStudy{}, repo)
	params := map[string]string{"id": summary.ID.String()}

	rr := httptest.NewRecorder()
	h.Delete(rr, newRequest(http.MethodDelete, "/", "", uuid.New(), params))
	if rr.Code != http.StatusNotFound || repo.deleted {
		t.Fatalf("non-owner delete: status %d deleted=%v", rr.Code, repo.deleted)
	}

	rr = httptest.NewRecorder()
	h.Delete(rr, newRequest(http.MethodDelete, "/", "", ownerID, params))
	if rr.Code != http.StatusOK || !repo.deleted {
		t.Fatalf("owner delete: status %d deleted=%v", rr.Code, repo.deleted)
	}
}

func TestSummaryHandler_ListClampsLimit(t *testing.T) {
	userID := uuid.New()
	repo := &stubSummaryRepo{summary: &models.Summary{ID: uuid.New(), UserID: userID}}
	h := NewSummaryHandler(&stubStudy{}, repo)

	rr := httptest.NewRecorder()
	h.List(rr, newRequest(http.MethodGet, "/api/v1/summaries?limit=500&offset=-3", "", userID, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var payload struct {
		Total  int `json:"total"`
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Total != 1 || payload.Limit != 20 || payload.Offset != 0 {
		t.Fatalf("unexpected page: %+v", payload)
	}
}

func TestSummaryHandler_StudyPack(t *testing.T) {
	userID := uuid.New()
	summaryID := uuid.New()
	study := &stubStudy{pack: &models.StudyPack{
		Summary:    &models.Summary{ID: summaryID, UserID: userID},
		Flashcards: []models.Flashcard{{Question: "Q", Answer: "A"}},
		Quiz:       &models.Quiz{SummaryID: summaryID, Source: models.SourceFallback},
	}}
	h := NewSummaryHandler(study, &stubSummaryRepo{})

	rr := httptest.NewRecorder()
	h.StudyPack(rr, newRequest(http.MethodPost, "/api/v1/summaries/study-pack", `{"youtube_url":"https://youtu.be/dQw4w9WgXcQ"}`, userID, nil))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rr.Code)
	}
}

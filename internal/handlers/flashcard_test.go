package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"notenexus-backend/internal/models"
)

func TestFlashcardHandler_Generate(t *testing.T) {
	userID := uuid.New()
	study := &stubStudy{cards: []models.Flashcard{{Question: "Q1", Answer: "A1", Category: models.DefaultFlashcardCategory}}}
	h := NewFlashcardHandler(study, &stubFlashcardRepo{})

	body := `{"summary_id":"` + uuid.NewString() + `"}`
	rr := httptest.NewRecorder()
	h.Generate(rr, newRequest(http.MethodPost, "/api/v1/flashcards/generate", body, userID, nil))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rr.Code)
	}
	if study.lastUser != userID {
		t.Fatalf("pipeline called for wrong user %s", study.lastUser)
	}

	var payload struct {
		Flashcards []models.Flashcard `json:"flashcards"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Flashcards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(payload.Flashcards))
	}
}

func TestFlashcardHandler_DeleteBySummary(t *testing.T) {
	userID := uuid.New()
	summaryID := uuid.New()
	repo := &stubFlashcardRepo{cards: []models.Flashcard{
		{ID: uuid.New(), UserID: userID, SummaryID: summaryID},
		{ID: uuid.New(), UserID: userID, SummaryID: summaryID},
		{ID: uuid.New(), UserID: uuid.New(), SummaryID: summaryID},
	}}
	h := NewFlashcardHandler(&stubStudy{}, repo)

	rr := httptest.NewRecorder()
	h.DeleteBySummary(rr, newRequest(http.MethodDelete, "/", "", userID, map[string]string{"summaryId": summaryID.String()}))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var payload struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Deleted != 2 || len(repo.cards) != 1 {
		t.Fatalf("deleted=%d remaining=%d", payload.Deleted, len(repo.cards))
	}
}

func TestFlashcardHandler_DeleteUnknownCard(t *testing.T) {
	h := NewFlashcardHandler(&stubStudy{}, &stubFlashcardRepo{})

	rr := httptest.NewRecorder()
	h.Delete(rr, newRequest(http.MethodDelete, "/", "", uuid.New(), map[string]string{"id": uuid.NewString()}))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

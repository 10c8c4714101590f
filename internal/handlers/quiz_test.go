package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"notenexus-backend/internal/models"
	"notenexus-backend/internal/services"
)

func TestQuizHandler_GenerateStatus(t *testing.T) {
	tests := []struct {
		name    string
		created bool
		status  int
	}{
		{"new quiz", true, http.StatusCreated},
		{"existing quiz", false, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			study := &stubStudy{quiz: &models.Quiz{ID: uuid.New()}, created: tc.created}
			h := NewQuizHandler(study, &stubQuizRepo{})

			body := `{"summary_id":"` + uuid.NewString() + `"}`
			rr := httptest.NewRecorder()
			h.Generate(rr, newRequest(http.MethodPost, "/api/v1/quizzes/generate", body, uuid.New(), nil))
			if rr.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rr.Code)
			}
		})
	}
}

func TestQuizHandler_GenerateRequiresSummaryID(t *testing.T) {
	h := NewQuizHandler(&stubStudy{}, &stubQuizRepo{})

	rr := httptest.NewRecorder()
	h.Generate(rr, newRequest(http.MethodPost, "/api/v1/quizzes/generate", `{}`, uuid.New(), nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestQuizHandler_GenerateUnknownSummary(t *testing.T) {
	study := &stubStudy{err: &services.NotFoundError{Message: "Summary not found"}}
	h := NewQuizHandler(study, &stubQuizRepo{})

	body := `{"summary_id":"` + uuid.NewString() + `"}`
	rr := httptest.NewRecorder()
	h.Generate(rr, newRequest(http.MethodPost, "/api/v1/quizzes/generate", body, uuid.New(), nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestQuizHandler_GetAndDeleteAreOwnerScoped(t *testing.T) {
	ownerID := uuid.New()
	quiz := &models.Quiz{ID: uuid.New(), UserID: ownerID, Title: "Quiz"}
	repo := &stubQuizRepo{quiz: quiz}
	h := NewQuizHandler(&stubStudy{}, repo)
	params := map[string]string{"id": quiz.ID.String()}

	rr := httptest.NewRecorder()
	h.Get(rr, newRequest(http.MethodGet, "/", "", uuid.New(), params))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d for non-owner, got %d", http.StatusNotFound, rr.Code)
	}

	rr = httptest.NewRecorder()
	h.Get(rr, newRequest(http.MethodGet, "/", "", ownerID, params))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d for owner, got %d", http.StatusOK, rr.Code)
	}

	rr = httptest.NewRecorder()
	h.Delete(rr, newRequest(http.MethodDelete, "/", "", ownerID, params))
	if rr.Code != http.StatusOK || repo.quiz != nil {
		t.Fatalf("owner delete: status %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.Delete(rr, newRequest(http.MethodDelete, "/", "", ownerID, params))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected %d, got %d", http.StatusNotFound, rr.Code)
	}
}

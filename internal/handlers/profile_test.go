package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"notenexus-backend/internal/models"
)

type stubUserRepo struct {
	user    *models.User
	stats   *models.UserStats
	updated bool
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, pgx.ErrNoRows
	}
	u := *s.user
	return &u, nil
}

func (s *stubUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	s.updated = true
	s.user = user
	return nil
}

func (s *stubUserRepo) GetStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	return s.stats, nil
}

func TestProfileHandler_Update(t *testing.T) {
	user := &models.User{ID: uuid.New(), Name: "Old", Email: "a@example.com"}
	repo := &stubUserRepo{user: user}
	h := NewProfileHandler(repo)

	rr := httptest.NewRecorder()
	h.Update(rr, newRequest(http.MethodPut, "/api/v1/profile", `{"name":"  New Name ","avatar_url":"https://cdn.example.com/a.png"}`, user.ID, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !repo.updated || repo.user.Name != "New Name" {
		t.Fatalf("profile not updated: %+v", repo.user)
	}
	if repo.user.AvatarURL == nil || *repo.user.AvatarURL != "https://cdn.example.com/a.png" {
		t.Fatalf("avatar not stored")
	}
}

func TestProfileHandler_UpdateValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"blank name", `{"name":"   "}`, "name"},
		{"bad avatar", `{"name":"Ok","avatar_url":"javascript:alert(1)"}`, "avatar_url"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			user := &models.User{ID: uuid.New(), Name: "Old"}
			repo := &stubUserRepo{user: user}
			h := NewProfileHandler(repo)

			rr := httptest.NewRecorder()
			h.Update(rr, newRequest(http.MethodPut, "/api/v1/profile", tc.body, user.ID, nil))
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
			}
			if repo.updated {
				t.Fatalf("invalid update should not be stored")
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if _, ok := resp.Error.Fields[tc.field]; !ok {
				t.Fatalf("expected field error for %q, got %v", tc.field, resp.Error.Fields)
			}
		})
	}
}

func TestProfileHandler_Stats(t *testing.T) {
	userID := uuid.New()
	h := NewProfileHandler(&stubUserRepo{stats: &models.UserStats{Summaries: 3, Flashcards: 20, Quizzes: 2}})

	rr := httptest.NewRecorder()
	h.Stats(rr, newRequest(http.MethodGet, "/api/v1/profile/stats", "", userID, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var stats models.UserStats
	if err := json.NewDecoder(rr.Body).Decode(&stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if stats.Summaries != 3 || stats.Flashcards != 20 || stats.Quizzes != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

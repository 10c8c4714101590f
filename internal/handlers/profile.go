package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"notenexus-backend/internal/middleware"
	"notenexus-backend/internal/models"
)

const maxNameLength = 100

type profileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	GetStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error)
}

type ProfileHandler struct {
	userRepo profileRepository
}

func NewProfileHandler(userRepo profileRepository) *ProfileHandler {
	return &ProfileHandler{userRepo: userRepo}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		fields["name"] = "Name is required"
	} else if utf8.RuneCountInString(name) > maxNameLength {
		fields["name"] = "Name is too long"
	}
	avatar := strings.TrimSpace(req.AvatarURL)
	if avatar != "" {
		if u, err := url.Parse(avatar); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			fields["avatar_url"] = "Avatar must be an http(s) URL"
		}
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	user.Name = name
	user.AvatarURL = nil
	if avatar != "" {
		user.AvatarURL = &avatar
	}

	if err := h.userRepo.UpdateProfile(r.Context(), user); err != nil {
		log.Printf("failed to update profile %s: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update profile", r))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	stats, err := h.userRepo.GetStats(r.Context(), userID)
	if err != nil {
		log.Printf("failed to load stats for %s: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch stats", r))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"mycabinet-backend/internal/middleware"
	"mycabinet-backend/internal/models"
)

type userStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
}

type ProfileHandler struct {
	userRepo userStore
}

func NewProfileHandler(userRepo userStore) *ProfileHandler {
	return &ProfileHandler{userRepo: userRepo}
}

func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.userRepo.GetByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) OnboardingStatus(w http.ResponseWriter, r *http.Request) {
	user, err := h.userRepo.GetByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	writeJSON(w, http.StatusOK, models.OnboardingStatus{
		OnboardingComplete: user.OnboardingComplete,
		NeedsProfileSetup:  !user.OnboardingComplete,
	})
}

// Setup completes initial profile setup during onboarding: sets the display
// name, optional avatar, and marks onboarding complete.
func (h *ProfileHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileSetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" || len(displayName) > 100 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Display name must be 1-100 characters", r))
		return
	}
	if req.AvatarURL != nil && len(*req.AvatarURL) > 500 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Avatar URL must be at most 500 characters", r))
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	user.DisplayName = &displayName
	if req.AvatarURL != nil && *req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}
	user.OnboardingComplete = true

	if err := h.userRepo.UpdateProfile(r.Context(), user); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update profile", r))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	if req.DisplayName != nil {
		trimmed := strings.TrimSpace(*req.DisplayName)
		if trimmed == "" || len(trimmed) > 100 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Display name must be 1-100 characters", r))
			return
		}
		user.DisplayName = &trimmed
	}
	if req.AvatarURL != nil {
		if len(*req.AvatarURL) > 500 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Avatar URL must be at most 500 characters", r))
			return
		}
		user.AvatarURL = req.AvatarURL
	}
	if req.FullName != nil {
		trimmed := strings.TrimSpace(*req.FullName)
		if len(trimmed) > 255 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Full name must be at most 255 characters", r))
			return
		}
		user.FullName = &trimmed
	}

	if err := h.userRepo.UpdateProfile(r.Context(), user); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update profile", r))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// SkipOnboarding marks onboarding complete without profile data.
func (h *ProfileHandler) SkipOnboarding(w http.ResponseWriter, r *http.Request) {
	user, err := h.userRepo.GetByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	user.OnboardingComplete = true
	if err := h.userRepo.UpdateProfile(r.Context(), user); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update profile", r))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

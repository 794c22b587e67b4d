package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"mycabinet-backend/internal/middleware"
	"mycabinet-backend/internal/models"
)

type stubUsers struct {
	user      *models.User
	getErr    error
	updateErr error
	updated   *models.User
}

func (s *stubUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.user, nil
}

func (s *stubUsers) UpdateProfile(ctx context.Context, user *models.User) error {
	s.updated = user
	return s.updateErr
}

func authedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	jsonBody, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	ctx := context.WithValue(req.Context(), middleware.UserIDKey, uuid.New())
	return req.WithContext(ctx)
}

func strPtr(s string) *string {
	return &s
}

func TestProfileSetup_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.ProfileSetupRequest
	}{
		{"empty display name", models.ProfileSetupRequest{DisplayName: "   "}},
		{"display name too long", models.ProfileSetupRequest{DisplayName: strings.Repeat("a", 101)}},
		{"avatar url too long", models.ProfileSetupRequest{
			DisplayName: "Alex",
			AvatarURL:   strPtr("https://cdn.example.com/" + strings.Repeat("a", 500)),
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &stubUsers{user: &models.User{ID: uuid.New()}}
			h := NewProfileHandler(store)

			rr := httptest.NewRecorder()
			h.Setup(rr, authedRequest(t, http.MethodPost, "/api/v1/profile/setup", tc.req))

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", rr.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("Expected VALIDATION_ERROR, got %q", resp.Error.Code)
			}
			if store.updated != nil {
				t.Error("Expected no profile update for an invalid request")
			}
		})
	}
}

func TestProfileSetup_CompletesOnboarding(t *testing.T) {
	store := &stubUsers{user: &models.User{ID: uuid.New()}}
	h := NewProfileHandler(store)

	rr := httptest.NewRecorder()
	h.Setup(rr, authedRequest(t, http.MethodPost, "/api/v1/profile/setup", models.ProfileSetupRequest{
		DisplayName: "  Alex  ",
		AvatarURL:   strPtr("https://cdn.example.com/avatar.png"),
	}))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if store.updated == nil {
		t.Fatal("Expected the profile to be persisted")
	}
	if store.updated.DisplayName == nil || *store.updated.DisplayName != "Alex" {
		t.Errorf("Expected trimmed display name %q, got %v", "Alex", store.updated.DisplayName)
	}
	if store.updated.AvatarURL == nil || *store.updated.AvatarURL != "https://cdn.example.com/avatar.png" {
		t.Errorf("Expected avatar URL to be saved, got %v", store.updated.AvatarURL)
	}
	if !store.updated.OnboardingComplete {
		t.Error("Expected onboarding to be marked complete")
	}
}

func TestProfileUpdate_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.ProfileUpdateRequest
	}{
		{"empty display name", models.ProfileUpdateRequest{DisplayName: strPtr("  ")}},
		{"display name too long", models.ProfileUpdateRequest{DisplayName: strPtr(strings.Repeat("a", 101))}},
		{"avatar url too long", models.ProfileUpdateRequest{AvatarURL: strPtr(strings.Repeat("a", 501))}},
		{"full name too long", models.ProfileUpdateRequest{FullName: strPtr(strings.Repeat("a", 256))}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &stubUsers{user: &models.User{ID: uuid.New()}}
			h := NewProfileHandler(store)

			rr := httptest.NewRecorder()
			h.UpdateMe(rr, authedRequest(t, http.MethodPatch, "/api/v1/profile/me", tc.req))

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", rr.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("Expected VALIDATION_ERROR, got %q", resp.Error.Code)
			}
			if store.updated != nil {
				t.Error("Expected no profile update for an invalid request")
			}
		})
	}
}

func TestProfileUpdate_PartialFields(t *testing.T) {
	existing := "Original"
	store := &stubUsers{user: &models.User{ID: uuid.New(), DisplayName: &existing}}
	h := NewProfileHandler(store)

	rr := httptest.NewRecorder()
	h.UpdateMe(rr, authedRequest(t, http.MethodPatch, "/api/v1/profile/me", models.ProfileUpdateRequest{
		FullName: strPtr("  Alex Doe  "),
	}))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if store.updated == nil {
		t.Fatal("Expected the profile to be persisted")
	}
	if store.updated.FullName == nil || *store.updated.FullName != "Alex Doe" {
		t.Errorf("Expected trimmed full name %q, got %v", "Alex Doe", store.updated.FullName)
	}
	if store.updated.DisplayName == nil || *store.updated.DisplayName != "Original" {
		t.Errorf("Expected display name to be untouched, got %v", store.updated.DisplayName)
	}
}

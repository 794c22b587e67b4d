package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"mycabinet-backend/internal/middleware"
	"mycabinet-backend/internal/models"
	"mycabinet-backend/internal/services"
)

type stubPantry struct {
	names []string
	err   error
}

func (s *stubPantry) ListIngredientNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.names, s.err
}

type stubResponder struct {
	reply   string
	err     error
	message string
	pantry  []string
	history []models.ChatMessage
}

func (s *stubResponder) Chat(ctx context.Context, userMessage string, pantry []string, history []models.ChatMessage) (string, error) {
	s.message = userMessage
	s.pantry = pantry
	s.history = history
	return s.reply, s.err
}

func chatRequest(t *testing.T, body interface{}) *http.Request {
	t.Helper()
	jsonBody, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant/chat", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	ctx := context.WithValue(req.Context(), middleware.UserIDKey, uuid.New())
	return req.WithContext(ctx)
}

func TestChat_EmptyMessage(t *testing.T) {
	// Validation is independent of pantry state and credential configuration:
	// even a failing pantry store never gets consulted.
	h := NewAssistantHandler(
		&stubPantry{err: fmt.Errorf("pantry should not be queried")},
		&stubResponder{reply: "should not be called"},
	)

	for _, message := range []string{"", "   "} {
		rr := httptest.NewRecorder()
		h.Chat(rr, chatRequest(t, models.ChatRequest{Message: message}))

		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for message %q, got %d", message, rr.Code)
		}

		var resp models.ErrorResponse
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}
		if resp.Error.Code != "VALIDATION_ERROR" {
			t.Errorf("Expected VALIDATION_ERROR, got %q", resp.Error.Code)
		}
	}
}

func TestChat_FallbackWhenNotConfigured(t *testing.T) {
	// End to end through the real assistant service with no API key: the
	// fallback ladder substitutes the rule-based reply and still succeeds.
	h := NewAssistantHandler(
		&stubPantry{names: []string{"gin", "tonic"}},
		services.NewAssistantService(""),
	)

	rr := httptest.NewRecorder()
	h.Chat(rr, chatRequest(t, models.ChatRequest{Message: "suggest something"}))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var resp models.ChatResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	expected := "I'd love to recommend a cocktail! What's your preference - " +
		"something sweet, sour, strong, or refreshing?"
	if resp.Message != expected {
		t.Errorf("Expected the recommend-branch fallback reply, got %q", resp.Message)
	}
	if !resp.Success {
		t.Error("Expected success to be true when the fallback reply is used")
	}
}

func TestChat_FallbackOnBackendError(t *testing.T) {
	h := NewAssistantHandler(
		&stubPantry{names: []string{"rum"}},
		&stubResponder{err: &services.AssistantError{Reason: services.ReasonBackend, Err: fmt.Errorf("network down")}},
	)

	rr := httptest.NewRecorder()
	h.Chat(rr, chatRequest(t, models.ChatRequest{Message: "hello"}))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var resp models.ChatResponse
	json.NewDecoder(rr.Body).Decode(&resp)

	if !strings.Contains(resp.Message, "Hello! I'm your cocktail assistant") {
		t.Errorf("Expected greeting fallback reply, got %q", resp.Message)
	}
	if !resp.Success {
		t.Error("Expected success to be true despite the backend error")
	}
}

func TestChat_PantryFailureIsAServerError(t *testing.T) {
	h := NewAssistantHandler(
		&stubPantry{err: fmt.Errorf("connection refused")},
		&stubResponder{reply: "should not be reached"},
	)

	rr := httptest.NewRecorder()
	h.Chat(rr, chatRequest(t, models.ChatRequest{Message: "hello"}))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", rr.Code)
	}

	var resp models.ErrorResponse
	json.NewDecoder(rr.Body).Decode(&resp)

	if resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("Expected INTERNAL_ERROR, got %q", resp.Error.Code)
	}
	if !strings.Contains(resp.Error.Message, "connection refused") {
		t.Errorf("Expected underlying error detail in message, got %q", resp.Error.Message)
	}
}

func TestChat_PassesContextToResponder(t *testing.T) {
	responder := &stubResponder{reply: "A Negroni would be perfect."}
	h := NewAssistantHandler(&stubPantry{names: []string{"gin", "campari", "vermouth"}}, responder)

	history := []models.ChatMessage{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	}

	rr := httptest.NewRecorder()
	h.Chat(rr, chatRequest(t, models.ChatRequest{
		Message:             "  what can I mix?  ",
		ConversationHistory: history,
	}))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	if responder.message != "what can I mix?" {
		t.Errorf("Expected trimmed message, got %q", responder.message)
	}
	if len(responder.pantry) != 3 || responder.pantry[0] != "gin" {
		t.Errorf("Expected pantry to be passed through, got %v", responder.pantry)
	}
	if len(responder.history) != 2 || responder.history[1].Role != "assistant" {
		t.Errorf("Expected history to be passed through in order, got %v", responder.history)
	}

	var resp models.ChatResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Message != "A Negroni would be perfect." {
		t.Errorf("Expected the responder's reply verbatim, got %q", resp.Message)
	}
}

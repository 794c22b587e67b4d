package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"mycabinet-backend/internal/middleware"
	"mycabinet-backend/internal/models"
	"mycabinet-backend/internal/services"
)

type pantryLister interface {
	ListIngredientNames(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type cocktailResponder interface {
	Chat(ctx context.Context, userMessage string, pantry []string, history []models.ChatMessage) (string, error)
}

type AssistantHandler struct {
	pantry    pantryLister
	assistant cocktailResponder
}

func NewAssistantHandler(pantry pantryLister, assistant cocktailResponder) *AssistantHandler {
	return &AssistantHandler{pantry: pantry, assistant: assistant}
}

// Chat produces one assistant reply per request. The AI path is fully
// isolated: if Gemini is unconfigured or fails, the rule-based fallback reply
// is substituted and the response still reports success. Only validation
// errors and pantry-lookup failures surface as errors to the caller.
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message cannot be empty", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	pantry, err := h.pantry.ListIngredientNames(r.Context(), userID)
	if err != nil {
		// Data-access failures are not covered by the AI fallback ladder.
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR",
			"An error occurred while processing your request: "+err.Error(), r))
		return
	}

	reply, err := h.assistant.Chat(r.Context(), message, pantry, req.ConversationHistory)
	if err != nil {
		var aiErr *services.AssistantError
		if errors.As(err, &aiErr) && aiErr.Reason == services.ReasonNotConfigured {
			log.Printf("AI service not available: %v. Using fallback response.", err)
		} else {
			log.Printf("AI service error: %v. Using fallback response.", err)
		}
		reply = services.FallbackReply(message)
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Message: reply, Success: true})
}

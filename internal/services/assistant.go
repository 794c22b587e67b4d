package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"mycabinet-backend/internal/models"
)

const (
	primaryModel  = "gemini-2.5-flash"
	fallbackModel = "gemini-2.5-pro"
)

// FailureReason classifies why the assistant could not produce a reply. The
// caller uses it to pick a log level; both reasons get the same rule-based
// substitute reply.
type FailureReason string

const (
	ReasonNotConfigured FailureReason = "not_configured"
	ReasonBackend       FailureReason = "backend_error"
)

type AssistantError struct {
	Reason FailureReason
	Err    error
}

func (e *AssistantError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *AssistantError) Unwrap() error { return e.Err }

// AssistantService answers cocktail questions through Gemini. The model
// handle is acquired lazily on first use and cached for the lifetime of the
// process; a failed acquisition leaves the cache empty so a later request can
// try again, while a successful one is never invalidated.
type AssistantService struct {
	apiKey string

	mu     sync.Mutex
	client *genai.Client
	model  *genai.GenerativeModel

	// initModel builds and probes one model candidate; swapped in tests.
	initModel func(ctx context.Context, name string) (*genai.GenerativeModel, error)
}

func NewAssistantService(apiKey string) *AssistantService {
	s := &AssistantService{apiKey: apiKey}
	s.initModel = s.newModel
	if apiKey == "" {
		log.Println("⚠ GEMINI_API_KEY not set. Assistant will use fallback replies only.")
	}
	return s
}

func (s *AssistantService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.Close()
	}
}

// Chat sends one user message to Gemini, replaying prior turns when history
// is present, and returns the model's reply verbatim. The pantry shapes the
// system prompt, which is restated as a prefix of every outgoing message
// rather than held as session state.
func (s *AssistantService) Chat(ctx context.Context, userMessage string, pantry []string, history []models.ChatMessage) (string, error) {
	if s.apiKey == "" {
		return "", &AssistantError{Reason: ReasonNotConfigured, Err: fmt.Errorf("GEMINI_API_KEY not configured")}
	}

	model, err := s.acquireModel(ctx)
	if err != nil {
		return "", &AssistantError{Reason: ReasonBackend, Err: err}
	}

	geminiHistory, dropped := toGeminiHistory(history)
	if dropped > 0 {
		log.Printf("Assistant: dropped %d history turn(s) with unknown role", dropped)
	}

	fullMessage := buildSystemPrompt(pantry) + "\n\nUser: " + userMessage

	var resp *genai.GenerateContentResponse
	if len(geminiHistory) > 0 {
		chat := model.StartChat()
		chat.History = geminiHistory
		resp, err = chat.SendMessage(ctx, genai.Text(fullMessage))
	} else {
		// First message, no session needed
		resp, err = model.GenerateContent(ctx, genai.Text(fullMessage))
	}
	if err != nil {
		return "", &AssistantError{Reason: ReasonBackend, Err: fmt.Errorf("Gemini API error: %w", err)}
	}

	text := extractText(resp)
	if text == "" {
		return "", &AssistantError{Reason: ReasonBackend, Err: fmt.Errorf("Gemini returned empty response")}
	}

	return text, nil
}

// acquireModel returns the cached model handle, initializing it on first use.
// A cold acquisition tries the primary model identifier, then the secondary,
// and caches whichever succeeds.
func (s *AssistantService) acquireModel(ctx context.Context) (*genai.GenerativeModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model != nil {
		return s.model, nil
	}

	var lastErr error
	for _, name := range []string{primaryModel, fallbackModel} {
		model, err := s.initModel(ctx, name)
		if err != nil {
			lastErr = err
			continue
		}
		s.model = model
		log.Printf("Initialized Gemini model: %s", name)
		return model, nil
	}

	return nil, fmt.Errorf("failed to initialize Gemini model: %w", lastErr)
}

func (s *AssistantService) newModel(ctx context.Context, name string) (*genai.GenerativeModel, error) {
	if s.client == nil {
		client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.client = client
	}

	model := s.client.GenerativeModel(name)
	model.SetTemperature(0.7)

	// Cheap probe so an unavailable model identifier fails here instead of
	// on the user's message.
	if _, err := model.CountTokens(ctx, genai.Text("ping")); err != nil {
		return nil, fmt.Errorf("model %s unavailable: %w", name, err)
	}

	return model, nil
}

// toGeminiHistory maps caller-facing turns into Gemini's role vocabulary:
// "assistant" becomes "model", "user" stays "user". Turns with any other role
// are dropped; the count of dropped turns is returned so the caller can log
// it.
func toGeminiHistory(history []models.ChatMessage) ([]*genai.Content, int) {
	var out []*genai.Content
	dropped := 0

	for _, msg := range history {
		role := ""
		switch msg.Role {
		case "user":
			role = "user"
		case "assistant":
			role = "model"
		default:
			dropped++
			continue
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	return out, dropped
}

// buildSystemPrompt is deterministic given the pantry: same ingredients in,
// same prompt out.
func buildSystemPrompt(pantryIngredients []string) string {
	var ingredientsContext string
	if len(pantryIngredients) > 0 {
		ingredientsContext = fmt.Sprintf(
			"The user currently has these ingredients in their cabinet: %s. "+
				"Use these ingredients when suggesting cocktails.",
			strings.Join(pantryIngredients, ", "),
		)
	} else {
		ingredientsContext = "The user's cabinet is currently empty - they have no ingredients yet."
	}

	return fmt.Sprintf(`You are a helpful cocktail assistant for MyCabinet, a cocktail recipe app.

%s

Your role:
- Help users discover cocktails they can make with ingredients they have
- Suggest cocktails based on their pantry ingredients
- Provide recipe instructions and ingredient lists
- Tell users what ingredients they're missing to make specific cocktails
- Answer questions about cocktails, ingredients, and mixing techniques

Guidelines:
- When suggesting cocktails, prioritize ones that use ingredients from their pantry
- Always mention which ingredients they have and which they're missing
- Be conversational, friendly, and helpful
- If they have no ingredients or very few, suggest simple cocktails or what to buy
- Format cocktail suggestions clearly with name, ingredients, and instructions
- If asked about a specific cocktail, provide the recipe and check against their pantry

Keep responses concise but informative. Focus on helping them make drinks with what they have!`, ingredientsContext)
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

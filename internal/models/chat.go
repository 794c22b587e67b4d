package models

// ChatMessage represents a single turn in a conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the assistant chat endpoint.
type ChatRequest struct {
	Message             string        `json:"message"`
	ConversationHistory []ChatMessage `json:"conversation_history"`
}

// ChatResponse is the assistant's reply. Success is true whenever a reply was
// produced, whether it came from Gemini or the rule-based fallback.
type ChatResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

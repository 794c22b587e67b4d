package services

import (
	"strings"
	"testing"
)

func TestFallbackReply_BranchSelection(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		contains string
	}{
		{"greeting", "Hello there", "Hello! I'm your cocktail assistant"},
		{"recipe", "any good cocktail recipes?", "find a cocktail recipe"},
		{"ingredient", "what can i make tonight", "Tell me what ingredients you have"},
		{"recommend", "recommend me a drink please", "find a cocktail recipe"}, // "drink" matches first
		{"suggestion", "got a suggestion?", "What's your preference"},
		{"how to make", "How do I make a Margarita?", "step by step"},
		{"default", "tell me about the weather", "That's interesting"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reply := FallbackReply(tc.message)
			if !strings.Contains(reply, tc.contains) {
				t.Errorf("Expected reply to contain %q, got %q", tc.contains, reply)
			}
		})
	}
}

func TestFallbackReply_PrecedenceOrder(t *testing.T) {
	// Greeting keywords outrank recipe keywords
	reply := FallbackReply("hello, I want a recipe")
	if !strings.Contains(reply, "Hello! I'm your cocktail assistant") {
		t.Errorf("Expected greeting branch to win over recipe branch, got %q", reply)
	}
}

func TestFallbackReply_CaseInsensitive(t *testing.T) {
	if FallbackReply("HEY") != FallbackReply("hey") {
		t.Error("Expected matching to be case-insensitive")
	}
}

func TestFallbackReply_AlwaysNonEmpty(t *testing.T) {
	for _, msg := range []string{"", "xyzzy", "!!!", "42"} {
		if FallbackReply(msg) == "" {
			t.Errorf("Expected non-empty reply for %q", msg)
		}
	}
}

func TestFallbackReply_Deterministic(t *testing.T) {
	msg := "suggest something"
	first := FallbackReply(msg)
	for i := 0; i < 5; i++ {
		if FallbackReply(msg) != first {
			t.Fatal("Expected identical replies for identical input")
		}
	}
}

package services

import "strings"

// FallbackReply generates a deterministic assistant reply from keywords in
// the user's message. It is used whenever Gemini is unconfigured or fails,
// and always returns a non-empty string. Matching is case-insensitive and the
// branch order is fixed: first match wins.
func FallbackReply(userMessage string) string {
	lower := strings.ToLower(userMessage)

	containsAny := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	if containsAny("hello", "hi", "hey") {
		return "Hello! I'm your cocktail assistant. How can I help you today?"
	}

	if containsAny("recipe", "drink", "cocktail") {
		return "I'd be happy to help you find a cocktail recipe! " +
			"What ingredients do you have on hand, or what type of drink " +
			"are you in the mood for?"
	}

	if containsAny("ingredient", "what can i make") {
		return "Tell me what ingredients you have, and I can suggest some " +
			"great cocktails you can make with them!"
	}

	if containsAny("recommend", "suggestion") {
		return "I'd love to recommend a cocktail! What's your preference - " +
			"something sweet, sour, strong, or refreshing?"
	}

	if strings.Contains(lower, "how") && strings.Contains(lower, "make") {
		return "I can walk you through making a cocktail step by step! " +
			"Which cocktail would you like to learn how to make?"
	}

	return "That's interesting! I'm here to help with cocktail recipes, " +
		"ingredient suggestions, and drink recommendations. " +
		"What would you like to know?"
}

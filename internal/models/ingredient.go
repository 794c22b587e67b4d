package models

import (
	"time"

	"github.com/google/uuid"
)

// PantryItem is one ingredient a user has recorded as available.
type PantryItem struct {
	IngredientID uuid.UUID `json:"ingredient_id"`
	Name         string    `json:"name"`
	AddedAt      time.Time `json:"added_at"`
}

type AddPantryItemRequest struct {
	Name string `json:"name"`
}

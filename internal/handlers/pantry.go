package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mycabinet-backend/internal/middleware"
	"mycabinet-backend/internal/models"
	"mycabinet-backend/internal/repository"
)

type pantryStore interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.PantryItem, error)
	Add(ctx context.Context, userID uuid.UUID, name string) (*models.PantryItem, error)
	Remove(ctx context.Context, userID, ingredientID uuid.UUID) error
}

type PantryHandler struct {
	pantryRepo pantryStore
}

func NewPantryHandler(pantryRepo pantryStore) *PantryHandler {
	return &PantryHandler{pantryRepo: pantryRepo}
}

func (h *PantryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.pantryRepo.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load pantry", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *PantryHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req models.AddPantryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Ingredient name is required", r))
		return
	}

	item, err := h.pantryRepo.Add(r.Context(), middleware.GetUserID(r.Context()), req.Name)
	if errors.Is(err, repository.ErrAlreadyInPantry) {
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Ingredient already in pantry", r))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to add ingredient", r))
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (h *PantryHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ingredientID, err := uuid.Parse(chi.URLParam(r, "ingredientID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid ingredient ID", r))
		return
	}

	err = h.pantryRepo.Remove(r.Context(), middleware.GetUserID(r.Context()), ingredientID)
	if errors.Is(err, pgx.ErrNoRows) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Ingredient not in pantry", r))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to remove ingredient", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Ingredient removed"})
}

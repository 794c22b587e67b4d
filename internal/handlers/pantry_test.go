package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mycabinet-backend/internal/models"
	"mycabinet-backend/internal/repository"
)

type stubPantryStore struct {
	items     []models.PantryItem
	listErr   error
	added     *models.PantryItem
	addErr    error
	addedName string
	removeErr error
	removedID uuid.UUID
}

func (s *stubPantryStore) List(ctx context.Context, userID uuid.UUID) ([]models.PantryItem, error) {
	return s.items, s.listErr
}

func (s *stubPantryStore) Add(ctx context.Context, userID uuid.UUID, name string) (*models.PantryItem, error) {
	s.addedName = name
	return s.added, s.addErr
}

func (s *stubPantryStore) Remove(ctx context.Context, userID, ingredientID uuid.UUID) error {
	s.removedID = ingredientID
	return s.removeErr
}

func TestPantryAdd_EmptyName(t *testing.T) {
	store := &stubPantryStore{}
	h := NewPantryHandler(store)

	for _, name := range []string{"", "   "} {
		rr := httptest.NewRecorder()
		h.Add(rr, authedRequest(t, http.MethodPost, "/api/v1/pantry", models.AddPantryItemRequest{Name: name}))

		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for name %q, got %d", name, rr.Code)
		}
		if store.addedName != "" {
			t.Errorf("Expected no add for name %q", name)
		}
	}
}

func TestPantryAdd_Conflict(t *testing.T) {
	store := &stubPantryStore{addErr: repository.ErrAlreadyInPantry}
	h := NewPantryHandler(store)

	rr := httptest.NewRecorder()
	h.Add(rr, authedRequest(t, http.MethodPost, "/api/v1/pantry", models.AddPantryItemRequest{Name: "gin"}))

	if rr.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d", rr.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error.Code != "CONFLICT" {
		t.Errorf("Expected CONFLICT, got %q", resp.Error.Code)
	}
}

func TestPantryAdd_Created(t *testing.T) {
	item := &models.PantryItem{IngredientID: uuid.New(), Name: "gin", AddedAt: time.Now()}
	store := &stubPantryStore{added: item}
	h := NewPantryHandler(store)

	rr := httptest.NewRecorder()
	h.Add(rr, authedRequest(t, http.MethodPost, "/api/v1/pantry", models.AddPantryItemRequest{Name: "gin"}))

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rr.Code)
	}

	var resp models.PantryItem
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Name != "gin" {
		t.Errorf("Expected added item in response, got %q", resp.Name)
	}
}

func TestPantryRemove_InvalidID(t *testing.T) {
	h := NewPantryHandler(&stubPantryStore{})

	req := authedRequest(t, http.MethodDelete, "/api/v1/pantry/not-a-uuid", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("ingredientID", "not-a-uuid")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	h.Remove(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}
}

func TestPantryRemove_NotFound(t *testing.T) {
	store := &stubPantryStore{removeErr: pgx.ErrNoRows}
	h := NewPantryHandler(store)

	id := uuid.New()
	req := authedRequest(t, http.MethodDelete, "/api/v1/pantry/"+id.String(), nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("ingredientID", id.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	h.Remove(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rr.Code)
	}
	if store.removedID != id {
		t.Errorf("Expected remove to be attempted for %s, got %s", id, store.removedID)
	}
}

func TestPantryList(t *testing.T) {
	store := &stubPantryStore{items: []models.PantryItem{
		{IngredientID: uuid.New(), Name: "gin", AddedAt: time.Now()},
		{IngredientID: uuid.New(), Name: "tonic", AddedAt: time.Now()},
	}}
	h := NewPantryHandler(store)

	rr := httptest.NewRecorder()
	h.List(rr, authedRequest(t, http.MethodGet, "/api/v1/pantry", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var resp struct {
		Items []models.PantryItem `json:"items"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Items) != 2 || resp.Items[0].Name != "gin" {
		t.Errorf("Expected two pantry items in order, got %v", resp.Items)
	}
}

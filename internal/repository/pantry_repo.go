package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mycabinet-backend/internal/models"
)

// ErrAlreadyInPantry is returned when the ingredient is already recorded for
// the user.
var ErrAlreadyInPantry = errors.New("ingredient already in pantry")

type PantryRepo struct {
	pool *pgxpool.Pool
}

func NewPantryRepo(pool *pgxpool.Pool) *PantryRepo {
	return &PantryRepo{pool: pool}
}

// ListIngredientNames returns the names of every ingredient in the user's
// pantry, in insertion order. An empty slice means the cabinet is empty.
func (r *PantryRepo) ListIngredientNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.name
		FROM user_ingredients ui
		JOIN ingredients i ON i.id = ui.ingredient_id
		WHERE ui.user_id = $1
		ORDER BY ui.added_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

func (r *PantryRepo) List(ctx context.Context, userID uuid.UUID) ([]models.PantryItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ui.ingredient_id, i.name, ui.added_at
		FROM user_ingredients ui
		JOIN ingredients i ON i.id = ui.ingredient_id
		WHERE ui.user_id = $1
		ORDER BY ui.added_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.PantryItem, 0)
	for rows.Next() {
		var item models.PantryItem
		if err := rows.Scan(&item.IngredientID, &item.Name, &item.AddedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Add records an ingredient in the user's pantry, creating the ingredient row
// if the name is new. Names are matched case-insensitively.
func (r *PantryRepo) Add(ctx context.Context, userID uuid.UUID, name string) (*models.PantryItem, error) {
	name = strings.TrimSpace(name)

	var ingredientID uuid.UUID
	err := r.pool.QueryRow(ctx,
		"SELECT id FROM ingredients WHERE LOWER(name) = LOWER($1)", name,
	).Scan(&ingredientID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Two concurrent adds of the same new name can both miss the select.
		// ON CONFLICT lets the loser fall through to re-read the winner's row.
		err = r.pool.QueryRow(ctx, `
			INSERT INTO ingredients (id, name)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
			RETURNING id
		`, uuid.New(), name).Scan(&ingredientID)
		if errors.Is(err, pgx.ErrNoRows) {
			err = r.pool.QueryRow(ctx,
				"SELECT id FROM ingredients WHERE LOWER(name) = LOWER($1)", name,
			).Scan(&ingredientID)
		}
	}
	if err != nil {
		return nil, err
	}

	tag, err := r.pool.Exec(ctx, `
		INSERT INTO user_ingredients (user_id, ingredient_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, ingredientID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrAlreadyInPantry
	}

	item := &models.PantryItem{}
	err = r.pool.QueryRow(ctx, `
		SELECT ui.ingredient_id, i.name, ui.added_at
		FROM user_ingredients ui
		JOIN ingredients i ON i.id = ui.ingredient_id
		WHERE ui.user_id = $1 AND ui.ingredient_id = $2
	`, userID, ingredientID).Scan(&item.IngredientID, &item.Name, &item.AddedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *PantryRepo) Remove(ctx context.Context, userID, ingredientID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM user_ingredients WHERE user_id = $1 AND ingredient_id = $2",
		userID, ingredientID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
